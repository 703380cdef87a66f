package security

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/annisazulfa99/inventaris/internal/repository"
	"github.com/annisazulfa99/inventaris/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")

	if secret == "" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Could not load .env: %v", err)
		}
		secret = os.Getenv("JWT_SECRET")
	}

	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtSecret = []byte(secret)
}

// AuthenticateUser verifies credentials against an active account and
// resolves the role-scoped key (id_peminjam / id_instansi / id_admin).
func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, int, error) {
	var user models.User

	query := repo.GoquDBWrapper.
		Select("id_user", "username", "nama", "password_hash", "role", "status").
		From("users").
		Where(goqu.Ex{"username": username, "status": "aktif"})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, 0, err
	}
	if !found {
		return nil, 0, fmt.Errorf("user %s not found or inactive", username)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, 0, err
	}

	roleID, err := resolveRoleID(repo, user.Role, user.ID)
	if err != nil {
		return nil, 0, err
	}

	return &user, roleID, nil
}

func resolveRoleID(repo *repository.Repository, role string, userID int) (int, error) {
	var table, column string
	switch role {
	case "admin":
		table, column = "admin", "id_admin"
	case "peminjam":
		table, column = "peminjam", "id_peminjam"
	case "instansi":
		table, column = "instansi", "id_instansi"
	default:
		return 0, fmt.Errorf("unknown role: %s", role)
	}

	var roleID int
	query := repo.GoquDBWrapper.Select(column).From(table).Where(goqu.Ex{"id_user": userID})
	found, err := query.Executor().ScanVal(&roleID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("no %s row for user %d", table, userID)
	}

	return roleID, nil
}

func GenerateJWT(userID int, role string, roleID int, username string) (string, error) {
	claims := jwt.MapClaims{
		"userID":   userID,
		"role":     role,
		"roleID":   roleID,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}
