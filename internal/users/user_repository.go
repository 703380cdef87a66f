package users

import (
	"errors"
	"fmt"

	"github.com/annisazulfa99/inventaris/internal/repository"
	custom_error "github.com/annisazulfa99/inventaris/pkg/errors"
	"github.com/annisazulfa99/inventaris/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	PersistUser(req models.CreateUserRequest, hashedPassword []byte) error
	GetUser(id int) (*models.User, error)
	GetUsers() ([]models.User, error)
	GetUsersByRole(role string) ([]models.User, error)
	UpdateUser(id int, changes *models.UserChanges) error
	UsernameExists(username string) (bool, error)
}

type userRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *userRepository {
	return &userRepository{repository: r}
}

// PersistUser creates the account and its role extension row in one
// transaction; a user backs exactly one of admin/peminjam/instansi.
func (r *userRepository) PersistUser(req models.CreateUserRequest, hashedPassword []byte) error {
	err := r.repository.WithTransaction(func(tx *goqu.TxDatabase) error {
		insertUser := tx.Insert("users").
			Rows(goqu.Record{
				"username":      req.Username,
				"password_hash": string(hashedPassword),
				"nama":          req.Nama,
				"role":          req.Role,
				"status":        "aktif",
			}).
			Returning("id_user")

		var userID int
		if _, err := insertUser.Executor().ScanVal(&userID); err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}

		var roleRow *goqu.InsertDataset
		switch req.Role {
		case "peminjam":
			roleRow = tx.Insert("peminjam").Rows(goqu.Record{
				"id_user":    userID,
				"no_telepon": req.NoTelepon,
			})
		case "instansi":
			roleRow = tx.Insert("instansi").Rows(goqu.Record{
				"id_user":       userID,
				"nama_instansi": req.NamaInstansi,
			})
		case "admin":
			roleRow = tx.Insert("admin").Rows(goqu.Record{"id_user": userID})
		default:
			return fmt.Errorf("unknown role: %s", req.Role)
		}

		if _, err := roleRow.Executor().Exec(); err != nil {
			return fmt.Errorf("failed to insert %s row: %w", req.Role, err)
		}

		return nil
	})

	if err != nil {
		if pqErr, ok := errors.Unwrap(err).(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate username "+req.Username, string(pqErr.Code))
		}
		return err
	}

	return nil
}

func (r *userRepository) GetUser(id int) (*models.User, error) {
	var user models.User
	query := r.repository.GoquDBWrapper.
		Select("id_user", "username", "nama", "password_hash", "role", "status", "created_at").
		From("users").
		Where(goqu.Ex{"id_user": id})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("unable to select user %d: %w", id, err)
	}
	if !found {
		return nil, ErrUserNotFound
	}

	return &user, nil
}

func (r *userRepository) GetUsers() ([]models.User, error) {
	var users []models.User
	query := r.repository.GoquDBWrapper.
		Select("id_user", "username", "nama", "password_hash", "role", "status", "created_at").
		From("users").
		Order(goqu.I("created_at").Desc())

	if err := query.Executor().ScanStructs(&users); err != nil {
		return nil, fmt.Errorf("unable to select users: %w", err)
	}

	return users, nil
}

func (r *userRepository) GetUsersByRole(role string) ([]models.User, error) {
	var users []models.User
	query := r.repository.GoquDBWrapper.
		Select("id_user", "username", "nama", "password_hash", "role", "status", "created_at").
		From("users").
		Where(goqu.Ex{"role": role}).
		Order(goqu.I("created_at").Desc())

	if err := query.Executor().ScanStructs(&users); err != nil {
		return nil, fmt.Errorf("unable to select users by role: %w", err)
	}

	return users, nil
}

func (r *userRepository) UpdateUser(id int, changes *models.UserChanges) error {
	updates := goqu.Record{}
	if changes.PasswordHash != nil {
		updates["password_hash"] = *changes.PasswordHash
	}
	if changes.Nama != nil {
		updates["nama"] = *changes.Nama
	}
	if changes.Status != nil {
		updates["status"] = *changes.Status
	}

	query := r.repository.GoquDBWrapper.
		Update("users").
		Set(updates).
		Where(goqu.Ex{"id_user": id})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) UsernameExists(username string) (bool, error) {
	var count int
	query := r.repository.GoquDBWrapper.
		From("users").
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"username": username})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return false, fmt.Errorf("unable to check username: %w", err)
	}

	return count > 0, nil
}
