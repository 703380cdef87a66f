package security

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/annisazulfa99/inventaris/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTMiddleware validates the token and exposes the authenticated
// identity on the request context. This context is the only session
// state the service carries.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return jwtSecret, nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims := token.Claims.(jwt.MapClaims)
		c.Set("userID", intClaim(claims, "userID"))
		c.Set("role", claims["role"])
		c.Set("roleID", intClaim(claims, "roleID"))
		c.Set("username", claims["username"])
		c.Next()
	}
}

// numeric claims come back as float64 after JSON decoding
func intClaim(claims jwt.MapClaims, key string) int {
	if v, ok := claims[key].(float64); ok {
		return int(v)
	}
	return 0
}

// Authorize allows the request only for the listed roles. Roles are
// not hierarchical here; admin must be listed explicitly.
func Authorize(allowed ...roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}
		roleStr, ok := value.(string)
		if !ok || !roles.Role(roleStr).IsValid() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid role"})
			c.Abort()
			return
		}

		for _, role := range allowed {
			if roles.Role(roleStr) == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
		c.Abort()
	}
}

// CapabilitiesFromContext builds the caller's capability set from the
// claims JWTMiddleware stored on the context.
func CapabilitiesFromContext(c *gin.Context) roles.Capabilities {
	roleStr, _ := c.Get("role")
	role, _ := roleStr.(string)
	return roles.CapabilitiesFor(roles.Role(role), c.GetInt("roleID"))
}

// ActorFromContext returns the authenticated username and role for
// activity logging.
func ActorFromContext(c *gin.Context) (username string, role string) {
	if v, ok := c.Get("username"); ok {
		username, _ = v.(string)
	}
	if v, ok := c.Get("role"); ok {
		role, _ = v.(string)
	}
	return username, role
}
