package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"grantledger/internal/config"
	apperrors "grantledger/internal/errors"
	"grantledger/internal/models"
)

const (
	userContextKey = "user"
	tokenIssuer    = "grantledger-api"
)

// UserLookup resolves the subject of a token to a directory entry.
type UserLookup interface {
	GetUserByID(id string) (*models.User, error)
}

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID    string      `json:"user_id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	ProjectID string      `json:"project_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed access token for user.
func GenerateToken(user *models.User) (string, error) {
	expiry := config.Get().JWTExpirationDur
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	now := time.Now()
	claims := &JWTClaims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		ProjectID: user.AssignedProjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// ParseToken validates a signed token and returns its claims.
func ParseToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// AuthMiddleware verifies the bearer token and stores the directory user in
// the context. A token whose role or project no longer matches the directory
// is rejected.
func AuthMiddleware(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		user, err := users.GetUserByID(claims.UserID)
		if err != nil || user.Role != claims.Role || user.AssignedProjectID != claims.ProjectID {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(userContextKey, *user)
		c.Next()
	}
}

// SetUser stores user as the authenticated actor.
func SetUser(c *gin.Context, user models.User) {
	c.Set(userContextKey, user)
}

// CurrentUser returns the authenticated actor, if any.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrUnauthorized.Code,
			"message": message,
		},
	})
}
