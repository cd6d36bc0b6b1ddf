package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/balarcrens/helpyzo-api/config"
	"github.com/balarcrens/helpyzo-api/models"
)

// Claims is the payload of an access token issued by this API.
type Claims struct {
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed HS256 access token for the given user.
func GenerateToken(user *models.User, cfg *config.Config) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.JWTExpiryHours) * time.Hour)),
			Issuer:    "helpyzo-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a signed token string and returns its claims.
func ParseToken(tokenString string, cfg *config.Config) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("unknown role in token")
	}
	return claims, nil
}

// RequireAuth is a middleware that will check the validity of the bearer token.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Missing or malformed Authorization header",
				},
			})
			return
		}

		claims, err := ParseToken(authHeader[len("Bearer "):], config.GetConfig())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Failed to validate token",
				},
			})
			return
		}

		// Store the validated claims in Gin context
		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Set("claims", claims)

		c.Next()
	}
}

// RequireRole is a middleware that checks if the authenticated user holds one
// of the given roles. Must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetUserRole(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Could not extract user information",
				},
			})
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Insufficient permissions to access this resource",
			},
		})
	}
}

// GetUserID extracts the authenticated user's ID from the Gin context
func GetUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	id, ok := userID.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID has an unexpected type"}
	}

	return id, nil
}

// GetUserRole extracts the authenticated user's role from the Gin context
func GetUserRole(c *gin.Context) (models.Role, error) {
	role, exists := c.Get("user_role")
	if !exists {
		return "", &AuthError{Code: "MISSING_ROLE", Message: "Role not found in context"}
	}

	r, ok := role.(models.Role)
	if !ok || !r.Valid() {
		return "", &AuthError{Code: "INVALID_ROLE", Message: "Role has an unexpected value"}
	}

	return r, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
