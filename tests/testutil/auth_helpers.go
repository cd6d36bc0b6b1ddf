package testutil

import (
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/balarcrens/helpyzo-api/config"
	"github.com/balarcrens/helpyzo-api/middleware"
	"github.com/balarcrens/helpyzo-api/models"
)

// TestJWTConfig returns a config suitable for issuing and validating tokens in
// tests. Install it with config.SetConfig before exercising auth middleware.
func TestJWTConfig() *config.Config {
	return &config.Config{
		GoEnv:             "test",
		JWTSecret:         "test-secret",
		JWTExpiryHours:    1,
		CancelCutoffHours: 2,
	}
}

// IssueToken signs a real access token for the given user with the test secret
func IssueToken(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := middleware.GenerateToken(user, TestJWTConfig())
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// SetMockAuthContext sets up an authenticated context the way RequireAuth does
func SetMockAuthContext(c *gin.Context, userID uint, role models.Role) {
	c.Set("user_id", userID)
	c.Set("user_role", role)
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(nil)
	return c, engine
}
