package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/balarcrens/helpyzo-api/config"
	"github.com/balarcrens/helpyzo-api/models"
	"github.com/balarcrens/helpyzo-api/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Service{},
		&models.Booking{},
		&models.Message{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// setupTestConfig installs a minimal config so handlers that read cutoffs or
// token settings work without environment files.
func setupTestConfig() {
	config.SetConfig(&config.Config{
		GoEnv:             "test",
		JWTSecret:         "test-secret",
		JWTExpiryHours:    1,
		CancelCutoffHours: 2,
	})
}

// mockAuthMiddleware sets the context the way RequireAuth does after
// validating a token
func mockAuthMiddleware(userID uint, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_role", role)
		c.Next()
	}
}

// createTestUser inserts a user with the given role and returns it
func createTestUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	user := &models.User{
		Name:  "Test " + string(role),
		Email: email,
		Role:  role,
	}
	if err := user.SetPassword("password123"); err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// createTestService inserts a category and an active service priced at 500
func createTestService(t *testing.T, db *gorm.DB) *models.Service {
	category := models.Category{Name: "Cleaning"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}

	service := &models.Service{
		Name:            "Deep Home Cleaning",
		Price:           500,
		DurationMinutes: 120,
		CategoryID:      category.ID,
		IsActive:        true,
	}
	if err := db.Create(service).Error; err != nil {
		t.Fatalf("Failed to create test service: %v", err)
	}
	return service
}

// createTestBooking inserts a booking for the given customer in the given
// status, scheduled two days out so cancellation windows stay open
func createTestBooking(t *testing.T, db *gorm.DB, user *models.User, service *models.Service, status models.BookingStatus) *models.Booking {
	booking := &models.Booking{
		BookingNumber: models.NewBookingNumber(),
		Status:        status,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: "cash",
		Amount:        service.Price,
		ServiceID:     service.ID,
		ServiceName:   service.Name,
		UserID:        user.ID,
		BookedDate:    time.Now().Add(48 * time.Hour),
		ScheduledTime: "14:00",
	}
	if err := db.Create(booking).Error; err != nil {
		t.Fatalf("Failed to create test booking: %v", err)
	}
	return booking
}

// decodeResponse unmarshals the JSON response envelope
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return response
}

// errorCode extracts error.code from a failed response envelope
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	response := decodeResponse(t, w)
	errorData, ok := response["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("Response has no error envelope: %s", w.Body.String())
	}
	code, _ := errorData["code"].(string)
	return code
}

// useMockPaymentGateway swaps in the mock gateway and returns it
func useMockPaymentGateway() *services.MockPaymentGateway {
	mock := services.NewMockPaymentGateway()
	services.SetPaymentGateway(mock)
	return mock
}
