package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/balarcrens/helpyzo-api/config"
	"github.com/balarcrens/helpyzo-api/models"
)

func postVerify(router http.Handler, payload VerifyPaymentRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/payments/verify", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestVerifyPayment_Success(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()
	gateway := useMockPaymentGateway()

	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	service := createTestService(t, db)

	booking := createTestBooking(t, db, customer, service, models.StatusPending)
	orderID := "order_test_1"
	db.Model(booking).Update("payment_order_id", orderID)

	gateway.AcceptSignature(orderID, "pay_abc", "sig_valid")

	router := setupTestRouter()
	router.POST("/payments/verify", mockAuthMiddleware(customer.ID, customer.Role), VerifyPayment)

	w := postVerify(router, VerifyPaymentRequest{
		OrderID:   orderID,
		PaymentID: "pay_abc",
		Signature: "sig_valid",
	})

	assert.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "paid", data["payment_status"])
	assert.Equal(t, "pending", data["status"], "lifecycle status is untouched by payment")
}

func TestVerifyPayment_BadSignature(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()
	gateway := useMockPaymentGateway()

	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	service := createTestService(t, db)

	booking := createTestBooking(t, db, customer, service, models.StatusPending)
	orderID := "order_test_2"
	db.Model(booking).Update("payment_order_id", orderID)

	gateway.AcceptSignature(orderID, "pay_abc", "sig_valid")

	router := setupTestRouter()
	router.POST("/payments/verify", mockAuthMiddleware(customer.ID, customer.Role), VerifyPayment)

	w := postVerify(router, VerifyPaymentRequest{
		OrderID:   orderID,
		PaymentID: "pay_abc",
		Signature: "sig_forged",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "PAYMENT_ERROR", errorCode(t, w))

	// Payment status stays pending
	var fresh models.Booking
	db.First(&fresh, booking.ID)
	assert.Equal(t, models.PaymentPending, fresh.PaymentStatus)
}

func TestVerifyPayment_UnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()
	useMockPaymentGateway()

	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)

	router := setupTestRouter()
	router.POST("/payments/verify", mockAuthMiddleware(customer.ID, customer.Role), VerifyPayment)

	w := postVerify(router, VerifyPaymentRequest{
		OrderID:   "order_missing",
		PaymentID: "pay_abc",
		Signature: "sig",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "BOOKING_NOT_FOUND", errorCode(t, w))
}

func TestVerifyPayment_OnlyOwner(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()
	gateway := useMockPaymentGateway()

	owner := createTestUser(t, db, "owner@example.com", models.RoleCustomer)
	stranger := createTestUser(t, db, "stranger@example.com", models.RoleCustomer)
	service := createTestService(t, db)

	booking := createTestBooking(t, db, owner, service, models.StatusPending)
	orderID := "order_test_3"
	db.Model(booking).Update("payment_order_id", orderID)
	gateway.AcceptSignature(orderID, "pay_abc", "sig_valid")

	router := setupTestRouter()
	router.POST("/payments/verify", mockAuthMiddleware(stranger.ID, stranger.Role), VerifyPayment)

	w := postVerify(router, VerifyPaymentRequest{
		OrderID:   orderID,
		PaymentID: "pay_abc",
		Signature: "sig_valid",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, w))
}
