package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/balarcrens/helpyzo-api/config"
	"github.com/balarcrens/helpyzo-api/models"
)

func TestListPartners(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	createTestUser(t, db, "customer@example.com", models.RoleCustomer)
	verified := createTestUser(t, db, "verified@example.com", models.RolePartner)
	db.Model(verified).Update("verified", true)
	createTestUser(t, db, "unverified@example.com", models.RolePartner)

	router := setupTestRouter()
	router.GET("/partners", mockAuthMiddleware(admin.ID, admin.Role), ListPartners)

	// All partners, customers excluded
	req := httptest.NewRequest(http.MethodGet, "/partners", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	data := response["data"].([]interface{})
	assert.Len(t, data, 2)

	// Verified filter
	req = httptest.NewRequest(http.MethodGet, "/partners?verified=true", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response = decodeResponse(t, w)
	data = response["data"].([]interface{})
	assert.Len(t, data, 1)

	// Garbage filter rejected
	req = httptest.NewRequest(http.MethodGet, "/partners?verified=maybe", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestVerifyPartner(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig()

	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	partner := createTestUser(t, db, "partner@example.com", models.RolePartner)
	customer := createTestUser(t, db, "customer@example.com", models.RoleCustomer)

	router := setupTestRouter()
	router.PATCH("/partners/:id/verify", mockAuthMiddleware(admin.ID, admin.Role), VerifyPartner)

	verify := func(id uint, verified bool) *httptest.ResponseRecorder {
		payload := VerifyPartnerRequest{Verified: &verified}
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/partners/%d/verify", id), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// Verify and un-verify
	w := verify(partner.ID, true)
	assert.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	var fresh models.User
	db.First(&fresh, partner.ID)
	assert.True(t, fresh.Verified)

	w = verify(partner.ID, false)
	assert.Equal(t, http.StatusOK, w.Code)
	db.First(&fresh, partner.ID)
	assert.False(t, fresh.Verified)

	// A customer account is not a partner
	w = verify(customer.ID, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PARTNER_NOT_FOUND", errorCode(t, w))

	// Body without the flag fails binding
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/partners/%d/verify", partner.ID), bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}
