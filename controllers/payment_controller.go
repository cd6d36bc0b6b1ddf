package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/balarcrens/helpyzo-api/config"
	"github.com/balarcrens/helpyzo-api/logger"
	"github.com/balarcrens/helpyzo-api/models"
	"github.com/balarcrens/helpyzo-api/services"
)

// VerifyPaymentRequest represents the Razorpay checkout callback payload
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// VerifyPayment handles POST /api/v1/payments/verify - validates the checkout
// signature returned by the gateway and marks the matching booking as paid.
// The booking's lifecycle status is untouched; payment is an independent axis.
func VerifyPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var booking models.Booking
	if err := db.Where("payment_order_id = ?", req.OrderID).First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BOOKING_NOT_FOUND",
				"message": "No booking matches this payment order",
			},
		})
		return
	}

	// Only the paying customer completes the checkout flow
	if booking.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to verify this payment",
			},
		})
		return
	}

	gateway := services.GetPaymentGateway()
	if !gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		logger.ErrorLogger.Errorf("payment signature rejected for booking %s", booking.BookingNumber)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PAYMENT_ERROR",
				"message": "Payment signature verification failed",
			},
		})
		return
	}

	if err := db.Model(&booking).Update("payment_status", models.PaymentPaid).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update payment status",
			},
		})
		return
	}

	if err := db.Preload("User").Preload("Partner").First(&booking, booking.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load booking details",
			},
		})
		return
	}

	logger.InfoLogger.Infof("payment verified for booking %s", booking.BookingNumber)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    booking,
	})
}
