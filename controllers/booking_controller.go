package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/balarcrens/helpyzo-api/config"
	"github.com/balarcrens/helpyzo-api/logger"
	"github.com/balarcrens/helpyzo-api/models"
	"github.com/balarcrens/helpyzo-api/services"
)

// CreateBookingRequest represents the request body for creating a booking
type CreateBookingRequest struct {
	ServiceID     uint   `json:"service_id" binding:"required"`
	BookedDate    string `json:"booked_date" binding:"required"` // YYYY-MM-DD
	ScheduledTime string `json:"scheduled_time" binding:"required"`
	Notes         string `json:"notes"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=online cash"`
}

// UpdateBookingStatusRequest represents the request body for a status change
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePaymentStatusRequest represents the request body for a payment status change
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// RateBookingRequest represents the request body for rating a completed booking
type RateBookingRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review"`
}

// CreateBooking handles POST /api/v1/bookings - creates a new booking (customers only)
func CreateBooking(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// Only customers book services
	if user.Role != models.RoleCustomer {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only customers can create bookings",
			},
		})
		return
	}

	var req CreateBookingRequest
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

	bookedDate, err := time.Parse("2006-01-02", req.BookedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "booked_date must be in YYYY-MM-DD format",
			},
		})
		return
	}

	if _, err := time.Parse("15:04", req.ScheduledTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "scheduled_time must be in HH:MM format",
			},
		})
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.Where("is_active = ?", true).First(&service, req.ServiceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Service not found or inactive",
			},
		})
		return
	}

	booking := models.Booking{
		BookingNumber: models.NewBookingNumber(),
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: req.PaymentMethod,
		Amount:        service.Price,
		ServiceID:     service.ID,
		ServiceName:   service.Name,
		UserID:        user.ID,
		BookedDate:    bookedDate,
		ScheduledTime: req.ScheduledTime,
		Notes:         req.Notes,
	}
	if service.ImageS3Key != nil {
		booking.ServiceImage = *service.ImageS3Key
	}

	// Online payments go through the gateway before the booking is persisted,
	// so a gateway failure leaves no half-created record behind.
	if req.PaymentMethod == "online" {
		gateway := services.GetPaymentGateway()
		orderID, err := gateway.CreateOrder(booking.Amount, services.NewPaymentReceipt(booking.BookingNumber))
		if err != nil {
			logger.ErrorLogger.Errorf("payment order creation failed for %s: %v", booking.BookingNumber, err)
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PAYMENT_ERROR",
					"message": "Failed to create payment order",
				},
			})
			return
		}
		booking.PaymentOrderID = &orderID
	}

	if err := db.Create(&booking).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create booking",
			},
		})
		return
	}

	// Load relationships to return complete data
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

	logger.InfoLogger.Infof("booking %s created by user %d", booking.BookingNumber, user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    booking,
	})
}

// ListBookings handles GET /api/v1/bookings - lists bookings scoped by caller role.
// Customers see their own bookings, partners see their assigned bookings plus
// unassigned pending ones, admins and superadmins see everything.
func ListBookings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Model(&models.Booking{})

	switch user.Role {
	case models.RoleCustomer:
		query = query.Where("user_id = ?", user.ID)
	case models.RolePartner:
		query = query.Where("partner_id = ? OR (partner_id IS NULL AND status = ?)", user.ID, models.StatusPending)
	case models.RoleAdmin, models.RoleSuperadmin:
		// unrestricted
	default:
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Unknown role",
			},
		})
		return
	}

	// Optional status filter
	if statusParam := c.Query("status"); statusParam != "" {
		status, err := models.ParseBookingStatus(statusParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": err.Error(),
				},
			})
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count bookings",
			},
		})
		return
	}

	p := parsePagination(c)
	var bookings []models.Booking
	if err := query.
		Preload("User").
		Preload("Partner").
		Order("created_at DESC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch bookings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       bookings,
		"pagination": paginationResponse(p, total),
	})
}

// GetBooking handles GET /api/v1/bookings/:id - fetches a single booking
func GetBooking(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	booking, ok := loadBooking(c)
	if !ok {
		return
	}

	if !canAccessBooking(user, booking) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to access this booking",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    booking,
	})
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/:id/status - moves a
// booking along the status graph. Requesting the current status is a no-op.
func UpdateBookingStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateBookingStatusRequest
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

	target, err := models.ParseBookingStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	booking, ok := loadBooking(c)
	if !ok {
		return
	}

	// A partner confirming an unassigned pending booking takes it. Beyond
	// that, partners may only act on their own assignments; customers on
	// their own bookings. Superadmin override needs no relation at all.
	selfAssign := false
	switch user.Role {
	case models.RoleCustomer:
		if booking.UserID != user.ID {
			respondBookingForbidden(c)
			return
		}
	case models.RolePartner:
		switch {
		case booking.PartnerID != nil && *booking.PartnerID == user.ID:
		case booking.PartnerID == nil && booking.Status == models.StatusPending && target == models.StatusConfirmed:
			selfAssign = true
		default:
			respondBookingForbidden(c)
			return
		}
	case models.RoleAdmin, models.RoleSuperadmin:
		// unrestricted
	}

	// Idempotent: requesting the state the booking is already in succeeds
	// without touching the record.
	if booking.Status == target {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    booking,
		})
		return
	}

	cfg := config.GetConfig()
	cutoff := time.Duration(cfg.CancelCutoffHours) * time.Hour
	if err := booking.ValidateTransition(target, user.Role, time.Now(), cutoff); err != nil {
		var lifecycleErr *models.LifecycleError
		if errors.As(err, &lifecycleErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    lifecycleErr.Code,
					"message": lifecycleErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to validate status change",
			},
		})
		return
	}

	updates := map[string]interface{}{"status": target}
	if selfAssign {
		updates["partner_id"] = user.ID
	}

	db := config.GetDB()
	if err := db.Model(booking).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update booking status",
			},
		})
		return
	}

	if err := db.Preload("User").Preload("Partner").First(booking, booking.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load booking details",
			},
		})
		return
	}

	logger.InfoLogger.Infof("booking %s moved to %s by user %d (%s)", booking.BookingNumber, target, user.ID, user.Role)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    booking,
	})
}

// UpdatePaymentStatus handles PATCH /api/v1/bookings/:id/payment-status (admin/superadmin).
// Payment status is an independent axis: any of the four values can be set
// regardless of booking status.
func UpdatePaymentStatus(c *gin.Context) {
	var req UpdatePaymentStatusRequest
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

	paymentStatus, err := models.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	booking, ok := loadBooking(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := db.Model(booking).Update("payment_status", paymentStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update payment status",
			},
		})
		return
	}

	if err := db.Preload("User").Preload("Partner").First(booking, booking.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load booking details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    booking,
	})
}

// RateBooking handles POST /api/v1/bookings/:id/rating - attaches a one-time
// customer rating to a completed booking
func RateBooking(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req RateBookingRequest
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

	booking, ok := loadBooking(c)
	if !ok {
		return
	}

	// Only the booking's customer rates it
	if user.Role != models.RoleCustomer || booking.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only the booking's customer can rate it",
			},
		})
		return
	}

	if err := booking.ValidateRating(req.Rating); err != nil {
		var lifecycleErr *models.LifecycleError
		if errors.As(err, &lifecycleErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    lifecycleErr.Code,
					"message": lifecycleErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to validate rating",
			},
		})
		return
	}

	db := config.GetDB()
	updates := map[string]interface{}{
		"rating": req.Rating,
		"review": req.Review,
	}
	if err := db.Model(booking).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save rating",
			},
		})
		return
	}

	if err := db.Preload("User").Preload("Partner").First(booking, booking.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load booking details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    booking,
	})
}

// DeleteBooking handles DELETE /api/v1/bookings/:id - administrative hard
// delete (superadmin only), independent of status
func DeleteBooking(c *gin.Context) {
	booking, ok := loadBooking(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := db.Delete(booking).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete booking",
			},
		})
		return
	}

	logger.InfoLogger.Infof("booking %s deleted by superadmin", booking.BookingNumber)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking deleted",
	})
}

// loadBooking fetches the booking referenced by the :id path parameter with
// its relationships preloaded. Writes the error response on failure.
func loadBooking(c *gin.Context) (*models.Booking, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Booking ID is required",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var booking models.Booking
	if err := db.Preload("User").Preload("Partner").First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "BOOKING_NOT_FOUND",
					"message": "Booking not found",
				},
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to fetch booking",
				},
			})
		}
		return nil, false
	}

	return &booking, true
}

// canAccessBooking applies the role-scoped read rules from ListBookings to a
// single record
func canAccessBooking(user *models.User, booking *models.Booking) bool {
	switch user.Role {
	case models.RoleCustomer:
		return booking.UserID == user.ID
	case models.RolePartner:
		if booking.PartnerID != nil {
			return *booking.PartnerID == user.ID
		}
		return booking.Status == models.StatusPending
	case models.RoleAdmin, models.RoleSuperadmin:
		return true
	}
	return false
}

func respondBookingForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "You do not have permission to modify this booking",
		},
	})
}
