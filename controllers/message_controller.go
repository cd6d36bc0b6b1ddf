package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/balarcrens/helpyzo-api/config"
	"github.com/balarcrens/helpyzo-api/models"
)

// ContactRequest represents the request body for the contact form
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Body    string `json:"body" binding:"required"`
}

// SendMessage handles POST /api/v1/contact - accepts a contact-form submission
// from the marketing site (no authentication required)
func SendMessage(c *gin.Context) {
	var req ContactRequest
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

	message := models.Message{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	}

	db := config.GetDB()
	if err := db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save message",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

// ListMessages handles GET /api/v1/contact - lists contact-form submissions (admin/superadmin)
func ListMessages(c *gin.Context) {
	db := config.GetDB()

	var total int64
	if err := db.Model(&models.Message{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count messages",
			},
		})
		return
	}

	p := parsePagination(c)
	var messages []models.Message
	if err := db.Model(&models.Message{}).
		Order("created_at DESC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch messages",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       messages,
		"pagination": paginationResponse(p, total),
	})
}
