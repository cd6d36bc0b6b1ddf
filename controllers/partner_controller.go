package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/balarcrens/helpyzo-api/config"
	"github.com/balarcrens/helpyzo-api/logger"
	"github.com/balarcrens/helpyzo-api/models"
)

// VerifyPartnerRequest represents the request body for toggling partner verification
type VerifyPartnerRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// ListPartners handles GET /api/v1/partners - lists partner accounts (admin/superadmin)
func ListPartners(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.User{}).Where("role = ?", models.RolePartner)

	if verifiedParam := c.Query("verified"); verifiedParam != "" {
		verified, err := strconv.ParseBool(verifiedParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "verified must be true or false",
				},
			})
			return
		}
		query = query.Where("verified = ?", verified)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count partners",
			},
		})
		return
	}

	p := parsePagination(c)
	var partners []models.User
	if err := query.
		Order("created_at DESC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&partners).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch partners",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       partners,
		"pagination": paginationResponse(p, total),
	})
}

// VerifyPartner handles PATCH /api/v1/partners/:id/verify - sets the partner
// vetting flag (admin/superadmin)
func VerifyPartner(c *gin.Context) {
	var req VerifyPartnerRequest
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

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Partner ID must be numeric",
			},
		})
		return
	}

	db := config.GetDB()
	var partner models.User
	if err := db.Where("role = ?", models.RolePartner).First(&partner, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PARTNER_NOT_FOUND",
				"message": "Partner not found",
			},
		})
		return
	}

	if err := db.Model(&partner).Update("verified", *req.Verified).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update partner",
			},
		})
		return
	}

	logger.InfoLogger.Infof("partner %d verified=%t", partner.ID, *req.Verified)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    partner,
	})
}
