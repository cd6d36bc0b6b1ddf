package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/balarcrens/helpyzo-api/config"
	"github.com/balarcrens/helpyzo-api/middleware"
	"github.com/balarcrens/helpyzo-api/models"
)

// currentUser loads the authenticated user's database record. On failure it
// writes the error response and returns false; handlers should just return.
func currentUser(c *gin.Context) (*models.User, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User account not found",
			},
		})
		return nil, false
	}

	return &user, true
}

// pagination holds parsed page/limit query parameters
type pagination struct {
	Page   int
	Limit  int
	Offset int
}

// parsePagination reads page/limit query parameters with sane defaults
func parsePagination(c *gin.Context) pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	return pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// paginationResponse builds the pagination envelope for list endpoints
func paginationResponse(p pagination, total int64) gin.H {
	totalPages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		totalPages++
	}
	return gin.H{
		"page":       p.Page,
		"limit":      p.Limit,
		"total":      total,
		"totalPages": totalPages,
	}
}
