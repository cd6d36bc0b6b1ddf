package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/balarcrens/helpyzo-api/config"
	"github.com/balarcrens/helpyzo-api/models"
)

// CategoryRequest represents the request body for creating or updating a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// ListCategories handles GET /api/v1/categories - public category listing
func ListCategories(c *gin.Context) {
	db := config.GetDB()
	var categories []models.Category
	if err := db.Order("name ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch categories",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

// CreateCategory handles POST /api/v1/categories (admin/superadmin)
func CreateCategory(c *gin.Context) {
	var req CategoryRequest
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

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}

	db := config.GetDB()
	if err := db.Create(&category).Error; err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "unique") || strings.Contains(errMsg, "duplicate") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CATEGORY_EXISTS",
					"message": "A category with this name already exists",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create category",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    category,
	})
}

// UpdateCategory handles PUT /api/v1/categories/:id (admin/superadmin)
func UpdateCategory(c *gin.Context) {
	var req CategoryRequest
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

	category, ok := loadCategory(c)
	if !ok {
		return
	}

	db := config.GetDB()
	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"icon":        req.Icon,
	}
	if err := db.Model(category).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update category",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    category,
	})
}

// DeleteCategory handles DELETE /api/v1/categories/:id (admin/superadmin)
func DeleteCategory(c *gin.Context) {
	category, ok := loadCategory(c)
	if !ok {
		return
	}

	db := config.GetDB()

	// Refuse to orphan services
	var serviceCount int64
	if err := db.Model(&models.Service{}).Where("category_id = ?", category.ID).Count(&serviceCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check category usage",
			},
		})
		return
	}
	if serviceCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATEGORY_IN_USE",
				"message": "Category still has services; move or delete them first",
			},
		})
		return
	}

	if err := db.Delete(category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete category",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted",
	})
}

// loadCategory fetches the category referenced by the :id path parameter.
// Writes the error response on failure.
func loadCategory(c *gin.Context) (*models.Category, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Category ID must be numeric",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATEGORY_NOT_FOUND",
				"message": "Category not found",
			},
		})
		return nil, false
	}

	return &category, true
}
