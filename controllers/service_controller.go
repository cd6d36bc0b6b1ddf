package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/balarcrens/helpyzo-api/config"
	"github.com/balarcrens/helpyzo-api/logger"
	"github.com/balarcrens/helpyzo-api/models"
	"github.com/balarcrens/helpyzo-api/services"
)

// ServiceRequest represents the request body for creating or updating a service
type ServiceRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" binding:"required,gte=0"`
	DurationMinutes int     `json:"duration_minutes" binding:"omitempty,gt=0"`
	CategoryID      uint    `json:"category_id" binding:"required"`
	IsActive        *bool   `json:"is_active"`
}

// ListServices handles GET /api/v1/services - public catalog listing,
// filterable by category
func ListServices(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Service{}).Where("is_active = ?", true)

	if categoryParam := c.Query("category_id"); categoryParam != "" {
		categoryID, err := strconv.Atoi(categoryParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "category_id must be numeric",
				},
			})
			return
		}
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count services",
			},
		})
		return
	}

	p := parsePagination(c)
	var items []models.Service
	if err := query.
		Preload("Category").
		Order("name ASC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch services",
			},
		})
		return
	}

	attachImageURLs(items)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       items,
		"pagination": paginationResponse(p, total),
	})
}

// GetService handles GET /api/v1/services/:id
func GetService(c *gin.Context) {
	service, ok := loadService(c)
	if !ok {
		return
	}

	attachImageURL(service)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service,
	})
}

// CreateService handles POST /api/v1/services (admin/superadmin)
func CreateService(c *gin.Context) {
	var req ServiceRequest
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
	var category models.Category
	if err := db.First(&category, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATEGORY_NOT_FOUND",
				"message": "Category not found",
			},
		})
		return
	}

	service := models.Service{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: 60,
		CategoryID:      category.ID,
		IsActive:        true,
	}
	if req.DurationMinutes > 0 {
		service.DurationMinutes = req.DurationMinutes
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := db.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create service",
			},
		})
		return
	}

	if err := db.Preload("Category").First(&service, service.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load service details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    service,
	})
}

// UpdateService handles PUT /api/v1/services/:id (admin/superadmin)
func UpdateService(c *gin.Context) {
	var req ServiceRequest
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

	service, ok := loadService(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if req.CategoryID != service.CategoryID {
		var category models.Category
		if err := db.First(&category, req.CategoryID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CATEGORY_NOT_FOUND",
					"message": "Category not found",
				},
			})
			return
		}
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"price":       req.Price,
		"category_id": req.CategoryID,
	}
	if req.DurationMinutes > 0 {
		updates["duration_minutes"] = req.DurationMinutes
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := db.Model(service).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update service",
			},
		})
		return
	}

	if err := db.Preload("Category").First(service, service.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load service details",
			},
		})
		return
	}

	attachImageURL(service)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service,
	})
}

// DeleteService handles DELETE /api/v1/services/:id (admin/superadmin).
// Existing bookings keep their denormalized service name and image.
func DeleteService(c *gin.Context) {
	service, ok := loadService(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := db.Delete(service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete service",
			},
		})
		return
	}

	if service.ImageS3Key != nil {
		if imageService := services.GetImageService(); imageService != nil {
			if err := imageService.DeleteImage(*service.ImageS3Key); err != nil {
				logger.ErrorLogger.Errorf("failed to delete image for service %d: %v", service.ID, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Service deleted",
	})
}

// UploadServiceImage handles POST /api/v1/services/:id/image (admin/superadmin).
// Accepts a multipart "image" file, stores it in S3 and records the key.
func UploadServiceImage(c *gin.Context) {
	service, ok := loadService(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "An image file is required",
			},
		})
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Image storage is not configured",
			},
		})
		return
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	// Replace any previous image
	oldKey := service.ImageS3Key

	db := config.GetDB()
	if err := db.Model(service).Update("image_s3_key", imageKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save image reference",
			},
		})
		return
	}

	if oldKey != nil && *oldKey != imageKey {
		if err := imageService.DeleteImage(*oldKey); err != nil {
			logger.ErrorLogger.Errorf("failed to delete replaced image %s: %v", *oldKey, err)
		}
	}

	service.ImageS3Key = &imageKey
	attachImageURL(service)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service,
	})
}

// loadService fetches the service referenced by the :id path parameter with
// its category preloaded. Writes the error response on failure.
func loadService(c *gin.Context) (*models.Service, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Service ID must be numeric",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var service models.Service
	if err := db.Preload("Category").First(&service, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Service not found",
			},
		})
		return nil, false
	}

	return &service, true
}

// attachImageURL fills the computed ImageURL field from the image service
func attachImageURL(service *models.Service) {
	if service.ImageS3Key == nil {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(*service.ImageS3Key)
	if err != nil {
		logger.ErrorLogger.Errorf("failed to build image URL for service %d: %v", service.ID, err)
		return
	}
	if url != "" {
		service.ImageURL = &url
	}
}

func attachImageURLs(items []models.Service) {
	for i := range items {
		attachImageURL(&items[i])
	}
}
