package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/balarcrens/helpyzo-api/config"
	"github.com/balarcrens/helpyzo-api/controllers"
	"github.com/balarcrens/helpyzo-api/logger"
	"github.com/balarcrens/helpyzo-api/middleware"
	"github.com/balarcrens/helpyzo-api/models"
	"github.com/balarcrens/helpyzo-api/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.InitLoggers()
	logger.InfoLogger.Info("Starting Helpyzo API server...")

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Service{},
		&models.Booking{},
		&models.Message{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	logger.InfoLogger.Info("Database migration completed successfully")

	s3Service, err := services.InitS3Service()
	if err != nil {
		logger.ErrorLogger.Errorf("S3 unavailable, image uploads disabled: %v", err)
	} else {
		services.InitImageService(s3Service)
	}
	services.InitPaymentGateway()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg)))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit("10-M"))
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", controllers.ListCategories)
			staff := categories.Group("")
			staff.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin))
			{
				staff.POST("", controllers.CreateCategory)
				staff.PUT("/:id", controllers.UpdateCategory)
				staff.DELETE("/:id", controllers.DeleteCategory)
			}
		}

		svc := v1.Group("/services")
		{
			svc.GET("", controllers.ListServices)
			svc.GET("/:id", controllers.GetService)
			staff := svc.Group("")
			staff.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin))
			{
				staff.POST("", controllers.CreateService)
				staff.PUT("/:id", controllers.UpdateService)
				staff.DELETE("/:id", controllers.DeleteService)
				staff.POST("/:id/image", controllers.UploadServiceImage)
			}
		}

		bookings := v1.Group("/bookings")
		bookings.Use(middleware.RequireAuth())
		{
			bookings.POST("", middleware.RequireRole(models.RoleCustomer), controllers.CreateBooking)
			bookings.GET("", controllers.ListBookings)
			bookings.GET("/:id", controllers.GetBooking)
			bookings.PATCH("/:id/status", controllers.UpdateBookingStatus)
			bookings.PATCH("/:id/payment-status",
				middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin),
				controllers.UpdatePaymentStatus)
			bookings.POST("/:id/rating", middleware.RequireRole(models.RoleCustomer), controllers.RateBooking)
			bookings.DELETE("/:id", middleware.RequireRole(models.RoleSuperadmin), controllers.DeleteBooking)
		}

		users := v1.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("/me", controllers.GetMyProfile)
			users.PUT("/me", controllers.UpdateMyProfile)
			users.GET("", middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin), controllers.ListUsers)
			users.DELETE("/:id", middleware.RequireRole(models.RoleSuperadmin), controllers.DeleteUser)
		}

		partners := v1.Group("/partners")
		partners.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin))
		{
			partners.GET("", controllers.ListPartners)
			partners.PATCH("/:id/verify", controllers.VerifyPartner)
		}

		contact := v1.Group("/contact")
		{
			contact.POST("", middleware.RateLimit("5-M"), controllers.SendMessage)
			contact.GET("",
				middleware.RequireAuth(),
				middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin),
				controllers.ListMessages)
		}

		payments := v1.Group("/payments")
		payments.Use(middleware.RequireAuth())
		{
			payments.POST("/verify", controllers.VerifyPayment)
		}

		v1.GET("/uploads/:filename", controllers.GetUploadedImage)
	}

	addr := ":" + cfg.Port
	logger.InfoLogger.Infof("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// corsConfig builds the CORS policy from the configured origin list
func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	origins := strings.Split(cfg.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	corsCfg.AllowOrigins = origins
	return corsCfg
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Helpyzo API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
