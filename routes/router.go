package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rixeldev/studio-api/config"
	"github.com/rixeldev/studio-api/controllers"
	"github.com/rixeldev/studio-api/middleware"
	"github.com/rixeldev/studio-api/services"
	"github.com/rixeldev/studio-api/storage"
	"github.com/rixeldev/studio-api/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, store storage.Storage) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	// Local storage serves photo binaries directly; S3 buckets serve their own.
	if local, ok := store.(*storage.LocalStorage); ok {
		r.Static("/files", local.BasePath())
	}

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	galleryService := services.NewGalleryService(db, store)
	projectService := services.NewProjectService(db)

	adminController := controllers.NewAdminController()
	galleryController := controllers.NewGalleryController(galleryService)
	accessController := controllers.NewAccessController(galleryService)
	projectController := controllers.NewProjectController(projectService)

	api := r.Group("/api")

	admin := api.Group("/admin")
	admin.POST("/login", middleware.RateLimitMiddleware(), adminController.Login)
	admin.POST("/logout", adminController.Logout)
	admin.GET("/session", adminController.Session)

	galleries := admin.Group("/galleries")
	galleries.Use(middleware.AdminRequired())
	galleries.GET("", galleryController.ListGalleries)
	galleries.POST("", galleryController.CreateGallery)
	galleries.POST("/:id/photos", galleryController.UploadPhotos)
	galleries.DELETE("/:id/photos/:photoId", galleryController.DeletePhoto)

	gallery := api.Group("/gallery")
	gallery.Use(middleware.RateLimitMiddleware())
	gallery.POST("/access", accessController.Access)
	gallery.POST("/selection", accessController.SaveSelection)

	api.GET("/projects", projectController.List)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Message(ctx, http.StatusNotFound, "Not found.")
	})

	return r
}
