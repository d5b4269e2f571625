package router

import (
	gcs "cloud.google.com/go/storage"
	"firebase.google.com/go/v4/auth"
	"github.com/bantaybuddy/backend/internal/handlers"
	"github.com/bantaybuddy/backend/internal/middleware"
	"github.com/bantaybuddy/backend/internal/models"
	"github.com/bantaybuddy/backend/internal/repositories"
	"github.com/bantaybuddy/backend/internal/storage"
	"github.com/bantaybuddy/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.RequestID())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, mgClient *mongo.Client, pgdb *gorm.DB, firebaseAuthClient *auth.Client, bucket *gcs.BucketHandle) error {
	// AutoMigrate the PostgreSQL-backed models
	if err := pgdb.AutoMigrate(
		&models.Notification{},
		&models.Report{},
	); err != nil {
		return err
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	db := mgClient.Database(cfg.MongoDatabase)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	petRepo := repositories.NewMongoPetRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	reactionRepo := repositories.NewMongoReactionRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	reportRepo := repositories.NewPostgresReportRepository(pgdb)

	media := storage.NewGCSMediaStore(bucket, cfg.StorageBucket)

	// --- Protected routes (require a verified Firebase ID token) ---
	api := e.Group("/api/v1")
	api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)

	petHandler := handlers.NewPetHandler(petRepo, userRepo, media)
	petHandler.RegisterPetRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, petRepo, userRepo, media)
	postHandler.RegisterPostRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notificationRepo)
	commentHandler.RegisterCommentRoutes(api)

	reactionHandler := handlers.NewReactionHandler(reactionRepo, postRepo, userRepo, notificationRepo)
	reactionHandler.RegisterReactionRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	reportHandler := handlers.NewReportHandler(reportRepo, postRepo)
	reportHandler.RegisterReportRoutes(api)

	// --- Moderation routes (require a moderator service token) ---
	moderation := e.Group("/api/v1/moderation")
	moderation.Use(middleware.ModeratorAuthMiddleware(cfg.ModeratorJWTSecret))
	reportHandler.RegisterModerationRoutes(moderation)

	logrus.Info("all routes configured")
	return nil
}
