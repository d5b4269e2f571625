package main

import (
	"context"

	"github.com/bantaybuddy/backend/internal/router"
	"github.com/bantaybuddy/backend/pkg/config"
	"github.com/bantaybuddy/backend/pkg/firebase"
	"github.com/bantaybuddy/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if cfg.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize databases")
	}
	defer db.CloseDB()

	// Initialize Firebase (auth + storage bucket)
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize Firebase")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, cfg, db.Mongo, db.Postgres, firebaseApp.AuthClient, firebaseApp.Bucket); err != nil {
		logrus.WithError(err).Fatal("failed to set up routes")
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
