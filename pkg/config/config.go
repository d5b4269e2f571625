package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	MongoURI                string
	MongoDatabase           string
	PostgresConnStr         string
	StorageBucket           string
	ModeratorJWTSecret      string
}

func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, assuming environment variables are set")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "bantaybuddy"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		StorageBucket:           getEnv("STORAGE_BUCKET", ""),
		ModeratorJWTSecret:      getEnv("MODERATOR_JWT_SECRET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
