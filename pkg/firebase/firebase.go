package firebase

import (
	"context"
	"fmt"
	"os"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app, auth client and storage bucket
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
	Bucket      *gcs.BucketHandle
}

// InitFirebase initializes the Firebase application, the authentication client
// and the media storage bucket handle
func InitFirebase(ctx context.Context, credentialsPath, bucketName string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("Firebase credentials path not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("Firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	storageClient, err := firebaseApp.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}
	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error getting storage bucket: %w", err)
	}

	logrus.Info("Firebase app, auth client and storage bucket initialized")
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient, Bucket: bucket}, nil
}
