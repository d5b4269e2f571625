package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// AllowedImageTypes are the media content types accepted for upload. Anything
// else is rejected before any byte is written.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// MediaStore persists uploaded media and yields durable public URLs.
type MediaStore interface {
	UploadPostMedia(ctx context.Context, postID, filename, contentType string, r io.Reader) (string, error)
	UploadPetPhoto(ctx context.Context, petID, filename, contentType string, r io.Reader) (string, error)
	DeleteByURL(ctx context.Context, mediaURL string) error
}

// GCSMediaStore implements MediaStore on a Google Cloud Storage bucket.
type GCSMediaStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewGCSMediaStore creates a media store over the given bucket handle
func NewGCSMediaStore(bucket *gcs.BucketHandle, bucketName string) *GCSMediaStore {
	return &GCSMediaStore{bucket: bucket, bucketName: bucketName}
}

// UploadPostMedia stores one media file under the post's prefix and returns
// its public URL. Each attached file is one call; the post groups the results.
func (s *GCSMediaStore) UploadPostMedia(ctx context.Context, postID, filename, contentType string, r io.Reader) (string, error) {
	return s.upload(ctx, fmt.Sprintf("postMedia/%s/%s-%s", postID, uuid.NewString(), filename), contentType, r)
}

// UploadPetPhoto stores a pet profile photo and returns its public URL
func (s *GCSMediaStore) UploadPetPhoto(ctx context.Context, petID, filename, contentType string, r io.Reader) (string, error) {
	return s.upload(ctx, fmt.Sprintf("petProfile/%s/%s-%s", petID, uuid.NewString(), filename), contentType, r)
}

func (s *GCSMediaStore) upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if !AllowedImageTypes[contentType] {
		return "", fmt.Errorf("disallowed media type %q", contentType)
	}

	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("while writing object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("while finalizing object %s: %w", key, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, key), nil
}

// DeleteByURL removes the object a previously returned URL points at. A URL
// whose object is already gone is not an error.
func (s *GCSMediaStore) DeleteByURL(ctx context.Context, mediaURL string) error {
	u, err := url.Parse(mediaURL)
	if err != nil {
		return fmt.Errorf("invalid media URL %q: %w", mediaURL, err)
	}
	key := strings.TrimPrefix(u.Path, "/"+s.bucketName+"/")
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return fmt.Errorf("media URL %q has no object key", mediaURL)
	}

	if err := s.bucket.Object(key).Delete(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil
		}
		return err
	}
	return nil
}
