package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
)

// Uploader writes objects to a single Cloud Storage bucket and reports their public URL.
type Uploader struct {
	client  *gcs.Client
	bucket  string
	baseURL string
}

// NewUploader binds an uploader to bucket. baseURL defaults to https://storage.googleapis.com.
func NewUploader(client *gcs.Client, bucket, baseURL string) (*Uploader, error) {
	if client == nil {
		return nil, errors.New("storage uploader: client is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("storage uploader: bucket is required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com"
	}
	return &Uploader{client: client, bucket: bucket, baseURL: baseURL}, nil
}

// Upload writes data to object, overwriting any existing object, and returns its URL.
func (u *Uploader) Upload(ctx context.Context, object, contentType string, data []byte) (string, error) {
	w := u.client.Bucket(u.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("storage: write %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("storage: close %s: %w", object, err)
	}
	return PublicURL(u.baseURL, u.bucket, object), nil
}

// PublicURL joins base, bucket and object with the object path escaped per segment.
func PublicURL(baseURL, bucket, object string) string {
	segments := strings.Split(object, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), bucket, strings.Join(segments, "/"))
}
