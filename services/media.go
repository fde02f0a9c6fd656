package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// Media folders. Thumbnails and video sources are kept under separate
// prefixes so a course cascade can address them independently.
const (
	FolderThumbnails = "courseThumbnails"
	FolderVideos     = "videosSrc"
)

// UploadResult describes a stored media object
type UploadResult struct {
	URL      string
	Key      string
	Duration float64 // seconds; zero when the backend cannot determine it
}

// MediaStore is the external object store contract. The catalog saga
// depends on this interface, not on S3; tests supply a fake.
type MediaStore interface {
	Upload(ctx context.Context, folder, filename, contentType string, data io.Reader) (UploadResult, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) string
}

// S3MediaStore stores media in an S3-compatible bucket
type S3MediaStore struct {
	s3Client *s3.S3
	bucket   string
	endpoint string
	cdnURL   string
}

var _ MediaStore = (*S3MediaStore)(nil)

// S3MediaConfig holds configuration for the S3 media store
type S3MediaConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	CDNURL    string
}

// NewS3MediaStore creates a new S3-backed media store
func NewS3MediaStore(config S3MediaConfig) (*S3MediaStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
		Endpoint:         aws.String(config.Endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create media store session: %w", err)
	}

	return &S3MediaStore{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
		endpoint: config.Endpoint,
		cdnURL:   config.CDNURL,
	}, nil
}

// Upload stores an object under folder and returns its durable public URL.
// The object key embeds a UUID so re-uploads never collide.
func (s *S3MediaStore) Upload(ctx context.Context, folder, filename, contentType string, data io.Reader) (UploadResult, error) {
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), filepath.Ext(filename))

	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        aws.ReadSeekCloser(data),
		ACL:         aws.String("public-read"),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to upload media: %w", err)
	}

	return UploadResult{
		URL: s.objectURL(key),
		Key: key,
	}, nil
}

// Delete removes an object by key
func (s *S3MediaStore) Delete(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete media %s: %w", key, err)
	}
	return nil
}

// KeyFromURL recovers the object key from a URL previously returned by
// Upload. Returns "" when the URL does not belong to this store.
func (s *S3MediaStore) KeyFromURL(url string) string {
	for _, base := range []string{
		s.cdnURL + "/",
		fmt.Sprintf("https://%s.%s/", s.bucket, s.endpoint),
	} {
		if base != "/" && strings.HasPrefix(url, base) {
			return strings.TrimPrefix(url, base)
		}
	}
	return ""
}

func (s *S3MediaStore) objectURL(key string) string {
	if s.cdnURL != "" {
		return fmt.Sprintf("%s/%s", s.cdnURL, key)
	}
	return fmt.Sprintf("https://%s.%s/%s", s.bucket, s.endpoint, key)
}
