package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MaxPhotoSize is the upload cap for announcement photos (5 MB)
const MaxPhotoSize = 5242880

// PhotoUpload is one incoming photo file
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// check returns a validation message, or "" when the upload is acceptable
func (p *PhotoUpload) check() string {
	if p.Size <= 0 {
		return "photo is empty"
	}
	if p.Size > MaxPhotoSize {
		return fmt.Sprintf("photo must be at most %d bytes", MaxPhotoSize)
	}
	if !strings.HasPrefix(p.ContentType, "image/") {
		return "photo must be an image"
	}
	return ""
}

// PhotoStorage stores an uploaded photo and returns a stable URL
type PhotoStorage interface {
	Upload(ctx context.Context, photo *PhotoUpload) (string, error)
}

// S3PhotoStorage stores photos in an S3 bucket under generated keys,
// so client-supplied filenames can never collide.
type S3PhotoStorage struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
}

// NewS3PhotoStorage creates an S3-backed photo storage. An endpoint
// overrides the default AWS one for S3-compatible providers.
func NewS3PhotoStorage(region, bucket, accessKey, secretKey, endpoint string) (*S3PhotoStorage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3PhotoStorage{
		client:   client,
		bucket:   bucket,
		region:   region,
		endpoint: endpoint,
	}, nil
}

// Upload puts the photo into the bucket and returns its public URL
func (s *S3PhotoStorage) Upload(ctx context.Context, photo *PhotoUpload) (string, error) {
	key := photoKey(photo.Filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          photo.Body,
		ContentType:   aws.String(photo.ContentType),
		ContentLength: aws.Int64(photo.Size),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// photoKey builds the storage key: announcements/{uuid}{ext}
func photoKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("announcements/%s%s", uuid.New().String(), ext)
}
