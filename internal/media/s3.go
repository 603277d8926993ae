// Package media issues presigned object-storage URLs for car photos. It works
// against AWS S3 or any S3-compatible endpoint such as MinIO.
package media

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/driveline/rental-be/internal/config"
)

// presignExpiry bounds how long an issued URL stays usable.
const presignExpiry = 15 * time.Minute

// Service issues presigned PUT URLs for uploads and GET URLs for display.
type Service struct {
	bucket  string
	presign *s3.PresignClient
}

// NewService builds a media service from the S3 settings in cfg. Call only
// when cfg.MediaConfigured() is true.
func NewService(ctx context.Context, cfg config.Config) (*Service, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load object storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &Service{
		bucket:  cfg.S3Bucket,
		presign: s3.NewPresignClient(client),
	}, nil
}

// NewStorageKey returns a fresh object key for a car photo, partitioned by
// car and upload date.
func NewStorageKey(carID int64) string {
	d := time.Now()
	return fmt.Sprintf("cars/%d/%d/%02d/%v", carID, d.Year(), int(d.Month()), uuid.New())
}

// PresignUpload returns a URL the client can PUT the photo bytes to.
func (s *Service) PresignUpload(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}
	return req.URL, nil
}

// PresignDownload returns a URL the photo can be fetched from.
func (s *Service) PresignDownload(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return req.URL, nil
}
