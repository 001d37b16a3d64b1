package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// s3Store implements Store for image assets kept in an AWS S3 bucket.
type s3Store struct {
	client *s3.Client
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Store creates an S3-backed image store.
func NewS3Store(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "s3-storage").Logger()

	// Load AWS configuration
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 image store initialised")

	return &s3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Save uploads the file under a UUID-derived key and returns its public path.
func (s *s3Store) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	key := s.prefix + uuid.New().String() + ext

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to upload image to S3")
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	publicPath := "/" + key
	s.logger.Debug().Str("path", publicPath).Msg("image stored in S3")

	return publicPath, nil
}

// Delete removes the object for a public path.
func (s *s3Store) Delete(ctx context.Context, p string) error {
	key := strings.TrimPrefix(p, "/")
	if key == "" || key == path.Clean(s.prefix) {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to delete image from S3")
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}
