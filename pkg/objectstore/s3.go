package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	"github.com/evohome/evohome-cms/pkg/retry"
	"go.uber.org/zap"
)

// S3Config configures an S3-compatible bucket
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
	Region          string
	// PublicURL overrides the URL prefix returned for stored objects
	PublicURL    string
	UsePathStyle bool
}

// S3Store uploads objects to an S3-compatible bucket
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
	retryCfg  retry.Config
}

// NewS3Store creates an S3 client with static credentials
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		switch {
		case cfg.Endpoint != "":
			publicURL = joinURL(cfg.Endpoint, cfg.Bucket)
		default:
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	logger.Info("S3 upload storage initialized",
		zap.String("bucket", cfg.Bucket),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("region", cfg.Region))

	return &S3Store{
		client:    s3.New(opts),
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		retryCfg:  retry.ObjectStorageConfig(),
	}, nil
}

// Driver returns "s3"
func (s *S3Store) Driver() string { return "s3" }

// Put uploads data under key with retries and returns the public URL
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	start := time.Now()

	err := retry.Do(ctx, s.retryCfg, "s3.PutObject", func() error {
		_, putErr := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return putErr
	})

	duration := metrics.MeasureDuration(start)
	if err != nil {
		metrics.UploadDuration.WithLabelValues(s.Driver(), "error").Observe(duration)
		logger.LogAPICall(ctx, "s3_storage", "put", "error", duration,
			zap.Error(err),
			zap.String("key", key))
		return "", fmt.Errorf("failed to upload object to S3: %w", err)
	}

	metrics.UploadDuration.WithLabelValues(s.Driver(), "success").Observe(duration)
	logger.LogAPICall(ctx, "s3_storage", "put", "success", duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(data)))

	return joinURL(s.publicURL, key), nil
}
