package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/myrjola/fraudintake/internal/errors"
)

// Storage persists archived attachments and returns a location string recorded on the report.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// LocalStorage keeps attachments on the local file system.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "resolve media dir", slog.String("dir", dir))
	}
	return &LocalStorage{dir: abs}, nil
}

// Put writes data to dir/key and returns a file:// location.
func (s *LocalStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil { //nolint:mnd // owner and group only
		return "", errors.Wrap(err, "create media dir", slog.String("path", path))
	}
	if err := os.WriteFile(path, data, 0o640); err != nil { //nolint:mnd // owner and group only
		return "", errors.Wrap(err, "write media", slog.String("path", path))
	}
	return "file://" + filepath.ToSlash(path), nil
}

// S3Config configures S3Storage. Empty credentials fall back to the default AWS credential chain and an empty
// Endpoint to the AWS endpoint for Region.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Storage keeps attachments in an S3-compatible bucket.
type S3Storage struct {
	bucket string
	client *s3.Client
}

func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// S3-compatible servers such as MinIO do not support virtual-hosted buckets.
			o.UsePathStyle = true
		}
	})
	return &S3Storage{bucket: cfg.Bucket, client: client}, nil
}

// Put uploads data under key and returns an s3:// location.
func (s *S3Storage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	}); err != nil {
		return "", errors.Wrap(err, "put object", slog.String("bucket", s.bucket), slog.String("key", key))
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
