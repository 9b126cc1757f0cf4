package stats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config configures access to the bucket holding stats documents.
// Empty credentials select anonymous access, which is how the public
// test-stats bucket is read.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Backend reads one JSON array of TestStats per object, stored under
// <project>/<variant>/<task>.
type S3Backend struct {
	client *minio.Client
	bucket string
}

// NewS3Backend creates a backend over the configured bucket.
func NewS3Backend(cfg S3Config) (*S3Backend, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("s3 endpoint is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey), ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Backend{client: client, bucket: bucket}, nil
}

// Fetch implements Backend. Objects last written before q.Since are
// treated as missing history.
func (s *S3Backend) Fetch(ctx context.Context, q Query) (DurationMap, error) {
	key := q.Key()
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyS3Error(err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return nil, classifyS3Error(err)
	}
	if !q.Since.IsZero() && info.LastModified.Before(q.Since) {
		return nil, ErrNotFound
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, classifyS3Error(err)
	}
	d, err := DecodeTestStats(data)
	if err != nil {
		return nil, Terminal(fmt.Errorf("stats object %s: %w", key, err))
	}
	return d, nil
}

func classifyS3Error(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return ErrNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return Terminal(err)
	}
	return err
}
