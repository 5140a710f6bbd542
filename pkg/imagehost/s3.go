package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Package-level seams so tests can stub the AWS plumbing.
var (
	loadAWSConfig = awsconfig.LoadDefaultConfig
	newS3Client   = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	putObject = func(ctx context.Context, client *s3.Client, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return client.PutObject(ctx, in)
	}
)

// S3Config contains options for creating a new S3 uploader.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint points at an S3-compatible service (MinIO and friends).
	// Empty means real AWS.
	Endpoint string
	// PublicBaseURL is the base under which uploaded objects are readable.
	PublicBaseURL string
	// MaxBytes rejects payloads above this size before any network call.
	// Zero means no client-side limit.
	MaxBytes int64
}

// S3 uploads images to an S3-compatible bucket that serves public reads.
type S3 struct {
	cfg    S3Config
	client *s3.Client
}

// NewS3 creates a new S3 uploader.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Region == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: region and bucket are required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, fmt.Errorf("s3: public base URL is required")
	}

	awsCfg, err := loadAWSConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("s3: loading aws config: %w", err)
	}

	client := newS3Client(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{cfg: cfg, client: client}, nil
}

// objectKey spreads uploads over month prefixes, one random name per object
// so concurrent uploads of the same filename never collide.
func objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	now := time.Now().UTC()
	return fmt.Sprintf("lostfound/%d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New(), ext)
}

// Upload puts the object and returns its public URL.
func (u *S3) Upload(ctx context.Context, content []byte, filename, contentType string) (string, error) {
	if u.cfg.MaxBytes > 0 && int64(len(content)) > u.cfg.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(content))
	}
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty image payload", ErrUpload)
	}

	key := objectKey(filename)
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := putObject(ctx, u.client, in); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	return strings.TrimSuffix(u.cfg.PublicBaseURL, "/") + "/" + key, nil
}
