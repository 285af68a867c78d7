package output

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// UploadTimeout bounds a single object upload
const UploadTimeout = 30 * time.Second

// S3Options configures an S3Uploader
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string // Non-empty for S3-compatible stores; enables path-style addressing
	AccessKey string // Empty uses the default AWS credential chain
	SecretKey string
	Prefix    string
}

// S3Uploader stores finished renders in a bucket
type S3Uploader struct {
	client s3iface.S3API
	bucket string
	prefix string
	logger core.Logger
}

// NewS3Uploader creates an uploader backed by a new AWS session
func NewS3Uploader(opts S3Options, logger core.Logger) (*S3Uploader, error) {
	awsConfig := &aws.Config{
		Region: aws.String(opts.Region),
	}
	if opts.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(opts.AccessKey, opts.SecretKey, "")
	}
	if opts.Endpoint != "" {
		awsConfig.Endpoint = aws.String(opts.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("create S3 session: %w", err)
	}
	return NewS3UploaderWithClient(s3.New(sess), opts.Bucket, opts.Prefix, logger), nil
}

// NewS3UploaderWithClient creates an uploader around an existing client
func NewS3UploaderWithClient(client s3iface.S3API, bucket, prefix string, logger core.Logger) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// Key returns the object key for a file name under the configured prefix
func (u *S3Uploader) Key(name string) string {
	if u.prefix == "" {
		return name
	}
	return path.Join(u.prefix, name)
}

// Upload stores data under key and returns the full object key
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	fullKey := u.Key(key)
	size := int64(len(data))
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(fullKey),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", fullKey, err)
	}

	if u.logger != nil {
		u.logger.Printf("Uploaded s3://%s/%s (%d bytes)\n", u.bucket, fullKey, size)
	}
	return fullKey, nil
}
