// Package media uploads avatar images to S3-compatible object storage and
// hands back a public URL. Consumed only by the avatar-update path.
package media

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader stores a file under the owner's key and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, ownerKey, contentType string) (string, error)
}

// Config holds the S3 connection settings (MinIO-compatible).
type Config struct {
	Region       string
	BaseEndpoint string // e.g. http://localhost:9000
	AccessKey    string
	SecretKey    string
	Bucket       string
}

type S3Uploader struct {
	client *s3.Client
	bucket string
	base   string
}

func NewS3Uploader(ctx context.Context, cfg Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Uploader{
		client: client,
		bucket: cfg.Bucket,
		base:   cfg.BaseEndpoint,
	}, nil
}

// Upload overwrites any previous avatar for the same owner, so the returned
// URL is stable per user.
func (u *S3Uploader) Upload(ctx context.Context, file io.Reader, ownerKey, contentType string) (string, error) {
	key := "avatars/" + ownerKey

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("media: put object: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", u.base, u.bucket, key), nil
}
