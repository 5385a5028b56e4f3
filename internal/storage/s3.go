// Package storage archives rendered documents to S3-compatible object storage
// (Cloudflare R2, MinIO or AWS S3).
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"seller-backend/internal/config"
	"seller-backend/internal/models"
)

// ErrNotConfigured is returned when storage settings are incomplete
var ErrNotConfigured = errors.New("object storage is not configured")

// ObjectPutter is the part of the S3 client the archiver uses
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes objects to one bucket
type S3Archiver struct {
	client   ObjectPutter
	bucket   string
	endpoint string
}

// NewS3Archiver builds a client from the storage section of the config
func NewS3Archiver(ctx context.Context, cfg *config.Config) (*S3Archiver, error) {
	st := cfg.Storage
	if !st.Enabled || st.Bucket == "" || st.AccessKey == "" || st.SecretKey == "" {
		return nil, ErrNotConfigured
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			st.AccessKey,
			st.SecretKey,
			"",
		)),
		awsconfig.WithRegion(st.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure S3 client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if st.Endpoint != "" {
			o.BaseEndpoint = aws.String(st.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Printf("[Storage] Archiving to bucket %s", st.Bucket)
	return NewS3ArchiverWithClient(client, st.Bucket, st.Endpoint), nil
}

// NewS3ArchiverWithClient wraps an existing client
func NewS3ArchiverWithClient(client ObjectPutter, bucket, endpoint string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, endpoint: strings.TrimRight(endpoint, "/")}
}

// Put uploads body under key
func (a *S3Archiver) Put(ctx context.Context, key string, body []byte, contentType string) (*models.InvoiceArchive, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	archive := &models.InvoiceArchive{
		Key:        key,
		Bucket:     a.bucket,
		ArchivedAt: time.Now(),
	}
	if a.endpoint != "" {
		archive.URL = fmt.Sprintf("%s/%s/%s", a.endpoint, a.bucket, key)
	}
	return archive, nil
}
