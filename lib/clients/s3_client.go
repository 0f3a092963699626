package clients

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of the S3 SDK client the archive uses
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Client writes objects into a single bucket
type S3Client struct {
	svc    S3API
	bucket string
}

// NewS3Client creates a new S3 client instance bound to bucket
func NewS3Client(cfg aws.Config, isLocal bool, bucket string) *S3Client {
	svc := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// LocalStack only serves path-style requests
		o.UsePathStyle = isLocal
	})
	return NewS3ClientWithAPI(svc, bucket)
}

// NewS3ClientWithAPI wraps an existing S3 API implementation
func NewS3ClientWithAPI(svc S3API, bucket string) *S3Client {
	return &S3Client{
		svc:    svc,
		bucket: bucket,
	}
}

// PutObject uploads body under key with server-side encryption
func (client *S3Client) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := client.svc.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(client.bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(body),
		ContentType:          aws.String(contentType),
		ServerSideEncryption: "AES256",
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", client.bucket, key, err)
	}
	return nil
}
