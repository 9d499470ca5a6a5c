package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config locates the bucket that order exports are written to.
type S3Config struct {
	BucketName   string
	ExportPrefix string
	Region       string
	// Endpoint points at an S3 compatible store (MinIO, LocalStack). Empty means AWS.
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

func DefaultS3Config() *S3Config {
	return &S3Config{
		BucketName:      getEnvWithDefault("S3_EXPORT_BUCKET", "restaurant-exports"),
		ExportPrefix:    getEnvWithDefault("S3_EXPORT_PREFIX", "exports"),
		Region:          getEnvWithDefault("AWS_REGION", "me-central-1"),
		Endpoint:        getEnvWithDefault("AWS_S3_ENDPOINT", ""),
		AccessKeyID:     getEnvWithDefault("AWS_ACCESS_KEY_ID", "dummy"),
		SecretAccessKey: getEnvWithDefault("AWS_SECRET_ACCESS_KEY", "dummy"),
	}
}

// GetClient builds the export client. Against a custom endpoint it signs
// with the static keys and addresses the bucket by path.
func (c *S3Config) GetClient(ctx context.Context) (*s3.Client, error) {
	if c.BucketName == "" {
		return nil, fmt.Errorf("S3_EXPORT_BUCKET is required")
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(c.Region)}
	if c.Endpoint != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config for S3: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
