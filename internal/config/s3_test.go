package config

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultS3Config_FromEnv(t *testing.T) {
	t.Setenv("S3_EXPORT_BUCKET", "beirut-bites-reports")
	t.Setenv("S3_EXPORT_PREFIX", "reports")
	t.Setenv("AWS_S3_ENDPOINT", "http://localhost:9000")

	cfg := DefaultS3Config()

	assert.Equal(t, "beirut-bites-reports", cfg.BucketName)
	assert.Equal(t, "reports", cfg.ExportPrefix)
	assert.Equal(t, "http://localhost:9000", cfg.Endpoint)
}

func TestS3GetClient_CustomEndpointUsesPathStyle(t *testing.T) {
	cfg := &S3Config{
		BucketName:      "exports",
		Region:          "me-central-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
	}

	client, err := cfg.GetClient(context.Background())
	require.NoError(t, err)

	options := client.Options()
	assert.True(t, options.UsePathStyle)
	assert.Equal(t, "http://localhost:9000", aws.ToString(options.BaseEndpoint))
	assert.Equal(t, "me-central-1", options.Region)
}

func TestS3GetClient_RequiresBucket(t *testing.T) {
	_, err := (&S3Config{Region: "me-central-1"}).GetClient(context.Background())

	assert.ErrorContains(t, err, "S3_EXPORT_BUCKET")
}
