package config

import (
	"fmt"
	"os"
)

type S3Config struct {
	BucketName string
	Region     string
}

// GetS3Config returns a disabled config when BUCKET_NAME is unset.
func GetS3Config() (*S3Config, error) {
	bucketName := os.Getenv("BUCKET_NAME")
	if bucketName == "" {
		return &S3Config{}, nil
	}

	region := os.Getenv("REGION")
	if region == "" {
		return nil, fmt.Errorf("REGION must be set when BUCKET_NAME is set")
	}

	return &S3Config{
		BucketName: bucketName,
		Region:     region,
	}, nil
}

func (c *S3Config) Enabled() bool {
	return c != nil && c.BucketName != ""
}
