package adapters

import (
	"context"
	"fmt"
	"os"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type s3VideoPublisher struct {
	logger   outbound.LoggerPort
	s3Svc    s3iface.S3API
	s3Config *config.S3Config
}

func NewS3VideoPublisher(s3Svc s3iface.S3API, s3Config *config.S3Config, logger outbound.LoggerPort) outbound.VideoPublisherPort {
	return &s3VideoPublisher{
		logger:   logger,
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

// Publish uploads the file under key and returns its public URL. The local
// file is left in place.
func (s *s3VideoPublisher) Publish(ctx context.Context, filePath string, key string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		s.logger.Error(err, "Failed to open video file")
		return "", err
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			s.logger.Error(err, "Failed to close video file")
		}
	}(file)

	putInput := &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("video/mp4"),
	}

	_, err = s.s3Svc.PutObjectWithContext(ctx, putInput)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload object to S3", map[string]interface{}{
			"bucket": s.s3Config.BucketName,
			"key":    key,
		})
		return "", err
	}

	s3Url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Config.BucketName, s.s3Config.Region, key)
	s.logger.DebugWithFields("Successfully uploaded object to S3", map[string]interface{}{
		"s3Url": s3Url,
	})

	return s3Url, nil
}
