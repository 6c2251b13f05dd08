package adapters

import (
	"context"
	"time"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

type dynamoRenderItem struct {
	RunId         string `dynamodbav:"run_id"`
	Style         string `dynamodbav:"style"`
	Kind          string `dynamodbav:"kind"`
	OutputPath    string `dynamodbav:"output_path"`
	VideoUrl      string `dynamodbav:"video_url,omitempty"`
	SegmentCount  int    `dynamodbav:"segment_count"`
	SkippedScenes []int  `dynamodbav:"skipped_scenes,omitempty"`
	CreatedAt     string `dynamodbav:"created_at"`
	TTL           int64  `dynamodbav:"ttl"`
}

type dynamoRenderLedger struct {
	logger       outbound.LoggerPort
	dynamoSvc    dynamodbiface.DynamoDBAPI
	dynamoConfig *config.DynamoConfig
}

func NewDynamoRenderLedger(dynamoSvc dynamodbiface.DynamoDBAPI, dynamoConfig *config.DynamoConfig, logger outbound.LoggerPort) outbound.RenderLedgerPort {
	return &dynamoRenderLedger{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (c *dynamoRenderLedger) Save(ctx context.Context, record domain.RenderRecord) error {
	item := dynamoRenderItem{
		RunId:         record.RunID,
		Style:         record.Style,
		Kind:          string(record.Kind),
		OutputPath:    record.OutputPath,
		VideoUrl:      record.VideoURL,
		SegmentCount:  record.SegmentCount,
		SkippedScenes: record.SkippedScenes,
		CreatedAt:     record.CreatedAt.Format(time.RFC3339),
		TTL:           record.CreatedAt.Add(time.Duration(c.dynamoConfig.TtlMinutes) * time.Minute).Unix(),
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to marshal render item", map[string]interface{}{
			"run_id": record.RunID,
		})
		return err
	}

	input := &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(c.dynamoConfig.TableName),
	}

	_, err = c.dynamoSvc.PutItemWithContext(ctx, input)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to save render item", map[string]interface{}{
			"run_id": record.RunID,
			"table":  c.dynamoConfig.TableName,
		})
		return err
	}

	return nil
}
