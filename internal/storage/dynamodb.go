package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Veraticus/spice-budget/internal/common"
)

// DynamoAPI is the subset of the DynamoDB client used by DynamoStore.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoConfig holds the settings for a DynamoDB-backed store.
type DynamoConfig struct {
	Table    string
	Region   string
	Endpoint string
}

// DynamoStore keeps each blob in one item of a table keyed by "key".
type DynamoStore struct {
	client DynamoAPI
	table  string
	retry  common.RetryOptions
}

type blobItem struct {
	Key       string `dynamodbav:"key"`
	Checksum  string `dynamodbav:"checksum"`
	UpdatedAt string `dynamodbav:"updatedAt"`
	Blob      []byte `dynamodbav:"blob"`
}

// NewDynamoStore builds a client from the default AWS credential chain.
func NewDynamoStore(ctx context.Context, cfg DynamoConfig) (*DynamoStore, error) {
	if err := validateString(cfg.Table, "table"); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			// Local DynamoDB or another compatible endpoint
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewDynamoStoreWithClient(client, cfg.Table), nil
}

// NewDynamoStoreWithClient wraps an existing client.
func NewDynamoStoreWithClient(client DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table, retry: common.DefaultRetryOptions()}
}

// Load fetches the item for key with a strongly consistent read.
func (d *DynamoStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateCall(ctx, key); err != nil {
		return nil, err
	}

	var out *dynamodb.GetItemOutput
	err := common.WithRetry(ctx, func() error {
		var getErr error
		out, getErr = d.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName:      aws.String(d.table),
			Key:            map[string]types.AttributeValue{"key": &types.AttributeValueMemberS{Value: key}},
			ConsistentRead: aws.Bool(true),
		})
		return classifyDynamo(getErr)
	}, d.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to load blob %s: %w", key, err)
	}
	if out == nil || len(out.Item) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}

	var item blobItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptBlob, key, err)
	}
	if item.Checksum != "" && item.Checksum != checksum(item.Blob) {
		return nil, fmt.Errorf("%w: %s", ErrCorruptBlob, key)
	}
	return item.Blob, nil
}

// Save replaces the item for key.
func (d *DynamoStore) Save(ctx context.Context, key string, data []byte) error {
	if err := validateCall(ctx, key); err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(blobItem{
		Key:       key,
		Blob:      data,
		Checksum:  checksum(data),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal blob %s: %w", key, err)
	}

	err = common.WithRetry(ctx, func() error {
		_, putErr := d.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(d.table),
			Item:      av,
		})
		return classifyDynamo(putErr)
	}, d.retry)
	if err != nil {
		return fmt.Errorf("failed to save blob %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; the SDK client holds no connection that needs releasing.
func (d *DynamoStore) Close() error {
	return nil
}

func classifyDynamo(err error) error {
	if err == nil {
		return nil
	}
	var throttled *types.ProvisionedThroughputExceededException
	var limited *types.RequestLimitExceeded
	var internal *types.InternalServerError
	if errors.As(err, &throttled) || errors.As(err, &limited) || errors.As(err, &internal) {
		return &common.RetryableError{Err: err, Retryable: true}
	}
	return common.Permanent(err)
}
