package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore persists records in an Amazon DynamoDB table (or a compatible
// local endpoint). Only string attributes are used.
type DynamoStore struct {
	client *dynamodb.Client
}

func NewDynamoStore(client *dynamodb.Client) *DynamoStore {
	return &DynamoStore{client: client}
}

func (s *DynamoStore) Put(ctx context.Context, table, key string, attrs map[string]string) error {
	item := make(map[string]types.AttributeValue, len(attrs)+1)
	for name, value := range attrs {
		item[name] = &types.AttributeValueMemberS{Value: value}
	}
	item[KeyAttribute] = &types.AttributeValueMemberS{Value: key}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", classify(err))
	}
	return nil
}

func (s *DynamoStore) Get(ctx context.Context, table, key string) (map[string]string, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			KeyAttribute: &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("get item: %w", classify(err))
	}
	if len(out.Item) == 0 {
		return nil, false, nil
	}
	return fromItem(out.Item), true, nil
}

func (s *DynamoStore) Scan(ctx context.Context, table string) ([]map[string]string, error) {
	var records []map[string]string
	input := &dynamodb.ScanInput{
		TableName: aws.String(table),
	}

	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan table: %w", classify(err))
		}
		for _, item := range out.Items {
			records = append(records, fromItem(item))
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	return records, nil
}

func (s *DynamoStore) Delete(ctx context.Context, table, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			KeyAttribute: &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", classify(err))
	}
	return nil
}

var _ Store = (*DynamoStore)(nil)

func fromItem(item map[string]types.AttributeValue) map[string]string {
	attrs := make(map[string]string, len(item))
	for name, value := range item {
		if s, ok := value.(*types.AttributeValueMemberS); ok {
			attrs[name] = s.Value
		}
	}
	return attrs
}

func classify(err error) error {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrTableNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
