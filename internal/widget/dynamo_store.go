package widget

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bbernstein/weatherdash/internal/models"
	"github.com/rs/zerolog/log"
)

const DefaultTableName = "weather-widgets"

// DynamoStore keeps widgets in a DynamoDB table keyed by "id"
type DynamoStore struct {
	client    DynamoDBClient
	tableName string
}

func NewDynamoStore(client DynamoDBClient, tableName string) *DynamoStore {
	if tableName == "" {
		tableName = DefaultTableName
	}
	return &DynamoStore{
		client:    client,
		tableName: tableName,
	}
}

func (s *DynamoStore) List(ctx context.Context) ([]models.Widget, error) {
	return s.scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})
}

func (s *DynamoStore) Get(ctx context.Context, id string) (*models.Widget, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	}

	result, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("getting widget from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, ErrNotFound
	}

	var w models.Widget
	if err := attributevalue.UnmarshalMap(result.Item, &w); err != nil {
		return nil, fmt.Errorf("unmarshaling widget: %w", err)
	}
	return &w, nil
}

func (s *DynamoStore) FindActiveByLocation(ctx context.Context, loc models.Location) (*models.Widget, error) {
	widgets, err := s.scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(s.tableName),
		FilterExpression: aws.String("isActive = :active"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, err
	}

	for _, w := range widgets {
		if w.IsActive && w.Location.SamePlace(loc) {
			return &w, nil
		}
	}
	return nil, ErrNotFound
}

func (s *DynamoStore) Put(ctx context.Context, w models.Widget) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("invalid widget: %w", err)
	}

	item, err := attributevalue.MarshalMap(w)
	if err != nil {
		return fmt.Errorf("marshaling widget: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("putting widget in DynamoDB: %w", err)
	}

	log.Debug().
		Str("widget_id", w.ID).
		Bool("active", w.IsActive).
		Msg("Saved widget")

	return nil
}

func (s *DynamoStore) scan(ctx context.Context, input *dynamodb.ScanInput) ([]models.Widget, error) {
	var widgets []models.Widget

	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scanning widgets: %w", err)
		}

		var batch []models.Widget
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshaling widgets: %w", err)
		}
		widgets = append(widgets, batch...)
	}

	return widgets, nil
}
