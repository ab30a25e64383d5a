package widget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bbernstein/weatherdash/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDynamoDBClient implements a mock DynamoDB client for testing
type mockDynamoDBClient struct {
	getItemFunc func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	putItemFunc func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	scanFunc    func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

func (m *mockDynamoDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getItemFunc != nil {
		return m.getItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.putItemFunc != nil {
		return m.putItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamoDBClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if m.scanFunc != nil {
		return m.scanFunc(ctx, params, optFns...)
	}
	return &dynamodb.ScanOutput{}, nil
}

func createTestWidget(id string, loc models.Location, active bool) models.Widget {
	created := time.Date(2024, 10, 5, 12, 0, 0, 0, time.UTC)
	return models.Widget{
		ID:          id,
		Location:    loc,
		CreatedAt:   created,
		LastUpdated: created,
		IsActive:    active,
	}
}

func marshalWidget(t *testing.T, w models.Widget) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(w)
	require.NoError(t, err)
	return item
}

func TestNewDynamoStore_DefaultTable(t *testing.T) {
	assert.Equal(t, "weather-widgets", NewDynamoStore(&mockDynamoDBClient{}, "").tableName)
	assert.Equal(t, "custom", NewDynamoStore(&mockDynamoDBClient{}, "custom").tableName)
}

func TestDynamoStore_Get(t *testing.T) {
	stored := createTestWidget("w-1", berlin, true)

	tests := []struct {
		name      string
		mockSetup func(*mockDynamoDBClient)
		want      *models.Widget
		wantErr   error
		errSubstr string
	}{
		{
			name: "found",
			mockSetup: func(m *mockDynamoDBClient) {
				m.getItemFunc = func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
					key := params.Key["id"].(*types.AttributeValueMemberS)
					assert.Equal(t, "w-1", key.Value)
					assert.Equal(t, "weather-widgets", *params.TableName)
					return &dynamodb.GetItemOutput{Item: marshalWidget(t, stored)}, nil
				}
			},
			want: &stored,
		},
		{
			name:      "missing item",
			mockSetup: func(m *mockDynamoDBClient) {},
			wantErr:   ErrNotFound,
		},
		{
			name: "client error",
			mockSetup: func(m *mockDynamoDBClient) {
				m.getItemFunc = func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
					return nil, errors.New("throttled")
				}
			},
			errSubstr: "getting widget from DynamoDB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockDynamoDBClient{}
			tt.mockSetup(client)

			got, err := NewDynamoStore(client, "").Get(context.Background(), "w-1")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errSubstr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDynamoStore_Put(t *testing.T) {
	var captured *dynamodb.PutItemInput
	client := &mockDynamoDBClient{
		putItemFunc: func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			captured = params
			return &dynamodb.PutItemOutput{}, nil
		},
	}
	store := NewDynamoStore(client, "")

	w := createTestWidget("w-1", berlin, true)
	require.NoError(t, store.Put(context.Background(), w))
	require.NotNil(t, captured)

	var roundTrip models.Widget
	require.NoError(t, attributevalue.UnmarshalMap(captured.Item, &roundTrip))
	assert.Equal(t, w, roundTrip)

	invalid := createTestWidget("", berlin, true)
	err := store.Put(context.Background(), invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid widget")
}

func TestDynamoStore_ListPaginates(t *testing.T) {
	first := createTestWidget("w-1", berlin, true)
	second := createTestWidget("w-2", paris, false)

	calls := 0
	client := &mockDynamoDBClient{
		scanFunc: func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			calls++
			if params.ExclusiveStartKey == nil {
				return &dynamodb.ScanOutput{
					Items:            []map[string]types.AttributeValue{marshalWidget(t, first)},
					LastEvaluatedKey: map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "w-1"}},
				}, nil
			}
			return &dynamodb.ScanOutput{
				Items: []map[string]types.AttributeValue{marshalWidget(t, second)},
			}, nil
		},
	}

	widgets, err := NewDynamoStore(client, "").List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []models.Widget{first, second}, widgets)
}

func TestDynamoStore_FindActiveByLocation(t *testing.T) {
	client := &mockDynamoDBClient{
		scanFunc: func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			assert.Equal(t, "isActive = :active", *params.FilterExpression)
			return &dynamodb.ScanOutput{
				Items: []map[string]types.AttributeValue{
					marshalWidget(t, createTestWidget("w-1", paris, true)),
					marshalWidget(t, createTestWidget("w-2", berlin, true)),
				},
			}, nil
		},
	}
	store := NewDynamoStore(client, "")

	found, err := store.FindActiveByLocation(context.Background(), berlin)
	require.NoError(t, err)
	assert.Equal(t, "w-2", found.ID)

	_, err = store.FindActiveByLocation(context.Background(), models.Location{Name: "Oslo"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDynamoStore_ScanError(t *testing.T) {
	client := &mockDynamoDBClient{
		scanFunc: func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			return nil, errors.New("access denied")
		},
	}

	_, err := NewDynamoStore(client, "").List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scanning widgets")
}
