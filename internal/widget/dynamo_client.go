package widget

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog/log"
)

// localRegion is what DynamoDB Local expects; any value works as long as it is consistent
const localRegion = "local"

// DynamoDBClient is the subset of the DynamoDB API the widget store uses
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// NewDynamoClient builds the client backing DynamoStore. A non-empty
// endpoint targets DynamoDB Local with retry logging; otherwise region and
// credentials come from the default AWS chain.
func NewDynamoClient(ctx context.Context, endpoint string) (*dynamodb.Client, error) {
	loadOpts, clientOpts := dynamoOptions(endpoint)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for widget store: %w", err)
	}

	log.Debug().
		Str("region", awsCfg.Region).
		Str("endpoint", endpoint).
		Msg("Widget store DynamoDB client ready")

	return dynamodb.NewFromConfig(awsCfg, clientOpts...), nil
}

func dynamoOptions(endpoint string) ([]func(*awsconfig.LoadOptions) error, []func(*dynamodb.Options)) {
	if endpoint == "" {
		return nil, nil
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(localRegion),
		awsconfig.WithClientLogMode(aws.LogRetries),
	}
	clientOpts := []func(*dynamodb.Options){
		func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		},
	}
	return loadOpts, clientOpts
}
