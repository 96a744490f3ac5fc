// internal/profile/dynamo.go
//
// DynamoDB backend. Items use the single-table layout
// PK = "PLAYER#<id>", SK = "PROFILE".

package profile

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// ProfileItem is the stored item shape.
type ProfileItem struct {
	PK   string
	SK   string
	Type string
	Data PlayerData
}

// DynamoStore keeps profiles in a DynamoDB table.
type DynamoStore struct {
	d         dynamodbiface.DynamoDBAPI
	tableName string
}

// NewDynamoStore wraps a DynamoDB client.
func NewDynamoStore(d dynamodbiface.DynamoDBAPI, tableName string) *DynamoStore {
	return &DynamoStore{d: d, tableName: tableName}
}

// DialDynamo opens an AWS session in region and returns a store for table.
func DialDynamo(region, table string) (*DynamoStore, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("profile: aws session: %w", err)
	}
	return NewDynamoStore(dynamodb.New(sess), table), nil
}

func profileKey(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(fmt.Sprintf("PLAYER#%s", id))},
		"SK": {S: aws.String("PROFILE")},
	}
}

func (s *DynamoStore) Get(ctx context.Context, id string) (PlayerData, error) {
	result, err := s.d.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       profileKey(id),
	})
	if err != nil {
		return PlayerData{}, fmt.Errorf("profile: get item: %w", err)
	}
	if len(result.Item) == 0 {
		return PlayerData{}, ErrNotFound
	}
	var item ProfileItem
	if err := dynamodbattribute.UnmarshalMap(result.Item, &item); err != nil {
		return PlayerData{}, fmt.Errorf("profile: unmarshal item: %w", err)
	}
	return item.Data, nil
}

func (s *DynamoStore) Save(ctx context.Context, data PlayerData) error {
	av, err := dynamodbattribute.MarshalMap(ProfileItem{
		PK:   fmt.Sprintf("PLAYER#%s", data.ID),
		SK:   "PROFILE",
		Type: "ProfileItem",
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("profile: marshal item: %w", err)
	}
	_, err = s.d.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return fmt.Errorf("profile: put item: %w", err)
	}
	return nil
}
