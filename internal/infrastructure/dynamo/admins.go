package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/internhub-api/internal/domain"
)

type AdminRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAdminRepo(client *dynamodb.Client, tableName string) *AdminRepo {
	return &AdminRepo{client: client, tableName: tableName}
}

func (r *AdminRepo) Create(ctx context.Context, a *domain.Admin) error {
	item, err := marshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal admin: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(admin_id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("admin already exists: %w", domain.ErrConflict)
	}
	if err != nil {
		return storageErr("put admin", err)
	}
	return nil
}

func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	item, err := queryOneByEmail(ctx, r.client, r.tableName, email)
	if err != nil {
		return nil, storageErr("query admin by email", err)
	}
	if item == nil {
		return nil, fmt.Errorf("admin not found: %w", domain.ErrNotFound)
	}
	var a domain.Admin
	if err := attributevalue.UnmarshalMap(item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
