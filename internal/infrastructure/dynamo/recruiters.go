package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/internhub-api/internal/domain"
)

// RecruiterRepo provides typed DynamoDB operations for the recruiters table.
type RecruiterRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRecruiterRepo(client *dynamodb.Client, tableName string) *RecruiterRepo {
	return &RecruiterRepo{client: client, tableName: tableName}
}

func (r *RecruiterRepo) Create(ctx context.Context, rec *domain.Recruiter) error {
	item, err := marshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal recruiter: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(recruiter_id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("recruiter already exists: %w", domain.ErrConflict)
	}
	if err != nil {
		return storageErr("put recruiter", err)
	}
	return nil
}

func (r *RecruiterRepo) Get(ctx context.Context, recruiterID string) (*domain.Recruiter, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("recruiter_id", recruiterID),
	})
	if err != nil {
		return nil, storageErr("get recruiter", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("recruiter not found: %w", domain.ErrNotFound)
	}
	var rec domain.Recruiter
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecruiterRepo) GetByEmail(ctx context.Context, email string) (*domain.Recruiter, error) {
	item, err := queryOneByEmail(ctx, r.client, r.tableName, email)
	if err != nil {
		return nil, storageErr("query recruiter by email", err)
	}
	if item == nil {
		return nil, fmt.Errorf("recruiter not found: %w", domain.ErrNotFound)
	}
	var rec domain.Recruiter
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecruiterRepo) Update(ctx context.Context, recruiterID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("recruiter_id", recruiterID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(recruiter_id)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailed(err) {
		return fmt.Errorf("recruiter not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return storageErr("update recruiter", err)
	}
	return nil
}

func (r *RecruiterRepo) Count(ctx context.Context) (int, error) {
	n, err := countScan(ctx, r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return 0, storageErr("count recruiters", err)
	}
	return n, nil
}

// Recent returns up to limit recruiters, newest first.
func (r *RecruiterRepo) Recent(ctx context.Context, limit int) ([]domain.Recruiter, error) {
	items, err := scanAll(ctx, r.client, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		ProjectionExpression:     aws.String("recruiter_id, #n, email, company_name, created_at"),
		ExpressionAttributeNames: map[string]string{"#n": "name"},
	})
	if err != nil {
		return nil, storageErr("scan recruiters", err)
	}
	var recs []domain.Recruiter
	if err := attributevalue.UnmarshalListOfMaps(items, &recs); err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (r *RecruiterRepo) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	items, err := scanAll(ctx, r.client, sinceScan(r.tableName, fieldCreatedAt, since))
	if err != nil {
		return nil, storageErr("scan recruiters", err)
	}
	return createdAtAttr(items, fieldCreatedAt)
}
