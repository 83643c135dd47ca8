package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/internhub-api/internal/domain"
)

// InternshipRepo provides typed DynamoDB operations for the internships table.
type InternshipRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewInternshipRepo(client *dynamodb.Client, tableName string) *InternshipRepo {
	return &InternshipRepo{client: client, tableName: tableName}
}

func (r *InternshipRepo) Create(ctx context.Context, i *domain.Internship) error {
	item, err := marshalMap(i)
	if err != nil {
		return fmt.Errorf("marshal internship: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(internship_id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("internship already exists: %w", domain.ErrConflict)
	}
	if err != nil {
		return storageErr("put internship", err)
	}
	return nil
}

func (r *InternshipRepo) Get(ctx context.Context, internshipID string) (*domain.Internship, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("internship_id", internshipID),
	})
	if err != nil {
		return nil, storageErr("get internship", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("internship not found: %w", domain.ErrNotFound)
	}
	var i domain.Internship
	if err := attributevalue.UnmarshalMap(out.Item, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InternshipRepo) Update(ctx context.Context, internshipID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("internship_id", internshipID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(internship_id)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailed(err) {
		return fmt.Errorf("internship not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return storageErr("update internship", err)
	}
	return nil
}

func (r *InternshipRepo) Delete(ctx context.Context, internshipID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("internship_id", internshipID),
		ConditionExpression: aws.String("attribute_exists(internship_id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("internship not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return storageErr("delete internship", err)
	}
	return nil
}

// ListByOwner returns a recruiter's postings, newest first.
func (r *InternshipRepo) ListByOwner(ctx context.Context, recruiterID string) ([]domain.Internship, error) {
	items, err := queryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexPostedBy),
		KeyConditionExpression: aws.String("posted_by = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: recruiterID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, storageErr("query internships by owner", err)
	}
	var list []domain.Internship
	if err := attributevalue.UnmarshalListOfMaps(items, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// List scans postings, optionally restricted to one status, newest first.
func (r *InternshipRepo) List(ctx context.Context, status domain.InternshipStatus) ([]domain.Internship, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	if status != "" {
		input.FilterExpression = aws.String("#s = :s")
		input.ExpressionAttributeNames = map[string]string{"#s": fieldStatus}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: string(status)},
		}
	}
	items, err := scanAll(ctx, r.client, input)
	if err != nil {
		return nil, storageErr("scan internships", err)
	}
	var list []domain.Internship
	if err := attributevalue.UnmarshalListOfMaps(items, &list); err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// Count counts postings; an empty status counts all of them.
func (r *InternshipRepo) Count(ctx context.Context, status domain.InternshipStatus) (int, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	if status != "" {
		input.FilterExpression = aws.String("#s = :s")
		input.ExpressionAttributeNames = map[string]string{"#s": fieldStatus}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: string(status)},
		}
	}
	n, err := countScan(ctx, r.client, input)
	if err != nil {
		return 0, storageErr("count internships", err)
	}
	return n, nil
}

func (r *InternshipRepo) Recent(ctx context.Context, limit int) ([]domain.Internship, error) {
	list, err := r.List(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *InternshipRepo) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	items, err := scanAll(ctx, r.client, sinceScan(r.tableName, fieldCreatedAt, since))
	if err != nil {
		return nil, storageErr("scan internships", err)
	}
	return createdAtAttr(items, fieldCreatedAt)
}

// DueForReminder returns active, not yet reminded postings whose deadline lies in [from, until].
func (r *InternshipRepo) DueForReminder(ctx context.Context, from, until time.Time) ([]domain.Internship, error) {
	items, err := scanAll(ctx, r.client, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("#s = :active AND #r = :f AND #d BETWEEN :from AND :until"),
		ExpressionAttributeNames: map[string]string{
			"#s": fieldStatus,
			"#r": fieldReminderSent,
			"#d": fieldDeadline,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberS{Value: string(domain.InternshipActive)},
			":f":      &types.AttributeValueMemberBOOL{Value: false},
			":from":   &types.AttributeValueMemberS{Value: formatTime(from)},
			":until":  &types.AttributeValueMemberS{Value: formatTime(until)},
		},
	})
	if err != nil {
		return nil, storageErr("scan internships due for reminder", err)
	}
	var list []domain.Internship
	if err := attributevalue.UnmarshalListOfMaps(items, &list); err != nil {
		return nil, err
	}
	return list, nil
}
