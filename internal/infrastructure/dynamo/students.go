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

// StudentRepo provides typed DynamoDB operations for the students table.
type StudentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewStudentRepo(client *dynamodb.Client, tableName string) *StudentRepo {
	return &StudentRepo{client: client, tableName: tableName}
}

// Create inserts a new student; an existing student_id yields ErrConflict.
func (r *StudentRepo) Create(ctx context.Context, s *domain.Student) error {
	item, err := marshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal student: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(student_id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("student already exists: %w", domain.ErrConflict)
	}
	if err != nil {
		return storageErr("put student", err)
	}
	return nil
}

func (r *StudentRepo) Get(ctx context.Context, studentID string) (*domain.Student, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("student_id", studentID),
	})
	if err != nil {
		return nil, storageErr("get student", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("student not found: %w", domain.ErrNotFound)
	}
	var s domain.Student
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StudentRepo) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	item, err := queryOneByEmail(ctx, r.client, r.tableName, email)
	if err != nil {
		return nil, storageErr("query student by email", err)
	}
	if item == nil {
		return nil, fmt.Errorf("student not found: %w", domain.ErrNotFound)
	}
	var s domain.Student
	if err := attributevalue.UnmarshalMap(item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StudentRepo) Update(ctx context.Context, studentID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("student_id", studentID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(student_id)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailed(err) {
		return fmt.Errorf("student not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return storageErr("update student", err)
	}
	return nil
}

func (r *StudentRepo) Count(ctx context.Context) (int, error) {
	n, err := countScan(ctx, r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return 0, storageErr("count students", err)
	}
	return n, nil
}

// Recent returns up to limit students, newest first.
func (r *StudentRepo) Recent(ctx context.Context, limit int) ([]domain.Student, error) {
	items, err := scanAll(ctx, r.client, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		ProjectionExpression:     aws.String("student_id, #n, email, created_at"),
		ExpressionAttributeNames: map[string]string{"#n": "name"},
	})
	if err != nil {
		return nil, storageErr("scan students", err)
	}
	var students []domain.Student
	if err := attributevalue.UnmarshalListOfMaps(items, &students); err != nil {
		return nil, err
	}
	sort.SliceStable(students, func(i, j int) bool {
		return students[i].CreatedAt.After(students[j].CreatedAt)
	})
	if len(students) > limit {
		students = students[:limit]
	}
	return students, nil
}

// CreatedSince returns the registration timestamps at or after since.
func (r *StudentRepo) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	items, err := scanAll(ctx, r.client, sinceScan(r.tableName, fieldCreatedAt, since))
	if err != nil {
		return nil, storageErr("scan students", err)
	}
	return createdAtAttr(items, fieldCreatedAt)
}

// queryOneByEmail returns the first item on the email GSI, or nil when none match.
func queryOneByEmail(ctx context.Context, client *dynamodb.Client, table, email string) (map[string]types.AttributeValue, error) {
	out, err := client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		IndexName:                 aws.String(indexEmail),
		KeyConditionExpression:    aws.String("email = :e"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":e": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	return out.Items[0], nil
}
