package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/internhub-api/internal/domain"
)

// ApplicationRepo stores applications keyed by (student_id, internship_id).
type ApplicationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewApplicationRepo(client *dynamodb.Client, tableName string) *ApplicationRepo {
	return &ApplicationRepo{client: client, tableName: tableName}
}

// Create inserts the application only if the (student, internship) pair is free.
// Two concurrent submissions for the same pair cannot both succeed.
func (r *ApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	item, err := marshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal application: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(student_id) AND attribute_not_exists(internship_id)"),
	})
	if isConditionFailed(err) {
		return domain.ErrDuplicateApplication
	}
	if err != nil {
		return storageErr("put application", err)
	}
	return nil
}

func (r *ApplicationRepo) Exists(ctx context.Context, studentID, internshipID string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.tableName),
		Key:                  compositeKey("student_id", studentID, "internship_id", internshipID),
		ProjectionExpression: aws.String("application_id"),
	})
	if err != nil {
		return false, storageErr("get application", err)
	}
	return out.Item != nil, nil
}

// GetByID resolves an application through the application_id GSI.
func (r *ApplicationRepo) GetByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexApplicationID),
		KeyConditionExpression: aws.String("application_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: applicationID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, storageErr("query application", err)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("application not found: %w", domain.ErrNotFound)
	}
	var a domain.Application
	if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateStatus moves an application from one status to another. The write is
// rejected with ErrConflict if the stored status is no longer from.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, a *domain.Application, from, to domain.ApplicationStatus, at time.Time) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey("student_id", a.StudentID, "internship_id", a.InternshipID),
		UpdateExpression:    aws.String("SET #s = :to, #u = :now"),
		ConditionExpression: aws.String("#s = :from"),
		ExpressionAttributeNames: map[string]string{
			"#s": fieldStatus,
			"#u": fieldUpdatedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":to":   &types.AttributeValueMemberS{Value: string(to)},
			":from": &types.AttributeValueMemberS{Value: string(from)},
			":now":  &types.AttributeValueMemberS{Value: formatTime(at)},
		},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("application status changed concurrently: %w", domain.ErrConflict)
	}
	if err != nil {
		return storageErr("update application status", err)
	}
	return nil
}

// Delete removes the application if its status is still the one read by the caller.
func (r *ApplicationRepo) Delete(ctx context.Context, a *domain.Application) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      compositeKey("student_id", a.StudentID, "internship_id", a.InternshipID),
		ConditionExpression:      aws.String("#s = :s"),
		ExpressionAttributeNames: map[string]string{"#s": fieldStatus},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: string(a.Status)},
		},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("application changed concurrently: %w", domain.ErrConflict)
	}
	if err != nil {
		return storageErr("delete application", err)
	}
	return nil
}

func (r *ApplicationRepo) ListByStudent(ctx context.Context, studentID string) ([]domain.Application, error) {
	items, err := queryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("student_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: studentID},
		},
	})
	if err != nil {
		return nil, storageErr("query applications by student", err)
	}
	var apps []domain.Application
	if err := attributevalue.UnmarshalListOfMaps(items, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// ListByInternship returns the applications to one posting, newest first.
func (r *ApplicationRepo) ListByInternship(ctx context.Context, internshipID string) ([]domain.Application, error) {
	items, err := queryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexInternshipID),
		KeyConditionExpression: aws.String("internship_id = :iid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":iid": &types.AttributeValueMemberS{Value: internshipID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, storageErr("query applications by internship", err)
	}
	var apps []domain.Application
	if err := attributevalue.UnmarshalListOfMaps(items, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// DeleteByInternship removes every application to a posting and returns how many went.
func (r *ApplicationRepo) DeleteByInternship(ctx context.Context, internshipID string) (int, error) {
	items, err := queryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexInternshipID),
		KeyConditionExpression: aws.String("internship_id = :iid"),
		ProjectionExpression:   aws.String("student_id, internship_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":iid": &types.AttributeValueMemberS{Value: internshipID},
		},
	})
	if err != nil {
		return 0, storageErr("query applications by internship", err)
	}
	keys := make([]map[string]types.AttributeValue, 0, len(items))
	for _, item := range items {
		keys = append(keys, keyOf(item, "student_id", "internship_id"))
	}
	if err := batchDelete(ctx, r.client, r.tableName, keys); err != nil {
		return 0, storageErr("delete applications", err)
	}
	return len(keys), nil
}

// CountByStatus tallies every application by status.
func (r *ApplicationRepo) CountByStatus(ctx context.Context) (domain.ApplicationCounts, error) {
	items, err := scanAll(ctx, r.client, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		ProjectionExpression:     aws.String("#s"),
		ExpressionAttributeNames: map[string]string{"#s": fieldStatus},
	})
	if err != nil {
		return domain.ApplicationCounts{}, storageErr("scan applications", err)
	}
	var c domain.ApplicationCounts
	for _, item := range items {
		c.Total++
		s, _ := item[fieldStatus].(*types.AttributeValueMemberS)
		if s == nil {
			continue
		}
		switch domain.ApplicationStatus(s.Value) {
		case domain.StatusPending:
			c.Pending++
		case domain.StatusShortlisted:
			c.Shortlisted++
		case domain.StatusRejected:
			c.Rejected++
		case domain.StatusAccepted:
			c.Accepted++
		}
	}
	return c, nil
}

func (r *ApplicationRepo) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	items, err := scanAll(ctx, r.client, sinceScan(r.tableName, fieldAppliedAt, since))
	if err != nil {
		return nil, storageErr("scan applications", err)
	}
	return createdAtAttr(items, fieldAppliedAt)
}
