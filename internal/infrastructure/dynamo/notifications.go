package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/internhub-api/internal/domain"
)

// NotificationRepo provides typed DynamoDB operations for the notifications table.
// Every read and write is scoped to the tagged recipient (id and kind).
type NotificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewNotificationRepo(client *dynamodb.Client, tableName string) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName}
}

func (r *NotificationRepo) Put(ctx context.Context, n *domain.Notification) error {
	item, err := marshalMap(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return storageErr("put notification", err)
	}
	return nil
}

// ListForRecipient returns up to limit notifications, newest first.
func (r *NotificationRepo) ListForRecipient(ctx context.Context, rc domain.Recipient, limit int) ([]domain.Notification, error) {
	input := r.recipientQuery(rc, false)
	input.ScanIndexForward = aws.Bool(false)

	var list []domain.Notification
	p := dynamodb.NewQueryPaginator(r.client, input)
	for p.HasMorePages() && len(list) < limit {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, storageErr("query notifications", err)
		}
		var page []domain.Notification
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		list = append(list, page...)
	}
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, rc domain.Recipient) (int, error) {
	n, err := countQuery(ctx, r.client, r.recipientQuery(rc, true))
	if err != nil {
		return 0, storageErr("count unread notifications", err)
	}
	return n, nil
}

// Mark sets the given flags on one notification owned by rc. A missing or
// foreign notification yields ErrNotFound.
func (r *NotificationRepo) Mark(ctx context.Context, notificationID string, rc domain.Recipient, flags map[string]interface{}) error {
	ue, err := buildUpdateExpr(flags)
	if err != nil {
		return err
	}
	ue.Names["#rid"] = "recipient_id"
	ue.Names["#rk"] = "recipient_kind"
	ue.Values[":rid"] = &types.AttributeValueMemberS{Value: rc.ID}
	ue.Values[":rk"] = &types.AttributeValueMemberS{Value: string(rc.Kind)}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("notification_id", notificationID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#rid = :rid AND #rk = :rk"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailed(err) {
		return fmt.Errorf("notification not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return storageErr("update notification", err)
	}
	return nil
}

// MarkAllRead flags every unread notification of rc as read and returns how many changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, rc domain.Recipient) (int, error) {
	input := r.recipientQuery(rc, true)
	input.ProjectionExpression = aws.String("notification_id")
	items, err := queryAll(ctx, r.client, input)
	if err != nil {
		return 0, storageErr("query unread notifications", err)
	}
	updated := 0
	for _, item := range items {
		id, ok := item["notification_id"].(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		if err := r.Mark(ctx, id.Value, rc, map[string]interface{}{fieldIsRead: true}); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// Delete removes one notification owned by rc.
func (r *NotificationRepo) Delete(ctx context.Context, notificationID string, rc domain.Recipient) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey("notification_id", notificationID),
		ConditionExpression:      aws.String("#rid = :rid AND #rk = :rk"),
		ExpressionAttributeNames: map[string]string{"#rid": "recipient_id", "#rk": "recipient_kind"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":rid": &types.AttributeValueMemberS{Value: rc.ID},
			":rk":  &types.AttributeValueMemberS{Value: string(rc.Kind)},
		},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("notification not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return storageErr("delete notification", err)
	}
	return nil
}

// DeleteAll removes every notification of rc and returns how many went.
func (r *NotificationRepo) DeleteAll(ctx context.Context, rc domain.Recipient) (int, error) {
	input := r.recipientQuery(rc, false)
	input.ProjectionExpression = aws.String("notification_id")
	items, err := queryAll(ctx, r.client, input)
	if err != nil {
		return 0, storageErr("query notifications", err)
	}
	keys := make([]map[string]types.AttributeValue, 0, len(items))
	for _, item := range items {
		keys = append(keys, keyOf(item, "notification_id"))
	}
	if err := batchDelete(ctx, r.client, r.tableName, keys); err != nil {
		return 0, storageErr("delete notifications", err)
	}
	return len(keys), nil
}

// recipientQuery builds a GSI query for rc. The kind is always part of the filter
// so a student and a recruiter sharing an id never see each other's rows.
func (r *NotificationRepo) recipientQuery(rc domain.Recipient, unreadOnly bool) *dynamodb.QueryInput {
	filter := "#rk = :rk"
	names := map[string]string{"#rk": "recipient_kind"}
	values := map[string]types.AttributeValue{
		":rid": &types.AttributeValueMemberS{Value: rc.ID},
		":rk":  &types.AttributeValueMemberS{Value: string(rc.Kind)},
	}
	if unreadOnly {
		filter += " AND #read = :f"
		names["#read"] = fieldIsRead
		values[":f"] = &types.AttributeValueMemberBOOL{Value: false}
	}
	return &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexRecipientCreated),
		KeyConditionExpression:    aws.String("recipient_id = :rid"),
		FilterExpression:          aws.String(filter),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
}
