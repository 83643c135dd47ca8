package dynamo

import (
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/internhub-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"status": "shortlisted"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "status"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"title":      "Backend Intern",
		"location":   "Remote",
		"updated_at": time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)
	assert.Equal(t, "location", ue1.Names["#f0"])
	assert.Equal(t, "title", ue1.Names["#f1"])
	assert.Equal(t, "updated_at", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"is_read": true})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	boolVal, isBool := av.(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.True(t, boolVal.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestStorageErr_WrapsKindAndCause(t *testing.T) {
	cause := errors.New("throttled")
	err := storageErr("put application", cause)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "put application")
}

func TestIsConditionFailed(t *testing.T) {
	assert.True(t, isConditionFailed(&types.ConditionalCheckFailedException{}))
	assert.False(t, isConditionFailed(errors.New("other")))
}

func TestCreatedAtAttr_SkipsItemsWithoutAttribute(t *testing.T) {
	ts := time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC)
	items := []map[string]types.AttributeValue{
		{"created_at": &types.AttributeValueMemberS{Value: formatTime(ts)}},
		{"other": &types.AttributeValueMemberS{Value: "x"}},
	}
	got, err := createdAtAttr(items, "created_at")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, ts.Equal(got[0]))
}

func TestSinceScan_FiltersOnAttribute(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := sinceScan("students", "created_at", since)
	assert.Equal(t, "students", *in.TableName)
	assert.Equal(t, "created_at", in.ExpressionAttributeNames["#a"])
	v := in.ExpressionAttributeValues[":since"].(*types.AttributeValueMemberS)
	assert.Equal(t, "2024-01-01T00:00:00.000000000Z", v.Value)
}

func TestKeyOf_CopiesOnlyNamedAttributes(t *testing.T) {
	item := map[string]types.AttributeValue{
		"student_id":    &types.AttributeValueMemberS{Value: "s1"},
		"internship_id": &types.AttributeValueMemberS{Value: "i1"},
		"status":        &types.AttributeValueMemberS{Value: "pending"},
	}
	k := keyOf(item, "student_id", "internship_id")
	assert.Len(t, k, 2)
	assert.NotContains(t, k, "status")
}

func TestFormatTime_SortsLikeTime(t *testing.T) {
	base := time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC)
	times := []time.Time{
		base,
		base.Add(500 * time.Millisecond),
		base.Add(time.Second),
		base.Add(time.Second + time.Nanosecond),
	}
	for i := 1; i < len(times); i++ {
		a, b := formatTime(times[i-1]), formatTime(times[i])
		assert.Less(t, a, b)
		assert.Len(t, b, len(a))
	}
	assert.Equal(t, "2024-03-09T10:30:00.000000000Z", formatTime(base.In(time.FixedZone("x", 3600))))
}

func TestMarshalMap_FixedWidthTimestamps(t *testing.T) {
	created := time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC)
	n := &domain.Notification{NotificationID: "n1", CreatedAt: created}

	item, err := marshalMap(n)
	require.NoError(t, err)
	v, ok := item["created_at"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "2024-03-09T10:30:00.000000000Z", v.Value)

	var back domain.Notification
	require.NoError(t, attributevalue.UnmarshalMap(item, &back))
	assert.True(t, created.Equal(back.CreatedAt))
}
