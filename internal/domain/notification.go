package domain

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotifApplicationReceived     NotificationType = "application_received"
	NotifApplicationStatusChange NotificationType = "application_status_change"
	NotifInternshipExpiring      NotificationType = "internship_expiring"
	NotifNewInternship           NotificationType = "new_internship"
	NotifDeadlineApproaching     NotificationType = "deadline_approaching"
)

// NotificationTTL is how long a notification lives before the table TTL removes it.
const NotificationTTL = 30 * 24 * time.Hour

type RecipientKind string

const (
	RecipientStudent   RecipientKind = "student"
	RecipientRecruiter RecipientKind = "recruiter"
)

// Recipient is the tagged reference to whoever owns a notification.
type Recipient struct {
	Kind RecipientKind
	ID   string
}

func (r Recipient) Valid() bool {
	return r.ID != "" && (r.Kind == RecipientStudent || r.Kind == RecipientRecruiter)
}

// RecipientFromRole maps an authenticated role onto a recipient kind.
func RecipientFromRole(role, id string) (Recipient, error) {
	switch role {
	case RoleStudent:
		return Recipient{Kind: RecipientStudent, ID: id}, nil
	case RoleRecruiter:
		return Recipient{Kind: RecipientRecruiter, ID: id}, nil
	}
	return Recipient{}, fmt.Errorf("role %q has no notifications: %w", role, ErrForbidden)
}

type Notification struct {
	NotificationID string            `json:"id" dynamodbav:"notification_id"`
	RecipientID    string            `json:"recipient_id" dynamodbav:"recipient_id"`
	RecipientKind  RecipientKind     `json:"recipient_kind" dynamodbav:"recipient_kind"`
	Type           NotificationType  `json:"type" dynamodbav:"type"`
	Title          string            `json:"title" dynamodbav:"title"`
	Message        string            `json:"message" dynamodbav:"message"`
	Data           map[string]string `json:"data,omitempty" dynamodbav:"data,omitempty"`
	IsRead         bool              `json:"is_read" dynamodbav:"is_read"`
	IsClicked      bool              `json:"is_clicked" dynamodbav:"is_clicked"`
	CreatedAt      time.Time         `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt      int64             `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// BelongsTo checks both halves of the tagged recipient.
func (n *Notification) BelongsTo(r Recipient) bool {
	return n.RecipientID == r.ID && n.RecipientKind == r.Kind
}

type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}
