package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/internhub-api/internal/domain"
	"github.com/internhub-api/internal/pkg/id"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// NotifyInput describes one notification to fan out to a single recipient.
type NotifyInput struct {
	Recipient domain.Recipient
	Type      domain.NotificationType
	Title     string
	Message   string
	Data      map[string]string
}

type Service interface {
	// Notify persists a notification and never fails the caller: errors are
	// logged and a nil notification is returned.
	Notify(ctx context.Context, in NotifyInput) *domain.Notification
	ListForRecipient(ctx context.Context, rc domain.Recipient, limit int) (*domain.NotificationPage, error)
	MarkRead(ctx context.Context, notificationID string, rc domain.Recipient) error
	MarkClicked(ctx context.Context, notificationID string, rc domain.Recipient) error
	MarkAllRead(ctx context.Context, rc domain.Recipient) (int, error)
	DeleteOne(ctx context.Context, notificationID string, rc domain.Recipient) error
	DeleteAll(ctx context.Context, rc domain.Recipient) (int, error)
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	ListForRecipient(ctx context.Context, rc domain.Recipient, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, rc domain.Recipient) (int, error)
	Mark(ctx context.Context, notificationID string, rc domain.Recipient, flags map[string]interface{}) error
	MarkAllRead(ctx context.Context, rc domain.Recipient) (int, error)
	Delete(ctx context.Context, notificationID string, rc domain.Recipient) error
	DeleteAll(ctx context.Context, rc domain.Recipient) (int, error)
}

type service struct {
	repo notificationStore
	now  func() time.Time
}

type ServiceDeps struct {
	NotificationRepo notificationStore
	Now              func() time.Time // defaults to time.Now
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: deps.NotificationRepo, now: now}
}

func (s *service) Notify(ctx context.Context, in NotifyInput) *domain.Notification {
	if !in.Recipient.Valid() {
		slog.Warn("notification skipped: invalid recipient", "kind", in.Recipient.Kind, "recipient_id", in.Recipient.ID, "type", in.Type)
		return nil
	}
	now := s.now().UTC()
	n := &domain.Notification{
		NotificationID: id.New(),
		RecipientID:    in.Recipient.ID,
		RecipientKind:  in.Recipient.Kind,
		Type:           in.Type,
		Title:          in.Title,
		Message:        in.Message,
		Data:           in.Data,
		CreatedAt:      now,
		ExpiresAt:      now.Add(domain.NotificationTTL).Unix(),
	}
	if err := s.repo.Put(ctx, n); err != nil {
		slog.Warn("failed to persist notification", "recipient_id", n.RecipientID, "type", n.Type, "err", err)
		return nil
	}
	return n
}

func (s *service) ListForRecipient(ctx context.Context, rc domain.Recipient, limit int) (*domain.NotificationPage, error) {
	if !rc.Valid() {
		return nil, fmt.Errorf("invalid recipient: %w", domain.ErrInvalidRequest)
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	list, err := s.repo.ListForRecipient(ctx, rc, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, rc)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Notification{}
	}
	return &domain.NotificationPage{Notifications: list, UnreadCount: unread}, nil
}

func (s *service) MarkRead(ctx context.Context, notificationID string, rc domain.Recipient) error {
	return s.mark(ctx, notificationID, rc, map[string]interface{}{"is_read": true})
}

// MarkClicked implies read.
func (s *service) MarkClicked(ctx context.Context, notificationID string, rc domain.Recipient) error {
	return s.mark(ctx, notificationID, rc, map[string]interface{}{"is_read": true, "is_clicked": true})
}

func (s *service) mark(ctx context.Context, notificationID string, rc domain.Recipient, flags map[string]interface{}) error {
	if notificationID == "" || !rc.Valid() {
		return fmt.Errorf("notification not found: %w", domain.ErrNotFound)
	}
	return s.repo.Mark(ctx, notificationID, rc, flags)
}

func (s *service) MarkAllRead(ctx context.Context, rc domain.Recipient) (int, error) {
	if !rc.Valid() {
		return 0, fmt.Errorf("invalid recipient: %w", domain.ErrInvalidRequest)
	}
	return s.repo.MarkAllRead(ctx, rc)
}

func (s *service) DeleteOne(ctx context.Context, notificationID string, rc domain.Recipient) error {
	if notificationID == "" || !rc.Valid() {
		return fmt.Errorf("notification not found: %w", domain.ErrNotFound)
	}
	return s.repo.Delete(ctx, notificationID, rc)
}

func (s *service) DeleteAll(ctx context.Context, rc domain.Recipient) (int, error) {
	if !rc.Valid() {
		return 0, fmt.Errorf("invalid recipient: %w", domain.ErrInvalidRequest)
	}
	return s.repo.DeleteAll(ctx, rc)
}
