package repository

import (
	"context"

	"fundlink/internal/domain/entity"
)

type NotificationRepository interface {
	// GetByUserID returns the user's inbox, or an empty list if none exists yet.
	GetByUserID(ctx context.Context, userID string) (*entity.NotificationList, error)
	Push(ctx context.Context, userID string, item entity.NotificationItem) error
	MarkRead(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}

type EventRepository interface {
	Append(ctx context.Context, event *entity.Event) error
	ListUndelivered(ctx context.Context, limit int) ([]*entity.Event, error)
	MarkDelivered(ctx context.Context, id string) error
	RecordFailure(ctx context.Context, id string) error
}
