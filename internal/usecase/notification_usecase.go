package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fundlink/internal/domain/entity"
	"fundlink/internal/domain/repository"
	"fundlink/pkg/logger"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	eventRepo        repository.EventRepository
	dispatchInterval time.Duration
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	eventRepo repository.EventRepository,
	dispatchInterval time.Duration,
) *NotificationUseCase {
	if dispatchInterval <= 0 {
		dispatchInterval = 30 * time.Second
	}
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		eventRepo:        eventRepo,
		dispatchInterval: dispatchInterval,
	}
}

func (uc *NotificationUseCase) ListNotifications(ctx context.Context, userID string) ([]entity.NotificationItem, error) {
	list, err := uc.notificationRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if list.Items == nil {
		return []entity.NotificationItem{}, nil
	}
	return list.Items, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, itemID string) error {
	return uc.notificationRepo.MarkRead(ctx, userID, itemID)
}

func (uc *NotificationUseCase) ClearAll(ctx context.Context, userID string) error {
	return uc.notificationRepo.Clear(ctx, userID)
}

// Dispatch drains undelivered outbox events into per-recipient inboxes.
// An event is only marked delivered once every recipient push succeeded;
// a partial failure leaves it undelivered and it is retried on the next
// tick, so delivery is at-least-once rather than silently lost.
func (uc *NotificationUseCase) Dispatch(ctx context.Context) error {
	events, err := uc.eventRepo.ListUndelivered(ctx, 100)
	if err != nil {
		return err
	}

	for _, event := range events {
		delivered := true

		for _, recipient := range event.Recipients {
			item := entity.NotificationItem{
				ID:   uuid.New().String(),
				Text: event.Text,
				Read: false,
				Time: time.Now(),
			}

			if err := uc.notificationRepo.Push(ctx, recipient, item); err != nil {
				logger.Warn("Failed to deliver event %s to %s: %v", event.ID, recipient, err)
				delivered = false
				break
			}
		}

		if delivered {
			if err := uc.eventRepo.MarkDelivered(ctx, event.ID); err != nil {
				logger.Error("Failed to mark event %s delivered: %v", event.ID, err)
			}
		} else {
			if err := uc.eventRepo.RecordFailure(ctx, event.ID); err != nil {
				logger.Error("Failed to record delivery attempt for event %s: %v", event.ID, err)
			}
		}
	}

	return nil
}

// StartDispatcher runs Dispatch on a ticker until ctx is cancelled.
func (uc *NotificationUseCase) StartDispatcher(ctx context.Context) {
	ticker := time.NewTicker(uc.dispatchInterval)

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := uc.Dispatch(ctx); err != nil {
					logger.Error("Notification dispatch error: %v", err)
				}
			case <-ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()

	logger.Info("Notification dispatcher started (every %s)", uc.dispatchInterval)
}
