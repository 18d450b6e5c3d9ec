package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fundlink/internal/domain/entity"
	"fundlink/internal/domain/repository"
	"fundlink/pkg/errors"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) GetByUserID(ctx context.Context, userID string) (*entity.NotificationList, error) {
	doc, err := r.client.Collection("user_notifications").Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &entity.NotificationList{UserID: userID, Items: []entity.NotificationItem{}}, nil
		}
		return nil, errors.Internal("Failed to get notifications", err)
	}

	var list entity.NotificationList
	if err := doc.DataTo(&list); err != nil {
		return nil, errors.Internal("Failed to parse notification data", err)
	}

	return &list, nil
}

// Push prepends inside a transaction so two concurrent deliveries to
// the same inbox cannot drop each other's entries.
func (r *firestoreNotificationRepository) Push(ctx context.Context, userID string, item entity.NotificationItem) error {
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := r.client.Collection("user_notifications").Doc(userID)

		list := entity.NotificationList{UserID: userID, Items: []entity.NotificationItem{}}

		snapshot, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return errors.Internal("Failed to get notifications", err)
		}
		if err == nil {
			if err := snapshot.DataTo(&list); err != nil {
				return errors.Internal("Failed to parse notification data", err)
			}
		}

		list.Prepend(item)
		list.UpdatedAt = time.Now()

		if err := tx.Set(ref, &list); err != nil {
			return errors.Internal("Failed to write notifications", err)
		}

		return nil
	})
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, userID, itemID string) error {
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := r.client.Collection("user_notifications").Doc(userID)

		snapshot, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Notification", err)
			}
			return errors.Internal("Failed to get notifications", err)
		}

		var list entity.NotificationList
		if err := snapshot.DataTo(&list); err != nil {
			return errors.Internal("Failed to parse notification data", err)
		}

		found := false
		for i := range list.Items {
			if list.Items[i].ID == itemID {
				list.Items[i].Read = true
				found = true
				break
			}
		}
		if !found {
			return errors.NotFound("Notification", nil)
		}

		list.UpdatedAt = time.Now()

		if err := tx.Set(ref, &list); err != nil {
			return errors.Internal("Failed to write notifications", err)
		}

		return nil
	})
}

func (r *firestoreNotificationRepository) Clear(ctx context.Context, userID string) error {
	list := entity.NotificationList{
		UserID:    userID,
		Items:     []entity.NotificationItem{},
		UpdatedAt: time.Now(),
	}

	_, err := r.client.Collection("user_notifications").Doc(userID).Set(ctx, &list)
	if err != nil {
		return errors.Internal("Failed to clear notifications", err)
	}

	return nil
}
