package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"fundlink/internal/domain/entity"
	"fundlink/internal/domain/repository"
	"fundlink/pkg/errors"
)

type firestoreEventRepository struct {
	client *firestore.Client
}

func NewFirestoreEventRepository(client *firestore.Client) repository.EventRepository {
	return &firestoreEventRepository{
		client: client,
	}
}

func (r *firestoreEventRepository) Append(ctx context.Context, event *entity.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.CreatedAt = time.Now()

	_, err := r.client.Collection("events").Doc(event.ID).Set(ctx, event)
	if err != nil {
		return errors.Internal("Failed to append event", err)
	}

	return nil
}

func (r *firestoreEventRepository) ListUndelivered(ctx context.Context, limit int) ([]*entity.Event, error) {
	query := r.client.Collection("events").
		Where("delivered", "==", false).
		OrderBy("createdAt", firestore.Asc)

	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	var events []*entity.Event

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate events", err)
		}

		var event entity.Event
		if err := doc.DataTo(&event); err != nil {
			return nil, errors.Internal("Failed to parse event data", err)
		}
		events = append(events, &event)
	}

	return events, nil
}

func (r *firestoreEventRepository) MarkDelivered(ctx context.Context, id string) error {
	now := time.Now()

	_, err := r.client.Collection("events").Doc(id).Update(ctx, []firestore.Update{
		{Path: "delivered", Value: true},
		{Path: "deliveredAt", Value: now},
	})
	if err != nil {
		return errors.Internal("Failed to mark event delivered", err)
	}

	return nil
}

func (r *firestoreEventRepository) RecordFailure(ctx context.Context, id string) error {
	_, err := r.client.Collection("events").Doc(id).Update(ctx, []firestore.Update{
		{Path: "attempts", Value: firestore.Increment(1)},
	})
	if err != nil {
		return errors.Internal("Failed to record delivery attempt", err)
	}

	return nil
}
