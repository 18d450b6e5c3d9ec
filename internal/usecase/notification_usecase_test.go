package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundlink/internal/domain/entity"
	"fundlink/pkg/errors"
)

type fakeNotificationRepo struct {
	inboxes map[string]*entity.NotificationList

	// failFor makes Push fail for the named user, so a partial fan-out
	// can be exercised.
	failFor map[string]bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		inboxes: map[string]*entity.NotificationList{},
		failFor: map[string]bool{},
	}
}

func (r *fakeNotificationRepo) GetByUserID(ctx context.Context, userID string) (*entity.NotificationList, error) {
	if list, ok := r.inboxes[userID]; ok {
		return list, nil
	}
	return &entity.NotificationList{UserID: userID, Items: []entity.NotificationItem{}}, nil
}

func (r *fakeNotificationRepo) Push(ctx context.Context, userID string, item entity.NotificationItem) error {
	if r.failFor[userID] {
		return errors.Internal("inbox write failed", nil)
	}
	list, ok := r.inboxes[userID]
	if !ok {
		list = &entity.NotificationList{UserID: userID}
		r.inboxes[userID] = list
	}
	list.Prepend(item)
	return nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, userID, itemID string) error {
	list, ok := r.inboxes[userID]
	if !ok {
		return errors.NotFound("Notification", nil)
	}
	for i := range list.Items {
		if list.Items[i].ID == itemID {
			list.Items[i].Read = true
			return nil
		}
	}
	return errors.NotFound("Notification", nil)
}

func (r *fakeNotificationRepo) Clear(ctx context.Context, userID string) error {
	r.inboxes[userID] = &entity.NotificationList{UserID: userID, Items: []entity.NotificationItem{}}
	return nil
}

type fakeEventRepo struct {
	events []*entity.Event
	nextID int
}

func (r *fakeEventRepo) Append(ctx context.Context, event *entity.Event) error {
	r.nextID++
	event.ID = fmt.Sprintf("event-%d", r.nextID)
	event.CreatedAt = time.Now()
	r.events = append(r.events, event)
	return nil
}

func (r *fakeEventRepo) ListUndelivered(ctx context.Context, limit int) ([]*entity.Event, error) {
	var undelivered []*entity.Event
	for _, event := range r.events {
		if !event.Delivered {
			undelivered = append(undelivered, event)
		}
		if len(undelivered) == limit {
			break
		}
	}
	return undelivered, nil
}

func (r *fakeEventRepo) MarkDelivered(ctx context.Context, id string) error {
	for _, event := range r.events {
		if event.ID == id {
			now := time.Now()
			event.Delivered = true
			event.DeliveredAt = &now
			return nil
		}
	}
	return errors.NotFound("Event", nil)
}

func (r *fakeEventRepo) RecordFailure(ctx context.Context, id string) error {
	for _, event := range r.events {
		if event.ID == id {
			event.Attempts++
			return nil
		}
	}
	return errors.NotFound("Event", nil)
}

func setupNotificationUseCase() (*NotificationUseCase, *fakeNotificationRepo, *fakeEventRepo) {
	notificationRepo := newFakeNotificationRepo()
	eventRepo := &fakeEventRepo{}
	return NewNotificationUseCase(notificationRepo, eventRepo, time.Minute), notificationRepo, eventRepo
}

func appendTestEvent(t *testing.T, eventRepo *fakeEventRepo, text string, recipients ...string) *entity.Event {
	t.Helper()
	event := &entity.Event{
		Kind:       entity.EventKindDealSecured,
		EntityID:   "deal-1",
		Recipients: recipients,
		Text:       text,
	}
	require.NoError(t, eventRepo.Append(context.Background(), event))
	return event
}

func TestDispatchDeliversToEachRecipient(t *testing.T) {
	uc, _, eventRepo := setupNotificationUseCase()
	event := appendTestEvent(t, eventRepo, "Deal closed.", "funder-1", "supplier-1")

	require.NoError(t, uc.Dispatch(context.Background()))

	for _, userID := range []string{"funder-1", "supplier-1"} {
		items, err := uc.ListNotifications(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Deal closed.", items[0].Text)
		assert.False(t, items[0].Read)
	}

	assert.True(t, event.Delivered)
	assert.NotNil(t, event.DeliveredAt)

	// A second tick finds nothing to redeliver.
	require.NoError(t, uc.Dispatch(context.Background()))
	items, err := uc.ListNotifications(context.Background(), "funder-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestDispatchRetriesPartialFailure(t *testing.T) {
	uc, notificationRepo, eventRepo := setupNotificationUseCase()
	event := appendTestEvent(t, eventRepo, "Waybill uploaded.", "sme-1")
	notificationRepo.failFor["sme-1"] = true

	require.NoError(t, uc.Dispatch(context.Background()))

	assert.False(t, event.Delivered)
	assert.Equal(t, 1, event.Attempts)

	// The inbox comes back and the next tick delivers.
	notificationRepo.failFor["sme-1"] = false
	require.NoError(t, uc.Dispatch(context.Background()))

	assert.True(t, event.Delivered)
	items, err := uc.ListNotifications(context.Background(), "sme-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestMarkReadAndClear(t *testing.T) {
	uc, _, eventRepo := setupNotificationUseCase()
	appendTestEvent(t, eventRepo, "Capital secured.", "sme-1")
	require.NoError(t, uc.Dispatch(context.Background()))

	items, err := uc.ListNotifications(context.Background(), "sme-1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, uc.MarkRead(context.Background(), "sme-1", items[0].ID))
	items, err = uc.ListNotifications(context.Background(), "sme-1")
	require.NoError(t, err)
	assert.True(t, items[0].Read)

	require.NoError(t, uc.ClearAll(context.Background(), "sme-1"))
	items, err = uc.ListNotifications(context.Background(), "sme-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListNotificationsEmptyInbox(t *testing.T) {
	uc, _, _ := setupNotificationUseCase()

	items, err := uc.ListNotifications(context.Background(), "nobody")
	require.NoError(t, err)

	assert.NotNil(t, items)
	assert.Empty(t, items)
}
