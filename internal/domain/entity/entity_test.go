package entity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDealStatusIsTerminal(t *testing.T) {
	assert.False(t, DealStatusPendingReview.IsTerminal())
	assert.False(t, DealStatusCapitalSecured.IsTerminal())
	assert.False(t, DealStatusWaybillUploaded.IsTerminal())
	assert.True(t, DealStatusDeliveryConfirmed.IsTerminal())
	assert.True(t, DealStatusDeclined.IsTerminal())
}

func TestNotificationListPrependTrims(t *testing.T) {
	list := &NotificationList{UserID: "sme-1"}

	for i := 0; i < MaxNotifications+10; i++ {
		list.Prepend(NotificationItem{ID: fmt.Sprintf("n-%d", i), Text: "x"})
	}

	assert.Len(t, list.Items, MaxNotifications)
	// Newest first; the oldest ten fell off the end.
	assert.Equal(t, fmt.Sprintf("n-%d", MaxNotifications+9), list.Items[0].ID)
	assert.Equal(t, "n-10", list.Items[MaxNotifications-1].ID)
}

func TestLowestQuoteIgnoresOrder(t *testing.T) {
	rfq := &RFQ{Quotes: []Quote{
		{ID: "q-1", Amount: 19000},
		{ID: "q-2", Amount: 15500},
		{ID: "q-3", Amount: 17250},
	}}

	lowest := rfq.LowestQuote()
	assert.Equal(t, "q-2", lowest.ID)

	var empty RFQ
	assert.Nil(t, empty.LowestQuote())
}
