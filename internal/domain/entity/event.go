package entity

import (
	"time"
)

// Event is an outbox row written in the same Firestore transaction as
// the state change that produced it. A background dispatcher turns
// undelivered events into per-recipient notifications, so a transition
// never silently loses its fan-out when a notification write fails.
type Event struct {
	ID          string     `json:"id" firestore:"id"`
	Kind        string     `json:"kind" firestore:"kind"`
	EntityID    string     `json:"entity_id" firestore:"entityId"`
	Recipients  []string   `json:"recipients" firestore:"recipients"`
	Text        string     `json:"text" firestore:"text"`
	Delivered   bool       `json:"delivered" firestore:"delivered"`
	Attempts    int        `json:"attempts" firestore:"attempts"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty" firestore:"deliveredAt,omitempty"`
	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
}

const (
	EventKindDealDeclined     = "deal.declined"
	EventKindDealSecured      = "deal.capital_secured"
	EventKindDealWaybill      = "deal.waybill_uploaded"
	EventKindDealConfirmed    = "deal.delivery_confirmed"
	EventKindQuoteAccepted    = "rfq.quote_accepted"
	EventKindQuoteNotSelected = "rfq.quote_not_selected"
	EventKindAccountVerified  = "user.verified"
)
