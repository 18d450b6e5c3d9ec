package entity

import (
	"time"
)

type RFQStatus string

const (
	RFQStatusRequested RFQStatus = "requested"
	RFQStatusClosed    RFQStatus = "closed"
)

type Quote struct {
	ID           string    `json:"id" firestore:"id"`
	SupplierID   string    `json:"supplier_id" firestore:"supplierId"`
	SupplierName string    `json:"supplier_name" firestore:"supplierName"`
	Amount       float64   `json:"amount" firestore:"amount"`
	Note         string    `json:"note,omitempty" firestore:"note,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at" firestore:"submittedAt"`
}

type RFQ struct {
	ID       string    `json:"id" firestore:"id"`
	SmeID    string    `json:"sme_id" firestore:"smeId"`
	SmeName  string    `json:"sme_name" firestore:"smeName"`
	Title    string    `json:"title" firestore:"title"`
	Category string    `json:"category" firestore:"category"`
	Specs    string    `json:"specs,omitempty" firestore:"specs,omitempty"`
	Location string    `json:"location,omitempty" firestore:"location,omitempty"`
	Status   RFQStatus `json:"status" firestore:"status"`

	// Append-only while requested. A supplier may submit more than one
	// quote; re-submission is how a quote gets revised.
	Quotes []Quote `json:"quotes" firestore:"quotes"`

	AcceptedQuote *Quote     `json:"accepted_quote,omitempty" firestore:"acceptedQuote,omitempty"`
	ClosedAt      *time.Time `json:"closed_at,omitempty" firestore:"closedAt,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// LowestQuote returns the cheapest quote for display highlighting.
// It is not a constraint on which quote the SME may accept.
func (r *RFQ) LowestQuote() *Quote {
	var lowest *Quote
	for i := range r.Quotes {
		if lowest == nil || r.Quotes[i].Amount < lowest.Amount {
			lowest = &r.Quotes[i]
		}
	}
	return lowest
}
