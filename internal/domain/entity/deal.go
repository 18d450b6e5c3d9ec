package entity

import (
	"time"
)

type DealStatus string

const (
	DealStatusPendingReview     DealStatus = "pending_review"
	DealStatusCapitalSecured    DealStatus = "capital_secured"
	DealStatusWaybillUploaded   DealStatus = "waybill_uploaded"
	DealStatusDeliveryConfirmed DealStatus = "delivery_confirmed"
	DealStatusDeclined          DealStatus = "declined"
)

// IsTerminal reports whether no further transition is permitted.
func (s DealStatus) IsTerminal() bool {
	return s == DealStatusDeliveryConfirmed || s == DealStatusDeclined
}

type DealTerms struct {
	Principal  float64 `json:"principal" firestore:"principal"`
	Interest   float64 `json:"interest" firestore:"interest"`
	Fees       float64 `json:"fees" firestore:"fees"`
	Total      float64 `json:"total" firestore:"total"`
	TermMonths int     `json:"term_months" firestore:"termMonths"`
}

type Deal struct {
	ID       string     `json:"id" firestore:"id"`
	SmeID    string     `json:"sme_id" firestore:"smeId"`
	SmeName  string     `json:"sme_name" firestore:"smeName"`
	Amount   float64    `json:"amount" firestore:"amount"`
	Category string     `json:"category" firestore:"category"`
	Status   DealStatus `json:"status" firestore:"status"`

	// Set exactly once, at capital_secured. Immutable afterwards.
	FunderID     string     `json:"funder_id,omitempty" firestore:"funderId,omitempty"`
	FunderName   string     `json:"funder_name,omitempty" firestore:"funderName,omitempty"`
	SupplierID   string     `json:"supplier_id,omitempty" firestore:"supplierId,omitempty"`
	SupplierName string     `json:"supplier_name,omitempty" firestore:"supplierName,omitempty"`
	Terms        *DealTerms `json:"deal_terms,omitempty" firestore:"dealTerms,omitempty"`

	WaybillURL string `json:"waybill_url,omitempty" firestore:"waybillUrl,omitempty"`

	DeclineReason string     `json:"decline_reason,omitempty" firestore:"declineReason,omitempty"`
	DeclinedBy    string     `json:"declined_by,omitempty" firestore:"declinedBy,omitempty"`
	DeclinedAt    *time.Time `json:"declined_at,omitempty" firestore:"declinedAt,omitempty"`

	CreatedAt    time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time  `json:"updated_at" firestore:"updatedAt"`
	SecuredAt    *time.Time `json:"secured_at,omitempty" firestore:"securedAt,omitempty"`
	DispatchedAt *time.Time `json:"dispatched_at,omitempty" firestore:"dispatchedAt,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty" firestore:"confirmedAt,omitempty"`
}

// Disbursement is one escrow ledger row, appended at the transition
// that released the tranche. Percent paid is derived by summing rows,
// not by trusting the current status alone.
type Disbursement struct {
	ID        string     `json:"id" firestore:"id"`
	DealID    string     `json:"deal_id" firestore:"dealId"`
	Milestone DealStatus `json:"milestone" firestore:"milestone"`
	Percent   int        `json:"percent" firestore:"percent"`
	Amount    float64    `json:"amount" firestore:"amount"`
	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
}
