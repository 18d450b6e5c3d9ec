package repository

import (
	"context"

	"fundlink/internal/domain/entity"
)

type DealRepository interface {
	Create(ctx context.Context, deal *entity.Deal) error
	GetByID(ctx context.Context, id string) (*entity.Deal, error)

	// Transition persists the deal conditionally on its stored status
	// still being expected, and writes the outbox events and optional
	// ledger row in the same Firestore transaction. A stale expected
	// status yields a CONFLICT error and leaves everything untouched.
	Transition(ctx context.Context, deal *entity.Deal, expected entity.DealStatus, events []*entity.Event, disbursement *entity.Disbursement) error

	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Deal, int64, error)
	ListByUserID(ctx context.Context, userID string, role string, status string, limit, offset int) ([]*entity.Deal, int64, error)
	ListPendingReview(ctx context.Context, limit, offset int) ([]*entity.Deal, int64, error)

	ListDisbursements(ctx context.Context, dealID string) ([]*entity.Disbursement, error)
}
