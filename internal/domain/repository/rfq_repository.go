package repository

import (
	"context"

	"fundlink/internal/domain/entity"
)

type RFQRepository interface {
	Create(ctx context.Context, rfq *entity.RFQ) error
	GetByID(ctx context.Context, id string) (*entity.RFQ, error)

	// AppendQuote adds a quote while the RFQ is still requested.
	// Appending to a closed RFQ yields a CONFLICT error.
	AppendQuote(ctx context.Context, rfqID string, quote *entity.Quote) error

	// Close marks the quote identified by quoteID accepted and the RFQ
	// closed, conditionally on the stored status still being requested.
	// The acceptance is applied to the document re-read inside the
	// transaction and buildEvents runs against that same state, so a
	// quote appended after the caller's read survives the close and its
	// supplier is included in the fan-out. The events commit in the same
	// transaction; a second accept attempt yields a CONFLICT error.
	Close(ctx context.Context, rfqID, quoteID string, buildEvents func(rfq *entity.RFQ, accepted *entity.Quote) []*entity.Event) (*entity.RFQ, error)

	ListBySmeID(ctx context.Context, smeID string, limit, offset int) ([]*entity.RFQ, int64, error)
	ListOpen(ctx context.Context, category string, limit, offset int) ([]*entity.RFQ, int64, error)
}
