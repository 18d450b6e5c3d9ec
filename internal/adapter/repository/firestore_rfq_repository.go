package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fundlink/internal/domain/entity"
	"fundlink/internal/domain/repository"
	"fundlink/pkg/errors"
)

type firestoreRFQRepository struct {
	client *firestore.Client
}

func NewFirestoreRFQRepository(client *firestore.Client) repository.RFQRepository {
	return &firestoreRFQRepository{
		client: client,
	}
}

func (r *firestoreRFQRepository) Create(ctx context.Context, rfq *entity.RFQ) error {
	if rfq.ID == "" {
		rfq.ID = uuid.New().String()
	}

	now := time.Now()
	rfq.CreatedAt = now
	rfq.UpdatedAt = now

	if rfq.Quotes == nil {
		rfq.Quotes = []entity.Quote{}
	}

	_, err := r.client.Collection("rfqs").Doc(rfq.ID).Set(ctx, rfq)
	if err != nil {
		return errors.Internal("Failed to create RFQ", err)
	}

	return nil
}

func (r *firestoreRFQRepository) GetByID(ctx context.Context, id string) (*entity.RFQ, error) {
	doc, err := r.client.Collection("rfqs").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("RFQ", err)
		}
		return nil, errors.Internal("Failed to get RFQ", err)
	}

	var rfq entity.RFQ
	if err := doc.DataTo(&rfq); err != nil {
		return nil, errors.Internal("Failed to parse RFQ data", err)
	}

	return &rfq, nil
}

// AppendQuote re-reads the RFQ inside a transaction so a quote cannot
// land on an RFQ that closed between read and write.
func (r *firestoreRFQRepository) AppendQuote(ctx context.Context, rfqID string, quote *entity.Quote) error {
	if quote.ID == "" {
		quote.ID = uuid.New().String()
	}
	quote.SubmittedAt = time.Now()

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := r.client.Collection("rfqs").Doc(rfqID)

		snapshot, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("RFQ", err)
			}
			return errors.Internal("Failed to get RFQ", err)
		}

		var current entity.RFQ
		if err := snapshot.DataTo(&current); err != nil {
			return errors.Internal("Failed to parse RFQ data", err)
		}

		if current.Status != entity.RFQStatusRequested {
			return errors.Conflict("RFQ is no longer accepting quotes", nil)
		}

		current.Quotes = append(current.Quotes, *quote)
		current.UpdatedAt = time.Now()

		if err := tx.Set(ref, &current); err != nil {
			return errors.Internal("Failed to append quote", err)
		}

		return nil
	})
}

// Close applies the acceptance to the document re-read inside the
// transaction rather than writing the caller's copy back, so a quote
// appended between the caller's read and the close is not erased and
// the fan-out built here sees it.
func (r *firestoreRFQRepository) Close(ctx context.Context, rfqID, quoteID string, buildEvents func(rfq *entity.RFQ, accepted *entity.Quote) []*entity.Event) (*entity.RFQ, error) {
	var closed *entity.RFQ

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := r.client.Collection("rfqs").Doc(rfqID)

		snapshot, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("RFQ", err)
			}
			return errors.Internal("Failed to get RFQ", err)
		}

		var current entity.RFQ
		if err := snapshot.DataTo(&current); err != nil {
			return errors.Internal("Failed to parse RFQ data", err)
		}

		if current.Status != entity.RFQStatusRequested {
			return errors.Conflict("RFQ has already been closed", nil)
		}

		var accepted *entity.Quote
		for i := range current.Quotes {
			if current.Quotes[i].ID == quoteID {
				accepted = &current.Quotes[i]
				break
			}
		}
		if accepted == nil {
			return errors.NotFound("Quote", nil)
		}

		now := time.Now()
		acceptedCopy := *accepted
		current.Status = entity.RFQStatusClosed
		current.AcceptedQuote = &acceptedCopy
		current.ClosedAt = &now
		current.UpdatedAt = now

		events := buildEvents(&current, accepted)
		for _, event := range events {
			if event.ID == "" {
				event.ID = uuid.New().String()
			}
			event.CreatedAt = now
		}

		if err := tx.Set(ref, &current); err != nil {
			return errors.Internal("Failed to close RFQ", err)
		}

		for _, event := range events {
			eventRef := r.client.Collection("events").Doc(event.ID)
			if err := tx.Set(eventRef, event); err != nil {
				return errors.Internal("Failed to append RFQ event", err)
			}
		}

		closed = &current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return closed, nil
}

func (r *firestoreRFQRepository) ListBySmeID(ctx context.Context, smeID string, limit, offset int) ([]*entity.RFQ, int64, error) {
	query := r.client.Collection("rfqs").
		Where("smeId", "==", smeID).
		OrderBy("createdAt", firestore.Desc)

	return r.runRFQQuery(ctx, query, limit, offset)
}

func (r *firestoreRFQRepository) ListOpen(ctx context.Context, category string, limit, offset int) ([]*entity.RFQ, int64, error) {
	query := r.client.Collection("rfqs").
		Where("status", "==", string(entity.RFQStatusRequested))

	if category != "" {
		query = query.Where("category", "==", category)
	}

	query = query.OrderBy("createdAt", firestore.Desc)

	return r.runRFQQuery(ctx, query, limit, offset)
}

func (r *firestoreRFQRepository) runRFQQuery(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.RFQ, int64, error) {
	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count RFQs", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var rfqs []*entity.RFQ

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate RFQs", err)
		}

		var rfq entity.RFQ
		if err := doc.DataTo(&rfq); err != nil {
			return nil, 0, errors.Internal("Failed to parse RFQ data", err)
		}
		rfqs = append(rfqs, &rfq)
	}

	return rfqs, total, nil
}
