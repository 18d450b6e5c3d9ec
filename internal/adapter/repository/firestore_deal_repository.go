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

type firestoreDealRepository struct {
	client *firestore.Client
}

func NewFirestoreDealRepository(client *firestore.Client) repository.DealRepository {
	return &firestoreDealRepository{
		client: client,
	}
}

func (r *firestoreDealRepository) Create(ctx context.Context, deal *entity.Deal) error {
	if deal.ID == "" {
		deal.ID = uuid.New().String()
	}

	now := time.Now()
	deal.CreatedAt = now
	deal.UpdatedAt = now

	_, err := r.client.Collection("deals").Doc(deal.ID).Set(ctx, deal)
	if err != nil {
		return errors.Internal("Failed to create deal", err)
	}

	return nil
}

func (r *firestoreDealRepository) GetByID(ctx context.Context, id string) (*entity.Deal, error) {
	doc, err := r.client.Collection("deals").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Deal", err)
		}
		return nil, errors.Internal("Failed to get deal", err)
	}

	var deal entity.Deal
	if err := doc.DataTo(&deal); err != nil {
		return nil, errors.Internal("Failed to parse deal data", err)
	}

	return &deal, nil
}

// Transition re-reads the deal inside a Firestore transaction and rejects
// the write if its status no longer matches expected, so two funders
// racing to structure the same deal cannot overwrite each other. The
// outbox events and ledger row commit atomically with the deal itself.
func (r *firestoreDealRepository) Transition(ctx context.Context, deal *entity.Deal, expected entity.DealStatus, events []*entity.Event, disbursement *entity.Disbursement) error {
	now := time.Now()
	deal.UpdatedAt = now

	for _, event := range events {
		if event.ID == "" {
			event.ID = uuid.New().String()
		}
		event.CreatedAt = now
	}

	if disbursement != nil {
		if disbursement.ID == "" {
			disbursement.ID = uuid.New().String()
		}
		disbursement.CreatedAt = now
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := r.client.Collection("deals").Doc(deal.ID)

		snapshot, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Deal", err)
			}
			return errors.Internal("Failed to get deal", err)
		}

		var current entity.Deal
		if err := snapshot.DataTo(&current); err != nil {
			return errors.Internal("Failed to parse deal data", err)
		}

		if current.Status != expected {
			return errors.Conflict("Deal status has changed since it was read", nil)
		}

		if err := tx.Set(ref, deal); err != nil {
			return errors.Internal("Failed to update deal", err)
		}

		for _, event := range events {
			eventRef := r.client.Collection("events").Doc(event.ID)
			if err := tx.Set(eventRef, event); err != nil {
				return errors.Internal("Failed to append deal event", err)
			}
		}

		if disbursement != nil {
			disbRef := r.client.Collection("disbursements").Doc(disbursement.ID)
			if err := tx.Set(disbRef, disbursement); err != nil {
				return errors.Internal("Failed to append disbursement", err)
			}
		}

		return nil
	})

	return err
}

func (r *firestoreDealRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Deal, int64, error) {
	query := r.client.Collection("deals").Query.OrderBy("createdAt", firestore.Desc)

	for key, value := range filter {
		query = query.Where(key, "==", value)
	}

	return r.runDealQuery(ctx, query, limit, offset)
}

func (r *firestoreDealRepository) ListByUserID(ctx context.Context, userID string, role string, statusFilter string, limit, offset int) ([]*entity.Deal, int64, error) {
	var field string
	switch role {
	case "sme":
		field = "smeId"
	case "funder":
		field = "funderId"
	case "supplier":
		field = "supplierId"
	default:
		return nil, 0, errors.BadRequest("Invalid role", nil)
	}

	query := r.client.Collection("deals").Where(field, "==", userID)

	if statusFilter != "" {
		query = query.Where("status", "==", statusFilter)
	}

	query = query.OrderBy("createdAt", firestore.Desc)

	return r.runDealQuery(ctx, query, limit, offset)
}

func (r *firestoreDealRepository) ListPendingReview(ctx context.Context, limit, offset int) ([]*entity.Deal, int64, error) {
	query := r.client.Collection("deals").
		Where("status", "==", string(entity.DealStatusPendingReview)).
		OrderBy("createdAt", firestore.Asc)

	return r.runDealQuery(ctx, query, limit, offset)
}

func (r *firestoreDealRepository) runDealQuery(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.Deal, int64, error) {
	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count deals", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var deals []*entity.Deal

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate deals", err)
		}

		var deal entity.Deal
		if err := doc.DataTo(&deal); err != nil {
			return nil, 0, errors.Internal("Failed to parse deal data", err)
		}
		deals = append(deals, &deal)
	}

	return deals, total, nil
}

func (r *firestoreDealRepository) ListDisbursements(ctx context.Context, dealID string) ([]*entity.Disbursement, error) {
	query := r.client.Collection("disbursements").
		Where("dealId", "==", dealID).
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var disbursements []*entity.Disbursement

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate disbursements", err)
		}

		var disbursement entity.Disbursement
		if err := doc.DataTo(&disbursement); err != nil {
			return nil, errors.Internal("Failed to parse disbursement data", err)
		}
		disbursements = append(disbursements, &disbursement)
	}

	return disbursements, nil
}
