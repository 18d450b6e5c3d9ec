package usecase

import (
	"context"
	"fmt"

	"fundlink/internal/domain/entity"
	"fundlink/internal/domain/repository"
	"fundlink/pkg/errors"
	"fundlink/pkg/utils"
)

type RFQUseCase struct {
	rfqRepo  repository.RFQRepository
	userRepo repository.UserRepository
}

func NewRFQUseCase(rfqRepo repository.RFQRepository, userRepo repository.UserRepository) *RFQUseCase {
	return &RFQUseCase{
		rfqRepo:  rfqRepo,
		userRepo: userRepo,
	}
}

type CreateRFQInput struct {
	Title    string
	Category string
	Specs    string
	Location string
}

func (uc *RFQUseCase) CreateRFQ(ctx context.Context, smeID string, input CreateRFQInput) (*entity.RFQ, error) {
	sme, err := uc.userRepo.GetByID(ctx, smeID)
	if err != nil {
		return nil, err
	}

	if sme.Type != entity.UserTypeSME {
		return nil, errors.Forbidden("Only SMEs can request quotations", nil)
	}

	rfq := &entity.RFQ{
		SmeID:    sme.ID,
		SmeName:  sme.Name,
		Title:    input.Title,
		Category: input.Category,
		Specs:    input.Specs,
		Location: input.Location,
		Status:   entity.RFQStatusRequested,
	}

	if err := uc.rfqRepo.Create(ctx, rfq); err != nil {
		return nil, err
	}

	return rfq, nil
}

type SubmitQuoteInput struct {
	Amount float64
	Note   string
}

// SubmitQuote appends a quote to an open RFQ. A supplier may submit
// more than once; the newer entry stands alongside the older one.
func (uc *RFQUseCase) SubmitQuote(ctx context.Context, supplierID, rfqID string, input SubmitQuoteInput) (*entity.Quote, error) {
	supplier, err := uc.userRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	if supplier.Type != entity.UserTypeSupplier {
		return nil, errors.Forbidden("Only suppliers can submit quotes", nil)
	}

	if input.Amount <= 0 {
		return nil, errors.BadRequest("Quote amount must be positive", nil)
	}

	rfq, err := uc.rfqRepo.GetByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}

	if rfq.Status != entity.RFQStatusRequested {
		return nil, errors.BadRequest("RFQ is no longer accepting quotes", nil)
	}

	quote := &entity.Quote{
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Amount:       input.Amount,
		Note:         input.Note,
	}

	if err := uc.rfqRepo.AppendQuote(ctx, rfqID, quote); err != nil {
		return nil, err
	}

	return quote, nil
}

// AcceptQuote closes the RFQ on exactly one quote. The SME may accept
// any quote regardless of price ranking. Acceptance is conditional on
// the RFQ still being open, so a second accept is rejected; the accepted
// quote and the loser fan-out are resolved against the stored document
// inside the close transaction, so a quote that landed after this read
// is neither erased nor left out of the fan-out.
func (uc *RFQUseCase) AcceptQuote(ctx context.Context, smeID, rfqID, quoteID string) (*entity.RFQ, error) {
	rfq, err := uc.rfqRepo.GetByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}

	if rfq.SmeID != smeID {
		return nil, errors.Forbidden("Only the requesting SME can accept a quote", nil)
	}

	if rfq.Status != entity.RFQStatusRequested {
		return nil, errors.Conflict("RFQ has already been closed", nil)
	}

	closed, err := uc.rfqRepo.Close(ctx, rfqID, quoteID, func(current *entity.RFQ, accepted *entity.Quote) []*entity.Event {
		events := []*entity.Event{{
			Kind:       entity.EventKindQuoteAccepted,
			EntityID:   current.ID,
			Recipients: []string{accepted.SupplierID},
			Text:       fmt.Sprintf("%s accepted your quote of R%.2f for \"%s\".", current.SmeName, accepted.Amount, current.Title),
		}}

		for _, loserID := range losingSuppliers(current, accepted.SupplierID) {
			events = append(events, &entity.Event{
				Kind:       entity.EventKindQuoteNotSelected,
				EntityID:   current.ID,
				Recipients: []string{loserID},
				Text:       fmt.Sprintf("\"%s\" has been closed. Your quote was not selected this time.", current.Title),
			})
		}

		return events
	})
	if err != nil {
		return nil, err
	}

	return closed, nil
}

// losingSuppliers returns each distinct supplier other than the winner,
// so a supplier with several quotes gets one notification, not several.
func losingSuppliers(rfq *entity.RFQ, winnerID string) []string {
	seen := map[string]bool{winnerID: true}
	var losers []string
	for _, quote := range rfq.Quotes {
		if !seen[quote.SupplierID] {
			seen[quote.SupplierID] = true
			losers = append(losers, quote.SupplierID)
		}
	}
	return losers
}

type RFQResponse struct {
	*entity.RFQ
	LowestQuoteID string `json:"lowest_quote_id,omitempty"`
}

func (uc *RFQUseCase) GetRFQ(ctx context.Context, rfqID string) (*RFQResponse, error) {
	rfq, err := uc.rfqRepo.GetByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}

	return prepareRFQResponse(rfq), nil
}

func (uc *RFQUseCase) ListMyRFQs(ctx context.Context, smeID string, page, limit int) ([]*RFQResponse, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)

	rfqs, total, err := uc.rfqRepo.ListBySmeID(ctx, smeID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return nil, 0, err
	}

	return prepareRFQResponses(rfqs), total, nil
}

// ListOpenRFQs is the supplier's browse view, optionally narrowed to a
// category.
func (uc *RFQUseCase) ListOpenRFQs(ctx context.Context, category string, page, limit int) ([]*RFQResponse, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)

	rfqs, total, err := uc.rfqRepo.ListOpen(ctx, category, pagination.PageSize, pagination.Offset)
	if err != nil {
		return nil, 0, err
	}

	return prepareRFQResponses(rfqs), total, nil
}

func prepareRFQResponse(rfq *entity.RFQ) *RFQResponse {
	response := &RFQResponse{RFQ: rfq}
	if lowest := rfq.LowestQuote(); lowest != nil {
		response.LowestQuoteID = lowest.ID
	}
	return response
}

func prepareRFQResponses(rfqs []*entity.RFQ) []*RFQResponse {
	responses := make([]*RFQResponse, len(rfqs))
	for i, rfq := range rfqs {
		responses[i] = prepareRFQResponse(rfq)
	}
	return responses
}
