package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fundlink/internal/domain/entity"
	"fundlink/internal/domain/repository"
	"fundlink/pkg/errors"
	"fundlink/pkg/utils"
)

// Fixed escrow tranche split released at each milestone.
const (
	TrancheCapitalSecured    = 30
	TrancheWaybillUploaded   = 40
	TrancheDeliveryConfirmed = 30
)

// EscrowPercent returns the cumulative escrow percentage released for a
// given status. The disbursement ledger is the auditable record; this is
// the display shortcut derived from the same fixed split.
func EscrowPercent(status entity.DealStatus) int {
	switch status {
	case entity.DealStatusCapitalSecured:
		return TrancheCapitalSecured
	case entity.DealStatusWaybillUploaded:
		return TrancheCapitalSecured + TrancheWaybillUploaded
	case entity.DealStatusDeliveryConfirmed:
		return TrancheCapitalSecured + TrancheWaybillUploaded + TrancheDeliveryConfirmed
	default:
		return 0
	}
}

type DealUseCase struct {
	dealRepo repository.DealRepository
	userRepo repository.UserRepository
}

func NewDealUseCase(dealRepo repository.DealRepository, userRepo repository.UserRepository) *DealUseCase {
	return &DealUseCase{
		dealRepo: dealRepo,
		userRepo: userRepo,
	}
}

type SubmitDealInput struct {
	Amount   float64
	Category string
}

func (uc *DealUseCase) SubmitDeal(ctx context.Context, smeID string, input SubmitDealInput) (*entity.Deal, error) {
	sme, err := uc.userRepo.GetByID(ctx, smeID)
	if err != nil {
		return nil, err
	}

	if sme.Type != entity.UserTypeSME {
		return nil, errors.Forbidden("Only SMEs can submit funding requests", nil)
	}

	if input.Amount <= 0 {
		return nil, errors.BadRequest("Amount must be positive", nil)
	}

	deal := &entity.Deal{
		SmeID:    sme.ID,
		SmeName:  sme.Name,
		Amount:   input.Amount,
		Category: input.Category,
		Status:   entity.DealStatusPendingReview,
	}

	if err := uc.dealRepo.Create(ctx, deal); err != nil {
		return nil, err
	}

	return deal, nil
}

type StructureDealInput struct {
	SupplierID string
	Principal  float64
	Interest   float64
	Fees       float64
	TermMonths int
}

// StructureDeal secures capital on a pending deal: the funder and
// supplier are bound, the terms are fixed, and the first 30% tranche is
// released. The funder, supplier and terms are set here exactly once
// and never change again for the life of the deal.
func (uc *DealUseCase) StructureDeal(ctx context.Context, funderID, dealID string, input StructureDealInput) (*entity.Deal, error) {
	deal, err := uc.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if deal.Status != entity.DealStatusPendingReview {
		return nil, errors.BadRequest("Deal is not pending review", nil)
	}

	funder, err := uc.userRepo.GetByID(ctx, funderID)
	if err != nil {
		return nil, err
	}
	if funder.Type != entity.UserTypeFunder {
		return nil, errors.Forbidden("Only funders can structure deals", nil)
	}

	supplier, err := uc.userRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier.Type != entity.UserTypeSupplier {
		return nil, errors.BadRequest("Selected party is not a supplier", nil)
	}

	if input.Principal <= 0 {
		return nil, errors.BadRequest("Principal must be positive", nil)
	}

	total := input.Principal + input.Principal*input.Interest/100 + input.Fees

	now := time.Now()
	deal.Status = entity.DealStatusCapitalSecured
	deal.FunderID = funder.ID
	deal.FunderName = funder.Name
	deal.SupplierID = supplier.ID
	deal.SupplierName = supplier.Name
	deal.Terms = &entity.DealTerms{
		Principal:  input.Principal,
		Interest:   input.Interest,
		Fees:       input.Fees,
		Total:      total,
		TermMonths: input.TermMonths,
	}
	deal.SecuredAt = &now

	trancheAmount := deal.Amount * TrancheCapitalSecured / 100

	events := []*entity.Event{{
		Kind:       entity.EventKindDealSecured,
		EntityID:   deal.ID,
		Recipients: []string{deal.SmeID},
		Text: fmt.Sprintf("%s secured capital for your %s deal. Repayment total R%.2f over %d months. %d%% (R%.2f) released to %s.",
			funder.Name, deal.Category, total, input.TermMonths, TrancheCapitalSecured, trancheAmount, supplier.Name),
	}}

	disbursement := &entity.Disbursement{
		DealID:    deal.ID,
		Milestone: entity.DealStatusCapitalSecured,
		Percent:   TrancheCapitalSecured,
		Amount:    trancheAmount,
	}

	if err := uc.dealRepo.Transition(ctx, deal, entity.DealStatusPendingReview, events, disbursement); err != nil {
		return nil, err
	}

	return deal, nil
}

// DeclineDeal is only reachable from pending review and is terminal.
func (uc *DealUseCase) DeclineDeal(ctx context.Context, funderID, dealID, reason string) (*entity.Deal, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, errors.BadRequest("Decline reason is required", nil)
	}

	deal, err := uc.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if deal.Status != entity.DealStatusPendingReview {
		return nil, errors.BadRequest("Only pending deals can be declined", nil)
	}

	funder, err := uc.userRepo.GetByID(ctx, funderID)
	if err != nil {
		return nil, err
	}
	if funder.Type != entity.UserTypeFunder {
		return nil, errors.Forbidden("Only funders can decline deals", nil)
	}

	now := time.Now()
	deal.Status = entity.DealStatusDeclined
	deal.DeclineReason = reason
	deal.DeclinedBy = funder.ID
	deal.DeclinedAt = &now

	events := []*entity.Event{{
		Kind:       entity.EventKindDealDeclined,
		EntityID:   deal.ID,
		Recipients: []string{deal.SmeID},
		Text:       fmt.Sprintf("Your %s funding request was declined: %s", deal.Category, reason),
	}}

	if err := uc.dealRepo.Transition(ctx, deal, entity.DealStatusPendingReview, events, nil); err != nil {
		return nil, err
	}

	return deal, nil
}

// UploadWaybill records the proof-of-dispatch URL and releases the 40%
// tranche. Only the supplier bound at structuring may upload.
func (uc *DealUseCase) UploadWaybill(ctx context.Context, supplierID, dealID, waybillURL string) (*entity.Deal, error) {
	if waybillURL == "" {
		return nil, errors.BadRequest("Waybill URL is required", nil)
	}

	deal, err := uc.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if deal.SupplierID != supplierID {
		return nil, errors.Forbidden("Only the linked supplier can upload a waybill", nil)
	}

	if deal.Status != entity.DealStatusCapitalSecured {
		return nil, errors.BadRequest("Deal is not awaiting dispatch", nil)
	}

	now := time.Now()
	deal.Status = entity.DealStatusWaybillUploaded
	deal.WaybillURL = waybillURL
	deal.DispatchedAt = &now

	trancheAmount := deal.Amount * TrancheWaybillUploaded / 100

	events := []*entity.Event{{
		Kind:       entity.EventKindDealWaybill,
		EntityID:   deal.ID,
		Recipients: []string{deal.SmeID},
		Text: fmt.Sprintf("%s uploaded a waybill for your %s deal. %d%% (R%.2f) released from escrow. Confirm delivery once goods arrive.",
			deal.SupplierName, deal.Category, TrancheWaybillUploaded, trancheAmount),
	}}

	disbursement := &entity.Disbursement{
		DealID:    deal.ID,
		Milestone: entity.DealStatusWaybillUploaded,
		Percent:   TrancheWaybillUploaded,
		Amount:    trancheAmount,
	}

	if err := uc.dealRepo.Transition(ctx, deal, entity.DealStatusCapitalSecured, events, disbursement); err != nil {
		return nil, err
	}

	return deal, nil
}

// ConfirmDelivery closes the deal, releasing the final 30% tranche and
// notifying both the funder and the supplier.
func (uc *DealUseCase) ConfirmDelivery(ctx context.Context, smeID, dealID string) (*entity.Deal, error) {
	deal, err := uc.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if deal.SmeID != smeID {
		return nil, errors.Forbidden("Only the owning SME can confirm delivery", nil)
	}

	if deal.Status != entity.DealStatusWaybillUploaded {
		return nil, errors.BadRequest("Deal is not awaiting delivery confirmation", nil)
	}

	now := time.Now()
	deal.Status = entity.DealStatusDeliveryConfirmed
	deal.ConfirmedAt = &now

	trancheAmount := deal.Amount * TrancheDeliveryConfirmed / 100

	events := []*entity.Event{{
		Kind:       entity.EventKindDealConfirmed,
		EntityID:   deal.ID,
		Recipients: []string{deal.FunderID, deal.SupplierID},
		Text: fmt.Sprintf("%s confirmed delivery on the %s deal. Final %d%% (R%.2f) released. The deal is now closed.",
			deal.SmeName, deal.Category, TrancheDeliveryConfirmed, trancheAmount),
	}}

	disbursement := &entity.Disbursement{
		DealID:    deal.ID,
		Milestone: entity.DealStatusDeliveryConfirmed,
		Percent:   TrancheDeliveryConfirmed,
		Amount:    trancheAmount,
	}

	if err := uc.dealRepo.Transition(ctx, deal, entity.DealStatusWaybillUploaded, events, disbursement); err != nil {
		return nil, err
	}

	return deal, nil
}

type DealResponse struct {
	*entity.Deal
	PaidPercent int `json:"paid_percent"`
}

func (uc *DealUseCase) GetDeal(ctx context.Context, userID, dealID string) (*DealResponse, error) {
	deal, err := uc.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if err := uc.authorizeView(ctx, userID, deal); err != nil {
		return nil, err
	}

	return &DealResponse{Deal: deal, PaidPercent: EscrowPercent(deal.Status)}, nil
}

func (uc *DealUseCase) ListDeals(ctx context.Context, userID, role, statusFilter string, page, limit int) ([]*DealResponse, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)

	deals, total, err := uc.dealRepo.ListByUserID(ctx, userID, role, statusFilter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*DealResponse, len(deals))
	for i, deal := range deals {
		responses[i] = &DealResponse{Deal: deal, PaidPercent: EscrowPercent(deal.Status)}
	}

	return responses, total, nil
}

// ListPendingDeals is the funder's review queue.
func (uc *DealUseCase) ListPendingDeals(ctx context.Context, funderID string, page, limit int) ([]*DealResponse, int64, error) {
	funder, err := uc.userRepo.GetByID(ctx, funderID)
	if err != nil {
		return nil, 0, err
	}
	if funder.Type != entity.UserTypeFunder && funder.Type != entity.UserTypeAdmin {
		return nil, 0, errors.Forbidden("Only funders can review pending deals", nil)
	}

	pagination := utils.NewPaginationParams(page, limit)

	deals, total, err := uc.dealRepo.ListPendingReview(ctx, pagination.PageSize, pagination.Offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*DealResponse, len(deals))
	for i, deal := range deals {
		responses[i] = &DealResponse{Deal: deal, PaidPercent: EscrowPercent(deal.Status)}
	}

	return responses, total, nil
}

type DealLedger struct {
	Disbursements []*entity.Disbursement `json:"disbursements"`
	TotalPercent  int                    `json:"total_percent"`
	TotalAmount   float64                `json:"total_amount"`
}

// GetLedger aggregates the disbursement rows for a deal.
func (uc *DealUseCase) GetLedger(ctx context.Context, userID, dealID string) (*DealLedger, error) {
	deal, err := uc.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if err := uc.authorizeView(ctx, userID, deal); err != nil {
		return nil, err
	}

	disbursements, err := uc.dealRepo.ListDisbursements(ctx, dealID)
	if err != nil {
		return nil, err
	}

	ledger := &DealLedger{Disbursements: disbursements}
	for _, d := range disbursements {
		ledger.TotalPercent += d.Percent
		ledger.TotalAmount += d.Amount
	}
	if ledger.Disbursements == nil {
		ledger.Disbursements = []*entity.Disbursement{}
	}

	return ledger, nil
}

// authorizeView allows the deal's parties, any funder while the deal is
// still under review, and admins.
func (uc *DealUseCase) authorizeView(ctx context.Context, userID string, deal *entity.Deal) error {
	if deal.SmeID == userID || deal.FunderID == userID || deal.SupplierID == userID {
		return nil
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.Type == entity.UserTypeAdmin {
		return nil
	}
	if user.Type == entity.UserTypeFunder && deal.Status == entity.DealStatusPendingReview {
		return nil
	}

	return errors.Forbidden("You don't have permission to view this deal", nil)
}
