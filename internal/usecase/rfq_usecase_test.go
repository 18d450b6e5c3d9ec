package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundlink/internal/domain/entity"
	"fundlink/pkg/errors"
)

type fakeRFQRepo struct {
	rfqs   map[string]*entity.RFQ
	events []*entity.Event
	nextID int

	// afterGet lets a test mutate the store between the use case's read
	// and the close, simulating a quote landing in that window.
	afterGet func()
}

func newFakeRFQRepo() *fakeRFQRepo {
	return &fakeRFQRepo{rfqs: map[string]*entity.RFQ{}}
}

func (r *fakeRFQRepo) Create(ctx context.Context, rfq *entity.RFQ) error {
	r.nextID++
	rfq.ID = fmt.Sprintf("rfq-%d", r.nextID)
	copied := *rfq
	r.rfqs[rfq.ID] = &copied
	return nil
}

func (r *fakeRFQRepo) GetByID(ctx context.Context, id string) (*entity.RFQ, error) {
	rfq, ok := r.rfqs[id]
	if !ok {
		return nil, errors.NotFound("RFQ", nil)
	}
	copied := *rfq
	copied.Quotes = append([]entity.Quote(nil), rfq.Quotes...)
	if r.afterGet != nil {
		r.afterGet()
	}
	return &copied, nil
}

func (r *fakeRFQRepo) AppendQuote(ctx context.Context, rfqID string, quote *entity.Quote) error {
	rfq, ok := r.rfqs[rfqID]
	if !ok {
		return errors.NotFound("RFQ", nil)
	}
	if rfq.Status != entity.RFQStatusRequested {
		return errors.Conflict("RFQ is no longer accepting quotes", nil)
	}
	r.nextID++
	quote.ID = fmt.Sprintf("quote-%d", r.nextID)
	quote.SubmittedAt = time.Now()
	rfq.Quotes = append(rfq.Quotes, *quote)
	return nil
}

func (r *fakeRFQRepo) Close(ctx context.Context, rfqID, quoteID string, buildEvents func(rfq *entity.RFQ, accepted *entity.Quote) []*entity.Event) (*entity.RFQ, error) {
	current, ok := r.rfqs[rfqID]
	if !ok {
		return nil, errors.NotFound("RFQ", nil)
	}
	if current.Status != entity.RFQStatusRequested {
		return nil, errors.Conflict("RFQ has already been closed", nil)
	}

	var accepted *entity.Quote
	for i := range current.Quotes {
		if current.Quotes[i].ID == quoteID {
			accepted = &current.Quotes[i]
			break
		}
	}
	if accepted == nil {
		return nil, errors.NotFound("Quote", nil)
	}

	now := time.Now()
	acceptedCopy := *accepted
	current.Status = entity.RFQStatusClosed
	current.AcceptedQuote = &acceptedCopy
	current.ClosedAt = &now

	r.events = append(r.events, buildEvents(current, accepted)...)

	copied := *current
	copied.Quotes = append([]entity.Quote(nil), current.Quotes...)
	return &copied, nil
}

func (r *fakeRFQRepo) ListBySmeID(ctx context.Context, smeID string, limit, offset int) ([]*entity.RFQ, int64, error) {
	var matched []*entity.RFQ
	for _, rfq := range r.rfqs {
		if rfq.SmeID == smeID {
			matched = append(matched, rfq)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeRFQRepo) ListOpen(ctx context.Context, category string, limit, offset int) ([]*entity.RFQ, int64, error) {
	var matched []*entity.RFQ
	for _, rfq := range r.rfqs {
		if rfq.Status == entity.RFQStatusRequested && (category == "" || rfq.Category == category) {
			matched = append(matched, rfq)
		}
	}
	return matched, int64(len(matched)), nil
}

func setupRFQUseCase(extraUsers ...*entity.User) (*RFQUseCase, *fakeRFQRepo) {
	rfqRepo := newFakeRFQRepo()
	users := append([]*entity.User{testSME, testFunder, testSupplier}, extraUsers...)
	return NewRFQUseCase(rfqRepo, newFakeUserRepo(users...)), rfqRepo
}

func createTestRFQ(t *testing.T, uc *RFQUseCase) *entity.RFQ {
	t.Helper()
	rfq, err := uc.CreateRFQ(context.Background(), testSME.ID, CreateRFQInput{
		Title:    "200 branded safety vests",
		Category: "Apparel",
		Location: "Johannesburg",
	})
	require.NoError(t, err)
	return rfq
}

func TestCreateRFQ(t *testing.T) {
	uc, _ := setupRFQUseCase()

	rfq := createTestRFQ(t, uc)

	assert.Equal(t, entity.RFQStatusRequested, rfq.Status)
	assert.Equal(t, testSME.ID, rfq.SmeID)
	assert.Empty(t, rfq.Quotes)

	_, err := uc.CreateRFQ(context.Background(), testSupplier.ID, CreateRFQInput{Title: "x", Category: "y"})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSubmitQuote(t *testing.T) {
	uc, rfqRepo := setupRFQUseCase()
	rfq := createTestRFQ(t, uc)

	quote, err := uc.SubmitQuote(context.Background(), testSupplier.ID, rfq.ID, SubmitQuoteInput{
		Amount: 18500,
		Note:   "Delivery within 10 working days",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, quote.ID)
	assert.Equal(t, "Acme", quote.SupplierName)
	require.Len(t, rfqRepo.rfqs[rfq.ID].Quotes, 1)
}

func TestSubmitQuoteTwiceIsARevision(t *testing.T) {
	uc, rfqRepo := setupRFQUseCase()
	rfq := createTestRFQ(t, uc)

	_, err := uc.SubmitQuote(context.Background(), testSupplier.ID, rfq.ID, SubmitQuoteInput{Amount: 20000})
	require.NoError(t, err)
	_, err = uc.SubmitQuote(context.Background(), testSupplier.ID, rfq.ID, SubmitQuoteInput{Amount: 18000})
	require.NoError(t, err)

	// Both entries stand; the list is append-only.
	assert.Len(t, rfqRepo.rfqs[rfq.ID].Quotes, 2)
}

func TestSubmitQuoteOnClosedRFQ(t *testing.T) {
	uc, _ := setupRFQUseCase()
	rfq := createTestRFQ(t, uc)

	quote, err := uc.SubmitQuote(context.Background(), testSupplier.ID, rfq.ID, SubmitQuoteInput{Amount: 15000})
	require.NoError(t, err)
	_, err = uc.AcceptQuote(context.Background(), testSME.ID, rfq.ID, quote.ID)
	require.NoError(t, err)

	_, err = uc.SubmitQuote(context.Background(), testSupplier.ID, rfq.ID, SubmitQuoteInput{Amount: 14000})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestAcceptQuote(t *testing.T) {
	supplier2 := &entity.User{ID: "supplier-2", Name: "Beta Supplies", Type: entity.UserTypeSupplier}
	uc, rfqRepo := setupRFQUseCase(supplier2)
	rfq := createTestRFQ(t, uc)

	_, err := uc.SubmitQuote(context.Background(), testSupplier.ID, rfq.ID, SubmitQuoteInput{Amount: 15000})
	require.NoError(t, err)
	pricey, err := uc.SubmitQuote(context.Background(), supplier2.ID, rfq.ID, SubmitQuoteInput{Amount: 19000})
	require.NoError(t, err)

	// The SME is free to accept the pricier quote.
	closed, err := uc.AcceptQuote(context.Background(), testSME.ID, rfq.ID, pricey.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.RFQStatusClosed, closed.Status)
	require.NotNil(t, closed.AcceptedQuote)
	assert.Equal(t, pricey.ID, closed.AcceptedQuote.ID)
	assert.NotNil(t, closed.ClosedAt)

	// Winner and loser each get exactly one notification.
	require.Len(t, rfqRepo.events, 2)
	assert.Equal(t, entity.EventKindQuoteAccepted, rfqRepo.events[0].Kind)
	assert.Equal(t, []string{supplier2.ID}, rfqRepo.events[0].Recipients)
	assert.Equal(t, entity.EventKindQuoteNotSelected, rfqRepo.events[1].Kind)
	assert.Equal(t, []string{testSupplier.ID}, rfqRepo.events[1].Recipients)
}

func TestAcceptQuotePreservesLateQuote(t *testing.T) {
	supplier2 := &entity.User{ID: "supplier-2", Name: "Beta Supplies", Type: entity.UserTypeSupplier}
	uc, rfqRepo := setupRFQUseCase(supplier2)
	rfq := createTestRFQ(t, uc)

	winning, err := uc.SubmitQuote(context.Background(), testSupplier.ID, rfq.ID, SubmitQuoteInput{Amount: 16000})
	require.NoError(t, err)

	// supplier2's quote lands between the SME's read and the close.
	rfqRepo.afterGet = func() {
		rfqRepo.afterGet = nil
		stored := rfqRepo.rfqs[rfq.ID]
		stored.Quotes = append(stored.Quotes, entity.Quote{
			ID:           "quote-late",
			SupplierID:   supplier2.ID,
			SupplierName: supplier2.Name,
			Amount:       17000,
			SubmittedAt:  time.Now(),
		})
	}

	closed, err := uc.AcceptQuote(context.Background(), testSME.ID, rfq.ID, winning.ID)
	require.NoError(t, err)

	// The late quote survives the close and its supplier is in the fan-out.
	assert.Len(t, rfqRepo.rfqs[rfq.ID].Quotes, 2)
	assert.Len(t, closed.Quotes, 2)

	var loserEvents []*entity.Event
	for _, event := range rfqRepo.events {
		if event.Kind == entity.EventKindQuoteNotSelected {
			loserEvents = append(loserEvents, event)
		}
	}
	require.Len(t, loserEvents, 1)
	assert.Equal(t, []string{supplier2.ID}, loserEvents[0].Recipients)
}

func TestAcceptQuoteOnlyOnce(t *testing.T) {
	uc, _ := setupRFQUseCase()
	rfq := createTestRFQ(t, uc)

	quote, err := uc.SubmitQuote(context.Background(), testSupplier.ID, rfq.ID, SubmitQuoteInput{Amount: 15000})
	require.NoError(t, err)

	_, err = uc.AcceptQuote(context.Background(), testSME.ID, rfq.ID, quote.ID)
	require.NoError(t, err)

	_, err = uc.AcceptQuote(context.Background(), testSME.ID, rfq.ID, quote.ID)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestAcceptQuoteOnlyByOwner(t *testing.T) {
	uc, _ := setupRFQUseCase()
	rfq := createTestRFQ(t, uc)

	quote, err := uc.SubmitQuote(context.Background(), testSupplier.ID, rfq.ID, SubmitQuoteInput{Amount: 15000})
	require.NoError(t, err)

	_, err = uc.AcceptQuote(context.Background(), testFunder.ID, rfq.ID, quote.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestLoserNotificationsDeduplicated(t *testing.T) {
	supplier2 := &entity.User{ID: "supplier-2", Name: "Beta Supplies", Type: entity.UserTypeSupplier}
	uc, rfqRepo := setupRFQUseCase(supplier2)
	rfq := createTestRFQ(t, uc)

	// supplier2 revises twice before losing.
	_, err := uc.SubmitQuote(context.Background(), supplier2.ID, rfq.ID, SubmitQuoteInput{Amount: 20000})
	require.NoError(t, err)
	_, err = uc.SubmitQuote(context.Background(), supplier2.ID, rfq.ID, SubmitQuoteInput{Amount: 18000})
	require.NoError(t, err)
	winning, err := uc.SubmitQuote(context.Background(), testSupplier.ID, rfq.ID, SubmitQuoteInput{Amount: 16000})
	require.NoError(t, err)

	_, err = uc.AcceptQuote(context.Background(), testSME.ID, rfq.ID, winning.ID)
	require.NoError(t, err)

	var loserEvents []*entity.Event
	for _, event := range rfqRepo.events {
		if event.Kind == entity.EventKindQuoteNotSelected {
			loserEvents = append(loserEvents, event)
		}
	}
	require.Len(t, loserEvents, 1)
	assert.Equal(t, []string{supplier2.ID}, loserEvents[0].Recipients)
}

func TestLowestQuoteHighlighted(t *testing.T) {
	supplier2 := &entity.User{ID: "supplier-2", Name: "Beta Supplies", Type: entity.UserTypeSupplier}
	uc, _ := setupRFQUseCase(supplier2)
	rfq := createTestRFQ(t, uc)

	_, err := uc.SubmitQuote(context.Background(), supplier2.ID, rfq.ID, SubmitQuoteInput{Amount: 19000})
	require.NoError(t, err)
	cheapest, err := uc.SubmitQuote(context.Background(), testSupplier.ID, rfq.ID, SubmitQuoteInput{Amount: 15500})
	require.NoError(t, err)

	resp, err := uc.GetRFQ(context.Background(), rfq.ID)
	require.NoError(t, err)

	assert.Equal(t, cheapest.ID, resp.LowestQuoteID)
}
