package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundlink/internal/domain/entity"
	"fundlink/internal/usecase"
	"fundlink/pkg/errors"
)

type stubDealRepo struct {
	deal *entity.Deal
}

func (r *stubDealRepo) Create(ctx context.Context, deal *entity.Deal) error { return nil }

func (r *stubDealRepo) GetByID(ctx context.Context, id string) (*entity.Deal, error) {
	if r.deal == nil || r.deal.ID != id {
		return nil, errors.NotFound("Deal", nil)
	}
	copied := *r.deal
	return &copied, nil
}

func (r *stubDealRepo) Transition(ctx context.Context, deal *entity.Deal, expected entity.DealStatus, events []*entity.Event, disbursement *entity.Disbursement) error {
	copied := *deal
	r.deal = &copied
	return nil
}

func (r *stubDealRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Deal, int64, error) {
	return nil, 0, nil
}

func (r *stubDealRepo) ListByUserID(ctx context.Context, userID, role, status string, limit, offset int) ([]*entity.Deal, int64, error) {
	return nil, 0, nil
}

func (r *stubDealRepo) ListPendingReview(ctx context.Context, limit, offset int) ([]*entity.Deal, int64, error) {
	return nil, 0, nil
}

func (r *stubDealRepo) ListDisbursements(ctx context.Context, dealID string) ([]*entity.Disbursement, error) {
	return nil, nil
}

type stubUserRepo struct {
	users map[string]*entity.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }

func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, errors.NotFound("User", nil)
}

func (r *stubUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }

func (r *stubUserRepo) ListByType(ctx context.Context, userType entity.UserType, limit, offset int) ([]*entity.User, int64, error) {
	return nil, 0, nil
}

type stubFileService struct {
	uploadedURL string
	deleted     []string
}

func (s *stubFileService) UploadFile(ctx context.Context, file io.Reader, fileType, folder string, isPublic bool) (string, error) {
	return s.uploadedURL, nil
}

func (s *stubFileService) DeleteFile(ctx context.Context, fileURL string) error {
	s.deleted = append(s.deleted, fileURL)
	return nil
}

func (s *stubFileService) Close() error { return nil }

func newWaybillRequest(t *testing.T) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "waybill.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/deals/deal-1/waybill", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req, httptest.NewRecorder()
}

func TestUploadWaybillRemovesOrphanOnRejectedTransition(t *testing.T) {
	dealRepo := &stubDealRepo{deal: &entity.Deal{
		ID:     "deal-1",
		SmeID:  "sme-1",
		Amount: 100000,
		Status: entity.DealStatusPendingReview,
	}}
	userRepo := &stubUserRepo{users: map[string]*entity.User{
		"supplier-1": {ID: "supplier-1", Type: entity.UserTypeSupplier},
	}}
	fileService := &stubFileService{uploadedURL: "https://storage.googleapis.com/bucket/private/waybills/x.pdf"}

	h := NewDealHandler(usecase.NewDealUseCase(dealRepo, userRepo))
	h.SetFileService(fileService)

	req, rec := newWaybillRequest(t)
	e := echo.New()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("deal-1")
	c.Set("uid", "supplier-1")

	require.NoError(t, h.UploadWaybill(c))

	// The supplier is not linked to the deal, so the transition is
	// rejected and the stored object is cleaned up.
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.Len(t, fileService.deleted, 1)
	assert.Equal(t, fileService.uploadedURL, fileService.deleted[0])
	assert.Empty(t, dealRepo.deal.WaybillURL)
}
