package handler

import (
	"github.com/labstack/echo/v4"

	"fundlink/internal/domain/service"
	"fundlink/internal/usecase"
	"fundlink/pkg/errors"
	"fundlink/pkg/logger"
	"fundlink/pkg/response"
	"fundlink/pkg/utils"
)

const maxWaybillSize = 10 * 1024 * 1024

type DealHandler struct {
	dealUseCase *usecase.DealUseCase
	fileService service.FileUploadService
}

func NewDealHandler(dealUseCase *usecase.DealUseCase) *DealHandler {
	return &DealHandler{
		dealUseCase: dealUseCase,
	}
}

// SetFileService wires the storage client used for waybill uploads.
func (h *DealHandler) SetFileService(fileService service.FileUploadService) {
	h.fileService = fileService
}

type submitDealRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Category string  `json:"category" validate:"required"`
}

func (h *DealHandler) SubmitDeal(c echo.Context) error {
	var req submitDealRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	deal, err := h.dealUseCase.SubmitDeal(c.Request().Context(), userID, usecase.SubmitDealInput{
		Amount:   req.Amount,
		Category: req.Category,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, deal)
}

type structureDealRequest struct {
	SupplierID string  `json:"supplier_id" validate:"required"`
	Principal  float64 `json:"principal" validate:"required,gt=0"`
	Interest   float64 `json:"interest" validate:"gte=0"`
	Fees       float64 `json:"fees" validate:"gte=0"`
	TermMonths int     `json:"term_months" validate:"required,gt=0"`
}

func (h *DealHandler) StructureDeal(c echo.Context) error {
	dealID := c.Param("id")
	if dealID == "" {
		return response.Error(c, errors.BadRequest("Deal ID is required", nil))
	}

	var req structureDealRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	deal, err := h.dealUseCase.StructureDeal(c.Request().Context(), userID, dealID, usecase.StructureDealInput{
		SupplierID: req.SupplierID,
		Principal:  req.Principal,
		Interest:   req.Interest,
		Fees:       req.Fees,
		TermMonths: req.TermMonths,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, deal)
}

type declineDealRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *DealHandler) DeclineDeal(c echo.Context) error {
	dealID := c.Param("id")
	if dealID == "" {
		return response.Error(c, errors.BadRequest("Deal ID is required", nil))
	}

	var req declineDealRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	deal, err := h.dealUseCase.DeclineDeal(c.Request().Context(), userID, dealID, req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, deal)
}

// UploadWaybill accepts the proof-of-dispatch document as multipart
// form data, stores it, and advances the deal in one request.
func (h *DealHandler) UploadWaybill(c echo.Context) error {
	dealID := c.Param("id")
	if dealID == "" {
		return response.Error(c, errors.BadRequest("Deal ID is required", nil))
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > maxWaybillSize {
		return response.Error(c, errors.BadRequest("File size exceeds maximum allowed (10MB)", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	fileType := file.Header.Get("Content-Type")

	waybillURL, err := h.fileService.UploadFile(c.Request().Context(), src, fileType, "waybills", false)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to store waybill", err))
	}

	userID := c.Get("uid").(string)

	deal, err := h.dealUseCase.UploadWaybill(c.Request().Context(), userID, dealID, waybillURL)
	if err != nil {
		// Rejected transition: remove the object so the bucket doesn't
		// accumulate waybills no deal references.
		if delErr := h.fileService.DeleteFile(c.Request().Context(), waybillURL); delErr != nil {
			logger.Warn("Failed to remove orphaned waybill %s: %v", waybillURL, delErr)
		}
		return response.Error(c, err)
	}

	return response.Success(c, deal)
}

func (h *DealHandler) ConfirmDelivery(c echo.Context) error {
	dealID := c.Param("id")
	if dealID == "" {
		return response.Error(c, errors.BadRequest("Deal ID is required", nil))
	}

	userID := c.Get("uid").(string)

	deal, err := h.dealUseCase.ConfirmDelivery(c.Request().Context(), userID, dealID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, deal)
}

func (h *DealHandler) GetDeal(c echo.Context) error {
	dealID := c.Param("id")
	if dealID == "" {
		return response.Error(c, errors.BadRequest("Deal ID is required", nil))
	}

	userID := c.Get("uid").(string)

	deal, err := h.dealUseCase.GetDeal(c.Request().Context(), userID, dealID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, deal)
}

func (h *DealHandler) ListDeals(c echo.Context) error {
	role := c.QueryParam("role")
	status := c.QueryParam("status")

	pagination := utils.GetPaginationParams(c)

	userID := c.Get("uid").(string)

	deals, total, err := h.dealUseCase.ListDeals(
		c.Request().Context(),
		userID,
		role,
		status,
		pagination.Page,
		pagination.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, deals, total, pagination.Page, pagination.PageSize)
}

func (h *DealHandler) ListPendingDeals(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	userID := c.Get("uid").(string)

	deals, total, err := h.dealUseCase.ListPendingDeals(
		c.Request().Context(),
		userID,
		pagination.Page,
		pagination.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, deals, total, pagination.Page, pagination.PageSize)
}

func (h *DealHandler) GetLedger(c echo.Context) error {
	dealID := c.Param("id")
	if dealID == "" {
		return response.Error(c, errors.BadRequest("Deal ID is required", nil))
	}

	userID := c.Get("uid").(string)

	ledger, err := h.dealUseCase.GetLedger(c.Request().Context(), userID, dealID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, ledger)
}
