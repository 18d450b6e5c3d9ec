package handler

import (
	"github.com/labstack/echo/v4"

	"fundlink/internal/usecase"
	"fundlink/pkg/errors"
	"fundlink/pkg/response"
	"fundlink/pkg/utils"
)

type RFQHandler struct {
	rfqUseCase *usecase.RFQUseCase
}

func NewRFQHandler(rfqUseCase *usecase.RFQUseCase) *RFQHandler {
	return &RFQHandler{
		rfqUseCase: rfqUseCase,
	}
}

type createRFQRequest struct {
	Title    string `json:"title" validate:"required,min=3"`
	Category string `json:"category" validate:"required"`
	Specs    string `json:"specs,omitempty"`
	Location string `json:"location,omitempty"`
}

func (h *RFQHandler) CreateRFQ(c echo.Context) error {
	var req createRFQRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	rfq, err := h.rfqUseCase.CreateRFQ(c.Request().Context(), userID, usecase.CreateRFQInput{
		Title:    req.Title,
		Category: req.Category,
		Specs:    req.Specs,
		Location: req.Location,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, rfq)
}

type submitQuoteRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Note   string  `json:"note,omitempty"`
}

func (h *RFQHandler) SubmitQuote(c echo.Context) error {
	rfqID := c.Param("id")
	if rfqID == "" {
		return response.Error(c, errors.BadRequest("RFQ ID is required", nil))
	}

	var req submitQuoteRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	quote, err := h.rfqUseCase.SubmitQuote(c.Request().Context(), userID, rfqID, usecase.SubmitQuoteInput{
		Amount: req.Amount,
		Note:   req.Note,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, quote)
}

type acceptQuoteRequest struct {
	QuoteID string `json:"quote_id" validate:"required"`
}

func (h *RFQHandler) AcceptQuote(c echo.Context) error {
	rfqID := c.Param("id")
	if rfqID == "" {
		return response.Error(c, errors.BadRequest("RFQ ID is required", nil))
	}

	var req acceptQuoteRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	rfq, err := h.rfqUseCase.AcceptQuote(c.Request().Context(), userID, rfqID, req.QuoteID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rfq)
}

func (h *RFQHandler) GetRFQ(c echo.Context) error {
	rfqID := c.Param("id")
	if rfqID == "" {
		return response.Error(c, errors.BadRequest("RFQ ID is required", nil))
	}

	rfq, err := h.rfqUseCase.GetRFQ(c.Request().Context(), rfqID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rfq)
}

func (h *RFQHandler) ListMyRFQs(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	userID := c.Get("uid").(string)

	rfqs, total, err := h.rfqUseCase.ListMyRFQs(c.Request().Context(), userID, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, rfqs, total, pagination.Page, pagination.PageSize)
}

func (h *RFQHandler) ListOpenRFQs(c echo.Context) error {
	category := c.QueryParam("category")

	pagination := utils.GetPaginationParams(c)

	rfqs, total, err := h.rfqUseCase.ListOpenRFQs(c.Request().Context(), category, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, rfqs, total, pagination.Page, pagination.PageSize)
}
