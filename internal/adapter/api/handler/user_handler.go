package handler

import (
	"github.com/labstack/echo/v4"

	"fundlink/internal/usecase"
	"fundlink/pkg/errors"
	"fundlink/pkg/response"
	"fundlink/pkg/utils"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	userID := c.Get("uid").(string)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

type updateProfileRequest struct {
	Name                string   `json:"name,omitempty" validate:"omitempty,min=2"`
	Phone               string   `json:"phone,omitempty" validate:"omitempty,e164"`
	Company             string   `json:"company,omitempty"`
	Location            string   `json:"location,omitempty"`
	Subscribed          *bool    `json:"subscribed,omitempty"`
	OnboardingComplete  *bool    `json:"onboarding_complete,omitempty"`
	PreferredCategories []string `json:"preferred_categories,omitempty"`
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), userID, usecase.UpdateProfileInput{
		Name:                req.Name,
		Phone:               req.Phone,
		Company:             req.Company,
		Location:            req.Location,
		Subscribed:          req.Subscribed,
		OnboardingComplete:  req.OnboardingComplete,
		PreferredCategories: req.PreferredCategories,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

type setVerifiedRequest struct {
	Verified bool `json:"verified"`
}

func (h *UserHandler) SetVerified(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return response.Error(c, errors.BadRequest("User ID is required", nil))
	}

	var req setVerifiedRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	adminID := c.Get("uid").(string)

	user, err := h.userUseCase.SetVerified(c.Request().Context(), adminID, userID, req.Verified)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) ListSuppliers(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	suppliers, total, err := h.userUseCase.ListSuppliers(c.Request().Context(), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, suppliers, total, pagination.Page, pagination.PageSize)
}
