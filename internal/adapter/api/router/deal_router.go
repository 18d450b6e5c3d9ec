package router

import (
	"github.com/labstack/echo/v4"

	"fundlink/internal/adapter/api/handler"
	"fundlink/internal/adapter/api/middleware"
	"fundlink/internal/domain/entity"
)

// SetupDealRouter wires the deal lifecycle routes. Each transition is
// restricted to the single account type allowed to trigger it.
func SetupDealRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	dealHandler := handler.GetDealHandler()

	deals := e.Group("/v1/deals")
	deals.Use(authMiddleware.Authenticate)

	deals.POST("", dealHandler.SubmitDeal, roleMiddleware.Require(entity.UserTypeSME))
	deals.GET("", dealHandler.ListDeals)
	deals.GET("/pending", dealHandler.ListPendingDeals, roleMiddleware.Require(entity.UserTypeFunder))
	deals.GET("/:id", dealHandler.GetDeal)
	deals.GET("/:id/ledger", dealHandler.GetLedger)

	deals.POST("/:id/structure", dealHandler.StructureDeal, roleMiddleware.Require(entity.UserTypeFunder))
	deals.POST("/:id/decline", dealHandler.DeclineDeal, roleMiddleware.Require(entity.UserTypeFunder))
	deals.POST("/:id/waybill", dealHandler.UploadWaybill, roleMiddleware.Require(entity.UserTypeSupplier))
	deals.POST("/:id/confirm", dealHandler.ConfirmDelivery, roleMiddleware.Require(entity.UserTypeSME))
}
