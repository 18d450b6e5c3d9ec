package router

import (
	"github.com/labstack/echo/v4"

	"fundlink/internal/adapter/api/handler"
	"fundlink/internal/adapter/api/middleware"
	"fundlink/internal/domain/entity"
)

func SetupRFQRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	rfqHandler := handler.GetRFQHandler()

	rfqs := e.Group("/v1/rfqs")
	rfqs.Use(authMiddleware.Authenticate)

	rfqs.POST("", rfqHandler.CreateRFQ, roleMiddleware.Require(entity.UserTypeSME))
	rfqs.GET("", rfqHandler.ListMyRFQs, roleMiddleware.Require(entity.UserTypeSME))
	rfqs.GET("/open", rfqHandler.ListOpenRFQs, roleMiddleware.Require(entity.UserTypeSupplier))
	rfqs.GET("/:id", rfqHandler.GetRFQ)

	rfqs.POST("/:id/quotes", rfqHandler.SubmitQuote, roleMiddleware.Require(entity.UserTypeSupplier))
	rfqs.POST("/:id/accept", rfqHandler.AcceptQuote, roleMiddleware.Require(entity.UserTypeSME))
}
