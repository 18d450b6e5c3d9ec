package router

import (
	"github.com/labstack/echo/v4"

	"fundlink/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	SetupAuthRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware, roleMiddleware)
	SetupDealRouter(e, authMiddleware, roleMiddleware)
	SetupRFQRouter(e, authMiddleware, roleMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupFileRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
