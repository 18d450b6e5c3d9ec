package router

import (
	"github.com/labstack/echo/v4"

	"fundlink/internal/adapter/api/handler"
	"fundlink/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	fileHandler := handler.GetFileHandler()

	files := e.Group("/v1/files")
	files.Use(authMiddleware.Authenticate)

	files.POST("/documents", fileHandler.UploadDocument)
	files.GET("/documents", fileHandler.ListDocuments)
}
