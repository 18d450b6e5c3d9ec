package handler

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"fundlink/internal/domain/entity"
	"fundlink/internal/domain/repository"
	"fundlink/internal/domain/service"
	"fundlink/pkg/errors"
	"fundlink/pkg/logger"
	"fundlink/pkg/response"
)

type FileHandler struct {
	fileService  service.FileUploadService
	documentRepo repository.UserDocumentRepository
	maxFileSize  int64
}

func NewFileHandler(fileService service.FileUploadService, documentRepo repository.UserDocumentRepository) *FileHandler {
	return &FileHandler{
		fileService:  fileService,
		documentRepo: documentRepo,
		maxFileSize:  10 * 1024 * 1024,
	}
}

func SetupFileHandler(fileService service.FileUploadService, documentRepo repository.UserDocumentRepository) {
	fileHandler = NewFileHandler(fileService, documentRepo)
}

// UploadDocument stores a compliance document and records its URL
// against the uploading user.
func (h *FileHandler) UploadDocument(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > h.maxFileSize {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	fileType := file.Header.Get("Content-Type")
	if !isAllowedFileType(fileType) {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	label := strings.TrimSpace(c.FormValue("label"))
	if label == "" {
		return response.Error(c, errors.BadRequest("Document label is required", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	fileURL, err := h.fileService.UploadFile(c.Request().Context(), src, fileType, "documents", false)
	if err != nil {
		logger.Error("Document upload failed: %v", err)
		return response.Error(c, errors.Internal("Failed to store document", err))
	}

	userID := c.Get("uid").(string)

	doc := &entity.UserDocument{
		UserID:      userID,
		Label:       label,
		FileURL:     fileURL,
		ContentType: fileType,
	}

	if err := h.documentRepo.Create(c.Request().Context(), doc); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, doc)
}

func (h *FileHandler) ListDocuments(c echo.Context) error {
	userID := c.Get("uid").(string)

	docs, err := h.documentRepo.ListByUserID(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	if docs == nil {
		docs = []*entity.UserDocument{}
	}

	return response.Success(c, docs)
}

func isAllowedFileType(fileType string) bool {
	switch fileType {
	case "image/jpeg", "image/jpg", "image/png", "application/pdf":
		return true
	}
	return false
}
