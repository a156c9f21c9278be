package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kesona/askhub/internal/pkg/errcode"
	appErr "github.com/kesona/askhub/internal/pkg/errors"
	"github.com/kesona/askhub/internal/pkg/response"
	"github.com/kesona/askhub/internal/service"
)

type DocumentHandler struct {
	documents    *service.DocumentService
	maxSizeBytes int64
}

func NewDocumentHandler(documents *service.DocumentService, maxSizeBytes int64) *DocumentHandler {
	return &DocumentHandler{documents: documents, maxSizeBytes: maxSizeBytes}
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "file field required")
		return
	}
	if h.maxSizeBytes > 0 && file.Size > h.maxSizeBytes {
		response.Error(c, errcode.ErrInvalidFile, "file exceeds the "+formatUploadLimit(h.maxSizeBytes)+" upload limit")
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrUploadFailed, "failed to read upload")
		return
	}
	defer src.Close()

	if err := h.documents.Process(c.Request.Context(), file.Filename, src, file.Size); err != nil {
		if errors.Is(err, appErr.ErrUploadTooBig) {
			response.Error(c, errcode.ErrInvalidFile, "file exceeds the "+formatUploadLimit(h.maxSizeBytes)+" upload limit")
			return
		}
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"filename": file.Filename, "status": "indexed"})
}

type documentQueryRequest struct {
	Question string `json:"question"`
}

func (h *DocumentHandler) Query(c *gin.Context) {
	var req documentQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	answer, err := h.documents.Query(c.Request.Context(), req.Question)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"answer": answer})
}
