package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/kesona/askhub/internal/pkg/errcode"
	appErr "github.com/kesona/askhub/internal/pkg/errors"
	"github.com/kesona/askhub/internal/pkg/response"
	"github.com/kesona/askhub/internal/rag"
	"github.com/kesona/askhub/internal/service"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	ctx := c.Request.Context()
	logutil.GetLogger(ctx).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	switch {
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrTooMany):
		response.Error(c, errcode.ErrTooMany, "too many requests")
	case errors.Is(err, appErr.ErrUploadBadType):
		response.Error(c, errcode.ErrInvalidFile, "unsupported file type")
	case errors.Is(err, rag.ErrNotReady):
		response.Error(c, errcode.ErrNoDocument, "no document has been uploaded yet")
	case errors.Is(err, rag.ErrEmptyDocument):
		response.Error(c, errcode.ErrEmptyDocument, "document contains no usable text")
	case errors.Is(err, service.ErrAIUnavailable):
		response.Error(c, errcode.ErrAIUnavailable, "ai provider not configured")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
