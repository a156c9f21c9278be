package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kesona/askhub/internal/pkg/errcode"
	"github.com/kesona/askhub/internal/pkg/response"
	"github.com/kesona/askhub/internal/service"
)

type AskHandler struct {
	ask *service.AskService
}

func NewAskHandler(ask *service.AskService) *AskHandler {
	return &AskHandler{ask: ask}
}

type askRequest struct {
	Query string `json:"query"`
}

func (h *AskHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	result, err := h.ask.Ask(c.Request.Context(), req.Query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"agent": string(result.Agent), "answer": result.Answer})
}
