package handler

import (
	"net/http"

	"github.com/autoheal/backend/internal/model"
	"github.com/autoheal/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type IndexHandler struct {
	svc *service.IndexService
}

func NewIndexHandler(svc *service.IndexService) *IndexHandler {
	return &IndexHandler{svc: svc}
}

// IndexMessage - 히스토리 메시지 인덱싱 엔드포인트
// 메시지를 임베딩하여 검색 가능한 히스토리로 저장
func (h *IndexHandler) IndexMessage(c *gin.Context) {
	var req model.IndexMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}
	if req.ChannelID == "" || req.MessageTS == "" || req.Text == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "channel_id, message_ts and text are required"})
		return
	}

	id, modelName, err := h.svc.IndexMessage(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.IndexMessageResponse{Status: "success", EmbeddingID: id, Model: modelName})
}
