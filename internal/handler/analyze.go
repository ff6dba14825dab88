package handler

import (
	"log"
	"net/http"
	"unicode/utf8"

	"github.com/autoheal/backend/internal/model"
	"github.com/autoheal/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type AnalyzeHandler struct {
	orchestrator *service.Orchestrator
}

func NewAnalyzeHandler(orchestrator *service.Orchestrator) *AnalyzeHandler {
	return &AnalyzeHandler{orchestrator: orchestrator}
}

// Analyze - Web UI 분석 엔드포인트
// channel scope 없이 처리 (전체 히스토리 검색 모드)
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "text is required"})
		return
	}

	log.Printf("Query received from Web UI: %q", preview(req.Text))

	result := h.orchestrator.Process(c.Request.Context(), req.Text, nil, "")

	log.Printf("Response sent to Web UI (source=%s): %q", result.Source, preview(result.Text))
	c.JSON(http.StatusOK, result)
}

// preview - 로그용 텍스트 축약 (rune 경계에서 자름)
func preview(text string) string {
	if len(text) <= 100 {
		return text
	}
	cut := 100
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
