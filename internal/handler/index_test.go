package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autoheal/backend/internal/service"
	"github.com/gin-gonic/gin"
)

func TestIndexMessageHandlerValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var svc *service.IndexService
	r.POST("/api/messages", NewIndexHandler(svc).IndexMessage)

	cases := []string{
		`{}`,
		`{"channel_id":"C1"}`,
		`{"channel_id":"C1","message_ts":"1.1","text":""}`,
	}
	for _, body := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
		}
	}
}
