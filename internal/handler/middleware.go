package handler

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/autoheal/backend/internal/client"
	"github.com/gin-gonic/gin"
)

func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SlackSignatureMiddleware - Slack 요청 서명 검증 (v0 HMAC-SHA256)
//
// 서명 계산에 원본 body가 필요하므로 body를 읽은 뒤 다시 채워 넣는다.
func SlackSignatureMiddleware(slack *client.SlackClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		timestamp := c.GetHeader("X-Slack-Request-Timestamp")
		signature := c.GetHeader("X-Slack-Signature")
		if !slack.VerifySignature(timestamp, signature, body) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid slack signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}
