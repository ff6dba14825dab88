// Slack 이벤트/인터랙션 엔드포인트 정의
//
// 처리 흐름 (events):
//  1. url_verification challenge 응답
//  2. app_mention 이벤트: 멘션 제거 후 orchestrator 호출
//  3. NEEDS_APPROVAL이면 승인 버튼 포함 메시지 전송 (토큰은 버튼 value에)
//  4. RAG 답변이면 "Search All Channels" 버튼 추가
//
// 처리 흐름 (interactions):
//  1. form의 payload JSON 파싱 후 즉시 ack
//  2. approve/reject: 토큰 디코드 후 coordinator에 전달, 결과로 메시지 교체
//  3. search_all_channels: channel scope 없이 재검색 후 메시지 교체

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/autoheal/backend/internal/approval"
	"github.com/autoheal/backend/internal/client"
	"github.com/autoheal/backend/internal/model"
	"github.com/autoheal/backend/internal/report"
	"github.com/autoheal/backend/internal/service"
	"github.com/gin-gonic/gin"
)

var mentionRe = regexp.MustCompile(`<@[A-Z0-9]+>`)

type SlackHandler struct {
	orchestrator *service.Orchestrator
	coordinator  *approval.Coordinator
	tokens       *report.TokenCodec
	slack        *client.SlackClient
}

func NewSlackHandler(orchestrator *service.Orchestrator, coordinator *approval.Coordinator, tokens *report.TokenCodec, slack *client.SlackClient) *SlackHandler {
	return &SlackHandler{
		orchestrator: orchestrator,
		coordinator:  coordinator,
		tokens:       tokens,
		slack:        slack,
	}
}

type slackEventEnvelope struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Event     struct {
		Type    string `json:"type"`
		Channel string `json:"channel"`
		User    string `json:"user"`
		Text    string `json:"text"`
		TS      string `json:"ts"`
	} `json:"event"`
}

// Events - Slack Events API 엔드포인트
func (h *SlackHandler) Events(c *gin.Context) {
	var envelope slackEventEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid payload"})
		return
	}

	if envelope.Type == "url_verification" {
		c.JSON(http.StatusOK, gin.H{"challenge": envelope.Challenge})
		return
	}

	if envelope.Event.Type != "app_mention" {
		c.JSON(http.StatusOK, model.StatusResponse{Status: "ignored"})
		return
	}

	// Slack은 3초 내 ack을 요구하므로 본 처리는 비동기로
	event := envelope.Event
	go h.handleMention(event.Channel, event.TS, event.Text)

	c.JSON(http.StatusOK, model.StatusResponse{Status: "ok"})
}

func (h *SlackHandler) handleMention(channel, messageTS, rawText string) {
	text := strings.TrimSpace(mentionRe.ReplaceAllString(rawText, ""))
	if text == "" {
		if _, err := h.slack.PostMessage(channel, messageTS, "What would you like me to analyze or look up?", nil); err != nil {
			log.Printf("Failed to send prompt message: %v", err)
		}
		return
	}

	log.Printf("Query received from Slack (channel=%s): %q", channel, preview(text))

	result := h.orchestrator.Process(context.Background(), text, &channel, messageTS)

	log.Printf("Response sent to Slack (channel=%s, source=%s): %q", channel, result.Source, preview(result.Text))

	var blocks []client.SlackBlock
	switch {
	case needsApproval(result):
		blocks = client.ApprovalBlocks(result.Text, *result.Data.Action, result.Data.EncodedToken)
	case result.Source == model.SourceRAGHistory:
		// 채널 한정 검색이었으므로 전체 채널 재검색 제안
		payload, err := json.Marshal(model.SearchAllPayload{
			OriginalText:      text,
			OriginalMessageTS: messageTS,
			SearchedChannel:   channel,
		})
		if err == nil {
			blocks = append(client.MessageBlocks(result.Text), client.SearchAllBlock(string(payload)))
		}
	}

	if _, err := h.slack.PostMessage(channel, messageTS, result.Text, blocks); err != nil {
		log.Printf("Failed to send response to Slack: %v", err)
	}
}

func needsApproval(result model.ProcessResult) bool {
	return result.Data != nil &&
		result.Data.Decision != nil &&
		result.Data.Decision.Decision == model.DecisionNeedsApproval &&
		result.Data.Action != nil &&
		result.Data.EncodedToken != ""
}

// Slack이 form-encoded `payload` 필드에 JSON을 실어서 보냄
type interactionPayload struct {
	Type string `json:"type"`
	User struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"user"`
	Channel struct {
		ID string `json:"id"`
	} `json:"channel"`
	Message struct {
		TS   string `json:"ts"`
		Text string `json:"text"`
	} `json:"message"`
	Actions []struct {
		ActionID string `json:"action_id"`
		Value    string `json:"value"`
	} `json:"actions"`
}

// Interactions - Slack 버튼 클릭 엔드포인트
func (h *SlackHandler) Interactions(c *gin.Context) {
	payloadStr := c.PostForm("payload")
	if payloadStr == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "missing payload"})
		return
	}

	var payload interactionPayload
	if err := json.Unmarshal([]byte(payloadStr), &payload); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid payload"})
		return
	}
	if len(payload.Actions) == 0 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "no action data"})
		return
	}

	action := payload.Actions[0]
	switch action.ActionID {
	case client.ActionIDApprove, client.ActionIDReject:
		go h.handleApproval(payload, action.ActionID, action.Value)
	case client.ActionIDSearchAll:
		go h.handleSearchAll(payload, action.Value)
	default:
		log.Printf("Ignoring unknown interaction (action_id=%s)", action.ActionID)
	}

	// 즉시 ack (본 처리는 비동기)
	c.JSON(http.StatusOK, model.StatusResponse{Status: "ok"})
}

func (h *SlackHandler) handleApproval(payload interactionPayload, actionID, value string) {
	token, err := h.tokens.Decode(value)
	if err != nil {
		log.Printf("Failed to decode action token: %v", err)
		if _, err := h.slack.PostMessage(payload.Channel.ID, payload.Message.TS, "Error processing approval: the action payload was invalid.", nil); err != nil {
			log.Printf("Failed to send approval error message: %v", err)
		}
		return
	}

	outcome := h.coordinator.HandleEvent(context.Background(), approval.Event{
		Token:    *token,
		Approved: actionID == client.ActionIDApprove,
		UserID:   payload.User.ID,
	})

	var text string
	switch outcome.State {
	case approval.StateExecuted:
		text = fmt.Sprintf("✅ *Action Approved and Executed*\n\n*Action:* `%s`\n\n*Result:* ✅ Success\n%s",
			token.Action, outcome.Message)
	case approval.StateExecutionFailed:
		// 실행 실패는 원문 그대로 노출하여 운영자가 진단할 수 있게 함
		text = fmt.Sprintf("✅ *Action Approved but Execution Failed*\n\n*Action:* `%s`\n\n*Error (%s phase):* %s",
			token.Action, outcome.FailedPhase, outcome.Message)
	case approval.StateRejected:
		text = fmt.Sprintf("❌ *Action Rejected*\n\n*Action:* `%s`\n\n%s", token.Action, outcome.Message)
	default:
		text = fmt.Sprintf("Action `%s` is in state %s.", token.Action, outcome.State)
	}

	if err := h.slack.UpdateMessage(payload.Channel.ID, payload.Message.TS, text, client.MessageBlocks(text)); err != nil {
		log.Printf("Failed to update approval message: %v", err)
	}
}

func (h *SlackHandler) handleSearchAll(payload interactionPayload, value string) {
	var req model.SearchAllPayload
	if err := json.Unmarshal([]byte(value), &req); err != nil {
		log.Printf("Failed to parse search-all payload: %v", err)
		return
	}

	log.Printf("Search across all channels requested (user=%s): %q", payload.User.ID, preview(req.OriginalText))

	// channel scope nil = 전체 채널 검색
	result := h.orchestrator.Process(context.Background(), req.OriginalText, nil, req.OriginalMessageTS)

	text := "*Results from all channels:*\n\n" + result.Text
	if err := h.slack.UpdateMessage(payload.Channel.ID, payload.Message.TS, text, client.MessageBlocks(text)); err != nil {
		log.Printf("Failed to update search-all message: %v", err)
	}
}
