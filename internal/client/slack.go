// 외부 Slack API와 통신하는 클라이언트 정의
// Client 레이어에서만 사용하는 구조체 및 Slack 공통 메서드 정의
//
// 환경변수:
//   - SLACK_BOT_TOKEN: Slack Bot Token (xoxb-...)
//   - SLACK_SIGNING_SECRET: 요청 서명 검증용 secret
//
// Webhook 대신 Bot Token을 사용하는 이유:
//   - thread_ts 반환: 메시지 전송 후 timestamp를 받아 쓰레드 답글 가능
//   - chat.update: 승인 버튼 메시지를 실행 결과로 교체 가능

package client

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/autoheal/backend/internal/config"
)

// SlackClient 구조체 정의
type SlackClient struct {
	botToken      string
	signingSecret string
	httpClient    *http.Client
}

// SlackMessage(메시지 내용) 구조체 정의
type SlackMessage struct {
	Channel  string       `json:"channel"`
	Text     string       `json:"text,omitempty"`
	ThreadTS string       `json:"thread_ts,omitempty"`
	TS       string       `json:"ts,omitempty"` // chat.update 대상 메시지
	Blocks   []SlackBlock `json:"blocks,omitempty"`
}

// SlackBlock(Block Kit 블록) 구조체 정의
type SlackBlock struct {
	Type     string         `json:"type"`
	Text     *SlackText     `json:"text,omitempty"`
	Elements []SlackElement `json:"elements,omitempty"`
}

type SlackText struct {
	Type string `json:"type"` // mrkdwn 또는 plain_text
	Text string `json:"text"`
}

// SlackElement(버튼 등 인터랙티브 요소) 구조체 정의
type SlackElement struct {
	Type     string     `json:"type"`
	Text     *SlackText `json:"text,omitempty"`
	Style    string     `json:"style,omitempty"`
	Value    string     `json:"value,omitempty"`
	ActionID string     `json:"action_id,omitempty"`
}

// SlackResponse(메시지 응답) 구조체 정의
type SlackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	TS    string `json:"ts,omitempty"`
}

// SlackClient 객체 생성
func NewSlackClient(cfg config.SlackConfig) *SlackClient {
	return &SlackClient{
		botToken:      cfg.BotToken,
		signingSecret: cfg.SigningSecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Bot Token 설정 여부 체크
func (c *SlackClient) IsConfigured() bool {
	return c.botToken != ""
}

// Slack API 호출
func (c *SlackClient) send(apiMethod string, msg SlackMessage) (*SlackResponse, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequest("POST", "https://slack.com/api/"+apiMethod, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var slackResp SlackResponse
	if err := json.Unmarshal(body, &slackResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if !slackResp.OK {
		return nil, fmt.Errorf("slack API error: %s", slackResp.Error)
	}
	return &slackResp, nil
}

// PostMessage - 채널(쓰레드)에 메시지 전송, 전송된 메시지의 ts 반환
func (c *SlackClient) PostMessage(channel, threadTS, text string, blocks []SlackBlock) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("slack bot token not configured")
	}
	resp, err := c.send("chat.postMessage", SlackMessage{
		Channel:  channel,
		ThreadTS: threadTS,
		Text:     text,
		Blocks:   blocks,
	})
	if err != nil {
		return "", err
	}
	return resp.TS, nil
}

// UpdateMessage - 기존 메시지를 교체 (승인 버튼 → 실행 결과)
func (c *SlackClient) UpdateMessage(channel, ts, text string, blocks []SlackBlock) error {
	if !c.IsConfigured() {
		return fmt.Errorf("slack bot token not configured")
	}
	_, err := c.send("chat.update", SlackMessage{
		Channel: channel,
		TS:      ts,
		Text:    text,
		Blocks:  blocks,
	})
	return err
}

// VerifySignature - Slack v0 요청 서명 검증
// signature = "v0=" + hex(hmac-sha256(secret, "v0:{timestamp}:{body}"))
// timestamp가 5분 이상 어긋나면 replay로 간주하고 거부
func (c *SlackClient) VerifySignature(timestamp, signature string, body []byte) bool {
	if c.signingSecret == "" || timestamp == "" || signature == "" {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	skew := time.Since(time.Unix(ts, 0))
	if skew > 5*time.Minute || skew < -5*time.Minute {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.signingSecret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
