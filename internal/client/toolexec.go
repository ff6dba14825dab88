// 외부 tool-execution 서비스와 통신하는 클라이언트 정의
//
// 환경변수:
//   - TOOL_EXEC_URL: tool-execution 서비스 URL
//
// Protocol: 두 단계 모두 하나의 call 형태를 공유
//   - POST {base}/tools/call {"name": ..., "arguments": {...}}
//   - 응답은 {"content": {...}} 또는 {"content": {"error": ...}, "isError": true}
//   - transport 수준 실패와 구조화된 error payload 모두 에러로 처리

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/autoheal/backend/internal/config"
)

// ToolClient 구조체 정의
type ToolClient struct {
	baseURL    string
	httpClient *http.Client
}

type toolCallRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type toolCallResponse struct {
	Content json.RawMessage `json:"content"`
	IsError bool            `json:"isError,omitempty"`
}

// InstanceMetadata - discovery 단계 응답
type InstanceMetadata struct {
	Zone      string `json:"zone"`
	MigName   string `json:"migName"`
	ProjectID string `json:"projectId"`
	Error     string `json:"error,omitempty"`
}

// ExecuteResult - execute 단계 응답
type ExecuteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewToolClient - ToolClient 객체 생성
func NewToolClient(baseURL string) *ToolClient {
	return &ToolClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // 원격 인프라 조작 시간 고려
		},
	}
}

// Call invokes one named tool and decodes its content payload into out.
// Discovery and execution share this single request shape.
func (c *ToolClient) Call(ctx context.Context, name string, args map[string]any, out any) error {
	payload, err := json.Marshal(toolCallRequest{Name: name, Arguments: args})
	if err != nil {
		return fmt.Errorf("failed to marshal tool call: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tools/call", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call tool %s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read tool response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tool service returned status %d: %s", resp.StatusCode, string(body))
	}

	var envelope toolCallResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse tool response: %w", err)
	}
	if len(envelope.Content) == 0 {
		return fmt.Errorf("tool %s returned empty content", name)
	}
	if err := json.Unmarshal(envelope.Content, out); err != nil {
		return fmt.Errorf("failed to parse tool %s content: %w", name, err)
	}
	return nil
}

// DiscoverInstanceMetadata resolves the zone/MIG/project addressing a named
// instance. A populated error field in the payload counts as failure.
func (c *ToolClient) DiscoverInstanceMetadata(ctx context.Context, instanceName string) (*InstanceMetadata, error) {
	var meta InstanceMetadata
	err := c.Call(ctx, "discover_instance_metadata", map[string]any{
		"instanceName": instanceName,
	}, &meta)
	if err != nil {
		return nil, err
	}
	if meta.Error != "" {
		return nil, fmt.Errorf("discovery error: %s", meta.Error)
	}
	return &meta, nil
}

// ExecuteRecreateInstance triggers the mutating remediation action.
func (c *ToolClient) ExecuteRecreateInstance(ctx context.Context, projectID, zone, migName, instanceName string) (*ExecuteResult, error) {
	var result ExecuteResult
	err := c.Call(ctx, "execute_recreate_instance", map[string]any{
		"projectId":    projectID,
		"zone":         zone,
		"migName":      migName,
		"instanceName": instanceName,
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("execution error: %s", result.Error)
	}
	if !result.Success {
		return nil, fmt.Errorf("execution reported failure: %s", result.Message)
	}
	return &result, nil
}

// ToolClientManager lazily establishes the tool client exactly once.
// Concurrent first callers all observe the same client or the same
// initialization error; the client is reused for every later call.
type ToolClientManager struct {
	cfg    config.ToolExecConfig
	once   sync.Once
	client *ToolClient
	err    error
}

func NewToolClientManager(cfg config.ToolExecConfig) *ToolClientManager {
	return &ToolClientManager{cfg: cfg}
}

func (m *ToolClientManager) GetOrInit() (*ToolClient, error) {
	m.once.Do(func() {
		if m.cfg.BaseURL == "" {
			m.err = fmt.Errorf("TOOL_EXEC_URL not configured")
			return
		}
		m.client = NewToolClient(m.cfg.BaseURL)
	})
	return m.client, m.err
}
