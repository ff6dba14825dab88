// Approval & Execution Coordinator: stateless state machine driving the
// two-phase (discover -> execute) remote remediation protocol.
//
// 처리 흐름:
//  1. approve/reject 이벤트는 서명된 ActionToken을 통째로 들고 옴 (서버 조회 없음)
//  2. reject: 원격 호출 없이 discard
//  3. approve: discover로 zone/MIG/project 해석, 실패 시 execute 호출 없이 중단
//  4. execute로 인스턴스 재생성, 실패는 discover 실패와 구분하여 보고
//
// 주의: 토큰 중복 전달은 dedup하지 않음 (보관 상태가 없으므로).
// 같은 토큰에 대한 동시 approve 역시 직렬화되지 않음 - 문서화된 한계.

package approval

import (
	"context"
	"fmt"
	"log"

	"github.com/autoheal/backend/internal/client"
	"github.com/autoheal/backend/internal/model"
)

// State - per-token terminal and intermediate states.
type State string

const (
	StatePending         State = "PENDING"
	StateApproved        State = "APPROVED"
	StateRejected        State = "REJECTED"
	StateExecuted        State = "EXECUTED"
	StateExecutionFailed State = "EXECUTION_FAILED"
)

// Phase names the protocol step that failed, for operator diagnosis.
type Phase string

const (
	PhaseDiscover Phase = "discover"
	PhaseExecute  Phase = "execute"
)

// Event is the approval-boundary input. The decoded token reconstructs the
// Pending state on its own; the coordinator holds nothing between events.
type Event struct {
	Token    model.ActionToken
	Approved bool
	UserID   string
}

// Outcome - result of consuming one event.
type Outcome struct {
	State   State
	Success bool

	// FailedPhase is set when State is StateExecutionFailed.
	FailedPhase Phase

	// Message carries the success text or the raw remote error for the
	// approver to diagnose.
	Message string
}

// ToolSource yields the shared tool-execution client, establishing it on
// first use. *client.ToolClientManager satisfies this.
type ToolSource interface {
	GetOrInit() (*client.ToolClient, error)
}

type Coordinator struct {
	tools ToolSource
}

func NewCoordinator(tools ToolSource) *Coordinator {
	return &Coordinator{tools: tools}
}

// HandleEvent consumes one approval or rejection event.
func (c *Coordinator) HandleEvent(ctx context.Context, event Event) Outcome {
	token := event.Token

	if !event.Approved {
		log.Printf("Action rejected (action=%s, token_id=%s, user=%s)", token.Action, token.TokenID, event.UserID)
		return Outcome{
			State:   StateRejected,
			Message: fmt.Sprintf("Action `%s` was rejected and will not be executed.", token.Action),
		}
	}

	log.Printf("Action approved (action=%s, token_id=%s, user=%s)", token.Action, token.TokenID, event.UserID)

	tool, err := c.tools.GetOrInit()
	if err != nil {
		return c.failed(PhaseDiscover, fmt.Sprintf("tool-execution service unavailable: %v", err))
	}

	if token.Parsed.InstanceName == nil || *token.Parsed.InstanceName == "" {
		return c.failed(PhaseDiscover, "instance name unknown; cannot address the action")
	}
	instanceName := *token.Parsed.InstanceName

	// Phase 1: discovery. Failure aborts before any mutating call.
	meta, err := tool.DiscoverInstanceMetadata(ctx, instanceName)
	if err != nil {
		return c.failed(PhaseDiscover, err.Error())
	}

	// Token의 project_id가 있으면 우선, 없으면 discovery가 찾은 기본값 사용
	projectID := meta.ProjectID
	if token.Parsed.ProjectID != nil && *token.Parsed.ProjectID != "" {
		projectID = *token.Parsed.ProjectID
	}

	// Phase 2: execution.
	result, err := tool.ExecuteRecreateInstance(ctx, projectID, meta.Zone, meta.MigName, instanceName)
	if err != nil {
		return c.failed(PhaseExecute, err.Error())
	}

	log.Printf("Action executed (action=%s, token_id=%s, instance=%s, zone=%s, mig=%s)",
		token.Action, token.TokenID, instanceName, meta.Zone, meta.MigName)
	return Outcome{
		State:   StateExecuted,
		Success: true,
		Message: result.Message,
	}
}

func (c *Coordinator) failed(phase Phase, message string) Outcome {
	log.Printf("Execution failed (phase=%s): %s", phase, message)
	return Outcome{
		State:       StateExecutionFailed,
		FailedPhase: phase,
		Message:     message,
	}
}
