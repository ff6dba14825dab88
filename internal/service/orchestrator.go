// Orchestrator: 메시지 단위 라우팅
//
// 처리 흐름:
//  1. Parser Engine 먼저 시도 - match면 decision/report 경로로 short-circuit
//  2. no match면 RAG fallback (히스토리 검색 + 생성)
//  3. 히스토리도 없으면 3번째 터미널 분류 ("none")

package service

import (
	"context"
	"log"

	"github.com/autoheal/backend/internal/decision"
	"github.com/autoheal/backend/internal/model"
	"github.com/autoheal/backend/internal/parser"
	"github.com/google/uuid"
)

const (
	noMatchNoHistoryText = "I couldn't identify an action or find relevant history to answer that."
	retrievalFailureText = "I couldn't look through the conversation history right now. Please try again later."
	reportFailureText    = "I recognized an alert but couldn't prepare the remediation report. Please try again later."
	emptyGenerationText  = "I found history but couldn't generate a response."
)

type AlertParser interface {
	Parse(ctx context.Context, text string) parser.Result
}

type ReportFormatter interface {
	Format(parsed *model.ParsedAlert, dec model.Decision, originRef string) (model.Report, error)
}

type Retriever interface {
	RetrieveContexts(ctx context.Context, channelID *string, question string) ([]model.RetrievalContext, error)
	BuildPrompt(question string, contexts []model.RetrievalContext) string
	Generate(ctx context.Context, prompt string) (string, error)
}

type Orchestrator struct {
	parser    AlertParser
	formatter ReportFormatter
	retrieval Retriever
}

func NewOrchestrator(alertParser AlertParser, formatter ReportFormatter, retrieval Retriever) *Orchestrator {
	return &Orchestrator{parser: alertParser, formatter: formatter, retrieval: retrieval}
}

// Process handles one inbound message. channelScope nil means unscoped
// history search; originRef identifies the message that started this call
// and rides inside any emitted ActionToken.
func (o *Orchestrator) Process(ctx context.Context, text string, channelScope *string, originRef string) model.ProcessResult {
	if originRef == "" {
		originRef = "web-" + uuid.NewString()
	}

	// 1. Parser Engine: 인식된 알림은 RAG보다 우선
	parseResult := o.parser.Parse(ctx, text)
	if parseResult.Matched {
		dec := decision.Decide(parseResult.Parsed, parseResult.Policy)
		rep, err := o.formatter.Format(parseResult.Parsed, dec, originRef)
		if err != nil {
			// 인식된 알림을 "no match"로 보고하면 안 됨: 처리 실패로 분류
			log.Printf("Failed to format report: %v", err)
			return model.ProcessResult{Source: model.SourceNone, Text: reportFailureText}
		}
		log.Printf("Alert matched (alert_type=%s, decision=%s, parse_method=%s)",
			parseResult.Parsed.AlertType, dec.Decision, parseResult.Parsed.ParseMethod)
		return model.ProcessResult{Source: model.SourcePolicyEngine, Text: rep.Summary, Data: &rep}
	}

	// 2. RAG fallback
	contexts, err := o.retrieval.RetrieveContexts(ctx, channelScope, text)
	if err != nil {
		// 사용자에게는 일반적인 안내만, 상세는 로그로
		log.Printf("Retrieval failed: %v", err)
		return model.ProcessResult{Source: model.SourceNone, Text: retrievalFailureText}
	}
	if len(contexts) == 0 {
		return model.ProcessResult{Source: model.SourceNone, Text: noMatchNoHistoryText}
	}

	prompt := o.retrieval.BuildPrompt(text, contexts)
	answer, err := o.retrieval.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Generation failed: %v", err)
		answer = ""
	}
	if answer == "" {
		answer = emptyGenerationText
	}
	return model.ProcessResult{Source: model.SourceRAGHistory, Text: answer}
}
