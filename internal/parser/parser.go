// Parser Engine: unstructured message text -> validated ParsedAlert.
//
// 처리 흐름:
//  1. regex 추출 시도 (결정적, 고정 confidence)
//  2. 불일치 시 model-assisted 추출로 위임 (동일 스키마 반환)
//  3. 모든 후보는 schema validation 통과 후에만 match로 처리
//  4. validation 실패는 "no match"로 처리 (fatal 아님)

package parser

import (
	"context"
	"log"

	"github.com/autoheal/backend/internal/model"
	"github.com/autoheal/backend/internal/policy"
)

// Result - outcome of one parse attempt.
type Result struct {
	Matched bool
	Parsed  *model.ParsedAlert
	Policy  *model.Policy
}

// ModelExtractor is the language-model-assisted extraction path.
// A (nil, nil) return means the model decided the text is not an alert.
type ModelExtractor interface {
	ExtractAlert(ctx context.Context, text string) (*model.ParsedAlert, error)
}

// Engine 구조체 정의
type Engine struct {
	policies  *policy.Registry
	extractor ModelExtractor
}

// NewEngine builds the parser engine; extractor may be nil to disable the
// model-assisted path.
func NewEngine(policies *policy.Registry, extractor ModelExtractor) *Engine {
	return &Engine{policies: policies, extractor: extractor}
}

// Parse attempts pattern extraction first, then the model-assisted path.
func (e *Engine) Parse(ctx context.Context, text string) Result {
	if parsed := parseDiskAlert(text); parsed != nil {
		if err := ValidateParsedAlert(parsed); err != nil {
			log.Printf("Discarding regex parse candidate: %v", err)
		} else {
			return e.matched(parsed)
		}
	}

	if e.extractor == nil {
		return Result{}
	}

	parsed, err := e.extractor.ExtractAlert(ctx, text)
	if err != nil {
		// Extraction failures degrade to "no match" so the message can
		// still fall through to retrieval.
		log.Printf("Model extraction failed: %v", err)
		return Result{}
	}
	if parsed == nil {
		return Result{}
	}
	if err := ValidateParsedAlert(parsed); err != nil {
		log.Printf("Discarding model parse candidate: %v", err)
		return Result{}
	}
	return e.matched(parsed)
}

func (e *Engine) matched(parsed *model.ParsedAlert) Result {
	return Result{
		Matched: true,
		Parsed:  parsed,
		Policy:  e.policies.Resolve(parsed.AlertType),
	}
}
