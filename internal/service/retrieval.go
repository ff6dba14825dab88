// Retrieval Engine (RAG fallback) 비즈니스 로직 정의
//
// 처리 흐름:
//  1. 질문을 임베딩 (크기 제한 초과 시 축소 재시도)
//  2. pgvector 유사도 검색으로 히스토리 청크 랭킹 (채널 스코프 선택적)
//  3. 검색 결과로 grounded prompt 조립
//  4. 단일 생성 호출로 답변 요청 (재시도 없음)

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/autoheal/backend/internal/config"
	"github.com/autoheal/backend/internal/model"
	"github.com/autoheal/backend/internal/template"
)

// Fallback size ceilings for the embedding downsizing retry, tried after the
// configured truncation point, largest first.
var embedFallbackSizes = []int{8000, 5000, 3000}

// ErrEmbeddingSizeExhausted - 모든 축소 크기에서 임베딩 서비스가 입력을
// 거부한 경우. 조용히 삼키지 않고 호출자에게 전파됩니다.
var ErrEmbeddingSizeExhausted = errors.New("embedding input rejected at every fallback size")

type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, string, error)
}

type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type MessageSearchRepo interface {
	SearchSimilarMessages(ctx context.Context, channelID *string, vector []float32, limit int) ([]model.RetrievalContext, error)
}

type RetrievalService struct {
	repo      MessageSearchRepo
	embedder  Embedder
	generator Generator
	maxChars  int
	limit     int
}

func NewRetrievalService(repo MessageSearchRepo, embedder Embedder, generator Generator, cfg config.AIConfig) *RetrievalService {
	return &RetrievalService{
		repo:      repo,
		embedder:  embedder,
		generator: generator,
		maxChars:  cfg.MaxEmbeddingChars,
		limit:     cfg.RetrievalLimit,
	}
}

// RetrieveContexts ranks history chunks for the question. channelID nil
// searches all channels. An empty result is a valid non-error outcome.
func (s *RetrievalService) RetrieveContexts(ctx context.Context, channelID *string, question string) ([]model.RetrievalContext, error) {
	vector, _, err := embedWithDownsizing(ctx, s.embedder, question, s.maxChars)
	if err != nil {
		return nil, err
	}
	return s.repo.SearchSimilarMessages(ctx, channelID, vector, s.limit)
}

// BuildPrompt assembles the grounded generation prompt.
func (s *RetrievalService) BuildPrompt(question string, contexts []model.RetrievalContext) string {
	return template.RenderRAGPrompt(question, contexts)
}

// Generate runs the single generation call. No retry.
func (s *RetrievalService) Generate(ctx context.Context, prompt string) (string, error) {
	return s.generator.GenerateText(ctx, prompt)
}

// embedWithDownsizing embeds text under the service's input-size limit.
//
// The input is first truncated to maxChars, then attempted at progressively
// smaller ceilings while the service keeps rejecting it as too long: the
// truncation point itself, then 8000, 5000, 3000 chars — at most 4 attempts.
// Only size rejections trigger the retry; any other error propagates at once.
func embedWithDownsizing(ctx context.Context, embedder Embedder, text string, maxChars int) ([]float32, string, error) {
	truncated := truncateForEmbedding(text, maxChars)
	if len(truncated) < len(text) {
		log.Printf("Embedding input truncated (original=%d, truncated=%d)", len(text), len(truncated))
	}

	sizes := append([]int{len(truncated)}, embedFallbackSizes...)

	var lastErr error
	for _, size := range sizes {
		if size > len(truncated) {
			continue
		}
		candidate := truncated
		if size < len(truncated) {
			candidate = truncateForEmbedding(truncated, size)
		}

		vector, modelName, err := embedder.EmbedText(ctx, candidate)
		if err == nil {
			return vector, modelName, nil
		}
		if !isInputTooLongErr(err) {
			return nil, modelName, err
		}
		lastErr = err
		log.Printf("Embedding input rejected as too long at %d chars, trying smaller ceiling", len(candidate))
	}

	return nil, "", fmt.Errorf("%w: %v", ErrEmbeddingSizeExhausted, lastErr)
}

// truncateForEmbedding cuts text to at most max bytes, preferring the last
// newline when it falls within the final 10% of the window so the cut lands
// on a message boundary instead of mid-sentence. The hard cut backs off to a
// rune boundary: 다국어 메시지를 rune 중간에서 자르면 깨진 UTF-8이 임베딩
// 서비스로 전달되기 때문입니다.
func truncateForEmbedding(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	trimmed := text[:cut]
	if idx := strings.LastIndex(trimmed, "\n"); idx > int(float64(max)*0.9) {
		return trimmed[:idx]
	}
	return trimmed
}

// isInputTooLongErr recognizes the embedding service's oversized-input
// rejection by message content. Anything else must not trigger the
// downsizing retry.
func isInputTooLongErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "context length") ||
		strings.Contains(msg, "exceeds the context") ||
		strings.Contains(msg, "input length exceeds") ||
		strings.Contains(msg, "input too long")
}
