package service

import (
	"context"
	"fmt"

	"github.com/autoheal/backend/internal/config"
	"github.com/autoheal/backend/internal/model"
)

type MessageIndexRepo interface {
	InsertMessageEmbedding(ctx context.Context, channelID, messageTS, userID, text, embedModel string, vector []float32) (int64, error)
}

// IndexService feeds the history store the RAG fallback searches: each
// ingested message is embedded once and stored with its vector.
type IndexService struct {
	repo     MessageIndexRepo
	embedder Embedder
	maxChars int
}

func NewIndexService(repo MessageIndexRepo, embedder Embedder, cfg config.AIConfig) *IndexService {
	return &IndexService{repo: repo, embedder: embedder, maxChars: cfg.MaxEmbeddingChars}
}

func (s *IndexService) IndexMessage(ctx context.Context, req model.IndexMessageRequest) (int64, string, error) {
	if req.ChannelID == "" || req.MessageTS == "" || req.Text == "" {
		return 0, "", fmt.Errorf("channel_id, message_ts and text are required")
	}
	vector, modelName, err := embedWithDownsizing(ctx, s.embedder, req.Text, s.maxChars)
	if err != nil {
		return 0, modelName, err
	}
	id, err := s.repo.InsertMessageEmbedding(ctx, req.ChannelID, req.MessageTS, req.UserID, req.Text, modelName, vector)
	return id, modelName, err
}
