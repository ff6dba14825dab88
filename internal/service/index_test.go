package service

import (
	"context"
	"testing"

	"github.com/autoheal/backend/internal/config"
	"github.com/autoheal/backend/internal/model"
)

type fakeIndexRepo struct {
	id         int64
	embedModel string
	text       string
}

func (f *fakeIndexRepo) InsertMessageEmbedding(_ context.Context, _, _, _, text, embedModel string, _ []float32) (int64, error) {
	f.embedModel = embedModel
	f.text = text
	return f.id, nil
}

func TestIndexMessage(t *testing.T) {
	repo := &fakeIndexRepo{id: 42}
	embedder := &fakeEmbedder{fn: func(string) ([]float32, error) { return []float32{0.1}, nil }}
	svc := NewIndexService(repo, embedder, config.AIConfig{MaxEmbeddingChars: 10000})

	id, modelName, err := svc.IndexMessage(context.Background(), model.IndexMessageRequest{
		ChannelID: "C123",
		MessageTS: "1724900000.000100",
		UserID:    "U1",
		Text:      "we fixed it by recreating the instance",
	})
	if err != nil {
		t.Fatalf("IndexMessage: %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d", id)
	}
	if modelName != "text-embedding-004" || repo.embedModel != "text-embedding-004" {
		t.Errorf("model = %q, stored = %q", modelName, repo.embedModel)
	}
	// 원문은 잘리지 않은 채로 저장
	if repo.text != "we fixed it by recreating the instance" {
		t.Errorf("stored text = %q", repo.text)
	}
}

func TestIndexMessageRequiredFields(t *testing.T) {
	svc := NewIndexService(&fakeIndexRepo{}, &fakeEmbedder{}, config.AIConfig{MaxEmbeddingChars: 10000})

	cases := []model.IndexMessageRequest{
		{MessageTS: "1", Text: "x"},
		{ChannelID: "C1", Text: "x"},
		{ChannelID: "C1", MessageTS: "1"},
	}
	for _, req := range cases {
		if _, _, err := svc.IndexMessage(context.Background(), req); err == nil {
			t.Errorf("expected error for %+v", req)
		}
	}
}
