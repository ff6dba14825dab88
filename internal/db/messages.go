// Slack 메시지 히스토리 저장 및 유사도 검색 (pgvector)
//
// slack_messages 테이블이 RAG fallback의 검색 대상이며, 임베딩은 인덱싱
// 시점에 한 번 계산되어 저장됩니다.

package db

import (
	"context"

	"github.com/autoheal/backend/internal/model"
	"github.com/pgvector/pgvector-go"
)

func (db *Postgres) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS slack_messages (
			id BIGSERIAL PRIMARY KEY,
			channel_id TEXT NOT NULL,
			message_ts TEXT NOT NULL,
			user_id TEXT,
			text TEXT NOT NULL,
			embedding vector(768) NOT NULL, -- text-embedding-004 차원 수
			model TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (channel_id, message_ts)
		)`,
		`CREATE INDEX IF NOT EXISTS slack_messages_embedding_idx
			ON slack_messages USING hnsw (embedding vector_cosine_ops)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func messageInsertQuery() string {
	return `
		INSERT INTO slack_messages (channel_id, message_ts, user_id, text, embedding, model)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (channel_id, message_ts) DO UPDATE
			SET text = EXCLUDED.text, embedding = EXCLUDED.embedding, model = EXCLUDED.model
		RETURNING id
	`
}

func (db *Postgres) InsertMessageEmbedding(ctx context.Context, channelID, messageTS, userID, text, embedModel string, vector []float32) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx, messageInsertQuery(),
		channelID, messageTS, userID, text, pgvector.NewVector(vector), embedModel).Scan(&id)
	return id, err
}

// SearchSimilarMessages ranks history chunks by cosine similarity to the
// query vector. channelID nil은 전체 채널 검색 (caller가 선택하는 모드).
func (db *Postgres) SearchSimilarMessages(ctx context.Context, channelID *string, vector []float32, limit int) ([]model.RetrievalContext, error) {
	query := `
		SELECT text, channel_id, message_ts, 1 - (embedding <=> $1) AS score
		FROM slack_messages
		WHERE $2::text IS NULL OR channel_id = $2
		ORDER BY embedding <=> $1
		LIMIT $3`

	rows, err := db.Pool.Query(ctx, query, pgvector.NewVector(vector), channelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contexts []model.RetrievalContext
	for rows.Next() {
		var c model.RetrievalContext
		if err := rows.Scan(&c.Text, &c.ChannelID, &c.MessageTS, &c.Score); err != nil {
			return nil, err
		}
		contexts = append(contexts, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	// 빈 결과는 정상 (no relevant context), 에러 아님
	if contexts == nil {
		contexts = []model.RetrievalContext{}
	}
	return contexts, nil
}
