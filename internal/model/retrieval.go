package model

// RetrievalContext - one historical message chunk ranked by similarity.
// Produced per query, ordered by descending score, never persisted.
type RetrievalContext struct {
	Text      string  `json:"text"`
	ChannelID string  `json:"channel_id"`
	MessageTS string  `json:"message_ts"`
	Score     float64 `json:"score"`
}
