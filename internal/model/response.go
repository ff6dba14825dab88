package model

// Terminal classification for one processed message.
const (
	SourcePolicyEngine = "policy_engine"
	SourceRAGHistory   = "rag_history"
	SourceNone         = "none"
)

// ProcessResult - orchestrator response envelope.
type ProcessResult struct {
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Data   *Report `json:"data"`
}

type AnalyzeRequest struct {
	Text string `json:"text"`
}

type IndexMessageRequest struct {
	ChannelID string `json:"channel_id"`
	MessageTS string `json:"message_ts"`
	UserID    string `json:"user_id"`
	Text      string `json:"text"`
}

type IndexMessageResponse struct {
	Status      string `json:"status"`
	EmbeddingID int64  `json:"embedding_id"`
	Model       string `json:"model"`
}

// SearchAllPayload rides inside the "Search All Channels" button value.
type SearchAllPayload struct {
	OriginalText      string `json:"original_text"`
	OriginalMessageTS string `json:"original_message_ts"`
	SearchedChannel   string `json:"searched_channel"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
