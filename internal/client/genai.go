package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/autoheal/backend/internal/config"
	"github.com/autoheal/backend/internal/model"
	"google.golang.org/genai"
)

const (
	defaultEmbedModel = "text-embedding-004"
	defaultChatModel  = "gemini-2.0-flash"
)

// AIClient wraps the genai SDK for the three model-backed operations:
// embedding, answer generation, and model-assisted alert extraction.
type AIClient struct {
	client     *genai.Client
	embedModel string
	chatModel  string
}

func NewAIClient(cfg config.AIConfig) (*AIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing AI_API_KEY")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, err
	}

	embedModel := cfg.EmbedModel
	if embedModel == "" {
		embedModel = defaultEmbedModel
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = defaultChatModel
	}
	return &AIClient{client: client, embedModel: embedModel, chatModel: chatModel}, nil
}

// EmbedText returns the embedding vector and the model name that produced it.
// Size-limit rejections propagate unchanged; the retrieval service owns the
// downsizing retry.
func (c *AIClient) EmbedText(ctx context.Context, text string) ([]float32, string, error) {
	res, err := c.client.Models.EmbedContent(ctx, c.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, c.embedModel, err
	}
	if res == nil || len(res.Embeddings) == 0 || res.Embeddings[0] == nil {
		return nil, c.embedModel, fmt.Errorf("empty embedding result")
	}
	return res.Embeddings[0].Values, c.embedModel, nil
}

// GenerateText runs a single generation request. No retry.
func (c *AIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	res, err := c.client.Models.GenerateContent(ctx, c.chatModel, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Text()), nil
}

const extractPromptTemplate = `You extract structured monitoring alerts from operations chat messages.

Message:
{{text}}

If the message is a monitoring alert, respond with JSON only, no prose:
{"matched": true, "alert": {"alert_type": "disk_utilization_low", "project_id": null, "instance_name": null, "threshold_percent": null, "value_percent": null, "policy_name": null, "condition_name": null, "violation_started_raw": null, "source_url": null, "confidence": 0.0}}

Use null for any field the message does not state. confidence is your own
certainty in [0,1]. If the message is not a monitoring alert, respond with:
{"matched": false}`

type extractedAlert struct {
	Matched bool `json:"matched"`
	Alert   *struct {
		AlertType           string   `json:"alert_type"`
		ProjectID           *string  `json:"project_id"`
		InstanceName        *string  `json:"instance_name"`
		ThresholdPercent    *float64 `json:"threshold_percent"`
		ValuePercent        *float64 `json:"value_percent"`
		PolicyName          *string  `json:"policy_name"`
		ConditionName       *string  `json:"condition_name"`
		ViolationStartedRaw *string  `json:"violation_started_raw"`
		SourceURL           *string  `json:"source_url"`
		Confidence          *float64 `json:"confidence"`
	} `json:"alert"`
}

// ExtractAlert is the model-assisted extraction path. It returns (nil, nil)
// when the model decides the text is not an alert; callers treat errors as
// "no match", not as fatal.
func (c *AIClient) ExtractAlert(ctx context.Context, text string) (*model.ParsedAlert, error) {
	prompt := strings.NewReplacer("{{text}}", text).Replace(extractPromptTemplate)
	out, err := c.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var extracted extractedAlert
	if err := json.Unmarshal([]byte(stripCodeFence(out)), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse extraction output: %w", err)
	}
	if !extracted.Matched || extracted.Alert == nil || extracted.Alert.AlertType == "" {
		return nil, nil
	}

	// Model self-reported confidence, clamped; absent means uncertain.
	confidence := 0.5
	if extracted.Alert.Confidence != nil {
		confidence = min(max(*extracted.Alert.Confidence, 0), 1)
	}

	parsed := &model.ParsedAlert{
		AlertType:           extracted.Alert.AlertType,
		ProjectID:           extracted.Alert.ProjectID,
		InstanceName:        extracted.Alert.InstanceName,
		MetricLabels:        map[string]string{},
		ThresholdPercent:    extracted.Alert.ThresholdPercent,
		ValuePercent:        extracted.Alert.ValuePercent,
		PolicyName:          extracted.Alert.PolicyName,
		ConditionName:       extracted.Alert.ConditionName,
		ViolationStartedRaw: extracted.Alert.ViolationStartedRaw,
		SourceURL:           extracted.Alert.SourceURL,
		Confidence:          confidence,
		ParseMethod:         model.ParseMethodModel,
	}
	parsed.RecomputeMissingFields()
	return parsed, nil
}

// stripCodeFence removes a surrounding markdown code fence the model may
// wrap JSON output in.
func stripCodeFence(out string) string {
	out = strings.TrimSpace(out)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}
