package service

import (
	"context"
	"errors"
	"testing"

	"github.com/autoheal/backend/internal/config"
	"github.com/autoheal/backend/internal/model"
	"github.com/autoheal/backend/internal/parser"
	"github.com/autoheal/backend/internal/policy"
	"github.com/autoheal/backend/internal/report"
)

type fakeRetriever struct {
	contexts    []model.RetrievalContext
	retrieveErr error
	answer      string
	generateErr error

	retrieveCalled bool
	channelScope   *string
}

func (f *fakeRetriever) RetrieveContexts(_ context.Context, channelID *string, _ string) ([]model.RetrievalContext, error) {
	f.retrieveCalled = true
	f.channelScope = channelID
	return f.contexts, f.retrieveErr
}

func (f *fakeRetriever) BuildPrompt(question string, _ []model.RetrievalContext) string {
	return "prompt: " + question
}

func (f *fakeRetriever) Generate(_ context.Context, _ string) (string, error) {
	return f.answer, f.generateErr
}

func testOrchestrator(t *testing.T, retriever Retriever) *Orchestrator {
	t.Helper()
	codec, err := report.NewTokenCodec(config.TokenConfig{SigningSecret: "test-secret"})
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	policies := policy.NewRegistry(config.PolicyConfig{DiskAutoThreshold: 0.95})
	return NewOrchestrator(parser.NewEngine(policies, nil), report.NewFormatter(codec), retriever)
}

func TestProcessAlertShortCircuitsRetrieval(t *testing.T) {
	retriever := &fakeRetriever{}
	orch := testOrchestrator(t, retriever)

	result := orch.Process(context.Background(),
		"Disk utilization for proj-a instance-7 is violating a threshold of 90 with a value of 95", nil, "ts-1")

	if result.Source != model.SourcePolicyEngine {
		t.Fatalf("source = %q, text = %q", result.Source, result.Text)
	}
	if retriever.retrieveCalled {
		t.Error("retrieval must not run when the parser matches")
	}
	if result.Data == nil || result.Data.Decision == nil {
		t.Fatal("policy-engine results must carry report data")
	}
	// zone/mig_name are never parseable, so the disk policy always lands
	// on NEEDS_APPROVAL with a signed token.
	if result.Data.Decision.Decision != model.DecisionNeedsApproval {
		t.Errorf("decision = %q", result.Data.Decision.Decision)
	}
	if result.Data.EncodedToken == "" {
		t.Error("expected an encoded action token")
	}
}

func TestProcessFallsBackToHistory(t *testing.T) {
	retriever := &fakeRetriever{
		contexts: []model.RetrievalContext{{Text: "we resized the disk", Score: 0.9}},
		answer:   "Last time the team resized the disk.",
	}
	orch := testOrchestrator(t, retriever)

	channel := "C123"
	result := orch.Process(context.Background(), "how did we fix the disk issue before?", &channel, "ts-2")

	if result.Source != model.SourceRAGHistory {
		t.Fatalf("source = %q", result.Source)
	}
	if result.Text != "Last time the team resized the disk." {
		t.Errorf("text = %q", result.Text)
	}
	if retriever.channelScope == nil || *retriever.channelScope != "C123" {
		t.Errorf("channel scope = %v", retriever.channelScope)
	}
}

func TestProcessNoMatchNoHistory(t *testing.T) {
	orch := testOrchestrator(t, &fakeRetriever{})

	result := orch.Process(context.Background(), "completely novel question", nil, "ts-3")

	if result.Source != model.SourceNone {
		t.Fatalf("source = %q", result.Source)
	}
	if result.Text != "I couldn't identify an action or find relevant history to answer that." {
		t.Errorf("text = %q", result.Text)
	}
	if result.Data != nil {
		t.Errorf("data = %+v, want nil", result.Data)
	}
}

type failingFormatter struct{}

func (failingFormatter) Format(_ *model.ParsedAlert, _ model.Decision, _ string) (model.Report, error) {
	return model.Report{}, errors.New("token signing failed")
}

func TestProcessFormatFailureIsNotNoMatch(t *testing.T) {
	policies := policy.NewRegistry(config.PolicyConfig{DiskAutoThreshold: 0.95})
	retriever := &fakeRetriever{}
	orch := NewOrchestrator(parser.NewEngine(policies, nil), failingFormatter{}, retriever)

	result := orch.Process(context.Background(),
		"Disk utilization for proj-a instance-7 is violating a threshold of 90 with a value of 95", nil, "ts-7")

	if result.Source != model.SourceNone {
		t.Fatalf("source = %q", result.Source)
	}
	// 인식된 알림이므로 "couldn't identify" 문구로 보고하면 안 됨
	if result.Text != reportFailureText {
		t.Errorf("text = %q", result.Text)
	}
	if retriever.retrieveCalled {
		t.Error("retrieval must not run for a matched alert")
	}
}

func TestProcessRetrievalFailureIsGeneric(t *testing.T) {
	orch := testOrchestrator(t, &fakeRetriever{retrieveErr: errors.New("connection refused to 10.0.0.5:5432")})

	result := orch.Process(context.Background(), "any question", nil, "ts-4")

	if result.Source != model.SourceNone {
		t.Fatalf("source = %q", result.Source)
	}
	if result.Text != retrievalFailureText {
		t.Errorf("text = %q", result.Text)
	}
}

func TestProcessEmptyGeneration(t *testing.T) {
	retriever := &fakeRetriever{
		contexts: []model.RetrievalContext{{Text: "some history", Score: 0.7}},
		answer:   "",
	}
	orch := testOrchestrator(t, retriever)

	result := orch.Process(context.Background(), "vague question", nil, "ts-5")

	if result.Source != model.SourceRAGHistory {
		t.Fatalf("source = %q", result.Source)
	}
	if result.Text != emptyGenerationText {
		t.Errorf("text = %q", result.Text)
	}
}

func TestProcessGenerationErrorStillAnswers(t *testing.T) {
	retriever := &fakeRetriever{
		contexts:    []model.RetrievalContext{{Text: "some history", Score: 0.7}},
		generateErr: errors.New("model unavailable"),
	}
	orch := testOrchestrator(t, retriever)

	result := orch.Process(context.Background(), "question", nil, "ts-6")

	if result.Source != model.SourceRAGHistory || result.Text != emptyGenerationText {
		t.Fatalf("result = %+v", result)
	}
}
