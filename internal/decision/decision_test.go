package decision

import (
	"strings"
	"testing"

	"github.com/autoheal/backend/internal/model"
)

func diskPolicy(threshold float64) *model.Policy {
	return &model.Policy{
		AlertType:      model.AlertTypeDiskUtilizationLow,
		Action:         "execute_recreate_instance",
		AutoThreshold:  threshold,
		RequiredFields: []string{"instance_name", "zone", "mig_name"},
	}
}

func parsedWithMissing(confidence float64, missing ...string) *model.ParsedAlert {
	return &model.ParsedAlert{
		AlertType:     model.AlertTypeDiskUtilizationLow,
		MetricLabels:  map[string]string{},
		Confidence:    confidence,
		MissingFields: missing,
		ParseMethod:   model.ParseMethodRegex,
	}
}

func TestDecideAutoReplace(t *testing.T) {
	dec := Decide(parsedWithMissing(0.97), diskPolicy(0.95))
	if dec.Decision != model.DecisionAutoReplace {
		t.Fatalf("decision = %q, reason %q", dec.Decision, dec.Reason)
	}
	if dec.Action == nil || *dec.Action != "execute_recreate_instance" {
		t.Errorf("action = %v", dec.Action)
	}
}

func TestDecideThresholdIsInclusive(t *testing.T) {
	// Confidence exactly at the threshold must not flap: it always
	// qualifies for AUTO_REPLACE.
	dec := Decide(parsedWithMissing(0.95), diskPolicy(0.95))
	if dec.Decision != model.DecisionAutoReplace {
		t.Fatalf("decision = %q at exact threshold", dec.Decision)
	}
}

func TestDecideLowConfidenceNeedsApproval(t *testing.T) {
	dec := Decide(parsedWithMissing(0.9), diskPolicy(0.95))
	if dec.Decision != model.DecisionNeedsApproval {
		t.Fatalf("decision = %q", dec.Decision)
	}
	if !strings.Contains(dec.Reason, "below threshold") {
		t.Errorf("reason = %q", dec.Reason)
	}
	if dec.Action == nil {
		t.Error("approval decisions must still carry the action")
	}
}

func TestDecideMissingRequiredFieldsNeedApproval(t *testing.T) {
	// High confidence cannot compensate for missing required fields.
	dec := Decide(parsedWithMissing(1.0, "zone", "mig_name"), diskPolicy(0.95))
	if dec.Decision != model.DecisionNeedsApproval {
		t.Fatalf("decision = %q", dec.Decision)
	}
	if !strings.Contains(dec.Reason, "zone") || !strings.Contains(dec.Reason, "mig_name") {
		t.Errorf("reason should name the missing fields, got %q", dec.Reason)
	}
}

func TestDecideIgnoresNonRequiredMissingFields(t *testing.T) {
	dec := Decide(parsedWithMissing(0.97, "threshold_percent", "value_percent"), diskPolicy(0.95))
	if dec.Decision != model.DecisionAutoReplace {
		t.Fatalf("decision = %q, reason %q", dec.Decision, dec.Reason)
	}
}

func TestDecideNoPolicy(t *testing.T) {
	dec := Decide(parsedWithMissing(1.0), nil)
	if dec.Decision != model.DecisionNoAction {
		t.Fatalf("decision = %q", dec.Decision)
	}
	if dec.Action != nil {
		t.Errorf("action = %v, want nil", dec.Action)
	}
}

func TestDecideDeterministic(t *testing.T) {
	parsed := parsedWithMissing(0.9, "zone")
	pol := diskPolicy(0.95)

	first := Decide(parsed, pol)
	for i := 0; i < 5; i++ {
		if got := Decide(parsed, pol); got.Decision != first.Decision || got.Reason != first.Reason {
			t.Fatalf("run %d diverged: %+v vs %+v", i, got, first)
		}
	}
}
