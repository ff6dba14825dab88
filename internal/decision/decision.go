// Package decision classifies a parsed alert's remediation posture.
package decision

import (
	"fmt"
	"strings"

	"github.com/autoheal/backend/internal/model"
)

// Decide maps (parsed alert, policy) to a remediation decision.
// Pure function: no I/O, no clock, deterministic for identical inputs.
//
// AUTO_REPLACE requires an automatable action, no required field missing,
// and confidence at or above the policy threshold. The threshold comparison
// is inclusive so that identical inputs never flap between outcomes.
func Decide(parsed *model.ParsedAlert, pol *model.Policy) model.Decision {
	if pol == nil || pol.Action == "" {
		return model.Decision{
			Decision: model.DecisionNoAction,
			Reason:   fmt.Sprintf("no remediation action configured for alert type %q", parsed.AlertType),
		}
	}

	missing := missingRequired(parsed, pol)
	if len(missing) == 0 && parsed.Confidence >= pol.AutoThreshold {
		return model.Decision{
			Decision: model.DecisionAutoReplace,
			Reason: fmt.Sprintf("confidence %.2f meets threshold %.2f and all required fields are present",
				parsed.Confidence, pol.AutoThreshold),
			Action: &pol.Action,
		}
	}

	var reason string
	if len(missing) > 0 {
		reason = fmt.Sprintf("required fields missing: %s", strings.Join(missing, ", "))
	} else {
		reason = fmt.Sprintf("confidence %.2f below threshold %.2f", parsed.Confidence, pol.AutoThreshold)
	}
	return model.Decision{
		Decision: model.DecisionNeedsApproval,
		Reason:   reason,
		Action:   &pol.Action,
	}
}

// missingRequired returns, in policy order, the required fields the parse
// could not determine.
func missingRequired(parsed *model.ParsedAlert, pol *model.Policy) []string {
	unknown := make(map[string]struct{}, len(parsed.MissingFields))
	for _, field := range parsed.MissingFields {
		unknown[field] = struct{}{}
	}

	var missing []string
	for _, field := range pol.RequiredFields {
		if _, ok := unknown[field]; ok {
			missing = append(missing, field)
		}
	}
	return missing
}
