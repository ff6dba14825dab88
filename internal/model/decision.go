package model

// DecisionOutcome classifies the remediation posture for a parsed alert.
type DecisionOutcome string

const (
	DecisionAutoReplace   DecisionOutcome = "AUTO_REPLACE"
	DecisionNeedsApproval DecisionOutcome = "NEEDS_APPROVAL"
	DecisionNoAction      DecisionOutcome = "NO_ACTION"
)

// Decision - derived value, recomputed per message, never persisted.
type Decision struct {
	Decision DecisionOutcome `json:"decision"`
	Reason   string          `json:"reason"`

	// Action is the remediation tool name; nil for NO_ACTION.
	Action *string `json:"action"`
}
