package model

// Policy maps an alert type to its remediation behavior.
// Loaded once at startup and read-only afterwards, so it is safe for
// unlimited concurrent readers.
type Policy struct {
	AlertType string `json:"alert_type"`

	// Action is the remote tool name executed on approval.
	// Empty means the alert type has no remediation (NO_ACTION).
	Action string `json:"action"`

	// AutoThreshold is the minimum parse confidence for automatic
	// execution. Comparison is inclusive (>=).
	AutoThreshold float64 `json:"auto_threshold"`

	// RequiredFields must all be known before the action may run
	// without a human in the loop.
	RequiredFields []string `json:"required_fields"`
}
