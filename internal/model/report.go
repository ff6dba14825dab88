package model

// Report - formatter output for a recognized alert.
// Summary and EncodedToken are independently reconstructable: the token
// depends only on values already present in Parsed and Decision.
type Report struct {
	Summary  string       `json:"summary"`
	Action   *string      `json:"action"`
	Parsed   *ParsedAlert `json:"parsed"`
	Decision *Decision    `json:"decision"`

	// EncodedToken is set only for NEEDS_APPROVAL decisions.
	EncodedToken string `json:"encoded_token,omitempty"`
}
