package model

// ActionToken - self-contained descriptor of a pending remediation action.
//
// The token rides inside the chat surface's approval button payload; the
// backend keeps no copy. Everything needed to reconstruct the pending action
// on the approval event must round-trip through the token with no field loss.
type ActionToken struct {
	Version  int         `json:"v"`
	TokenID  string      `json:"token_id"`
	Action   string      `json:"action"`
	Parsed   ParsedAlert `json:"parsed"`
	Decision Decision    `json:"decision"`

	// OriginRef points back at the message that produced the token
	// (Slack message ts, or a generated reference for the web UI).
	OriginRef string `json:"origin_ref"`
}
