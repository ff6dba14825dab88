// Report Formatter: renders the human-readable remediation summary and, for
// approval-gated decisions, the encoded ActionToken.

package report

import (
	"github.com/autoheal/backend/internal/model"
	"github.com/autoheal/backend/internal/template"
	"github.com/google/uuid"
)

type Formatter struct {
	tokens *TokenCodec
}

func NewFormatter(tokens *TokenCodec) *Formatter {
	return &Formatter{tokens: tokens}
}

// Format produces the report for one decided alert. The token payload uses
// only values already present in parsed/decision, so summary and token stay
// independently reconstructable.
func (f *Formatter) Format(parsed *model.ParsedAlert, dec model.Decision, originRef string) (model.Report, error) {
	rep := model.Report{
		Summary:  template.RenderReportSummary(parsed, dec),
		Action:   dec.Action,
		Parsed:   parsed,
		Decision: &dec,
	}

	if dec.Decision == model.DecisionNeedsApproval && dec.Action != nil {
		token := model.ActionToken{
			Version:   TokenVersion,
			TokenID:   uuid.NewString(),
			Action:    *dec.Action,
			Parsed:    *parsed,
			Decision:  dec,
			OriginRef: originRef,
		}
		encoded, err := f.tokens.Encode(token)
		if err != nil {
			return model.Report{}, err
		}
		rep.EncodedToken = encoded
	}

	return rep, nil
}
