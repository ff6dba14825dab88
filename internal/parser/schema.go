package parser

import (
	"fmt"

	"github.com/autoheal/backend/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateParsedAlert enforces the structural contract of a parse candidate.
// Every candidate passes through here before it counts as a match, no matter
// which extraction path produced it. A validation error means "no match" to
// callers; it is never fatal.
func ValidateParsedAlert(parsed *model.ParsedAlert) error {
	if parsed == nil {
		return fmt.Errorf("nil parsed alert")
	}
	if err := validate.Struct(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if parsed.MetricLabels == nil {
		return fmt.Errorf("metric_labels must not be nil")
	}
	if parsed.MissingFields == nil {
		return fmt.Errorf("missing_fields must not be nil")
	}
	// missing_fields may only list fields that are actually unknown.
	for _, field := range parsed.MissingFields {
		if parsed.IsFieldSet(field) {
			return fmt.Errorf("missing_fields lists populated field %q", field)
		}
	}
	return nil
}
