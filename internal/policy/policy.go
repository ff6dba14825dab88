// Package policy holds the per-alert-type remediation rule set.
// The registry is built once at startup from configuration and is read-only
// afterwards; the decision engine consumes it by reference.
package policy

import (
	"github.com/autoheal/backend/internal/config"
	"github.com/autoheal/backend/internal/model"
)

type Registry struct {
	byType map[string]model.Policy
}

func NewRegistry(cfg config.PolicyConfig) *Registry {
	return &Registry{
		byType: map[string]model.Policy{
			model.AlertTypeDiskUtilizationLow: {
				AlertType:     model.AlertTypeDiskUtilizationLow,
				Action:        "execute_recreate_instance",
				AutoThreshold: cfg.DiskAutoThreshold,
				// zone and mig_name only become known during the
				// discovery phase, so disk alerts parsed from text
				// always route through human approval.
				RequiredFields: []string{"instance_name", "zone", "mig_name"},
			},
		},
	}
}

// Resolve returns the policy for an alert type, or nil when none is
// configured (a ConfigurationError surfaced downstream as NO_ACTION).
func (r *Registry) Resolve(alertType string) *model.Policy {
	pol, ok := r.byType[alertType]
	if !ok {
		return nil
	}
	return &pol
}
