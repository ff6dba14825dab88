// ParsedAlert is the semantic record of a recognized monitoring alert.
// parser, decision, report, approval 레이어에서 공통으로 사용하기 때문에 model 레이어에 별도로 정의

package model

// ParseMethod tags which extraction path produced a ParsedAlert.
type ParseMethod string

const (
	ParseMethodRegex ParseMethod = "regex"
	ParseMethodModel ParseMethod = "model"
)

// Alert types recognized by the parser engine.
const (
	AlertTypeDiskUtilizationLow = "disk_utilization_low"
)

// ParsedAlert - one recognized alert, validated at the parser boundary.
// Immutable once validated; scoped to a single message-processing call.
//
// Optional fields are pointers: nil means the extraction path could not
// determine the value, and the field name then belongs in MissingFields.
type ParsedAlert struct {
	AlertType           string            `json:"alert_type" validate:"required"`
	ProjectID           *string           `json:"project_id"`
	InstanceName        *string           `json:"instance_name"`
	MetricLabels        map[string]string `json:"metric_labels"`
	ThresholdPercent    *float64          `json:"threshold_percent"`
	ValuePercent        *float64          `json:"value_percent"`
	PolicyName          *string           `json:"policy_name"`
	ConditionName       *string           `json:"condition_name"`
	ViolationStartedRaw *string           `json:"violation_started_raw"`
	SourceURL           *string           `json:"source_url"`
	Confidence          float64           `json:"confidence" validate:"min=0,max=1"`
	MissingFields       []string          `json:"missing_fields"`
	ParseMethod         ParseMethod       `json:"parse_method" validate:"required,oneof=regex model"`
}

// IsFieldSet reports whether the named field holds a known value.
// Fields the alert text can never carry (zone, mig_name) are always unset.
func (p *ParsedAlert) IsFieldSet(name string) bool {
	switch name {
	case "alert_type":
		return p.AlertType != ""
	case "project_id":
		return p.ProjectID != nil
	case "instance_name":
		return p.InstanceName != nil
	case "threshold_percent":
		return p.ThresholdPercent != nil
	case "value_percent":
		return p.ValuePercent != nil
	case "policy_name":
		return p.PolicyName != nil
	case "condition_name":
		return p.ConditionName != nil
	case "violation_started_raw":
		return p.ViolationStartedRaw != nil
	case "source_url":
		return p.SourceURL != nil
	default:
		return false
	}
}

// RecomputeMissingFields fills MissingFields for downstream decisioning.
// Remediation targeting always needs zone and MIG name, which monitoring
// alert text never carries, plus whichever extracted fields stayed unknown.
func (p *ParsedAlert) RecomputeMissingFields() {
	missing := []string{"zone", "mig_name"}
	for _, field := range []string{"project_id", "instance_name", "threshold_percent", "value_percent"} {
		if !p.IsFieldSet(field) {
			missing = append(missing, field)
		}
	}
	p.MissingFields = missing
}
