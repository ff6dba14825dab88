package parser

import (
	"regexp"
	"strconv"

	"github.com/autoheal/backend/internal/model"
)

// Known disk-utilization alert shape, e.g.
// "Disk utilization for proj-a instance-7 is violating a threshold of 90 with a value of 95".
var (
	diskInstanceRe  = regexp.MustCompile(`(?i)Disk utilization for\s+([a-z0-9\-]+)\s+([a-z0-9\-]+)`)
	diskThresholdRe = regexp.MustCompile(`(?i)threshold of\s+(\d+(?:\.\d+)?)\s+with a value of\s+(\d+(?:\.\d+)?)`)
)

// An exact pattern match reports a fixed high confidence.
const diskRegexConfidence = 0.9

// parseDiskAlert extracts the disk-utilization shape, or returns nil when the
// text does not carry it.
func parseDiskAlert(text string) *model.ParsedAlert {
	instance := diskInstanceRe.FindStringSubmatch(text)
	if instance == nil {
		return nil
	}

	parsed := &model.ParsedAlert{
		AlertType:    model.AlertTypeDiskUtilizationLow,
		ProjectID:    strPtr(instance[1]),
		InstanceName: strPtr(instance[2]),
		MetricLabels: map[string]string{},
		Confidence:   diskRegexConfidence,
		ParseMethod:  model.ParseMethodRegex,
	}

	if tv := diskThresholdRe.FindStringSubmatch(text); tv != nil {
		if threshold, err := strconv.ParseFloat(tv[1], 64); err == nil {
			parsed.ThresholdPercent = &threshold
		}
		if value, err := strconv.ParseFloat(tv[2], 64); err == nil {
			parsed.ValuePercent = &value
		}
	}

	parsed.RecomputeMissingFields()
	return parsed
}

func strPtr(s string) *string {
	return &s
}
