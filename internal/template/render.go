// Package template renders the user-facing remediation summary and the
// grounded RAG prompt.
//
// 지원하는 변수 형식:
//
//	{{alert.type}}, {{alert.project}}, {{alert.instance}},
//	{{alert.threshold}}, {{alert.value}}, {{alert.missing}}
//
//	{{decision.outcome}}, {{decision.reason}}, {{decision.action}}
//
//	{{question}}, {{contexts}}
package template

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/autoheal/backend/internal/model"
)

const reportTemplate = `:rotating_light: *Alert detected: {{alert.type}}*
Project: {{alert.project}} | Instance: {{alert.instance}}
Threshold: {{alert.threshold}}% | Current value: {{alert.value}}%
Missing data: {{alert.missing}}

*Decision:* {{decision.outcome}}
*Reason:* {{decision.reason}}`

const ragPromptTemplate = `You are an assistant for an operations team. Answer the question using only the conversation history below.

Conversation history:
{{contexts}}

Question: {{question}}

If the history does not contain the answer, say so plainly.`

// RenderReportSummary - 템플릿 변수를 parsed/decision 값으로 치환
func RenderReportSummary(parsed *model.ParsedAlert, dec model.Decision) string {
	action := ""
	if dec.Action != nil {
		action = *dec.Action
	}

	pairs := []string{
		"{{alert.type}}", parsed.AlertType,
		"{{alert.project}}", strOrUnknown(parsed.ProjectID),
		"{{alert.instance}}", strOrUnknown(parsed.InstanceName),
		"{{alert.threshold}}", floatOrUnknown(parsed.ThresholdPercent),
		"{{alert.value}}", floatOrUnknown(parsed.ValuePercent),
		"{{alert.missing}}", missingOrNone(parsed.MissingFields),
		"{{decision.outcome}}", string(dec.Decision),
		"{{decision.reason}}", dec.Reason,
		"{{decision.action}}", action,
	}
	return strings.NewReplacer(pairs...).Replace(reportTemplate)
}

// RenderRAGPrompt assembles the grounded generation prompt. Contexts are
// numbered in ranking order so the answer can cite them.
func RenderRAGPrompt(question string, contexts []model.RetrievalContext) string {
	var b strings.Builder
	for i, c := range contexts {
		fmt.Fprintf(&b, "[%d] (channel %s, ts %s, score %.3f)\n%s\n\n", i+1, c.ChannelID, c.MessageTS, c.Score, c.Text)
	}

	pairs := []string{
		"{{question}}", question,
		"{{contexts}}", strings.TrimRight(b.String(), "\n"),
	}
	return strings.NewReplacer(pairs...).Replace(ragPromptTemplate)
}

func strOrUnknown(val *string) string {
	if val == nil || *val == "" {
		return "unknown"
	}
	return *val
}

func floatOrUnknown(val *float64) string {
	if val == nil {
		return "unknown"
	}
	return strconv.FormatFloat(*val, 'f', -1, 64)
}

func missingOrNone(fields []string) string {
	if len(fields) == 0 {
		return "none"
	}
	return strings.Join(fields, ", ")
}
