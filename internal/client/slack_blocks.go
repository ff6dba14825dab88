// Slack Block Kit 메시지 조립 헬퍼 정의

package client

import "fmt"

// Button action IDs handled by the interactions endpoint.
const (
	ActionIDApprove   = "approve_action"
	ActionIDReject    = "reject_action"
	ActionIDSearchAll = "search_all_channels"
)

// MessageBlocks - 단일 섹션 메시지
func MessageBlocks(text string) []SlackBlock {
	return []SlackBlock{
		{Type: "section", Text: &SlackText{Type: "mrkdwn", Text: text}},
	}
}

// ApprovalBlocks - 승인 게이트 메시지
// 버튼 value에 서명된 ActionToken이 통째로 실려서 서버는 상태를 보관하지 않음
func ApprovalBlocks(summary, action, encodedToken string) []SlackBlock {
	return []SlackBlock{
		{Type: "section", Text: &SlackText{Type: "mrkdwn", Text: summary}},
		{Type: "section", Text: &SlackText{Type: "mrkdwn", Text: fmt.Sprintf("*Action:* `%s`", action)}},
		{
			Type: "actions",
			Elements: []SlackElement{
				{
					Type:     "button",
					Text:     &SlackText{Type: "plain_text", Text: "✅ Approve & Execute"},
					Style:    "primary",
					Value:    encodedToken,
					ActionID: ActionIDApprove,
				},
				{
					Type:     "button",
					Text:     &SlackText{Type: "plain_text", Text: "❌ Reject"},
					Style:    "danger",
					Value:    encodedToken,
					ActionID: ActionIDReject,
				},
			},
		},
	}
}

// SearchAllBlock - 채널 한정 검색 후 전체 채널 재검색 제안 버튼
func SearchAllBlock(payload string) SlackBlock {
	return SlackBlock{
		Type: "actions",
		Elements: []SlackElement{
			{
				Type:     "button",
				Text:     &SlackText{Type: "plain_text", Text: "🔍 Search All Channels"},
				Style:    "primary",
				Value:    payload,
				ActionID: ActionIDSearchAll,
			},
		},
	}
}
