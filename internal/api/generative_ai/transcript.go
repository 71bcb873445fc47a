package generativeAI

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

// correctionTemplate is sent as a user turn after the safety review flags an answer.
const correctionTemplate = "[안전 검토] 방금 답변은 사용자의 혈당 관리에 위험할 수 있습니다. 사유: %s\n" +
	"같은 질문에 대해 혈당 부담이 낮은 메뉴로 답변 전체를 다시 작성하세요. 검토 과정은 언급하지 마세요."

// CorrectionText renders the corrective instruction for a CorrectionTurn.
func CorrectionText(c types.CorrectionTurn) string {
	return fmt.Sprintf(correctionTemplate, c.Reason)
}

// ToContents converts a transcript into Gemini contents. Consecutive tool results are
// merged into a single user content so that every function call of one model turn is
// answered in the following turn.
func ToContents(transcript []types.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(transcript))

	for _, turn := range transcript {
		switch t := turn.(type) {
		case types.UserTurn:
			contents = append(contents, textContent(roleUser, t.Text))

		case types.AssistantTurn:
			contents = append(contents, textContent(roleModel, t.Text))

		case types.ToolRequestTurn:
			parts := make([]*genai.Part, 0, len(t.Calls)+1)
			if t.Text != "" {
				parts = append(parts, &genai.Part{Text: t.Text})
			}
			for _, call := range t.Calls {
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   call.ID,
					Name: call.Name,
					Args: call.Args,
				}})
			}
			contents = append(contents, &genai.Content{Role: roleModel, Parts: parts})

		case types.ToolResultTurn:
			part := &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       t.CallID,
				Name:     t.Name,
				Response: t.Response,
			}}
			if last := lastContent(contents); last != nil && last.Role == roleUser && isFunctionResponseContent(last) {
				last.Parts = append(last.Parts, part)
				continue
			}
			contents = append(contents, &genai.Content{Role: roleUser, Parts: []*genai.Part{part}})

		case types.CorrectionTurn:
			contents = append(contents, textContent(roleUser, CorrectionText(t)))
		}
	}
	return contents
}

func textContent(role, text string) *genai.Content {
	return &genai.Content{Role: role, Parts: []*genai.Part{{Text: text}}}
}

func lastContent(contents []*genai.Content) *genai.Content {
	if len(contents) == 0 {
		return nil
	}
	return contents[len(contents)-1]
}

func isFunctionResponseContent(c *genai.Content) bool {
	for _, p := range c.Parts {
		if p.FunctionResponse == nil {
			return false
		}
	}
	return len(c.Parts) > 0
}
