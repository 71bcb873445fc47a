package types

// Roles accepted from clients in a chat transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one client-side transcript entry.
type ChatMessage struct {
	Role    string `json:"role" example:"user"`
	Content string `json:"content" example:"강남역 근처 점심 추천해줘"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the reply of POST /chat.
type ChatResponse struct {
	Reply       string `json:"reply"`
	Unavailable bool   `json:"unavailable,omitempty"`
}

// Turn is one entry of an orchestration transcript. The set of implementations is closed:
// UserTurn, AssistantTurn, ToolRequestTurn, ToolResultTurn and CorrectionTurn.
type Turn interface {
	isTurn()
}

// UserTurn is text written by the user.
type UserTurn struct {
	Text string
}

// AssistantTurn is a final, tool-free answer from the model.
type AssistantTurn struct {
	Text string
}

// ToolCall is a single function invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ToolRequestTurn is a model response asking for one or more tool calls.
type ToolRequestTurn struct {
	Text  string
	Calls []ToolCall
}

// ToolResultTurn carries the result of one executed tool call.
type ToolResultTurn struct {
	CallID   string
	Name     string
	Response map[string]any
}

// CorrectionTurn instructs the model to rewrite its previous answer.
type CorrectionTurn struct {
	Reason string
}

func (UserTurn) isTurn()        {}
func (AssistantTurn) isTurn()   {}
func (ToolRequestTurn) isTurn() {}
func (ToolResultTurn) isTurn()  {}
func (CorrectionTurn) isTurn()  {}

// SafetyVerdict is the classifier decision on a drafted answer.
type SafetyVerdict string

const (
	VerdictSafe   SafetyVerdict = "SAFE"
	VerdictDanger SafetyVerdict = "DANGER"
)

// SafetyAssessment is the structured output of the safety classifier.
type SafetyAssessment struct {
	Verdict SafetyVerdict `json:"verdict"`
	Reason  string        `json:"reason"`
}

// ChatResult is the outcome of one orchestration run.
type ChatResult struct {
	Reply       string
	ToolRounds  int
	Corrections int
	Disclaimed  bool
}
