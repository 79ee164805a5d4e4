package conversation

import "context"

// Transcript roles the LLM sees. System text travels separately in
// LLMRequest.System, so messages only ever carry these two.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one turn of the transcript as sent to the LLM.
type ChatMessage struct {
	Role    string
	Content string
}

// TokenUsage is the token cost of one completion, as reported by the
// provider. Zero when the provider omits usage metadata.
type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMRequest carries one completion request. System holds the prompt
// blocks the orchestrator assembled; Messages is the visitor/assistant
// transcript ending with the turn to answer.
type LLMRequest struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
}

// LLMResponse is the completion result.
type LLMResponse struct {
	Text  string
	Usage TokenUsage
}

// LLMClient generates assistant replies. The orchestrator treats a nil
// client as "no LLM configured" and serves a canned reply instead.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}
