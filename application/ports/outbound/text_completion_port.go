package outbound

import "context"

type CompletionRequest struct {
	Prompt    string
	MaxTokens int64
	// ReplyName and ReplyShape ask for a structured reply. ReplyShape is a
	// zero value of the struct the reply must decode into; when nil the
	// reply is free text.
	ReplyName  string
	ReplyShape interface{}
}

type TextCompletionPort interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
