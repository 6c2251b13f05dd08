package outbound

import "context"

type StreamScriptRequest struct {
	Input string
	Words int
}

type ScriptStreamerPort interface {
	Stream(ctx context.Context, req StreamScriptRequest) (<-chan string, <-chan error)
}
