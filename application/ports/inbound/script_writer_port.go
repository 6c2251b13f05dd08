package inbound

import "context"

type WrittenScript struct {
	ScriptPath string `json:"script_path"`
	MovieDir   string `json:"movie_dir"`
	Title      string `json:"title"`
}

type ScriptWriterPort interface {
	Write(ctx context.Context, inputText string) (*WrittenScript, error)
}
