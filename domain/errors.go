package domain

import "errors"

var (
	ErrUnknownStyle         = errors.New("unknown style")
	ErrNoSegments           = errors.New("no segments were produced")
	ErrNoClip               = errors.New("no clip available for scene")
	ErrServiceNotConfigured = errors.New("service not configured")
	ErrScriptNotFound       = errors.New("script file not found")
	ErrInvalidScriptRequest = errors.New("either script_text or script_path is required")
	ErrScriptOutsideFiles   = errors.New("script_path must point inside the files directory")
	ErrFallbackFailed       = errors.New("fallback video could not be created")
	ErrJobNotFound          = errors.New("job not found")
)

var (
	ErrEmptyInput        = errors.New("input text is empty")
	ErrMissingOutputPath = errors.New("output path is required")
)
