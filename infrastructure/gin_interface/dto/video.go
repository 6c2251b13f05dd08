package dto

// GenerateVideoRequest takes the script either inline or as a path to a file
// written by generate-script. Exactly one of the two must be set.
type GenerateVideoRequest struct {
	ScriptText string `json:"script_text"`
	ScriptPath string `json:"script_path"`
	VideoStyle string `json:"video_style"`
}

// GenerateVideoResponse reports Degraded when the video is a single segment
// or the slideshow instead of the full assembly.
type GenerateVideoResponse struct {
	Success   bool   `json:"success"`
	VideoPath string `json:"video_path"`
	Kind      string `json:"kind"`
	Degraded  bool   `json:"degraded"`
	VideoURL  string `json:"video_url,omitempty"`
}

type AvailableStylesResponse struct {
	Success bool     `json:"success"`
	Styles  []string `json:"styles"`
}
