package dto

type GenerateScriptRequest struct {
	InputText string `json:"input_text" binding:"required"`
}

type GenerateScriptResponse struct {
	Success    bool   `json:"success"`
	ScriptPath string `json:"script_path"`
	MovieDir   string `json:"movie_dir"`
	Title      string `json:"title"`
}
