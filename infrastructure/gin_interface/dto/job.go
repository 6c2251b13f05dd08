package dto

type SubmitJobResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message}
}
