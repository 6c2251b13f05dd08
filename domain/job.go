package domain

import "time"

type JobState string

const (
	QueuedJobState  JobState = "queued"
	RunningJobState JobState = "running"
	DoneJobState    JobState = "done"
	FailedJobState  JobState = "failed"
)

type RenderJob struct {
	ID         string    `json:"id"`
	ScriptText string    `json:"script_text"`
	Style      string    `json:"style"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type JobStatus struct {
	JobID     string   `json:"job_id"`
	State     JobState `json:"state"`
	Stage     Stage    `json:"stage,omitempty"`
	VideoPath string   `json:"video_path,omitempty"`
	VideoURL  string   `json:"video_url,omitempty"`
	Kind      string   `json:"kind,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func (s JobStatus) Terminal() bool {
	return s.State == DoneJobState || s.State == FailedJobState
}

// RenderRecord is the persisted summary of one finished pipeline run.
type RenderRecord struct {
	RunID         string
	Style         string
	Kind          ResultKind
	OutputPath    string
	VideoURL      string
	SegmentCount  int
	SkippedScenes []int
	CreatedAt     time.Time
}

func NewRenderRecord(result PipelineResult, videoURL string) RenderRecord {
	return RenderRecord{
		RunID:         result.RunID,
		Style:         result.Style,
		Kind:          result.Kind,
		OutputPath:    result.OutputPath,
		VideoURL:      videoURL,
		SegmentCount:  result.SegmentCount,
		SkippedScenes: result.SkippedScenes,
		CreatedAt:     time.Now().UTC(),
	}
}
