package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/Cyr-Ch/filmmaker/infrastructure/adapters"
	"github.com/Cyr-Ch/filmmaker/infrastructure/gin_interface/dto"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() outbound.LoggerPort {
	return adapters.NewZerologWrapperWithWriter(io.Discard, zerolog.Disabled)
}

type fakePipeline struct {
	err      error
	kind     domain.ResultKind
	requests []inbound.PipelineRequest
}

func (f *fakePipeline) Run(ctx context.Context, req inbound.PipelineRequest) (*domain.PipelineResult, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.PipelineResult{
		Success:    true,
		OutputPath: req.OutputPath,
		Kind:       f.kind,
		RunID:      "run-1",
	}, nil
}

type fakePublisher struct {
	url string
}

func (f *fakePublisher) Publish(ctx context.Context, result domain.PipelineResult) string {
	return f.url
}

type fakeScriptWriter struct {
	err error
}

func (f *fakeScriptWriter) Write(ctx context.Context, inputText string) (*inbound.WrittenScript, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &inbound.WrittenScript{
		ScriptPath: "/files/my-title-1234abcd/script.txt",
		MovieDir:   "/files/my-title-1234abcd",
		Title:      "My Title",
	}, nil
}

type fakeStyles struct{}

func (fakeStyles) Resolve(name string) domain.Result[domain.StyleDescriptor] {
	return domain.Ok(domain.StyleDescriptor{Name: name})
}

func (fakeStyles) Names() []string {
	return []string{"Infinite Zoom", "Internet Videos"}
}

type fakeJobs struct {
	mu        sync.Mutex
	submitted []inbound.SubmitJobParams
	submitErr error
	sequence  []domain.JobStatus
	reads     int
}

func (f *fakeJobs) Submit(ctx context.Context, params inbound.SubmitJobParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted = append(f.submitted, params)
	return "job-1", nil
}

// Status walks through sequence, repeating the last entry once exhausted.
func (f *fakeJobs) Status(ctx context.Context, jobID string) (*domain.JobStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if jobID != "job-1" || len(f.sequence) == 0 {
		return nil, domain.ErrJobNotFound
	}
	i := f.reads
	if i >= len(f.sequence) {
		i = len(f.sequence) - 1
	}
	f.reads++
	status := f.sequence[i]
	return &status, nil
}

func (f *fakeJobs) StartWorkers(ctx context.Context, workers int) error {
	return nil
}

func serve(t *testing.T, register func(g *gin.RouterGroup), method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	register(r.Group("/api"))

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not an error body: %s", w.Body.String())
	}
	if resp.Success {
		t.Fatal("expected success to be false")
	}
	return resp
}

func newTestVideoController(pipeline *fakePipeline, filesDir string) VideoController {
	controller := NewVideoController(testLogger(), pipeline, &fakePublisher{url: "https://cdn.example/run-1.mp4"},
		&config.PipelineConfig{FilesDir: filesDir})
	controller.(*videoController).newVideoID = func() string { return "video-1" }
	return controller
}

func TestGenerateVideoWithScriptText(t *testing.T) {
	pipeline := &fakePipeline{kind: domain.RenderedResultKind}
	filesDir := t.TempDir()
	controller := newTestVideoController(pipeline, filesDir)

	w := serve(t, controller.RegisterRoutes, http.MethodPost, "/api/generate-video",
		`{"script_text":"Once upon a time.","video_style":"Internet Videos"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.GenerateVideoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	wantPath := filepath.Join(filesDir, "videos", "video-1.mp4")
	if !resp.Success || resp.VideoPath != wantPath || resp.Kind != "rendered" || resp.Degraded || resp.VideoURL != "https://cdn.example/run-1.mp4" {
		t.Fatalf("unexpected response %+v", resp)
	}

	if len(pipeline.requests) != 1 {
		t.Fatalf("expected one pipeline run, got %d", len(pipeline.requests))
	}
	got := pipeline.requests[0]
	if got.Script != "Once upon a time." || got.Style != "Internet Videos" || got.OutputPath != wantPath {
		t.Fatalf("unexpected pipeline request %+v", got)
	}
}

func TestGenerateVideoWithScriptPath(t *testing.T) {
	pipeline := &fakePipeline{kind: domain.FallbackResultKind}
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "script.txt")
	if err := os.WriteFile(scriptPath, []byte("A script from disk."), 0o644); err != nil {
		t.Fatal(err)
	}
	controller := newTestVideoController(pipeline, dir)

	body, _ := json.Marshal(dto.GenerateVideoRequest{ScriptPath: scriptPath})
	w := serve(t, controller.RegisterRoutes, http.MethodPost, "/api/generate-video", string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if pipeline.requests[0].Script != "A script from disk." {
		t.Fatalf("unexpected script %q", pipeline.requests[0].Script)
	}
	if !strings.Contains(w.Body.String(), `"kind":"fallback","degraded":true`) {
		t.Fatalf("expected a degraded fallback in %s", w.Body.String())
	}
}

func TestGenerateVideoScriptSourceErrors(t *testing.T) {
	filesDir := t.TempDir()
	missing := filepath.Join(filesDir, "missing.txt")
	outside := filepath.Join(t.TempDir(), "script.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{
			name:    "no source",
			body:    `{"video_style":"Infinite Zoom"}`,
			status:  http.StatusBadRequest,
			message: "Either script_text or script_path is required",
		},
		{
			name:    "both sources",
			body:    `{"script_text":"text","script_path":"/tmp/script.txt"}`,
			status:  http.StatusBadRequest,
			message: "Either script_text or script_path is required",
		},
		{
			name:    "missing file",
			body:    `{"script_path":"` + missing + `"}`,
			status:  http.StatusNotFound,
			message: "Script file not found at: " + missing,
		},
		{
			name:    "outside files dir",
			body:    `{"script_path":"` + outside + `"}`,
			status:  http.StatusBadRequest,
			message: "script_path must point inside the files directory",
		},
		{
			name:    "relative escape",
			body:    `{"script_path":"` + filepath.Join(filesDir, "..", filepath.Base(filepath.Dir(outside)), "script.txt") + `"}`,
			status:  http.StatusBadRequest,
			message: "script_path must point inside the files directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &fakePipeline{}
			controller := newTestVideoController(pipeline, filesDir)

			w := serve(t, controller.RegisterRoutes, http.MethodPost, "/api/generate-video", tt.body)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if resp := decodeError(t, w); resp.Error != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, resp.Error)
			}
			if len(pipeline.requests) != 0 {
				t.Fatal("pipeline should not run on an invalid request")
			}
		})
	}
}

func TestGenerateVideoFallbackFailure(t *testing.T) {
	pipeline := &fakePipeline{err: domain.ErrFallbackFailed}
	controller := newTestVideoController(pipeline, t.TempDir())

	w := serve(t, controller.RegisterRoutes, http.MethodPost, "/api/generate-video", `{"script_text":"text"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	decodeError(t, w)
}

func TestGenerateScript(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "written", body: `{"input_text":"a lighthouse keeper"}`, status: http.StatusOK},
		{name: "missing field", body: `{}`, status: http.StatusBadRequest},
		{name: "blank input", body: `{"input_text":"   "}`, err: domain.ErrEmptyInput, status: http.StatusBadRequest},
		{name: "writer failure", body: `{"input_text":"x"}`, err: errors.New("stream broke"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := NewScriptController(testLogger(), &fakeScriptWriter{err: tt.err})

			w := serve(t, controller.RegisterRoutes, http.MethodPost, "/api/generate-script", tt.body)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if tt.status != http.StatusOK {
				decodeError(t, w)
				return
			}

			var resp dto.GenerateScriptResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if !resp.Success || resp.Title != "My Title" || resp.ScriptPath != "/files/my-title-1234abcd/script.txt" {
				t.Fatalf("unexpected response %+v", resp)
			}
		})
	}
}

func TestAvailableStyles(t *testing.T) {
	controller := NewStylesController(fakeStyles{})

	w := serve(t, controller.RegisterRoutes, http.MethodGet, "/api/available-styles", "")
	want := `{"success":true,"styles":["Infinite Zoom","Internet Videos"]}`
	if w.Code != http.StatusOK || w.Body.String() != want {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func TestJobsUnavailableWithoutQueue(t *testing.T) {
	controller := NewJobsController(testLogger(), nil, &config.PipelineConfig{FilesDir: t.TempDir()})

	for _, path := range []string{"/api/jobs/job-1", "/api/jobs/job-1/events"} {
		w := serve(t, controller.RegisterRoutes, http.MethodGet, path, "")
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", path, w.Code)
		}
	}
	w := serve(t, controller.RegisterRoutes, http.MethodPost, "/api/jobs", `{"script_text":"text"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestSubmitJob(t *testing.T) {
	jobs := &fakeJobs{}
	controller := NewJobsController(testLogger(), jobs, &config.PipelineConfig{FilesDir: t.TempDir()})

	w := serve(t, controller.RegisterRoutes, http.MethodPost, "/api/jobs", `{"script_text":"text","video_style":"Infinite Zoom"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"success":true,"job_id":"job-1"}` {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if len(jobs.submitted) != 1 || jobs.submitted[0].Style != "Infinite Zoom" || jobs.submitted[0].ScriptText != "text" {
		t.Fatalf("unexpected submissions %+v", jobs.submitted)
	}

	w = serve(t, controller.RegisterRoutes, http.MethodPost, "/api/jobs", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a script, got %d", w.Code)
	}
}

func TestJobStatus(t *testing.T) {
	jobs := &fakeJobs{sequence: []domain.JobStatus{
		{JobID: "job-1", State: domain.RunningJobState, Stage: domain.StageSynthesizing},
	}}
	controller := NewJobsController(testLogger(), jobs, &config.PipelineConfig{FilesDir: t.TempDir()})

	w := serve(t, controller.RegisterRoutes, http.MethodGet, "/api/jobs/job-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var status domain.JobStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if status.State != domain.RunningJobState || status.Stage != domain.StageSynthesizing {
		t.Fatalf("unexpected status %+v", status)
	}

	w = serve(t, controller.RegisterRoutes, http.MethodGet, "/api/jobs/other", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestJobEventsStreamsUntilTerminal(t *testing.T) {
	jobs := &fakeJobs{sequence: []domain.JobStatus{
		{JobID: "job-1", State: domain.QueuedJobState},
		{JobID: "job-1", State: domain.RunningJobState, Stage: domain.StageSegmenting},
		{JobID: "job-1", State: domain.RunningJobState, Stage: domain.StageSegmenting},
		{JobID: "job-1", State: domain.RunningJobState, Stage: domain.StageAssembling},
		{JobID: "job-1", State: domain.DoneJobState, Stage: domain.StageDone, VideoPath: "/files/videos/job-1.mp4"},
	}}
	controller := NewJobsController(testLogger(), jobs, &config.PipelineConfig{FilesDir: t.TempDir()})
	controller.(*jobsController).pollInterval = time.Millisecond

	w := serve(t, controller.RegisterRoutes, http.MethodGet, "/api/jobs/job-1/events", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	body := w.Body.String()
	if got := strings.Count(body, "event:stage"); got != 4 {
		t.Fatalf("expected 4 stage events, got %d:\n%s", got, body)
	}
	if !strings.Contains(body, `"state":"done"`) {
		t.Fatalf("expected the final done status in:\n%s", body)
	}
}
