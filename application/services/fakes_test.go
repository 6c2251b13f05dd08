package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/Cyr-Ch/filmmaker/infrastructure/adapters"
	"github.com/rs/zerolog"
)

var errRemote = errors.New("remote service unavailable")

func testLogger() outbound.LoggerPort {
	return adapters.NewZerologWrapperWithWriter(io.Discard, zerolog.Disabled)
}

func testPipelineConfig(workDir string) *config.PipelineConfig {
	return &config.PipelineConfig{
		WorkDir:         workDir,
		FilesDir:        filepath.Join(workDir, "files"),
		DefaultStyle:    "Infinite Zoom",
		CaptionsEnabled: true,
		SceneWorkers:    3,
		JobWorkers:      1,
		ScriptWords:     100,
	}
}

func testReplicateConfig() *config.ReplicateConfig {
	return &config.ReplicateConfig{
		PollInterval: time.Millisecond,
		Timeout:      time.Second,
	}
}

func testStyles() []domain.StyleDescriptor {
	return []domain.StyleDescriptor{
		{Name: "Infinite Zoom", Model: "zoom/model", PromptTemplate: "Describe an endless zoom.", Kind: domain.GeneratedSyntheticKind},
		{Name: "Internet Videos", PromptTemplate: "Describe stock footage.", Kind: domain.StockSyntheticKind},
	}
}

type fakeCompletion struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   []outbound.CompletionRequest
}

func (f *fakeCompletion) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := len(f.calls)
	f.calls = append(f.calls, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", errRemote
}

type fakeVideoGenerator struct {
	mu       sync.Mutex
	polls    int
	failFor  map[string]bool
	prompts  []string
	statuses map[string]int
}

func (f *fakeVideoGenerator) CreateTask(ctx context.Context, model string, prompt string) (*outbound.VideoTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prompts = append(f.prompts, prompt)
	if f.failFor[prompt] {
		return nil, errRemote
	}
	if f.statuses == nil {
		f.statuses = map[string]int{}
	}
	id := fmt.Sprintf("task-%d", len(f.prompts))
	f.statuses[id] = 0
	return &outbound.VideoTask{ID: id, Status: outbound.StartingVideoTaskStatus}, nil
}

func (f *fakeVideoGenerator) GetTask(ctx context.Context, taskID string) (*outbound.VideoTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.polls++
	f.statuses[taskID]++
	if f.statuses[taskID] < 2 {
		return &outbound.VideoTask{ID: taskID, Status: outbound.ProcessingVideoTaskStatus}, nil
	}
	return &outbound.VideoTask{
		ID:        taskID,
		Status:    outbound.SucceededVideoTaskStatus,
		OutputURL: "https://videos.example/" + taskID + ".mp4",
	}, nil
}

func (f *fakeVideoGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeStockSearch struct {
	mu      sync.Mutex
	queries []string
	empty   map[string]bool
}

func (f *fakeStockSearch) Search(ctx context.Context, query string) ([]outbound.StockClip, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	if f.empty[query] {
		return nil, nil
	}
	return []outbound.StockClip{
		{URL: "https://stock.example/sd.mp4", Width: 640, Quality: "sd", FileType: "video/mp4"},
		{URL: "https://stock.example/hd.mp4", Width: 1280, Quality: "hd", FileType: "video/mp4"},
	}, nil
}

type fakeDownloader struct {
	mu   sync.Mutex
	urls []string
}

func (f *fakeDownloader) Download(ctx context.Context, url string, destPath string) error {
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.mu.Unlock()
	return os.WriteFile(destPath, []byte("clip:"+url), 0o644)
}

type fakeSpeech struct {
	failFor map[string]bool
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text string) (*outbound.SpeechResult, error) {
	if f.failFor[text] {
		return nil, errRemote
	}
	return &outbound.SpeechResult{
		Audio: []byte("audio:" + text),
		Words: []domain.TranscriptionWord{{Word: text, StartTime: 0, EndTime: 1}},
	}, nil
}

type fakeMuxer struct {
	mu       sync.Mutex
	requests []outbound.MuxRequest
}

func (f *fakeMuxer) Mux(ctx context.Context, req outbound.MuxRequest) error {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return os.WriteFile(req.OutputPath, []byte("segment:"+req.ClipPath), 0o644)
}

type fakeConcatenator struct {
	err      error
	segments []domain.SegmentArtifact
}

func (f *fakeConcatenator) Concatenate(ctx context.Context, segments []domain.SegmentArtifact, outputPath string) error {
	f.segments = append([]domain.SegmentArtifact(nil), segments...)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outputPath, []byte("assembled"), 0o644)
}

type fakeFallback struct {
	err     error
	calls   int
	scripts []string
}

func (f *fakeFallback) Create(ctx context.Context, script string, outputPath string) error {
	f.calls++
	f.scripts = append(f.scripts, script)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outputPath, []byte("slideshow:"+script), 0o644)
}

type fakeDispatcher struct {
	wg sync.WaitGroup
}

func (d *fakeDispatcher) Submit(task func()) error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		task()
	}()
	return nil
}

type fakeJobQueue struct {
	jobs chan domain.RenderJob
}

func newFakeJobQueue() *fakeJobQueue {
	return &fakeJobQueue{jobs: make(chan domain.RenderJob, 10)}
}

func (q *fakeJobQueue) Enqueue(ctx context.Context, job domain.RenderJob) error {
	q.jobs <- job
	return nil
}

func (q *fakeJobQueue) Dequeue(ctx context.Context, timeout time.Duration) (*domain.RenderJob, error) {
	select {
	case job := <-q.jobs:
		return &job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(10 * time.Millisecond):
		return nil, nil
	}
}

type fakeJobStatuses struct {
	mu       sync.Mutex
	statuses map[string]domain.JobStatus
	history  []domain.JobStatus
}

func newFakeJobStatuses() *fakeJobStatuses {
	return &fakeJobStatuses{statuses: map[string]domain.JobStatus{}}
}

func (s *fakeJobStatuses) SetStatus(ctx context.Context, status domain.JobStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[status.JobID] = status
	s.history = append(s.history, status)
	return nil
}

func (s *fakeJobStatuses) GetStatus(ctx context.Context, jobID string) (*domain.JobStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.statuses[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &status, nil
}

func sceneIndexes(artifacts []domain.SegmentArtifact) []int {
	indexes := make([]int, 0, len(artifacts))
	for _, a := range artifacts {
		indexes = append(indexes, a.SceneIndex)
	}
	return indexes
}

func sortedStrings(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
