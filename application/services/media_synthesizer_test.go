package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/domain"
)

func TestMediaSynthesizer_Synthesize_Generated(t *testing.T) {
	workDir := t.TempDir()
	generator := &fakeVideoGenerator{}
	downloader := &fakeDownloader{}
	synthesizer := NewMediaSynthesizer(testLogger(), generator, nil, downloader, testReplicateConfig())

	scene := domain.NewScene(2, "The sun rises.").WithPrompt("golden dawn")
	res := synthesizer.Synthesize(context.Background(), inbound.SynthesizeParams{
		Scene:   scene,
		Style:   testStyles()[0],
		WorkDir: workDir,
	})
	if res.Failed() {
		t.Fatalf("expected synthesis to succeed: %v", res.Failure)
	}
	if res.Value.ClipRef != filepath.Join(workDir, "clip_3.mp4") {
		t.Fatalf("unexpected clip path %q", res.Value.ClipRef)
	}
	if generator.prompts[0] != "golden dawn" {
		t.Fatalf("expected the prompt to be submitted, got %q", generator.prompts[0])
	}
	if generator.polls < 2 {
		t.Fatalf("expected the task to be polled until done, polled %d times", generator.polls)
	}
	if downloader.urls[0] != "https://videos.example/task-1.mp4" {
		t.Fatalf("unexpected download %q", downloader.urls[0])
	}
}

func TestMediaSynthesizer_Synthesize_GeneratedFailure(t *testing.T) {
	generator := &fakeVideoGenerator{failFor: map[string]bool{"broken": true}}
	synthesizer := NewMediaSynthesizer(testLogger(), generator, nil, &fakeDownloader{}, testReplicateConfig())

	res := synthesizer.Synthesize(context.Background(), inbound.SynthesizeParams{
		Scene:   domain.NewScene(4, "text").WithPrompt("broken"),
		Style:   testStyles()[0],
		WorkDir: t.TempDir(),
	})
	if !res.Failed() {
		t.Fatal("expected synthesis to fail")
	}
	if res.Failure.Stage != domain.StageSynthesizing || res.Failure.Scene != 4 {
		t.Fatalf("unexpected failure %+v", res.Failure)
	}
}

func TestMediaSynthesizer_Synthesize_Stock(t *testing.T) {
	workDir := t.TempDir()
	stock := &fakeStockSearch{}
	downloader := &fakeDownloader{}
	synthesizer := NewMediaSynthesizer(testLogger(), nil, stock, downloader, testReplicateConfig())

	res := synthesizer.Synthesize(context.Background(), inbound.SynthesizeParams{
		Scene:   domain.NewScene(0, "Birds sing."),
		Style:   testStyles()[1],
		WorkDir: workDir,
	})
	if res.Failed() {
		t.Fatalf("expected synthesis to succeed: %v", res.Failure)
	}
	if stock.queries[0] != "Birds sing." {
		t.Fatalf("expected the text to be used as query, got %q", stock.queries[0])
	}
	if downloader.urls[0] != "https://stock.example/hd.mp4" {
		t.Fatalf("expected the 1280 wide clip, got %q", downloader.urls[0])
	}
}

func TestMediaSynthesizer_Synthesize_StockNoResults(t *testing.T) {
	stock := &fakeStockSearch{empty: map[string]bool{"nothing": true}}
	synthesizer := NewMediaSynthesizer(testLogger(), nil, stock, &fakeDownloader{}, testReplicateConfig())

	res := synthesizer.Synthesize(context.Background(), inbound.SynthesizeParams{
		Scene:   domain.NewScene(1, "text").WithPrompt("nothing"),
		Style:   testStyles()[1],
		WorkDir: t.TempDir(),
	})
	if !res.Failed() || !errors.Is(res.Failure, domain.ErrNoClip) {
		t.Fatalf("expected a no clip failure, got %+v", res.Failure)
	}
}

func TestPickStockClip(t *testing.T) {
	clips := []outbound.StockClip{
		{URL: "webm", Width: 1280, Quality: "hd", FileType: "video/webm"},
		{URL: "uhd", Width: 3840, Quality: "uhd", FileType: "video/mp4"},
		{URL: "sd", Width: 1366, Quality: "sd", FileType: "video/mp4"},
		{URL: "hd", Width: 1194, Quality: "hd", FileType: "video/mp4"},
	}

	best, ok := pickStockClip(clips)
	if !ok {
		t.Fatal("expected a clip")
	}
	if best.URL != "hd" {
		t.Fatalf("expected the equally close higher quality clip, got %q", best.URL)
	}

	if _, ok := pickStockClip(clips[:1]); ok {
		t.Fatal("expected no mp4 clip to be found")
	}
}
