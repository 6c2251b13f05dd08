package adapters

import (
	"fmt"
	"os"
	"strings"

	"github.com/Cyr-Ch/filmmaker/domain"
)

const (
	captionMaxWords    = 4
	captionMaxDuration = 1.5
)

type captionCue struct {
	Start float64
	End   float64
	Text  string
}

// groupCaptions packs consecutive words into cues of at most captionMaxWords
// words spanning at most captionMaxDuration seconds.
func groupCaptions(words []domain.TranscriptionWord) []captionCue {
	var (
		cues    []captionCue
		current []domain.TranscriptionWord
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		texts := make([]string, 0, len(current))
		for _, w := range current {
			texts = append(texts, w.Word)
		}
		cues = append(cues, captionCue{
			Start: current[0].StartTime,
			End:   current[len(current)-1].EndTime,
			Text:  strings.Join(texts, " "),
		})
		current = current[:0]
	}

	for _, word := range words {
		if strings.TrimSpace(word.Word) == "" {
			continue
		}
		if len(current) > 0 && (len(current) >= captionMaxWords || word.EndTime-current[0].StartTime > captionMaxDuration) {
			flush()
		}
		current = append(current, word)
	}
	flush()

	return cues
}

func formatSRTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds*1000 + 0.5)
	ms := total % 1000
	s := (total / 1000) % 60
	m := (total / 60000) % 60
	h := total / 3600000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func renderSRT(cues []captionCue) string {
	var b strings.Builder
	for i, cue := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, formatSRTTime(cue.Start), formatSRTTime(cue.End), cue.Text)
	}
	return b.String()
}

func writeSRT(path string, words []domain.TranscriptionWord) (bool, error) {
	cues := groupCaptions(words)
	if len(cues) == 0 {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(renderSRT(cues)), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// escapeFilterPath quotes a path for use inside an ffmpeg filter argument.
func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, `\`, `/`)
	path = strings.ReplaceAll(path, `:`, `\:`)
	path = strings.ReplaceAll(path, `'`, `\'`)
	return path
}
