// Package mock holds the fixed responses used in place of the text
// completion service when it is unavailable or returns unusable data.
package mock

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/Cyr-Ch/filmmaker/domain"
)

//go:embed sections.json
var sectionsResponse []byte

//go:embed prompts.json
var promptsResponse []byte

type mockSection struct {
	Text   string `json:"text"`
	Prompt string `json:"prompt"`
}

// Sections returns the placeholder scenes, text only.
func Sections() []domain.Scene {
	return mustDecode(sectionsResponse)
}

// Prompts returns the placeholder scenes with prompts attached.
func Prompts() []domain.Scene {
	return mustDecode(promptsResponse)
}

// PromptFor returns the placeholder prompt for a scene position, cycling when
// there are more scenes than placeholders.
func PromptFor(index int) string {
	prompts := Prompts()
	if index < 0 {
		index = -index
	}
	return prompts[index%len(prompts)].Prompt
}

func mustDecode(raw []byte) []domain.Scene {
	var sections []mockSection
	if err := json.Unmarshal(raw, &sections); err != nil {
		panic(fmt.Sprintf("mock: embedded response is not valid JSON: %v", err))
	}

	scenes := make([]domain.Scene, 0, len(sections))
	for i, s := range sections {
		scenes = append(scenes, domain.NewScene(i, s.Text).WithPrompt(s.Prompt))
	}
	return scenes
}
