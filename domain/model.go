package domain

type SyntheticKind string

const (
	GeneratedSyntheticKind SyntheticKind = "generated"
	StockSyntheticKind     SyntheticKind = "stock"
)

// Scene is one narrative unit of the script. Index is assigned once by the
// segmenter and is the only ordering key used downstream.
type Scene struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	Prompt  string `json:"prompt,omitempty"`
	ClipRef string `json:"clip_ref,omitempty"`
}

func NewScene(index int, text string) Scene {
	return Scene{
		Index: index,
		Text:  text,
	}
}

// Ordinal is the 1-based number used in artifact file names.
func (s Scene) Ordinal() int {
	return s.Index + 1
}

func (s Scene) WithPrompt(prompt string) Scene {
	s.Prompt = prompt
	return s
}

func (s Scene) WithClip(clipRef string) Scene {
	s.ClipRef = clipRef
	return s
}

type StyleDescriptor struct {
	Name           string        `yaml:"name" json:"name"`
	Model          string        `yaml:"model" json:"model"`
	PromptTemplate string        `yaml:"prompt" json:"prompt"`
	Kind           SyntheticKind `yaml:"kind" json:"kind"`
}

type TranscriptionWord struct {
	Word      string  `json:"word"`
	StartTime float64 `json:"start"`
	EndTime   float64 `json:"end"`
}

type Narration struct {
	AudioPath string
	Words     []TranscriptionWord
}

type SegmentArtifact struct {
	SceneIndex int
	VideoPath  string
}

type SegmentArtifactsAscByIndex []SegmentArtifact

func (a SegmentArtifactsAscByIndex) Len() int {
	return len(a)
}

func (a SegmentArtifactsAscByIndex) Less(i, j int) bool {
	return a[i].SceneIndex < a[j].SceneIndex
}

func (a SegmentArtifactsAscByIndex) Swap(i, j int) {
	a[i], a[j] = a[j], a[i]
}
