package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Cyr-Ch/filmmaker/domain"
	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var defaultStyles []byte

type stylesFile struct {
	Styles []domain.StyleDescriptor `yaml:"styles"`
}

// LoadStyles reads the style registry from path, or from the built-in
// registry when path is empty.
func LoadStyles(path string) ([]domain.StyleDescriptor, error) {
	data := defaultStyles
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read styles file: %w", err)
		}
		data = raw
	}
	return ParseStyles(data)
}

func ParseStyles(data []byte) ([]domain.StyleDescriptor, error) {
	var file stylesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse styles: %w", err)
	}
	if len(file.Styles) == 0 {
		return nil, fmt.Errorf("styles registry is empty")
	}

	seen := make(map[string]struct{}, len(file.Styles))
	for i, style := range file.Styles {
		if style.Name == "" {
			return nil, fmt.Errorf("style %d has no name", i)
		}
		if _, ok := seen[style.Name]; ok {
			return nil, fmt.Errorf("duplicate style %q", style.Name)
		}
		seen[style.Name] = struct{}{}

		switch style.Kind {
		case domain.GeneratedSyntheticKind:
			if style.Model == "" {
				return nil, fmt.Errorf("generated style %q has no model", style.Name)
			}
		case domain.StockSyntheticKind:
		default:
			return nil, fmt.Errorf("style %q has unknown kind %q", style.Name, style.Kind)
		}
		if style.PromptTemplate == "" {
			return nil, fmt.Errorf("style %q has no prompt template", style.Name)
		}
	}
	return file.Styles, nil
}
