package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

type sceneItem struct {
	Text   string `json:"text"`
	Prompt string `json:"prompt"`
}

// decodeSceneItems accepts a bare JSON array of items or an object wrapping
// one under a common key, optionally inside a markdown code fence.
func decodeSceneItems(raw string) ([]sceneItem, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty reply")
	}

	var items []sceneItem
	if err := json.Unmarshal([]byte(cleaned), &items); err == nil {
		return items, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &wrapped); err != nil {
		return nil, fmt.Errorf("reply is not JSON: %w", err)
	}
	for _, key := range []string{"sections", "scenes", "items", "data"} {
		inner, ok := wrapped[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(inner, &items); err != nil {
			return nil, fmt.Errorf("reply field %q is not a list of scenes: %w", key, err)
		}
		return items, nil
	}
	return nil, fmt.Errorf("reply has no list of scenes")
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if newline := strings.Index(s, "\n"); newline >= 0 {
		s = s[newline+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func decodeJSONReply(raw string, v interface{}) error {
	return json.Unmarshal([]byte(stripCodeFence(raw)), v)
}
