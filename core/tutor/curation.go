package tutor

import (
	"encoding/json"
	"regexp"
	"strings"
)

// outermostObject spans from the first `{` to the last `}`.
var outermostObject = regexp.MustCompile(`\{[\s\S]*\}`)

// ParseCuration extracts the curation JSON from an LLM reply.
// Anything unparsable yields the raw reply as curated text and no edits.
func ParseCuration(raw string) Curation {
	raw = strings.TrimSpace(raw)
	jsonStr := raw
	if m := outermostObject.FindString(raw); m != "" {
		jsonStr = m
	}

	fallback := Curation{CuratedText: raw, Edits: []Edit{}}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return fallback
	}

	res := fallback
	if text, ok := parsed["curatedText"].(string); ok {
		res.CuratedText = text
	}
	edits, ok := parsed["edits"].([]interface{})
	if !ok {
		return res
	}
	for _, e := range edits {
		obj, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		typ, _ := obj["type"].(string)
		if typ != EditDeleted && typ != EditEdited {
			continue
		}
		edit := Edit{Type: typ, From: stringField(obj, "from"), To: stringField(obj, "to")}
		if edit.From == nil && edit.To == nil {
			continue
		}
		res.Edits = append(res.Edits, edit)
	}
	return res
}

func stringField(obj map[string]interface{}, key string) *string {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		s = string(b)
	}
	return &s
}
