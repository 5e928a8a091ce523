// Package resume holds the structured summary produced for a video and the
// parsing helpers for model output.
package resume

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Resume is the final structured output for one video.
type Resume struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// Parse decodes a strict JSON resume. No recovery is attempted: the text
// model is prompted to answer with JSON only, so anything else is an error.
func Parse(s string) (Resume, error) {
	var r Resume
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return Resume{}, fmt.Errorf("parse resume: %w", err)
	}
	return r, nil
}

// ExtractJSON returns the first outermost balanced-brace substring of s.
// Vision models wrap their JSON answer in prose often enough that the
// single-step topology cannot parse responses directly. Braces inside JSON
// string values are not accounted for.
func ExtractJSON(s string) (string, error) {
	start := -1
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	if start >= 0 {
		return "", errors.New("extract json: unbalanced object")
	}
	return "", errors.New("extract json: no object found")
}
