package types

import "time"

// Metadata is what the probe recovers from one video file. Either field may
// be missing: a zero Created means the container carried no creation time,
// a zero Duration means none was reported.
type Metadata struct {
	Duration float64 // seconds
	Created  time.Time
}

// GenerateRequest is one completion call against a model endpoint. Images
// are base64-encoded frame contents and may be empty for text-only prompts.
type GenerateRequest struct {
	Prompt      string
	Images      []string
	Temperature float64
}
