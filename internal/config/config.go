// Package config holds the persisted program settings and their flat JSON
// store.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Settings is everything the pipeline needs to reach its model servers.
// JSON field names are the historical settings-file keys and must not
// change. Work and temp folders are derived at runtime, never serialized.
type Settings struct {
	ComputerVisionModel      string `json:"computer_vision_model"`
	TextModel                string `json:"text_model"`
	ComputerVisionServer     string `json:"computer_vision_server"`
	TextServer               string `json:"text_server"`
	ComputerVisionServerPort int    `json:"computer_vision_server_port"`
	TextServerPort           int    `json:"text_server_port"`
	TwoSteps                 bool   `json:"two_steps"`
}

func Default() Settings {
	return Settings{
		ComputerVisionModel:      "gemma3:latest",
		TextModel:                "gemma3:1b",
		ComputerVisionServer:     "http://localhost",
		TextServer:               "http://localhost",
		ComputerVisionServerPort: 11434,
		TextServerPort:           11434,
		TwoSteps:                 false,
	}
}

// Overrides carries per-run mutations from flags and environment. Zero
// values mean "keep the stored setting", except TwoSteps which mirrors the
// flag value every run.
type Overrides struct {
	ComputerVisionModel      string
	TextModel                string
	ComputerVisionServer     string
	TextServer               string
	ComputerVisionServerPort int
	TextServerPort           int
	TwoSteps                 bool
}

// Apply returns s with the overrides folded in and reports whether
// anything changed. Callers persist the result once, not per field.
func (o Overrides) Apply(s Settings) (Settings, bool) {
	changed := false
	setStr := func(dst *string, v string) {
		if v != "" && v != *dst {
			*dst = v
			changed = true
		}
	}
	setInt := func(dst *int, v int) {
		if v > 0 && v != *dst {
			*dst = v
			changed = true
		}
	}
	setStr(&s.ComputerVisionModel, o.ComputerVisionModel)
	setStr(&s.TextModel, o.TextModel)
	setStr(&s.ComputerVisionServer, o.ComputerVisionServer)
	setStr(&s.TextServer, o.TextServer)
	setInt(&s.ComputerVisionServerPort, o.ComputerVisionServerPort)
	setInt(&s.TextServerPort, o.TextServerPort)
	if s.TwoSteps != o.TwoSteps {
		s.TwoSteps = o.TwoSteps
		changed = true
	}
	return s, changed
}

// DefaultWorkDir is where the settings file and the frame temp folder live.
func DefaultWorkDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(base, "aspargus"), nil
}

// TempDir returns the shared thumbnail folder under workDir.
func TempDir(workDir string) string {
	return filepath.Join(workDir, "tmp")
}

// SettingsPath returns the settings file location under workDir.
func SettingsPath(workDir string) string {
	return filepath.Join(workDir, "settings.json")
}
