// Package scan lists candidate video files from a folder.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
)

// List returns the regular files in dir whose names fall inside the
// inclusive lexicographic [start, end] range. An empty bound is open on
// that side. Results are full paths in name order.
func List(dir, start, end string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if start != "" && name < start {
			continue
		}
		if end != "" && name > end {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}
