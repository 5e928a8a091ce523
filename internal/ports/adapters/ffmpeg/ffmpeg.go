package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aspargus/aspargus/internal/ports"
	"github.com/aspargus/aspargus/internal/types"
)

// runner executes one external command and returns its combined output.
// Swapped out in tests so no real binaries are needed.
type runner func(ctx context.Context, bin string, args ...string) ([]byte, error)

type Adapter struct {
	ffmpeg  string
	ffprobe string
	run     runner
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, run: runCombined}
}

// NewForTests returns an adapter whose subprocess calls go through run.
func NewForTests(ffmpegPath, ffprobePath string, run runner) *Adapter {
	a := New(ffmpegPath, ffprobePath)
	a.run = run
	return a
}

func runCombined(ctx context.Context, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	return cmd.CombinedOutput()
}

// classify turns a "binary not found" failure into the batch-fatal error
// type. Every other failure stays an ordinary per-file error.
func classify(bin string, err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return &ports.MissingBinaryError{Bin: bin, Err: err}
	}
	return err
}

// Probe asks ffprobe for the container duration and the stream creation
// time of one file. Output is line-oriented bare values; either value may
// be absent. An output with no usable value at all is an error.
func (a *Adapter) Probe(ctx context.Context, path string) (types.Metadata, error) {
	b, err := a.run(ctx, a.ffprobe, probeArgs(path)...)
	if err != nil {
		return types.Metadata{}, fmt.Errorf("ffprobe metadata: %w\n%s", classify(a.ffprobe, err), string(b))
	}
	md, ok := parseMetadata(string(b))
	if !ok {
		return types.Metadata{}, fmt.Errorf("ffprobe metadata: no duration or creation time in output for %s", path)
	}
	return md, nil
}

func probeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-show_entries", "stream_tags=creation_time",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

// parseMetadata resolves probe output lines into a duration and a creation
// time. Duplicate lines are dropped first (keeping the first occurrence),
// then each line is tried as RFC3339 before float; when several lines parse
// to the same kind, the last one wins.
func parseMetadata(out string) (types.Metadata, bool) {
	var md types.Metadata
	found := false
	for _, line := range dedupLines(out) {
		if t, err := time.Parse(time.RFC3339, line); err == nil {
			md.Created = t.UTC()
			found = true
			continue
		}
		if f, err := strconv.ParseFloat(line, 64); err == nil {
			md.Duration = f
			found = true
		}
	}
	return md, found
}

func dedupLines(out string) []string {
	seen := make(map[string]struct{})
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}
	return lines
}

// SampleFrames runs ffmpeg over input with a fixed-rate sampling filter,
// writing <id>_%04d.png files into tempDir. The returned list comes from a
// glob over that pattern after the subprocess exits, which is authoritative
// regardless of what ffmpeg itself reported.
func (a *Adapter) SampleFrames(ctx context.Context, input, tempDir, id string, gapSeconds int) ([]string, error) {
	outPattern := filepath.Join(tempDir, id+"_%04d.png")
	b, err := a.run(ctx, a.ffmpeg, sampleArgs(input, outPattern, gapSeconds)...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg sample frames: %w\n%s", classify(a.ffmpeg, err), string(b))
	}
	return globFrames(tempDir, id)
}

// sampleArgs builds the ffmpeg invocation for one video. The sampling
// divisor is clamped to 1 so an unknown duration (gap 0) still produces a
// valid one-frame-per-second filter.
func sampleArgs(input, outPattern string, gapSeconds int) []string {
	if gapSeconds < 1 {
		gapSeconds = 1
	}
	return []string{
		"-y",
		"-i", input,
		"-vf", fmt.Sprintf("fps=1/%d", gapSeconds),
		outPattern,
	}
}

func globFrames(tempDir, id string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(tempDir, id+"_[0-9]*.png"))
	if err != nil {
		return nil, fmt.Errorf("glob frames: %w", err)
	}
	return matches, nil
}
