package ffmpeg

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aspargus/aspargus/internal/ports"
	"github.com/aspargus/aspargus/internal/types"
)

func TestParseMetadata(t *testing.T) {
	created := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		out          string
		wantDuration float64
		wantCreated  time.Time
		wantOK       bool
	}{
		{
			name:         "duration then creation time",
			out:          "120.5\n2023-05-01T10:00:00Z\n",
			wantDuration: 120.5,
			wantCreated:  created,
			wantOK:       true,
		},
		{
			name:         "creation time then duration",
			out:          "2023-05-01T10:00:00Z\n120.5\n",
			wantDuration: 120.5,
			wantCreated:  created,
			wantOK:       true,
		},
		{
			name:         "ffprobe fractional creation time",
			out:          "2023-05-01T10:00:00.000000Z\n9.4\n",
			wantDuration: 9.4,
			wantCreated:  created,
			wantOK:       true,
		},
		{
			name:         "creation time normalized to UTC",
			out:          "2023-05-01T12:00:00+02:00\n",
			wantCreated:  created,
			wantOK:       true,
		},
		{
			name:         "duplicates dropped before last-wins",
			out:          "10\n20\n10\n",
			wantDuration: 20,
			wantOK:       true,
		},
		{
			name:         "last value of a kind wins",
			out:          "120.5\n2023-05-01T10:00:00Z\n90\n",
			wantDuration: 90,
			wantCreated:  created,
			wantOK:       true,
		},
		{
			name:         "duration only",
			out:          "  7.25  \n",
			wantDuration: 7.25,
			wantOK:       true,
		},
		{
			name:   "no usable lines",
			out:    "N/A\nhello\n",
			wantOK: false,
		},
		{
			name:   "empty output",
			out:    "\n\n",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, ok := parseMetadata(tt.out)
			if ok != tt.wantOK {
				t.Fatalf("parseMetadata(%q) ok = %v, want %v", tt.out, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if md.Duration != tt.wantDuration {
				t.Fatalf("duration = %v, want %v", md.Duration, tt.wantDuration)
			}
			if !md.Created.Equal(tt.wantCreated) {
				t.Fatalf("created = %v, want %v", md.Created, tt.wantCreated)
			}
		})
	}
}

func TestProbe(t *testing.T) {
	var gotBin string
	var gotArgs []string
	a := NewForTests("", "", func(_ context.Context, bin string, args ...string) ([]byte, error) {
		gotBin = bin
		gotArgs = args
		return []byte("120.5\n2023-05-01T10:00:00.000000Z\n"), nil
	})

	md, err := a.Probe(context.Background(), "/v/a.mp4")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if gotBin != "ffprobe" {
		t.Fatalf("unexpected binary: %s", gotBin)
	}
	wantArgs := strings.Join([]string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-show_entries", "stream_tags=creation_time",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"/v/a.mp4",
	}, " ")
	if strings.Join(gotArgs, " ") != wantArgs {
		t.Fatalf("unexpected args:\n got %q\nwant %q", strings.Join(gotArgs, " "), wantArgs)
	}
	want := types.Metadata{Duration: 120.5, Created: time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)}
	if md.Duration != want.Duration || !md.Created.Equal(want.Created) {
		t.Fatalf("unexpected metadata: %+v", md)
	}
}

func TestProbe_NoUsableOutput(t *testing.T) {
	a := NewForTests("", "", func(context.Context, string, ...string) ([]byte, error) {
		return []byte("N/A\n"), nil
	})

	_, err := a.Probe(context.Background(), "/v/a.mp4")
	if err == nil || !strings.Contains(err.Error(), "no duration or creation time") {
		t.Fatalf("expected parse error, got %v", err)
	}
	if ports.IsMissingBinary(err) {
		t.Fatalf("parse error must not look batch-fatal")
	}
}

func TestProbe_MissingBinaryIsFatal(t *testing.T) {
	a := NewForTests("", "", func(context.Context, string, ...string) ([]byte, error) {
		return nil, &exec.Error{Name: "ffprobe", Err: exec.ErrNotFound}
	})

	_, err := a.Probe(context.Background(), "/v/a.mp4")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !ports.IsMissingBinary(err) {
		t.Fatalf("expected missing-binary classification, got %v", err)
	}
}

func TestProbe_CommandFailureKeepsOutput(t *testing.T) {
	a := NewForTests("", "", func(context.Context, string, ...string) ([]byte, error) {
		return []byte("mdta: corrupt box"), errors.New("exit status 1")
	})

	_, err := a.Probe(context.Background(), "/v/a.mp4")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "exit status 1") || !strings.Contains(err.Error(), "corrupt box") {
		t.Fatalf("expected cause and output in error, got %v", err)
	}
	if ports.IsMissingBinary(err) {
		t.Fatalf("command failure must not look batch-fatal")
	}
}

func TestSampleFrames(t *testing.T) {
	tmp := t.TempDir()
	var gotBin string
	var gotArgs []string
	a := NewForTests("", "", func(_ context.Context, bin string, args ...string) ([]byte, error) {
		gotBin = bin
		gotArgs = args
		for _, name := range []string{"vid1_0001.png", "vid1_0002.png", "other_0001.png"} {
			if err := os.WriteFile(filepath.Join(tmp, name), []byte("png"), 0o644); err != nil {
				t.Fatalf("write frame: %v", err)
			}
		}
		return nil, nil
	})

	frames, err := a.SampleFrames(context.Background(), "/v/a.mp4", tmp, "vid1", 3)
	if err != nil {
		t.Fatalf("sample frames: %v", err)
	}
	if gotBin != "ffmpeg" {
		t.Fatalf("unexpected binary: %s", gotBin)
	}
	wantArgs := strings.Join([]string{
		"-y",
		"-i", "/v/a.mp4",
		"-vf", "fps=1/3",
		filepath.Join(tmp, "vid1_%04d.png"),
	}, " ")
	if strings.Join(gotArgs, " ") != wantArgs {
		t.Fatalf("unexpected args:\n got %q\nwant %q", strings.Join(gotArgs, " "), wantArgs)
	}
	if len(frames) != 2 {
		t.Fatalf("expected the 2 frames of this video, got %v", frames)
	}
	for _, f := range frames {
		if !strings.HasPrefix(filepath.Base(f), "vid1_") {
			t.Fatalf("foreign frame in result: %s", f)
		}
	}
}

func TestSampleFrames_ClampsUnknownGap(t *testing.T) {
	var gotArgs []string
	a := NewForTests("", "", func(_ context.Context, _ string, args ...string) ([]byte, error) {
		gotArgs = args
		return nil, nil
	})

	if _, err := a.SampleFrames(context.Background(), "/v/a.mp4", t.TempDir(), "vid1", 0); err != nil {
		t.Fatalf("sample frames: %v", err)
	}
	if !strings.Contains(strings.Join(gotArgs, " "), "fps=1/1") {
		t.Fatalf("expected clamped sampling rate, got %v", gotArgs)
	}
}

func TestSampleFrames_MissingBinaryIsFatal(t *testing.T) {
	a := NewForTests("", "", func(context.Context, string, ...string) ([]byte, error) {
		return nil, &exec.Error{Name: "ffmpeg", Err: exec.ErrNotFound}
	})

	_, err := a.SampleFrames(context.Background(), "/v/a.mp4", t.TempDir(), "vid1", 3)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !ports.IsMissingBinary(err) {
		t.Fatalf("expected missing-binary classification, got %v", err)
	}
}

func TestSampleFrames_CommandFailure(t *testing.T) {
	a := NewForTests("", "", func(context.Context, string, ...string) ([]byte, error) {
		return []byte("invalid data found"), errors.New("exit status 1")
	})

	_, err := a.SampleFrames(context.Background(), "/v/a.mp4", t.TempDir(), "vid1", 3)
	if err == nil || !strings.Contains(err.Error(), "invalid data found") {
		t.Fatalf("expected subprocess output in error, got %v", err)
	}
	if ports.IsMissingBinary(err) {
		t.Fatalf("command failure must not look batch-fatal")
	}
}
