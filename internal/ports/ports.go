package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/aspargus/aspargus/internal/types"
)

type MetadataProbe interface {
	Probe(ctx context.Context, path string) (types.Metadata, error)
}

// FrameSampler extracts thumbnails for one video into tempDir, naming them
// <id>_%04d.png, and returns the paths actually produced.
type FrameSampler interface {
	SampleFrames(ctx context.Context, input, tempDir, id string, gapSeconds int) ([]string, error)
}

type ModelClient interface {
	Generate(ctx context.Context, req types.GenerateRequest) (string, error)
	Models(ctx context.Context) ([]string, error)
}

// MissingBinaryError reports that a required external tool is absent from
// the host. It is the only batch-fatal error subprocess adapters return;
// everything else degrades to the affected video only.
type MissingBinaryError struct {
	Bin string
	Err error
}

func (e *MissingBinaryError) Error() string {
	return fmt.Sprintf("%s is not installed or not in PATH", e.Bin)
}

func (e *MissingBinaryError) Unwrap() error { return e.Err }

// IsMissingBinary reports whether err wraps a MissingBinaryError.
func IsMissingBinary(err error) bool {
	var m *MissingBinaryError
	return errors.As(err, &m)
}
