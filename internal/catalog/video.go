package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"time"

	"github.com/aspargus/aspargus/internal/domain/resume"
	"github.com/aspargus/aspargus/internal/types"
)

// Video is one admitted unit of work: a source file plus everything the
// pipeline derives from it.
type Video struct {
	// ID is a pure function of the source path and namespaces this video's
	// thumbnails inside the shared temp folder.
	ID string
	// NumericID is the display id, assigned on admission, strictly
	// increasing and never reused.
	NumericID int
	// Path is the source file; it is updated in place after a successful
	// rename.
	Path         string
	CreationDate time.Time
	// Gap is the sampling interval in seconds between extracted frames,
	// 0 when the duration is unknown.
	Gap        int
	Thumbnails []string
	// Story is the intermediate narrative of the two-step topology.
	Story  string
	Resume resume.Resume
	// Skip is monotonic: once true, no later stage touches this video.
	Skip bool
}

func newVideo(path string, md types.Metadata, numericID int) *Video {
	created := md.Created
	if created.IsZero() {
		created = time.Unix(0, 0).UTC()
	}
	return &Video{
		ID:           hashPath(path),
		NumericID:    numericID,
		Path:         path,
		CreationDate: created,
		Gap:          captureGap(md.Duration),
	}
}

func hashPath(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])[:12]
}

// captureGap spaces the sampled frames so that roughly three cover the
// whole video.
func captureGap(durationSeconds float64) int {
	if durationSeconds <= 0 {
		return 0
	}
	return int(math.Floor(durationSeconds / 3))
}
