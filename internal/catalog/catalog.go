// Package catalog holds the batch of videos being processed and drives
// every stage over it: admission, frame extraction, analysis, renaming
// and export. Stage failures mark the one video as skipped; only a
// missing binary aborts the whole batch.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/aspargus/aspargus/internal/config"
	"github.com/aspargus/aspargus/internal/domain/rename"
	"github.com/aspargus/aspargus/internal/domain/resume"
	"github.com/aspargus/aspargus/internal/ports"
)

// Deps are the catalog's collaborators. Vision and Text may point at the
// same server; they are still two clients with two models.
type Deps struct {
	Probe   ports.MetadataProbe
	Sampler ports.FrameSampler
	Vision  ports.ModelClient
	Text    ports.ModelClient
}

type Catalog struct {
	d        Deps
	settings config.Settings
	tempDir  string
	logger   *slog.Logger

	videos []*Video
	// videosNumber counts admission attempts, not admitted videos, so the
	// n/total progress prefix stays stable once admission is done.
	videosNumber int
}

func New(d Deps, settings config.Settings, tempDir string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Catalog{d: d, settings: settings, tempDir: tempDir, logger: logger}
}

// Videos exposes the admitted batch in admission order.
func (c *Catalog) Videos() []*Video {
	return c.videos
}

// Add probes and admits the given files one by one. Unreadable files and
// probe failures are logged and dropped; a missing ffprobe binary aborts
// the batch immediately.
func (c *Catalog) Add(ctx context.Context, paths ...string) error {
	for _, path := range paths {
		if err := c.add(ctx, path); err != nil {
			return fmt.Errorf("FFProbe is not found, we're quitting for now. Please install FFMpeg and FFProbe and put them in the path: %w", err)
		}
		c.videosNumber++
	}
	return nil
}

func (c *Catalog) add(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		c.logger.Error(fmt.Sprintf("File %s doesn't exist or is not a file, and therefore will be ignored.", path))
		return nil
	}
	md, err := c.d.Probe.Probe(ctx, path)
	if err != nil {
		if ports.IsMissingBinary(err) {
			return err
		}
		c.logger.Error(fmt.Sprintf("Error while extracting metadata for: %s, it won't be processed further on.", path))
		return nil
	}
	c.videos = append(c.videos, newVideo(path, md, c.nextNumericID()))
	return nil
}

func (c *Catalog) nextNumericID() int {
	if len(c.videos) == 0 {
		return 1
	}
	return c.videos[len(c.videos)-1].NumericID + 1
}

// ExtractFrames samples every non-skipped video concurrently. A failed
// extraction skips that one video; a missing ffmpeg binary fails the
// whole call once all workers have finished.
func (c *Catalog) ExtractFrames(ctx context.Context) error {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fatal error
	)
	for _, v := range c.videos {
		if v.Skip {
			continue
		}
		wg.Add(1)
		go func(v *Video) {
			defer wg.Done()
			c.progress(v, "Extracting frames for %s", v.Path)
			thumbs, err := c.d.Sampler.SampleFrames(ctx, v.Path, c.tempDir, v.ID, v.Gap)
			if err != nil {
				if ports.IsMissingBinary(err) {
					mu.Lock()
					if fatal == nil {
						fatal = err
					}
					mu.Unlock()
					return
				}
				c.progressErr(v, "Error while extracting frames for: %v, it won't be processed further on.", err)
				v.Skip = true
				return
			}
			if len(thumbs) == 0 {
				c.progressErr(v, "No frames were extracted for %s, it won't be processed further on.", v.Path)
				v.Skip = true
				return
			}
			v.Thumbnails = thumbs
		}(v)
	}
	wg.Wait()
	if fatal != nil {
		return fmt.Errorf("FFMpeg is not found, we're quitting for now. Please install FFMpeg and FFProbe and put them in the path: %w", fatal)
	}
	return nil
}

// RenameVideos renders the template for every non-skipped video and moves
// the file within its folder. The video keeps its new path so the export
// that follows reflects the rename.
func (c *Catalog) RenameVideos(template string) {
	var wg sync.WaitGroup
	for _, v := range c.videos {
		if v.Skip {
			continue
		}
		wg.Add(1)
		go func(v *Video) {
			defer wg.Done()
			newName := rename.Apply(template, rename.Values{
				Created:  v.CreationDate,
				Title:    v.Resume.Title,
				Keywords: v.Resume.Keywords,
				Stem:     rename.Stem(v.Path),
			})
			newPath := rename.NewPath(v.Path, newName)
			if err := os.Rename(v.Path, newPath); err != nil {
				c.progressErr(v, "Error while renaming file: %v", err)
				return
			}
			v.Path = newPath
			c.progress(v, "Renamed to: %s", newName)
		}(v)
	}
	wg.Wait()
}

type exportEntry struct {
	Path   string        `json:"path"`
	Resume resume.Resume `json:"resume"`
}

// ExportJSON writes one entry per video, skipped ones included, in
// admission order. Skipped videos carry their zero resume.
func (c *Catalog) ExportJSON(path string) error {
	entries := make([]exportEntry, 0, len(c.videos))
	for _, v := range c.videos {
		r := v.Resume
		if r.Keywords == nil {
			r.Keywords = []string{}
		}
		entries = append(entries, exportEntry{Path: v.Path, Resume: r})
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Cleanup removes the extracted frames. Best effort, the temp folder is
// shared across runs and leftovers are harmless.
func (c *Catalog) Cleanup() {
	for _, v := range c.videos {
		for _, p := range v.Thumbnails {
			if err := os.Remove(p); err != nil {
				c.logger.Debug(fmt.Sprintf("remove frame %s: %v", p, err))
			}
		}
	}
}

func (c *Catalog) progress(v *Video, format string, args ...any) {
	c.logger.Info(fmt.Sprintf("%d/%d - %s", v.NumericID, c.videosNumber, fmt.Sprintf(format, args...)))
}

func (c *Catalog) progressErr(v *Video, format string, args ...any) {
	c.logger.Error(fmt.Sprintf("%d/%d - %s", v.NumericID, c.videosNumber, fmt.Sprintf(format, args...)))
}
