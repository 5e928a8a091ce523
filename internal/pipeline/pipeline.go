// Package pipeline wires the adapters to the catalog and runs the
// stages in order over one batch of videos.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aspargus/aspargus/internal/catalog"
	"github.com/aspargus/aspargus/internal/config"
	"github.com/aspargus/aspargus/internal/ports"
	"github.com/aspargus/aspargus/internal/ports/adapters/ffmpeg"
	"github.com/aspargus/aspargus/internal/ports/adapters/ollama"
)

type Config struct {
	// Videos are the files to process, already resolved by the caller.
	Videos []string

	// RenameTemplate renames the processed files when non-empty.
	RenameTemplate string

	// ExportPath writes the batch resumes as JSON when non-empty.
	ExportPath string

	Settings config.Settings

	// WorkDir hosts the temp folder for extracted frames. If empty,
	// defaults to the per-user config folder.
	WorkDir string

	FFmpegPath  string
	FFprobePath string

	Logger *slog.Logger
}

func (c Config) Validate() error {
	if len(c.Videos) == 0 {
		return errors.New("no video files to process")
	}
	if err := ollama.ValidateServer(c.Settings.ComputerVisionServer); err != nil {
		return fmt.Errorf("computer vision server: %w", err)
	}
	if err := ollama.ValidateServer(c.Settings.TextServer); err != nil {
		return fmt.Errorf("text server: %w", err)
	}
	return nil
}

func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// adapters
	video := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	vision := ollama.New(
		cfg.Settings.ComputerVisionServer,
		cfg.Settings.ComputerVisionServerPort,
		cfg.Settings.ComputerVisionModel,
	)
	text := ollama.New(
		cfg.Settings.TextServer,
		cfg.Settings.TextServerPort,
		cfg.Settings.TextModel,
	)

	workDir := cfg.WorkDir
	if workDir == "" {
		var err error
		workDir, err = config.DefaultWorkDir()
		if err != nil {
			return fmt.Errorf("resolve work folder: %w", err)
		}
	}
	tempDir := config.TempDir(workDir)
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return fmt.Errorf("create temp folder: %w", err)
	}
	logger.Debug(fmt.Sprintf("temp folder: %s", tempDir))

	deps := catalog.Deps{
		Probe:   video,
		Sampler: video,
		Vision:  vision,
		Text:    text,
	}
	c := catalog.New(deps, cfg.Settings, tempDir, logger)
	defer c.Cleanup()

	if err := c.Add(ctx, cfg.Videos...); err != nil {
		return err
	}
	if err := c.ExtractFrames(ctx); err != nil {
		return err
	}
	c.Analyze(ctx)
	if cfg.RenameTemplate != "" {
		c.RenameVideos(cfg.RenameTemplate)
	}
	if cfg.ExportPath != "" {
		if err := c.ExportJSON(cfg.ExportPath); err != nil {
			return fmt.Errorf("export resumes: %w", err)
		}
	}
	return nil
}

// ensure adapters implement ports
var _ ports.MetadataProbe = (*ffmpeg.Adapter)(nil)
var _ ports.FrameSampler = (*ffmpeg.Adapter)(nil)
var _ ports.ModelClient = (*ollama.Adapter)(nil)
