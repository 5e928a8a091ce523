package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aspargus/aspargus/internal/config"
	"github.com/aspargus/aspargus/internal/pipeline"
	"github.com/aspargus/aspargus/internal/scan"
	"github.com/spf13/cobra"
)

func run(cmd *cobra.Command, args []string) error {
	folder, _ := cmd.Flags().GetString("folder")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	renameTemplate, _ := cmd.Flags().GetString("rename")
	jsonPath, _ := cmd.Flags().GetString("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	logger := newLogger(verbose)

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	videos := resolveVideos(logger, args, folder, start, end)
	if len(videos) == 0 {
		return nil
	}

	cfg := pipeline.Config{
		Videos:         videos,
		RenameTemplate: renameTemplate,
		ExportPath:     jsonPath,
		Settings:       settings,

		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",

		Logger: logger,
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(context.Background(), cfg)
}

// resolveSettings loads the persisted settings, applies flag and
// environment overrides and persists the result when anything changed, so
// the next run starts from the same models and servers.
func resolveSettings(cmd *cobra.Command) (config.Settings, error) {
	cvModel, _ := cmd.Flags().GetString("cv-model")
	textModel, _ := cmd.Flags().GetString("text-model")
	cvServer, _ := cmd.Flags().GetString("cv-server")
	cvServerPort, _ := cmd.Flags().GetInt("cv-server-port")
	textServer, _ := cmd.Flags().GetString("text-server")
	textServerPort, _ := cmd.Flags().GetInt("text-server-port")
	twoSteps, _ := cmd.Flags().GetBool("two-steps")

	workDir, err := config.DefaultWorkDir()
	if err != nil {
		return config.Settings{}, fmt.Errorf("resolve work folder: %w", err)
	}
	store := config.NewJSONStore(config.SettingsPath(workDir))
	settings, err := store.Load()
	if err != nil {
		return config.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	if cvServer == "" {
		cvServer = os.Getenv("ASPARGUS_CV_SERVER")
	}
	if textServer == "" {
		textServer = os.Getenv("ASPARGUS_TEXT_SERVER")
	}

	settings, changed := config.Overrides{
		ComputerVisionModel:      cvModel,
		TextModel:                textModel,
		ComputerVisionServer:     cvServer,
		TextServer:               textServer,
		ComputerVisionServerPort: cvServerPort,
		TextServerPort:           textServerPort,
		TwoSteps:                 twoSteps,
	}.Apply(settings)
	if changed {
		if err := store.Save(settings); err != nil {
			return config.Settings{}, fmt.Errorf("save settings: %w", err)
		}
	}
	return settings, nil
}

// resolveVideos turns the arguments into the list of files to process. An
// explicit list wins over the folder options. An empty result means there
// is nothing to do and the reason has already been logged.
func resolveVideos(logger *slog.Logger, args []string, folder, start, end string) []string {
	if len(args) > 0 {
		if folder != "" || start != "" || end != "" {
			logger.Warn("When a list of video files is given as argument, folder, start and end are not taken in account")
		}
		return args
	}
	if folder == "" {
		if start != "" || end != "" {
			logger.Error("When using the start or end arguments, the folder argument must not be empty.")
			return nil
		}
		logger.Error("No video files to analyse, we're quitting.")
		return nil
	}
	videos, err := scan.List(folder, start, end)
	if err != nil {
		logger.Error(fmt.Sprintf("Error while reading the videos folder: %v", err))
		return nil
	}
	if len(videos) == 0 {
		logger.Error("No video files to analyse, we're quitting.")
		return nil
	}
	return videos
}
