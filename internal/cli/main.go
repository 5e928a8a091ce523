package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "aspargus [videos...]",
		Short:        "Analyse videos with local models and resume them",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().StringP("folder", "f", "", "The folder where the videos are situated")
	root.Flags().StringP("start", "s", "", "The name of the first file to analyse (alphabetically)")
	root.Flags().StringP("end", "e", "", "The name of the last file to analyse (alphabetically)")
	root.Flags().StringP("rename", "r", "", "The template of the new file name")
	root.Flags().StringP("json", "j", "", "The path of the JSON file to export the analysis result")
	root.Flags().StringP("cv-model", "c", "", "The name of the computer vision model to use")
	root.Flags().StringP("text-model", "t", "", "The name of the text model to use")
	root.Flags().String("cv-server", "", "The url of the computer vision server to use")
	root.Flags().Int("cv-server-port", 0, "The port of the computer vision server to use")
	root.Flags().String("text-server", "", "The url of the text server to use")
	root.Flags().Int("text-server-port", 0, "The port of the text server to use")
	root.Flags().Bool("two-steps", false, "Runs the analysis in two steps, first the computer vision model and then a text model to generate the resume")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	root.AddCommand(newModelsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
}
