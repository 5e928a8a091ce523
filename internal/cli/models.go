package cli

import (
	"fmt"

	"github.com/aspargus/aspargus/internal/config"
	"github.com/aspargus/aspargus/internal/ports/adapters/ollama"
	"github.com/spf13/cobra"
)

// newModelsCmd lists the models installed on the configured servers, one
// section per distinct server.
func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models available on the configured servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := config.DefaultWorkDir()
			if err != nil {
				return fmt.Errorf("resolve work folder: %w", err)
			}
			settings, err := config.NewJSONStore(config.SettingsPath(workDir)).Load()
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			vision := ollama.New(
				settings.ComputerVisionServer,
				settings.ComputerVisionServerPort,
				settings.ComputerVisionModel,
			)
			text := ollama.New(
				settings.TextServer,
				settings.TextServerPort,
				settings.TextModel,
			)
			clients := []*ollama.Adapter{vision}
			if text.Server() != vision.Server() {
				clients = append(clients, text)
			}

			for _, c := range clients {
				models, err := c.Models(cmd.Context())
				if err != nil {
					return fmt.Errorf("list models on %s: %w", c.Server(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", c.Server())
				for _, m := range models {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", m)
				}
			}
			return nil
		},
	}
}
