package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moasearch/moa/configs"
	"github.com/moasearch/moa/internal/ui"
)

const defaultConfigFile = ".moa.yaml"

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an annotated config file to the current directory",
		Long: `Write an annotated .moa.yaml to the current directory. The file
documents every setting and matches the built-in defaults, so moa behaves
the same with or without it until you change something.`,
		Example: `  # Create .moa.yaml here
  moa init

  # Replace an existing .moa.yaml
  moa init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderer := ui.NewRenderer(cmd.OutOrStdout(), noColor)

			if _, err := os.Stat(defaultConfigFile); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigFile)
			}

			if err := os.WriteFile(defaultConfigFile, []byte(configs.ConfigTemplate), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", defaultConfigFile, err)
			}

			renderer.Successf("Wrote %s", defaultConfigFile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
