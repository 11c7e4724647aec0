package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/grievance/internal/config"
	"github.com/example/grievance/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration and create the case store",
		Long: `Write the default configuration to ~/.grievance/config.yaml (or --config) and
initialize the configured case store with the required schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ResolvePath(configPath)
			if err != nil {
				return err
			}

			_, statErr := os.Stat(path)
			switch {
			case statErr == nil && !force:
				fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s (use --force to overwrite)\n", path)
			case statErr == nil || errors.Is(statErr, os.ErrNotExist):
				if err := config.Save(path, config.Default()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote default config to %s\n", path)
			default:
				return statErr
			}

			c, err := wire.Get()
			if err != nil {
				return fmt.Errorf("failed to initialize case store: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Case store ready (%s)\n", c.Config.Store.Driver)
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "Next steps:")
			fmt.Fprintln(cmd.OutOrStdout(), `  grievance case submit --complainant PSN-1001 --subject "..." --description "..." --category PAYMENT_ISSUE`)
			fmt.Fprintln(cmd.OutOrStdout(), "  grievance serve")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}
