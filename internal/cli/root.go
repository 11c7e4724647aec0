// Package cli defines the grievance command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/grievance/internal/ctxutil"
	"github.com/example/grievance/internal/version"
	"github.com/example/grievance/internal/wire"
)

var (
	configPath string
	actorID    string
	actorRole  string
)

// RootCmd returns the grievance command with every subcommand attached.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "grievance",
		Short:   "Grievance case management",
		Version: version.String(),
		Long: `grievance receives complaints on every intake channel, tracks them through
their lifecycle against SLA deadlines and escalates them up category ladders.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			wire.SetConfigPath(configPath)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $GRIEVANCE_CONFIG or ~/.grievance/config.yaml)")
	root.PersistentFlags().StringVar(&actorID, "actor", "", "acting user recorded on the timeline (default SYSTEM)")
	root.PersistentFlags().StringVar(&actorRole, "role", "", "role of the acting user")

	root.AddCommand(InitCmd())
	root.AddCommand(ServeCmd())
	root.AddCommand(CaseCmd())
	root.AddCommand(CommCmd())
	root.AddCommand(AnalyticsCmd())
	root.AddCommand(NotificationsCmd())
	return root
}

// actorContext attaches the --actor and --role flags to the command context.
func actorContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if actorID == "" {
		return ctx
	}
	return ctxutil.WithActor(ctx, actorID, actorRole)
}
