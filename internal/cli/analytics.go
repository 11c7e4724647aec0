package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/grievance/internal/wire"
)

// AnalyticsCmd returns the analytics command
func AnalyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Reports over the case population",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "escalations",
		Short: "Summarize escalations in the lookback window",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			_, err = c.CommunicationAdapterWithOutput(cmd.OutOrStdout()).EscalationReport(actorContext(cmd))
			return err
		},
	})
	return cmd
}

// NotificationsCmd returns the notifications command
func NotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Inspect the notification stream",
	}
	var count int64
	recent := &cobra.Command{
		Use:   "recent",
		Short: "Show the newest notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			feed := c.NotificationFeed()
			if feed == nil {
				return errors.New("notifications are not published: set notifications.redis_addr")
			}
			items, err := feed.Recent(actorContext(cmd), count)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notifications.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tKIND\tCASE\tRECIPIENT\tMESSAGE")
			for _, n := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					n.CreatedAt.Format("2006-01-02 15:04"), n.Kind, n.CaseNumber, n.Recipient, n.Message)
			}
			return w.Flush()
		},
	}
	recent.Flags().Int64Var(&count, "count", 20, "number of notifications")
	cmd.AddCommand(recent)
	return cmd
}
