package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/grievance/internal/ports/primary"
	"github.com/example/grievance/internal/wire"
)

// CommCmd returns the comm command
func CommCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comm",
		Short: "Record and track case communications",
	}
	cmd.AddCommand(commReceiveCmd())
	cmd.AddCommand(commSendCmd())
	cmd.AddCommand(commTrackCmd())
	return cmd
}

func commReceiveCmd() *cobra.Command {
	var req primary.InboundRequest
	cmd := &cobra.Command{
		Use:   "receive [case-id]",
		Short: "Record an inbound message from the complainant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			req.CaseID = args[0]
			_, err = c.CommunicationAdapterWithOutput(cmd.OutOrStdout()).Receive(actorContext(cmd), req)
			return err
		},
	}
	cmd.Flags().StringVar(&req.Channel, "channel", "", "channel the message arrived on (required)")
	cmd.Flags().StringVar(&req.Subject, "subject", "", "message subject")
	cmd.Flags().StringVar(&req.Content, "content", "", "message body (required)")
	cmd.Flags().StringVar(&req.From, "from", "", "sender")
	_ = cmd.MarkFlagRequired("channel")
	return cmd
}

func commSendCmd() *cobra.Command {
	var req primary.OutboundRequest
	cmd := &cobra.Command{
		Use:   "send [case-id]",
		Short: "Send a message to the complainant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			req.CaseID = args[0]
			return c.CommunicationAdapterWithOutput(cmd.OutOrStdout()).Send(actorContext(cmd), req)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Channel, "channel", "", "EMAIL, SMS, POSTAL or PHONE (required)")
	f.StringVar(&req.Recipient, "recipient", "", "recipient (defaults to the complainant's contact)")
	f.StringVar(&req.Subject, "subject", "", "message subject")
	f.StringVar(&req.Content, "content", "", "message body")
	f.BoolVar(&req.RequiresResponse, "requires-response", false, "expect a reply")
	f.BoolVar(&req.IsInternal, "internal", false, "internal note, not shown to the complainant")
	_ = cmd.MarkFlagRequired("channel")
	return cmd
}

func commTrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track [case-number]",
		Short: "Show every communication on a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			_, err = c.CommunicationAdapterWithOutput(cmd.OutOrStdout()).Track(actorContext(cmd), args[0])
			return err
		},
	}
}
