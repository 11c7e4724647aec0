package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/primary"
	"github.com/example/grievance/internal/wire"
)

// CaseCmd returns the case command
func CaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Submit and manage grievance cases",
	}
	cmd.AddCommand(caseSubmitCmd())
	cmd.AddCommand(caseShowCmd())
	cmd.AddCommand(caseListCmd())
	cmd.AddCommand(caseTimelineCmd())
	cmd.AddCommand(caseStatsCmd())
	cmd.AddCommand(caseAssignCmd())
	cmd.AddCommand(caseStatusCmd())
	cmd.AddCommand(caseResolveCmd())
	cmd.AddCommand(caseCloseCmd())
	cmd.AddCommand(caseReasonCmd("reject", "Reject a case", true))
	cmd.AddCommand(caseReasonCmd("cancel", "Cancel a case", true))
	cmd.AddCommand(caseReasonCmd("reopen", "Reopen a resolved case", false))
	cmd.AddCommand(caseEscalateCmd())
	return cmd
}

func caseSubmitCmd() *cobra.Command {
	var (
		channel string
		req     grievance.SubmitRequest
		cc      grievance.ChannelContext
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new case",
		Example: `  grievance case submit --complainant PSN-1001 --subject "Late payment" \
    --description "March payment missing" --category PAYMENT_ISSUE
  grievance case submit --channel PHONE --operator OP-7 --call-ref CALL-1 ...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			_, err = c.CaseAdapterWithOutput(cmd.OutOrStdout()).Submit(actorContext(cmd), primary.SubmitCaseRequest{
				Channel: channel,
				Case:    req,
				Context: cc,
			})
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&channel, "channel", "WEB", "intake channel: WEB, MOBILE, PHONE, EMAIL or WALK_IN")
	f.StringVar(&req.ComplainantID, "complainant", "", "complainant identifier")
	f.StringVar(&req.ComplainantName, "name", "", "complainant name")
	f.StringVar(&req.ComplainantEmail, "email", "", "complainant email")
	f.StringVar(&req.ComplainantPhone, "phone", "", "complainant phone")
	f.BoolVar(&req.Anonymous, "anonymous", false, "withhold the complainant's identity")
	f.StringVar(&req.Subject, "subject", "", "short subject")
	f.StringVar(&req.Description, "description", "", "full description")
	f.StringVar(&req.Category, "category", "", "grievance category")
	f.StringVar(&req.Priority, "priority", "", "priority (MEDIUM when empty, HIGH if --urgent)")
	f.BoolVar(&req.Urgent, "urgent", false, "mark the case urgent")
	f.StringVar(&cc.OperatorID, "operator", "", "PHONE: call-centre operator")
	f.StringVar(&cc.CallReference, "call-ref", "", "PHONE: call reference")
	f.StringVar(&cc.FromAddress, "from", "", "EMAIL: sender address")
	f.StringVar(&cc.ReceivingOfficer, "officer", "", "WALK_IN: receiving officer")
	f.StringVar(&cc.OfficeLocation, "office", "", "WALK_IN: office location")
	f.StringVar(&cc.DeviceID, "device", "", "MOBILE: device identifier")
	f.StringVar(&cc.AppVersion, "app-version", "", "MOBILE: app version")
	return cmd
}

func caseShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [case-id|case-number]",
		Short: "Show case details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			_, err = c.CaseAdapterWithOutput(cmd.OutOrStdout()).Show(actorContext(cmd), args[0])
			return err
		},
	}
}

func caseListCmd() *cobra.Command {
	var filters primary.CaseFilters
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			_, err = c.CaseAdapterWithOutput(cmd.OutOrStdout()).List(actorContext(cmd), filters)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&filters.Status, "status", "", "filter by status")
	f.StringVar(&filters.Category, "category", "", "filter by category")
	f.StringVar(&filters.Priority, "priority", "", "filter by priority")
	f.StringVar(&filters.Channel, "channel", "", "filter by submission channel")
	f.StringVar(&filters.AssignedTo, "assigned", "", "filter by assignee")
	f.BoolVar(&filters.EscalatedOnly, "escalated", false, "only escalated cases")
	f.StringVar(&filters.Search, "search", "", "match subject, description or case number")
	f.IntVar(&filters.Limit, "limit", 0, "maximum cases to show")
	f.IntVar(&filters.Offset, "offset", 0, "cases to skip")
	return cmd
}

func caseTimelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timeline [case-id]",
		Short: "Show the activity log of a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			_, err = c.CaseAdapterWithOutput(cmd.OutOrStdout()).Timeline(actorContext(cmd), args[0])
			return err
		},
	}
}

func caseStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show case statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			_, err = c.CaseAdapterWithOutput(cmd.OutOrStdout()).Stats(actorContext(cmd))
			return err
		},
	}
}

func caseAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign [case-id] [assignee]",
		Short: "Assign a case",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			_, err = c.CaseAdapterWithOutput(cmd.OutOrStdout()).Assign(actorContext(cmd), args[0], args[1])
			return err
		},
	}
}

func caseStatusCmd() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "status [case-id] [status]",
		Short: "Move a case to UNDER_REVIEW or PENDING_RESPONSE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			_, err = c.CaseAdapterWithOutput(cmd.OutOrStdout()).ChangeStatus(actorContext(cmd), args[0], args[1], note)
			return err
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "note recorded with the change")
	return cmd
}

func caseResolveCmd() *cobra.Command {
	var summary, actions string
	cmd := &cobra.Command{
		Use:   "resolve [case-id]",
		Short: "Resolve a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			_, err = c.CaseAdapterWithOutput(cmd.OutOrStdout()).Resolve(actorContext(cmd), args[0], summary, actions)
			return err
		},
	}
	cmd.Flags().StringVar(&summary, "summary", "", "resolution summary (required)")
	cmd.Flags().StringVar(&actions, "actions", "", "actions taken")
	return cmd
}

func caseCloseCmd() *cobra.Command {
	var (
		rating   int
		feedback string
	)
	cmd := &cobra.Command{
		Use:   "close [case-id]",
		Short: "Close a resolved case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			_, err = c.CaseAdapterWithOutput(cmd.OutOrStdout()).Close(actorContext(cmd), args[0], rating, feedback)
			return err
		},
	}
	cmd.Flags().IntVar(&rating, "rating", 0, "satisfaction rating 1-5")
	cmd.Flags().StringVar(&feedback, "feedback", "", "complainant feedback")
	return cmd
}

// caseReasonCmd builds reject, cancel and reopen, which differ only in the
// service call.
func caseReasonCmd(name, short string, reasonRequired bool) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   name + " [case-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			a := c.CaseAdapterWithOutput(cmd.OutOrStdout())
			ctx := actorContext(cmd)
			switch name {
			case "reject":
				_, err = a.Reject(ctx, args[0], reason)
			case "cancel":
				_, err = a.Cancel(ctx, args[0], reason)
			default:
				_, err = a.Reopen(ctx, args[0], reason)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded on the timeline")
	if reasonRequired {
		_ = cmd.MarkFlagRequired("reason")
	}
	return cmd
}

func caseEscalateCmd() *cobra.Command {
	var req primary.EscalateRequest
	cmd := &cobra.Command{
		Use:   "escalate [case-id]",
		Short: "Escalate a case up its ladder",
		Long: `Escalate a case. Triggers: SLA_BREACH, CRITICAL_PRIORITY, COMPLEXITY,
CUSTOMER_COMPLAINT, EXTERNAL_PRESSURE, REPEATED_ESCALATION.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire.Get()
			if err != nil {
				return err
			}
			req.CaseID = args[0]
			_, err = c.CaseAdapterWithOutput(cmd.OutOrStdout()).Escalate(actorContext(cmd), req)
			return err
		},
	}
	cmd.Flags().StringVar(&req.Trigger, "trigger", "", "escalation trigger (required)")
	cmd.Flags().StringVar(&req.Reason, "reason", "", "why the case is escalated")
	cmd.Flags().StringVar(&req.InitiatedBy, "by", "", "who initiated the escalation")
	_ = cmd.MarkFlagRequired("trigger")
	return cmd
}
