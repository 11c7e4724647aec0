// Package redis publishes case notifications onto a Redis stream.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/secondary"
)

var _ secondary.NotificationDispatcher = (*StreamDispatcher)(nil)

// DefaultStream is the stream notifications are appended to.
const DefaultStream = "grievance:notifications"

// Notification kinds.
const (
	KindAssignment    = "ASSIGNMENT"
	KindManagement    = "MANAGEMENT"
	KindCommunication = "COMMUNICATION"
	KindStatusChange  = "STATUS_CHANGE"
)

// ManagementRecipient addresses level 2+ escalation alerts.
const ManagementRecipient = "MANAGEMENT"

// Notification is one entry on the stream.
type Notification struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	CaseID     string          `json:"case_id"`
	CaseNumber string          `json:"case_number"`
	Recipient  string          `json:"recipient"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Options configures a StreamDispatcher.
type Options struct {
	Stream string
	// MaxLen caps the stream with approximate trimming; 0 keeps everything.
	MaxLen int64
}

// StreamDispatcher implements secondary.NotificationDispatcher with XADD.
type StreamDispatcher struct {
	client *goredis.Client
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewStreamDispatcher creates a dispatcher on client.
func NewStreamDispatcher(client *goredis.Client, opts Options, logger *zap.Logger) *StreamDispatcher {
	if opts.Stream == "" {
		opts.Stream = DefaultStream
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamDispatcher{client: client, opts: opts, logger: logger, now: time.Now}
}

// NotifyAssignment tells assignee a case is now theirs.
func (d *StreamDispatcher) NotifyAssignment(ctx context.Context, c *grievance.Case, assignee string) error {
	return d.publish(ctx, Notification{
		Kind:      KindAssignment,
		CaseID:    c.ID,
		Recipient: assignee,
		Message:   fmt.Sprintf("Case %s (%s, %s priority) has been assigned to you", c.CaseNumber, c.Category, c.Priority),
	}, c, nil)
}

// NotifyManagement alerts management about a level 2+ escalation.
func (d *StreamDispatcher) NotifyManagement(ctx context.Context, c *grievance.Case, result grievance.EscalationResult) error {
	return d.publish(ctx, Notification{
		Kind:      KindManagement,
		Recipient: ManagementRecipient,
		Message: fmt.Sprintf("Case %s escalated to level %d (%s) and assigned to %s",
			c.CaseNumber, result.NewLevel, result.EscalationType, result.NewAssignee),
	}, c, result)
}

// NotifyCommunication tells the current handler a communication arrived.
func (d *StreamDispatcher) NotifyCommunication(ctx context.Context, c *grievance.Case, activity grievance.Activity) error {
	recipient := c.AssignedTo
	if recipient == "" {
		recipient = ManagementRecipient
	}
	msg := fmt.Sprintf("New %s message on case %s", activity.Channel, c.CaseNumber)
	if activity.RequiresResponse && activity.ResponseDueDate != nil {
		msg += ", response due " + activity.ResponseDueDate.UTC().Format(time.RFC3339)
	}
	return d.publish(ctx, Notification{Kind: KindCommunication, Recipient: recipient, Message: msg}, c, map[string]any{
		"activity_id":       activity.ID,
		"channel":           activity.Channel,
		"requires_response": activity.RequiresResponse,
	})
}

// NotifyStatusChange tells the complainant about a status change.
func (d *StreamDispatcher) NotifyStatusChange(ctx context.Context, c *grievance.Case, activity grievance.Activity) error {
	recipient := c.ComplainantEmail
	if recipient == "" {
		recipient = c.ComplainantID
	}
	return d.publish(ctx, Notification{
		Kind:      KindStatusChange,
		Recipient: recipient,
		Message:   fmt.Sprintf("Your case %s is now %s", c.CaseNumber, activity.NewStatus),
	}, c, map[string]any{
		"activity_id":     activity.ID,
		"previous_status": activity.PreviousStatus,
		"new_status":      activity.NewStatus,
	})
}

func (d *StreamDispatcher) publish(ctx context.Context, n Notification, c *grievance.Case, data any) error {
	n.ID = uuid.NewString()
	n.CaseID = c.ID
	n.CaseNumber = c.CaseNumber
	n.CreatedAt = d.now().UTC()
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode notification data: %w", err)
		}
		n.Data = raw
	}

	args := &goredis.XAddArgs{
		Stream: d.opts.Stream,
		Values: map[string]any{
			"id":          n.ID,
			"kind":        n.Kind,
			"case_id":     n.CaseID,
			"case_number": n.CaseNumber,
			"recipient":   n.Recipient,
			"message":     n.Message,
			"data":        string(n.Data),
			"timestamp":   strconv.FormatInt(n.CreatedAt.Unix(), 10),
		},
	}
	if d.opts.MaxLen > 0 {
		args.MaxLen = d.opts.MaxLen
		args.Approx = true
	}

	id, err := d.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("failed to publish %s notification for %s: %w", n.Kind, n.CaseNumber, err)
	}
	d.logger.Debug("notification published",
		zap.String("stream", d.opts.Stream),
		zap.String("entry_id", id),
		zap.String("kind", n.Kind),
		zap.String("case_number", n.CaseNumber),
		zap.String("recipient", n.Recipient))
	return nil
}

// Recent returns up to count notifications, newest first.
func (d *StreamDispatcher) Recent(ctx context.Context, count int64) ([]Notification, error) {
	msgs, err := d.client.XRevRangeN(ctx, d.opts.Stream, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}

	out := make([]Notification, 0, len(msgs))
	for _, m := range msgs {
		n := Notification{
			ID:         field(m.Values, "id"),
			Kind:       field(m.Values, "kind"),
			CaseID:     field(m.Values, "case_id"),
			CaseNumber: field(m.Values, "case_number"),
			Recipient:  field(m.Values, "recipient"),
			Message:    field(m.Values, "message"),
		}
		if data := field(m.Values, "data"); data != "" {
			n.Data = json.RawMessage(data)
		}
		if ts, err := strconv.ParseInt(field(m.Values, "timestamp"), 10, 64); err == nil {
			n.CreatedAt = time.Unix(ts, 0).UTC()
		}
		out = append(out, n)
	}
	return out, nil
}

func field(values map[string]any, key string) string {
	s, _ := values[key].(string)
	return s
}
