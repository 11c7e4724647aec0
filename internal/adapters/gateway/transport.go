package gateway

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/grievance/internal/ports/secondary"
)

var _ secondary.Transport = (*Transport)(nil)

// Messaging provider endpoints.
const (
	EmailPath  = "/v1/email"
	SMSPath    = "/v1/sms"
	PostalPath = "/v1/postal"
)

type emailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type smsRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type postalRequest struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// deliveryReply is the messaging provider's answer.
type deliveryReply struct {
	Accepted  bool   `json:"accepted"`
	MessageID string `json:"message_id"`
	Reason    string `json:"reason"`
}

// Transport implements secondary.Transport over the messaging provider.
// A 4xx reply means the provider refused the message and is reported as
// not accepted; transport failures and 5xx replies are errors.
type Transport struct {
	client *Client
}

// NewTransport creates a messaging transport.
func NewTransport(client *Client) *Transport {
	return &Transport{client: client}
}

// SendEmail delivers an email.
func (t *Transport) SendEmail(ctx context.Context, to, subject, body string) (bool, error) {
	return t.deliver(ctx, EmailPath, emailRequest{To: to, Subject: subject, Body: body})
}

// SendSMS delivers a text message.
func (t *Transport) SendSMS(ctx context.Context, to, body string) (bool, error) {
	return t.deliver(ctx, SMSPath, smsRequest{To: to, Body: body})
}

// SendPostalMail queues a letter for printing and posting.
func (t *Transport) SendPostalMail(ctx context.Context, recipient, subject, body string) (bool, error) {
	return t.deliver(ctx, PostalPath, postalRequest{Recipient: recipient, Subject: subject, Body: body})
}

func (t *Transport) deliver(ctx context.Context, path string, body any) (bool, error) {
	var reply deliveryReply
	err := t.client.post(ctx, path, body, &reply)

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !reply.Accepted {
		t.client.logger.Info("message not accepted", zap.String("path", path), zap.String("reason", reply.Reason))
	}
	return reply.Accepted, nil
}
