package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/grievance/internal/apperr"
	"github.com/example/grievance/internal/core/effects"
	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/primary"
	"github.com/example/grievance/internal/ports/secondary"
)

// CommunicationServiceImpl implements the CommunicationService interface.
type CommunicationServiceImpl struct {
	rt        Runtime
	transport secondary.Transport
}

// NewCommunicationService creates a new CommunicationService with injected dependencies.
func NewCommunicationService(rt Runtime, transport secondary.Transport) *CommunicationServiceImpl {
	return &CommunicationServiceImpl{rt: rt.withDefaults(), transport: transport}
}

// HandleInbound records an inbound communication and applies the keyword heuristics.
func (s *CommunicationServiceImpl) HandleInbound(ctx context.Context, req primary.InboundRequest) (*grievance.Case, error) {
	ch, ok := grievance.ParseChannel(req.Channel)
	if !ok {
		return nil, apperr.Validation("channel")
	}
	comm := grievance.InboundCommunication{Channel: ch, Subject: req.Subject, Content: req.Content, From: req.From}

	c, err := s.rt.mutate(ctx, req.CaseID, func(c *grievance.Case, m grievance.Mutation) ([]effects.Effect, error) {
		return grievance.ApplyInbound(c, comm, s.rt.Policy.SLA, m), nil
	})
	if err != nil {
		return nil, err
	}
	s.rt.Metrics.Communication(string(grievance.DirectionInbound), string(ch), "RECEIVED")
	return c, nil
}

// SendOutbound delivers a message over the requested channel and records the
// outcome. Transport failures become a FAILED activity, not an error.
func (s *CommunicationServiceImpl) SendOutbound(ctx context.Context, req primary.OutboundRequest) error {
	if strings.TrimSpace(req.Channel) == "" {
		return apperr.Validation("channel")
	}
	c, err := s.rt.Repo.FindByID(ctx, req.CaseID)
	if err != nil {
		return err
	}

	ch, ok := grievance.ParseChannel(req.Channel)
	if !ok {
		ch = grievance.Channel(strings.ToUpper(strings.TrimSpace(req.Channel)))
	}
	comm := grievance.OutboundCommunication{
		Channel:          ch,
		Recipient:        req.Recipient,
		Subject:          req.Subject,
		Content:          req.Content,
		RequiresResponse: req.RequiresResponse,
		IsAutomated:      req.IsAutomated,
		IsInternal:       req.IsInternal,
	}
	plan := grievance.PlanOutbound(c, comm)
	outcome := s.deliver(ctx, c, comm, plan)

	grievance.RecordOutbound(c, comm, plan, outcome, s.rt.Policy.SLA, s.rt.mutation(ctx))
	if err := s.rt.Repo.Save(ctx, c); err != nil {
		return fmt.Errorf("failed to save communication on %s: %w", c.CaseNumber, err)
	}
	s.rt.Metrics.Communication(string(grievance.DirectionOutbound), string(ch), string(outcome))
	return nil
}

func (s *CommunicationServiceImpl) deliver(ctx context.Context, c *grievance.Case, comm grievance.OutboundCommunication, plan grievance.OutboundPlan) grievance.Outcome {
	log := s.rt.Logger.With(
		zap.String("case_number", c.CaseNumber),
		zap.String("channel", string(comm.Channel)),
		zap.String("recipient", plan.Recipient))

	var (
		sent bool
		err  error
	)
	switch plan.Route {
	case grievance.RouteEmail:
		sent, err = s.transport.SendEmail(ctx, plan.Recipient, comm.Subject, comm.Content)
	case grievance.RouteSMS:
		sent, err = s.transport.SendSMS(ctx, plan.Recipient, comm.Content)
	case grievance.RoutePostal:
		sent, err = s.transport.SendPostalMail(ctx, plan.Recipient, comm.Subject, comm.Content)
	case grievance.RouteLogOnly:
		log.Info("phone communication logged")
		return grievance.OutcomeSent
	default:
		log.Warn("unsupported communication channel")
		return grievance.OutcomeFailed
	}

	if err != nil {
		log.Error("outbound delivery failed", zap.Error(err))
		return grievance.OutcomeFailed
	}
	if !sent {
		log.Warn("outbound delivery rejected by provider")
		return grievance.OutcomeFailed
	}
	log.Info("outbound communication sent")
	return grievance.OutcomeSent
}

// GetUnifiedTracking aggregates every communication of the case with number.
func (s *CommunicationServiceImpl) GetUnifiedTracking(ctx context.Context, caseNumber string) (*grievance.TrackingView, error) {
	c, err := s.rt.Repo.FindByCaseNumber(ctx, caseNumber)
	if err != nil {
		return nil, err
	}
	view := grievance.BuildTracking(c)
	return &view, nil
}
