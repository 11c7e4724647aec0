package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/example/grievance/internal/apperr"
	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/primary"
)

// SubmitCase accepts a new grievance on any submission channel.
func (h *Handler) SubmitCase(w http.ResponseWriter, r *http.Request) {
	var body submitBody
	if err := decode(r, &body); err != nil {
		h.respondError(w, err)
		return
	}

	cc := grievance.ChannelContext(body.Context)
	if cc.IPAddress == "" {
		cc.IPAddress = r.RemoteAddr
	}
	if cc.UserAgent == "" {
		cc.UserAgent = r.UserAgent()
	}

	c, err := h.svc.Intake.Submit(r.Context(), primary.SubmitCaseRequest{
		Channel: body.Channel,
		Case: grievance.SubmitRequest{
			ComplainantID:    body.ComplainantID,
			ComplainantName:  body.ComplainantName,
			ComplainantEmail: body.ComplainantEmail,
			ComplainantPhone: body.ComplainantPhone,
			Anonymous:        body.Anonymous,
			Subject:          body.Subject,
			Description:      body.Description,
			Category:         body.Category,
			Priority:         body.Priority,
			Urgent:           body.Urgent,
		},
		Context: cc,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, toCaseView(c))
}

// ListCases lists cases matching the query parameters.
func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := primary.CaseFilters{
		Status:        q.Get("status"),
		Category:      q.Get("category"),
		Priority:      q.Get("priority"),
		Channel:       q.Get("channel"),
		AssignedTo:    q.Get("assigned_to"),
		EscalatedOnly: q.Get("escalated") == "true",
		Search:        q.Get("q"),
	}
	var bad []string
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			bad = append(bad, "limit")
		}
		filters.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			bad = append(bad, "offset")
		}
		filters.Offset = n
	}
	if len(bad) > 0 {
		h.respondError(w, apperr.Validation(bad...))
		return
	}

	cases, err := h.svc.Cases.ListCases(r.Context(), filters)
	if err != nil {
		h.respondError(w, err)
		return
	}
	views := make([]caseView, 0, len(cases))
	for _, c := range cases {
		views = append(views, toCaseView(c))
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"cases": views, "count": len(views)})
}

// GetStatistics returns the case population snapshot.
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Cases.GetStatistics(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, stats)
}

// GetCase retrieves a case by ID.
func (h *Handler) GetCase(w http.ResponseWriter, r *http.Request) {
	h.respondCase(w, http.StatusOK)(h.svc.Cases.GetCase(r.Context(), mux.Vars(r)["id"]))
}

// GetCaseByNumber retrieves a case by its case number.
func (h *Handler) GetCaseByNumber(w http.ResponseWriter, r *http.Request) {
	h.respondCase(w, http.StatusOK)(h.svc.Cases.GetCaseByNumber(r.Context(), mux.Vars(r)["number"]))
}

// GetTimeline returns a case's activities in order.
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	acts, err := h.svc.Cases.GetTimeline(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	views := make([]activityView, 0, len(acts))
	for _, a := range acts {
		views = append(views, toActivityView(a))
	}
	h.respondJSON(w, http.StatusOK, views)
}

func (h *Handler) AssignCase(w http.ResponseWriter, r *http.Request) {
	var body assignBody
	if err := decode(r, &body); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondCase(w, http.StatusOK)(h.svc.Cases.AssignCase(r.Context(), mux.Vars(r)["id"], body.Assignee))
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var body statusBody
	if err := decode(r, &body); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondCase(w, http.StatusOK)(h.svc.Cases.ChangeStatus(r.Context(), mux.Vars(r)["id"], body.Status, body.Note))
}

func (h *Handler) ResolveCase(w http.ResponseWriter, r *http.Request) {
	var body resolveBody
	if err := decode(r, &body); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondCase(w, http.StatusOK)(h.svc.Cases.ResolveCase(r.Context(), mux.Vars(r)["id"], body.Summary, body.Actions))
}

func (h *Handler) CloseCase(w http.ResponseWriter, r *http.Request) {
	var body closeBody
	if err := decode(r, &body); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondCase(w, http.StatusOK)(h.svc.Cases.CloseCase(r.Context(), mux.Vars(r)["id"], body.Rating, body.Feedback))
}

func (h *Handler) RejectCase(w http.ResponseWriter, r *http.Request) {
	var body reasonBody
	if err := decode(r, &body); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondCase(w, http.StatusOK)(h.svc.Cases.RejectCase(r.Context(), mux.Vars(r)["id"], body.Reason))
}

func (h *Handler) CancelCase(w http.ResponseWriter, r *http.Request) {
	var body reasonBody
	if err := decode(r, &body); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondCase(w, http.StatusOK)(h.svc.Cases.CancelCase(r.Context(), mux.Vars(r)["id"], body.Reason))
}

func (h *Handler) ReopenCase(w http.ResponseWriter, r *http.Request) {
	var body reasonBody
	if err := decode(r, &body); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondCase(w, http.StatusOK)(h.svc.Cases.ReopenCase(r.Context(), mux.Vars(r)["id"], body.Reason))
}

// EscalateCase moves a case up its ladder.
func (h *Handler) EscalateCase(w http.ResponseWriter, r *http.Request) {
	var body escalateBody
	if err := decode(r, &body); err != nil {
		h.respondError(w, err)
		return
	}
	result, err := h.svc.Escalations.Escalate(r.Context(), primary.EscalateRequest{
		CaseID:      mux.Vars(r)["id"],
		Trigger:     body.Trigger,
		Reason:      body.Reason,
		InitiatedBy: body.InitiatedBy,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// ReceiveCommunication records an inbound message.
func (h *Handler) ReceiveCommunication(w http.ResponseWriter, r *http.Request) {
	var body inboundBody
	if err := decode(r, &body); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondCase(w, http.StatusOK)(h.svc.Communication.HandleInbound(r.Context(), primary.InboundRequest{
		CaseID:  mux.Vars(r)["id"],
		Channel: body.Channel,
		Subject: body.Subject,
		Content: body.Content,
		From:    body.From,
	}))
}

// SendCommunication delivers an outbound message. The outcome is on the
// case timeline; 202 means it was attempted and recorded.
func (h *Handler) SendCommunication(w http.ResponseWriter, r *http.Request) {
	var body outboundBody
	if err := decode(r, &body); err != nil {
		h.respondError(w, err)
		return
	}
	err := h.svc.Communication.SendOutbound(r.Context(), primary.OutboundRequest{
		CaseID:           mux.Vars(r)["id"],
		Channel:          body.Channel,
		Recipient:        body.Recipient,
		Subject:          body.Subject,
		Content:          body.Content,
		RequiresResponse: body.RequiresResponse,
		IsAutomated:      body.IsAutomated,
		IsInternal:       body.IsInternal,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

// GetTracking returns the unified communication view of a case.
func (h *Handler) GetTracking(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Communication.GetUnifiedTracking(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// GetEscalationAnalytics summarizes recent escalations.
func (h *Handler) GetEscalationAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Analytics.GetEscalationAnalytics(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) respondCase(w http.ResponseWriter, status int) func(*grievance.Case, error) {
	return func(c *grievance.Case, err error) {
		if err != nil {
			h.respondError(w, err)
			return
		}
		h.respondJSON(w, status, toCaseView(c))
	}
}
