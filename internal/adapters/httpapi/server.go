// Package httpapi exposes the grievance services over a JSON REST API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/example/grievance/internal/apperr"
	"github.com/example/grievance/internal/ctxutil"
	"github.com/example/grievance/internal/ports/primary"
	"github.com/example/grievance/internal/telemetry"
)

// Actor headers identify who performs a request.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

// Services bundles the primary ports the API drives.
type Services struct {
	Intake        primary.IntakeService
	Cases         primary.CaseService
	Escalations   primary.EscalationService
	Analytics     primary.AnalyticsService
	Communication primary.CommunicationService
}

// Handler serves the REST API.
type Handler struct {
	svc     Services
	logger  *zap.Logger
	metrics *telemetry.Metrics
	health  func(ctx context.Context) error
}

// NewRouter builds the router with every route and middleware installed.
// health may be nil; it backs the /health endpoint.
func NewRouter(svc Services, logger *zap.Logger, metrics *telemetry.Metrics, health func(ctx context.Context) error) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{svc: svc, logger: logger, metrics: metrics, health: health}

	router := mux.NewRouter()
	router.Use(h.recovery, h.observe, actorMiddleware)

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	if metrics != nil {
		router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	h.RegisterRoutes(api)
	return router
}

// RegisterRoutes registers the case management routes.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/cases", h.SubmitCase).Methods(http.MethodPost)
	r.HandleFunc("/cases", h.ListCases).Methods(http.MethodGet)
	r.HandleFunc("/cases/statistics", h.GetStatistics).Methods(http.MethodGet)
	r.HandleFunc("/cases/by-number/{number}", h.GetCaseByNumber).Methods(http.MethodGet)
	r.HandleFunc("/cases/{id}", h.GetCase).Methods(http.MethodGet)
	r.HandleFunc("/cases/{id}/timeline", h.GetTimeline).Methods(http.MethodGet)
	r.HandleFunc("/cases/{id}/assign", h.AssignCase).Methods(http.MethodPost)
	r.HandleFunc("/cases/{id}/status", h.ChangeStatus).Methods(http.MethodPost)
	r.HandleFunc("/cases/{id}/resolve", h.ResolveCase).Methods(http.MethodPost)
	r.HandleFunc("/cases/{id}/close", h.CloseCase).Methods(http.MethodPost)
	r.HandleFunc("/cases/{id}/reject", h.RejectCase).Methods(http.MethodPost)
	r.HandleFunc("/cases/{id}/cancel", h.CancelCase).Methods(http.MethodPost)
	r.HandleFunc("/cases/{id}/reopen", h.ReopenCase).Methods(http.MethodPost)
	r.HandleFunc("/cases/{id}/escalate", h.EscalateCase).Methods(http.MethodPost)
	r.HandleFunc("/cases/{id}/communications/inbound", h.ReceiveCommunication).Methods(http.MethodPost)
	r.HandleFunc("/cases/{id}/communications/outbound", h.SendCommunication).Methods(http.MethodPost)
	r.HandleFunc("/tracking/{number}", h.GetTracking).Methods(http.MethodGet)
	r.HandleFunc("/analytics/escalations", h.GetEscalationAnalytics).Methods(http.MethodGet)
}

// Health reports whether the store is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func actorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(HeaderActorID); id != "" {
			r = r.WithContext(ctxutil.WithActor(r.Context(), id, r.Header.Get(HeaderActorRole)))
		}
		next.ServeHTTP(w, r)
	})
}

// responseWriter captures the status code for logging and metrics.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)
		duration := time.Since(start)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		if h.metrics != nil {
			h.metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapper.statusCode)).Inc()
			h.metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())
		}
		h.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", wrapper.statusCode),
			zap.Int64("duration_ms", duration.Milliseconds()),
			zap.String("remote_addr", r.RemoteAddr))
	})
}

func (h *Handler) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("stack", string(debug.Stack())),
					zap.String("path", r.URL.Path))
				h.respondJSON(w, http.StatusInternalServerError, errorBody{Code: apperr.CodeInternal, Message: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type errorBody struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
	Fields  []string    `json:"fields,omitempty"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}

// respondError maps err to its HTTP status. Internal errors are logged and
// their detail withheld from the client.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	code := apperr.CodeOf(err)
	body := errorBody{Code: code, Message: err.Error(), Fields: apperr.FieldsOf(err)}

	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		body.Message = appErr.Message
	}
	if code == apperr.CodeInternal {
		h.logger.Error("request failed", zap.Error(err))
		body.Message = "internal error"
	}
	h.respondJSON(w, apperr.HTTPStatus(code), body)
}

// decode reads a JSON body into dst; a malformed body is a validation failure.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		e := apperr.Validation("body")
		e.Message = "invalid request body: " + err.Error()
		return e
	}
	return nil
}

// Server runs the API until its context is cancelled.
type Server struct {
	http   *http.Server
	logger *zap.Logger
}

// NewServer creates a server listening on addr.
func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.http.Addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return s.http.Shutdown(shutdownCtx)
	}
}
