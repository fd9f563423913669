package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"git.sr.ht/~jakintosh/requestline/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Notifier receives a best-effort signal after a request is created. It
// must not block the response path; implementations do their own retries
// or give up silently.
type Notifier interface {
	RequestCreated(req *domain.Request)
}

type Server struct {
	store    domain.Store
	router   *http.ServeMux
	logger   *slog.Logger
	metrics  *Metrics
	notifier Notifier
}

type ServerOptions struct {
	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
	// Notifier may be nil when no webhook is configured.
	Notifier Notifier
}

func NewServer(store domain.Store, opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		store:    store,
		router:   http.NewServeMux(),
		logger:   logger.With("component", "web"),
		metrics:  NewMetrics(registry),
		notifier: opts.Notifier,
	}
	s.routes(registry)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(registry *prometheus.Registry) {
	s.router.HandleFunc("GET /api/requests", s.handleListRequests)
	s.router.HandleFunc("POST /api/requests", s.handleCreateRequest)
	s.router.HandleFunc("PUT /api/requests/reorder", s.handleReorder)
	s.router.HandleFunc("PUT /api/requests/{id}/status", s.handleSetStatus)
	s.router.HandleFunc("PUT /api/requests/{id}/sortposition", s.handleSetSortPosition)
	s.router.HandleFunc("DELETE /api/requests/{id}", s.handleDeleteRequest)
	s.router.HandleFunc("GET /api/health", s.handleHealth)
	s.router.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := s.store.List()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var input domain.NewRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := s.store.Create(input)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.metrics.Created.Inc()
	s.logger.Info("request created", "id", req.ID, "submittedBy", req.SubmittedBy)

	if s.notifier != nil {
		go s.notifier.RequestCreated(req)
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": req.ID})
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.store.SetStatus(id, domain.Status(body.Status)); err != nil {
		s.writeError(w, err)
		return
	}

	s.metrics.StatusChanges.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "status updated"})
}

func (s *Server) handleSetSortPosition(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var body struct {
		Position int `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.store.SetSortPosition(id, body.Position); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "sort position updated"})
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.IDs == nil {
		writeErrorMessage(w, http.StatusBadRequest, "ids must be an array")
		return
	}

	if err := s.store.Reorder(body.IDs); err != nil {
		s.writeError(w, err)
		return
	}

	s.metrics.Reorders.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "order updated"})
}

func (s *Server) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(id); err != nil {
		s.writeError(w, err)
		return
	}

	s.metrics.Deletes.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "request deleted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeError maps a store error onto the response taxonomy: validation and
// bad enum values are the caller's fault, unknown ids are 404, anything
// else is an internal fault worth logging.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var validation domain.ValidationError
	var invalidStatus domain.InvalidStatusError
	switch {
	case errors.As(err, &validation):
		writeErrorMessage(w, http.StatusBadRequest, validation.Error())
	case errors.As(err, &invalidStatus):
		writeErrorMessage(w, http.StatusBadRequest, invalidStatus.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, "request not found")
	default:
		s.logger.Error("store operation failed", "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeErrorMessage(w, http.StatusNotFound, "request not found")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
