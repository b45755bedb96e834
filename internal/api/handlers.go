package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"rufay/internal/auth"
	"rufay/internal/database"
	"rufay/internal/flightsearch"
	"rufay/internal/ledger"
	"rufay/internal/logger"
)

// WorkflowClient is the part of the Temporal client the API uses
type WorkflowClient interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
	SignalWorkflow(ctx context.Context, workflowID, runID, signalName string, arg interface{}) error
	QueryWorkflow(ctx context.Context, workflowID, runID, queryType string, args ...interface{}) (converter.EncodedValue, error)
}

// Options wires the handler. Search and Temporal may be nil; the features they back are then
// unavailable or skipped.
type Options struct {
	Ledger    *ledger.Service
	Auth      *auth.Service
	Search    *flightsearch.Searcher
	Temporal  WorkflowClient
	TaskQueue string
	Hold      time.Duration
}

type Handler struct {
	ledger    *ledger.Service
	auth      *auth.Service
	search    *flightsearch.Searcher
	temporal  WorkflowClient
	taskQueue string
	hold      time.Duration
	log       zerolog.Logger
}

func NewHandler(opts Options) *Handler {
	return &Handler{
		ledger:    opts.Ledger,
		auth:      opts.Auth,
		search:    opts.Search,
		temporal:  opts.Temporal,
		taskQueue: opts.TaskQueue,
		hold:      opts.Hold,
		log:       logger.WithComponent("api"),
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	BlockedBy string `json:"blockedBy,omitempty"`
	Reference string `json:"reference,omitempty"`
}

func decodeJSON(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return &ledger.ValidationError{Field: "body", Message: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrValidation), errors.Is(err, flightsearch.ErrInvalidCriteria):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, database.ErrOwnerNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDependencyExists),
		errors.Is(err, ledger.ErrVersionConflict),
		errors.Is(err, ledger.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail maps a service error onto a status and body. Store failures are logged, not echoed.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorResponse{Error: err.Error()}

	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
	}
	var derr *ledger.DependencyError
	if errors.As(err, &derr) {
		body.BlockedBy = derr.BlockedBy
		body.Reference = derr.Reference
	}

	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		body = errorResponse{Error: "internal server error"}
	}
	respondJSON(w, status, body)
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}
