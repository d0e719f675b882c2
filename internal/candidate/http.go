package candidate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/candidate-screening/internal/auth"
	httperrors "github.com/gokatarajesh/candidate-screening/pkg/http/errors"
)

type workflow interface {
	SaveProfile(ctx context.Context, identity uuid.UUID, req SaveProfileRequest) (string, error)
	GenerateExam(ctx context.Context, identity uuid.UUID, req GenerateExamRequest) (string, error)
}

// HTTPHandlers exposes the two callable operations. Both expect
// auth.AuthMiddleware to run first.
type HTTPHandlers struct {
	svc    workflow
	logger zerolog.Logger
}

func NewHTTPHandlers(svc workflow, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		logger: logger.With().Str("component", "candidate_http").Logger(),
	}
}

type resultResponse struct {
	Result string `json:"result"`
}

// SaveProfile handles POST /v1/profile
func (h *HTTPHandlers) SaveProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	var req SaveProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	msg, err := h.svc.SaveProfile(r.Context(), auth.IdentityFromContext(r.Context()), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondResult(w, msg)
}

// GenerateExam handles POST /v1/exams
func (h *HTTPHandlers) GenerateExam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	var req GenerateExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	msg, err := h.svc.GenerateExam(r.Context(), auth.IdentityFromContext(r.Context()), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondResult(w, msg)
}

func (h *HTTPHandlers) respondError(w http.ResponseWriter, err error) {
	var cerr *Error
	if !errors.As(err, &cerr) {
		h.logger.Error().Err(err).Msg("unclassified error")
		httperrors.RespondInternalError(w, msgInternal)
		return
	}

	switch cerr.Code {
	case CodeUnauthenticated:
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthenticated, cerr.Message)
	case CodeInvalidArgument:
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidArgument, cerr.Message, cerr.Field)
	default:
		httperrors.RespondInternalError(w, cerr.Message)
	}
}

func (h *HTTPHandlers) respondResult(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resultResponse{Result: msg})
}
