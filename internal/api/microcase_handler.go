package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/api/shared"
	"github.com/phrazzld/microcase-api/internal/platform/logger"
	"github.com/phrazzld/microcase-api/internal/service/microcase"
)

// MicroCaseHandler serves the micro-case endpoints.
type MicroCaseHandler struct {
	service microcase.Service
	logger  *slog.Logger
}

// NewMicroCaseHandler creates a new MicroCaseHandler.
func NewMicroCaseHandler(service microcase.Service, logger *slog.Logger) *MicroCaseHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MicroCaseHandler{
		service: service,
		logger:  logger.With(slog.String("component", "microcase_handler")),
	}
}

// ListCases handles GET /api/micro-cases?status=
func (h *MicroCaseHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	h.listCases(w, r, r.URL.Query().Get("status"))
}

// GetCase handles GET /api/micro-cases/{id}
func (h *MicroCaseHandler) GetCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := getPathCaseID(r, "id")
	if err != nil {
		respondCaseIDError(w, r, err)
		return
	}
	h.getCase(w, r, caseID)
}

// ValidateCase handles GET /api/micro-cases/{id}/validation
func (h *MicroCaseHandler) ValidateCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := getPathCaseID(r, "id")
	if err != nil {
		respondCaseIDError(w, r, err)
		return
	}

	report, err := h.service.ValidateCase(r.Context(), shared.CallerFrom(r.Context()), caseID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ValidateCaseResponse{
		OK:     true,
		CaseID: report.CaseID,
		Valid:  report.Valid,
		Issues: report.Issues,
	})
}

// SubmitAttempt handles POST /api/micro-cases/attempts
func (h *MicroCaseHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	caller := shared.CallerFrom(r.Context())

	// Identity is checked before the body is read
	if !caller.IsAuthenticated() {
		HandleAPIError(w, r, microcase.ErrUnauthenticated)
		return
	}

	var req SubmitAttemptRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		respondBadRequest(w, r, CodeInvalidPayload, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		respondBadRequest(w, r, CodeInvalidPayload, err)
		return
	}
	sub, err := req.ToSubmission()
	if err != nil {
		respondBadRequest(w, r, CodeInvalidPayload, err)
		return
	}

	result, err := h.service.SubmitAttempt(r.Context(), caller, sub)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if result.Warning != "" {
		log.Warn("attempt recorded with warning",
			slog.String("attempt_id", result.AttemptID.String()),
			slog.String("warning", result.Warning))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SubmitAttemptResponse{
		OK:        true,
		AttemptID: result.AttemptID,
		Warning:   result.Warning,
	})
}

// ListMyAttempts handles GET /api/micro-cases/attempts?limit=
func (h *MicroCaseHandler) ListMyAttempts(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.service.ListMyAttempts(r.Context(), shared.CallerFrom(r.Context()), queryLimit(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ListAttemptsResponse{
		OK:       true,
		Attempts: attemptsToResponse(attempts),
	})
}

func (h *MicroCaseHandler) listCases(w http.ResponseWriter, r *http.Request, status string) {
	cases, err := h.service.ListCases(r.Context(), shared.CallerFrom(r.Context()), status)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ListCasesResponse{
		OK:    true,
		Cases: caseSummariesToResponse(cases),
	})
}

func (h *MicroCaseHandler) getCase(w http.ResponseWriter, r *http.Request, caseID uuid.UUID) {
	g, err := h.service.GetCase(r.Context(), shared.CallerFrom(r.Context()), caseID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GetCaseResponse{
		OK:   true,
		Case: graphToResponse(g),
	})
}

// respondBadRequest writes a 400 with a sanitized detail.
func respondBadRequest(w http.ResponseWriter, r *http.Request, code string, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, code, err,
		shared.WithDetail(SanitizeValidationError(err)))
}
