package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ali-aktas/hocalingo-api/internal/api/shared"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
	"github.com/ali-aktas/hocalingo-api/internal/redact"
	"github.com/ali-aktas/hocalingo-api/internal/service"
)

// GenerationHandler handles AI item generation HTTP requests.
type GenerationHandler struct {
	generationService service.GenerationService
	logger            *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(
	generationService service.GenerationService,
	logger *slog.Logger,
) *GenerationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GenerationHandler")
	}

	return &GenerationHandler{
		generationService: generationService,
		logger:            logger.With(slog.String("component", "generation_handler")),
	}
}

// GenerationRequest is the body of a generation request.
type GenerationRequest struct {
	Category string `json:"category" validate:"required"`
	Level    string `json:"level"    validate:"required"`
}

// GenerationAcceptedResponse is returned when a generation request is
// accepted for background processing. The ID is the handle for polling.
type GenerationAcceptedResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// RequestGeneration handles POST /api/generation requests. Generation runs
// in the background; the response carries the task ID to poll. A used-up
// daily quota is a 429.
func (h *GenerationHandler) RequestGeneration(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID := shared.GetProfileID(r.Context())
	if profileID == "" {
		log.Warn("profile ID not found in request context")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Profile not resolved")
		return
	}

	var req GenerationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("profile_id", profileID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	taskID, err := h.generationService.RequestGeneration(
		r.Context(),
		profileID,
		req.Category,
		req.Level,
	)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to submit generation request"
		}
		// Quota exhaustion is an operational signal worth seeing in logs.
		if statusCode == http.StatusTooManyRequests {
			shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err,
				shared.WithElevatedLogLevel())
			return
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("accepted generation request over API",
		slog.String("profile_id", profileID),
		slog.String("task_id", taskID.String()))
	shared.RespondWithJSON(w, r, http.StatusAccepted, GenerationAcceptedResponse{
		ID:     taskID.String(),
		Status: "pending",
	})
}

// GetGenerationStatus handles GET /api/generation/{id} requests. It serves
// the persisted state of the background task so callers can poll until it
// reaches a terminal state.
func (h *GenerationHandler) GetGenerationStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	pathTaskID := chi.URLParam(r, "id")
	taskID, err := uuid.Parse(pathTaskID)
	if err != nil {
		log.Warn("invalid task ID format", slog.String("task_id", pathTaskID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid generation request ID")
		return
	}

	info, err := h.generationService.Status(r.Context(), taskID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to load generation status"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, info)
}
