package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ali-aktas/hocalingo-api/internal/api/shared"
	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
	"github.com/ali-aktas/hocalingo-api/internal/redact"
	"github.com/ali-aktas/hocalingo-api/internal/service"
)

// StatsHandler handles session and daily-progress HTTP requests.
type StatsHandler struct {
	statsService service.StatsService
	logger       *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StatsHandler")
	}

	return &StatsHandler{
		statsService: statsService,
		logger:       logger.With(slog.String("component", "stats_handler")),
	}
}

// GetTodayStats handles GET /api/stats/today requests. A day without any
// activity reads as zero counts, not as an error.
func (h *StatsHandler) GetTodayStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID := shared.GetProfileID(r.Context())
	if profileID == "" {
		log.Warn("profile ID not found in request context")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Profile not resolved")
		return
	}

	stats, err := h.statsService.TodayStats(r.Context(), profileID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to load today's stats"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// StreakResponse reports the learner's run of consecutive active days.
type StreakResponse struct {
	Streak int `json:"streak"`
}

// GetStreak handles GET /api/stats/streak requests.
func (h *StatsHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID := shared.GetProfileID(r.Context())
	if profileID == "" {
		log.Warn("profile ID not found in request context")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Profile not resolved")
		return
	}

	streak, err := h.statsService.StreakLength(r.Context(), profileID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to compute streak"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StreakResponse{Streak: streak})
}

// StartSessionRequest is the body of a session start request.
type StartSessionRequest struct {
	Type string `json:"type" validate:"required,oneof=regular quick_review"`
}

// StartSession handles POST /api/sessions requests. It opens a new study
// session and returns it; overlapping open sessions are permitted.
func (h *StatsHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID := shared.GetProfileID(r.Context())
	if profileID == "" {
		log.Warn("profile ID not found in request context")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Profile not resolved")
		return
	}

	var req StartSessionRequest
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

	sessionType, err := domain.ParseSessionType(req.Type)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	session, err := h.statsService.StartSession(r.Context(), profileID, sessionType)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to start session"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("started session over API",
		slog.String("profile_id", profileID),
		slog.String("session_id", session.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, session)
}

// FinishSessionRequest carries the final counts of a closing session.
// Pointers distinguish "missing" from a legitimate zero.
type FinishSessionRequest struct {
	WordsStudied   *int `json:"words_studied"   validate:"required,gte=0"`
	CorrectAnswers *int `json:"correct_answers" validate:"required,gte=0"`
}

// FinishSession handles POST /api/sessions/{id}/finish requests. Sessions
// close exactly once; finishing an already closed session is a conflict.
func (h *StatsHandler) FinishSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	pathSessionID := chi.URLParam(r, "id")
	sessionID, err := uuid.Parse(pathSessionID)
	if err != nil {
		log.Warn("invalid session ID format", slog.String("session_id", pathSessionID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	var req FinishSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("session_id", sessionID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	session, err := h.statsService.FinishSession(
		r.Context(),
		sessionID,
		*req.WordsStudied,
		*req.CorrectAnswers,
	)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to finish session"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("finished session over API",
		slog.String("session_id", session.ID.String()),
		slog.Int("words_studied", session.WordsStudied))
	shared.RespondWithJSON(w, r, http.StatusOK, session)
}
