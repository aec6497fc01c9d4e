// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ali-aktas/hocalingo-api/internal/api/shared"
	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
	"github.com/ali-aktas/hocalingo-api/internal/redact"
	"github.com/ali-aktas/hocalingo-api/internal/service"
)

// StudyHandler handles the study-flow HTTP requests: the due queue, grading,
// and the review reminder pick.
type StudyHandler struct {
	studyService service.StudyService
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService service.StudyService, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}

	return &StudyHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

// QueueResponse is the body of a queue request: the eligible entries in
// study order.
type QueueResponse struct {
	Direction string             `json:"direction"`
	Entries   []domain.QueueEntry `json:"entries"`
}

// GetQueue handles GET /api/queue?direction=forward&limit=20 requests.
// It returns the due entries for the request's profile, most overdue first,
// then never-reviewed items. An empty entries list means nothing is due.
func (h *StudyHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID := shared.GetProfileID(r.Context())
	if profileID == "" {
		log.Warn("profile ID not found in request context")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Profile not resolved")
		return
	}

	direction, err := domain.ParseDirection(r.URL.Query().Get("direction"))
	if err != nil {
		log.Debug("invalid direction in queue request",
			slog.String("direction", r.URL.Query().Get("direction")))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
	}

	entries, err := h.studyService.BuildQueue(r.Context(), profileID, direction, limit)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to build study queue"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	if entries == nil {
		entries = []domain.QueueEntry{}
	}

	log.Debug("served study queue",
		slog.String("profile_id", profileID),
		slog.String("direction", string(direction)),
		slog.Int("entries", len(entries)))
	shared.RespondWithJSON(w, r, http.StatusOK, QueueResponse{
		Direction: string(direction),
		Entries:   entries,
	})
}

// QueueCheckResponse answers "is there anything to study right now".
type QueueCheckResponse struct {
	Direction string `json:"direction"`
	HasDue    bool   `json:"has_due"`
}

// CheckQueue handles GET /api/queue/check?direction=forward requests.
// It reports queue existence without materializing the queue.
func (h *StudyHandler) CheckQueue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID := shared.GetProfileID(r.Context())
	if profileID == "" {
		log.Warn("profile ID not found in request context")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Profile not resolved")
		return
	}

	direction, err := domain.ParseDirection(r.URL.Query().Get("direction"))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	hasDue, err := h.studyService.HasDue(r.Context(), profileID, direction)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to check study queue"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QueueCheckResponse{
		Direction: string(direction),
		HasDue:    hasDue,
	})
}

// GradeRequest is the body of a grading request. Grade uses a pointer so a
// missing field is distinguishable from a legitimate grade of 0.
type GradeRequest struct {
	Direction string `json:"direction" validate:"required"`
	Grade     *int   `json:"grade"     validate:"required"`
}

// SubmitGrade handles POST /api/items/{id}/grade requests. It runs the
// schedule transition for the item and returns the new schedule state along
// with the day's progress, all committed in one transaction.
func (h *StudyHandler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	pathItemID := chi.URLParam(r, "id")
	itemID, err := strconv.ParseInt(pathItemID, 10, 64)
	if err != nil || itemID <= 0 {
		log.Warn("invalid item ID in URL path", slog.String("item_id", pathItemID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID")
		return
	}

	profileID := shared.GetProfileID(r.Context())
	if profileID == "" {
		log.Warn("profile ID not found in request context")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Profile not resolved")
		return
	}

	var req GradeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.Int64("item_id", itemID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.Int64("item_id", itemID))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	direction, err := domain.ParseDirection(req.Direction)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	result, err := h.studyService.Grade(
		r.Context(),
		profileID,
		itemID,
		direction,
		domain.ReviewGrade(*req.Grade),
	)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to record answer"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("recorded graded answer",
		slog.String("profile_id", profileID),
		slog.Int64("item_id", itemID),
		slog.Int("grade", *req.Grade))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// PickReview handles GET /api/review/pick requests. It selects an item
// worth nudging the learner about: one of the most overdue entries, or a
// random studied item when nothing is overdue.
func (h *StudyHandler) PickReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID := shared.GetProfileID(r.Context())
	if profileID == "" {
		log.Warn("profile ID not found in request context")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Profile not resolved")
		return
	}

	item, err := h.studyService.PickReviewItem(r.Context(), profileID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to pick review item"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("served review pick",
		slog.String("profile_id", profileID),
		slog.Int64("item_id", item.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, item)
}
