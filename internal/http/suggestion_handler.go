package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/meetsync/internal/application"
)

type suggestionService interface {
	UpsertSuggestion(ctx context.Context, params application.UpsertSuggestionParams) ([]application.Suggestion, error)
	DeleteSuggestion(ctx context.Context, principal application.Principal, scheduleID, suggestionID string) error
}

// SuggestionHandler serves the suggestion endpoints nested under a schedule.
type SuggestionHandler struct {
	service   suggestionService
	responder responder
}

// NewSuggestionHandler constructs a suggestion handler.
func NewSuggestionHandler(service suggestionService, logger *slog.Logger) *SuggestionHandler {
	return &SuggestionHandler{service: service, responder: newResponder(logger)}
}

type suggestionRequest struct {
	ID                *string   `json:"id"`
	SuggestedStartUTC time.Time `json:"suggested_start_utc"`
	SuggestedEndUTC   time.Time `json:"suggested_end_utc"`
	ParticipantsJSON  *string   `json:"participants_json"`
	Score             *int      `json:"score"`
	Notes             *string   `json:"notes"`
}

type suggestionDTO struct {
	ID                string    `json:"id"`
	ScheduleID        string    `json:"schedule_id"`
	SuggestedStartUTC time.Time `json:"suggested_start_utc"`
	SuggestedEndUTC   time.Time `json:"suggested_end_utc"`
	ParticipantsJSON  *string   `json:"participants_json,omitempty"`
	Score             *int      `json:"score,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func toSuggestionDTO(suggestion application.Suggestion) suggestionDTO {
	return suggestionDTO{
		ID:                suggestion.ID,
		ScheduleID:        suggestion.ScheduleID,
		SuggestedStartUTC: suggestion.SuggestedStartUTC,
		SuggestedEndUTC:   suggestion.SuggestedEndUTC,
		ParticipantsJSON:  suggestion.ParticipantsJSON,
		Score:             suggestion.Score,
		Notes:             suggestion.Notes,
		CreatedAt:         suggestion.CreatedAt,
	}
}

// Upsert handles PUT /schedules/{id}/suggestions and responds with the full
// refreshed suggestion list for the schedule.
func (h *SuggestionHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	scheduleID, ok := ScheduleIDFromContext(r.Context())
	if !ok || strings.TrimSpace(scheduleID) == "" {
		h.responder.writeBadRequest(r.Context(), w, errInvalidScheduleID)
		return
	}

	var req suggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeBadRequest(r.Context(), w, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	suggestions, err := h.service.UpsertSuggestion(r.Context(), application.UpsertSuggestionParams{
		Principal: principal,
		Input: application.SuggestionInput{
			ID:                req.ID,
			ScheduleID:        scheduleID,
			SuggestedStartUTC: req.SuggestedStartUTC,
			SuggestedEndUTC:   req.SuggestedEndUTC,
			ParticipantsJSON:  req.ParticipantsJSON,
			Score:             req.Score,
			Notes:             req.Notes,
		},
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]suggestionDTO, 0, len(suggestions))
	for _, suggestion := range suggestions {
		out = append(out, toSuggestionDTO(suggestion))
	}

	h.responder.writeData(r.Context(), w, http.StatusOK, out)
}

// Delete handles DELETE /schedules/{id}/suggestions/{sid}.
func (h *SuggestionHandler) Delete(w http.ResponseWriter, r *http.Request, suggestionID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	scheduleID, ok := ScheduleIDFromContext(r.Context())
	if !ok || strings.TrimSpace(scheduleID) == "" {
		h.responder.writeBadRequest(r.Context(), w, errInvalidScheduleID)
		return
	}
	if strings.TrimSpace(suggestionID) == "" {
		h.responder.writeBadRequest(r.Context(), w, errInvalidChildID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	if err := h.service.DeleteSuggestion(r.Context(), principal, scheduleID, suggestionID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeData(r.Context(), w, http.StatusOK, nil)
}
