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

type participantService interface {
	UpsertParticipant(ctx context.Context, params application.UpsertParticipantParams) ([]application.Participant, error)
	DeleteParticipant(ctx context.Context, principal application.Principal, scheduleID, participantID string) error
}

// ParticipantHandler serves the participant endpoints nested under a schedule.
type ParticipantHandler struct {
	service   participantService
	responder responder
}

// NewParticipantHandler constructs a participant handler.
func NewParticipantHandler(service participantService, logger *slog.Logger) *ParticipantHandler {
	return &ParticipantHandler{service: service, responder: newResponder(logger)}
}

type participantRequest struct {
	ID               *string `json:"id"`
	Name             string  `json:"name"`
	TimeZone         string  `json:"time_zone"`
	AvailabilityJSON *string `json:"availability_json"`
}

type participantDTO struct {
	ID               string    `json:"id"`
	ScheduleID       string    `json:"schedule_id"`
	Name             string    `json:"name"`
	TimeZone         string    `json:"time_zone"`
	AvailabilityJSON *string   `json:"availability_json,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func toParticipantDTO(participant application.Participant) participantDTO {
	return participantDTO{
		ID:               participant.ID,
		ScheduleID:       participant.ScheduleID,
		Name:             participant.Name,
		TimeZone:         participant.TimeZone,
		AvailabilityJSON: participant.AvailabilityJSON,
		CreatedAt:        participant.CreatedAt,
	}
}

// Upsert handles PUT /schedules/{id}/participants and responds with the full
// refreshed participant list for the schedule.
func (h *ParticipantHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	scheduleID, ok := ScheduleIDFromContext(r.Context())
	if !ok || strings.TrimSpace(scheduleID) == "" {
		h.responder.writeBadRequest(r.Context(), w, errInvalidScheduleID)
		return
	}

	var req participantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeBadRequest(r.Context(), w, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	participants, err := h.service.UpsertParticipant(r.Context(), application.UpsertParticipantParams{
		Principal: principal,
		Input: application.ParticipantInput{
			ID:               req.ID,
			ScheduleID:       scheduleID,
			Name:             req.Name,
			TimeZone:         req.TimeZone,
			AvailabilityJSON: req.AvailabilityJSON,
		},
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]participantDTO, 0, len(participants))
	for _, participant := range participants {
		out = append(out, toParticipantDTO(participant))
	}

	h.responder.writeData(r.Context(), w, http.StatusOK, out)
}

// Delete handles DELETE /schedules/{id}/participants/{pid}.
func (h *ParticipantHandler) Delete(w http.ResponseWriter, r *http.Request, participantID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	scheduleID, ok := ScheduleIDFromContext(r.Context())
	if !ok || strings.TrimSpace(scheduleID) == "" {
		h.responder.writeBadRequest(r.Context(), w, errInvalidScheduleID)
		return
	}
	if strings.TrimSpace(participantID) == "" {
		h.responder.writeBadRequest(r.Context(), w, errInvalidChildID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	if err := h.service.DeleteParticipant(r.Context(), principal, scheduleID, participantID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeData(r.Context(), w, http.StatusOK, nil)
}
