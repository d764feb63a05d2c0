package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/meetsync/internal/application"
)

type scheduleService interface {
	CreateSchedule(ctx context.Context, params application.CreateScheduleParams) (application.Schedule, error)
	UpdateSchedule(ctx context.Context, params application.UpdateScheduleParams) (application.Schedule, error)
	DeleteSchedule(ctx context.Context, principal application.Principal, scheduleID string) error
	ListSchedules(ctx context.Context, params application.ListSchedulesParams) (application.SchedulePage, error)
	GetScheduleDetails(ctx context.Context, principal application.Principal, scheduleID string) (application.ScheduleDetails, error)
}

// ScheduleHandler serves the schedule lifecycle endpoints.
type ScheduleHandler struct {
	service   scheduleService
	responder responder
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(service scheduleService, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{service: service, responder: newResponder(logger)}
}

type scheduleRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	BaseTimeZone    *string `json:"base_time_zone"`
	DurationMinutes *int    `json:"duration_minutes"`
}

type scheduleDTO struct {
	ID              string    `json:"id"`
	OwnerUserID     string    `json:"owner_user_id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	BaseTimeZone    *string   `json:"base_time_zone,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type schedulePageDTO struct {
	Items    []scheduleDTO `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type scheduleDetailsDTO struct {
	Schedule     scheduleDTO      `json:"schedule"`
	Participants []participantDTO `json:"participants"`
	Suggestions  []suggestionDTO  `json:"suggestions"`
}

func toScheduleDTO(schedule application.Schedule) scheduleDTO {
	return scheduleDTO{
		ID:              schedule.ID,
		OwnerUserID:     schedule.OwnerUserID,
		Name:            schedule.Name,
		Description:     schedule.Description,
		BaseTimeZone:    schedule.BaseTimeZone,
		DurationMinutes: schedule.DurationMinutes,
		CreatedAt:       schedule.CreatedAt,
		UpdatedAt:       schedule.UpdatedAt,
	}
}

// Create handles POST /schedules.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeBadRequest(r.Context(), w, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	name := ""
	if req.Name != nil {
		name = *req.Name
	}

	schedule, err := h.service.CreateSchedule(r.Context(), application.CreateScheduleParams{
		Principal: principal,
		Input: application.CreateScheduleInput{
			Name:            name,
			Description:     req.Description,
			BaseTimeZone:    req.BaseTimeZone,
			DurationMinutes: req.DurationMinutes,
		},
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeData(r.Context(), w, http.StatusCreated, toScheduleDTO(schedule))
}

// Update handles PUT /schedules/{id}.
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	scheduleID, ok := ScheduleIDFromContext(r.Context())
	if !ok || strings.TrimSpace(scheduleID) == "" {
		h.responder.writeBadRequest(r.Context(), w, errInvalidScheduleID)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeBadRequest(r.Context(), w, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	schedule, err := h.service.UpdateSchedule(r.Context(), application.UpdateScheduleParams{
		Principal:  principal,
		ScheduleID: scheduleID,
		Input: application.UpdateScheduleInput{
			Name:            req.Name,
			Description:     req.Description,
			BaseTimeZone:    req.BaseTimeZone,
			DurationMinutes: req.DurationMinutes,
		},
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeData(r.Context(), w, http.StatusOK, toScheduleDTO(schedule))
}

// Delete handles DELETE /schedules/{id}.
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	scheduleID, ok := ScheduleIDFromContext(r.Context())
	if !ok || strings.TrimSpace(scheduleID) == "" {
		h.responder.writeBadRequest(r.Context(), w, errInvalidScheduleID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	if err := h.service.DeleteSchedule(r.Context(), principal, scheduleID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeData(r.Context(), w, http.StatusOK, nil)
}

// List handles GET /schedules.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	page, err := h.service.ListSchedules(r.Context(), application.ListSchedulesParams{
		Principal: principal,
		Page:      queryInt(r, "page"),
		PageSize:  queryInt(r, "page_size"),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	items := make([]scheduleDTO, 0, len(page.Items))
	for _, schedule := range page.Items {
		items = append(items, toScheduleDTO(schedule))
	}

	h.responder.writeData(r.Context(), w, http.StatusOK, schedulePageDTO{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// Get handles GET /schedules/{id} and returns the schedule with all children.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	scheduleID, ok := ScheduleIDFromContext(r.Context())
	if !ok || strings.TrimSpace(scheduleID) == "" {
		h.responder.writeBadRequest(r.Context(), w, errInvalidScheduleID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	details, err := h.service.GetScheduleDetails(r.Context(), principal, scheduleID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	participants := make([]participantDTO, 0, len(details.Participants))
	for _, participant := range details.Participants {
		participants = append(participants, toParticipantDTO(participant))
	}
	suggestions := make([]suggestionDTO, 0, len(details.Suggestions))
	for _, suggestion := range details.Suggestions {
		suggestions = append(suggestions, toSuggestionDTO(suggestion))
	}

	h.responder.writeData(r.Context(), w, http.StatusOK, scheduleDetailsDTO{
		Schedule:     toScheduleDTO(details.Schedule),
		Participants: participants,
		Suggestions:  suggestions,
	})
}

// queryInt parses an integer query parameter, returning zero when the value is
// absent or malformed so the service applies its defaults.
func queryInt(r *http.Request, name string) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
