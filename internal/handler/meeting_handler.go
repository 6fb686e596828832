package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"meeting-intake-api/internal/calendar"
	"meeting-intake-api/internal/model"
)

type meetingResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Organization      string     `json:"organization"`
	Reason            string     `json:"reason"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	PreferredDatetime *time.Time `json:"preferred_datetime"`
	AssignedDatetime  *time.Time `json:"assigned_datetime"`
	Status            string     `json:"status"`
	Comment           string     `json:"comment"`
	Signature         string     `json:"signature"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toResponse(m *model.Meeting) meetingResponse {
	return meetingResponse{
		ID:                m.ID,
		Name:              m.Name,
		Organization:      m.Organization,
		Reason:            m.Reason,
		Email:             m.Email,
		Phone:             m.Phone,
		PreferredDatetime: m.PreferredDatetime,
		AssignedDatetime:  m.AssignedDatetime,
		Status:            m.Status,
		Comment:           m.Comment,
		Signature:         m.Signature,
		CreatedAt:         m.CreatedAt,
	}
}

func (h *Handler) icsDownloadURL(id string) string {
	return fmt.Sprintf("%s/%s/ics/", h.basePath, id)
}

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

type createMeetingRequest struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Reason       string `json:"reason"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Signature    string `json:"signature"`
}

// CreateMeeting is the public intake endpoint. No datetime fields are
// accepted here; the request lands as pending with no assigned slot.
func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req createMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	errs := fieldErrors{}
	if req.Name == "" {
		errs["name"] = "this field is required"
	}
	if req.Organization == "" {
		errs["organization"] = "this field is required"
	}
	if req.Reason == "" {
		errs["reason"] = "this field is required"
	}
	if req.Email != "" && !validEmail(req.Email) {
		errs["email"] = "enter a valid email address"
	}
	if len(errs) > 0 {
		errs.write(w)
		return
	}

	m := &model.Meeting{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Organization: req.Organization,
		Reason:       req.Reason,
		Email:        req.Email,
		Phone:        req.Phone,
		Signature:    req.Signature,
		Status:       model.StatusPending,
	}
	if err := h.store.CreateMeeting(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	window := calendar.WindowFor(m)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":                   m.ID,
		"ics_download_url":     h.icsDownloadURL(m.ID),
		"google_calendar_link": calendar.GoogleLink(m, window),
	})
}

func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.store.ListMeetings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]meetingResponse, len(meetings))
	for i := range meetings {
		out[i] = toResponse(&meetings[i])
	}
	writeJSON(w, http.StatusOK, out)
}

type updateMeetingRequest struct {
	Comment          *string    `json:"comment"`
	Signature        *string    `json:"signature"`
	Status           *string    `json:"status"`
	AssignedDatetime *time.Time `json:"assigned_datetime"`
}

// UpdateMeeting merges the admin-mutable fields into an existing record.
// Assigning a slot first checks that no other scheduled meeting occupies
// the exact same instant.
func (h *Handler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != nil && !model.ValidStatus(*req.Status) {
		fieldErrors{"status": "must be one of pending, scheduled, completed"}.write(w)
		return
	}

	m, err := h.store.GetMeeting(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Meeting not found")
		return
	}

	if req.AssignedDatetime != nil {
		taken, err := h.store.ScheduledMeetingAt(r.Context(), *req.AssignedDatetime, id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if taken != nil {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error": "Time slot already occupied",
				"conflicting_meeting": map[string]string{
					"name":         taken.Name,
					"organization": taken.Organization,
				},
			})
			return
		}
		m.AssignedDatetime = req.AssignedDatetime
	}
	if req.Comment != nil {
		m.Comment = *req.Comment
	}
	if req.Signature != nil {
		m.Signature = *req.Signature
	}
	if req.Status != nil {
		m.Status = *req.Status
	}

	if err := h.store.UpdateMeeting(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"comment":           m.Comment,
		"signature":         m.Signature,
		"status":            m.Status,
		"assigned_datetime": m.AssignedDatetime,
	})
}

func (h *Handler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.store.GetMeeting(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "Meeting not found")
		return
	}
	if err := h.store.DeleteMeeting(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Meeting deleted successfully"})
}

// DownloadICS regenerates the calendar file on every call; nothing is
// cached or stored.
func (h *Handler) DownloadICS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := h.store.GetMeeting(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Meeting not found")
		return
	}

	ics, err := calendar.ICS(m, calendar.WindowFor(m))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "meeting_"+m.ID+".ics"))
	w.Write([]byte(ics))
}

type adminCreateRequest struct {
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Reason       string `json:"reason"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

func parseClock(s string) (time.Time, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
	}
	return t, err
}

// AdminCreateMeeting books a slot directly: date+start_time become the
// assigned datetime, end_time is only checked against start_time and then
// discarded, and the record is created already scheduled.
func (h *Handler) AdminCreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req adminCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	errs := fieldErrors{}
	if req.Name == "" {
		errs["name"] = "this field is required"
	}
	if req.Organization == "" {
		errs["organization"] = "this field is required"
	}
	if req.Reason == "" {
		errs["reason"] = "this field is required"
	}
	if req.Email != "" && !validEmail(req.Email) {
		errs["email"] = "enter a valid email address"
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		errs["date"] = "enter a valid date (YYYY-MM-DD)"
	}
	start, err := parseClock(req.StartTime)
	if err != nil {
		errs["start_time"] = "enter a valid time (HH:MM)"
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		errs["end_time"] = "enter a valid time (HH:MM)"
	}
	if len(errs) > 0 {
		errs.write(w)
		return
	}
	if !start.Before(end) {
		fieldErrors{"start_time": "start time must be before end time"}.write(w)
		return
	}

	assigned := time.Date(day.Year(), day.Month(), day.Day(),
		start.Hour(), start.Minute(), start.Second(), 0, time.UTC)

	m := &model.Meeting{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Organization:     req.Organization,
		Reason:           req.Reason,
		Email:            req.Email,
		Phone:            req.Phone,
		AssignedDatetime: &assigned,
		Status:           model.StatusScheduled,
	}
	if err := h.store.CreateMeeting(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	window := calendar.WindowFor(m)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":                   m.ID,
		"message":              "Meeting created successfully by admin",
		"ics_download_url":     h.icsDownloadURL(m.ID),
		"google_calendar_link": calendar.GoogleLink(m, window),
		"meeting_details":      toResponse(m),
	})
}
