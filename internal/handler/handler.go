package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"meeting-intake-api/internal/middleware"
	"meeting-intake-api/internal/store"
)

type Handler struct {
	store    *store.Store
	secret   string
	basePath string // mount point, used to build ics_download_url
}

func New(st *store.Store, secret, basePath string) *Handler {
	return &Handler{store: st, secret: secret, basePath: basePath}
}

// Routes returns the router to mount at the handler's base path. Public
// create, ICS download, login, logout and refresh are open; everything
// else requires a bearer access token.
func (h *Handler) Routes(rl *middleware.RateLimiter) chi.Router {
	authed := middleware.RequireAuth(h.secret)

	r := chi.NewRouter()
	r.Post("/", h.CreateMeeting)
	r.With(authed).Get("/list/", h.ListMeetings)
	r.With(authed).Put("/{id}/", h.UpdateMeeting)
	r.With(authed).Delete("/{id}/", h.DeleteMeeting)
	r.Get("/{id}/ics/", h.DownloadICS)
	r.With(rl.Limit).Post("/admin/login/", h.Login)
	r.Post("/admin/logout/", h.Logout)
	r.Post("/admin/refresh/", h.Refresh)
	r.With(authed).Post("/admin/create/", h.AdminCreateMeeting)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fieldErrors maps offending field names to messages; serialized as-is
// in 400 responses so clients can attach messages to inputs.
type fieldErrors map[string]string

func (fe fieldErrors) write(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, fe)
}
