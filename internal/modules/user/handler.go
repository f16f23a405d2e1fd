package user

import (
	"fmt"
	"net/http"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/georgemunganga/fuelnow-backend/internal/httpx"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts signup.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/api/v1/users/register", h.registerUser)
}

// RegisterRoutes mounts the authenticated endpoints; r must already carry
// auth.Middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Get("/me", h.me)
		r.Get("/{id}", h.getUser)
		r.With(auth.RequireRole(auth.RolePumpAdmin)).Put("/{id}/ban", h.setBanned) // PUT /api/v1/users/{id}/ban {"banned": true}
	})
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, user)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.MustSession(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	user, err := h.service.Me(r.Context(), sess)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, user)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.MustSession(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	user, err := h.service.Get(r.Context(), sess, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, user)
}

func (h *Handler) setBanned(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.MustSession(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req struct {
		Banned bool `json:"banned"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	user, err := h.service.SetBanned(r.Context(), sess, id, req.Banned)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, user)
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("user %w", apperr.ErrNotFound)
	}
	return id, nil
}
