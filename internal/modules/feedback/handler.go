package feedback

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/georgemunganga/fuelnow-backend/internal/httpx"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/api/v1/pumps/{id}/feedback/summary", h.summary)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/feedback", func(r chi.Router) {
		r.With(auth.RequireRole(auth.RoleConsumer)).Post("/", h.submit)
		r.With(auth.RequireRole(auth.RolePumpAdmin)).Get("/pump", h.listForPump) // ?min_rating=4&sort=highest
	})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.MustSession(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req SubmitRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	f, err := h.service.Submit(r.Context(), sess, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, f)
}

func (h *Handler) listForPump(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.MustSession(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	filter := Filter{Sort: Sort(r.URL.Query().Get("sort"))}
	if v := r.URL.Query().Get("min_rating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httpx.Error(w, r, fmt.Errorf("%w: min_rating must be a number", apperr.ErrInvalidInput))
			return
		}
		filter.MinRating = n
	}
	list, err := h.service.ListForPump(r.Context(), sess, filter)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if list == nil {
		list = []*Feedback{}
	}
	httpx.Respond(w, http.StatusOK, list)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, fmt.Errorf("pump %w", apperr.ErrNotFound))
		return
	}
	s, err := h.service.Summary(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, s)
}
