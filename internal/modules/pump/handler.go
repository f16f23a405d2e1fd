package pump

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

// RegisterPublicRoutes mounts signup and the directory.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/api/v1/pumps/register", h.register)
	r.Get("/api/v1/pumps", h.list)
	r.Get("/api/v1/pumps/{id}", h.get)
}

// RegisterRoutes mounts the admin endpoints behind auth.Middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/pump", func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RolePumpAdmin))
		r.Get("/", h.mine)            // GET /api/v1/pump
		r.Put("/prices", h.setPrices) // PUT /api/v1/pump/prices
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	reg, err := h.service.Register(r.Context(), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, reg)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	pumps, err := h.service.List(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if pumps == nil {
		pumps = []*Pump{}
	}
	httpx.Respond(w, http.StatusOK, pumps)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, fmt.Errorf("pump %w", apperr.ErrNotFound))
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) mine(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.MustSession(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.service.GetMine(r.Context(), sess)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) setPrices(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.MustSession(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req UpdatePricesRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.service.UpdatePrices(r.Context(), sess, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}
