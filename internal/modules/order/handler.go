package order

import (
	"fmt"
	"net/http"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/georgemunganga/fuelnow-backend/internal/httpx"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes order HTTP endpoints. Routes must be mounted behind
// auth.Middleware.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.With(auth.RequireRole(auth.RoleConsumer)).Post("/", h.placeOrder)  // POST   /api/v1/orders
		r.With(auth.RequireRole(auth.RoleConsumer)).Get("/mine", h.listMine) // GET    /api/v1/orders/mine

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RolePumpAdmin))
			r.Get("/pump", h.listPumpOrders)      // GET    /api/v1/orders/pump?status=pending
			r.Get("/pump/stats", h.pumpStats)     // GET    /api/v1/orders/pump/stats
			r.Get("/pump/customers", h.customers) // GET    /api/v1/orders/pump/customers
		})

		r.Get("/{id}", h.getOrder)              // GET    /api/v1/orders/{id}
		r.Get("/{id}/history", h.orderHistory)  // GET    /api/v1/orders/{id}/history
		r.Patch("/{id}/status", h.updateStatus) // PATCH  /api/v1/orders/{id}/status
		r.Post("/{id}/{action}", h.applyAction) // POST   /api/v1/orders/{id}/accept
		r.Delete("/{id}", h.cancelOrder)        // DELETE /api/v1/orders/{id}
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.MustSession(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req PlaceOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	o, err := h.service.Place(r.Context(), sess, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}
	o, err := h.service.Get(r.Context(), sess, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) orderHistory(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}
	entries, err := h.service.History(r.Context(), sess, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, entries)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), sess, id, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) applyAction(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}
	var (
		o   *Order
		err error
	)
	switch Action(chi.URLParam(r, "action")) {
	case ActionAccept:
		o, err = h.service.Accept(r.Context(), sess, id)
	case ActionDecline:
		o, err = h.service.Decline(r.Context(), sess, id)
	case ActionDispatch:
		o, err = h.service.Dispatch(r.Context(), sess, id)
	case ActionDeliver:
		o, err = h.service.Deliver(r.Context(), sess, id)
	case ActionCancel:
		o, err = h.service.Cancel(r.Context(), sess, id)
	default:
		err = fmt.Errorf("%w: unknown action %q", apperr.ErrNotFound, chi.URLParam(r, "action"))
	}
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}
	o, err := h.service.Cancel(r.Context(), sess, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.MustSession(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	orders, err := h.service.ListMine(r.Context(), sess)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	respondList(w, orders)
}

func (h *Handler) listPumpOrders(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.MustSession(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	orders, err := h.service.ListForPump(r.Context(), sess, r.URL.Query().Get("status"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	respondList(w, orders)
}

func (h *Handler) pumpStats(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.MustSession(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	stats, err := h.service.Stats(r.Context(), sess)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, stats)
}

func (h *Handler) customers(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.MustSession(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	customers, err := h.service.Customers(r.Context(), sess)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, customers)
}

func sessionAndID(w http.ResponseWriter, r *http.Request) (auth.Session, uuid.UUID, bool) {
	sess, err := auth.MustSession(r)
	if err != nil {
		httpx.Error(w, r, err)
		return auth.Session{}, uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, fmt.Errorf("order %w", apperr.ErrNotFound))
		return auth.Session{}, uuid.Nil, false
	}
	return sess, id, true
}

func respondList(w http.ResponseWriter, orders []*Order) {
	if orders == nil {
		orders = []*Order{}
	}
	httpx.Respond(w, http.StatusOK, orders)
}
