package pricing

import (
	"context"
	"net/http"

	"github.com/georgemunganga/fuelnow-backend/internal/httpx"
	"github.com/go-chi/chi/v5"
)

// BoardSource looks up a pump's current price board.
type BoardSource interface {
	PriceBoard(ctx context.Context, pumpID string) (PriceBoard, error)
}

// Handler serves live quote previews. The quote is informational only; an
// order is priced again when it is placed.
type Handler struct{ boards BoardSource }

func NewHandler(boards BoardSource) *Handler { return &Handler{boards: boards} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/pricing/quote", h.quote) // GET /api/v1/pricing/quote?pump_id=&fuel_type=&quantity=
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ft, err := ParseFuelType(q.Get("fuel_type"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	quantity, err := ParseQuantity(Amount(q.Get("quantity")))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	board, err := h.boards.PriceBoard(r.Context(), q.Get("pump_id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	quote, err := Resolve(board, ft, quantity)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, quote)
}
