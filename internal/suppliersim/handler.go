// Package suppliersim is a stand-in for a real supplier webhook. It answers
// order requests with fabricated quotes after a short random delay, so the
// webhook transport variant can be exercised without any external system.
package suppliersim

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/part-order-service/internal/domain"
)

const (
	minUnitPrice = 1099
	maxUnitPrice = 1599
	packSize     = 10
)

type Handler struct {
	logger     *slog.Logger
	outOfStock map[string]bool

	mu  sync.Mutex
	rng *rand.Rand
}

// NewHandler builds the simulator. Parts listed in outOfStock are quoted
// with order quantity zero. A nil src seeds the random source from the
// clock.
func NewHandler(logger *slog.Logger, outOfStock []string, src rand.Source) *Handler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}

	oos := make(map[string]bool, len(outOfStock))
	for _, id := range outOfStock {
		oos[id] = true
	}

	return &Handler{
		logger:     logger,
		outOfStock: oos,
		rng:        rand.New(src),
	}
}

// quoteResponse deliberately encodes the unit price as a string with a
// trailing unit token, the way the flakier real suppliers do.
type quoteResponse struct {
	QuoteID       string      `json:"quote_id"`
	PartID        string      `json:"part_id"`
	UnitPrice     string      `json:"unit_price"`
	ConfirmedDate domain.Date `json:"confirmed_delivery_date"`
	MinOrderQty   int         `json:"min_order_quantity"`
	OrderQuantity int         `json:"order_quantity"`
	PackCount     int         `json:"pack_count"`
	Expedite      bool        `json:"expedite"`
}

func (h *Handler) HandleRequestOrder(w http.ResponseWriter, r *http.Request) {
	var draft domain.OrderDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if draft.PartID == "" || draft.DeliveryDate.IsZero() || draft.Quantity < 1 {
		h.writeError(w, http.StatusBadRequest, "part_id, delivery_date and quantity are required")
		return
	}

	h.mu.Lock()
	price := minUnitPrice + h.rng.Int63n(maxUnitPrice-minUnitPrice+1)
	offset := 2 + h.rng.Intn(3)
	delay := time.Duration(100+h.rng.Intn(301)) * time.Millisecond
	h.mu.Unlock()

	time.Sleep(delay)

	orderQty := draft.Quantity
	if h.outOfStock[draft.PartID] {
		orderQty = 0
	}

	resp := quoteResponse{
		QuoteID:       "ORD-" + uuid.New().String()[:8],
		PartID:        draft.PartID,
		UnitPrice:     fmt.Sprintf("%d.%02d USD", price/100, price%100),
		ConfirmedDate: draft.DeliveryDate.AddDays(offset),
		MinOrderQty:   1,
		OrderQuantity: orderQty,
		PackCount:     (orderQty + packSize - 1) / packSize,
		Expedite:      draft.Expedite,
	}

	h.logger.Info("quote issued",
		"quote_id", resp.QuoteID,
		"part_id", resp.PartID,
		"order_quantity", resp.OrderQuantity,
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleConfirmOrder(w http.ResponseWriter, r *http.Request) {
	var confirmation domain.FinalConfirmation
	if err := json.NewDecoder(r.Body).Decode(&confirmation); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.logger.Info("confirmation received",
		"quote_id", confirmation.QuoteID,
		"part_name", confirmation.PartName,
		"facility", confirmation.Facility,
		"total_price", confirmation.TotalPrice.String(),
	)
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
