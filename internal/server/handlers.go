package server

import (
	"brokerage/internal/engine"
	"brokerage/types"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// brokerService is what the handlers need from the engine.
type brokerService interface {
	GetPortfolio(ctx context.Context, userId int64) (types.PortfolioView, error)
	SubmitOrder(ctx context.Context, req engine.SubmitOrderRequest) (engine.SubmitResult, error)
	SearchInstruments(ctx context.Context, query string) ([]types.Instrument, error)
}

type handlers struct {
	svc brokerService
	log zerolog.Logger
}

func newHandlers(svc brokerService, log zerolog.Logger) *handlers {
	return &handlers{svc: svc, log: log}
}

// orderView is the order shape returned by the submission endpoint.
type orderView struct {
	Id           int64             `json:"id"`
	Status       types.OrderStatus `json:"status"`
	InstrumentId int64             `json:"instrumentId"`
	Side         types.Side        `json:"side"`
	Type         types.OrderType   `json:"type"`
	Quantity     decimal.Decimal   `json:"quantity"`
	Price        decimal.Decimal   `json:"price"`
	Datetime     time.Time         `json:"datetime"`
}

func newOrderView(order types.Order) orderView {
	return orderView{
		Id:           order.Id,
		Status:       order.Status,
		InstrumentId: order.InstrumentId,
		Side:         order.Side,
		Type:         order.Type,
		Quantity:     order.Size,
		Price:        order.Price,
		Datetime:     order.Datetime,
	}
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "OK"})
}

func (h *handlers) getPortfolio(w http.ResponseWriter, r *http.Request) {
	userId, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "userId must be an integer"})
		return
	}

	view, err := h.svc.GetPortfolio(r.Context(), userId)
	if err != nil {
		if errors.Is(err, engine.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "User not found"})
			return
		}
		h.log.Error().Err(err).Int64("user_id", userId).Msg("portfolio read failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "Error fetching portfolio"})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handlers) submitOrder(w http.ResponseWriter, r *http.Request) {
	var req engine.SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validRequest(req) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid request data",
		})
		return
	}

	result, err := h.svc.SubmitOrder(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "User not found"})
		case errors.Is(err, engine.ErrInstrumentNotFound):
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Instrument not found"})
		default:
			h.log.Error().Err(err).Int64("user_id", req.UserId).Msg("order submission failed")
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Error submitting order"})
		}
		return
	}

	if result.Rejection != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Order rejected",
			"error":   result.Rejection.Error(),
			"order":   newOrderView(result.Order),
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Order submitted successfully",
		"order":   newOrderView(result.Order),
	})
}

func (h *handlers) searchInstruments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "Query parameter is required and must be a string",
		})
		return
	}

	instruments, err := h.svc.SearchInstruments(r.Context(), query)
	if err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("instrument search failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Error searching instruments",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    instruments,
		"count":   len(instruments),
	})
}

// validRequest rejects structurally broken submissions before the core runs.
func validRequest(req engine.SubmitOrderRequest) bool {
	if req.UserId == 0 || req.InstrumentId == 0 {
		return false
	}
	if req.Side != types.SideBuy && req.Side != types.SideSell {
		return false
	}
	if req.Type != types.TypeMarket && req.Type != types.TypeLimit {
		return false
	}
	if req.Quantity.IsZero() && req.TotalAmount.IsZero() {
		return false
	}
	if req.Type == types.TypeLimit && req.Price.IsZero() {
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
