// Package api is the HTTP adapter over the matching engine: submission,
// cancellation, order lookup and book-depth reporting, plus health and
// Prometheus scrape endpoints. Grounded in the teacher's ServeMux +
// writeJSON style, with the request envelope's field names (kind, side,
// limit_price, amount) taken from the original source's Create request.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"matchvenue/internal/book"
	"matchvenue/internal/dispatch"
	"matchvenue/internal/engine"
	"matchvenue/internal/idalloc"
	"matchvenue/internal/metrics"
	"matchvenue/internal/order"
	"matchvenue/internal/scalar"
)

// CreateOrderRequest is the submission envelope. Kind/Side are the
// upper-case wire tags ("LIMIT", "ASK", ...) used throughout the venue.
type CreateOrderRequest struct {
	Kind       string `json:"kind"`
	Side       string `json:"side"`
	LimitPrice uint64 `json:"limit_price"`
	Amount     uint64 `json:"amount"`
}

// CreateOrderResponse reports the order's state immediately after
// TryInsert returns — which may already be Completed if it matched in
// full against the resting book.
type CreateOrderResponse struct {
	OrderID   uint64 `json:"order_id"`
	Status    string `json:"status"`
	Amount    uint64 `json:"amount"`
	Remaining uint64 `json:"remaining"`
}

// CancelOrderResponse reports the order's terminal state after Cancel.
type CancelOrderResponse struct {
	OrderID uint64 `json:"order_id"`
	Status  string `json:"status"`
}

// GetOrderResponse is the full order snapshot returned by GET .../orders/{id}.
type GetOrderResponse struct {
	OrderID    uint64 `json:"order_id"`
	Kind       string `json:"kind"`
	Side       string `json:"side"`
	LimitPrice uint64 `json:"limit_price"`
	Amount     uint64 `json:"amount"`
	Remaining  uint64 `json:"remaining"`
	Status     string `json:"status"`
}

// LevelResponse is one price level's aggregate resting quantity.
type LevelResponse struct {
	Price    uint64 `json:"price"`
	Quantity uint64 `json:"quantity"`
}

// DepthResponse is the depth-of-book snapshot returned by GET .../book/{side}.
type DepthResponse struct {
	Side   string          `json:"side"`
	Total  uint64          `json:"total"`
	Levels []LevelResponse `json:"levels"`
}

// HealthResponse reports basic liveness and uptime.
type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Server is the HTTP front door onto a single Engine. Every mutating
// request is funneled through the Dispatcher, which guarantees the engine
// never sees two operations interleaved.
type Server struct {
	listenAddr string
	engine     *engine.Engine
	dispatcher *dispatch.Dispatcher
	ids        idalloc.Allocator
	logger     zerolog.Logger
	startTime  time.Time
}

// New returns a Server ready to Run.
func New(listenAddr string, eng *engine.Engine, d *dispatch.Dispatcher, ids idalloc.Allocator, logger zerolog.Logger) *Server {
	return &Server{
		listenAddr: listenAddr,
		engine:     eng,
		dispatcher: d,
		ids:        ids,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// Mux builds the request router. Exposed separately from Run so tests can
// drive it with httptest without binding a real listener.
func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/orders", s.handleCreateOrder)
	mux.HandleFunc("DELETE /v1/orders/{id}", s.handleCancelOrder)
	mux.HandleFunc("GET /v1/orders/{id}", s.handleGetOrder)
	mux.HandleFunc("GET /v1/book/{side}", s.handleGetDepth)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	return mux
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	s.logger.Info().Str("addr", s.listenAddr).Msg("api server listening")
	return http.ListenAndServe(s.listenAddr, s.Mux())
}

func parseKind(s string) (order.Kind, bool) {
	switch s {
	case "LIMIT":
		return order.Limit, true
	case "MARKET":
		return order.Market, true
	case "STOP":
		return order.Stop, true
	case "TRAILING":
		return order.Trailing, true
	default:
		return 0, false
	}
}

func parseSide(s string) (order.Side, bool) {
	switch s {
	case "ASK":
		return order.Ask, true
	case "BID":
		return order.Bid, true
	default:
		return 0, false
	}
}

func parseOrderID(s string) (scalar.OrderId, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return scalar.OrderId(n), true
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	kind, ok := parseKind(req.Kind)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown kind"})
		return
	}
	side, ok := parseSide(req.Side)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown side"})
		return
	}

	id := s.ids.Next()
	o := order.New(id, kind, side, scalar.Amount(req.Amount), scalar.LimitPrice(req.LimitPrice), uint64(time.Now().UnixNano()))

	var submitErr error
	err := s.dispatcher.Submit(r.Context(), func() {
		submitErr = s.engine.TryInsert(o)
	})
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	if submitErr != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": submitErr.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, CreateOrderResponse{
		OrderID:   uint64(o.ID),
		Status:    o.Status.String(),
		Amount:    uint64(o.Amount),
		Remaining: uint64(o.Remaining),
	})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}

	var cancelled *order.Order
	var cancelErr error
	err := s.dispatcher.Submit(r.Context(), func() {
		cancelled, cancelErr = s.engine.Cancel(id)
	})
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	if cancelErr != nil {
		if errors.Is(cancelErr, engine.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": cancelErr.Error()})
		return
	}

	writeJSON(w, http.StatusOK, CancelOrderResponse{
		OrderID: uint64(cancelled.ID),
		Status:  cancelled.Status.String(),
	})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}

	o, found := s.engine.Get(id)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}

	writeJSON(w, http.StatusOK, GetOrderResponse{
		OrderID:    uint64(o.ID),
		Kind:       o.CurrentKind.String(),
		Side:       o.Side.String(),
		LimitPrice: uint64(o.LimitPrice),
		Amount:     uint64(o.Amount),
		Remaining:  uint64(o.Remaining),
		Status:     o.Status.String(),
	})
}

func (s *Server) handleGetDepth(w http.ResponseWriter, r *http.Request) {
	side, ok := parseSide(r.PathValue("side"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown side"})
		return
	}

	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil {
			limit = n
		}
	}

	levels := s.engine.Levels(side, limit)
	resp := DepthResponse{
		Side:   side.String(),
		Total:  uint64(s.engine.Depth(side)),
		Levels: make([]LevelResponse, len(levels)),
	}
	for i, l := range levels {
		resp.Levels[i] = levelResponseFrom(l)
	}

	writeJSON(w, http.StatusOK, resp)
}

func levelResponseFrom(l book.LevelSnapshot) LevelResponse {
	return LevelResponse{Price: uint64(l.Price), Quantity: uint64(l.Quantity)}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
