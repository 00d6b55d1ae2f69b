package http

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"matchd/internal/api/dto"
	"matchd/internal/core"
	"matchd/internal/domain"
	"matchd/internal/ingest"
	"matchd/internal/metrics"
	"matchd/internal/middleware"
	"matchd/internal/port"
)

// Server is the order gateway. It validates and deduplicates submissions,
// assigns monotonically increasing order ids, and hands validated orders
// to the ingestion queue; matching itself happens on the engine worker,
// so submission is asynchronous.
type Server struct {
	queue *ingest.Queue
	repo  port.Repository
	cache port.Cache
	log   *zap.Logger
	mx    *metrics.Metrics

	rateLimit time.Duration
	nextID    atomic.Uint64
	submitted sync.Map // client_order_id -> struct{}, for deduplication
}

func NewServer(q *ingest.Queue, repo port.Repository, cache port.Cache, log *zap.Logger, mx *metrics.Metrics, rateLimit time.Duration) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		queue:     q,
		repo:      repo,
		cache:     cache,
		log:       log,
		mx:        mx,
		rateLimit: rateLimit,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if s.rateLimit > 0 {
		rl := middleware.NewRateLimiter(s.rateLimit)
		r.Use(rl.Middleware())
	}

	r.POST("/orders", s.submitOrder)
	r.GET("/orders/:id", s.getOrder)
	r.GET("/orders/:id/trades", s.getTrades)
	r.GET("/orderbook", s.getOrderbook)
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func (s *Server) submitOrder(c *gin.Context) {
	var req dto.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := ValidateOrder(&req); err != nil {
		if s.mx != nil {
			s.mx.OrdersRejected.Inc()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientOrderID := req.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}
	if _, exists := s.submitted.LoadOrStore(clientOrderID, struct{}{}); exists {
		if s.mx != nil {
			s.mx.OrdersRejected.Inc()
		}
		c.JSON(http.StatusConflict, dto.SubmitOrderResponse{
			ClientOrderID: clientOrderID,
			Status:        "rejected",
			Message:       core.ErrDuplicateOrder.Error(),
		})
		return
	}

	o := &domain.Order{
		ID:            s.nextID.Add(1),
		ClientID:      req.ClientID,
		ClientOrderID: clientOrderID,
		Side:          domain.Side(req.Side),
		Price:         req.Price,
		Quantity:      req.Quantity,
		Remaining:     req.Quantity,
		Status:        domain.Open,
		CreatedAt:     time.Now(),
	}

	// Blocks while the queue is full: backpressure reaches the client
	// instead of dropping the order.
	if err := s.queue.Submit(c.Request.Context(), o); err != nil {
		// the order never reached the queue: release the dedup key so a
		// retry with the same client_order_id is not refused as a duplicate
		s.submitted.Delete(clientOrderID)
		status := http.StatusServiceUnavailable
		if !errors.Is(err, ingest.ErrQueueClosed) {
			status = http.StatusRequestTimeout
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if s.mx != nil {
		s.mx.OrdersAccepted.Inc()
		s.mx.QueueDepth.Set(float64(s.queue.Depth()))
	}
	s.log.Debug("order accepted",
		zap.Uint64("order_id", o.ID),
		zap.String("client_order_id", clientOrderID),
		zap.String("side", string(o.Side)),
		zap.String("price", o.Price.String()),
		zap.String("quantity", o.Quantity.String()),
	)

	c.JSON(http.StatusAccepted, dto.SubmitOrderResponse{
		OrderID:       o.ID,
		ClientOrderID: clientOrderID,
		Status:        "accepted",
	})
}

func (s *Server) getOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	o, err := s.repo.LoadOrder(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.GetOrderResponse{Order: convertOrder(o)})
}

func (s *Server) getTrades(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	trades, err := s.repo.LoadTradesForOrder(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.GetTradesResponse{Trades: convertTrades(trades)})
}

func (s *Server) getOrderbook(c *gin.Context) {
	ob, err := s.cache.GetOrderbook(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if ob == nil {
		ob = &domain.OrderbookSnapshot{Timestamp: time.Now()}
	}
	c.JSON(http.StatusOK, dto.GetOrderbookResponse{
		Bids:      convertOrders(ob.Bids),
		Asks:      convertOrders(ob.Asks),
		Timestamp: ob.Timestamp,
	})
}

// ValidateOrder rejects malformed submissions before they can reach the
// book: unknown side, non-positive price or quantity.
func ValidateOrder(req *dto.SubmitOrderRequest) error {
	switch req.Side {
	case dto.Buy, dto.Sell:
	default:
		return core.ErrInvalidSide
	}
	if !req.Price.IsPositive() {
		return core.ErrInvalidPrice
	}
	if !req.Quantity.IsPositive() {
		return core.ErrInvalidQuantity
	}
	return nil
}

func convertOrder(o *domain.Order) dto.Order {
	return dto.Order{
		ID:            o.ID,
		ClientID:      o.ClientID,
		ClientOrderID: o.ClientOrderID,
		Side:          dto.Side(o.Side),
		Price:         o.Price,
		Quantity:      o.Quantity,
		Remaining:     o.Remaining,
		Filled:        o.FilledQuantity(),
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
}

func convertOrders(orders []domain.Order) []dto.Order {
	res := make([]dto.Order, len(orders))
	for i := range orders {
		res[i] = convertOrder(&orders[i])
	}
	return res
}

func convertTrades(trades []*domain.Trade) []dto.Trade {
	res := make([]dto.Trade, len(trades))
	for i, t := range trades {
		res[i] = dto.Trade{
			ID:        t.ID,
			BuyOrder:  t.BuyOrderID(),
			SellOrder: t.SellOrderID(),
			MakerID:   t.MakerID,
			TakerID:   t.TakerID,
			Price:     t.Price,
			Quantity:  t.Quantity,
			Sequence:  t.Sequence,
			Timestamp: t.Timestamp,
		}
	}
	return res
}
