package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"food-order-service/internal/auth"
	"food-order-service/internal/domain"
	"food-order-service/internal/infra/broadcast"
	"food-order-service/internal/services"
	"food-order-service/internal/validation"

	"github.com/gin-gonic/gin"
)

const DefaultKeepAlive = 25 * time.Second

type Handler struct {
	service       *services.OrderService
	notifications *services.NotificationService
	hub           *broadcast.Hub
	login         *auth.LoginGuard
	tokens        *auth.Tokens
	orderLimiter  *auth.IPRateLimiter
	loginLimiter  *auth.IPRateLimiter
	ping          func(ctx context.Context) error
	keepAlive     time.Duration
}

type Options struct {
	Notifications *services.NotificationService
	Hub           *broadcast.Hub
	Login         *auth.LoginGuard
	Tokens        *auth.Tokens
	OrderLimiter  *auth.IPRateLimiter
	LoginLimiter  *auth.IPRateLimiter
	Ping          func(ctx context.Context) error
	KeepAlive     time.Duration
}

func NewHandler(u *services.OrderService, opts Options) *Handler {
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = DefaultKeepAlive
	}
	return &Handler{
		service:       u,
		notifications: opts.Notifications,
		hub:           opts.Hub,
		login:         opts.Login,
		tokens:        opts.Tokens,
		orderLimiter:  opts.OrderLimiter,
		loginLimiter:  opts.LoginLimiter,
		ping:          opts.Ping,
		keepAlive:     opts.KeepAlive,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(RequestLogger(), Authenticate(h.tokens))

	r.GET("/healthz", h.Health)
	r.POST("/auth/login", RateLimit(h.loginLimiter), h.Login)
	r.POST("/payments/initialize", h.InitializePayment)

	orders := r.Group("/orders")
	orders.POST("", RateLimit(h.orderLimiter), h.CreateOrder)
	orders.GET("", h.ListOrders)
	orders.GET("/stream", h.StreamOrders)
	orders.GET("/:id", h.GetOrder)
	orders.PATCH("/:id/status", RequireStaff(), h.UpdateStatus)
	orders.PATCH("/:id/cancel", RequireCaller(), h.CancelOrder)
	orders.DELETE("/:id", RequireStaff(), h.DeleteOrder)

	admin := r.Group("/admin", RequireStaff())
	admin.GET("/notifications", h.ListNotifications)
	admin.PATCH("/notifications/read-all", h.MarkAllNotificationsRead)
	admin.PATCH("/notifications/:id/read", h.MarkNotificationRead)
	admin.DELETE("/notifications", h.ClearNotifications)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req validation.OrderSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), req, CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrder answers an unknown id with a JSON null body.
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if errors.Is(err, services.ErrOrderNotFound) {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	var q ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := domain.OrderFilter{Page: q.Page, Limit: q.Limit}
	if q.Status != "" {
		st, ok := domain.ParseOrderStatus(q.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + strconv.Quote(q.Status)})
			return
		}
		filter.Status = &st
	}
	if q.UserID != "" {
		filter.UserID = &q.UserID
	}

	page, err := h.service.ListOrders(c.Request.Context(), filter, CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	order, err := h.service.CancelOrder(c.Request.Context(), c.Param("id"), CallerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.service.DeleteOrder(c.Request.Context(), c.Param("id"), CallerFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) InitializePayment(c *gin.Context) {
	var req InitializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.InitializePayment(c.Request.Context(), services.PaymentInit{
		Email:       req.Email,
		Amount:      req.Amount,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, InitializePaymentResponse{AuthorizationURL: res.AuthorizationURL, Reference: res.Reference})
}

func (h *Handler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
