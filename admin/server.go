package admin

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"support-chat/errors"
	"support-chat/fanout"
	"support-chat/routing"
	"support-chat/transport"
)

// Server exposes the admin surface: status snapshots and the force
// operations. It runs under the supervisor.
type Server struct {
	log       *slog.Logger
	addr      string
	jwtSecret string

	coordinator *routing.Coordinator
	queue       *routing.WaitQueue
	operators   *routing.OperatorRegistry
	connections *fanout.Registry
}

func NewServer(
	addr, jwtSecret string,
	coordinator *routing.Coordinator,
	queue *routing.WaitQueue,
	operators *routing.OperatorRegistry,
	connections *fanout.Registry,
	log *slog.Logger,
) *Server {
	return &Server{
		log:         log,
		addr:        addr,
		jwtSecret:   jwtSecret,
		coordinator: coordinator,
		queue:       queue,
		operators:   operators,
		connections: connections,
	}
}

type transferRequest struct {
	ToOperatorID   int64  `json:"to_operator_id" binding:"required,gt=0"`
	FromOperatorID int64  `json:"from_operator_id" binding:"required,gt=0"`
	Reason         string `json:"reason" binding:"required,reason"`
}

type closeRequest struct {
	Reason string `json:"reason" binding:"required,reason"`
}

type priorityRequest struct {
	Priority int `json:"priority" binding:"gte=0,lte=100"`
}

// reasonTag keeps admin audit reasons short enough for the transfer table.
func reasonTag(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= 50
}

func (s *Server) Run(ctx context.Context) error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("reason", reasonTag); err != nil {
			return fmt.Errorf("register validation: %w", err)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requireAdmin())

	router.GET("/admin/status", s.handleStatus)
	router.POST("/admin/chats/:id/transfer", s.handleTransfer)
	router.POST("/admin/chats/:id/close", s.handleClose)
	router.PUT("/admin/queue/:client_id/priority", s.handlePriority)
	router.DELETE("/admin/queue/:client_id", s.handleRemove)

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Admin API listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("admin listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("admin shutdown: %w", err)
		}
		return ctx.Err()
	}
}

// requireAdmin authenticates the bearer token and rejects non-admin roles.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		const prefix = "Bearer "
		h := c.GetHeader("Authorization")
		if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		identity, err := transport.ParseToken(h[len(prefix):], s.jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if identity.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Set("admin_id", identity.UserID)
		c.Next()
	}
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"queue":       s.queue.Status(),
		"waiting":     s.queue.Snapshot(),
		"assignments": s.coordinator.Stats(),
		"operators":   s.operators.Snapshot(),
		"connections": s.connections.Stats(),
	})
}

func (s *Server) handleTransfer(c *gin.Context) {
	chatID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adminID := c.GetInt64("admin_id")
	err = s.coordinator.ForceTransfer(c.Request.Context(), chatID, req.ToOperatorID, req.FromOperatorID, adminID, req.Reason)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chat_id": chatID, "operator_id": req.ToOperatorID})
}

func (s *Server) handleClose(c *gin.Context) {
	chatID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req closeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adminID := c.GetInt64("admin_id")
	if err := s.coordinator.ForceClose(c.Request.Context(), chatID, adminID, req.Reason); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chat_id": chatID, "closed": true})
}

func (s *Server) handlePriority(c *gin.Context) {
	clientID, err := pathID(c, "client_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req priorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adminID := c.GetInt64("admin_id")
	position, err := s.coordinator.UpdatePriority(c.Request.Context(), clientID, req.Priority, adminID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client_id": clientID, "priority": req.Priority, "position": position})
}

func (s *Server) handleRemove(c *gin.Context) {
	clientID, err := pathID(c, "client_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.coordinator.RemoveFromQueue(c.Request.Context(), clientID); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client_id": clientID, "removed": true})
}

func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, errors.ErrChatNotFound),
		stderrors.Is(err, errors.ErrClientNotFound),
		stderrors.Is(err, errors.ErrOperatorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case stderrors.Is(err, errors.ErrOperatorUnavailable),
		stderrors.Is(err, errors.ErrAlreadyAssigned),
		stderrors.Is(err, errors.ErrNotOwner):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.log.Error("Admin operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}
