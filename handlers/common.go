package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialnet/repository"
)

// Pinger reports store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler adapts repository operations to HTTP.
type Handler struct {
	repo    *repository.Repository
	store   Pinger
	logger  logrus.FieldLogger
	timeout time.Duration
}

func New(repo *repository.Repository, store Pinger, logger logrus.FieldLogger, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{repo: repo, store: store, logger: logger, timeout: timeout}
}

func (h *Handler) context(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// fail maps the repository error taxonomy onto a status code.
func (h *Handler) fail(c *gin.Context, err error) {
	var partial *repository.PartialWriteError
	switch {
	case errors.Is(err, repository.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "code": "VALIDATION", "message": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "code": "NOT_FOUND", "message": err.Error()})
	case errors.Is(err, repository.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists", "code": "ALREADY_EXISTS", "message": err.Error()})
	case errors.As(err, &partial):
		h.logger.WithError(err).WithField("op", partial.Op).Error("partial write")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Partial write", "code": "PARTIAL_WRITE", "message": err.Error()})
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error", "code": "DB_ERROR", "message": "Internal error"})
	}
	_ = c.Error(err)
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "code": "VALIDATION", "message": err.Error()})
}

func pathID(c *gin.Context, name string) (primitive.ObjectID, error) {
	return repository.ParseID(name, c.Param(name))
}

// queryInt64 reads an optional integer query parameter. Absent means 0, which
// the repository turns into its default.
func queryInt64(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(repository.ErrValidation, "%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

// listResponse is the envelope used by the per-user list views.
func listResponse(userID primitive.ObjectID, key string, items interface{}, count int) gin.H {
	return gin.H{
		"user_id": userID.Hex(),
		"count":   count,
		key:       items,
	}
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "OK", http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		h.logger.WithError(err).Warn("health check ping failed")
		status, code = "DEGRADED", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": "socialnet API",
		"time":    time.Now().UTC(),
	})
}
