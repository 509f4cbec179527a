// Package handlers is the HTTP boundary of the storefront API.
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/trynex-storefront/internal/idempotency"
	"github.com/imrishuroy/trynex-storefront/internal/middleware"
	"github.com/imrishuroy/trynex-storefront/internal/models"
	"github.com/imrishuroy/trynex-storefront/internal/notify"
	"github.com/imrishuroy/trynex-storefront/internal/orders"
	"github.com/imrishuroy/trynex-storefront/internal/realtime"
	"github.com/imrishuroy/trynex-storefront/internal/store"
	"github.com/imrishuroy/trynex-storefront/internal/storefront"
	"github.com/imrishuroy/trynex-storefront/internal/validation"
)

// IdempotencyStore tracks Idempotency-Key usage for order creation.
type IdempotencyStore interface {
	CreateIfNotExists(ctx context.Context, key, requestHash string) (bool, error)
	Get(ctx context.Context, key string) (*idempotency.IdempotencyRecord, error)
	MarkDone(ctx context.Context, key, orderCode, responseBody string, responseStatus int) error
	MarkFailed(ctx context.Context, key, note string) error
}

// HandlerConfig groups dependencies for the API routes. Reads go through
// Catalog so they survive a database outage; writes go straight to Store.
// Idempotency may be nil, in which case the header is ignored.
type HandlerConfig struct {
	Catalog     *storefront.Service
	Store       *store.Store
	Orders      *orders.Manager
	Idempotency IdempotencyStore
	Notifier    *notify.Notifier
	Hub         *realtime.Hub
	AdminSecret string
	// OpenAdmin leaves the admin routes unauthenticated when AdminSecret is
	// empty. Only local development sets it.
	OpenAdmin bool
}

type api struct {
	HandlerConfig
	validate *validatorv10.Validate
	nowFunc  func() time.Time
}

func (a *api) now() time.Time { return a.nowFunc() }

// RegisterRoutes mounts every route under /api plus /health.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	a := &api{HandlerConfig: cfg, validate: validation.New(), nowFunc: time.Now}

	r.GET("/health", a.health)

	group := r.Group("/api")
	RegisterCatalogRoutes(group, a)
	RegisterOrdersRoutes(group, a)
	RegisterContentRoutes(group, a)
	RegisterNotifyRoutes(group, a)

	admin := group.Group("", middleware.RequireAdmin(cfg.AdminSecret, cfg.OpenAdmin))
	RegisterAdminRoutes(admin, a)
}

func (a *api) health(c *gin.Context) {
	database := "up"
	if err := a.Store.Ping(c.Request.Context()); err != nil {
		log.Printf("[health] database ping failed: %v", err)
		database = "down"
	}
	// reads are served from the fallback while the database is down
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": database})
}

// writeLookupError answers a failed single-entity lookup.
func writeLookupError(c *gin.Context, err error, notFound, failed string) {
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return
	}
	log.Printf("[handlers] %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": failed})
}

// writeStoreError answers a failed write. Conflicts are the caller's fault.
func writeStoreError(c *gin.Context, err error, conflict, failed string) {
	switch {
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		log.Printf("[handlers] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failed})
	}
}

// idParam parses :name, writing a 400 with msg when it is not a positive id.
func idParam(c *gin.Context, name, msg string) (uint, bool) {
	id, err := parseID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return 0, false
	}
	return id, true
}
