package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/trynex-storefront/internal/idempotency"
	"github.com/imrishuroy/trynex-storefront/internal/models"
	"github.com/imrishuroy/trynex-storefront/internal/orders"
	"github.com/imrishuroy/trynex-storefront/internal/promos"
	"github.com/imrishuroy/trynex-storefront/internal/validation"
)

// RegisterOrdersRoutes registers the public order routes.
func RegisterOrdersRoutes(r *gin.RouterGroup, a *api) {
	r.POST("/orders", a.createOrder)
	r.GET("/orders/track/:orderId", a.trackOrder)
	r.GET("/orders/track/:orderId/ws", a.trackOrderLive)
}

// createOrder honours an optional Idempotency-Key header: a retried request
// with the same key and body gets the first response back instead of a
// second order.
func (a *api) createOrder(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.CreateOrderRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		// BindAndValidate already wrote a 400
		return
	}

	idempKey := c.GetHeader("Idempotency-Key")
	if idempKey == "" || a.Idempotency == nil {
		status, body := a.placeOrder(c, req)
		c.Data(status, "application/json", body)
		return
	}

	var raw []byte
	if cached, ok := c.Get(gin.BodyBytesKey); ok {
		raw, _ = cached.([]byte)
	}
	requestHash := idempotency.Fingerprint(raw)

	created, err := a.Idempotency.CreateIfNotExists(ctx, idempKey, requestHash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
		return
	}
	if !created {
		a.replay(c, idempKey, requestHash)
		return
	}

	status, body := a.placeOrder(c, req)
	if status >= http.StatusInternalServerError {
		// let the client retry under a new key
		if err := a.Idempotency.MarkFailed(ctx, idempKey, string(body)); err != nil {
			log.Printf("[orders] mark idempotency key failed: %v", err)
		}
	} else {
		var code string
		if status == http.StatusCreated {
			var resp struct {
				OrderID string `json:"orderId"`
			}
			_ = json.Unmarshal(body, &resp)
			code = resp.OrderID
			c.Header("Location", fmt.Sprintf("/api/orders/track/%s", code))
		}
		if err := a.Idempotency.MarkDone(ctx, idempKey, code, string(body), status); err != nil {
			log.Printf("[orders] mark idempotency key done: %v", err)
		}
	}
	c.Data(status, "application/json", body)
}

// placeOrder runs the order manager and renders the outcome.
func (a *api) placeOrder(c *gin.Context, req validation.CreateOrderRequest) (int, []byte) {
	order, err := a.Orders.Create(c.Request.Context(), req)
	if err != nil {
		var promoErr *orders.PromoError
		if errors.As(err, &promoErr) {
			return jsonBody(http.StatusBadRequest, gin.H{"error": promos.Message(promoErr.Err)})
		}
		log.Printf("[orders] create order for %s: %v", req.CustomerName, err)
		return jsonBody(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
	}
	return jsonBody(http.StatusCreated, order)
}

// replay answers a request whose key was already claimed.
func (a *api) replay(c *gin.Context, idempKey, requestHash string) {
	rec, err := a.Idempotency.Get(c.Request.Context(), idempKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
		return
	}
	if rec == nil {
		// claimed and expired in between; the client can simply retry
		c.JSON(http.StatusConflict, gin.H{"error": "idempotency_record_missing"})
		return
	}
	if rec.RequestHash != "" && rec.RequestHash != requestHash {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "idempotency_key_reused"})
		return
	}

	switch rec.Status {
	case idempotency.StatusDone:
		if rec.ResponseBody != "" && json.Valid([]byte(rec.ResponseBody)) {
			c.Data(rec.ResponseStatus, "application/json", []byte(rec.ResponseBody))
			return
		}
		c.JSON(http.StatusOK, gin.H{"orderId": rec.OrderCode})
	case idempotency.StatusInProgress:
		c.JSON(http.StatusAccepted, gin.H{"message": "request already in progress"})
	case idempotency.StatusFailed:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "previous_attempt_failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown_idempotency_status"})
	}
}

func (a *api) trackOrder(c *gin.Context) {
	order, err := a.Orders.GetByCode(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		writeLookupError(c, err, "Order not found", "Failed to track order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// trackOrderLive upgrades to a websocket that receives every status change.
func (a *api) trackOrderLive(c *gin.Context) {
	order, err := a.Orders.GetByCode(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		writeLookupError(c, err, "Order not found", "Failed to track order")
		return
	}
	code := order.OrderCode
	a.Hub.Serve(c.Writer, c.Request, code, func(ctx context.Context) (*models.Order, error) {
		return a.Orders.GetByCode(ctx, code)
	})
}

func jsonBody(status int, v interface{}) (int, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		return http.StatusInternalServerError, []byte(`{"error":"encode_failed"}`)
	}
	return status, body
}
