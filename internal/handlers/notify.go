package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/trynex-storefront/internal/validation"
)

// RegisterNotifyRoutes mounts the checkout notification helpers.
func RegisterNotifyRoutes(r *gin.RouterGroup, a *api) {
	r.POST("/send-order-email", a.sendOrderEmail)
	r.POST("/whatsapp-order", a.whatsAppOrder)
}

func (a *api) sendOrderEmail(c *gin.Context) {
	var req validation.SendOrderEmailRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}
	if err := a.Notifier.SendOrderEmail(req.To, req.Subject, req.OrderData); err != nil {
		log.Printf("[notify] send order email for %s: %v", req.OrderData.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send order email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order email sent successfully"})
}

func (a *api) whatsAppOrder(c *gin.Context) {
	var req validation.WhatsAppOrderRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "whatsappUrl": a.Notifier.WhatsAppURL(req.OrderData)})
}
