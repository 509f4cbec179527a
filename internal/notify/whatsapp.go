// Package notify composes the customer-facing order notifications.
package notify

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/imrishuroy/trynex-storefront/internal/models"
	"github.com/imrishuroy/trynex-storefront/internal/validation"
)

// Notifier builds WhatsApp deep links for a shop number and logs order
// emails. There is no mail provider; the email sink is the log.
type Notifier struct {
	whatsAppNumber string
}

func New(whatsAppNumber string) *Notifier {
	return &Notifier{whatsAppNumber: whatsAppNumber}
}

// Summary converts a stored order into the notification shape.
func Summary(o *models.Order) validation.OrderSummary {
	s := validation.OrderSummary{
		OrderID:          o.OrderCode,
		CustomerName:     o.CustomerName,
		Total:            o.Total,
		DeliveryLocation: o.DeliveryLocation,
		PaymentMethod:    o.PaymentMethod,
	}
	if o.CustomerPhone != nil {
		s.CustomerPhone = *o.CustomerPhone
	}
	if o.SpecialInstructions != nil {
		s.SpecialInstructions = *o.SpecialInstructions
	}
	for _, it := range o.Items {
		s.Items = append(s.Items, validation.LineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Variants:  it.Variants,
		})
	}
	return s
}

// WhatsAppMessage renders the order as the message the shop receives.
func WhatsAppMessage(o validation.OrderSummary) string {
	var b strings.Builder
	b.WriteString("*New Order from TryneX*\n\n")
	fmt.Fprintf(&b, "*Order ID:* %s\n", o.OrderID)
	fmt.Fprintf(&b, "*Customer:* %s\n", o.CustomerName)
	fmt.Fprintf(&b, "*Phone:* %s\n", o.CustomerPhone)
	fmt.Fprintf(&b, "*Total:* ৳%s\n\n", o.Total.String())
	b.WriteString("*Items:*\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "• %s x%d - ৳%s\n", it.Name, it.Quantity, it.Price.String())
	}
	fmt.Fprintf(&b, "\n*Delivery:* %s\n", o.DeliveryLocation)
	fmt.Fprintf(&b, "*Payment:* %s\n", o.PaymentMethod)
	if o.SpecialInstructions != "" {
		fmt.Fprintf(&b, "\n*Instructions:* %s", o.SpecialInstructions)
	}
	return strings.TrimSpace(b.String())
}

// WhatsAppURL is a wa.me link that opens a chat prefilled with the message.
func (n *Notifier) WhatsAppURL(o validation.OrderSummary) string {
	// wa.me expects %20 rather than + for spaces
	text := strings.ReplaceAll(url.QueryEscape(WhatsAppMessage(o)), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", n.whatsAppNumber, text)
}

// SendOrderEmail records the email in the log.
func (n *Notifier) SendOrderEmail(to, subject string, o validation.OrderSummary) error {
	log.Printf("[notify] order email to=%s subject=%q order=%s total=%s items=%d",
		to, subject, o.OrderID, o.Total.String(), len(o.Items))
	return nil
}
