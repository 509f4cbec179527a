// Package export renders admin spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"

	"github.com/imrishuroy/trynex-storefront/internal/models"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	timeLayout  = "2006-01-02 15:04:05"
)

var productHeaders = []string{
	"ID", "Name", "NameBn", "Category", "Price", "OriginalPrice",
	"InStock", "StockQuantity", "Featured", "Rating", "ReviewCount", "Tags", "CreatedAt",
}

var orderHeaders = []string{
	"OrderID", "Customer", "Phone", "Email", "Items", "Subtotal", "DeliveryFee",
	"Discount", "Total", "PromoCode", "Payment", "Delivery", "Method", "Status", "CreatedAt",
}

// WriteProducts writes one row per product. categories maps category ids to
// names; unknown ids are left blank.
func WriteProducts(w io.Writer, products []models.Product, categories map[uint]string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	addHeader(sheet, productHeaders)

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(p.ID))
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(deref(p.NameBn))
		category := ""
		if p.CategoryID != nil {
			category = categories[*p.CategoryID]
		}
		row.AddCell().SetString(category)
		row.AddCell().SetFloat(p.Price.InexactFloat64())
		if p.OriginalPrice.Valid {
			row.AddCell().SetFloat(p.OriginalPrice.Decimal.InexactFloat64())
		} else {
			row.AddCell()
		}
		row.AddCell().SetBool(p.InStock)
		row.AddCell().SetInt(p.StockQuantity)
		row.AddCell().SetBool(p.Featured)
		row.AddCell().SetFloat(p.Rating.InexactFloat64())
		row.AddCell().SetInt(p.ReviewCount)
		row.AddCell().SetString(strings.Join(p.Tags, ","))
		row.AddCell().SetString(p.CreatedAt.UTC().Format(timeLayout))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write products workbook: %w", err)
	}
	return nil
}

// WriteOrders writes one row per order with its items flattened to
// "name xqty" pairs.
func WriteOrders(w io.Writer, orders []models.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	addHeader(sheet, orderHeaders)

	for _, o := range orders {
		items := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, fmt.Sprintf("%s x%d", it.Name, it.Quantity))
		}

		row := sheet.AddRow()
		row.AddCell().SetString(o.OrderCode)
		row.AddCell().SetString(o.CustomerName)
		row.AddCell().SetString(deref(o.CustomerPhone))
		row.AddCell().SetString(deref(o.CustomerEmail))
		row.AddCell().SetString(strings.Join(items, "; "))
		row.AddCell().SetFloat(o.Subtotal.InexactFloat64())
		row.AddCell().SetFloat(o.DeliveryFee.InexactFloat64())
		row.AddCell().SetFloat(o.Discount.InexactFloat64())
		row.AddCell().SetFloat(o.Total.InexactFloat64())
		row.AddCell().SetString(deref(o.PromoCode))
		row.AddCell().SetString(o.PaymentMethod)
		row.AddCell().SetString(o.DeliveryLocation)
		row.AddCell().SetString(o.OrderMethod)
		row.AddCell().SetString(o.Status)
		row.AddCell().SetString(o.CreatedAt.UTC().Format(timeLayout))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write orders workbook: %w", err)
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetString(h)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
