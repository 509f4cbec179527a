package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/trynex-storefront/internal/catalog"
)

// parseProductFilter coerces the /products query string into a typed
// filter. Booleans are tri-state: absent leaves the pointer nil.
func parseProductFilter(q url.Values) (catalog.ProductFilter, error) {
	var f catalog.ProductFilter
	var err error

	if raw := q.Get("categoryId"); raw != "" {
		id, perr := parseID(raw)
		if perr != nil {
			return f, fmt.Errorf("categoryId: %w", perr)
		}
		f.CategoryID = &id
	}
	if f.MinPrice, err = optionalDecimal(q, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = optionalDecimal(q, "maxPrice"); err != nil {
		return f, err
	}
	f.Search = q.Get("search")
	if f.Featured, err = optionalBool(q, "featured"); err != nil {
		return f, err
	}
	if f.InStock, err = optionalBool(q, "inStock"); err != nil {
		return f, err
	}
	if f.Limit, err = optionalInt(q, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = optionalInt(q, "offset"); err != nil {
		return f, err
	}
	if f.Limit < 0 || f.Offset < 0 {
		return f, fmt.Errorf("limit and offset must not be negative")
	}
	return f, nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func optionalDecimal(q url.Values, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid number %q", key, raw)
	}
	return &d, nil
}

func optionalBool(q url.Values, key string) (*bool, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid boolean %q", key, raw)
	}
	return &b, nil
}

func optionalInt(q url.Values, key string) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return n, nil
}
