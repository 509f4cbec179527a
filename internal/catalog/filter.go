package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/trynex-storefront/internal/models"
)

// DefaultLimit is the page size used when the caller does not pick one.
const DefaultLimit = 20

// ProductFilter is the typed filter for product listings.
// Nil pointers mean "no constraint", except InStock which Normalize turns
// into true.
type ProductFilter struct {
	CategoryID *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     string
	Featured   *bool
	InStock    *bool
	Limit      int
	Offset     int
}

// Normalize applies the listing defaults. Both product sources call it, so a
// filter means the same thing whichever source answers.
func (f ProductFilter) Normalize() ProductFilter {
	if f.InStock == nil {
		inStock := true
		f.InStock = &inStock
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// Matches reports whether p satisfies every predicate of the filter.
// Pagination fields are ignored.
func (f ProductFilter) Matches(p models.Product) bool {
	if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	if f.Search != "" {
		needle := models.FoldSearch(f.Search)
		desc := ""
		if p.Description != nil {
			desc = *p.Description
		}
		if !strings.Contains(models.FoldSearch(p.Name), needle) && !strings.Contains(models.FoldSearch(desc), needle) {
			return false
		}
	}
	return true
}

// SortByRecency orders products newest first. Equal timestamps fall back to
// the higher id first, which is also the SQL tiebreak.
func SortByRecency(products []models.Product) {
	slices.SortStableFunc(products, func(a, b models.Product) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
}

// Paginate slices products by offset and limit. Out of range offsets give an
// empty, non-nil slice.
func Paginate(products []models.Product, limit, offset int) []models.Product {
	if offset >= len(products) {
		return []models.Product{}
	}
	end := offset + limit
	if end > len(products) {
		end = len(products)
	}
	return products[offset:end]
}

// Apply runs the whole listing pipeline in memory: normalize, filter, sort,
// paginate. The input slice is not modified.
func Apply(products []models.Product, f ProductFilter) []models.Product {
	f = f.Normalize()
	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			matched = append(matched, p)
		}
	}
	SortByRecency(matched)
	return Paginate(matched, f.Limit, f.Offset)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern builds a lower-cased substring pattern for `LIKE ... ESCAPE '\'`
// so that wildcard characters in the search text match literally, exactly as
// strings.Contains does.
func LikePattern(search string) string {
	return "%" + likeEscaper.Replace(models.FoldSearch(search)) + "%"
}
