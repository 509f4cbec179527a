package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/trynex-storefront/internal/promos"
)

// RegisterCatalogRoutes mounts the public catalog reads. They are served
// from the fallback dataset when the database is unreachable.
func RegisterCatalogRoutes(r *gin.RouterGroup, a *api) {
	r.GET("/categories", a.listCategories)
	r.GET("/products", a.listProducts)
	r.GET("/products/:id", a.getProduct)
	r.GET("/products/:id/reviews", a.listReviews)
	r.GET("/promos/:code", a.checkPromo)
}

func (a *api) listCategories(c *gin.Context) {
	categories, err := a.Catalog.Categories(c.Request.Context())
	if err != nil {
		writeLookupError(c, err, "Categories not found", "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (a *api) listProducts(c *gin.Context) {
	filter, err := parseProductFilter(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_query", "msg": err.Error()})
		return
	}
	products, err := a.Catalog.Products(c.Request.Context(), filter)
	if err != nil {
		writeLookupError(c, err, "Products not found", "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (a *api) getProduct(c *gin.Context) {
	id, ok := idParam(c, "id", "Invalid product ID")
	if !ok {
		return
	}
	product, err := a.Catalog.Product(c.Request.Context(), id)
	if err != nil {
		writeLookupError(c, err, "Product not found", "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (a *api) listReviews(c *gin.Context) {
	id, ok := idParam(c, "id", "Invalid product ID")
	if !ok {
		return
	}
	reviews, err := a.Catalog.ApprovedReviews(c.Request.Context(), id)
	if err != nil {
		writeLookupError(c, err, "Product not found", "Failed to fetch reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// checkPromo answers whether a code can be applied right now. The minimum
// order amount is only checked at checkout.
func (a *api) checkPromo(c *gin.Context) {
	promo, err := a.Catalog.PromoByCode(c.Request.Context(), promos.Canonical(c.Param("code")))
	if err != nil {
		writeLookupError(c, err, promos.Message(promos.ErrNotFound), "Failed to fetch promo code")
		return
	}
	if err := promos.Validate(promo, a.now()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": promos.Message(err)})
		return
	}
	c.JSON(http.StatusOK, promo)
}
