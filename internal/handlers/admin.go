package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/imrishuroy/trynex-storefront/internal/export"
	"github.com/imrishuroy/trynex-storefront/internal/models"
	"github.com/imrishuroy/trynex-storefront/internal/promos"
	"github.com/imrishuroy/trynex-storefront/internal/validation"
)

// RegisterAdminRoutes mounts the back-office routes. The group carries the
// admin auth middleware.
func RegisterAdminRoutes(r *gin.RouterGroup, a *api) {
	r.GET("/orders", a.listOrders)
	r.PATCH("/orders/:id/status", a.updateOrderStatus)

	r.GET("/promos", a.listPromos)
	r.POST("/promos", a.createPromo)
	r.PATCH("/promos/:id", a.updatePromo)

	r.PATCH("/reviews/:id/approve", a.approveReview)
	r.GET("/newsletter/subscribers", a.listSubscribers)

	r.POST("/categories", a.createCategory)
	r.POST("/products", a.createProduct)
	r.PATCH("/products/:id", a.updateProduct)

	r.POST("/blog", a.createBlogPost)
	r.GET("/admin/blog", a.listAllBlogPosts)
	r.GET("/admin/blog/:id", a.getBlogPostByID)

	r.GET("/admin/products/export", a.exportProducts)
	r.GET("/admin/orders/export", a.exportOrders)
}

func (a *api) listOrders(c *gin.Context) {
	q := c.Request.URL.Query()
	limit, err := optionalInt(q, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_query", "msg": err.Error()})
		return
	}
	offset, err := optionalInt(q, "offset")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_query", "msg": err.Error()})
		return
	}
	list, err := a.Orders.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeLookupError(c, err, "Orders not found", "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, list)
}

// updateOrderStatus accepts any status and pushes it to live trackers.
func (a *api) updateOrderStatus(c *gin.Context) {
	id, ok := idParam(c, "id", "Invalid order ID")
	if !ok {
		return
	}
	var req validation.UpdateStatusRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}
	order, err := a.Orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeLookupError(c, err, "Order not found", "Failed to update order status")
		return
	}
	if a.Hub != nil {
		a.Hub.Broadcast(order)
	}
	c.JSON(http.StatusOK, order)
}

func (a *api) listPromos(c *gin.Context) {
	list, err := a.Catalog.Promos(c.Request.Context())
	if err != nil {
		writeLookupError(c, err, "Promo codes not found", "Failed to fetch promo codes")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (a *api) createPromo(c *gin.Context) {
	var req validation.CreatePromoRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}
	promo := models.Promo{
		Code:         promos.Canonical(req.Code),
		Discount:     req.Discount,
		DiscountType: req.DiscountType,
		MinAmount:    req.MinAmount,
		MaxDiscount:  req.MaxDiscount,
		UsageLimit:   req.UsageLimit,
		Active:       req.Active == nil || *req.Active,
		ExpiresAt:    req.ExpiresAt,
	}
	if err := a.Store.CreatePromo(c.Request.Context(), &promo); err != nil {
		writeStoreError(c, err, "Promo code already exists", "Failed to create promo code")
		return
	}
	c.JSON(http.StatusCreated, promo)
}

func (a *api) updatePromo(c *gin.Context) {
	id, ok := idParam(c, "id", "Invalid promo ID")
	if !ok {
		return
	}
	var req validation.UpdatePromoRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}
	changes := req.Changes()
	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "fields": gin.H{"UpdatePromoRequest": "no changes"}})
		return
	}
	promo, err := a.Store.UpdatePromo(c.Request.Context(), id, changes)
	if err != nil {
		writeLookupError(c, err, "Promo code not found", "Failed to update promo code")
		return
	}
	c.JSON(http.StatusOK, promo)
}

func (a *api) approveReview(c *gin.Context) {
	id, ok := idParam(c, "id", "Invalid review ID")
	if !ok {
		return
	}
	review, err := a.Store.ApproveReview(c.Request.Context(), id)
	if err != nil {
		writeLookupError(c, err, "Review not found", "Failed to approve review")
		return
	}
	c.JSON(http.StatusOK, review)
}

func (a *api) listSubscribers(c *gin.Context) {
	subs, err := a.Store.Subscribers(c.Request.Context())
	if err != nil {
		writeLookupError(c, err, "Subscribers not found", "Failed to fetch subscribers")
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (a *api) createCategory(c *gin.Context) {
	var req validation.CreateCategoryRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}
	category := models.Category{
		Name:        req.Name,
		NameBn:      req.NameBn,
		Slug:        req.Slug,
		Description: req.Description,
		Emoji:       req.Emoji,
	}
	if err := a.Store.CreateCategory(c.Request.Context(), &category); err != nil {
		writeStoreError(c, err, "Category slug already exists", "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (a *api) createProduct(c *gin.Context) {
	var req validation.CreateProductRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}
	product := models.Product{
		Name:          req.Name,
		NameBn:        req.NameBn,
		Description:   req.Description,
		DescriptionBn: req.DescriptionBn,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		CategoryID:    req.CategoryID,
		Images:        datatypes.JSONSlice[string](nonNil(req.Images)),
		InStock:       req.InStock == nil || *req.InStock,
		StockQuantity: req.StockQuantity,
		Variants:      datatypes.NewJSONType(req.Variants),
		Tags:          datatypes.JSONSlice[string](nonNil(req.Tags)),
		Featured:      req.Featured,
	}
	if err := a.Store.CreateProduct(c.Request.Context(), &product); err != nil {
		writeStoreError(c, err, "Product already exists", "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (a *api) updateProduct(c *gin.Context) {
	id, ok := idParam(c, "id", "Invalid product ID")
	if !ok {
		return
	}
	var req validation.UpdateProductRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}
	product, err := a.Store.UpdateProduct(c.Request.Context(), id, req.Changes())
	if err != nil {
		writeLookupError(c, err, "Product not found", "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (a *api) createBlogPost(c *gin.Context) {
	var req validation.CreateBlogPostRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}
	post := models.BlogPost{
		Title:     req.Title,
		TitleBn:   req.TitleBn,
		Content:   req.Content,
		ContentBn: req.ContentBn,
		Slug:      req.Slug,
		Excerpt:   req.Excerpt,
		ExcerptBn: req.ExcerptBn,
		Image:     req.Image,
		Published: req.Published,
	}
	if err := a.Store.CreateBlogPost(c.Request.Context(), &post); err != nil {
		writeStoreError(c, err, "Blog slug already exists", "Failed to create blog post")
		return
	}
	c.JSON(http.StatusCreated, post)
}

// listAllBlogPosts includes drafts.
func (a *api) listAllBlogPosts(c *gin.Context) {
	posts, err := a.Store.BlogPosts(c.Request.Context(), false)
	if err != nil {
		writeLookupError(c, err, "Blog posts not found", "Failed to fetch blog posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (a *api) getBlogPostByID(c *gin.Context) {
	id, ok := idParam(c, "id", "Invalid blog post ID")
	if !ok {
		return
	}
	post, err := a.Store.BlogPostByID(c.Request.Context(), id)
	if err != nil {
		writeLookupError(c, err, "Blog post not found", "Failed to fetch blog post")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (a *api) exportProducts(c *gin.Context) {
	ctx := c.Request.Context()
	products, err := a.Store.AllProducts(ctx)
	if err != nil {
		writeLookupError(c, err, "Products not found", "Failed to fetch products")
		return
	}
	categories, err := a.Catalog.Categories(ctx)
	if err != nil {
		writeLookupError(c, err, "Categories not found", "Failed to fetch categories")
		return
	}
	names := make(map[uint]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}

	setDownloadHeaders(c, "products.xlsx")
	if err := export.WriteProducts(c.Writer, products, names); err != nil {
		log.Printf("[export] products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}

func (a *api) exportOrders(c *gin.Context) {
	list, err := a.Store.ListOrders(c.Request.Context(), -1, 0)
	if err != nil {
		writeLookupError(c, err, "Orders not found", "Failed to fetch orders")
		return
	}
	setDownloadHeaders(c, "orders.xlsx")
	if err := export.WriteOrders(c.Writer, list); err != nil {
		log.Printf("[export] orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}

func setDownloadHeaders(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
