package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/trynex-storefront/internal/models"
	"github.com/imrishuroy/trynex-storefront/internal/validation"
)

// RegisterContentRoutes mounts reviews, newsletter and blog.
func RegisterContentRoutes(r *gin.RouterGroup, a *api) {
	r.POST("/reviews", a.createReview)
	r.POST("/newsletter/subscribe", a.subscribe)
	r.GET("/blog", a.listBlogPosts)
	r.GET("/blog/:slug", a.getBlogPost)
}

// createReview stores the review unapproved; it shows up after moderation.
func (a *api) createReview(c *gin.Context) {
	var req validation.CreateReviewRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}
	review := models.Review{
		ProductID:     req.ProductID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}
	if err := a.Store.CreateReview(c.Request.Context(), &review); err != nil {
		writeStoreError(c, err, "Review already exists", "Failed to create review")
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (a *api) subscribe(c *gin.Context) {
	var req validation.SubscribeRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}
	sub, err := a.Store.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		writeStoreError(c, err, "Already subscribed", "Failed to subscribe to newsletter")
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (a *api) listBlogPosts(c *gin.Context) {
	posts, err := a.Store.BlogPosts(c.Request.Context(), true)
	if err != nil {
		writeLookupError(c, err, "Blog posts not found", "Failed to fetch blog posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// getBlogPost hides drafts from the public route.
func (a *api) getBlogPost(c *gin.Context) {
	post, err := a.Store.BlogPostBySlug(c.Request.Context(), c.Param("slug"))
	if err == nil && !post.Published {
		err = models.ErrNotFound
	}
	if err != nil {
		writeLookupError(c, err, "Blog post not found", "Failed to fetch blog post")
		return
	}
	c.JSON(http.StatusOK, post)
}
