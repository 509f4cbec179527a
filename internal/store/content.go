package store

import (
	"context"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/imrishuroy/trynex-storefront/internal/models"
)

// Subscribe upserts a newsletter subscription. Subscribing an existing email
// flips it back to subscribed instead of failing on the unique key.
func (s *Store) Subscribe(ctx context.Context, email string) (*models.Subscription, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	email = strings.ToLower(strings.TrimSpace(email))
	db := s.db.WithContext(ctx)
	sub := models.Subscription{Email: email, Subscribed: true, CreatedAt: s.nowFunc()}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"subscribed": true}),
	}).Create(&sub).Error
	if err != nil {
		return nil, translate("subscribe", err)
	}
	var out models.Subscription
	if err := db.Where("email = ?", email).First(&out).Error; err != nil {
		return nil, translate("reload subscription", err)
	}
	return &out, nil
}

func (s *Store) Subscribers(ctx context.Context) ([]models.Subscription, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	out := []models.Subscription{}
	err := s.db.WithContext(ctx).Where("subscribed = ?", true).Order("id ASC").Find(&out).Error
	return out, translate("list subscribers", err)
}

// BlogPosts lists posts newest first, optionally only published ones.
func (s *Store) BlogPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	q := s.db.WithContext(ctx)
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	out := []models.BlogPost{}
	err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, translate("list blog posts", err)
}

func (s *Store) BlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var p models.BlogPost
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, translate("get blog post", err)
	}
	return &p, nil
}

func (s *Store) CreateBlogPost(ctx context.Context, p *models.BlogPost) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return translate("create blog post", s.db.WithContext(ctx).Create(p).Error)
}

func (s *Store) BlogPostByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var p models.BlogPost
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate("get blog post", err)
	}
	return &p, nil
}
