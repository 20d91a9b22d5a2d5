package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dom/web-ads-backend/internal/adquery"
	"github.com/dom/web-ads-backend/internal/domain"
)

type adRepository struct {
	db *gorm.DB
}

func NewAdRepository(db *gorm.DB) *adRepository {
	return &adRepository{db: db}
}

func (r *adRepository) Create(ctx context.Context, ad *domain.Ad) error {
	return r.db.WithContext(ctx).Create(ad).Error
}

func (r *adRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ad, error) {
	var ad domain.Ad
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&ad, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *adRepository) FindPage(ctx context.Context, filter adquery.Filter, page, size int) ([]*domain.Ad, int64, error) {
	scopes := filter.Scopes()

	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.Ad{}).
		Scopes(scopes...).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var ads []*domain.Ad
	err = r.db.WithContext(ctx).
		Scopes(scopes...).
		Preload("User").
		Order("post_date DESC").
		Limit(size).
		Offset(page * size).
		Find(&ads).Error
	if err != nil {
		return nil, 0, err
	}
	return ads, total, nil
}

func (r *adRepository) Update(ctx context.Context, ad *domain.Ad) error {
	// Save writes every column so cleared fields persist as cleared.
	return r.db.WithContext(ctx).Save(ad).Error
}

func (r *adRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Ad{}, "id = ?", id).Error
}
