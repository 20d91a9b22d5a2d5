package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dom/web-ads-backend/internal/adquery"
	"github.com/dom/web-ads-backend/internal/apperror"
	"github.com/dom/web-ads-backend/internal/domain"
	"github.com/dom/web-ads-backend/internal/repository"
)

// AdPublisher receives newly created ads for the live feed.
type AdPublisher interface {
	PublishAdCreated(ad *domain.Ad)
}

type AdService struct {
	adRepo    repository.AdRepository
	userRepo  repository.UserRepository
	publisher AdPublisher // optional
}

func NewAdService(adRepo repository.AdRepository, userRepo repository.UserRepository, publisher AdPublisher) *AdService {
	return &AdService{
		adRepo:    adRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

type AdInput struct {
	Name        string
	Description string
	ImageURL    string
	Price       float64
	Category    string
	City        string
}

type ListAdsInput struct {
	Category string
	Name     string
	MinPrice *float64
	MaxPrice *float64
	MineOnly bool
	Page     int
	Size     int
}

type AdPage struct {
	Ads   []*domain.Ad
	Total int64
	Page  int
	Size  int
}

func (s *AdService) Create(ctx context.Context, input AdInput, ownerID uuid.UUID) (*domain.Ad, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, "user with id %s not found", ownerID)
		}
		return nil, err
	}

	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, apperror.New(apperror.ErrValidation, "invalid category: %s", input.Category)
	}

	ad := &domain.Ad{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Price:       input.Price,
		Category:    category,
		City:        input.City,
		PostDate:    time.Now(),
		UserID:      owner.ID,
	}

	if err := s.adRepo.Create(ctx, ad); err != nil {
		return nil, err
	}
	ad.User = *owner

	if s.publisher != nil {
		s.publisher.PublishAdCreated(ad)
	}
	return ad, nil
}

func (s *AdService) Get(ctx context.Context, id uuid.UUID) (*domain.Ad, error) {
	ad, err := s.adRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, "ad with id %s not found", id)
		}
		return nil, err
	}
	return ad, nil
}

// List runs the filter conjunction over the ads, newest first. viewerID
// is the authenticated identity, if any; MineOnly without one yields an
// empty page rather than an error.
func (s *AdService) List(ctx context.Context, input ListAdsInput, viewerID *uuid.UUID) (*AdPage, error) {
	filter := adquery.Filter{
		Category: input.Category,
		Name:     input.Name,
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
	}

	if input.MineOnly {
		if viewerID == nil {
			return &AdPage{Ads: []*domain.Ad{}, Page: input.Page, Size: input.Size}, nil
		}
		filter.OwnerID = viewerID
	}

	ads, total, err := s.adRepo.FindPage(ctx, filter, input.Page, input.Size)
	if err != nil {
		return nil, err
	}

	return &AdPage{
		Ads:   ads,
		Total: total,
		Page:  input.Page,
		Size:  input.Size,
	}, nil
}

// Update is a full replace: every mutable field is overwritten from the
// input, so an omitted optional field clears the stored value.
func (s *AdService) Update(ctx context.Context, id uuid.UUID, input AdInput, requesterID uuid.UUID) (*domain.Ad, error) {
	ad, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if ad.UserID != requesterID {
		return nil, apperror.New(apperror.ErrPermissionDenied, "you do not have permission to edit this ad")
	}

	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, apperror.New(apperror.ErrValidation, "invalid category: %s", input.Category)
	}

	ad.Name = input.Name
	ad.Description = input.Description
	ad.ImageURL = input.ImageURL
	ad.Price = input.Price
	ad.Category = category
	ad.City = input.City

	if err := s.adRepo.Update(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *AdService) Delete(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error {
	ad, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if ad.UserID != requesterID {
		return apperror.New(apperror.ErrPermissionDenied, "you do not have permission to delete this ad")
	}

	return s.adRepo.Delete(ctx, id)
}
