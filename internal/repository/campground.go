package repository

import (
	"context"
	"errors"

	"trailhaven/internal/cache"
	"trailhaven/internal/models"

	"gorm.io/gorm"
)

// CampgroundSort selects a listing order. Values correspond to the sortby
// query parameter accepted on the index page.
type CampgroundSort string

const (
	// SortDefault orders by descending price, ties broken by rating.
	SortDefault CampgroundSort = ""
	// SortRateAvg surfaces the best-rated listings first, preferring those
	// with more ratings.
	SortRateAvg CampgroundSort = "rateAvg"
	// SortRateCount surfaces the most-rated listings first.
	SortRateCount CampgroundSort = "rateCount"
	// SortPriceLow orders by ascending price, ties broken by rating.
	SortPriceLow CampgroundSort = "priceLow"
)

func (s CampgroundSort) orderClause() string {
	switch s {
	case SortRateAvg:
		return "rate_count DESC, rate_avg DESC"
	case SortRateCount:
		return "rate_count DESC"
	case SortPriceLow:
		return "price ASC, rate_avg DESC"
	default:
		return "price DESC, rate_avg DESC"
	}
}

// CampgroundRepository defines persistence operations for campgrounds.
type CampgroundRepository interface {
	List(ctx context.Context) ([]models.Campground, error)
	ListSorted(ctx context.Context, sort CampgroundSort) ([]models.Campground, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Campground, error)
	GetByID(ctx context.Context, id uint) (*models.Campground, error)
	GetWithComments(ctx context.Context, id uint) (*models.Campground, error)
	Create(ctx context.Context, campground *models.Campground) error
	Update(ctx context.Context, campground *models.Campground) error
	UpdateRating(ctx context.Context, id uint, rateAvg float64, rateCount int) error
	Delete(ctx context.Context, id uint) error
}

type campgroundRepository struct {
	db *gorm.DB
}

// NewCampgroundRepository returns a new CampgroundRepository implementation.
func NewCampgroundRepository(db *gorm.DB) CampgroundRepository {
	return &campgroundRepository{db: db}
}

func (r *campgroundRepository) List(ctx context.Context) ([]models.Campground, error) {
	var campgrounds []models.Campground
	if err := r.db.WithContext(ctx).Find(&campgrounds).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return campgrounds, nil
}

func (r *campgroundRepository) ListSorted(ctx context.Context, sort CampgroundSort) ([]models.Campground, error) {
	var campgrounds []models.Campground
	if err := r.db.WithContext(ctx).Order(sort.orderClause()).Find(&campgrounds).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return campgrounds, nil
}

func (r *campgroundRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Campground, error) {
	var campgrounds []models.Campground
	if err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Find(&campgrounds).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return campgrounds, nil
}

func (r *campgroundRepository) GetByID(ctx context.Context, id uint) (*models.Campground, error) {
	var campground models.Campground
	if err := r.db.WithContext(ctx).First(&campground, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Campground", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &campground, nil
}

func (r *campgroundRepository) GetWithComments(ctx context.Context, id uint) (*models.Campground, error) {
	var campground models.Campground
	if err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&campground, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Campground", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &campground, nil
}

func (r *campgroundRepository) Create(ctx context.Context, campground *models.Campground) error {
	if err := r.db.WithContext(ctx).Create(campground).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *campgroundRepository) Update(ctx context.Context, campground *models.Campground) error {
	if err := r.db.WithContext(ctx).Save(campground).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCampground(ctx, campground.ID)
	return nil
}

// UpdateRating persists the recomputed rating cache without touching other
// columns, so a show-page load does not clobber concurrent edits.
func (r *campgroundRepository) UpdateRating(ctx context.Context, id uint, rateAvg float64, rateCount int) error {
	if err := r.db.WithContext(ctx).Model(&models.Campground{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rate_avg":   rateAvg,
			"rate_count": rateCount,
		}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCampground(ctx, id)
	return nil
}

func (r *campgroundRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Campground{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCampground(ctx, id)
	return nil
}
