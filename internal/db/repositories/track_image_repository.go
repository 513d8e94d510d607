package repositories

import (
	"context"
	"fmt"

	gormModels "aviablog/internal/models/gorm"

	"gorm.io/gorm"
)

// TrackImageRepository handles track_images table operations
type TrackImageRepository struct {
	db *gorm.DB
}

// NewTrackImageRepository creates a new track image repository
func NewTrackImageRepository(db *gorm.DB) *TrackImageRepository {
	return &TrackImageRepository{db: db}
}

// ListForTrip retrieves all track images of a trip, oldest first
func (r *TrackImageRepository) ListForTrip(ctx context.Context, tripID uint) ([]gormModels.TrackImage, error) {
	var images []gormModels.TrackImage

	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("id ASC").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch track images: %w", err)
	}
	return images, nil
}

// GetByID retrieves a track image by id, failing with ErrNotFound
func (r *TrackImageRepository) GetByID(ctx context.Context, id uint) (*gormModels.TrackImage, error) {
	var img gormModels.TrackImage

	if err := r.db.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, translate(err)
	}
	return &img, nil
}

// Create inserts a new track image row
func (r *TrackImageRepository) Create(ctx context.Context, img *gormModels.TrackImage) error {
	if err := r.db.WithContext(ctx).Create(img).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Save overwrites an existing track image row in place
func (r *TrackImageRepository) Save(ctx context.Context, img *gormModels.TrackImage) error {
	if err := r.db.WithContext(ctx).Save(img).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes a track image row and reports its blob key as garbage
func (r *TrackImageRepository) Delete(ctx context.Context, id uint) (orphanedBlobs []string, err error) {
	img, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Delete(&gormModels.TrackImage{}, id).Error; err != nil {
		return nil, translate(err)
	}

	if img.TrackImg != nil && *img.TrackImg != "" {
		orphanedBlobs = append(orphanedBlobs, *img.TrackImg)
	}
	return orphanedBlobs, nil
}
