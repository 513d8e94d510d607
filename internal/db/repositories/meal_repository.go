package repositories

import (
	"context"
	"fmt"

	gormModels "aviablog/internal/models/gorm"

	"gorm.io/gorm"
)

// MealRepository handles meals table operations
type MealRepository struct {
	db *gorm.DB
}

// NewMealRepository creates a new meal repository
func NewMealRepository(db *gorm.DB) *MealRepository {
	return &MealRepository{db: db}
}

// FindByValueTuple retrieves a meal matching every non-blob field. Meals
// have no natural key, so reuse is decided on the full value tuple.
func (r *MealRepository) FindByValueTuple(ctx context.Context, m *gormModels.Meal) (*gormModels.Meal, error) {
	var existing gormModels.Meal

	q := r.db.WithContext(ctx).
		Where("trip_id = ? AND drinks = ? AND appetizer = ? AND main_course = ? AND dessert = ?",
			m.TripID, m.Drinks, m.Appetizer, m.MainCourse, m.Dessert)
	if m.MealPrice != nil {
		q = q.Where("meal_price = ?", *m.MealPrice)
	} else {
		q = q.Where("meal_price IS NULL")
	}

	err := q.First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch meal: %w", err)
	}

	return &existing, nil
}

// FirstForTrip retrieves the meal attached to a trip, nil when absent
func (r *MealRepository) FirstForTrip(ctx context.Context, tripID uint) (*gormModels.Meal, error) {
	var m gormModels.Meal

	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("id ASC").
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch meal: %w", err)
	}
	return &m, nil
}

// GetByID retrieves a meal by id, failing with ErrNotFound
func (r *MealRepository) GetByID(ctx context.Context, id uint) (*gormModels.Meal, error) {
	var m gormModels.Meal

	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// Create inserts a new meal
func (r *MealRepository) Create(ctx context.Context, m *gormModels.Meal) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Save overwrites an existing meal in place
func (r *MealRepository) Save(ctx context.Context, m *gormModels.Meal) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes a meal row and reports its photo key as garbage
func (r *MealRepository) Delete(ctx context.Context, id uint) (orphanedBlobs []string, err error) {
	meal, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Delete(&gormModels.Meal{}, id).Error; err != nil {
		return nil, translate(err)
	}

	if meal.MealPhoto != nil && *meal.MealPhoto != "" {
		orphanedBlobs = append(orphanedBlobs, *meal.MealPhoto)
	}
	return orphanedBlobs, nil
}
