package gormrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/srgjo27/party_rental/internal/core/domain"
)

// CategoryRepository keeps category names unique. Deleting one leaves
// items and bookings that mention it untouched.
type CategoryRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCategoryRepository(db *gorm.DB, log *zap.Logger) *CategoryRepository {
	return &CategoryRepository{db: db, log: log}
}

func (r *CategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		r.log.Error("Failed to list categories", zap.Error(err))
		return nil, err
	}

	return categories, nil
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	if err := r.ensureUniqueName(ctx, category.Name, ""); err != nil {
		return err
	}

	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if err = writeErr(err); errors.Is(err, domain.ErrDuplicate) {
			return err
		}
		r.log.Error("Failed to create category", zap.String("name", category.Name), zap.Error(err))
		return err
	}

	return nil
}

func (r *CategoryRepository) RenameCategory(ctx context.Context, id, name string) (*domain.Category, error) {
	if err := r.ensureUniqueName(ctx, name, id); err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		if err := writeErr(result.Error); errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		r.log.Error("Failed to rename category", zap.String("category_id", id), zap.Error(result.Error))
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}

	var category domain.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *CategoryRepository) DeleteCategory(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Category{})
	if result.Error != nil {
		r.log.Error("Failed to delete category", zap.String("category_id", id), zap.Error(result.Error))
		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *CategoryRepository) ensureUniqueName(ctx context.Context, name, exceptID string) error {
	var existing domain.Category
	query := r.db.WithContext(ctx).Where("name = ?", name)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}

	err := query.First(&existing).Error
	if err == nil {
		return domain.ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return nil
}
