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

// ItemRepository stores the rentable catalog.
type ItemRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewItemRepository(db *gorm.DB, log *zap.Logger) *ItemRepository {
	return &ItemRepository{db: db, log: log}
}

func (r *ItemRepository) ListItems(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		r.log.Error("Failed to list items", zap.Error(err))
		return nil, err
	}

	return items, nil
}

func (r *ItemRepository) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		r.log.Error("Failed to get item", zap.String("item_id", id), zap.Error(err))
		return nil, err
	}

	return &item, nil
}

func (r *ItemRepository) CreateItem(ctx context.Context, item *domain.Item) error {
	if err := r.ensureUniqueSKU(ctx, item.SKU, ""); err != nil {
		return err
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if err = writeErr(err); errors.Is(err, domain.ErrDuplicate) {
			return err
		}
		r.log.Error("Failed to create item", zap.String("sku", item.SKU), zap.Error(err))
		return err
	}

	r.log.Info("Item created", zap.String("item_id", item.ID), zap.String("sku", item.SKU))
	return nil
}

func (r *ItemRepository) UpdateItem(ctx context.Context, item *domain.Item) error {
	if err := r.ensureUniqueSKU(ctx, item.SKU, item.ID); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&domain.Item{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
		"name":        item.Name,
		"category":    item.Category,
		"description": item.Description,
		"price":       item.Price,
		"sku":         item.SKU,
		"quantity":    item.Quantity,
		"photo_url":   item.PhotoURL,
	})
	if result.Error != nil {
		if err := writeErr(result.Error); errors.Is(err, domain.ErrDuplicate) {
			return err
		}
		r.log.Error("Failed to update item", zap.String("item_id", item.ID), zap.Error(result.Error))
		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *ItemRepository) DeleteItem(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Item{})
	if result.Error != nil {
		r.log.Error("Failed to delete item", zap.String("item_id", id), zap.Error(result.Error))
		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *ItemRepository) ensureUniqueSKU(ctx context.Context, sku, exceptID string) error {
	var existing domain.Item
	query := r.db.WithContext(ctx).Where("sku = ?", sku)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}

	err := query.First(&existing).Error
	if err == nil {
		return domain.ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.Error("Failed to check sku", zap.String("sku", sku), zap.Error(err))
		return err
	}

	return nil
}
