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

type ClientRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewClientRepository(db *gorm.DB, log *zap.Logger) *ClientRepository {
	return &ClientRepository{db: db, log: log}
}

func (r *ClientRepository) ListClients(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&clients).Error; err != nil {
		r.log.Error("Failed to list clients", zap.Error(err))
		return nil, err
	}

	return clients, nil
}

func (r *ClientRepository) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var client domain.Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &client, nil
}

func (r *ClientRepository) CreateClient(ctx context.Context, client *domain.Client) error {
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		r.log.Error("Failed to create client", zap.Error(err))
		return err
	}

	return nil
}

// UpdateClient never touches bookings; they keep the customer snapshot taken when they were made.
func (r *ClientRepository) UpdateClient(ctx context.Context, client *domain.Client) error {
	result := r.db.WithContext(ctx).Model(&domain.Client{}).Where("id = ?", client.ID).Updates(map[string]interface{}{
		"name":    client.Name,
		"phone":   client.Phone,
		"email":   client.Email,
		"address": client.Address,
		"notes":   client.Notes,
	})
	if result.Error != nil {
		r.log.Error("Failed to update client", zap.String("client_id", client.ID), zap.Error(result.Error))
		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *ClientRepository) DeleteClient(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Client{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
