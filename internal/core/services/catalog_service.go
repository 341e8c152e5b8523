package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/srgjo27/party_rental/internal/core/domain"
	"github.com/srgjo27/party_rental/internal/core/ports"
)

// CatalogService manages items, categories and clients. None of it takes
// part in availability; item data is only used to name busy items.
type CatalogService struct {
	itemRepo     ports.ItemRepository
	categoryRepo ports.CategoryRepository
	clientRepo   ports.ClientRepository
	bookingRepo  ports.BookingRepository
	itemCache    ports.ItemCache
	log          *zap.Logger
}

func NewCatalogService(
	itemRepo ports.ItemRepository,
	categoryRepo ports.CategoryRepository,
	clientRepo ports.ClientRepository,
	bookingRepo ports.BookingRepository,
	itemCache ports.ItemCache,
	log *zap.Logger,
) *CatalogService {
	return &CatalogService{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		clientRepo:   clientRepo,
		bookingRepo:  bookingRepo,
		itemCache:    itemCache,
		log:          log,
	}
}

func (s *CatalogService) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, ok, err := s.itemCache.GetItems(ctx)
	if err != nil {
		s.log.Warn("Item cache read failed", zap.Error(err))
	}
	if ok {
		return items, nil
	}

	items, err = s.itemRepo.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.itemCache.SetItems(ctx, items); err != nil {
		s.log.Warn("Item cache write failed", zap.Error(err))
	}

	return items, nil
}

func (s *CatalogService) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return s.itemRepo.GetItem(ctx, id)
}

func (s *CatalogService) CreateItem(ctx context.Context, item *domain.Item) error {
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if err := validateStruct(item); err != nil {
		return err
	}

	if err := s.itemRepo.CreateItem(ctx, item); err != nil {
		return err
	}

	s.invalidateItems(ctx)
	return nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, item *domain.Item) error {
	if err := validateStruct(item); err != nil {
		return err
	}

	if err := s.itemRepo.UpdateItem(ctx, item); err != nil {
		return err
	}

	s.invalidateItems(ctx)
	return nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, id string) error {
	if err := s.itemRepo.DeleteItem(ctx, id); err != nil {
		return err
	}

	s.invalidateItems(ctx)
	return nil
}

// ItemNames maps the given ids to display names. Unknown ids map to themselves.
func (s *CatalogService) ItemNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		names[id] = id
	}

	items, err := s.ListItems(ctx)
	if err != nil {
		return names, err
	}

	for _, item := range items {
		if _, ok := names[item.ID]; ok {
			names[item.ID] = item.Name
		}
	}

	return names, nil
}

func (s *CatalogService) invalidateItems(ctx context.Context) {
	if err := s.itemCache.Invalidate(ctx); err != nil {
		s.log.Warn("Item cache invalidation failed", zap.Error(err))
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	category := &domain.Category{Name: strings.TrimSpace(name)}
	if err := validateStruct(category); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *CatalogService) RenameCategory(ctx context.Context, id, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}

	return s.categoryRepo.RenameCategory(ctx, id, name)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.categoryRepo.DeleteCategory(ctx, id)
}

func (s *CatalogService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clientRepo.ListClients(ctx)
}

func (s *CatalogService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.clientRepo.GetClient(ctx, id)
}

func (s *CatalogService) CreateClient(ctx context.Context, client *domain.Client) error {
	if err := validateStruct(client); err != nil {
		return err
	}

	return s.clientRepo.CreateClient(ctx, client)
}

func (s *CatalogService) UpdateClient(ctx context.Context, client *domain.Client) error {
	if err := validateStruct(client); err != nil {
		return err
	}

	return s.clientRepo.UpdateClient(ctx, client)
}

func (s *CatalogService) DeleteClient(ctx context.Context, id string) error {
	return s.clientRepo.DeleteClient(ctx, id)
}

// ClientStats matches bookings by the customer name snapshot, since bookings do not reference clients.
func (s *CatalogService) ClientStats(ctx context.Context, clientID string) (*domain.ClientStats, error) {
	client, err := s.clientRepo.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListBookings(ctx, domain.BookingFilter{CustomerName: client.Name})
	if err != nil {
		return nil, err
	}

	stats := &domain.ClientStats{TotalBookings: len(bookings)}
	for _, b := range bookings {
		stats.TotalSpent += b.TotalValue
		if b.Status != domain.StatusBudget && b.Status.IsAssignable() {
			stats.ConfirmedBookings++
		}
	}

	return stats, nil
}
