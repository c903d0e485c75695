package services

import (
	"context"
	"errors"
	"fmt"

	"farmstore/internal/models"
	"farmstore/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultProducts is the starter catalog created by SeedDefaults.
var DefaultProducts = []models.Product{
	{Name: "Premium Tilapia", Slug: "premium-tilapia", Description: "Premium tilapia", UnitPrice: decimal.RequireFromString("30.00")},
	{Name: "Hearty Catfish", Slug: "hearty-catfish", Description: "Fresh catfish", UnitPrice: decimal.RequireFromString("25.00")},
	{Name: "Tarpaulin Fish Tanks", Slug: "tarpaulin-fish-tanks", Description: "Tarpaulin tanks", UnitPrice: decimal.RequireFromString("1200.00")},
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
	log  *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, log *zap.Logger) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		repo: repo,
		log:  log,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "product", ID: id}
		}
		return nil, err
	}
	return product, nil
}

// SeedDefaults creates every default product whose slug does not exist yet.
// It returns the number of products created.
func (s *ProductService) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, p := range DefaultProducts {
		_, err := s.repo.GetBySlug(ctx, p.Slug)
		if err == nil {
			s.log.Debug("product already exists", zap.String("slug", p.Slug))
			continue
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return created, err
		}

		product := p
		if err := s.repo.Create(ctx, &product); err != nil {
			return created, fmt.Errorf("failed to seed product %s: %w", p.Slug, err)
		}
		s.log.Info("seeded product", zap.String("name", product.Name), zap.Uint("id", product.ID))
		created++
	}
	return created, nil
}
