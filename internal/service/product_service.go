package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pdstock/internal/dto"
	"pdstock/internal/matching"
	"pdstock/internal/model"
	"pdstock/internal/repository"

	"github.com/google/uuid"
)

// ProductService manages the registered catalog (master data).
type ProductService interface {
	Register(ctx context.Context, req dto.RegisterProductRequest, operator string) (*dto.RegisterProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	// Catalog returns the full active catalog for the resolver.
	Catalog(ctx context.Context) ([]model.Product, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

// Register creates a master record. A product whose normalized name exactly
// equals an existing one produces a duplicate warning in the response but is
// still registered — clinics do stock visually-identical products from
// different manufacturers.
func (s *productService) Register(ctx context.Context, req dto.RegisterProductRequest, operator string) (*dto.RegisterProductResponse, error) {
	thaiName := strings.TrimSpace(req.ThaiName)
	englishName := strings.TrimSpace(req.EnglishName)
	if thaiName == "" && englishName == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}
	// A label with no readable Thai name falls back to the English one as the
	// primary display name.
	if thaiName == "" {
		thaiName = englishName
	}

	dup, err := s.findDuplicate(ctx, thaiName, englishName)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		ThaiName:      thaiName,
		EnglishName:   englishName,
		SearchName:    strings.TrimSpace(req.SearchName),
		Manufacturer:  req.Manufacturer,
		ContactNumber: req.ContactNumber,
		MinStock:      req.MinStock,
		Photo:         req.Photo,
		Active:        true,
		RegisteredBy:  operator,
	}
	if req.FillVolumeL != nil {
		p.FillVolumeL = *req.FillVolumeL
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	resp := &dto.RegisterProductResponse{Product: productToResponse(p)}
	if dup != nil {
		name := dup.ThaiName
		if name == "" {
			name = dup.EnglishName
		}
		resp.DuplicateWarning = &dto.DuplicateProduct{
			Name:         name,
			Manufacturer: dup.Manufacturer,
		}
	}
	return resp, nil
}

// findDuplicate looks for an exact normalized-name collision. This is equality
// through the shared normalizer, not the fuzzy resolver — prefix or
// containment overlap alone is not a duplicate.
func (s *productService) findDuplicate(ctx context.Context, thaiName, englishName string) (*model.Product, error) {
	catalog, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range catalog {
		p := &catalog[i]
		if matching.EqualNormalized(p.ThaiName, thaiName) ||
			matching.EqualNormalized(p.EnglishName, thaiName) ||
			(englishName != "" && matching.EqualNormalized(p.EnglishName, englishName)) {
			return p, nil
		}
	}
	return nil, nil
}

// Update edits master-data fields. Historical lots keep the names they were
// received under; only future receipts see the change.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	if req.ThaiName != nil {
		p.ThaiName = strings.TrimSpace(*req.ThaiName)
	}
	if req.EnglishName != nil {
		p.EnglishName = strings.TrimSpace(*req.EnglishName)
	}
	if req.SearchName != nil {
		p.SearchName = strings.TrimSpace(*req.SearchName)
	}
	if req.Manufacturer != nil {
		p.Manufacturer = *req.Manufacturer
	}
	if req.ContactNumber != nil {
		p.ContactNumber = *req.ContactNumber
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if req.FillVolumeL != nil {
		p.FillVolumeL = *req.FillVolumeL
	}
	if req.Photo != nil {
		p.Photo = *req.Photo
	}
	if p.ThaiName == "" && p.EnglishName == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) Catalog(ctx context.Context) ([]model.Product, error) {
	return s.repo.ListAll(ctx)
}

func productToResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:            p.ID.String(),
		ThaiName:      p.ThaiName,
		EnglishName:   p.EnglishName,
		SearchName:    p.SearchName,
		Manufacturer:  p.Manufacturer,
		ContactNumber: p.ContactNumber,
		MinStock:      p.MinStock,
		Photo:         p.Photo,
		RegisteredBy:  p.RegisteredBy,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
	if !p.FillVolumeL.IsZero() {
		v := p.FillVolumeL
		resp.FillVolumeL = &v
	}
	return resp
}
