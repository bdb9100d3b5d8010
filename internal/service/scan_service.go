package service

import (
	"context"
	"strings"

	"pdstock/internal/dto"
	"pdstock/internal/matching"

	"github.com/rs/zerolog/log"
)

// LabelExtractor reads label fields out of a photo. Implemented by the vision
// sidecar client; stubbed in unit tests.
type LabelExtractor interface {
	ExtractLabel(ctx context.Context, imageBase64 string) (*dto.LabelFields, error)
}

// ScanService turns a label photo into product candidates plus the advisory
// checks for the requested workflow step.
type ScanService interface {
	ScanLabel(ctx context.Context, req dto.ScanLabelRequest) (*dto.ScanLabelResponse, error)
}

type scanService struct {
	extractor LabelExtractor
	products  ProductService
	stock     StockService
}

func NewScanService(extractor LabelExtractor, products ProductService, stock StockService) ScanService {
	return &scanService{extractor: extractor, products: products, stock: stock}
}

func (s *scanService) ScanLabel(ctx context.Context, req dto.ScanLabelRequest) (*dto.ScanLabelResponse, error) {
	fields, err := s.extractor.ExtractLabel(ctx, req.Image)
	if err != nil {
		// Extraction failure means "no usable data", not a request error. The
		// operator falls back to manual entry.
		log.Warn().Err(err).Msg("label extraction failed")
		fields = &dto.LabelFields{}
	}

	resp := &dto.ScanLabelResponse{Fields: *fields}

	catalog, err := s.products.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	candidates := matching.ResolveProducts(fields.ThaiName, fields.EnglishName, catalog)
	resp.Candidates = make([]dto.ProductResponse, 0, len(candidates))
	for i := range candidates {
		resp.Candidates = append(resp.Candidates, productToResponse(&candidates[i]))
	}

	// Advisories only fire on an unambiguous resolution. With zero or several
	// candidates the operator still has a decision to make and the advisory
	// would bind to the wrong product.
	if len(candidates) != 1 {
		return resp, nil
	}

	switch req.Purpose {
	case "receive":
		if strings.TrimSpace(fields.BatchNo) == "" {
			return resp, nil
		}
		dup, err := s.stock.DuplicateBatchInfo(ctx, fields.BatchNo)
		if err != nil {
			log.Warn().Err(err).Str("batch_no", fields.BatchNo).Msg("duplicate-batch lookup failed")
			return resp, nil
		}
		resp.DuplicateBatch = dup
	case "release":
		earliest, err := s.stock.EarliestExpiry(ctx, candidates[0].ThaiName, candidates[0].EnglishName)
		if err != nil {
			log.Warn().Err(err).Msg("expiry advisory lookup failed")
			return resp, nil
		}
		// Warn only when the scanned lot expires later than a lot already on
		// the shelf. Dates are YYYY-MM-DD so string order is date order.
		if earliest != nil && fields.Exp != "" && fields.Exp > earliest.Exp {
			resp.ExpiryAdvisory = earliest
		}
	}

	return resp, nil
}
