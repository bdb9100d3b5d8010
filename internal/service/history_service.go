package service

import (
	"context"
	"time"

	"pdstock/internal/dto"
	"pdstock/internal/model"
	"pdstock/internal/repository"

	"github.com/google/uuid"
)

// SlipGenerator renders a printable release slip for one release-history row.
// Implemented by the fpdf-backed generator in infra.
type SlipGenerator interface {
	GenerateReleaseSlip(h *model.ReleaseHistory) (string, error)
}

// HistoryService is the read side of the audit trail.
type HistoryService interface {
	ListReceipts(ctx context.Context, filter dto.HistoryFilter) ([]dto.ReceiptHistoryResponse, int64, error)
	ListReleases(ctx context.Context, filter dto.HistoryFilter) ([]dto.ReleaseHistoryResponse, int64, error)
	// ReleaseSlip renders the slip PDF and returns the file path.
	ReleaseSlip(ctx context.Context, id uuid.UUID) (string, error)
}

type historyService struct {
	repo  repository.HistoryRepository
	slips SlipGenerator
}

func NewHistoryService(repo repository.HistoryRepository, slips SlipGenerator) HistoryService {
	return &historyService{repo: repo, slips: slips}
}

func (s *historyService) ListReceipts(ctx context.Context, filter dto.HistoryFilter) ([]dto.ReceiptHistoryResponse, int64, error) {
	normalizeHistoryFilter(&filter)
	rows, total, err := s.repo.ListReceipts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ReceiptHistoryResponse, len(rows))
	for i, h := range rows {
		out[i] = dto.ReceiptHistoryResponse{
			ID:          h.ID.String(),
			ThaiName:    h.ThaiName,
			EnglishName: h.EnglishName,
			BatchNo:     h.BatchNo,
			Exp:         h.Exp,
			Quantity:    h.Quantity,
			ProcessedBy: h.ProcessedBy,
			CreatedAt:   h.CreatedAt.Format(time.RFC3339),
		}
	}
	return out, total, nil
}

func (s *historyService) ListReleases(ctx context.Context, filter dto.HistoryFilter) ([]dto.ReleaseHistoryResponse, int64, error) {
	normalizeHistoryFilter(&filter)
	rows, total, err := s.repo.ListReleases(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ReleaseHistoryResponse, len(rows))
	for i, h := range rows {
		out[i] = dto.ReleaseHistoryResponse{
			ID:          h.ID.String(),
			ThaiName:    h.ThaiName,
			EnglishName: h.EnglishName,
			BatchNo:     h.BatchNo,
			Exp:         h.Exp,
			Quantity:    h.Quantity,
			ProcessedBy: h.ProcessedBy,
			ReleasedTo:  h.ReleasedTo,
			CreatedAt:   h.CreatedAt.Format(time.RFC3339),
		}
	}
	return out, total, nil
}

func (s *historyService) ReleaseSlip(ctx context.Context, id uuid.UUID) (string, error) {
	h, err := s.repo.FindReleaseByID(ctx, id)
	if err != nil {
		return "", ErrNotFound
	}
	return s.slips.GenerateReleaseSlip(h)
}

func normalizeHistoryFilter(filter *dto.HistoryFilter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
}
