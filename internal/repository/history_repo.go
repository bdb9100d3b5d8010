package repository

import (
	"context"

	"pdstock/internal/dto"
	"pdstock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRepository covers both append-only audit tables. Rows are only ever
// inserted and read — no update or delete methods exist on purpose.
type HistoryRepository interface {
	AppendReceipt(ctx context.Context, h *model.ReceiptHistory) error
	AppendRelease(ctx context.Context, h *model.ReleaseHistory) error
	ListReceipts(ctx context.Context, filter dto.HistoryFilter) ([]model.ReceiptHistory, int64, error)
	ListReleases(ctx context.Context, filter dto.HistoryFilter) ([]model.ReleaseHistory, int64, error)
	FindReleaseByID(ctx context.Context, id uuid.UUID) (*model.ReleaseHistory, error)
	// LatestReceiptByBatch backs the duplicate-batch advisory.
	LatestReceiptByBatch(ctx context.Context, batchNo string) (*model.ReceiptHistory, error)
}

type historyRepo struct{ db *gorm.DB }

func NewHistoryRepository(db *gorm.DB) HistoryRepository { return &historyRepo{db: db} }

func (r *historyRepo) AppendReceipt(ctx context.Context, h *model.ReceiptHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *historyRepo) AppendRelease(ctx context.Context, h *model.ReleaseHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *historyRepo) ListReceipts(ctx context.Context, filter dto.HistoryFilter) ([]model.ReceiptHistory, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ReceiptHistory{})
	if filter.BatchNo != "" {
		q = q.Where("batch_no = ?", filter.BatchNo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var rows []model.ReceiptHistory
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *historyRepo) ListReleases(ctx context.Context, filter dto.HistoryFilter) ([]model.ReleaseHistory, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ReleaseHistory{})
	if filter.BatchNo != "" {
		q = q.Where("batch_no = ?", filter.BatchNo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var rows []model.ReleaseHistory
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *historyRepo) FindReleaseByID(ctx context.Context, id uuid.UUID) (*model.ReleaseHistory, error) {
	var h model.ReleaseHistory
	err := r.db.WithContext(ctx).First(&h, id).Error
	return &h, err
}

func (r *historyRepo) LatestReceiptByBatch(ctx context.Context, batchNo string) (*model.ReceiptHistory, error) {
	var h model.ReceiptHistory
	err := r.db.WithContext(ctx).
		Where("batch_no = ?", batchNo).
		Order("created_at DESC").
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}
