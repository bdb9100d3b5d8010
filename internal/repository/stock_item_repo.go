package repository

import (
	"context"

	"pdstock/internal/dto"
	"pdstock/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockItemRepository is the data access contract for lots.
type StockItemRepository interface {
	Create(ctx context.Context, item *model.StockItem) error
	List(ctx context.Context, filter dto.StockItemFilter) ([]model.StockItem, int64, error)
	// ListInStock returns every In-Stock lot, oldest receipt first. Used by
	// the aggregation view and the expiry advisory.
	ListInStock(ctx context.Context) ([]model.StockItem, error)
	// FindInStockByBatch returns one batch code's In-Stock lots in receipt
	// order (the batch-not-found case is an empty slice, not an error).
	FindInStockByBatch(ctx context.Context, batchNo string) ([]model.StockItem, error)

	// Transactional variants used by the allocation engine. LockInStockByBatchTx
	// takes FOR UPDATE row locks so that concurrent releases of the same batch
	// serialize at the storage layer.
	LockInStockByBatchTx(tx *gorm.DB, batchNo string) ([]model.StockItem, error)
	UpdateTx(tx *gorm.DB, item *model.StockItem) error
	CreateTx(tx *gorm.DB, item *model.StockItem) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type stockItemRepo struct{ db *gorm.DB }

func NewStockItemRepository(db *gorm.DB) StockItemRepository { return &stockItemRepo{db: db} }

func (r *stockItemRepo) Create(ctx context.Context, item *model.StockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *stockItemRepo) List(ctx context.Context, filter dto.StockItemFilter) ([]model.StockItem, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockItem{})
	if filter.BatchNo != "" {
		q = q.Where("batch_no = ?", filter.BatchNo)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var items []model.StockItem
	err := q.Order("received_at DESC").Limit(filter.Limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *stockItemRepo) ListInStock(ctx context.Context) ([]model.StockItem, error) {
	var items []model.StockItem
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusInStock).
		Order("received_at ASC").
		Find(&items).Error
	return items, err
}

func (r *stockItemRepo) FindInStockByBatch(ctx context.Context, batchNo string) ([]model.StockItem, error) {
	var items []model.StockItem
	err := r.db.WithContext(ctx).
		Where("batch_no = ? AND status = ?", batchNo, model.StatusInStock).
		Order("received_at ASC").
		Find(&items).Error
	return items, err
}

func (r *stockItemRepo) LockInStockByBatchTx(tx *gorm.DB, batchNo string) ([]model.StockItem, error) {
	var items []model.StockItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("batch_no = ? AND status = ?", batchNo, model.StatusInStock).
		Order("received_at ASC").
		Find(&items).Error
	return items, err
}

func (r *stockItemRepo) UpdateTx(tx *gorm.DB, item *model.StockItem) error {
	return tx.Save(item).Error
}

func (r *stockItemRepo) CreateTx(tx *gorm.DB, item *model.StockItem) error {
	return tx.Create(item).Error
}

func (r *stockItemRepo) DB() *gorm.DB { return r.db }
