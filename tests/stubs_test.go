package tests

import (
	"context"
	"errors"
	"sort"
	"time"

	"pdstock/internal/dto"
	"pdstock/internal/model"
	"pdstock/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubStockItemRepo is an in-memory StockItemRepository. The transactional
// methods accept a nil *gorm.DB because services run fn(nil) when no real DB
// is wired.
type stubStockItemRepo struct {
	items map[uuid.UUID]*model.StockItem
}

func newStubStockItemRepo() *stubStockItemRepo {
	return &stubStockItemRepo{items: make(map[uuid.UUID]*model.StockItem)}
}

func (r *stubStockItemRepo) Create(_ context.Context, item *model.StockItem) error {
	return r.CreateTx(nil, item)
}

func (r *stubStockItemRepo) List(_ context.Context, filter dto.StockItemFilter) ([]model.StockItem, int64, error) {
	var out []model.StockItem
	for _, item := range r.items {
		if filter.BatchNo != "" && item.BatchNo != filter.BatchNo {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.After(out[j].ReceivedAt) })
	return out, int64(len(out)), nil
}

func (r *stubStockItemRepo) ListInStock(_ context.Context) ([]model.StockItem, error) {
	return r.inStock(""), nil
}

func (r *stubStockItemRepo) FindInStockByBatch(_ context.Context, batchNo string) ([]model.StockItem, error) {
	return r.inStock(batchNo), nil
}

func (r *stubStockItemRepo) LockInStockByBatchTx(_ *gorm.DB, batchNo string) ([]model.StockItem, error) {
	return r.inStock(batchNo), nil
}

func (r *stubStockItemRepo) UpdateTx(_ *gorm.DB, item *model.StockItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return errors.New("not found")
	}
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *stubStockItemRepo) CreateTx(_ *gorm.DB, item *model.StockItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *stubStockItemRepo) DB() *gorm.DB { return nil }

// inStock returns copies of In-Stock lots ordered by receipt time, matching
// the SQL the real repository runs.
func (r *stubStockItemRepo) inStock(batchNo string) []model.StockItem {
	var out []model.StockItem
	for _, item := range r.items {
		if item.Status != model.StatusInStock {
			continue
		}
		if batchNo != "" && item.BatchNo != batchNo {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	return out
}

// get fetches the stored state of one lot for assertions.
func (r *stubStockItemRepo) get(id uuid.UUID) *model.StockItem {
	return r.items[id]
}

// totalForBatch sums quantity over every lot of a batch regardless of status.
func (r *stubStockItemRepo) totalForBatch(batchNo string) int {
	total := 0
	for _, item := range r.items {
		if item.BatchNo == batchNo {
			total += item.Quantity
		}
	}
	return total
}

var _ repository.StockItemRepository = (*stubStockItemRepo)(nil)

// stubHistoryRepo records appended rows; failAppends simulates a DB outage on
// the audit tables only.
type stubHistoryRepo struct {
	receipts    []model.ReceiptHistory
	releases    []model.ReleaseHistory
	failAppends bool
}

func (r *stubHistoryRepo) AppendReceipt(_ context.Context, h *model.ReceiptHistory) error {
	if r.failAppends {
		return errors.New("history insert failed")
	}
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	r.receipts = append(r.receipts, *h)
	return nil
}

func (r *stubHistoryRepo) AppendRelease(_ context.Context, h *model.ReleaseHistory) error {
	if r.failAppends {
		return errors.New("history insert failed")
	}
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	r.releases = append(r.releases, *h)
	return nil
}

func (r *stubHistoryRepo) ListReceipts(_ context.Context, filter dto.HistoryFilter) ([]model.ReceiptHistory, int64, error) {
	var out []model.ReceiptHistory
	for _, h := range r.receipts {
		if filter.BatchNo != "" && h.BatchNo != filter.BatchNo {
			continue
		}
		out = append(out, h)
	}
	return out, int64(len(out)), nil
}

func (r *stubHistoryRepo) ListReleases(_ context.Context, filter dto.HistoryFilter) ([]model.ReleaseHistory, int64, error) {
	var out []model.ReleaseHistory
	for _, h := range r.releases {
		if filter.BatchNo != "" && h.BatchNo != filter.BatchNo {
			continue
		}
		out = append(out, h)
	}
	return out, int64(len(out)), nil
}

func (r *stubHistoryRepo) FindReleaseByID(_ context.Context, id uuid.UUID) (*model.ReleaseHistory, error) {
	for i := range r.releases {
		if r.releases[i].ID == id {
			return &r.releases[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubHistoryRepo) LatestReceiptByBatch(_ context.Context, batchNo string) (*model.ReceiptHistory, error) {
	for i := len(r.receipts) - 1; i >= 0; i-- {
		if r.receipts[i].BatchNo == batchNo {
			return &r.receipts[i], nil
		}
	}
	return nil, errors.New("not found")
}

var _ repository.HistoryRepository = (*stubHistoryRepo)(nil)

// stubProductRepo is an in-memory catalog.
type stubProductRepo struct {
	products []model.Product
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.products = append(r.products, *p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			return &r.products[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	return r.activeProducts(), int64(len(r.activeProducts())), nil
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	return r.activeProducts(), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	for i := range r.products {
		if r.products[i].ID == p.ID {
			r.products[i] = *p
			return nil
		}
	}
	return errors.New("not found")
}

func (r *stubProductRepo) activeProducts() []model.Product {
	var out []model.Product
	for _, p := range r.products {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubOperatorRepo holds operators keyed by username.
type stubOperatorRepo struct {
	operators map[string]*model.Operator
}

func newStubOperatorRepo() *stubOperatorRepo {
	return &stubOperatorRepo{operators: make(map[string]*model.Operator)}
}

func (r *stubOperatorRepo) Create(_ context.Context, o *model.Operator) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.operators[o.Username] = o
	return nil
}

func (r *stubOperatorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Operator, error) {
	for _, o := range r.operators {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubOperatorRepo) FindByUsername(_ context.Context, username string) (*model.Operator, error) {
	o, ok := r.operators[username]
	if !ok || !o.Active {
		return nil, errors.New("not found")
	}
	return o, nil
}

func (r *stubOperatorRepo) List(_ context.Context) ([]model.Operator, error) {
	var out []model.Operator
	for _, o := range r.operators {
		if o.Active {
			out = append(out, *o)
		}
	}
	return out, nil
}

var _ repository.OperatorRepository = (*stubOperatorRepo)(nil)
