package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"pdstock/internal/dto"
	"pdstock/internal/matching"
	"pdstock/internal/model"
	"pdstock/internal/repository"
	"pdstock/internal/worker"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StockService is the inventory ledger: stock-in, the batch allocation engine,
// and the grouped on-hand projection.
type StockService interface {
	Receive(ctx context.Context, req dto.ReceiveRequest, operator string) (*dto.ReceiveResponse, error)
	Release(ctx context.Context, req dto.ReleaseRequest, operator string) (*dto.ReleaseResponse, error)
	ListItems(ctx context.Context, filter dto.StockItemFilter) ([]dto.StockItemResponse, int64, error)
	GroupOnHand(ctx context.Context) ([]dto.StockGroup, error)
	// DuplicateBatchInfo backs the duplicate-batch advisory on stock-in.
	DuplicateBatchInfo(ctx context.Context, batchNo string) (*dto.DuplicateBatch, error)
	// EarliestExpiry returns the earliest-expiring In-Stock lot of a product,
	// matched by exact (case-insensitive) name. Backs the FEFO advisory.
	EarliestExpiry(ctx context.Context, thaiName, englishName string) (*dto.ExpiryAdvisory, error)
}

type stockService struct {
	items      repository.StockItemRepository
	history    repository.HistoryRepository
	products   repository.ProductRepository
	dispatcher *worker.Dispatcher
}

func NewStockService(
	items repository.StockItemRepository,
	history repository.HistoryRepository,
	products repository.ProductRepository,
	dispatcher *worker.Dispatcher,
) StockService {
	return &stockService{items: items, history: history, products: products, dispatcher: dispatcher}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Receive ──────────────────────────────────────────────────────────────────

// Receive creates exactly one new In-Stock lot and appends one receipt-history
// row. Repeated receipts of the same batch code accumulate as distinct lots —
// the duplicate advisory in the response never blocks the operation.
func (s *stockService) Receive(ctx context.Context, req dto.ReceiveRequest, operator string) (*dto.ReceiveResponse, error) {
	if strings.TrimSpace(req.ThaiName) == "" && strings.TrimSpace(req.EnglishName) == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if strings.TrimSpace(req.BatchNo) == "" {
		return nil, fmt.Errorf("%w: batch_no is required", ErrValidation)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	// Advisory lookup happens before the insert so the new lot does not
	// report itself as its own duplicate.
	dup, err := s.DuplicateBatchInfo(ctx, req.BatchNo)
	if err != nil {
		return nil, err
	}

	item := &model.StockItem{
		ThaiName:     req.ThaiName,
		EnglishName:  req.EnglishName,
		BatchNo:      req.BatchNo,
		Mfd:          req.Mfd,
		Exp:          req.Exp,
		Manufacturer: req.Manufacturer,
		Quantity:     req.Quantity,
		Status:       model.StatusInStock,
		ProcessedBy:  operator,
		ReceivedAt:   time.Now().UTC(),
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	s.appendReceiptHistory(ctx, &model.ReceiptHistory{
		ThaiName:    item.ThaiName,
		EnglishName: item.EnglishName,
		BatchNo:     item.BatchNo,
		Exp:         item.Exp,
		Quantity:    item.Quantity,
		ProcessedBy: operator,
	})

	return &dto.ReceiveResponse{
		Item:           stockItemToResponse(item),
		DuplicateBatch: dup,
	}, nil
}

// ── Release — the allocation engine ──────────────────────────────────────────

// Release converts one release request into lot mutations that conserve
// quantity. Lots of the batch are consumed oldest receipt first (FIFO by
// receipt time — deliberately not expiry-based). A lot with more than the
// remaining need is split: its quantity is decremented in place and a new
// Released sibling lot carries the released portion.
//
// The whole walk runs in one transaction with FOR UPDATE locks on the batch's
// In-Stock rows, so concurrent releases of one batch serialize and the
// sufficiency check cannot be invalidated between read and write.
func (s *stockService) Release(ctx context.Context, req dto.ReleaseRequest, operator string) (*dto.ReleaseResponse, error) {
	if strings.TrimSpace(req.BatchNo) == "" {
		return nil, fmt.Errorf("%w: batch_no is required", ErrValidation)
	}
	if strings.TrimSpace(req.ReleasedTo) == "" {
		return nil, fmt.Errorf("%w: released_to is required", ErrValidation)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	now := time.Now().UTC()
	var first, last model.StockItem

	txErr := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		lots, err := s.items.LockInStockByBatchTx(tx, req.BatchNo)
		if err != nil {
			return err
		}
		if len(lots) == 0 {
			return ErrBatchNotFound
		}

		totalAvailable := 0
		for _, lot := range lots {
			totalAvailable += lot.Quantity
		}
		// All-or-nothing check before any write.
		if totalAvailable < req.Quantity {
			return &InsufficientStockError{
				BatchNo:   req.BatchNo,
				Available: totalAvailable,
				Requested: req.Quantity,
			}
		}

		first = lots[0]
		remaining := req.Quantity

		for i := range lots {
			if remaining == 0 {
				break
			}
			lot := lots[i]

			if lot.Quantity <= remaining {
				// Consume the whole lot: flip it to Released in place.
				lot.Status = model.StatusReleased
				lot.ProcessedBy = operator
				lot.ReleasedTo = req.ReleasedTo
				lot.ReleasedAt = &now
				if err := s.items.UpdateTx(tx, &lot); err != nil {
					return err
				}
				remaining -= lot.Quantity
				last = lot
				continue
			}

			// Split: keep the remainder In Stock, move the released portion
			// into a new sibling lot. The sibling is a new identity — the
			// original's receipt history is untouched.
			lot.Quantity -= remaining
			if err := s.items.UpdateTx(tx, &lot); err != nil {
				return err
			}

			sibling := model.StockItem{
				ThaiName:     lot.ThaiName,
				EnglishName:  lot.EnglishName,
				BatchNo:      lot.BatchNo,
				Mfd:          lot.Mfd,
				Exp:          lot.Exp,
				Manufacturer: lot.Manufacturer,
				Quantity:     remaining,
				Status:       model.StatusReleased,
				ProcessedBy:  operator,
				ReceivedAt:   lot.ReceivedAt,
				ReleasedTo:   req.ReleasedTo,
				ReleasedAt:   &now,
			}
			if err := s.items.CreateTx(tx, &sibling); err != nil {
				return err
			}
			remaining = 0
			last = sibling
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// One history row per request, not per lot. Product name and expiry come
	// from the first consumed lot; the quantity is the requested total.
	s.appendReleaseHistory(ctx, &model.ReleaseHistory{
		ThaiName:    first.ThaiName,
		EnglishName: first.EnglishName,
		BatchNo:     req.BatchNo,
		Exp:         first.Exp,
		Quantity:    req.Quantity,
		ProcessedBy: operator,
		ReleasedTo:  req.ReleasedTo,
	})

	// Fire-and-forget low-stock check for the released product.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueStockAlert(ctx, worker.StockAlertPayload{
			ThaiName:    first.ThaiName,
			EnglishName: first.EnglishName,
		})
	}

	return &dto.ReleaseResponse{Item: stockItemToResponse(&last)}, nil
}

// ── Audit appends ────────────────────────────────────────────────────────────
// Losing an audit row must never roll back the stock mutation it describes.
// A failed append is logged and handed to the worker queue for retry; after
// max attempts it lands in the DLQ for manual reconciliation.

func (s *stockService) appendReceiptHistory(ctx context.Context, h *model.ReceiptHistory) {
	if err := s.history.AppendReceipt(ctx, h); err != nil {
		log.Error().Err(err).Str("batch_no", h.BatchNo).
			Msg("receipt history append failed, scheduling retry")
		s.retryAudit(ctx, worker.AuditPayload{
			Kind:        worker.AuditReceipt,
			ThaiName:    h.ThaiName,
			EnglishName: h.EnglishName,
			BatchNo:     h.BatchNo,
			Exp:         h.Exp,
			Quantity:    h.Quantity,
			ProcessedBy: h.ProcessedBy,
		})
	}
}

func (s *stockService) appendReleaseHistory(ctx context.Context, h *model.ReleaseHistory) {
	if err := s.history.AppendRelease(ctx, h); err != nil {
		log.Error().Err(err).Str("batch_no", h.BatchNo).
			Msg("release history append failed, scheduling retry")
		s.retryAudit(ctx, worker.AuditPayload{
			Kind:        worker.AuditRelease,
			ThaiName:    h.ThaiName,
			EnglishName: h.EnglishName,
			BatchNo:     h.BatchNo,
			Exp:         h.Exp,
			Quantity:    h.Quantity,
			ProcessedBy: h.ProcessedBy,
			ReleasedTo:  h.ReleasedTo,
		})
	}
}

func (s *stockService) retryAudit(ctx context.Context, payload worker.AuditPayload) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.EnqueueAuditRetry(ctx, payload); err != nil {
		// Both the row and the retry are gone — this is the ledger/audit
		// inconsistency the logs must surface.
		log.Error().Err(err).Str("batch_no", payload.BatchNo).
			Msg("audit retry enqueue failed, history row lost")
	}
}

// ── Listing & aggregation ────────────────────────────────────────────────────

func (s *stockService) ListItems(ctx context.Context, filter dto.StockItemFilter) ([]dto.StockItemResponse, int64, error) {
	items, total, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.StockItemResponse, 0, len(items))
	for i := range items {
		out = append(out, stockItemToResponse(&items[i]))
	}
	return out, total, nil
}

// GroupOnHand is a read-only projection: all In-Stock lots grouped by
// normalized product name with total quantity and nearest expiry. It is
// recomputed on every call and never mutates ledger state, so it is safe to
// run concurrently with allocation.
func (s *stockService) GroupOnHand(ctx context.Context) ([]dto.StockGroup, error) {
	items, err := s.items.ListInStock(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*dto.StockGroup)
	for i := range items {
		item := &items[i]
		display := item.ThaiName
		if display == "" {
			display = item.EnglishName
		}
		key := matching.Normalize(display)
		if key == "" {
			key = "unknown"
		}

		g, ok := groups[key]
		if !ok {
			g = &dto.StockGroup{
				Name:          display,
				ThaiName:      item.ThaiName,
				EnglishName:   item.EnglishName,
				Manufacturer:  item.Manufacturer,
				NearestExpiry: item.Exp,
				MinStock:      minStockFor(catalog, item.ThaiName, item.EnglishName),
			}
			groups[key] = g
		}
		g.TotalQuantity += item.Quantity
		if item.Exp != "" && (g.NearestExpiry == "" || item.Exp < g.NearestExpiry) {
			g.NearestExpiry = item.Exp
		}
	}

	out := make([]dto.StockGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// minStockFor finds the alert floor by exact case-insensitive name equality.
// Deliberately stricter than the fuzzy resolver: a threshold attached to the
// wrong product would be worse than none.
func minStockFor(catalog []model.Product, thaiName, englishName string) int {
	for _, p := range catalog {
		if (thaiName != "" && strings.EqualFold(p.ThaiName, thaiName)) ||
			(englishName != "" && strings.EqualFold(p.EnglishName, englishName)) {
			return p.MinStock
		}
	}
	return 0
}

// ── Advisories ───────────────────────────────────────────────────────────────

func (s *stockService) DuplicateBatchInfo(ctx context.Context, batchNo string) (*dto.DuplicateBatch, error) {
	lots, err := s.items.FindInStockByBatch(ctx, batchNo)
	if err != nil {
		return nil, err
	}
	if len(lots) > 0 {
		return &dto.DuplicateBatch{
			ReceivedAt: lots[0].ReceivedAt.Format(time.RFC3339),
			Quantity:   lots[0].Quantity,
		}, nil
	}
	// No live lot — a past receipt of the batch code still warrants a warning.
	receipt, err := s.history.LatestReceiptByBatch(ctx, batchNo)
	if err != nil {
		return nil, nil // not found — no advisory
	}
	return &dto.DuplicateBatch{
		ReceivedAt: receipt.CreatedAt.Format(time.RFC3339),
		Quantity:   receipt.Quantity,
	}, nil
}

func (s *stockService) EarliestExpiry(ctx context.Context, thaiName, englishName string) (*dto.ExpiryAdvisory, error) {
	items, err := s.items.ListInStock(ctx)
	if err != nil {
		return nil, err
	}
	var earliest *model.StockItem
	for i := range items {
		item := &items[i]
		if item.Exp == "" {
			continue
		}
		nameMatch := (thaiName != "" && strings.EqualFold(item.ThaiName, thaiName)) ||
			(englishName != "" && strings.EqualFold(item.EnglishName, englishName))
		if !nameMatch {
			continue
		}
		if earliest == nil || item.Exp < earliest.Exp {
			earliest = item
		}
	}
	if earliest == nil {
		return nil, nil
	}
	return &dto.ExpiryAdvisory{Exp: earliest.Exp, BatchNo: earliest.BatchNo}, nil
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func stockItemToResponse(item *model.StockItem) dto.StockItemResponse {
	resp := dto.StockItemResponse{
		ID:           item.ID.String(),
		ThaiName:     item.ThaiName,
		EnglishName:  item.EnglishName,
		BatchNo:      item.BatchNo,
		Mfd:          item.Mfd,
		Exp:          item.Exp,
		Manufacturer: item.Manufacturer,
		Quantity:     item.Quantity,
		Status:       item.Status,
		ProcessedBy:  item.ProcessedBy,
		ReceivedAt:   item.ReceivedAt.Format(time.RFC3339),
		ReleasedTo:   item.ReleasedTo,
	}
	if item.ReleasedAt != nil {
		resp.ReleasedAt = item.ReleasedAt.Format(time.RFC3339)
	}
	return resp
}
