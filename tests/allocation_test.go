package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"pdstock/internal/dto"
	"pdstock/internal/model"
	"pdstock/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildStockSvc() (service.StockService, *stubStockItemRepo, *stubHistoryRepo, *stubProductRepo) {
	items := newStubStockItemRepo()
	history := &stubHistoryRepo{}
	products := &stubProductRepo{}
	svc := service.NewStockService(items, history, products, nil)
	return svc, items, history, products
}

func seedLot(items *stubStockItemRepo, batchNo string, qty int, receivedAt time.Time) uuid.UUID {
	lot := &model.StockItem{
		ThaiName:    "น้ำยาล้างไตทางช่องท้อง 1.5%",
		EnglishName: "PD Solution 1.5% 2L",
		BatchNo:     batchNo,
		Exp:         "2027-03-01",
		Quantity:    qty,
		Status:      model.StatusInStock,
		ReceivedAt:  receivedAt,
	}
	_ = items.CreateTx(nil, lot)
	return lot.ID
}

func TestRelease_FullLot_FlipsInPlace(t *testing.T) {
	svc, items, history, _ := buildStockSvc()
	id := seedLot(items, "B77", 5, time.Now())

	resp, err := svc.Release(context.Background(), dto.ReleaseRequest{
		BatchNo: "B77", Quantity: 5, ReleasedTo: "Ward 4 / K. Somchai",
	}, "nurse1")
	require.NoError(t, err)

	// Same lot identity, no sibling created.
	assert.Equal(t, id.String(), resp.Item.ID)
	assert.Len(t, items.items, 1)

	stored := items.get(id)
	assert.Equal(t, model.StatusReleased, stored.Status)
	assert.Equal(t, 5, stored.Quantity)
	assert.Equal(t, "Ward 4 / K. Somchai", stored.ReleasedTo)
	assert.Equal(t, "nurse1", stored.ProcessedBy)
	require.NotNil(t, stored.ReleasedAt)

	require.Len(t, history.releases, 1)
	assert.Equal(t, 5, history.releases[0].Quantity)
	assert.Equal(t, "B77", history.releases[0].BatchNo)
}

func TestRelease_PartialLot_SplitsConservingQuantity(t *testing.T) {
	svc, items, history, _ := buildStockSvc()
	id := seedLot(items, "B100", 100, time.Now())

	resp, err := svc.Release(context.Background(), dto.ReleaseRequest{
		BatchNo: "B100", Quantity: 30, ReleasedTo: "Home patient 112",
	}, "nurse1")
	require.NoError(t, err)

	// Original keeps the remainder and stays In Stock.
	original := items.get(id)
	assert.Equal(t, model.StatusInStock, original.Status)
	assert.Equal(t, 70, original.Quantity)

	// Sibling carries the released portion with a new identity.
	assert.Len(t, items.items, 2)
	assert.NotEqual(t, id.String(), resp.Item.ID)
	assert.Equal(t, model.StatusReleased, resp.Item.Status)
	assert.Equal(t, 30, resp.Item.Quantity)
	// Receipt time is copied so FIFO ordering of later queries is unaffected.
	assert.Equal(t, original.ReceivedAt.Format(time.RFC3339), resp.Item.ReceivedAt)

	// Quantity conservation across the batch.
	assert.Equal(t, 100, items.totalForBatch("B100"))

	require.Len(t, history.releases, 1)
	assert.Equal(t, 30, history.releases[0].Quantity)
}

func TestRelease_SpansLots_OldestFirst(t *testing.T) {
	svc, items, history, _ := buildStockSvc()
	t1 := time.Now().Add(-48 * time.Hour)
	t2 := time.Now()
	oldID := seedLot(items, "B9", 2, t1)
	newID := seedLot(items, "B9", 3, t2)

	resp, err := svc.Release(context.Background(), dto.ReleaseRequest{
		BatchNo: "B9", Quantity: 4, ReleasedTo: "Ward 2",
	}, "nurse2")
	require.NoError(t, err)

	// Oldest lot fully consumed.
	old := items.get(oldID)
	assert.Equal(t, model.StatusReleased, old.Status)
	assert.Equal(t, 2, old.Quantity)

	// Newer lot split: 1 unit remains on the shelf.
	newer := items.get(newID)
	assert.Equal(t, model.StatusInStock, newer.Status)
	assert.Equal(t, 1, newer.Quantity)

	// Returned lot is the sibling created by the split.
	assert.Equal(t, model.StatusReleased, resp.Item.Status)
	assert.Equal(t, 2, resp.Item.Quantity)

	assert.Equal(t, 5, items.totalForBatch("B9"))

	// One history row for the whole request.
	require.Len(t, history.releases, 1)
	assert.Equal(t, 4, history.releases[0].Quantity)
}

func TestRelease_InsufficientStock_LeavesLedgerUntouched(t *testing.T) {
	svc, items, history, _ := buildStockSvc()
	id := seedLot(items, "B55", 3, time.Now())

	_, err := svc.Release(context.Background(), dto.ReleaseRequest{
		BatchNo: "B55", Quantity: 5, ReleasedTo: "Ward 1",
	}, "nurse1")

	var insufficient *service.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Available)
	assert.Equal(t, 5, insufficient.Requested)

	// All-or-nothing: nothing was released.
	stored := items.get(id)
	assert.Equal(t, model.StatusInStock, stored.Status)
	assert.Equal(t, 3, stored.Quantity)
	assert.Empty(t, history.releases)
}

func TestRelease_UnknownBatch(t *testing.T) {
	svc, _, _, _ := buildStockSvc()

	_, err := svc.Release(context.Background(), dto.ReleaseRequest{
		BatchNo: "NOPE", Quantity: 1, ReleasedTo: "Ward 1",
	}, "nurse1")
	assert.ErrorIs(t, err, service.ErrBatchNotFound)
}

func TestRelease_RejectsBadInput(t *testing.T) {
	svc, items, _, _ := buildStockSvc()
	seedLot(items, "B1", 5, time.Now())

	cases := []dto.ReleaseRequest{
		{BatchNo: "", Quantity: 1, ReleasedTo: "Ward 1"},
		{BatchNo: "B1", Quantity: 0, ReleasedTo: "Ward 1"},
		{BatchNo: "B1", Quantity: -2, ReleasedTo: "Ward 1"},
		{BatchNo: "B1", Quantity: 1, ReleasedTo: "  "},
	}
	for _, req := range cases {
		_, err := svc.Release(context.Background(), req, "nurse1")
		assert.ErrorIs(t, err, service.ErrValidation)
	}
}

func TestRelease_HistoryFailureDoesNotUndoStockMutation(t *testing.T) {
	svc, items, history, _ := buildStockSvc()
	id := seedLot(items, "B42", 5, time.Now())
	history.failAppends = true

	resp, err := svc.Release(context.Background(), dto.ReleaseRequest{
		BatchNo: "B42", Quantity: 5, ReleasedTo: "Ward 3",
	}, "nurse1")

	// The ledger mutation stands even though the audit row was lost.
	require.NoError(t, err)
	assert.Equal(t, model.StatusReleased, resp.Item.Status)
	assert.Equal(t, model.StatusReleased, items.get(id).Status)
	assert.Empty(t, history.releases)
}

func TestRelease_BackToBackConsumesSameBatch(t *testing.T) {
	svc, items, _, _ := buildStockSvc()
	seedLot(items, "B8", 10, time.Now())

	_, err := svc.Release(context.Background(), dto.ReleaseRequest{
		BatchNo: "B8", Quantity: 6, ReleasedTo: "Ward 1",
	}, "nurse1")
	require.NoError(t, err)

	_, err = svc.Release(context.Background(), dto.ReleaseRequest{
		BatchNo: "B8", Quantity: 4, ReleasedTo: "Ward 2",
	}, "nurse1")
	require.NoError(t, err)

	// Shelf is empty; a third release finds nothing.
	_, err = svc.Release(context.Background(), dto.ReleaseRequest{
		BatchNo: "B8", Quantity: 1, ReleasedTo: "Ward 3",
	}, "nurse1")
	assert.True(t, errors.Is(err, service.ErrBatchNotFound))

	assert.Equal(t, 10, items.totalForBatch("B8"))
}

func TestRelease_MixedConsumptionConservesTotal(t *testing.T) {
	svc, items, history, _ := buildStockSvc()
	base := time.Now()
	seedLot(items, "MIX9", 2, base)
	seedLot(items, "MIX9", 3, base.Add(time.Minute))
	seedLot(items, "MIX9", 10, base.Add(2*time.Minute))

	// Spans the two oldest lots: 2 consumed whole, 3 split into 1 + 2.
	_, err := svc.Release(context.Background(), dto.ReleaseRequest{
		BatchNo: "MIX9", Quantity: 4, ReleasedTo: "Ward 1",
	}, "nurse1")
	require.NoError(t, err)
	assert.Equal(t, 15, items.totalForBatch("MIX9"))

	// Exactly drains the shelf: full consumes only, no sibling row appears.
	rows := len(items.items)
	_, err = svc.Release(context.Background(), dto.ReleaseRequest{
		BatchNo: "MIX9", Quantity: 11, ReleasedTo: "Ward 2",
	}, "nurse1")
	require.NoError(t, err)
	assert.Len(t, items.items, rows)
	assert.Equal(t, 15, items.totalForBatch("MIX9"))
	assert.Empty(t, items.inStock("MIX9"))

	// Nothing left; the failed request must not touch the ledger.
	_, err = svc.Release(context.Background(), dto.ReleaseRequest{
		BatchNo: "MIX9", Quantity: 1, ReleasedTo: "Ward 3",
	}, "nurse1")
	assert.True(t, errors.Is(err, service.ErrBatchNotFound))
	assert.Equal(t, 15, items.totalForBatch("MIX9"))
	require.Len(t, history.releases, 2)
	assert.Equal(t, 4, history.releases[0].Quantity)
	assert.Equal(t, 11, history.releases[1].Quantity)
}
