package tests

import (
	"context"
	"errors"
	"testing"

	"pdstock/internal/dto"
	"pdstock/internal/model"
	"pdstock/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExtractor returns canned label fields or a sidecar failure.
type stubExtractor struct {
	fields *dto.LabelFields
	err    error
}

func (s *stubExtractor) ExtractLabel(_ context.Context, _ string) (*dto.LabelFields, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.fields, nil
}

func buildScanSvc(extractor service.LabelExtractor) (service.ScanService, *stubProductRepo, *stubStockItemRepo) {
	products := &stubProductRepo{}
	items := newStubStockItemRepo()
	history := &stubHistoryRepo{}
	productSvc := service.NewProductService(products)
	stockSvc := service.NewStockService(items, history, products, nil)
	return service.NewScanService(extractor, productSvc, stockSvc), products, items
}

func registerProduct(products *stubProductRepo, thai, english string) {
	_ = products.Create(context.Background(), &model.Product{
		ThaiName: thai, EnglishName: english, Active: true,
	})
}

func TestScanLabel_SingleCandidateWithDuplicateBatchWarning(t *testing.T) {
	extractor := &stubExtractor{fields: &dto.LabelFields{
		EnglishName: "PD Solution 1.5% 2L",
		BatchNo:     "L500",
		Exp:         "2027-06-01",
	}}
	svc, products, items := buildScanSvc(extractor)
	registerProduct(products, "", "PD Solution 1.5% (2L)")
	seedNamedLot(items, "", "PD Solution 1.5% 2L", "L500", "2027-06-01", 8, model.StatusInStock)

	resp, err := svc.ScanLabel(context.Background(), dto.ScanLabelRequest{
		Image: "b64...", Purpose: "receive",
	})
	require.NoError(t, err)

	require.Len(t, resp.Candidates, 1)
	require.NotNil(t, resp.DuplicateBatch)
	assert.Equal(t, 8, resp.DuplicateBatch.Quantity)
}

func TestScanLabel_ExtractionFailureDegradesToManualEntry(t *testing.T) {
	svc, products, _ := buildScanSvc(&stubExtractor{err: errors.New("sidecar down")})
	registerProduct(products, "", "PD Solution 1.5% (2L)")

	resp, err := svc.ScanLabel(context.Background(), dto.ScanLabelRequest{
		Image: "b64...", Purpose: "receive",
	})
	require.NoError(t, err)

	// Empty fields, no candidates, no advisories — the operator types it in.
	assert.Equal(t, dto.LabelFields{}, resp.Fields)
	assert.Empty(t, resp.Candidates)
	assert.Nil(t, resp.DuplicateBatch)
}

func TestScanLabel_ReleaseWarnsWhenOlderLotExists(t *testing.T) {
	extractor := &stubExtractor{fields: &dto.LabelFields{
		EnglishName: "PD Solution 1.5% 2L",
		BatchNo:     "L801",
		Exp:         "2028-01-01",
	}}
	svc, products, items := buildScanSvc(extractor)
	registerProduct(products, "", "PD Solution 1.5% 2L")
	seedNamedLot(items, "", "PD Solution 1.5% 2L", "L700", "2026-09-01", 4, model.StatusInStock)

	resp, err := svc.ScanLabel(context.Background(), dto.ScanLabelRequest{
		Image: "b64...", Purpose: "release",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.ExpiryAdvisory)
	assert.Equal(t, "L700", resp.ExpiryAdvisory.BatchNo)
	assert.Equal(t, "2026-09-01", resp.ExpiryAdvisory.Exp)
}

func TestScanLabel_NoWarningWhenScannedLotExpiresFirst(t *testing.T) {
	extractor := &stubExtractor{fields: &dto.LabelFields{
		EnglishName: "PD Solution 1.5% 2L",
		BatchNo:     "L801",
		Exp:         "2026-01-01",
	}}
	svc, products, items := buildScanSvc(extractor)
	registerProduct(products, "", "PD Solution 1.5% 2L")
	seedNamedLot(items, "", "PD Solution 1.5% 2L", "L700", "2026-09-01", 4, model.StatusInStock)

	resp, err := svc.ScanLabel(context.Background(), dto.ScanLabelRequest{
		Image: "b64...", Purpose: "release",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.ExpiryAdvisory)
}

func TestScanLabel_AmbiguousResolutionSkipsAdvisories(t *testing.T) {
	extractor := &stubExtractor{fields: &dto.LabelFields{
		EnglishName: "PD Solution 1.5% 2L",
		BatchNo:     "L500",
	}}
	svc, products, items := buildScanSvc(extractor)
	registerProduct(products, "", "PD Solution 1.5% 2L (Baxter)")
	registerProduct(products, "", "PD Solution 1.5% 2L (Fresenius)")
	seedNamedLot(items, "", "PD Solution 1.5% 2L", "L500", "2027-06-01", 8, model.StatusInStock)

	resp, err := svc.ScanLabel(context.Background(), dto.ScanLabelRequest{
		Image: "b64...", Purpose: "receive",
	})
	require.NoError(t, err)

	assert.Len(t, resp.Candidates, 2)
	assert.Nil(t, resp.DuplicateBatch)
}
