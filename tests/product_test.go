package tests

import (
	"context"
	"testing"

	"pdstock/internal/dto"
	"pdstock/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProductSvc() (service.ProductService, *stubProductRepo) {
	repo := &stubProductRepo{}
	return service.NewProductService(repo), repo
}

func TestRegister_CreatesActiveProduct(t *testing.T) {
	svc, repo := buildProductSvc()

	resp, err := svc.Register(context.Background(), dto.RegisterProductRequest{
		ThaiName:     "น้ำยาล้างไต 1.5%",
		EnglishName:  "PD Solution 1.5% 2L",
		Manufacturer: "Baxter",
		MinStock:     10,
	}, "nurse1")
	require.NoError(t, err)

	assert.Equal(t, "nurse1", resp.Product.RegisteredBy)
	assert.Nil(t, resp.DuplicateWarning)
	require.Len(t, repo.products, 1)
	assert.True(t, repo.products[0].Active)
}

func TestRegister_WarnsOnNormalizedNameCollision(t *testing.T) {
	svc, _ := buildProductSvc()

	_, err := svc.Register(context.Background(), dto.RegisterProductRequest{
		EnglishName: "Extraneal 7.5% 2L", Manufacturer: "Baxter",
	}, "nurse1")
	require.NoError(t, err)

	// Same name modulo spacing and case — warned, but still registered.
	resp, err := svc.Register(context.Background(), dto.RegisterProductRequest{
		EnglishName: " extraneal 7.5%2L", Manufacturer: "Fresenius",
	}, "nurse2")
	require.NoError(t, err)

	require.NotNil(t, resp.DuplicateWarning)
	assert.Equal(t, "Extraneal 7.5% 2L", resp.DuplicateWarning.Name)
	assert.Equal(t, "Baxter", resp.DuplicateWarning.Manufacturer)

	list, err := svc.List(context.Background(), dto.ProductFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)
}

func TestRegister_RequiresAName(t *testing.T) {
	svc, _ := buildProductSvc()
	_, err := svc.Register(context.Background(), dto.RegisterProductRequest{
		Manufacturer: "Baxter",
	}, "nurse1")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestRegister_EnglishOnlyFallsBackAsDisplayName(t *testing.T) {
	svc, repo := buildProductSvc()
	_, err := svc.Register(context.Background(), dto.RegisterProductRequest{
		EnglishName: "Physioneal 40 1.36% 2L",
	}, "nurse1")
	require.NoError(t, err)
	assert.Equal(t, "Physioneal 40 1.36% 2L", repo.products[0].ThaiName)
}

func TestUpdate_PatchesOnlyProvidedFields(t *testing.T) {
	svc, repo := buildProductSvc()
	created, err := svc.Register(context.Background(), dto.RegisterProductRequest{
		EnglishName: "PD Solution 2.5% 2L", Manufacturer: "Baxter", MinStock: 5,
	}, "nurse1")
	require.NoError(t, err)

	id := uuid.MustParse(created.Product.ID)
	newMin := 20
	resp, err := svc.Update(context.Background(), id, dto.UpdateProductRequest{
		MinStock: &newMin,
	})
	require.NoError(t, err)

	assert.Equal(t, 20, resp.MinStock)
	assert.Equal(t, "Baxter", resp.Manufacturer)
	assert.Equal(t, "PD Solution 2.5% 2L", repo.products[0].EnglishName)
}

func TestUpdate_UnknownProduct(t *testing.T) {
	svc, _ := buildProductSvc()
	name := "Anything"
	_, err := svc.Update(context.Background(), uuid.New(), dto.UpdateProductRequest{
		EnglishName: &name,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}
