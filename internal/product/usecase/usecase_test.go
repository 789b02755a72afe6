package usecase

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/inventory-service/internal/apperror"
	"github.com/glowdesk/inventory-service/internal/model"
	"github.com/glowdesk/inventory-service/internal/product"
	"github.com/glowdesk/inventory-service/internal/product/dto"
	"github.com/glowdesk/inventory-service/pkg/logger"
)

const tenantID = "b9f7c6e2-4d3a-4f1e-9c2b-7a8d5e6f0a1b"

type fakeRepo struct {
	products map[string]*model.Product
}

var _ product.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: map[string]*model.Product{}}
}

func (f *fakeRepo) Create(ctx context.Context, p *model.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, tenant, id string) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok || p.TenantID != tenant {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (f *fakeRepo) FindByIDs(ctx context.Context, tenant string, ids []string) ([]model.Product, error) {
	items := []model.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok && p.TenantID == tenant {
			items = append(items, *p)
		}
	}
	return items, nil
}

func (f *fakeRepo) FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	items := []model.Product{}
	for _, p := range f.products {
		if p.TenantID != filters.TenantID {
			continue
		}
		if filters.ActiveOnly && !p.IsActive {
			continue
		}
		items = append(items, *p)
	}
	return items, len(items), nil
}

func (f *fakeRepo) Update(ctx context.Context, p *model.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return sql.ErrNoRows
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, tenant, id string) error {
	p, ok := f.products[id]
	if !ok || p.TenantID != tenant {
		return sql.ErrNoRows
	}
	delete(f.products, id)
	return nil
}

func (f *fakeRepo) IsSKUUnique(ctx context.Context, tenant, sku, excludeID string) (bool, error) {
	for _, p := range f.products {
		if p.TenantID == tenant && p.ID != excludeID && p.SKU != nil && *p.SKU == sku {
			return false, nil
		}
	}
	return true, nil
}

// newUC builds the usecase without cache or search; both are optional and the
// degraded path is the one unit tests can cover.
func newUC(repo *fakeRepo) product.UseCase {
	return NewProductUseCase(repo, nil, nil, logger.NewNop())
}

func TestCreateProduct(t *testing.T) {
	uc := newUC(newFakeRepo())

	res := uc.Create(context.Background(), &dto.CreateProductInput{
		TenantID: tenantID,
		Name:     "Argan Oil",
		Unit:     "ml",
		Price:    decimal.NewFromInt(12),
	})
	require.True(t, res.IsOk())
	assert.Equal(t, "Argan Oil", res.Value().Name)
	assert.True(t, res.Value().IsActive)
	assert.NotEmpty(t, res.Value().ID)
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	repo := newFakeRepo()
	uc := newUC(repo)

	sku := "ARG-001"
	first := uc.Create(context.Background(), &dto.CreateProductInput{
		TenantID: tenantID,
		Name:     "Argan Oil",
		Unit:     "ml",
		SKU:      &sku,
	})
	require.True(t, first.IsOk())

	second := uc.Create(context.Background(), &dto.CreateProductInput{
		TenantID: tenantID,
		Name:     "Argan Oil Refill",
		Unit:     "ml",
		SKU:      &sku,
	})
	require.True(t, second.IsErr())
	e := apperror.From(second.Error(), "")
	require.Equal(t, apperror.KindBusinessRule, e.Kind)
	assert.Equal(t, "DUPLICATE_SKU", e.Code)
}

func TestCreateProductValidatesInput(t *testing.T) {
	uc := newUC(newFakeRepo())

	res := uc.Create(context.Background(), &dto.CreateProductInput{
		TenantID: tenantID,
		Name:     "No unit",
	})
	require.True(t, res.IsErr())
	assert.True(t, apperror.IsValidation(res.Error()))
}

func TestGetProductNotFound(t *testing.T) {
	uc := newUC(newFakeRepo())

	res := uc.Get(context.Background(), tenantID, "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d")
	require.True(t, res.IsErr())
	assert.True(t, apperror.IsNotFound(res.Error()))
}

func TestListFallsBackToSQLWithoutSearch(t *testing.T) {
	repo := newFakeRepo()
	uc := newUC(repo)

	created := uc.Create(context.Background(), &dto.CreateProductInput{
		TenantID: tenantID,
		Name:     "Hair Dye",
		Unit:     "g",
	})
	require.True(t, created.IsOk())

	res := uc.List(context.Background(), &dto.ProductFilters{
		TenantID: tenantID,
		Search:   "dye",
	})
	require.True(t, res.IsOk())
	assert.Equal(t, 1, res.Value().Total)
	assert.Equal(t, 1, res.Value().Page)
	assert.Equal(t, 20, res.Value().PageSize)
}

func TestUpdateProductMergesFields(t *testing.T) {
	repo := newFakeRepo()
	uc := newUC(repo)

	created := uc.Create(context.Background(), &dto.CreateProductInput{
		TenantID: tenantID,
		Name:     "Hair Dye",
		Unit:     "g",
		Price:    decimal.NewFromInt(10),
	})
	require.True(t, created.IsOk())

	name := "Hair Dye Pro"
	inactive := false
	res := uc.Update(context.Background(), &dto.UpdateProductInput{
		TenantID:  tenantID,
		ProductID: created.Value().ID,
		Name:      &name,
		IsActive:  &inactive,
	})
	require.True(t, res.IsOk())
	assert.Equal(t, "Hair Dye Pro", res.Value().Name)
	assert.False(t, res.Value().IsActive)
	assert.True(t, res.Value().Price.Equal(decimal.NewFromInt(10)))
}

func TestDeleteProduct(t *testing.T) {
	repo := newFakeRepo()
	uc := newUC(repo)

	created := uc.Create(context.Background(), &dto.CreateProductInput{
		TenantID: tenantID,
		Name:     "Hair Dye",
		Unit:     "g",
	})
	require.True(t, created.IsOk())

	res := uc.Delete(context.Background(), tenantID, created.Value().ID)
	require.True(t, res.IsOk())

	again := uc.Delete(context.Background(), tenantID, created.Value().ID)
	require.True(t, again.IsErr())
	assert.True(t, apperror.IsNotFound(again.Error()))
}
