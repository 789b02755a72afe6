package usecase

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/glowdesk/inventory-service/internal/apperror"
	"github.com/glowdesk/inventory-service/internal/model"
	"github.com/glowdesk/inventory-service/internal/product"
	"github.com/glowdesk/inventory-service/internal/product/dto"
	"github.com/glowdesk/inventory-service/internal/result"
	"github.com/glowdesk/inventory-service/internal/validation"
	"github.com/glowdesk/inventory-service/pkg/cache"
	"github.com/glowdesk/inventory-service/pkg/logger"
	"github.com/glowdesk/inventory-service/pkg/search"
)

const (
	productIndex = "products"
	listCacheTTL = 5 * time.Minute
)

const productMapping = `{
	"mappings": {
		"properties": {
			"tenantId": { "type": "keyword" },
			"name": { "type": "text" },
			"description": { "type": "text" },
			"sku": { "type": "keyword" },
			"category": { "type": "keyword" },
			"price": { "type": "double" },
			"createdAt": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo   product.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.Logger
}

// NewProductUseCase wires the catalog usecase. cache and es may be nil; both
// paths degrade to plain DB queries.
func NewProductUseCase(repo product.Repository, c *cache.RedisClient, es *search.Client, log logger.Logger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  c,
		es:     es,
		logger: log,
	}
}

func dbErr(operation string, err error) *apperror.Error {
	return apperror.Database(operation, "Database operation failed", err)
}

func (uc *productUseCase) Create(ctx context.Context, input *dto.CreateProductInput) result.Result[model.Product] {
	if v := validation.Var(input.TenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[model.Product](v.Error())
	}
	if v := validation.Struct(*input); v.IsErr() {
		return result.Err[model.Product](v.Error())
	}

	if input.SKU != nil && *input.SKU != "" {
		unique, err := uc.repo.IsSKUUnique(ctx, input.TenantID, *input.SKU, "")
		if err != nil {
			return result.Err[model.Product](dbErr("products.create", err))
		}
		if !unique {
			return result.Err[model.Product](apperror.BusinessRule(
				"duplicate_sku", "A product with this SKU already exists", "DUPLICATE_SKU"))
		}
	}

	now := time.Now().UTC()
	p := model.Product{
		ID:          uuid.NewString(),
		TenantID:    input.TenantID,
		Name:        input.Name,
		Description: input.Description,
		SKU:         input.SKU,
		Category:    input.Category,
		Unit:        input.Unit,
		Price:       input.Price,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, &p); err != nil {
		return result.Err[model.Product](dbErr("products.create", err))
	}

	go uc.invalidateListCache(context.Background(), p.TenantID)
	go uc.syncToElastic(context.Background(), &p)

	return result.Ok(p)
}

func (uc *productUseCase) Get(ctx context.Context, tenantID, id string) result.Result[model.Product] {
	if v := validation.Var(tenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[model.Product](v.Error())
	}
	if v := validation.Var(id, "productId", "required,uuid4"); v.IsErr() {
		return result.Err[model.Product](v.Error())
	}

	p, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return result.Err[model.Product](dbErr("products.get", err))
	}
	if p == nil {
		return result.Err[model.Product](apperror.NotFound("product", id))
	}
	return result.Ok(*p)
}

func (uc *productUseCase) List(ctx context.Context, f *dto.ProductFilters) result.Result[dto.ProductPage[model.Product]] {
	if v := validation.Var(f.TenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[dto.ProductPage[model.Product]](v.Error())
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}

	cacheKey := uc.listCacheKey(f)
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var page dto.ProductPage[model.Product]
			if err := json.Unmarshal([]byte(raw), &page); err == nil {
				return result.Ok(page)
			}
		}
	}

	if f.Search != "" && uc.es != nil {
		if page, ok := uc.searchElastic(ctx, f); ok {
			return result.Ok(page)
		}
	}

	items, total, err := uc.repo.FindAll(ctx, f)
	if err != nil {
		return result.Err[dto.ProductPage[model.Product]](dbErr("products.list", err))
	}
	page := dto.ProductPage[model.Product]{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}

	if uc.cache != nil {
		if data, err := json.Marshal(page); err == nil {
			uc.cache.Set(ctx, cacheKey, string(data), listCacheTTL)
		}
	}
	return result.Ok(page)
}

// searchElastic resolves matching IDs from the index and hydrates them from
// the database. A failed search falls back to SQL, never to an error.
func (uc *productUseCase) searchElastic(ctx context.Context, f *dto.ProductFilters) (dto.ProductPage[model.Product], bool) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []map[string]any{
					{
						"query_string": map[string]any{
							"query":  fmt.Sprintf("*%s*", f.Search),
							"fields": []string{"name^3", "sku", "description"},
						},
					},
					{
						"term": map[string]any{"tenantId": f.TenantID},
					},
				},
			},
		},
		"from": (f.Page - 1) * f.PageSize,
		"size": f.PageSize,
	}

	ids, err := uc.es.SearchIDs(ctx, productIndex, query)
	if err != nil {
		uc.logger.Error("product search failed, falling back to SQL", zap.Error(err))
		return dto.ProductPage[model.Product]{}, false
	}

	items, err := uc.repo.FindByIDs(ctx, f.TenantID, ids)
	if err != nil {
		uc.logger.Error("product hydration failed, falling back to SQL", zap.Error(err))
		return dto.ProductPage[model.Product]{}, false
	}
	return dto.ProductPage[model.Product]{Items: items, Total: len(items), Page: f.Page, PageSize: f.PageSize}, true
}

func (uc *productUseCase) Update(ctx context.Context, input *dto.UpdateProductInput) result.Result[model.Product] {
	if v := validation.Var(input.TenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[model.Product](v.Error())
	}
	if v := validation.Var(input.ProductID, "productId", "required,uuid4"); v.IsErr() {
		return result.Err[model.Product](v.Error())
	}

	p, err := uc.repo.FindByID(ctx, input.TenantID, input.ProductID)
	if err != nil {
		return result.Err[model.Product](dbErr("products.update", err))
	}
	if p == nil {
		return result.Err[model.Product](apperror.NotFound("product", input.ProductID))
	}

	if input.SKU != nil && (p.SKU == nil || *p.SKU != *input.SKU) {
		unique, err := uc.repo.IsSKUUnique(ctx, input.TenantID, *input.SKU, p.ID)
		if err != nil {
			return result.Err[model.Product](dbErr("products.update", err))
		}
		if !unique {
			return result.Err[model.Product](apperror.BusinessRule(
				"duplicate_sku", "A product with this SKU already exists", "DUPLICATE_SKU"))
		}
		p.SKU = input.SKU
	}
	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.Category != nil {
		p.Category = input.Category
	}
	if input.Unit != nil {
		p.Unit = *input.Unit
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	p.UpdatedAt = time.Now().UTC()

	if err = uc.repo.Update(ctx, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result.Err[model.Product](apperror.NotFound("product", input.ProductID))
		}
		return result.Err[model.Product](dbErr("products.update", err))
	}

	go uc.invalidateListCache(context.Background(), p.TenantID)
	go uc.syncToElastic(context.Background(), p)

	return result.Ok(*p)
}

func (uc *productUseCase) Delete(ctx context.Context, tenantID, id string) result.Result[bool] {
	if v := validation.Var(tenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[bool](v.Error())
	}
	if v := validation.Var(id, "productId", "required,uuid4"); v.IsErr() {
		return result.Err[bool](v.Error())
	}

	if err := uc.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result.Err[bool](apperror.NotFound("product", id))
		}
		return result.Err[bool](dbErr("products.delete", err))
	}

	go uc.invalidateListCache(context.Background(), tenantID)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), productIndex, id); err != nil {
				uc.logger.Error("failed to remove product from index", zap.Error(err))
			}
		}()
	}
	return result.Ok(true)
}

func (uc *productUseCase) listCacheKey(f *dto.ProductFilters) string {
	data, _ := json.Marshal(f)
	return fmt.Sprintf("products:list:%s:%x", f.TenantID, md5.Sum(data))
}

func (uc *productUseCase) invalidateListCache(ctx context.Context, tenantID string) {
	if uc.cache == nil {
		return
	}
	pattern := fmt.Sprintf("products:list:%s:*", tenantID)
	if err := uc.cache.DeleteByPattern(ctx, pattern); err != nil {
		uc.logger.Error("failed to invalidate product cache", zap.Error(err))
	}
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	_ = uc.es.CreateIndex(ctx, productIndex, productMapping)
	if err := uc.es.Index(ctx, productIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}
