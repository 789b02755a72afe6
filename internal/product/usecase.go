package product

import (
	"context"

	"github.com/glowdesk/inventory-service/internal/model"
	"github.com/glowdesk/inventory-service/internal/product/dto"
	"github.com/glowdesk/inventory-service/internal/result"
)

type UseCase interface {
	Create(ctx context.Context, input *dto.CreateProductInput) result.Result[model.Product]
	Get(ctx context.Context, tenantID, id string) result.Result[model.Product]
	List(ctx context.Context, filters *dto.ProductFilters) result.Result[dto.ProductPage[model.Product]]
	Update(ctx context.Context, input *dto.UpdateProductInput) result.Result[model.Product]
	Delete(ctx context.Context, tenantID, id string) result.Result[bool]
}
