package product

import (
	"context"

	"github.com/glowdesk/inventory-service/internal/model"
	"github.com/glowdesk/inventory-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, tenantID, id string) (*model.Product, error)
	FindByIDs(ctx context.Context, tenantID string, ids []string) ([]model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, tenantID, id string) error
	IsSKUUnique(ctx context.Context, tenantID, sku, excludeID string) (bool, error)
}
