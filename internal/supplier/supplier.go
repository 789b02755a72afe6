package supplier

import (
	"context"

	"github.com/glowdesk/inventory-service/internal/model"
	"github.com/glowdesk/inventory-service/internal/result"
	"github.com/glowdesk/inventory-service/internal/supplier/dto"
)

type UseCase interface {
	Create(ctx context.Context, input *dto.CreateSupplierInput) result.Result[model.Supplier]
	Get(ctx context.Context, tenantID, id string) result.Result[model.Supplier]
	List(ctx context.Context, tenantID string, activeOnly bool) result.Result[[]model.Supplier]
	Update(ctx context.Context, input *dto.UpdateSupplierInput) result.Result[model.Supplier]
	Delete(ctx context.Context, tenantID, id string) result.Result[bool]
}

type Repository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, tenantID, id string) (*model.Supplier, error)
	FindAll(ctx context.Context, tenantID string, activeOnly bool) ([]model.Supplier, error)
	Update(ctx context.Context, s *model.Supplier) error
	Delete(ctx context.Context, tenantID, id string) error
}
