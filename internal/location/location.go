package location

import (
	"context"

	"github.com/glowdesk/inventory-service/internal/location/dto"
	"github.com/glowdesk/inventory-service/internal/model"
	"github.com/glowdesk/inventory-service/internal/result"
)

type UseCase interface {
	Create(ctx context.Context, input *dto.CreateLocationInput) result.Result[model.Location]
	Get(ctx context.Context, tenantID, id string) result.Result[model.Location]
	List(ctx context.Context, tenantID string, activeOnly bool) result.Result[[]model.Location]
	Update(ctx context.Context, input *dto.UpdateLocationInput) result.Result[model.Location]
	Delete(ctx context.Context, tenantID, id string) result.Result[bool]
}

type Repository interface {
	Create(ctx context.Context, l *model.Location) error
	FindByID(ctx context.Context, tenantID, id string) (*model.Location, error)
	FindAll(ctx context.Context, tenantID string, activeOnly bool) ([]model.Location, error)
	Update(ctx context.Context, l *model.Location) error
	Delete(ctx context.Context, tenantID, id string) error
}
