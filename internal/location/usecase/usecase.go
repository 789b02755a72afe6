package usecase

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/inventory-service/internal/apperror"
	"github.com/glowdesk/inventory-service/internal/location"
	"github.com/glowdesk/inventory-service/internal/location/dto"
	"github.com/glowdesk/inventory-service/internal/model"
	"github.com/glowdesk/inventory-service/internal/result"
	"github.com/glowdesk/inventory-service/internal/validation"
	"github.com/glowdesk/inventory-service/pkg/logger"
)

type locationUseCase struct {
	repo   location.Repository
	logger logger.Logger
}

func NewLocationUseCase(repo location.Repository, log logger.Logger) location.UseCase {
	return &locationUseCase{repo: repo, logger: log}
}

func dbErr(operation string, err error) error {
	return apperror.Database(operation, "Database operation failed", err)
}

func (uc *locationUseCase) Create(ctx context.Context, input *dto.CreateLocationInput) result.Result[model.Location] {
	if v := validation.Var(input.TenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[model.Location](v.Error())
	}
	if v := validation.Struct(*input); v.IsErr() {
		return result.Err[model.Location](v.Error())
	}

	now := time.Now().UTC()
	l := model.Location{
		ID:          uuid.NewString(),
		TenantID:    input.TenantID,
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, &l); err != nil {
		return result.Err[model.Location](dbErr("locations.create", err))
	}
	return result.Ok(l)
}

func (uc *locationUseCase) Get(ctx context.Context, tenantID, id string) result.Result[model.Location] {
	if v := validation.Var(tenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[model.Location](v.Error())
	}
	l, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return result.Err[model.Location](dbErr("locations.get", err))
	}
	if l == nil {
		return result.Err[model.Location](apperror.NotFound("location", id))
	}
	return result.Ok(*l)
}

func (uc *locationUseCase) List(ctx context.Context, tenantID string, activeOnly bool) result.Result[[]model.Location] {
	if v := validation.Var(tenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[[]model.Location](v.Error())
	}
	items, err := uc.repo.FindAll(ctx, tenantID, activeOnly)
	if err != nil {
		return result.Err[[]model.Location](dbErr("locations.list", err))
	}
	return result.Ok(items)
}

func (uc *locationUseCase) Update(ctx context.Context, input *dto.UpdateLocationInput) result.Result[model.Location] {
	if v := validation.Var(input.TenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[model.Location](v.Error())
	}

	l, err := uc.repo.FindByID(ctx, input.TenantID, input.LocationID)
	if err != nil {
		return result.Err[model.Location](dbErr("locations.update", err))
	}
	if l == nil {
		return result.Err[model.Location](apperror.NotFound("location", input.LocationID))
	}

	if input.Name != nil {
		l.Name = *input.Name
	}
	if input.Description != nil {
		l.Description = input.Description
	}
	if input.IsActive != nil {
		l.IsActive = *input.IsActive
	}
	l.UpdatedAt = time.Now().UTC()

	if err = uc.repo.Update(ctx, l); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result.Err[model.Location](apperror.NotFound("location", input.LocationID))
		}
		return result.Err[model.Location](dbErr("locations.update", err))
	}
	return result.Ok(*l)
}

func (uc *locationUseCase) Delete(ctx context.Context, tenantID, id string) result.Result[bool] {
	if v := validation.Var(tenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[bool](v.Error())
	}
	if err := uc.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result.Err[bool](apperror.NotFound("location", id))
		}
		return result.Err[bool](dbErr("locations.delete", err))
	}
	return result.Ok(true)
}
