package usecase

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/inventory-service/internal/apperror"
	"github.com/glowdesk/inventory-service/internal/model"
	"github.com/glowdesk/inventory-service/internal/result"
	"github.com/glowdesk/inventory-service/internal/supplier"
	"github.com/glowdesk/inventory-service/internal/supplier/dto"
	"github.com/glowdesk/inventory-service/internal/validation"
	"github.com/glowdesk/inventory-service/pkg/logger"
)

type supplierUseCase struct {
	repo   supplier.Repository
	logger logger.Logger
}

func NewSupplierUseCase(repo supplier.Repository, log logger.Logger) supplier.UseCase {
	return &supplierUseCase{repo: repo, logger: log}
}

func dbErr(operation string, err error) error {
	return apperror.Database(operation, "Database operation failed", err)
}

func (uc *supplierUseCase) Create(ctx context.Context, input *dto.CreateSupplierInput) result.Result[model.Supplier] {
	if v := validation.Var(input.TenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[model.Supplier](v.Error())
	}
	if v := validation.Struct(*input); v.IsErr() {
		return result.Err[model.Supplier](v.Error())
	}

	now := time.Now().UTC()
	s := model.Supplier{
		ID:            uuid.NewString(),
		TenantID:      input.TenantID,
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, &s); err != nil {
		return result.Err[model.Supplier](dbErr("suppliers.create", err))
	}
	return result.Ok(s)
}

func (uc *supplierUseCase) Get(ctx context.Context, tenantID, id string) result.Result[model.Supplier] {
	if v := validation.Var(tenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[model.Supplier](v.Error())
	}
	s, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return result.Err[model.Supplier](dbErr("suppliers.get", err))
	}
	if s == nil {
		return result.Err[model.Supplier](apperror.NotFound("supplier", id))
	}
	return result.Ok(*s)
}

func (uc *supplierUseCase) List(ctx context.Context, tenantID string, activeOnly bool) result.Result[[]model.Supplier] {
	if v := validation.Var(tenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[[]model.Supplier](v.Error())
	}
	items, err := uc.repo.FindAll(ctx, tenantID, activeOnly)
	if err != nil {
		return result.Err[[]model.Supplier](dbErr("suppliers.list", err))
	}
	return result.Ok(items)
}

func (uc *supplierUseCase) Update(ctx context.Context, input *dto.UpdateSupplierInput) result.Result[model.Supplier] {
	if v := validation.Var(input.TenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[model.Supplier](v.Error())
	}
	if v := validation.Struct(*input); v.IsErr() {
		return result.Err[model.Supplier](v.Error())
	}

	s, err := uc.repo.FindByID(ctx, input.TenantID, input.SupplierID)
	if err != nil {
		return result.Err[model.Supplier](dbErr("suppliers.update", err))
	}
	if s == nil {
		return result.Err[model.Supplier](apperror.NotFound("supplier", input.SupplierID))
	}

	if input.Name != nil {
		s.Name = *input.Name
	}
	if input.ContactPerson != nil {
		s.ContactPerson = input.ContactPerson
	}
	if input.Email != nil {
		s.Email = input.Email
	}
	if input.Phone != nil {
		s.Phone = input.Phone
	}
	if input.Address != nil {
		s.Address = input.Address
	}
	if input.IsActive != nil {
		s.IsActive = *input.IsActive
	}
	s.UpdatedAt = time.Now().UTC()

	if err = uc.repo.Update(ctx, s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result.Err[model.Supplier](apperror.NotFound("supplier", input.SupplierID))
		}
		return result.Err[model.Supplier](dbErr("suppliers.update", err))
	}
	return result.Ok(*s)
}

func (uc *supplierUseCase) Delete(ctx context.Context, tenantID, id string) result.Result[bool] {
	if v := validation.Var(tenantID, "tenantId", "required,uuid4"); v.IsErr() {
		return result.Err[bool](v.Error())
	}
	if err := uc.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result.Err[bool](apperror.NotFound("supplier", id))
		}
		return result.Err[bool](dbErr("suppliers.delete", err))
	}
	return result.Ok(true)
}
