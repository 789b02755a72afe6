package usecase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/glowdesk/inventory-service/internal/apperror"
	"github.com/glowdesk/inventory-service/internal/inventory"
	"github.com/glowdesk/inventory-service/internal/inventory/dto"
	"github.com/glowdesk/inventory-service/internal/inventory/repository"
	"github.com/glowdesk/inventory-service/internal/model"
	"github.com/glowdesk/inventory-service/internal/result"
	"github.com/glowdesk/inventory-service/internal/validation"
	"github.com/glowdesk/inventory-service/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type inventoryUseCase struct {
	repo   inventory.Repository
	logger logger.Logger
}

func NewInventoryUseCase(repo inventory.Repository, log logger.Logger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func checkTenant(tenantID string) error {
	return validation.Var(tenantID, "tenantId", "required,uuid4").Error()
}

func checkID(id, field string) error {
	return validation.Var(id, field, "required,uuid4").Error()
}

func dbErr(operation string, err error) *apperror.Error {
	return apperror.Database(operation, "Database operation failed", err)
}

func requirePositive(qty decimal.Decimal, field string) error {
	if !qty.IsPositive() {
		return apperror.Validation(fmt.Sprintf("%s must be greater than zero", field), field)
	}
	return nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

func (uc *inventoryUseCase) List(ctx context.Context, f *dto.InventoryFilters) result.Result[dto.Page[dto.StockItem]] {
	if err := checkTenant(f.TenantID); err != nil {
		return result.Err[dto.Page[dto.StockItem]](err)
	}
	if v := validation.Struct(*f); v.IsErr() {
		return result.Err[dto.Page[dto.StockItem]](v.Error())
	}
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)

	items, total, err := uc.repo.FindAll(ctx, f)
	if err != nil {
		return result.Err[dto.Page[dto.StockItem]](dbErr("inventory.list", err))
	}
	return result.Ok(dto.Page[dto.StockItem]{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize})
}

func (uc *inventoryUseCase) GetByProduct(ctx context.Context, tenantID, productID string) result.Result[model.Inventory] {
	if err := checkTenant(tenantID); err != nil {
		return result.Err[model.Inventory](err)
	}
	if err := checkID(productID, "productId"); err != nil {
		return result.Err[model.Inventory](err)
	}

	inv, err := uc.repo.GetByProduct(ctx, tenantID, productID)
	if err != nil {
		return result.Err[model.Inventory](dbErr("inventory.get", err))
	}
	if inv == nil {
		return result.Err[model.Inventory](apperror.NotFound("inventory", productID))
	}
	return result.Ok(*inv)
}

func (uc *inventoryUseCase) Create(ctx context.Context, input *dto.CreateStockInput) result.Result[model.Inventory] {
	if err := checkTenant(input.TenantID); err != nil {
		return result.Err[model.Inventory](err)
	}
	if v := validation.Struct(*input); v.IsErr() {
		return result.Err[model.Inventory](v.Error())
	}
	if input.Quantity.IsNegative() {
		return result.Err[model.Inventory](apperror.Validation("quantity must not be negative", "quantity"))
	}

	existing, err := uc.repo.GetByProduct(ctx, input.TenantID, input.ProductID)
	if err != nil {
		return result.Err[model.Inventory](dbErr("inventory.create", err))
	}
	if existing != nil {
		return result.Err[model.Inventory](apperror.BusinessRule(
			"duplicate_inventory",
			"Inventory for this product already exists",
			"DUPLICATE_INVENTORY",
		))
	}

	now := time.Now().UTC()
	inv := model.Inventory{
		ID:              uuid.NewString(),
		TenantID:        input.TenantID,
		ProductID:       input.ProductID,
		LocationID:      input.LocationID,
		Quantity:        input.Quantity,
		ReorderLevel:    input.ReorderLevel,
		ReorderQuantity: input.ReorderQuantity,
		UnitCost:        input.UnitCost,
		SupplierID:      input.SupplierID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	entry := newEntry(&inv, model.TxTypeInitial, input.Quantity, decimal.Zero, model.RefTypeManual, nil, input.PerformedBy, now)

	if err = uc.repo.CreateWithEntry(ctx, &inv, entry); err != nil {
		if repository.IsUniqueViolation(err) {
			return result.Err[model.Inventory](apperror.BusinessRule(
				"duplicate_inventory",
				"Inventory for this product already exists",
				"DUPLICATE_INVENTORY",
			))
		}
		return result.Err[model.Inventory](dbErr("inventory.create", err))
	}
	return result.Ok(inv)
}

func (uc *inventoryUseCase) Update(ctx context.Context, input *dto.UpdateStockInput) result.Result[model.Inventory] {
	if err := checkTenant(input.TenantID); err != nil {
		return result.Err[model.Inventory](err)
	}
	if err := checkID(input.InventoryID, "inventoryId"); err != nil {
		return result.Err[model.Inventory](err)
	}
	if v := validation.Struct(*input); v.IsErr() {
		return result.Err[model.Inventory](v.Error())
	}

	inv, err := uc.repo.GetByID(ctx, input.TenantID, input.InventoryID)
	if err != nil {
		return result.Err[model.Inventory](dbErr("inventory.update", err))
	}
	if inv == nil {
		return result.Err[model.Inventory](apperror.NotFound("inventory", input.InventoryID))
	}

	now := time.Now().UTC()
	var entry *model.InventoryTransaction

	if input.Quantity != nil && !input.Quantity.Equal(inv.Quantity) {
		if input.Quantity.IsNegative() {
			return result.Err[model.Inventory](apperror.Validation("quantity must not be negative", "quantity"))
		}
		prev := inv.Quantity
		inv.Quantity = *input.Quantity
		entry = newEntry(inv, model.TxTypeAdjustment, inv.Quantity.Sub(prev), prev, model.RefTypeManual, nil, input.PerformedBy, now)
		entry.Notes = input.Notes
	}
	if input.ReorderLevel != nil {
		inv.ReorderLevel = *input.ReorderLevel
	}
	if input.ReorderQuantity != nil {
		inv.ReorderQuantity = *input.ReorderQuantity
	}
	if input.UnitCost != nil {
		inv.UnitCost = *input.UnitCost
	}
	if input.LocationID != nil {
		inv.LocationID = input.LocationID
	}
	if input.SupplierID != nil {
		inv.SupplierID = input.SupplierID
	}
	inv.UpdatedAt = now

	if err = uc.repo.UpdateWithEntry(ctx, inv, entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result.Err[model.Inventory](apperror.NotFound("inventory", input.InventoryID))
		}
		return result.Err[model.Inventory](dbErr("inventory.update", err))
	}
	return result.Ok(*inv)
}

func (uc *inventoryUseCase) Delete(ctx context.Context, tenantID, id string) result.Result[bool] {
	if err := checkTenant(tenantID); err != nil {
		return result.Err[bool](err)
	}
	if err := checkID(id, "inventoryId"); err != nil {
		return result.Err[bool](err)
	}

	if err := uc.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result.Err[bool](apperror.NotFound("inventory", id))
		}
		return result.Err[bool](dbErr("inventory.delete", err))
	}
	return result.Ok(true)
}

func (uc *inventoryUseCase) ServiceProducts(ctx context.Context, tenantID, serviceID string) result.Result[[]model.ServiceProduct] {
	if err := checkTenant(tenantID); err != nil {
		return result.Err[[]model.ServiceProduct](err)
	}
	if err := checkID(serviceID, "serviceId"); err != nil {
		return result.Err[[]model.ServiceProduct](err)
	}

	items, err := uc.repo.ListServiceProducts(ctx, tenantID, serviceID)
	if err != nil {
		return result.Err[[]model.ServiceProduct](dbErr("service_products.list", err))
	}
	return result.Ok(items)
}

func (uc *inventoryUseCase) AddServiceProduct(ctx context.Context, input *dto.AddServiceProductInput) result.Result[model.ServiceProduct] {
	if err := checkTenant(input.TenantID); err != nil {
		return result.Err[model.ServiceProduct](err)
	}
	if v := validation.Struct(*input); v.IsErr() {
		return result.Err[model.ServiceProduct](v.Error())
	}
	if err := requirePositive(input.Quantity, "quantity"); err != nil {
		return result.Err[model.ServiceProduct](err)
	}

	now := time.Now().UTC()
	sp := model.ServiceProduct{
		ID:         uuid.NewString(),
		TenantID:   input.TenantID,
		ServiceID:  input.ServiceID,
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
		IsOptional: input.IsOptional,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.CreateServiceProduct(ctx, &sp); err != nil {
		if repository.IsUniqueViolation(err) {
			return result.Err[model.ServiceProduct](apperror.BusinessRule(
				"duplicate_service_product",
				"Product is already associated with this service",
				"DUPLICATE_SERVICE_PRODUCT",
			))
		}
		return result.Err[model.ServiceProduct](dbErr("service_products.create", err))
	}
	return result.Ok(sp)
}

func (uc *inventoryUseCase) RemoveServiceProduct(ctx context.Context, tenantID, id string) result.Result[bool] {
	if err := checkTenant(tenantID); err != nil {
		return result.Err[bool](err)
	}
	if err := checkID(id, "serviceProductId"); err != nil {
		return result.Err[bool](err)
	}

	if err := uc.repo.DeleteServiceProduct(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result.Err[bool](apperror.NotFound("service_product", id))
		}
		return result.Err[bool](dbErr("service_products.delete", err))
	}
	return result.Ok(true)
}

// DeductForService is the inventory deduction saga. Every requested line is
// checked against a single batch load before anything is written; one
// shortfall fails the whole request with the full shortfall list and no
// mutation. The happy path commits stock updates, ledger rows and alert
// candidates in one repository transaction.
func (uc *inventoryUseCase) DeductForService(ctx context.Context, input *dto.DeductForServiceInput) result.Result[dto.DeductionResult] {
	if err := checkTenant(input.TenantID); err != nil {
		return result.Err[dto.DeductionResult](err)
	}
	if v := validation.Struct(*input); v.IsErr() {
		return result.Err[dto.DeductionResult](v.Error())
	}
	for _, item := range input.Items {
		if err := requirePositive(item.Quantity, "quantity"); err != nil {
			return result.Err[dto.DeductionResult](err)
		}
	}

	productIDs := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	rows, err := uc.repo.BatchGetByProducts(ctx, input.TenantID, productIDs)
	if err != nil {
		return result.Err[dto.DeductionResult](dbErr("inventory.deduct", err))
	}
	byProduct := make(map[string]model.Inventory, len(rows))
	for _, row := range rows {
		byProduct[row.ProductID] = row
	}

	shortfalls := []dto.Shortfall{}
	for _, item := range input.Items {
		inv, ok := byProduct[item.ProductID]
		if !ok {
			shortfalls = append(shortfalls, dto.Shortfall{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: decimal.Zero,
				Reason:    "not_tracked",
			})
			continue
		}
		if inv.AvailableQuantity().LessThan(item.Quantity) {
			shortfalls = append(shortfalls, dto.Shortfall{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: inv.AvailableQuantity(),
				Reason:    "insufficient",
			})
		}
	}
	if len(shortfalls) > 0 {
		return result.Err[dto.DeductionResult](apperror.BusinessRule(
			"insufficient_stock",
			fmt.Sprintf("Insufficient stock for %d product(s)", len(shortfalls)),
			"INSUFFICIENT_STOCK",
		).WithDetails(map[string]interface{}{"shortfalls": shortfalls}))
	}

	referenceID := input.ServiceID
	if input.ReferenceID != nil {
		referenceID = *input.ReferenceID
	}

	now := time.Now().UTC()
	applies := make([]dto.DeductionApply, 0, len(input.Items))
	entries := make([]model.InventoryTransaction, 0, len(input.Items))
	for _, item := range input.Items {
		inv := byProduct[item.ProductID]
		prev := inv.Quantity
		inv.Quantity = prev.Sub(item.Quantity)
		inv.UpdatedAt = now

		entry := newEntry(&inv, model.TxTypeDeduction, item.Quantity.Neg(), prev, model.RefTypeServiceCompletion, &referenceID, input.PerformedBy, now)
		entries = append(entries, *entry)

		applies = append(applies, dto.DeductionApply{
			Inventory: inv,
			Entry:     *entry,
			Alert:     alertCandidate(&inv, now),
		})
	}

	alerts, err := uc.repo.ApplyDeduction(ctx, applies)
	if err != nil {
		uc.logger.Error("inventory deduction failed",
			zap.String("tenantId", input.TenantID),
			zap.String("serviceId", input.ServiceID),
			zap.Error(err))
		return result.Err[dto.DeductionResult](dbErr("inventory.deduct", err))
	}
	return result.Ok(dto.DeductionResult{Transactions: entries, Alerts: alerts})
}

// alertCandidate builds the alert a stock level implies, or nil when the
// level is above the reorder threshold.
func alertCandidate(inv *model.Inventory, now time.Time) *model.InventoryAlert {
	if inv.Quantity.GreaterThan(inv.ReorderLevel) {
		return nil
	}
	alertType := model.AlertLowStock
	severity := model.AlertSeverityWarning
	message := fmt.Sprintf("Stock is low: %s remaining (reorder level %s)",
		inv.Quantity.String(), inv.ReorderLevel.String())
	if inv.Quantity.IsZero() {
		alertType = model.AlertOutOfStock
		severity = model.AlertSeverityCritical
		message = "Product is out of stock"
	}
	metadata, _ := json.Marshal(map[string]interface{}{
		"message":         message,
		"currentQuantity": inv.Quantity,
		"reorderLevel":    inv.ReorderLevel,
		"reorderQuantity": inv.ReorderQuantity,
	})
	return &model.InventoryAlert{
		ID:        uuid.NewString(),
		TenantID:  inv.TenantID,
		ProductID: inv.ProductID,
		AlertType: alertType,
		Severity:  severity,
		Status:    model.AlertStatusActive,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newEntry(inv *model.Inventory, txType string, quantity, previous decimal.Decimal, refType string, refID *string, performedBy *string, now time.Time) *model.InventoryTransaction {
	return &model.InventoryTransaction{
		ID:               uuid.NewString(),
		TenantID:         inv.TenantID,
		InventoryID:      inv.ID,
		ProductID:        inv.ProductID,
		TransactionType:  txType,
		Quantity:         quantity,
		PreviousQuantity: previous,
		NewQuantity:      previous.Add(quantity),
		ReferenceType:    &refType,
		ReferenceID:      refID,
		PerformedBy:      performedBy,
		CreatedAt:        now,
	}
}

func (uc *inventoryUseCase) Transactions(ctx context.Context, f *dto.TransactionFilters) result.Result[dto.Page[model.InventoryTransaction]] {
	if err := checkTenant(f.TenantID); err != nil {
		return result.Err[dto.Page[model.InventoryTransaction]](err)
	}
	if v := validation.Struct(*f); v.IsErr() {
		return result.Err[dto.Page[model.InventoryTransaction]](v.Error())
	}
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)

	items, total, err := uc.repo.ListTransactions(ctx, f)
	if err != nil {
		return result.Err[dto.Page[model.InventoryTransaction]](dbErr("transactions.list", err))
	}
	return result.Ok(dto.Page[model.InventoryTransaction]{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize})
}

// Movements are ledger rows tagged with the movement reference type.
func (uc *inventoryUseCase) Movements(ctx context.Context, f *dto.TransactionFilters) result.Result[dto.Page[model.InventoryTransaction]] {
	f.ReferenceType = model.RefTypeMovement
	return uc.Transactions(ctx, f)
}

func (uc *inventoryUseCase) CreateMovement(ctx context.Context, input *dto.CreateMovementInput) result.Result[model.InventoryTransaction] {
	if err := checkTenant(input.TenantID); err != nil {
		return result.Err[model.InventoryTransaction](err)
	}
	if v := validation.Struct(*input); v.IsErr() {
		return result.Err[model.InventoryTransaction](v.Error())
	}
	if err := requirePositive(input.Quantity, "quantity"); err != nil {
		return result.Err[model.InventoryTransaction](err)
	}

	inv, err := uc.repo.GetByProduct(ctx, input.TenantID, input.ProductID)
	if err != nil {
		return result.Err[model.InventoryTransaction](dbErr("movements.create", err))
	}
	if inv == nil {
		return result.Err[model.InventoryTransaction](apperror.NotFound("inventory", input.ProductID))
	}

	delta := input.Quantity
	txType := model.TxTypeAddition
	if input.Direction == "out" {
		delta = input.Quantity.Neg()
		txType = model.TxTypeDeduction
	}

	prev := inv.Quantity
	next := prev.Add(delta)
	if next.IsNegative() {
		return result.Err[model.InventoryTransaction](apperror.BusinessRule(
			"insufficient_stock",
			fmt.Sprintf("Cannot move %s out: only %s available", input.Quantity.String(), prev.String()),
			"INSUFFICIENT_STOCK",
		))
	}

	now := time.Now().UTC()
	inv.Quantity = next
	inv.UpdatedAt = now
	entry := newEntry(inv, txType, delta, prev, model.RefTypeMovement, nil, input.PerformedBy, now)
	entry.Notes = input.Reason

	if err = uc.repo.UpdateWithEntry(ctx, inv, entry); err != nil {
		return result.Err[model.InventoryTransaction](dbErr("movements.create", err))
	}
	return result.Ok(*entry)
}

// Transfers are synthesized from zero-delta ledger rows; their real state
// lives in the metadata column and status filtering happens here, not in SQL.
func (uc *inventoryUseCase) Transfers(ctx context.Context, f *dto.TransferFilters) result.Result[dto.Page[dto.TransferView]] {
	if err := checkTenant(f.TenantID); err != nil {
		return result.Err[dto.Page[dto.TransferView]](err)
	}
	if v := validation.Struct(*f); v.IsErr() {
		return result.Err[dto.Page[dto.TransferView]](v.Error())
	}
	page, pageSize := normalizePage(f.Page, f.PageSize)

	rows, _, err := uc.repo.ListTransactions(ctx, &dto.TransactionFilters{
		TenantID:      f.TenantID,
		ProductID:     f.ProductID,
		ReferenceType: model.RefTypeTransfer,
	})
	if err != nil {
		return result.Err[dto.Page[dto.TransferView]](dbErr("transfers.list", err))
	}

	views := []dto.TransferView{}
	for i := range rows {
		view, err := transferFromEntry(&rows[i])
		if err != nil {
			continue
		}
		if f.Status != "" && view.Status != f.Status {
			continue
		}
		views = append(views, view)
	}

	total := len(views)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return result.Ok(dto.Page[dto.TransferView]{Items: views[start:end], Total: total, Page: page, PageSize: pageSize})
}

func (uc *inventoryUseCase) TransferByID(ctx context.Context, tenantID, id string) result.Result[dto.TransferView] {
	if err := checkTenant(tenantID); err != nil {
		return result.Err[dto.TransferView](err)
	}
	if err := checkID(id, "transferId"); err != nil {
		return result.Err[dto.TransferView](err)
	}

	entry, err := uc.getTransferEntry(ctx, tenantID, id)
	if err != nil {
		return result.Err[dto.TransferView](err)
	}
	view, verr := transferFromEntry(entry)
	if verr != nil {
		return result.Err[dto.TransferView](dbErr("transfers.get", verr))
	}
	return result.Ok(view)
}

func (uc *inventoryUseCase) CreateTransfer(ctx context.Context, input *dto.CreateTransferInput) result.Result[dto.TransferView] {
	if err := checkTenant(input.TenantID); err != nil {
		return result.Err[dto.TransferView](err)
	}
	if v := validation.Struct(*input); v.IsErr() {
		return result.Err[dto.TransferView](v.Error())
	}
	if err := requirePositive(input.Quantity, "quantity"); err != nil {
		return result.Err[dto.TransferView](err)
	}
	if input.FromLocationID == input.ToLocationID {
		return result.Err[dto.TransferView](apperror.Validation("source and destination locations must differ", "toLocationId"))
	}

	inv, err := uc.repo.GetByProduct(ctx, input.TenantID, input.ProductID)
	if err != nil {
		return result.Err[dto.TransferView](dbErr("transfers.create", err))
	}
	if inv == nil {
		return result.Err[dto.TransferView](apperror.NotFound("inventory", input.ProductID))
	}
	if inv.AvailableQuantity().LessThan(input.Quantity) {
		return result.Err[dto.TransferView](apperror.BusinessRule(
			"insufficient_stock",
			fmt.Sprintf("Cannot transfer %s: only %s available", input.Quantity.String(), inv.AvailableQuantity().String()),
			"INSUFFICIENT_STOCK",
		))
	}

	now := time.Now().UTC()
	metadata, err := json.Marshal(dto.TransferMetadata{
		Status:           dto.TransferPending,
		FromLocationID:   input.FromLocationID,
		ToLocationID:     input.ToLocationID,
		TransferQuantity: input.Quantity,
		Reason:           input.Reason,
	})
	if err != nil {
		return result.Err[dto.TransferView](dbErr("transfers.create", err))
	}

	// Zero-delta adjustment row: the transfer reserves nothing and moves
	// nothing until completion handling exists.
	entry := newEntry(inv, model.TxTypeAdjustment, decimal.Zero, inv.Quantity, model.RefTypeTransfer, nil, input.PerformedBy, now)
	entry.Metadata = metadata

	if err = uc.repo.InsertTransaction(ctx, entry); err != nil {
		return result.Err[dto.TransferView](dbErr("transfers.create", err))
	}

	view, verr := transferFromEntry(entry)
	if verr != nil {
		return result.Err[dto.TransferView](dbErr("transfers.create", verr))
	}
	return result.Ok(view)
}

func (uc *inventoryUseCase) UpdateTransfer(ctx context.Context, input *dto.UpdateTransferInput) result.Result[dto.TransferView] {
	if err := checkTenant(input.TenantID); err != nil {
		return result.Err[dto.TransferView](err)
	}
	if err := checkID(input.TransferID, "transferId"); err != nil {
		return result.Err[dto.TransferView](err)
	}
	if v := validation.Struct(*input); v.IsErr() {
		return result.Err[dto.TransferView](v.Error())
	}

	entry, err := uc.getTransferEntry(ctx, input.TenantID, input.TransferID)
	if err != nil {
		return result.Err[dto.TransferView](err)
	}

	var meta dto.TransferMetadata
	if uerr := json.Unmarshal(entry.Metadata, &meta); uerr != nil {
		return result.Err[dto.TransferView](dbErr("transfers.update", uerr))
	}
	if meta.Status == dto.TransferCompleted || meta.Status == dto.TransferCancelled {
		return result.Err[dto.TransferView](apperror.BusinessRule(
			"transfer_finalized",
			fmt.Sprintf("Transfer is already %s", meta.Status),
			"TRANSFER_FINALIZED",
		))
	}

	// TODO: completing a transfer should move stock between locations once
	// inventory rows are tracked per location.
	meta.Status = input.Status
	if input.Notes != nil {
		meta.Notes = input.Notes
	}
	metadata, merr := json.Marshal(meta)
	if merr != nil {
		return result.Err[dto.TransferView](dbErr("transfers.update", merr))
	}

	if uerr := uc.repo.UpdateTransactionMetadata(ctx, input.TenantID, input.TransferID, metadata); uerr != nil {
		if errors.Is(uerr, sql.ErrNoRows) {
			return result.Err[dto.TransferView](apperror.NotFound("transfer", input.TransferID))
		}
		return result.Err[dto.TransferView](dbErr("transfers.update", uerr))
	}

	entry.Metadata = metadata
	view, verr := transferFromEntry(entry)
	if verr != nil {
		return result.Err[dto.TransferView](dbErr("transfers.update", verr))
	}
	return result.Ok(view)
}

func (uc *inventoryUseCase) DeleteTransfer(ctx context.Context, tenantID, id string) result.Result[bool] {
	if err := checkTenant(tenantID); err != nil {
		return result.Err[bool](err)
	}
	if err := checkID(id, "transferId"); err != nil {
		return result.Err[bool](err)
	}

	if _, err := uc.getTransferEntry(ctx, tenantID, id); err != nil {
		return result.Err[bool](err)
	}
	if err := uc.repo.DeleteTransaction(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result.Err[bool](apperror.NotFound("transfer", id))
		}
		return result.Err[bool](dbErr("transfers.delete", err))
	}
	return result.Ok(true)
}

// getTransferEntry loads a ledger row and verifies it really is a transfer.
func (uc *inventoryUseCase) getTransferEntry(ctx context.Context, tenantID, id string) (*model.InventoryTransaction, error) {
	entry, err := uc.repo.GetTransaction(ctx, tenantID, id)
	if err != nil {
		return nil, dbErr("transfers.get", err)
	}
	if entry == nil || entry.ReferenceType == nil || *entry.ReferenceType != model.RefTypeTransfer {
		return nil, apperror.NotFound("transfer", id)
	}
	return entry, nil
}

func transferFromEntry(entry *model.InventoryTransaction) (dto.TransferView, error) {
	var meta dto.TransferMetadata
	if err := json.Unmarshal(entry.Metadata, &meta); err != nil {
		return dto.TransferView{}, err
	}
	return dto.TransferView{
		ID:             entry.ID,
		TenantID:       entry.TenantID,
		ProductID:      entry.ProductID,
		Status:         meta.Status,
		FromLocationID: meta.FromLocationID,
		ToLocationID:   meta.ToLocationID,
		Quantity:       meta.TransferQuantity,
		Reason:         meta.Reason,
		Notes:          meta.Notes,
		CreatedAt:      entry.CreatedAt,
	}, nil
}

func (uc *inventoryUseCase) Alerts(ctx context.Context, f *dto.AlertFilters) result.Result[dto.Page[model.InventoryAlert]] {
	if err := checkTenant(f.TenantID); err != nil {
		return result.Err[dto.Page[model.InventoryAlert]](err)
	}
	if v := validation.Struct(*f); v.IsErr() {
		return result.Err[dto.Page[model.InventoryAlert]](v.Error())
	}
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)

	items, total, err := uc.repo.ListAlerts(ctx, f)
	if err != nil {
		return result.Err[dto.Page[model.InventoryAlert]](dbErr("alerts.list", err))
	}
	return result.Ok(dto.Page[model.InventoryAlert]{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize})
}

func (uc *inventoryUseCase) AlertByID(ctx context.Context, tenantID, id string) result.Result[model.InventoryAlert] {
	if err := checkTenant(tenantID); err != nil {
		return result.Err[model.InventoryAlert](err)
	}
	if err := checkID(id, "alertId"); err != nil {
		return result.Err[model.InventoryAlert](err)
	}

	alert, err := uc.repo.GetAlert(ctx, tenantID, id)
	if err != nil {
		return result.Err[model.InventoryAlert](dbErr("alerts.get", err))
	}
	if alert == nil {
		return result.Err[model.InventoryAlert](apperror.NotFound("alert", id))
	}
	return result.Ok(*alert)
}

func (uc *inventoryUseCase) CreateAlert(ctx context.Context, input *dto.CreateAlertInput) result.Result[model.InventoryAlert] {
	if err := checkTenant(input.TenantID); err != nil {
		return result.Err[model.InventoryAlert](err)
	}
	if v := validation.Struct(*input); v.IsErr() {
		return result.Err[model.InventoryAlert](v.Error())
	}

	inv, err := uc.repo.GetByProduct(ctx, input.TenantID, input.ProductID)
	if err != nil {
		return result.Err[model.InventoryAlert](dbErr("alerts.create", err))
	}
	if inv == nil {
		return result.Err[model.InventoryAlert](apperror.NotFound("inventory", input.ProductID))
	}

	now := time.Now().UTC()
	metadata, _ := json.Marshal(map[string]interface{}{"message": input.Message})
	alert := model.InventoryAlert{
		ID:        uuid.NewString(),
		TenantID:  input.TenantID,
		ProductID: input.ProductID,
		AlertType: input.AlertType,
		Severity:  input.Severity,
		Status:    model.AlertStatusActive,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := uc.repo.CreateAlert(ctx, &alert)
	if err != nil {
		return result.Err[model.InventoryAlert](dbErr("alerts.create", err))
	}
	if !created {
		return result.Err[model.InventoryAlert](apperror.BusinessRule(
			"duplicate_alert",
			"An active alert of this type already exists for the product",
			"DUPLICATE_ALERT",
		))
	}
	return result.Ok(alert)
}

func (uc *inventoryUseCase) UpdateAlert(ctx context.Context, input *dto.UpdateAlertInput) result.Result[model.InventoryAlert] {
	if err := checkTenant(input.TenantID); err != nil {
		return result.Err[model.InventoryAlert](err)
	}
	if err := checkID(input.AlertID, "alertId"); err != nil {
		return result.Err[model.InventoryAlert](err)
	}
	if v := validation.Struct(*input); v.IsErr() {
		return result.Err[model.InventoryAlert](v.Error())
	}

	alert, err := uc.repo.GetAlert(ctx, input.TenantID, input.AlertID)
	if err != nil {
		return result.Err[model.InventoryAlert](dbErr("alerts.update", err))
	}
	if alert == nil {
		return result.Err[model.InventoryAlert](apperror.NotFound("alert", input.AlertID))
	}

	now := time.Now().UTC()
	alert.Status = input.Status
	if input.Status == model.AlertStatusResolved && alert.ResolvedAt == nil {
		alert.ResolvedAt = &now
	}
	if input.Status == model.AlertStatusActive {
		alert.ResolvedAt = nil
	}
	if input.Message != nil {
		meta := map[string]interface{}{}
		if len(alert.Metadata) == 0 || json.Unmarshal(alert.Metadata, &meta) == nil {
			meta["message"] = *input.Message
			alert.Metadata, _ = json.Marshal(meta)
		}
	}
	alert.UpdatedAt = now

	if err = uc.repo.UpdateAlert(ctx, alert); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result.Err[model.InventoryAlert](apperror.NotFound("alert", input.AlertID))
		}
		return result.Err[model.InventoryAlert](dbErr("alerts.update", err))
	}
	return result.Ok(*alert)
}

func (uc *inventoryUseCase) DeleteAlert(ctx context.Context, tenantID, id string) result.Result[bool] {
	if err := checkTenant(tenantID); err != nil {
		return result.Err[bool](err)
	}
	if err := checkID(id, "alertId"); err != nil {
		return result.Err[bool](err)
	}

	if err := uc.repo.DeleteAlert(ctx, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result.Err[bool](apperror.NotFound("alert", id))
		}
		return result.Err[bool](dbErr("alerts.delete", err))
	}
	return result.Ok(true)
}

func (uc *inventoryUseCase) LowStockReport(ctx context.Context, tenantID string) result.Result[[]dto.LowStockRow] {
	if err := checkTenant(tenantID); err != nil {
		return result.Err[[]dto.LowStockRow](err)
	}
	rows, err := uc.repo.LowStockReport(ctx, tenantID)
	if err != nil {
		return result.Err[[]dto.LowStockRow](dbErr("reports.low_stock", err))
	}
	return result.Ok(rows)
}

func (uc *inventoryUseCase) StockValueReport(ctx context.Context, f *dto.ReportFilters) result.Result[[]dto.StockValueRow] {
	if err := checkTenant(f.TenantID); err != nil {
		return result.Err[[]dto.StockValueRow](err)
	}
	rows, err := uc.repo.StockValueReport(ctx, f.TenantID, f.Category)
	if err != nil {
		return result.Err[[]dto.StockValueRow](dbErr("reports.stock_value", err))
	}
	return result.Ok(rows)
}

func (uc *inventoryUseCase) MovementSummaryReport(ctx context.Context, f *dto.ReportFilters) result.Result[[]dto.MovementSummaryRow] {
	if err := checkTenant(f.TenantID); err != nil {
		return result.Err[[]dto.MovementSummaryRow](err)
	}
	rows, err := uc.repo.MovementSummary(ctx, f)
	if err != nil {
		return result.Err[[]dto.MovementSummaryRow](dbErr("reports.movement_summary", err))
	}
	return result.Ok(rows)
}

func (uc *inventoryUseCase) ProductPerformanceReport(ctx context.Context, f *dto.ReportFilters) result.Result[[]dto.ProductPerformanceRow] {
	if err := checkTenant(f.TenantID); err != nil {
		return result.Err[[]dto.ProductPerformanceRow](err)
	}
	rows, err := uc.repo.ProductPerformance(ctx, f)
	if err != nil {
		return result.Err[[]dto.ProductPerformanceRow](dbErr("reports.product_performance", err))
	}
	return result.Ok(rows)
}
