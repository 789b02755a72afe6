package inventory

import (
	"context"

	"github.com/glowdesk/inventory-service/internal/inventory/dto"
	"github.com/glowdesk/inventory-service/internal/model"
	"github.com/glowdesk/inventory-service/internal/result"
)

// UseCase is the inventory domain surface. Every operation validates its
// input first and returns a Result; driver failures surface as DatabaseError.
type UseCase interface {
	// Stock
	List(ctx context.Context, filters *dto.InventoryFilters) result.Result[dto.Page[dto.StockItem]]
	GetByProduct(ctx context.Context, tenantID, productID string) result.Result[model.Inventory]
	Create(ctx context.Context, input *dto.CreateStockInput) result.Result[model.Inventory]
	Update(ctx context.Context, input *dto.UpdateStockInput) result.Result[model.Inventory]
	Delete(ctx context.Context, tenantID, id string) result.Result[bool]

	// Service-product associations
	ServiceProducts(ctx context.Context, tenantID, serviceID string) result.Result[[]model.ServiceProduct]
	AddServiceProduct(ctx context.Context, input *dto.AddServiceProductInput) result.Result[model.ServiceProduct]
	RemoveServiceProduct(ctx context.Context, tenantID, id string) result.Result[bool]

	// Deduction saga
	DeductForService(ctx context.Context, input *dto.DeductForServiceInput) result.Result[dto.DeductionResult]

	// Ledger
	Transactions(ctx context.Context, filters *dto.TransactionFilters) result.Result[dto.Page[model.InventoryTransaction]]
	Movements(ctx context.Context, filters *dto.TransactionFilters) result.Result[dto.Page[model.InventoryTransaction]]
	CreateMovement(ctx context.Context, input *dto.CreateMovementInput) result.Result[model.InventoryTransaction]

	// Transfers
	Transfers(ctx context.Context, filters *dto.TransferFilters) result.Result[dto.Page[dto.TransferView]]
	TransferByID(ctx context.Context, tenantID, id string) result.Result[dto.TransferView]
	CreateTransfer(ctx context.Context, input *dto.CreateTransferInput) result.Result[dto.TransferView]
	UpdateTransfer(ctx context.Context, input *dto.UpdateTransferInput) result.Result[dto.TransferView]
	DeleteTransfer(ctx context.Context, tenantID, id string) result.Result[bool]

	// Alerts
	Alerts(ctx context.Context, filters *dto.AlertFilters) result.Result[dto.Page[model.InventoryAlert]]
	AlertByID(ctx context.Context, tenantID, id string) result.Result[model.InventoryAlert]
	CreateAlert(ctx context.Context, input *dto.CreateAlertInput) result.Result[model.InventoryAlert]
	UpdateAlert(ctx context.Context, input *dto.UpdateAlertInput) result.Result[model.InventoryAlert]
	DeleteAlert(ctx context.Context, tenantID, id string) result.Result[bool]

	// Reports
	LowStockReport(ctx context.Context, tenantID string) result.Result[[]dto.LowStockRow]
	StockValueReport(ctx context.Context, filters *dto.ReportFilters) result.Result[[]dto.StockValueRow]
	MovementSummaryReport(ctx context.Context, filters *dto.ReportFilters) result.Result[[]dto.MovementSummaryRow]
	ProductPerformanceReport(ctx context.Context, filters *dto.ReportFilters) result.Result[[]dto.ProductPerformanceRow]
}
