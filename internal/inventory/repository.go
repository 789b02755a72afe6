package inventory

import (
	"context"
	"encoding/json"

	"github.com/glowdesk/inventory-service/internal/inventory/dto"
	"github.com/glowdesk/inventory-service/internal/model"
)

type Repository interface {
	// Stock rows
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]dto.StockItem, int, error)
	GetByID(ctx context.Context, tenantID, id string) (*model.Inventory, error)
	GetByProduct(ctx context.Context, tenantID, productID string) (*model.Inventory, error)
	BatchGetByProducts(ctx context.Context, tenantID string, productIDs []string) ([]model.Inventory, error)
	CreateWithEntry(ctx context.Context, inv *model.Inventory, entry *model.InventoryTransaction) error
	UpdateWithEntry(ctx context.Context, inv *model.Inventory, entry *model.InventoryTransaction) error
	Delete(ctx context.Context, tenantID, id string) error

	// Service-product associations
	ListServiceProducts(ctx context.Context, tenantID, serviceID string) ([]model.ServiceProduct, error)
	CreateServiceProduct(ctx context.Context, sp *model.ServiceProduct) error
	DeleteServiceProduct(ctx context.Context, tenantID, id string) error

	// Ledger
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error)
	GetTransaction(ctx context.Context, tenantID, id string) (*model.InventoryTransaction, error)
	InsertTransaction(ctx context.Context, t *model.InventoryTransaction) error
	UpdateTransactionMetadata(ctx context.Context, tenantID, id string, metadata json.RawMessage) error
	DeleteTransaction(ctx context.Context, tenantID, id string) error

	// Atomic stock mutations
	ApplyDeduction(ctx context.Context, applies []dto.DeductionApply) ([]model.InventoryAlert, error)

	// Alerts
	ListAlerts(ctx context.Context, filters *dto.AlertFilters) ([]model.InventoryAlert, int, error)
	GetAlert(ctx context.Context, tenantID, id string) (*model.InventoryAlert, error)
	CreateAlert(ctx context.Context, alert *model.InventoryAlert) (bool, error)
	UpdateAlert(ctx context.Context, alert *model.InventoryAlert) error
	DeleteAlert(ctx context.Context, tenantID, id string) error

	// Reports
	LowStockReport(ctx context.Context, tenantID string) ([]dto.LowStockRow, error)
	StockValueReport(ctx context.Context, tenantID, category string) ([]dto.StockValueRow, error)
	MovementSummary(ctx context.Context, filters *dto.ReportFilters) ([]dto.MovementSummaryRow, error)
	ProductPerformance(ctx context.Context, filters *dto.ReportFilters) ([]dto.ProductPerformanceRow, error)
}
