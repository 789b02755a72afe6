package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/glowdesk/inventory-service/internal/model"
)

// Page is a standard offset-paginated result.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// StockItem is an inventory row joined with its product for list views.
type StockItem struct {
	model.Inventory
	ProductName     string          `db:"product_name" json:"productName"`
	ProductSKU      *string         `db:"product_sku" json:"productSku,omitempty"`
	ProductCategory *string         `db:"product_category" json:"productCategory,omitempty"`
	ProductPrice    decimal.Decimal `db:"product_price" json:"productPrice"`
}

// Shortfall describes one failed line of a deduction request.
type Shortfall struct {
	ProductID string          `json:"productId"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
	Reason    string          `json:"reason"` // "not_tracked" or "insufficient"
}

// DeductionResult is everything a successful deduction produced.
type DeductionResult struct {
	Transactions []model.InventoryTransaction `json:"transactions"`
	Alerts       []model.InventoryAlert       `json:"alerts"`
}

// DeductionApply is one fully computed line handed to the repository for
// atomic execution: the updated stock row, its ledger entry, and an optional
// alert candidate.
type DeductionApply struct {
	Inventory model.Inventory
	Entry     model.InventoryTransaction
	Alert     *model.InventoryAlert
}

// TransferMetadata is the true state of a transfer, stored in the metadata
// column of its ledger row.
type TransferMetadata struct {
	Status           string          `json:"status"`
	FromLocationID   string          `json:"fromLocationId"`
	ToLocationID     string          `json:"toLocationId"`
	TransferQuantity decimal.Decimal `json:"transferQuantity"`
	Reason           *string         `json:"reason,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
}

// TransferView flattens a transfer ledger row and its metadata.
type TransferView struct {
	ID             string          `json:"id"`
	TenantID       string          `json:"tenantId"`
	ProductID      string          `json:"productId"`
	Status         string          `json:"status"`
	FromLocationID string          `json:"fromLocationId"`
	ToLocationID   string          `json:"toLocationId"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reason         *string         `json:"reason,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Report rows.

type LowStockRow struct {
	ProductID       string          `db:"product_id" json:"productId"`
	ProductName     string          `db:"product_name" json:"productName"`
	Quantity        decimal.Decimal `db:"quantity" json:"quantity"`
	ReorderLevel    decimal.Decimal `db:"reorder_level" json:"reorderLevel"`
	ReorderQuantity decimal.Decimal `db:"reorder_quantity" json:"reorderQuantity"`
}

type StockValueRow struct {
	ProductID   string          `db:"product_id" json:"productId"`
	ProductName string          `db:"product_name" json:"productName"`
	Category    *string         `db:"category" json:"category,omitempty"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitValue   decimal.Decimal `db:"unit_value" json:"unitValue"`
	TotalValue  decimal.Decimal `db:"total_value" json:"totalValue"`
}

type MovementSummaryRow struct {
	TransactionType string          `db:"transaction_type" json:"transactionType"`
	TotalQuantity   decimal.Decimal `db:"total_quantity" json:"totalQuantity"`
	Count           int             `db:"count" json:"count"`
}

type ProductPerformanceRow struct {
	ProductID   string          `db:"product_id" json:"productId"`
	ProductName string          `db:"product_name" json:"productName"`
	Deducted    decimal.Decimal `db:"deducted" json:"deducted"`
	Added       decimal.Decimal `db:"added" json:"added"`
	Adjusted    decimal.Decimal `db:"adjusted" json:"adjusted"`
	NetChange   decimal.Decimal `db:"net_change" json:"netChange"`
}
