package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TenantID fields are populated from the authenticated identity, never from
// the request body; the usecase validates them separately.

type CreateStockInput struct {
	TenantID        string          `json:"-"`
	ProductID       string          `json:"productId" validate:"required,uuid4"`
	Quantity        decimal.Decimal `json:"quantity"`
	ReorderLevel    decimal.Decimal `json:"reorderLevel"`
	ReorderQuantity decimal.Decimal `json:"reorderQuantity"`
	UnitCost        decimal.Decimal `json:"unitCost"`
	LocationID      *string         `json:"locationId,omitempty" validate:"omitempty,uuid4"`
	SupplierID      *string         `json:"supplierId,omitempty" validate:"omitempty,uuid4"`
	PerformedBy     *string         `json:"-"`
}

type UpdateStockInput struct {
	TenantID        string           `json:"-"`
	InventoryID     string           `json:"-"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	ReorderLevel    *decimal.Decimal `json:"reorderLevel,omitempty"`
	ReorderQuantity *decimal.Decimal `json:"reorderQuantity,omitempty"`
	UnitCost        *decimal.Decimal `json:"unitCost,omitempty"`
	LocationID      *string          `json:"locationId,omitempty" validate:"omitempty,uuid4"`
	SupplierID      *string          `json:"supplierId,omitempty" validate:"omitempty,uuid4"`
	Notes           *string          `json:"notes,omitempty"`
	PerformedBy     *string          `json:"-"`
}

type InventoryFilters struct {
	TenantID     string `query:"-"`
	Search       string `query:"search"`
	Category     string `query:"category"`
	LowStockOnly bool   `query:"lowStockOnly"`
	SortBy       string `query:"sortBy" validate:"omitempty,oneof=quantity updated_at product_name"`
	SortDir      string `query:"sortDir" validate:"omitempty,oneof=asc desc"`
	Page         int    `query:"page"`
	PageSize     int    `query:"pageSize"`
}

type AddServiceProductInput struct {
	TenantID   string          `json:"-"`
	ServiceID  string          `json:"serviceId" validate:"required,uuid4"`
	ProductID  string          `json:"productId" validate:"required,uuid4"`
	Quantity   decimal.Decimal `json:"quantity"`
	IsOptional bool            `json:"isOptional"`
}

type DeductItem struct {
	ProductID string          `json:"productId" validate:"required,uuid4"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type DeductForServiceInput struct {
	TenantID    string       `json:"-"`
	ServiceID   string       `json:"serviceId" validate:"required,uuid4"`
	ReferenceID *string      `json:"referenceId,omitempty"`
	Items       []DeductItem `json:"items" validate:"required,min=1,dive"`
	PerformedBy *string      `json:"-"`
}

type TransactionFilters struct {
	TenantID        string     `query:"-"`
	ProductID       string     `query:"productId" validate:"omitempty,uuid4"`
	TransactionType string     `query:"transactionType" validate:"omitempty,oneof=initial addition deduction adjustment"`
	ReferenceType   string     `query:"referenceType"`
	From            *time.Time `query:"from"`
	To              *time.Time `query:"to"`
	Page            int        `query:"page"`
	PageSize        int        `query:"pageSize"`
}

type CreateMovementInput struct {
	TenantID    string          `json:"-"`
	ProductID   string          `json:"productId" validate:"required,uuid4"`
	Direction   string          `json:"direction" validate:"required,oneof=in out"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      *string         `json:"reason,omitempty"`
	PerformedBy *string         `json:"-"`
}

// Transfer statuses.
const (
	TransferPending    = "pending"
	TransferInProgress = "in_progress"
	TransferCompleted  = "completed"
	TransferCancelled  = "cancelled"
)

type CreateTransferInput struct {
	TenantID       string          `json:"-"`
	ProductID      string          `json:"productId" validate:"required,uuid4"`
	FromLocationID string          `json:"fromLocationId" validate:"required,uuid4"`
	ToLocationID   string          `json:"toLocationId" validate:"required,uuid4"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reason         *string         `json:"reason,omitempty"`
	PerformedBy    *string         `json:"-"`
}

type UpdateTransferInput struct {
	TenantID   string  `json:"-"`
	TransferID string  `json:"-"`
	Status     string  `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
	Notes      *string `json:"notes,omitempty"`
}

type TransferFilters struct {
	TenantID  string `query:"-"`
	ProductID string `query:"productId" validate:"omitempty,uuid4"`
	Status    string `query:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Page      int    `query:"page"`
	PageSize  int    `query:"pageSize"`
}

type CreateAlertInput struct {
	TenantID  string `json:"-"`
	ProductID string `json:"productId" validate:"required,uuid4"`
	AlertType string `json:"alertType" validate:"required,oneof=low_stock out_of_stock reorder_point"`
	Severity  string `json:"severity" validate:"required,oneof=info warning critical"`
	Message   string `json:"message" validate:"required"`
}

type UpdateAlertInput struct {
	TenantID string  `json:"-"`
	AlertID  string  `json:"-"`
	Status   string  `json:"status" validate:"required,oneof=active resolved"`
	Message  *string `json:"message,omitempty"`
}

type AlertFilters struct {
	TenantID  string `query:"-"`
	ProductID string `query:"productId" validate:"omitempty,uuid4"`
	AlertType string `query:"alertType" validate:"omitempty,oneof=low_stock out_of_stock reorder_point"`
	Status    string `query:"status" validate:"omitempty,oneof=active resolved"`
	Page      int    `query:"page"`
	PageSize  int    `query:"pageSize"`
}

type ReportFilters struct {
	TenantID string     `query:"-"`
	Category string     `query:"category"`
	From     *time.Time `query:"from"`
	To       *time.Time `query:"to"`
}
