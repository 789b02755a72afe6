package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Inventory is a tenant-scoped stock record for one product. (tenant_id,
// product_id) is unique; a product has at most one stock row per tenant.
type Inventory struct {
	ID              string          `db:"id" json:"id"`
	TenantID        string          `db:"tenant_id" json:"tenantId"`
	ProductID       string          `db:"product_id" json:"productId"`
	LocationID      *string         `db:"location_id" json:"locationId,omitempty"`
	Quantity        decimal.Decimal `db:"quantity" json:"quantity"`
	ReorderLevel    decimal.Decimal `db:"reorder_level" json:"reorderLevel"`
	ReorderQuantity decimal.Decimal `db:"reorder_quantity" json:"reorderQuantity"`
	UnitCost        decimal.Decimal `db:"unit_cost" json:"unitCost"`
	SupplierID      *string         `db:"supplier_id" json:"supplierId,omitempty"`
	Metadata        json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}

// AvailableQuantity equals Quantity: reservations are not implemented, so
// nothing is ever held back.
func (i Inventory) AvailableQuantity() decimal.Decimal {
	return i.Quantity
}

// Product is the catalog entry inventory rows join against.
type Product struct {
	ID          string          `db:"id" json:"id"`
	TenantID    string          `db:"tenant_id" json:"tenantId"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description,omitempty"`
	SKU         *string         `db:"sku" json:"sku,omitempty"`
	Category    *string         `db:"category" json:"category,omitempty"`
	Unit        string          `db:"unit" json:"unit"`
	Price       decimal.Decimal `db:"price" json:"price"`
	IsActive    bool            `db:"is_active" json:"isActive"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// ServiceProduct links a salon service to a product it consumes.
// (tenant_id, service_id, product_id) is unique.
type ServiceProduct struct {
	ID         string          `db:"id" json:"id"`
	TenantID   string          `db:"tenant_id" json:"tenantId"`
	ServiceID  string          `db:"service_id" json:"serviceId"`
	ProductID  string          `db:"product_id" json:"productId"`
	Quantity   decimal.Decimal `db:"quantity" json:"quantity"`
	IsOptional bool            `db:"is_optional" json:"isOptional"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
}

// Ledger entry types.
const (
	TxTypeInitial    = "initial"
	TxTypeAddition   = "addition"
	TxTypeDeduction  = "deduction"
	TxTypeAdjustment = "adjustment"
)

// Reference types a ledger row can point at.
const (
	RefTypeServiceCompletion = "service_completion"
	RefTypeMovement          = "movement"
	RefTypeTransfer          = "transfer"
	RefTypeManual            = "manual"
)

// InventoryTransaction is one row of the append-only stock ledger. Movements
// and transfers are ledger rows too, distinguished by ReferenceType.
// Invariant at insert: NewQuantity = PreviousQuantity + Quantity.
type InventoryTransaction struct {
	ID               string          `db:"id" json:"id"`
	TenantID         string          `db:"tenant_id" json:"tenantId"`
	InventoryID      string          `db:"inventory_id" json:"inventoryId"`
	ProductID        string          `db:"product_id" json:"productId"`
	TransactionType  string          `db:"transaction_type" json:"transactionType"`
	Quantity         decimal.Decimal `db:"quantity" json:"quantity"`
	PreviousQuantity decimal.Decimal `db:"previous_quantity" json:"previousQuantity"`
	NewQuantity      decimal.Decimal `db:"new_quantity" json:"newQuantity"`
	ReferenceType    *string         `db:"reference_type" json:"referenceType,omitempty"`
	ReferenceID      *string         `db:"reference_id" json:"referenceId,omitempty"`
	Notes            *string         `db:"notes" json:"notes,omitempty"`
	Metadata         json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	PerformedBy      *string         `db:"performed_by" json:"performedBy,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
}

// Alert types, severities and statuses.
const (
	AlertLowStock     = "low_stock"
	AlertOutOfStock   = "out_of_stock"
	AlertReorderPoint = "reorder_point"

	AlertSeverityInfo     = "info"
	AlertSeverityWarning  = "warning"
	AlertSeverityCritical = "critical"

	AlertStatusActive   = "active"
	AlertStatusResolved = "resolved"
)

// InventoryAlert is an open or resolved stock alert. At most one active alert
// exists per (tenant_id, product_id, alert_type); a partial unique index
// enforces it.
type InventoryAlert struct {
	ID         string          `db:"id" json:"id"`
	TenantID   string          `db:"tenant_id" json:"tenantId"`
	ProductID  string          `db:"product_id" json:"productId"`
	AlertType  string          `db:"alert_type" json:"alertType"`
	Severity   string          `db:"severity" json:"severity"`
	Status     string          `db:"status" json:"status"`
	Metadata   json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	ResolvedAt *time.Time      `db:"resolved_at" json:"resolvedAt,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
}

// Supplier is a tenant-scoped vendor record.
type Supplier struct {
	ID            string    `db:"id" json:"id"`
	TenantID      string    `db:"tenant_id" json:"tenantId"`
	Name          string    `db:"name" json:"name"`
	ContactPerson *string   `db:"contact_person" json:"contactPerson,omitempty"`
	Email         *string   `db:"email" json:"email,omitempty"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	Address       *string   `db:"address" json:"address,omitempty"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Location is a tenant-scoped stock location (storefront, back room).
type Location struct {
	ID          string    `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenantId"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
