package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	TenantID    string          `json:"-"`
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description,omitempty"`
	SKU         *string         `json:"sku,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Unit        string          `json:"unit" validate:"required"`
	Price       decimal.Decimal `json:"price"`
}

type UpdateProductInput struct {
	TenantID    string           `json:"-"`
	ProductID   string           `json:"-"`
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	SKU         *string          `json:"sku,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	IsActive    *bool            `json:"isActive,omitempty"`
}

type ProductFilters struct {
	TenantID   string `query:"-" json:"tenantId"`
	Search     string `query:"search" json:"search"`
	Category   string `query:"category" json:"category"`
	ActiveOnly bool   `query:"activeOnly" json:"activeOnly"`
	Page       int    `query:"page" json:"page"`
	PageSize   int    `query:"pageSize" json:"pageSize"`
}

type ProductPage[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}
