package dto

type CreateSupplierInput struct {
	TenantID      string  `json:"-"`
	Name          string  `json:"name" validate:"required"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
}

type UpdateSupplierInput struct {
	TenantID      string  `json:"-"`
	SupplierID    string  `json:"-"`
	Name          *string `json:"name,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
}
