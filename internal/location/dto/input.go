package dto

type CreateLocationInput struct {
	TenantID    string  `json:"-"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
}

type UpdateLocationInput struct {
	TenantID    string  `json:"-"`
	LocationID  string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}
