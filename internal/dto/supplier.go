package dto

// CreateSupplierRequest payload for registering a supplier.
type CreateSupplierRequest struct {
	Name     string `json:"name" validate:"required"`
	CNPJ     string `json:"cnpj" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp"`
	City     string `json:"city"`
	State    string `json:"state"`
	Category string `json:"category"`
}

// UpdateSupplierRequest payload for editing a supplier.
type UpdateSupplierRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp"`
	City     string `json:"city"`
	State    string `json:"state"`
	Category string `json:"category"`
	Active   *bool  `json:"active"`
}
