package models

import "time"

// Supplier is a registered vendor in the procurement directory.
type Supplier struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CNPJ      string    `db:"cnpj" json:"cnpj"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	WhatsApp  *string   `db:"whatsapp" json:"whatsapp,omitempty"`
	City      *string   `db:"city" json:"city,omitempty"`
	State     *string   `db:"state" json:"state,omitempty"`
	Category  *string   `db:"category" json:"category,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SupplierFilter constrains supplier listing queries.
type SupplierFilter struct {
	Active   *bool
	Category string
	Search   string
	Limit    int
	Offset   int
}
