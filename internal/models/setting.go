package models

import "github.com/lib/pq"

// Setting registries the console maintains.
const (
	RegistryCouriers     = "couriers"
	RegistryPaymentModes = "payment_modes"
	RegistryOrderTags    = "order_tags"
)

// Setting is one entry of a named registry (courier partners, payment
// modes, order tags).
type Setting struct {
	BaseModel
	Registry     string         `gorm:"index" json:"registry"`
	Key          string         `json:"key"`
	Label        string         `json:"label"`
	Value        string         `json:"value"`
	Options      pq.StringArray `gorm:"type:text[]" json:"options"`
	DisplayOrder int            `json:"display_order"`
	IsActive     bool           `json:"is_active"`
}
