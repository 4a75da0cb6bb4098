package models

import (
	"time"

	"github.com/google/uuid"
)

// Draft order statuses.
const (
	DraftStatusOpen      = "draft"
	DraftStatusSubmitted = "submitted"
)

// Customer types anchoring an order.
const (
	CustomerTypeB2C = "B2C"
	CustomerTypeB2B = "B2B"
)

// DraftOrder is an in-progress order owned by the console. It survives
// reloads; the commerce API only sees it on submission.
type DraftOrder struct {
	BaseModel
	StaffID           uuid.UUID       `gorm:"type:uuid;index" json:"staff_id"`
	OrderNumber       string          `gorm:"uniqueIndex" json:"order_number"`
	Status            string          `json:"status"`
	CustomerType      string          `json:"customer_type"`
	CustomerID        string          `json:"customer_id"`
	BusinessProfileID string          `json:"business_profile_id"`
	CustomerName      string          `json:"customer_name"`
	CustomerStateCode string          `json:"customer_state_code"`
	Notes             string          `json:"notes"`
	RemoteOrderID     string          `json:"remote_order_id"`
	RemoteOrderNumber string          `json:"remote_order_number"`
	SubmittedAt       *time.Time      `json:"submitted_at"`
	Items             []DraftLineItem `json:"items,omitempty"`
}

// DraftLineItem mirrors pricing.LineItem for persistence. Values are stored
// unrounded; rounding happens when the line is rendered.
type DraftLineItem struct {
	BaseModel
	DraftOrderID uuid.UUID `gorm:"type:uuid;index" json:"draft_order_id"`
	ProductID    string    `json:"product_id"`
	VariantID    string    `json:"variant_id"`
	ProductName  string    `json:"product_name"`
	VariantLabel string    `json:"variant_label"`
	HSNCode      string    `json:"hsn_code"`
	Quantity     int       `json:"quantity"`

	MRP            float64 `json:"mrp"`
	DiscountRate   float64 `json:"discount_rate"`
	DiscountAmount float64 `json:"discount_amount"`
	SellingPrice   float64 `json:"selling_price"`
	UnitPrice      float64 `json:"unit_price"`
	GSTRate        float64 `json:"gst_tax_rate"`
	GSTAmount      float64 `json:"gst_amount"`
	IGSTAmount     float64 `json:"igst_amount"`
	CGSTAmount     float64 `json:"cgst_amount"`
	SGSTAmount     float64 `json:"sgst_amount"`
	FinalItemPrice float64 `json:"final_item_price"`
}
