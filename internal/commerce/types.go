package commerce

// Address types as the commerce API reports them.
const (
	AddressTypeShipping = "SHIPPING"
	AddressTypeBilling  = "BILLING"
)

// Address is one entry of a customer or business profile address list.
type Address struct {
	Line1     string `json:"line1"`
	Line2     string `json:"line2"`
	City      string `json:"city"`
	State     string `json:"state"`
	StateCode string `json:"state_code"`
	Pincode   string `json:"pincode"`
	Type      string `json:"type"`
	IsDefault bool   `json:"is_default"`
}

// Customer is an individual (B2C) buyer record.
type Customer struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Addresses []Address `json:"addresses"`
}

// BusinessProfile is a B2B buyer (vendor) record.
type BusinessProfile struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"business_name"`
	GSTIN        string    `json:"gstin"`
	ContactName  string    `json:"contact_name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Addresses    []Address `json:"addresses"`
}

// ProductVariant is a color/size combination of a product.
type ProductVariant struct {
	ID      string  `json:"id"`
	SKU     string  `json:"sku"`
	Color   string  `json:"color"`
	Size    string  `json:"size"`
	MRP     float64 `json:"mrp"`
	Price   float64 `json:"price"` // GST-inclusive selling price
	InStock bool    `json:"in_stock"`
}

// Product is a catalog record. MRP and price are GST-inclusive; the GST rate
// is product-level.
type Product struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Brand      string           `json:"brand"`
	MRP        float64          `json:"mrp"`
	Price      float64          `json:"price"`
	GSTTaxRate float64          `json:"gst_tax_rate"`
	HSNCode    string           `json:"hsn_code"`
	Variants   []ProductVariant `json:"variants"`
}

// OrderLine is one submitted line item. UnitPrice and DiscountAmount are
// pre-tax; DiscountAmount is per unit.
type OrderLine struct {
	ProductID      string  `json:"product_id"`
	VariantID      string  `json:"variant_id"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	DiscountRate   float64 `json:"discount_rate"`
	DiscountAmount float64 `json:"discount_amount"`
	GSTTaxRate     float64 `json:"gst_tax_rate"`
	HSNCode        string  `json:"hsn_code"`
}

// OrderSubmission is the order-creation payload. ReferenceNumber is the
// console's own order number; the commerce API dedupes on it, so retrying a
// submission whose first attempt succeeded remotely cannot create a second
// order.
type OrderSubmission struct {
	ReferenceNumber   string      `json:"reference_number"`
	CustomerType      string      `json:"customer_type"` // B2C or B2B
	CustomerID        string      `json:"customer_id,omitempty"`
	BusinessProfileID string      `json:"business_profile_id,omitempty"`
	StateCode         string      `json:"state_code"`
	Lines             []OrderLine `json:"lines"`
	Notes             string      `json:"notes,omitempty"`
}

// OrderResult is what the commerce API returns for a created order.
type OrderResult struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
}

// Procurement is an inbound stock purchase record.
type Procurement struct {
	ID         string            `json:"id"`
	VendorID   string            `json:"vendor_id"`
	VendorName string            `json:"vendor_name"`
	Status     string            `json:"status"`
	Items      []ProcurementItem `json:"items"`
}

// ProcurementItem is one line of a procurement.
type ProcurementItem struct {
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
}
