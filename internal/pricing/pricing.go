// Package pricing keeps the monetary fields of an order line mutually
// consistent as the operator edits quantity, MRP, discount, selling price or
// GST rate. MRP and selling price are GST-inclusive; unit price is the
// pre-tax value submitted to the commerce API. The package performs no I/O
// and never fails: invalid numbers normalize to zero and percentages clamp.
package pricing

import "math"

// GSTRates is the fixed set of rates offered by the console.
var GSTRates = []float64{0, 5, 12, 18, 28}

// ValidGSTRate reports whether rate is one of the offered GST rates.
func ValidGSTRate(rate float64) bool {
	for _, r := range GSTRates {
		if r == rate {
			return true
		}
	}
	return false
}

// LineItem is one order line. Monetary fields stay unrounded internally;
// callers round via Rounded at the presentation boundary.
type LineItem struct {
	ProductID    string `json:"product_id"`
	VariantID    string `json:"variant_id"`
	ProductName  string `json:"product_name"`
	VariantLabel string `json:"variant_label"`
	HSNCode      string `json:"hsn_code"`
	Quantity     int    `json:"quantity"`

	MRP            float64 `json:"mrp"`             // GST-inclusive list price per unit
	DiscountRate   float64 `json:"discount_rate"`   // percent of the pre-tax MRP, within [0,100]
	DiscountAmount float64 `json:"discount_amount"` // line total, pre-tax
	SellingPrice   float64 `json:"selling_price"`   // GST-inclusive unit price after discount
	UnitPrice      float64 `json:"unit_price"`      // pre-tax unit price
	GSTRate        float64 `json:"gst_tax_rate"`

	GSTAmount      float64 `json:"gst_amount"`
	IGSTAmount     float64 `json:"igst_amount"`
	CGSTAmount     float64 `json:"cgst_amount"`
	SGSTAmount     float64 `json:"sgst_amount"`
	FinalItemPrice float64 `json:"final_item_price"` // GST-inclusive line total
}

// Totals aggregates an order's lines. Discount is already netted into the
// unit price, so GrandTotal = Subtotal + TotalGST.
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	TotalDiscount float64 `json:"total_discount"`
	TotalGST      float64 `json:"total_gst"`
	GrandTotal    float64 `json:"grand_total"`
}

// Calculator applies edits to line items and splits GST between IGST and
// CGST+SGST by comparing the customer's state code against the seller's.
// The seller state is injected so multi-jurisdiction setups stay possible.
type Calculator struct {
	SellerStateCode string
}

// CatalogInput carries the catalog fields needed to start a line.
type CatalogInput struct {
	ProductID    string
	VariantID    string
	ProductName  string
	VariantLabel string
	HSNCode      string
	MRP          float64 // GST-inclusive
	SellingPrice float64 // GST-inclusive; falls back to MRP when zero
	GSTRate      float64
}

// NewLineItem builds a reconciled line from catalog data.
func (c Calculator) NewLineItem(in CatalogInput, quantity int, customerStateCode string) LineItem {
	if quantity <= 0 {
		quantity = 1
	}
	rate := in.GSTRate
	if !ValidGSTRate(rate) {
		rate = 0
	}
	selling := nonNegative(in.SellingPrice)
	if selling == 0 {
		selling = nonNegative(in.MRP)
	}

	li := LineItem{
		ProductID:    in.ProductID,
		VariantID:    in.VariantID,
		ProductName:  in.ProductName,
		VariantLabel: in.VariantLabel,
		HSNCode:      in.HSNCode,
		Quantity:     quantity,
		MRP:          nonNegative(in.MRP),
		GSTRate:      rate,
	}
	SetSellingPrice{Price: selling}.apply(&li)
	c.finalize(&li, customerStateCode)
	return li
}

// Apply runs one edit against a copy of the line and returns the
// reconciled result.
func (c Calculator) Apply(li LineItem, edit Edit, customerStateCode string) LineItem {
	edit.apply(&li)
	c.finalize(&li, customerStateCode)
	return li
}

// Refresh recomputes the derived fields without changing the editable ones.
// Used when the customer (and so the tax jurisdiction) changes.
func (c Calculator) Refresh(li LineItem, customerStateCode string) LineItem {
	c.finalize(&li, customerStateCode)
	return li
}

// MergeAdd appends item to items, merging into an existing line when the
// same product variant is already present. A merge sums quantities and keeps
// the existing line's unit price and MRP, so a fresh catalog add never
// overrides an already edited price.
func (c Calculator) MergeAdd(items []LineItem, item LineItem, customerStateCode string) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	for i, existing := range out {
		if existing.ProductID == item.ProductID && existing.VariantID == item.VariantID {
			qty := item.Quantity
			if qty <= 0 {
				qty = 1
			}
			out[i] = c.Apply(existing, SetQuantity{Quantity: existing.Quantity + qty}, customerStateCode)
			return out
		}
	}
	return append(out, item)
}

// Sum reduces the lines to order totals. Always recomputed, never cached.
func Sum(items []LineItem) Totals {
	var t Totals
	for _, li := range items {
		qty := float64(li.Quantity)
		t.Subtotal += li.UnitPrice * qty
		t.TotalDiscount += li.DiscountAmount
		t.TotalGST += li.GSTAmount
		t.GrandTotal += li.SellingPrice * qty
	}
	return t
}

// finalize recomputes every derived field from the resolved ground truth.
func (c Calculator) finalize(li *LineItem, customerStateCode string) {
	qty := float64(li.Quantity)
	preTaxMRP := exclusive(li.MRP, li.GSTRate)

	discount := (preTaxMRP - li.UnitPrice) * qty
	if discount < 0 {
		// A unit price above the pre-tax MRP is a markup, not a negative discount.
		discount = 0
	}
	li.DiscountAmount = discount
	li.GSTAmount = li.UnitPrice * qty * li.GSTRate / 100
	li.FinalItemPrice = li.SellingPrice * qty

	if customerStateCode == c.SellerStateCode {
		half := li.GSTAmount / 2
		li.CGSTAmount = half
		li.SGSTAmount = half
		li.IGSTAmount = 0
	} else {
		li.IGSTAmount = li.GSTAmount
		li.CGSTAmount = 0
		li.SGSTAmount = 0
	}
}

// Round2 rounds a monetary value to two decimals for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rounded returns a presentation copy with monetary fields and the discount
// rate rounded to two decimals.
func (li LineItem) Rounded() LineItem {
	li.MRP = Round2(li.MRP)
	li.DiscountRate = Round2(li.DiscountRate)
	li.DiscountAmount = Round2(li.DiscountAmount)
	li.SellingPrice = Round2(li.SellingPrice)
	li.UnitPrice = Round2(li.UnitPrice)
	li.GSTAmount = Round2(li.GSTAmount)
	li.IGSTAmount = Round2(li.IGSTAmount)
	li.CGSTAmount = Round2(li.CGSTAmount)
	li.SGSTAmount = Round2(li.SGSTAmount)
	li.FinalItemPrice = Round2(li.FinalItemPrice)
	return li
}

// Rounded returns a presentation copy of the totals.
func (t Totals) Rounded() Totals {
	t.Subtotal = Round2(t.Subtotal)
	t.TotalDiscount = Round2(t.TotalDiscount)
	t.TotalGST = Round2(t.TotalGST)
	t.GrandTotal = Round2(t.GrandTotal)
	return t
}

func exclusive(inclusivePrice, rate float64) float64 {
	return inclusivePrice / (1 + rate/100)
}

func inclusive(exclusivePrice, rate float64) float64 {
	return exclusivePrice * (1 + rate/100)
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// discountRateFor derives the discount percentage implied by a unit price
// against the pre-tax MRP.
func discountRateFor(preTaxMRP, unitPrice float64) float64 {
	if preTaxMRP <= 0 {
		return 0
	}
	if unitPrice >= preTaxMRP {
		return 0
	}
	return clampRate((preTaxMRP - unitPrice) / preTaxMRP * 100)
}
