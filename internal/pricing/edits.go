package pricing

// Edit is one operator action on a line item. Each variant carries its own
// recompute, so there is no guessing which field the user meant to be the
// ground truth when several change together.
type Edit interface {
	apply(li *LineItem)
}

// SetSellingPrice makes the GST-inclusive selling price the ground truth.
// The unit price and the implied discount rate follow from it.
type SetSellingPrice struct {
	Price float64
}

func (e SetSellingPrice) apply(li *LineItem) {
	li.SellingPrice = nonNegative(e.Price)
	li.UnitPrice = exclusive(li.SellingPrice, li.GSTRate)
	li.DiscountRate = discountRateFor(exclusive(li.MRP, li.GSTRate), li.UnitPrice)
}

// SetMRP makes MRP plus the current discount rate the ground truth and
// re-derives the unit and selling prices.
type SetMRP struct {
	MRP float64
}

func (e SetMRP) apply(li *LineItem) {
	li.MRP = nonNegative(e.MRP)
	recomputeFromMRP(li)
}

// SetDiscountRate makes MRP plus the new discount rate the ground truth.
type SetDiscountRate struct {
	Rate float64
}

func (e SetDiscountRate) apply(li *LineItem) {
	li.DiscountRate = clampRate(e.Rate)
	recomputeFromMRP(li)
}

// SetQuantity changes the quantity only; the inclusive selling price stays
// the ground truth. Non-positive quantities leave the line unchanged.
type SetQuantity struct {
	Quantity int
}

func (e SetQuantity) apply(li *LineItem) {
	if e.Quantity > 0 {
		li.Quantity = e.Quantity
	}
	li.UnitPrice = exclusive(li.SellingPrice, li.GSTRate)
}

// SetGSTRate switches the tax rate while keeping the operator-visible
// pre-tax value stable: the unchanged inclusive selling price is converted
// to pre-tax at the old rate, then the new rate is reapplied on top. The
// discount rate is re-derived against the MRP at the new rate. Rates outside
// the offered set are ignored.
type SetGSTRate struct {
	Rate float64
}

func (e SetGSTRate) apply(li *LineItem) {
	if !ValidGSTRate(e.Rate) {
		return
	}
	oldRate := li.GSTRate
	li.GSTRate = e.Rate
	li.UnitPrice = exclusive(li.SellingPrice, oldRate)
	li.SellingPrice = inclusive(li.UnitPrice, e.Rate)
	li.DiscountRate = discountRateFor(exclusive(li.MRP, e.Rate), li.UnitPrice)
}

func recomputeFromMRP(li *LineItem) {
	preTaxMRP := exclusive(li.MRP, li.GSTRate)
	li.UnitPrice = preTaxMRP * (1 - li.DiscountRate/100)
	li.SellingPrice = inclusive(li.UnitPrice, li.GSTRate)
}
