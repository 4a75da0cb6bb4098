package pricing

import (
	"math"
	"testing"
)

const sellerState = "29"

var calc = Calculator{SellerStateCode: sellerState}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func sampleLine(qty int) LineItem {
	return calc.NewLineItem(CatalogInput{
		ProductID:    "p1",
		VariantID:    "v1",
		ProductName:  "Cotton Shirt",
		VariantLabel: "Blue / M",
		HSNCode:      "6105",
		MRP:          118,
		SellingPrice: 118,
		GSTRate:      18,
	}, qty, sellerState)
}

func TestInclusiveExclusiveRoundTrip(t *testing.T) {
	prices := []float64{0, 0.01, 1, 99.99, 118, 1250.5, 99999.07}
	for _, rate := range GSTRates {
		for _, price := range prices {
			li := calc.NewLineItem(CatalogInput{
				ProductID: "p", VariantID: "v",
				MRP: price, SellingPrice: price, GSTRate: rate,
			}, 1, sellerState)
			back := li.UnitPrice * (1 + rate/100)
			if !approx(back, price) {
				t.Fatalf("rate %v price %v: round trip gave %v", rate, price, back)
			}
		}
	}
}

func TestBaseScenario(t *testing.T) {
	li := sampleLine(1)
	if !approx(li.UnitPrice, 100) {
		t.Fatalf("unit price: want 100, got %v", li.UnitPrice)
	}
	if !approx(li.SellingPrice, 118) {
		t.Fatalf("selling price: want 118, got %v", li.SellingPrice)
	}
	if !approx(li.GSTAmount, 18) {
		t.Fatalf("gst amount: want 18, got %v", li.GSTAmount)
	}
	if !approx(li.FinalItemPrice, 118) {
		t.Fatalf("final price: want 118, got %v", li.FinalItemPrice)
	}
	if !approx(li.DiscountRate, 0) {
		t.Fatalf("discount rate: want 0, got %v", li.DiscountRate)
	}
}

func TestDiscountScenario(t *testing.T) {
	li := calc.Apply(sampleLine(1), SetDiscountRate{Rate: 10}, sellerState)
	if !approx(li.UnitPrice, 90) {
		t.Fatalf("unit price: want 90, got %v", li.UnitPrice)
	}
	if !approx(li.SellingPrice, 106.2) {
		t.Fatalf("selling price: want 106.20, got %v", li.SellingPrice)
	}
	if !approx(li.DiscountAmount, 10) {
		t.Fatalf("discount amount: want 10, got %v", li.DiscountAmount)
	}
	if !approx(li.GSTAmount, 16.2) {
		t.Fatalf("gst amount: want 16.20, got %v", li.GSTAmount)
	}
}

func TestSellingPriceDerivesDiscount(t *testing.T) {
	li := calc.Apply(sampleLine(1), SetSellingPrice{Price: 106.2}, sellerState)
	if !approx(li.UnitPrice, 90) {
		t.Fatalf("unit price: want 90, got %v", li.UnitPrice)
	}
	if !approx(li.DiscountRate, 10) {
		t.Fatalf("discount rate: want 10, got %v", li.DiscountRate)
	}
}

func TestDiscountClamp(t *testing.T) {
	for _, rate := range []float64{-10, -0.01, 100.01, 250} {
		li := calc.Apply(sampleLine(1), SetDiscountRate{Rate: rate}, sellerState)
		if li.DiscountRate < 0 || li.DiscountRate > 100 {
			t.Fatalf("discount %v not clamped, stored %v", rate, li.DiscountRate)
		}
	}
	full := calc.Apply(sampleLine(1), SetDiscountRate{Rate: 150}, sellerState)
	if !approx(full.DiscountRate, 100) || !approx(full.UnitPrice, 0) {
		t.Fatalf("over-100 discount: rate %v unit %v", full.DiscountRate, full.UnitPrice)
	}
}

func TestMarkupIsNotNegativeDiscount(t *testing.T) {
	// Selling above MRP: the system refuses to represent a markup as a
	// negative discount.
	li := calc.Apply(sampleLine(1), SetSellingPrice{Price: 200}, sellerState)
	if li.DiscountRate != 0 {
		t.Fatalf("markup discount rate: want 0, got %v", li.DiscountRate)
	}
	if li.DiscountAmount != 0 {
		t.Fatalf("markup discount amount: want 0, got %v", li.DiscountAmount)
	}
}

func TestZeroMRPResolvesZeroDiscount(t *testing.T) {
	li := calc.NewLineItem(CatalogInput{
		ProductID: "p", VariantID: "v", MRP: 0, SellingPrice: 50, GSTRate: 18,
	}, 1, sellerState)
	if li.DiscountRate != 0 {
		t.Fatalf("zero MRP discount rate: want 0, got %v", li.DiscountRate)
	}
}

func TestGSTRateChangeKeepsPreTaxValue(t *testing.T) {
	li := calc.Apply(sampleLine(1), SetGSTRate{Rate: 12}, sellerState)
	// Pre-tax of the unchanged 118.00 at the old 18% is 100.00; reapplying
	// 12% yields 112.00 inclusive.
	if !approx(li.UnitPrice, 100) {
		t.Fatalf("unit price after rate change: want 100, got %v", li.UnitPrice)
	}
	if !approx(li.SellingPrice, 112) {
		t.Fatalf("selling price after rate change: want 112, got %v", li.SellingPrice)
	}
	if !approx(li.GSTAmount, 12) {
		t.Fatalf("gst amount after rate change: want 12, got %v", li.GSTAmount)
	}
}

func TestGSTRateOutsideSetIgnored(t *testing.T) {
	before := sampleLine(1)
	after := calc.Apply(before, SetGSTRate{Rate: 7}, sellerState)
	if after.GSTRate != before.GSTRate || !approx(after.SellingPrice, before.SellingPrice) {
		t.Fatalf("unexpected change for invalid rate: %+v", after)
	}
}

func TestQuantityEditScalesLineTotals(t *testing.T) {
	li := calc.Apply(sampleLine(1), SetQuantity{Quantity: 3}, sellerState)
	if li.Quantity != 3 {
		t.Fatalf("quantity: want 3, got %v", li.Quantity)
	}
	if !approx(li.GSTAmount, 54) {
		t.Fatalf("gst amount: want 54, got %v", li.GSTAmount)
	}
	if !approx(li.FinalItemPrice, 354) {
		t.Fatalf("final price: want 354, got %v", li.FinalItemPrice)
	}
	unchanged := calc.Apply(li, SetQuantity{Quantity: 0}, sellerState)
	if unchanged.Quantity != 3 {
		t.Fatalf("non-positive quantity should be ignored, got %v", unchanged.Quantity)
	}
}

func TestTaxSplitIntraState(t *testing.T) {
	li := calc.Refresh(sampleLine(2), sellerState)
	if !approx(li.CGSTAmount, li.GSTAmount/2) || !approx(li.SGSTAmount, li.GSTAmount/2) {
		t.Fatalf("intra-state split: cgst %v sgst %v gst %v", li.CGSTAmount, li.SGSTAmount, li.GSTAmount)
	}
	if li.IGSTAmount != 0 {
		t.Fatalf("intra-state igst: want 0, got %v", li.IGSTAmount)
	}
}

func TestTaxSplitInterState(t *testing.T) {
	li := calc.Refresh(sampleLine(2), "27")
	if !approx(li.IGSTAmount, li.GSTAmount) {
		t.Fatalf("inter-state igst: want %v, got %v", li.GSTAmount, li.IGSTAmount)
	}
	if li.CGSTAmount != 0 || li.SGSTAmount != 0 {
		t.Fatalf("inter-state cgst/sgst: want 0, got %v/%v", li.CGSTAmount, li.SGSTAmount)
	}
}

func TestTaxSplitExclusive(t *testing.T) {
	for _, state := range []string{sellerState, "27"} {
		for _, rate := range GSTRates {
			li := calc.NewLineItem(CatalogInput{
				ProductID: "p", VariantID: "v", MRP: 118, SellingPrice: 118, GSTRate: rate,
			}, 1, state)
			if !approx(li.SGSTAmount, li.CGSTAmount) {
				t.Fatalf("state %s rate %v: sgst %v != cgst %v", state, rate, li.SGSTAmount, li.CGSTAmount)
			}
			if li.GSTAmount > 0 {
				intra := li.SGSTAmount > 0 && li.CGSTAmount > 0
				inter := li.IGSTAmount > 0
				if intra == inter {
					t.Fatalf("state %s rate %v: split not exclusive: %+v", state, rate, li)
				}
			}
		}
	}
}

func TestMergeOnDuplicateVariant(t *testing.T) {
	existing := calc.Apply(sampleLine(2), SetSellingPrice{Price: 100}, sellerState)
	fresh := sampleLine(3) // catalog price 118, must not override the edit

	items := calc.MergeAdd([]LineItem{existing}, fresh, sellerState)
	if len(items) != 1 {
		t.Fatalf("expected merge into one line, got %d", len(items))
	}
	merged := items[0]
	if merged.Quantity != 5 {
		t.Fatalf("merged quantity: want 5, got %v", merged.Quantity)
	}
	if !approx(merged.UnitPrice, existing.UnitPrice) {
		t.Fatalf("merge changed unit price: %v -> %v", existing.UnitPrice, merged.UnitPrice)
	}
	if !approx(merged.MRP, existing.MRP) {
		t.Fatalf("merge changed mrp: %v -> %v", existing.MRP, merged.MRP)
	}
}

func TestMergeAddDistinctVariant(t *testing.T) {
	other := calc.NewLineItem(CatalogInput{
		ProductID: "p1", VariantID: "v2", MRP: 59, SellingPrice: 59, GSTRate: 18,
	}, 1, sellerState)
	items := calc.MergeAdd([]LineItem{sampleLine(1)}, other, sellerState)
	if len(items) != 2 {
		t.Fatalf("expected two lines, got %d", len(items))
	}
}

func TestAggregateConsistency(t *testing.T) {
	items := []LineItem{
		sampleLine(2),
		calc.Apply(sampleLine(1), SetDiscountRate{Rate: 10}, sellerState),
		calc.NewLineItem(CatalogInput{
			ProductID: "p2", VariantID: "v1", MRP: 500, SellingPrice: 450, GSTRate: 5,
		}, 4, "27"),
	}
	totals := Sum(items)

	var finalSum, gstSum float64
	for _, li := range items {
		finalSum += li.FinalItemPrice
		gstSum += li.GSTAmount
	}
	if !approx(totals.GrandTotal, finalSum) {
		t.Fatalf("grand total %v != sum of final prices %v", totals.GrandTotal, finalSum)
	}
	if !approx(totals.GrandTotal, totals.Subtotal+totals.TotalGST) {
		t.Fatalf("grand total %v != subtotal %v + gst %v", totals.GrandTotal, totals.Subtotal, gstSum)
	}
}

func TestRepeatedEditsDoNotCompoundRounding(t *testing.T) {
	li := sampleLine(1)
	for i := 0; i < 500; i++ {
		li = calc.Apply(li, SetGSTRate{Rate: 12}, sellerState)
		li = calc.Apply(li, SetGSTRate{Rate: 18}, sellerState)
	}
	if !approx(li.UnitPrice, 100) {
		t.Fatalf("unit price drifted to %v after repeated edits", li.UnitPrice)
	}
}

func TestRoundedIsPresentationOnly(t *testing.T) {
	li := calc.Apply(sampleLine(3), SetDiscountRate{Rate: 7.777}, sellerState)
	rounded := li.Rounded()
	if rounded.UnitPrice != Round2(li.UnitPrice) {
		t.Fatalf("rounded unit price mismatch")
	}
	if rounded.SellingPrice != Round2(li.SellingPrice) {
		t.Fatalf("rounded selling price mismatch")
	}
	// the internal value keeps full precision: 100 * (1 - 0.07777) does not
	// land on a two-decimal boundary
	if li.UnitPrice == rounded.UnitPrice {
		t.Fatalf("expected unrounded internal unit price, got %v", li.UnitPrice)
	}
}
