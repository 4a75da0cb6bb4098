package handlers

import (
	"testing"

	"github.com/google/uuid"

	"github.com/example/opsdesk/internal/models"
	"github.com/example/opsdesk/internal/pricing"
)

func intPtr(v int) *int         { return &v }
func f64Ptr(v float64) *float64 { return &v }

func TestEditsFromFieldPrecedence(t *testing.T) {
	tests := []struct {
		name string
		req  updateItemRequest
		want []pricing.Edit
	}{
		{
			name: "quantity only",
			req:  updateItemRequest{Quantity: intPtr(3)},
			want: []pricing.Edit{pricing.SetQuantity{Quantity: 3}},
		},
		{
			name: "selling price alone is ground truth",
			req:  updateItemRequest{SellingPrice: f64Ptr(118)},
			want: []pricing.Edit{pricing.SetSellingPrice{Price: 118}},
		},
		{
			name: "mrp wins over selling price",
			req:  updateItemRequest{MRP: f64Ptr(200), SellingPrice: f64Ptr(118)},
			want: []pricing.Edit{pricing.SetMRP{MRP: 200}},
		},
		{
			name: "discount wins over selling price",
			req:  updateItemRequest{DiscountRate: f64Ptr(10), SellingPrice: f64Ptr(118)},
			want: []pricing.Edit{pricing.SetDiscountRate{Rate: 10}},
		},
		{
			name: "quantity then rate then price",
			req: updateItemRequest{
				Quantity:     intPtr(2),
				GSTRate:      f64Ptr(12),
				MRP:          f64Ptr(200),
				DiscountRate: f64Ptr(5),
			},
			want: []pricing.Edit{
				pricing.SetQuantity{Quantity: 2},
				pricing.SetGSTRate{Rate: 12},
				pricing.SetMRP{MRP: 200},
				pricing.SetDiscountRate{Rate: 5},
			},
		},
		{
			name: "empty request maps to no edits",
			req:  updateItemRequest{},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := editsFrom(tt.req)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d edits, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("edit %d = %#v, want %#v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLineRowsKeepStableItemIDs(t *testing.T) {
	draftID := uuid.New()
	existingID := uuid.New()
	existing := []models.DraftLineItem{{
		ProductID: "p1",
		VariantID: "v1",
		Quantity:  1,
	}}
	existing[0].ID = existingID

	lines := []pricing.LineItem{
		{ProductID: "p1", VariantID: "v1", Quantity: 3},
		{ProductID: "p2", VariantID: "v1", Quantity: 1},
	}

	rows := lineRows(draftID, existing, lines)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].ID != existingID {
		t.Fatalf("edited line changed ID: got %s, want %s", rows[0].ID, existingID)
	}
	if rows[0].Quantity != 3 {
		t.Fatalf("edited line quantity = %d, want 3", rows[0].Quantity)
	}
	if rows[1].ID != uuid.Nil {
		t.Fatalf("new line should get its ID on insert, got %s", rows[1].ID)
	}
	for _, row := range rows {
		if row.DraftOrderID != draftID {
			t.Fatalf("row not bound to draft: %s", row.DraftOrderID)
		}
	}
}

func TestEditSequenceMatchesSingleEdits(t *testing.T) {
	calc := pricing.Calculator{SellerStateCode: "29"}
	line := calc.NewLineItem(pricing.CatalogInput{
		ProductID: "p1", MRP: 236, SellingPrice: 236, GSTRate: 18,
	}, 1, "29")

	req := updateItemRequest{Quantity: intPtr(2), GSTRate: f64Ptr(12), DiscountRate: f64Ptr(10)}
	combined := line
	for _, edit := range editsFrom(req) {
		combined = calc.Apply(combined, edit, "29")
	}

	stepwise := calc.Apply(line, pricing.SetQuantity{Quantity: 2}, "29")
	stepwise = calc.Apply(stepwise, pricing.SetGSTRate{Rate: 12}, "29")
	stepwise = calc.Apply(stepwise, pricing.SetDiscountRate{Rate: 10}, "29")

	if combined != stepwise {
		t.Fatalf("combined request diverged from stepwise edits:\n%#v\n%#v", combined, stepwise)
	}
}
