package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDisplayPrice(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
	}{
		{
			name: "regular item",
			item: Item{Name: "Pizza", Price: dec("12.5"), ItemType: ItemTypeItem},
			want: "£12.50",
		},
		{
			name: "negative regular item shows as deal",
			item: Item{Name: "Offer", Price: dec("-2.00"), ItemType: ItemTypeItem},
			want: "Deal: -£2.00",
		},
		{
			name: "deal",
			item: Item{Name: "Meal deal", Price: dec("-3.00"), ItemType: ItemTypeDeal},
			want: "Deal: -£3.00",
		},
		{
			name: "discount",
			item: Item{Name: "Voucher", Price: dec("-1.50"), ItemType: ItemTypeDiscount},
			want: "Discount: -£1.50",
		},
		{
			name: "colleague discount",
			item: Item{Name: "Staff", Price: dec("-5.00"), ItemType: ItemTypeColleagueDiscount},
			want: "Colleague Discount: -£5.00",
		},
		{
			name: "multibuy",
			item: Item{Name: "2 for 1", Price: dec("4.00"), ItemType: ItemTypeItem, IsMultibuy: true},
			want: "-£4.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.DisplayPrice(); got != tt.want {
				t.Errorf("DisplayPrice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCostPerPerson(t *testing.T) {
	item := Item{Name: "Pizza", Price: dec("21.00"), ItemType: ItemTypeItem, AssignedTo: []int64{1, 2, 3}}
	if got := item.CostPerPerson(); !got.Equal(dec("7.00")) {
		t.Errorf("CostPerPerson() = %s, want 7.00", got)
	}
	if got := item.CostPerPersonFormatted(); got != "£7.00" {
		t.Errorf("CostPerPersonFormatted() = %q, want £7.00", got)
	}

	unassigned := Item{Name: "Water", Price: dec("1.00"), ItemType: ItemTypeItem}
	if !unassigned.CostPerPerson().IsZero() {
		t.Error("expected zero cost per person when unassigned")
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(dec("3.1")); got != "£3.10" {
		t.Errorf("FormatMoney(3.1) = %q", got)
	}
	if got := FormatMoney(dec("-3.1")); got != "-£3.10" {
		t.Errorf("FormatMoney(-3.1) = %q", got)
	}
	if got := FormatMoney(decimal.Zero); got != "£0.00" {
		t.Errorf("FormatMoney(0) = %q", got)
	}
}

func TestDiscountFormatted(t *testing.T) {
	totals := BillTotals{
		Subtotal:        dec("20.00"),
		DiscountPercent: dec("10"),
		DiscountAmount:  dec("2.00"),
		FinalTotal:      dec("18.00"),
	}
	if got := totals.DiscountFormatted(); got != "-£2.00 (10%)" {
		t.Errorf("DiscountFormatted() = %q, want -£2.00 (10%%)", got)
	}
}

func TestColorForIndexWraps(t *testing.T) {
	if ColorForIndex(0) != MemberColors[0] {
		t.Error("index 0 should map to first color")
	}
	if ColorForIndex(len(MemberColors)) != MemberColors[0] {
		t.Error("palette should wrap around")
	}
}
