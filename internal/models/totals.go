package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatMoney renders a monetary amount with the currency prefix and exactly
// two fraction digits. Negative amounts keep the sign ahead of the symbol.
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-£" + d.Neg().StringFixed(2)
	}
	return "£" + d.StringFixed(2)
}

// BillTotals holds the computed whole-bill figures. Recomputed on demand,
// never persisted.
type BillTotals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	FinalTotal      decimal.Decimal `json:"finalTotal"`
}

// SubtotalFormatted renders the subtotal for display.
func (t BillTotals) SubtotalFormatted() string {
	return FormatMoney(t.Subtotal)
}

// DiscountFormatted renders the discount as a negative amount with the
// percentage in parentheses, e.g. "-£2.00 (10%)".
func (t BillTotals) DiscountFormatted() string {
	return fmt.Sprintf("-£%s (%s%%)", t.DiscountAmount.Abs().StringFixed(2), t.DiscountPercent.String())
}

// FinalTotalFormatted renders the final total for display.
func (t BillTotals) FinalTotalFormatted() string {
	return FormatMoney(t.FinalTotal)
}

// MemberItem is one assigned item inside a member breakdown: the item's full
// price and how many members share it.
type MemberItem struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	SharedWith int             `json:"sharedWith"`
}

// Share returns this member's portion of the item.
func (m MemberItem) Share() decimal.Decimal {
	if m.SharedWith == 0 {
		return decimal.Zero
	}
	return m.Price.Div(decimal.NewFromInt(int64(m.SharedWith)))
}

// PriceFormatted renders the item's full price for display.
func (m MemberItem) PriceFormatted() string {
	return FormatMoney(m.Price)
}

// MemberBreakdown is one member's computed share of the bill.
type MemberBreakdown struct {
	MemberID   int64        `json:"memberId"`
	MemberName string       `json:"memberName"`
	Items      []MemberItem `json:"items"`

	// Subtotal is the sum over assigned, splittable items of price/|assignees|.
	Subtotal decimal.Decimal `json:"subtotal"`

	// DiscountShare is the member's portion of the bill discount,
	// proportional to their subtotal contribution.
	DiscountShare decimal.Decimal `json:"discountShare"`

	// FinalAmount is Subtotal minus DiscountShare.
	FinalAmount decimal.Decimal `json:"finalAmount"`
}

// SubtotalFormatted renders the member subtotal for display.
func (b MemberBreakdown) SubtotalFormatted() string {
	return FormatMoney(b.Subtotal)
}

// DiscountShareFormatted renders the discount share as a negative amount.
func (b MemberBreakdown) DiscountShareFormatted() string {
	return "-£" + b.DiscountShare.Abs().StringFixed(2)
}

// FinalAmountFormatted renders the final amount for display.
func (b MemberBreakdown) FinalAmountFormatted() string {
	return FormatMoney(b.FinalAmount)
}
