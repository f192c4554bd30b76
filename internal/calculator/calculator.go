// Package calculator holds the pure bill-splitting arithmetic: whole-bill
// totals and per-member breakdowns. It has no state; the ledger feeds it
// snapshots and the results are recomputed on every call.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/newtown/billsplitter/internal/models"
)

var hundred = decimal.NewFromInt(100)

// ClampPercent clamps a discount percentage to [0, 100].
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// Subtotal sums the price of every splittable item. Colleague discounts are
// excluded; deal and discount lines contribute their (negative) price directly.
func Subtotal(items []models.Item) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		if item.IsColleagueDiscount() {
			continue
		}
		subtotal = subtotal.Add(item.Price)
	}
	return subtotal
}

// ComputeTotals computes the whole-bill figures for the given items and
// discount percentage. The percentage is clamped to [0, 100] before use.
func ComputeTotals(items []models.Item, discountPercent decimal.Decimal) models.BillTotals {
	subtotal := Subtotal(items)
	percent := ClampPercent(discountPercent)
	discount := subtotal.Mul(percent).Div(hundred)
	return models.BillTotals{
		Subtotal:        subtotal,
		DiscountPercent: percent,
		DiscountAmount:  discount,
		FinalTotal:      subtotal.Sub(discount),
	}
}

// ComputeBreakdowns computes each member's share of the bill, in member-list
// order. An item's cost is split evenly among its own assignees only; the bill
// discount is then shared proportionally to each member's subtotal
// contribution. Returns an empty slice when there are no members.
//
// The sum of all FinalAmount values equals the bill's final total whenever
// every splittable item has at least one assignee, up to division rounding.
func ComputeBreakdowns(members []models.Member, items []models.Item, discountPercent decimal.Decimal) []models.MemberBreakdown {
	if len(members) == 0 {
		return nil
	}

	totals := ComputeTotals(items, discountPercent)

	breakdowns := make([]models.MemberBreakdown, 0, len(members))
	for _, member := range members {
		breakdown := models.MemberBreakdown{
			MemberID:   member.ID,
			MemberName: member.Name,
			Subtotal:   decimal.Zero,
		}

		for _, item := range items {
			if item.IsColleagueDiscount() || !item.Assigned(member.ID) {
				continue
			}
			breakdown.Items = append(breakdown.Items, models.MemberItem{
				Name:       item.Name,
				Price:      item.Price,
				SharedWith: len(item.AssignedTo),
			})
			share := item.Price.Div(decimal.NewFromInt(int64(len(item.AssignedTo))))
			breakdown.Subtotal = breakdown.Subtotal.Add(share)
		}

		if !totals.Subtotal.IsZero() {
			// Multiply before dividing so exact ratios stay exact.
			breakdown.DiscountShare = breakdown.Subtotal.
				Mul(totals.DiscountAmount).
				Div(totals.Subtotal)
		} else {
			breakdown.DiscountShare = decimal.Zero
		}
		breakdown.FinalAmount = breakdown.Subtotal.Sub(breakdown.DiscountShare)

		breakdowns = append(breakdowns, breakdown)
	}
	return breakdowns
}
