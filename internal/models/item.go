package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemType classifies a bill line and controls whether it participates in the
// shared, splittable subtotal.
type ItemType string

const (
	// ItemTypeItem is a regular purchased line.
	ItemTypeItem ItemType = "item"

	// ItemTypeDeal is an item-specific offer; its (negative) price reduces
	// the splittable subtotal.
	ItemTypeDeal ItemType = "deal"

	// ItemTypeDiscount is a general discount line, also splittable.
	ItemTypeDiscount ItemType = "discount"

	// ItemTypeColleagueDiscount is a whole-bill discount that is excluded
	// from the subtotal and never divided among members.
	ItemTypeColleagueDiscount ItemType = "colleague_discount"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeItem, ItemTypeDeal, ItemTypeDiscount, ItemTypeColleagueDiscount:
		return true
	}
	return false
}

// Item represents a single priced line on the bill.
type Item struct {
	// ID is the unique identifier, sourced from the creation timestamp
	// in milliseconds. Immutable once created.
	ID int64 `json:"id"`

	// Name is the display name. Never empty.
	Name string `json:"name"`

	// Price is the signed amount. Positive = regular charge; negative =
	// a deal or discount reducing the subtotal.
	Price decimal.Decimal `json:"price"`

	// AssignedTo holds the IDs of members sharing this item's cost.
	// Duplicates are collapsed; order follows assignment order.
	AssignedTo []int64 `json:"assignedTo"`

	// IsMultibuy affects display sign only; the price already carries
	// any calculation effect.
	IsMultibuy bool `json:"isMultibuy"`

	// ItemType controls formatting and splittability.
	ItemType ItemType `json:"itemType"`

	// CreatedAt is the Unix timestamp (milliseconds) when the item was created.
	CreatedAt int64 `json:"createdAt"`
}

// Assigned reports whether the member is in the item's assignment set.
func (i Item) Assigned(memberID int64) bool {
	for _, id := range i.AssignedTo {
		if id == memberID {
			return true
		}
	}
	return false
}

// IsColleagueDiscount reports whether the item is excluded from the splittable
// subtotal entirely.
func (i Item) IsColleagueDiscount() bool {
	return i.ItemType == ItemTypeColleagueDiscount
}

// IsDealOrDiscount reports whether the item reduces rather than adds to the bill.
func (i Item) IsDealOrDiscount() bool {
	return i.ItemType == ItemTypeDeal ||
		i.ItemType == ItemTypeDiscount ||
		i.ItemType == ItemTypeColleagueDiscount ||
		i.Price.IsNegative()
}

// CostPerPerson returns the absolute share each assignee carries for this item.
// Zero when nobody is assigned.
func (i Item) CostPerPerson() decimal.Decimal {
	if len(i.AssignedTo) == 0 {
		return decimal.Zero
	}
	return i.Price.Abs().Div(decimal.NewFromInt(int64(len(i.AssignedTo))))
}

// CostPerPersonFormatted renders CostPerPerson with the currency prefix.
func (i Item) CostPerPersonFormatted() string {
	return FormatMoney(i.CostPerPerson())
}

// DisplayPrice renders the price the way the item list shows it: deals and
// discounts as labeled negative amounts, multibuy lines with a leading minus.
func (i Item) DisplayPrice() string {
	abs := i.Price.Abs()
	switch {
	case i.Price.IsNegative() && i.ItemType == ItemTypeItem:
		return fmt.Sprintf("Deal: -£%s", abs.StringFixed(2))
	case i.ItemType == ItemTypeDeal:
		return fmt.Sprintf("Deal: -£%s", abs.StringFixed(2))
	case i.ItemType == ItemTypeDiscount:
		return fmt.Sprintf("Discount: -£%s", abs.StringFixed(2))
	case i.ItemType == ItemTypeColleagueDiscount:
		return fmt.Sprintf("Colleague Discount: -£%s", abs.StringFixed(2))
	case i.IsMultibuy:
		return fmt.Sprintf("-£%s", abs.StringFixed(2))
	default:
		return fmt.Sprintf("£%s", i.Price.StringFixed(2))
	}
}

// ExtractedItem is a line item produced by the bill extraction collaborator.
type ExtractedItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Type  ItemType        `json:"type"`
}
