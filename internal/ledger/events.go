package ledger

// EventKind identifies which part of the ledger state changed.
type EventKind string

const (
	// EventMembersChanged fires on member add/remove and on ClearAll.
	EventMembersChanged EventKind = "members_changed"

	// EventItemsChanged fires on item add/update/remove/assignment changes
	// and on ClearItems/ClearAll.
	EventItemsChanged EventKind = "items_changed"

	// EventDiscountChanged fires when the discount percentage changes.
	EventDiscountChanged EventKind = "discount_changed"
)

// Event describes a completed ledger mutation. Subscribers receive it after
// the mutation has been applied, so reading the ledger from a callback
// observes the new state.
type Event struct {
	Kind EventKind
}
