// Package ledger owns the in-memory bill state: members, items, and the
// discount percentage. All mutations serialize through a single mutex, so
// concurrent edits and an in-flight extraction's completion cannot interleave
// unsafely. Every operation either fully applies or fully rejects before any
// mutation.
package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/newtown/billsplitter/internal/calculator"
	"github.com/newtown/billsplitter/internal/models"
	"github.com/newtown/billsplitter/internal/storage"
)

// Ledger is the single logical owner of the bill state. Members persist
// through the settings store; items and the discount live in memory only.
type Ledger struct {
	mu              sync.Mutex
	store           storage.Store
	members         []models.Member
	items           []models.Item
	discountPercent decimal.Decimal
	lastID          int64

	subMu       sync.Mutex
	subscribers []func(Event)
}

// New creates a Ledger backed by the given settings store, loading any
// previously saved member list.
func New(ctx context.Context, store storage.Store) (*Ledger, error) {
	members, err := store.LoadMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	l := &Ledger{
		store:           store,
		members:         members,
		discountPercent: decimal.Zero,
	}
	// Seed the id source past any loaded id so restored members never
	// collide with new ones.
	for _, m := range members {
		if m.ID > l.lastID {
			l.lastID = m.ID
		}
	}
	return l, nil
}

// Subscribe registers a callback invoked after every successful mutation.
// Callbacks run outside the state lock and may read the ledger.
func (l *Ledger) Subscribe(fn func(Event)) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

func (l *Ledger) notify(kinds ...EventKind) {
	l.subMu.Lock()
	subs := slices.Clone(l.subscribers)
	l.subMu.Unlock()
	for _, kind := range kinds {
		for _, fn := range subs {
			fn(Event{Kind: kind})
		}
	}
}

// nextID returns a unique id from the millisecond clock, bumped on collision.
// Caller must hold l.mu.
func (l *Ledger) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

// AddMember appends a member with a fresh id and a round-robin palette color,
// then persists the updated member list. Empty or whitespace-only names are
// rejected with a ValidationError.
func (l *Ledger) AddMember(ctx context.Context, name, emoji string) (models.Member, error) {
	l.mu.Lock()
	name = strings.TrimSpace(name)
	if name == "" {
		l.mu.Unlock()
		return models.Member{}, validationErrorf("member name must not be empty")
	}

	member := models.Member{
		ID:        l.nextID(),
		Name:      name,
		Color:     models.ColorForIndex(len(l.members)),
		Emoji:     emoji,
		CreatedAt: time.Now().UnixMilli(),
	}
	next := append(slices.Clone(l.members), member)
	if err := l.store.SaveMembers(ctx, next); err != nil {
		l.mu.Unlock()
		return models.Member{}, fmt.Errorf("failed to persist members: %w", err)
	}
	l.members = next
	l.mu.Unlock()

	l.notify(EventMembersChanged)
	return member, nil
}

// RemoveMember removes the member and clears its id from every item's
// assignment set, then persists the updated member list.
func (l *Ledger) RemoveMember(ctx context.Context, id int64) error {
	l.mu.Lock()
	idx := slices.IndexFunc(l.members, func(m models.Member) bool { return m.ID == id })
	if idx < 0 {
		l.mu.Unlock()
		return &NotFoundError{Kind: "member", ID: id}
	}

	next := slices.Delete(slices.Clone(l.members), idx, idx+1)
	if err := l.store.SaveMembers(ctx, next); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to persist members: %w", err)
	}
	l.members = next

	// Cascade: no item may reference a removed member.
	itemsChanged := false
	for i := range l.items {
		if l.items[i].Assigned(id) {
			l.items[i].AssignedTo = slices.DeleteFunc(slices.Clone(l.items[i].AssignedTo), func(mid int64) bool {
				return mid == id
			})
			itemsChanged = true
		}
	}
	l.mu.Unlock()

	if itemsChanged {
		l.notify(EventMembersChanged, EventItemsChanged)
	} else {
		l.notify(EventMembersChanged)
	}
	return nil
}

// AddItem appends an item. When members exist, the item is auto-assigned to a
// snapshot of all current members; later member additions do not touch it.
// An empty itemType defaults to a regular item.
func (l *Ledger) AddItem(name string, price decimal.Decimal, itemType models.ItemType) (models.Item, error) {
	l.mu.Lock()
	name = strings.TrimSpace(name)
	if name == "" {
		l.mu.Unlock()
		return models.Item{}, validationErrorf("item name must not be empty")
	}
	if itemType == "" {
		itemType = models.ItemTypeItem
	}
	if !itemType.Valid() {
		l.mu.Unlock()
		return models.Item{}, validationErrorf("unknown item type %q", itemType)
	}

	item := models.Item{
		ID:        l.nextID(),
		Name:      name,
		Price:     price,
		ItemType:  itemType,
		CreatedAt: time.Now().UnixMilli(),
	}
	if len(l.members) > 0 {
		item.AssignedTo = make([]int64, 0, len(l.members))
		for _, m := range l.members {
			item.AssignedTo = append(item.AssignedTo, m.ID)
		}
	}
	l.items = append(l.items, item)
	l.mu.Unlock()

	l.notify(EventItemsChanged)
	return item, nil
}

// ItemUpdate carries the fields UpdateItem may change; nil means keep.
type ItemUpdate struct {
	Name       *string
	Price      *decimal.Decimal
	ItemType   *models.ItemType
	IsMultibuy *bool
}

// UpdateItem replaces fields of the item in place, preserving list position.
func (l *Ledger) UpdateItem(id int64, upd ItemUpdate) (models.Item, error) {
	l.mu.Lock()
	idx := slices.IndexFunc(l.items, func(i models.Item) bool { return i.ID == id })
	if idx < 0 {
		l.mu.Unlock()
		return models.Item{}, &NotFoundError{Kind: "item", ID: id}
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		l.mu.Unlock()
		return models.Item{}, validationErrorf("item name must not be empty")
	}
	if upd.ItemType != nil && !upd.ItemType.Valid() {
		l.mu.Unlock()
		return models.Item{}, validationErrorf("unknown item type %q", *upd.ItemType)
	}

	item := l.items[idx]
	if upd.Name != nil {
		item.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Price != nil {
		item.Price = *upd.Price
	}
	if upd.ItemType != nil {
		item.ItemType = *upd.ItemType
	}
	if upd.IsMultibuy != nil {
		item.IsMultibuy = *upd.IsMultibuy
	}
	l.items[idx] = item
	l.mu.Unlock()

	l.notify(EventItemsChanged)
	return item, nil
}

// RemoveItem removes the item by id. An unknown id yields a NotFoundError.
func (l *Ledger) RemoveItem(id int64) error {
	l.mu.Lock()
	idx := slices.IndexFunc(l.items, func(i models.Item) bool { return i.ID == id })
	if idx < 0 {
		l.mu.Unlock()
		return &NotFoundError{Kind: "item", ID: id}
	}
	l.items = slices.Delete(l.items, idx, idx+1)
	l.mu.Unlock()

	l.notify(EventItemsChanged)
	return nil
}

// SetItemAssignment toggles a member's membership in the item's assignment
// set. Assigning an already-assigned member, or unassigning an absent one,
// is a no-op.
func (l *Ledger) SetItemAssignment(itemID, memberID int64, assigned bool) error {
	l.mu.Lock()
	idx := slices.IndexFunc(l.items, func(i models.Item) bool { return i.ID == itemID })
	if idx < 0 {
		l.mu.Unlock()
		return &NotFoundError{Kind: "item", ID: itemID}
	}

	item := &l.items[idx]
	changed := false
	if assigned {
		if !slices.ContainsFunc(l.members, func(m models.Member) bool { return m.ID == memberID }) {
			l.mu.Unlock()
			return &NotFoundError{Kind: "member", ID: memberID}
		}
		if !item.Assigned(memberID) {
			item.AssignedTo = append(item.AssignedTo, memberID)
			changed = true
		}
	} else if item.Assigned(memberID) {
		item.AssignedTo = slices.DeleteFunc(slices.Clone(item.AssignedTo), func(mid int64) bool {
			return mid == memberID
		})
		changed = true
	}
	l.mu.Unlock()

	if changed {
		l.notify(EventItemsChanged)
	}
	return nil
}

// SplitEvenly toggles the item's assignment set between all current members
// and nobody: when every member is already assigned it clears the set,
// otherwise it assigns everyone.
func (l *Ledger) SplitEvenly(itemID int64) (models.Item, error) {
	l.mu.Lock()
	idx := slices.IndexFunc(l.items, func(i models.Item) bool { return i.ID == itemID })
	if idx < 0 {
		l.mu.Unlock()
		return models.Item{}, &NotFoundError{Kind: "item", ID: itemID}
	}

	item := &l.items[idx]
	allAssigned := len(l.members) > 0
	for _, m := range l.members {
		if !item.Assigned(m.ID) {
			allAssigned = false
			break
		}
	}

	if allAssigned {
		item.AssignedTo = nil
	} else {
		item.AssignedTo = make([]int64, 0, len(l.members))
		for _, m := range l.members {
			item.AssignedTo = append(item.AssignedTo, m.ID)
		}
	}
	updated := *item
	l.mu.Unlock()

	l.notify(EventItemsChanged)
	return updated, nil
}

// SetDiscountPercentage clamps the percentage to [0, 100] and stores it,
// returning the clamped value.
func (l *Ledger) SetDiscountPercentage(percent decimal.Decimal) decimal.Decimal {
	l.mu.Lock()
	l.discountPercent = calculator.ClampPercent(percent)
	clamped := l.discountPercent
	l.mu.Unlock()

	l.notify(EventDiscountChanged)
	return clamped
}

// DiscountPercentage returns the stored discount percentage.
func (l *Ledger) DiscountPercentage() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.discountPercent
}

// Members returns a snapshot of the member list in insertion order.
func (l *Ledger) Members() []models.Member {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.members)
}

// Items returns a snapshot of the item list in insertion order.
func (l *Ledger) Items() []models.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]models.Item, len(l.items))
	for i, item := range l.items {
		item.AssignedTo = slices.Clone(item.AssignedTo)
		items[i] = item
	}
	return items
}

// Subtotal sums the price of every splittable item.
func (l *Ledger) Subtotal() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return calculator.Subtotal(l.items)
}

// DiscountAmount is subtotal * discount / 100.
func (l *Ledger) DiscountAmount() decimal.Decimal {
	return l.Totals().DiscountAmount
}

// FinalTotal is subtotal minus discount amount.
func (l *Ledger) FinalTotal() decimal.Decimal {
	return l.Totals().FinalTotal
}

// Totals computes the whole-bill figures.
func (l *Ledger) Totals() models.BillTotals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return calculator.ComputeTotals(l.items, l.discountPercent)
}

// MemberBreakdowns computes each member's share, in member-list order.
func (l *Ledger) MemberBreakdowns() []models.MemberBreakdown {
	l.mu.Lock()
	defer l.mu.Unlock()
	return calculator.ComputeBreakdowns(l.members, l.items, l.discountPercent)
}

// PerPersonAmount is the final total divided by the member count, or the
// final total itself when no members exist.
func (l *Ledger) PerPersonAmount() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	totals := calculator.ComputeTotals(l.items, l.discountPercent)
	if len(l.members) == 0 {
		return totals.FinalTotal
	}
	return totals.FinalTotal.Div(decimal.NewFromInt(int64(len(l.members))))
}

// TotalDeals sums the absolute price of deal-typed items.
func (l *Ledger) TotalDeals() decimal.Decimal {
	return l.sumAbsByType(models.ItemTypeDeal)
}

// TotalDiscounts sums the absolute price of discount-typed items.
func (l *Ledger) TotalDiscounts() decimal.Decimal {
	return l.sumAbsByType(models.ItemTypeDiscount)
}

func (l *Ledger) sumAbsByType(t models.ItemType) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	sum := decimal.Zero
	for _, item := range l.items {
		if item.ItemType == t {
			sum = sum.Add(item.Price.Abs())
		}
	}
	return sum
}

// ClearItems empties the item list and resets the discount. Members stay.
func (l *Ledger) ClearItems() {
	l.mu.Lock()
	l.items = nil
	l.discountPercent = decimal.Zero
	l.mu.Unlock()

	l.notify(EventItemsChanged, EventDiscountChanged)
}

// ClearAll empties members and items, resets the discount, and persists the
// empty member list.
func (l *Ledger) ClearAll(ctx context.Context) error {
	l.mu.Lock()
	if err := l.store.SaveMembers(ctx, nil); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to persist members: %w", err)
	}
	l.members = nil
	l.items = nil
	l.discountPercent = decimal.Zero
	l.mu.Unlock()

	l.notify(EventMembersChanged, EventItemsChanged, EventDiscountChanged)
	return nil
}

// IngestExtractedItems adds each extracted item in order through the same
// path as manual adds, so bulk imports follow the usual auto-assignment and
// id-uniqueness rules. Items with empty names are skipped; the count of
// items actually added is returned.
func (l *Ledger) IngestExtractedItems(extracted []models.ExtractedItem) int {
	added := 0
	for _, e := range extracted {
		itemType := e.Type
		if itemType == "" {
			itemType = models.ItemTypeItem
		}
		if _, err := l.AddItem(e.Name, e.Price, itemType); err != nil {
			continue
		}
		added++
	}
	return added
}

// IngestExtractionFailure records a visible zero-price placeholder for a
// failed receipt scan, so the failure shows up on the bill instead of
// silently discarding the upload.
func (l *Ledger) IngestExtractionFailure(cause error) models.Item {
	item, err := l.AddItem(fmt.Sprintf("Extraction error: %v", cause), decimal.Zero, models.ItemTypeItem)
	if err != nil {
		// Only reachable with an empty cause rendering; keep the bill unchanged.
		return models.Item{}
	}
	return item
}
