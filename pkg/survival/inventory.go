package survival

type slot struct {
	token SlotToken
	item  string
}

// Inventory is an ordered list of item slots. Duplicates are allowed and
// insertion order is kept. Protective items carry durability in the ledger,
// keyed by the slot's token; the index-keyed view is derived on demand.
type Inventory struct {
	slots  []slot
	next   SlotToken
	ledger *Ledger
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{ledger: newLedger()}
}

// RestoreInventory rebuilds an inventory from its persisted index view.
// Durability keys outside the item list, or on items that are not
// protective, are dropped.
func RestoreInventory(items []string, durability map[int]int) *Inventory {
	inv := NewInventory()
	for i, item := range items {
		if item == "" {
			continue
		}
		tok := inv.push(item)
		if !isProtective(item) {
			continue
		}
		if d, ok := durability[i]; ok {
			inv.ledger.Register(tok, d)
		}
	}
	return inv
}

func (inv *Inventory) push(item string) SlotToken {
	inv.next++
	tok := inv.next
	inv.slots = append(inv.slots, slot{token: tok, item: item})
	return tok
}

// Len returns the number of slots.
func (inv *Inventory) Len() int {
	return len(inv.slots)
}

// Items returns a copy of the item list in slot order.
func (inv *Inventory) Items() []string {
	out := make([]string, len(inv.slots))
	for i, s := range inv.slots {
		out[i] = s.item
	}
	return out
}

// At returns the item at index i.
func (inv *Inventory) At(i int) (string, bool) {
	if i < 0 || i >= len(inv.slots) {
		return "", false
	}
	return inv.slots[i].item, true
}

// Token returns the stable token of the slot at index i.
func (inv *Inventory) Token(i int) (SlotToken, bool) {
	if i < 0 || i >= len(inv.slots) {
		return 0, false
	}
	return inv.slots[i].token, true
}

// Add appends an item and returns its index. Protective items added this way
// are fresh stock at full durability.
func (inv *Inventory) Add(item string) int {
	if isProtective(item) {
		return inv.AddWithDurability(item, 100)
	}
	inv.push(item)
	return len(inv.slots) - 1
}

// AddWithDurability appends a protective item with the given durability.
// For other items the durability is ignored.
func (inv *Inventory) AddWithDurability(item string, durability int) int {
	tok := inv.push(item)
	if isProtective(item) {
		inv.ledger.Register(tok, durability)
	}
	return len(inv.slots) - 1
}

// RemoveAt deletes slot i together with its ledger entry. Slots above i move
// down by one; slots below i are untouched.
func (inv *Inventory) RemoveAt(i int) (string, bool) {
	if i < 0 || i >= len(inv.slots) {
		return "", false
	}
	s := inv.slots[i]
	inv.ledger.Remove(s.token)
	inv.slots = append(inv.slots[:i], inv.slots[i+1:]...)
	return s.item, true
}

// IndexOf returns the first index holding item, or -1.
func (inv *Inventory) IndexOf(item string) int {
	for i, s := range inv.slots {
		if s.item == item {
			return i
		}
	}
	return -1
}

// IndexOfAny returns the first index holding any of items, or -1.
func (inv *Inventory) IndexOfAny(items ...string) int {
	for i, s := range inv.slots {
		for _, it := range items {
			if s.item == it {
				return i
			}
		}
	}
	return -1
}

// IndexesOf returns every index holding one of items, in order.
func (inv *Inventory) IndexesOf(items ...string) []int {
	var out []int
	for i, s := range inv.slots {
		for _, it := range items {
			if s.item == it {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// Has reports whether item is held.
func (inv *Inventory) Has(item string) bool {
	return inv.IndexOf(item) >= 0
}

// Count returns how many slots hold item.
func (inv *Inventory) Count(item string) int {
	n := 0
	for _, s := range inv.slots {
		if s.item == item {
			n++
		}
	}
	return n
}

// RemoveFirst deletes the first slot holding item.
func (inv *Inventory) RemoveFirst(item string) bool {
	i := inv.IndexOf(item)
	if i < 0 {
		return false
	}
	inv.RemoveAt(i)
	return true
}

// DurabilityAt returns the ledger value for slot i.
func (inv *Inventory) DurabilityAt(i int) (int, bool) {
	tok, ok := inv.Token(i)
	if !ok {
		return 0, false
	}
	return inv.ledger.Get(tok)
}

// DegradeAt lowers the durability of slot i and returns the new value. A
// result of 0 means the caller should remove the slot.
func (inv *Inventory) DegradeAt(i, amount int) int {
	tok, ok := inv.Token(i)
	if !ok {
		return 0
	}
	return inv.ledger.Degrade(tok, amount)
}

// SetDurabilityAt registers durability for slot i.
func (inv *Inventory) SetDurabilityAt(i, value int) bool {
	tok, ok := inv.Token(i)
	if !ok || !isProtective(inv.slots[i].item) {
		return false
	}
	inv.ledger.Register(tok, value)
	return true
}

// EachDurable calls fn for every slot with a ledger entry, in slot order,
// and stores the value fn returns.
func (inv *Inventory) EachDurable(fn func(i int, item string, durability int) int) {
	for i, s := range inv.slots {
		d, ok := inv.ledger.Get(s.token)
		if !ok {
			continue
		}
		inv.ledger.Register(s.token, fn(i, s.item, d))
	}
}

// Durability returns the index-keyed view of the ledger.
func (inv *Inventory) Durability() map[int]int {
	out := make(map[int]int, inv.ledger.Len())
	for i, s := range inv.slots {
		if d, ok := inv.ledger.Get(s.token); ok {
			out[i] = d
		}
	}
	return out
}
