package survival

// SlotToken identifies an inventory slot for its whole lifetime. Tokens are
// never reused within an inventory, so ledger entries cannot drift when
// other slots are removed.
type SlotToken uint64

// Ledger maps slot tokens to durability in [0, 100].
type Ledger struct {
	entries map[SlotToken]int
}

func newLedger() *Ledger {
	return &Ledger{entries: make(map[SlotToken]int)}
}

// Register creates or replaces an entry.
func (l *Ledger) Register(slot SlotToken, initial int) {
	l.entries[slot] = clamp(initial, 0, 100)
}

// Get returns the durability for slot.
func (l *Ledger) Get(slot SlotToken) (int, bool) {
	v, ok := l.entries[slot]
	return v, ok
}

// Degrade lowers durability by amount, clamping at 0, and returns the new value.
// Unregistered slots are left alone and report 0.
func (l *Ledger) Degrade(slot SlotToken, amount int) int {
	v, ok := l.entries[slot]
	if !ok {
		return 0
	}
	v = clamp(v-amount, 0, 100)
	l.entries[slot] = v
	return v
}

// Restore raises durability by amount, clamping at 100.
func (l *Ledger) Restore(slot SlotToken, amount int) int {
	v, ok := l.entries[slot]
	if !ok {
		return 0
	}
	v = clamp(v+amount, 0, 100)
	l.entries[slot] = v
	return v
}

// Remove deletes an entry.
func (l *Ledger) Remove(slot SlotToken) {
	delete(l.entries, slot)
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}
