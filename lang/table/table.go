// Package table implements the open-addressing, linear-probing hash table
// described in spec.md §4.3, keyed by canonical *value.String references
// (pointer identity after interning). It backs the VM's globals table, every
// Class's method table, every Instance's field table, and (via Interner, in
// this package) the weak-keyed string interner.
package table

import "github.com/mna/lox/lang/value"

const maxLoadFactor = 0.75

type entryState uint8

const (
	stateEmpty entryState = iota
	stateTombstone
	stateOccupied
)

type entry struct {
	key   *value.String
	val   value.Value
	state entryState
}

// Table is an open-addressing hash map from *value.String to value.Value.
type Table struct {
	entries []entry
	count   int // occupied + tombstones, per spec.md §4.3's load-factor accounting
}

// New returns an empty Table. Table's zero value is also usable.
func New() *Table { return &Table{} }

// Len reports the number of live (non-tombstone) entries.
func (t *Table) Len() int {
	n := 0
	for _, e := range t.entries {
		if e.state == stateOccupied {
			n++
		}
	}
	return n
}

// Get returns the value for key, and whether it was found.
func (t *Table) Get(key *value.String) (value.Value, bool) {
	if len(t.entries) == 0 {
		return value.Nil, false
	}
	e := t.findEntry(t.entries, key)
	if e.state != stateOccupied {
		return value.Nil, false
	}
	return e.val, true
}

// Set inserts or overwrites key's value. It returns true if key is new to
// the table (spec.md §4.3: a new key landing on a tombstone slot does not
// increase the live count further, since the tombstone already counted
// against the load factor).
func (t *Table) Set(key *value.String, v value.Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*maxLoadFactor {
		t.grow()
	}

	e := t.findEntry(t.entries, key)
	isNew := e.state != stateOccupied
	if isNew && e.state == stateEmpty {
		t.count++
	}
	e.key = key
	e.val = v
	e.state = stateOccupied
	return isNew
}

// Delete replaces key's entry with a tombstone. It returns whether an entry
// was removed.
func (t *Table) Delete(key *value.String) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := t.findEntry(t.entries, key)
	if e.state != stateOccupied {
		return false
	}
	e.key = nil
	e.val = value.Bool(true) // tombstone marker value, per spec.md §4.3
	e.state = stateTombstone
	return true
}

// CopyAllInto iterates t and inserts every live entry into dst.
func (t *Table) CopyAllInto(dst *Table) {
	for _, e := range t.entries {
		if e.state == stateOccupied {
			dst.Set(e.key, e.val)
		}
	}
}

// FindString is the one place in the system that compares strings by
// content rather than identity (spec.md §4.3): given raw bytes and their
// hash, it returns the canonical *value.String already present in the
// table with equal content, if any. The string interner is the only caller.
func (t *Table) FindString(data []byte, hash uint32) *value.String {
	if len(t.entries) == 0 {
		return nil
	}
	mask := uint32(len(t.entries) - 1)
	idx := hash & mask
	for {
		e := &t.entries[idx]
		switch e.state {
		case stateEmpty:
			return nil
		case stateOccupied:
			if e.key.Hash == hash && len(e.key.Data) == len(data) && string(e.key.Data) == string(data) {
				return e.key
			}
		}
		idx = (idx + 1) & mask
	}
}

// MarkRoots marks every live key and value for the GC (spec.md §4.3).
func (t *Table) MarkRoots(mark func(value.Value)) {
	for _, e := range t.entries {
		if e.state == stateOccupied {
			mark(value.FromObj(e.key))
			mark(e.val)
		}
	}
}

// RemoveWeak deletes every entry whose key object is unmarked. Called before
// sweep on the interner's table to realize spec.md §4.3's weak-key semantics:
// an unreferenced interned string is allowed to be collected even though the
// interner itself still names it.
func (t *Table) RemoveWeak() {
	for i := range t.entries {
		e := &t.entries[i]
		if e.state == stateOccupied && !e.key.Marked {
			e.key = nil
			e.val = value.Bool(true)
			e.state = stateTombstone
		}
	}
}

// findEntry returns a pointer to the slot key should occupy: either its
// existing occupied slot, the first tombstone seen along the probe sequence
// (so repeated insert/delete doesn't leak slots), or the first empty slot.
func (t *Table) findEntry(entries []entry, key *value.String) *entry {
	mask := uint32(len(entries) - 1)
	idx := key.Hash & mask
	var tombstone *entry
	for {
		e := &entries[idx]
		switch e.state {
		case stateEmpty:
			if tombstone != nil {
				return tombstone
			}
			return e
		case stateTombstone:
			if tombstone == nil {
				tombstone = e
			}
		case stateOccupied:
			if e.key == key {
				return e
			}
		}
		idx = (idx + 1) & mask
	}
}

func (t *Table) grow() {
	newCap := 8
	if len(t.entries) > 0 {
		newCap = len(t.entries) * 2
	}
	newEntries := make([]entry, newCap)

	// Rehash, discarding tombstones (spec.md §4.3) and recomputing count as
	// exactly the number of live entries copied over.
	t.count = 0
	for _, e := range t.entries {
		if e.state != stateOccupied {
			continue
		}
		dst := t.findEntry(newEntries, e.key)
		dst.key = e.key
		dst.val = e.val
		dst.state = stateOccupied
		t.count++
	}
	t.entries = newEntries
}
