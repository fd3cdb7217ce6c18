package table

import "github.com/mna/lox/lang/value"

// Interner deduplicates strings by content so that, per spec.md §3's
// invariant, two string objects with equal content never coexist: string
// identity therefore implies textual equality everywhere else in the
// system. It wraps a Table whose keys are weak references to the strings it
// names — see RemoveWeak, called by the collector before sweep.
type Interner struct {
	table Table
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner { return &Interner{} }

// Intern returns the canonical *value.String for data, allocating and
// registering a new one only if no equal string is already known, and
// reports whether it just allocated that new one. The returned object's
// identity is stable for the lifetime of the interner entry (spec.md §3/§8:
// "for every two source string literals with identical bytes, the VM loads
// the same object identity").
func (in *Interner) Intern(data []byte) (s *value.String, isNew bool) {
	hash := value.HashBytes(data)
	if s := in.table.FindString(data, hash); s != nil {
		return s, false
	}
	s = value.NewString(data)
	s.Hash = hash
	in.table.Set(s, value.Bool(true))
	return s, true
}

// RemoveWeak must be called by the collector after tracing but before sweep:
// any interned string not reachable from a root is evicted from the
// interner, realizing spec.md §4.3's weak-keyed table semantics. General-
// purpose GCs (including Go's own) do not provide weak-hashtable semantics
// out of the box, so this step cannot be skipped even though lox leans on
// the host runtime for physical memory reclamation (spec.md §9).
func (in *Interner) RemoveWeak() {
	in.table.RemoveWeak()
}
