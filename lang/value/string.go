package value

// String is the heap representation of an interned lox string (spec.md §3's
// String object kind). It lives in package value, rather than alongside the
// other heap object kinds in package object, because both the chunk constant
// pool and the hash table's key type need to name it without introducing an
// import cycle (object depends on both chunk and table, and table keys are
// *String).
type String struct {
	Header
	Data []byte
	Hash uint32
}

var _ Obj = (*String)(nil)

// NewString allocates an uninterned String object. Callers that want
// interning semantics (spec.md §3's invariant that the interner holds each
// distinct string exactly once) must go through the table.Interner, never
// construct and use a String directly as a map/equality key.
func NewString(data []byte) *String {
	return &String{
		Header: Header{Type: ObjString},
		Data:   data,
		Hash:   HashBytes(data),
	}
}

func (s *String) String() string { return string(s.Data) }

// HashBytes is the FNV-1a hash used both to look up candidate strings in the
// interner and as the String object's own cached hash (spec.md §4.3's
// find_string is the one place content, rather than identity, is compared).
func HashBytes(data []byte) uint32 {
	var h uint32 = 2166136261
	for _, b := range data {
		h ^= uint32(b)
		h *= 16777619
	}
	return h
}
