package source

// StringID is a handle to a string held by the Interner.
type StringID uint32

// NoStringID maps to the empty string.
const NoStringID StringID = 0

// IsValid reports whether the ID names a non-empty interned string.
func (id StringID) IsValid() bool { return id != NoStringID }

// Interner deduplicates strings and hands out stable IDs. Field names,
// binding names and pattern-index labels are stored here so the rest of the
// analysis can compare them as integers.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""}, // NoStringID -> ""
		index: map[string]StringID{"": 0},
	}
}

// Intern returns the ID for s, allocating one if needed.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	// Copy so the interner does not pin the caller's backing buffer.
	cpy := string([]byte(s))
	id := StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup returns the string for id, or "" and false for unknown IDs.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if i == nil || int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup returns the string for id, or "" if the ID is unknown.
func (i *Interner) MustLookup(id StringID) string {
	s, _ := i.Lookup(id)
	return s
}

// Len reports how many strings are interned, the empty string included.
func (i *Interner) Len() int {
	if i == nil {
		return 0
	}
	return len(i.byID)
}
