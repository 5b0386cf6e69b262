package ingest

// Filter drops records whose transaction id has already been persisted.
// The existing-id set is loaded once at the start of a run, never
// re-fetched per record, and membership checks are O(1).
//
// Admit registers each admitted id, so a duplicate id appearing twice
// within the same incoming batch is also dropped: only the first
// occurrence survives.
type Filter struct {
	seen map[string]struct{}
}

func NewFilter(existing []string) *Filter {
	seen := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		seen[id] = struct{}{}
	}
	return &Filter{seen: seen}
}

// Admit reports whether id is new, registering it when it is.
func (f *Filter) Admit(id string) bool {
	if _, dup := f.seen[id]; dup {
		return false
	}
	f.seen[id] = struct{}{}
	return true
}

// Contains reports membership without registering.
func (f *Filter) Contains(id string) bool {
	_, ok := f.seen[id]
	return ok
}

// Len returns the number of known ids.
func (f *Filter) Len() int {
	return len(f.seen)
}
