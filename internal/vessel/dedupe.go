package vessel

// Deduper filters a stream of identities down to the first occurrence of
// each distinct vessel name. Identities with an empty name are dropped.
//
// Memory grows with the number of unique names seen, not with total input
// size, so it composes with a streaming reader.
type Deduper struct {
	seen map[string]struct{}
}

func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]struct{})}
}

// Keep reports whether id is the first occurrence of a non-empty vessel name.
func (d *Deduper) Keep(id Identity) bool {
	if id.Name == "" {
		return false
	}
	if _, ok := d.seen[id.Name]; ok {
		return false
	}
	d.seen[id.Name] = struct{}{}
	return true
}

// Unique returns the number of distinct vessel names kept so far.
func (d *Deduper) Unique() int {
	return len(d.seen)
}
