// Package intern assigns stable dense ids to keys as they are first seen.
package intern

// Table maps keys to 1-based ids in first-seen order and back.
// It is meant for build-time use and is not safe for concurrent mutation.
type Table[K comparable] struct {
	ids  map[K]uint32
	keys []K
}

// New returns an empty table with room for hint keys.
func New[K comparable](hint int) *Table[K] {
	if hint < 0 {
		hint = 0
	}
	return &Table[K]{
		ids:  make(map[K]uint32, hint),
		keys: make([]K, 0, hint),
	}
}

// Intern returns the id of key, allocating Len()+1 when the key is new.
// added reports whether the key was allocated by this call.
func (t *Table[K]) Intern(key K) (id uint32, added bool) {
	if t.ids == nil {
		t.ids = make(map[K]uint32)
	}
	if id, ok := t.ids[key]; ok {
		return id, false
	}
	t.keys = append(t.keys, key)
	id = uint32(len(t.keys))
	t.ids[key] = id
	return id, true
}

// Lookup returns the id of key without allocating.
func (t *Table[K]) Lookup(key K) (uint32, bool) {
	id, ok := t.ids[key]
	return id, ok
}

// Key returns the key that owns id.
func (t *Table[K]) Key(id uint32) (K, bool) {
	var zero K
	if id == 0 || int(id) > len(t.keys) {
		return zero, false
	}
	return t.keys[id-1], true
}

// Len returns the number of interned keys.
func (t *Table[K]) Len() int { return len(t.keys) }

// Keys returns the keys in id order; Keys()[i] has id i+1.
func (t *Table[K]) Keys() []K {
	out := make([]K, len(t.keys))
	copy(out, t.keys)
	return out
}
