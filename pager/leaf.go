package pager

// Leaf is a thin typing wrapper over a slotted page: its value codec is the
// tree's own V-codec, and it adds no extra header fields beyond the
// slotted-page header (§4.3).
type Leaf[K any, V any] struct {
	raw        *SlottedPage
	keyCodec   KeyCodec[K]
	valueCodec ValueCodec[V]
}

// NewLeaf initializes a freshly allocated page as an empty leaf.
func NewLeaf[K any, V any](page *Page, keyCodec KeyCodec[K], valueCodec ValueCodec[V]) *Leaf[K, V] {
	l := &Leaf[K, V]{keyCodec: keyCodec, valueCodec: valueCodec}
	l.raw = NewSlottedPage(page, KindLeaf, l.compareKeyBytes)
	return l
}

// WrapLeaf views an existing page image as a leaf.
func WrapLeaf[K any, V any](page *Page, keyCodec KeyCodec[K], valueCodec ValueCodec[V]) *Leaf[K, V] {
	l := &Leaf[K, V]{keyCodec: keyCodec, valueCodec: valueCodec}
	l.raw = WrapSlottedPage(page, l.compareKeyBytes)
	return l
}

func (l *Leaf[K, V]) compareKeyBytes(a, b []byte) int {
	return l.keyCodec.Compare(l.keyCodec.Decode(a), l.keyCodec.Decode(b))
}

// Page returns the underlying page image.
func (l *Leaf[K, V]) Page() *Page { return l.raw.Page() }

// Count returns the number of live entries.
func (l *Leaf[K, V]) Count() int { return l.raw.Count() }

// Insert adds (key, value). Returns ErrDuplicateKey if key is present, or
// the internal errPageFull signal on overflow.
func (l *Leaf[K, V]) Insert(key K, value V) error {
	return l.raw.Insert(l.keyCodec.Encode(key), l.valueCodec.Encode(value))
}

// Search looks up key, returning ErrNotFound on a miss.
func (l *Leaf[K, V]) Search(key K) (V, error) {
	var zero V
	b, err := l.raw.Search(l.keyCodec.Encode(key))
	if err != nil {
		return zero, err
	}
	return l.valueCodec.Decode(b), nil
}

// Delete removes key, returning ErrNotFound if absent.
func (l *Leaf[K, V]) Delete(key K) error {
	return l.raw.Delete(l.keyCodec.Encode(key))
}

// Keys returns the leaf's keys in ascending order.
func (l *Leaf[K, V]) Keys() []K {
	raw := l.raw.Keys()
	out := make([]K, len(raw))
	for i, b := range raw {
		out[i] = l.keyCodec.Decode(b)
	}
	return out
}

// Slots returns the leaf's (key, value) pairs in ascending key order.
func (l *Leaf[K, V]) Slots() ([]K, []V) {
	rawKeys, rawValues := l.raw.Slots()
	keys := make([]K, len(rawKeys))
	values := make([]V, len(rawValues))
	for i := range rawKeys {
		keys[i] = l.keyCodec.Decode(rawKeys[i])
		values[i] = l.valueCodec.Decode(rawValues[i])
	}
	return keys, values
}
