package soia

import "fmt"

// KeyedSlice pairs a plain slice of items with the key-extractor function
// (the runtime counterpart of a dotted key-extractor path, §3, §4.3) used
// to look an item up by key. KeyFunc is exported, rather than hidden behind
// a derived map, so soia.Freeze/soia.ToBuilder's reflect-based deep copy
// carries it over like any other field; Equal ignores it and compares
// Items only.
type KeyedSlice[T any, K comparable] struct {
	Items   []T
	KeyFunc func(T) K
}

// Get returns the last-decoded item whose extracted key equals key (a
// duplicate key always keeps the later occurrence, per §4.3).
func (k KeyedSlice[T, K]) Get(key K) (T, bool) {
	for i := len(k.Items) - 1; i >= 0; i-- {
		if k.KeyFunc(k.Items[i]) == key {
			return k.Items[i], true
		}
	}
	var zero T
	return zero, false
}

// Equal reports whether two keyed slices have the same items, in the same
// order. KeyFunc is never compared (func values aren't comparable, and two
// keyed slices over the same item type always share the same extractor).
func (k KeyedSlice[T, K]) Equal(other KeyedSlice[T, K]) bool {
	if len(k.Items) != len(other.Items) {
		return false
	}
	for i := range k.Items {
		if !deepEqual(k.Items[i], other.Items[i]) {
			return false
		}
	}
	return true
}

func newKeyedSlice[T any, K comparable](items []T, keyFunc func(T) K) KeyedSlice[T, K] {
	return KeyedSlice[T, K]{Items: items, KeyFunc: keyFunc}
}

// listSerializer is the plain (unkeyed) list serializer, Serializer[[]T].
type listSerializer[T any] struct {
	item Serializer[T]
}

// List returns the Serializer for a homogeneous, length-prefixed sequence
// of T (§4.3, C3), with no key extractor.
func List[T any](item Serializer[T]) Serializer[[]T] {
	return listSerializer[T]{item: item}
}

func (s listSerializer[T]) encode(w *writer, v []T) { encodeList(w, v, s.item) }

func (s listSerializer[T]) decode(r *reader, keep bool) ([]T, error) {
	return decodeList(r, s.item, keep)
}

func (s listSerializer[T]) toJSON(v []T, flavor Flavor) any {
	return listToJSON(v, s.item, flavor)
}

func (s listSerializer[T]) fromJSON(j any, keep bool) ([]T, error) {
	return listFromJSON(j, s.item, keep)
}

func (s listSerializer[T]) isDefault(v []T) bool { return len(v) == 0 }

func (s listSerializer[T]) signature() TypeSignature {
	item := s.item.signature()
	return TypeSignature{Kind: KindArray, Item: &item}
}

// MapItems returns a new slice holding fn's per-item result (v itself is not
// modified); fn receives each item boxed as any and the item type's signature.
// This is soiavisit's array transformer (§4.8's `map` for arrays); the
// identity function satisfies §8's identity-transformer property. A
// serializer that isn't a plain (unkeyed) list leaves v alone.
func MapItems[T any](s Serializer[[]T], v []T, fn func(value any, sig TypeSignature) any) []T {
	ls, ok := s.(listSerializer[T])
	if !ok {
		return v
	}
	sig := ls.item.signature()
	out := make([]T, len(v))
	for i, it := range v {
		replaced := fn(it, sig)
		if typed, ok := replaced.(T); ok {
			out[i] = typed
		} else {
			out[i] = it
		}
	}
	return out
}

// MapKeyedItems is MapItems for a keyed list, preserving the key extractor.
func MapKeyedItems[T any, K comparable](s Serializer[KeyedSlice[T, K]], v KeyedSlice[T, K], fn func(value any, sig TypeSignature) any) KeyedSlice[T, K] {
	ks, ok := s.(keyedListSerializer[T, K])
	if !ok {
		return v
	}
	sig := ks.item.signature()
	out := make([]T, len(v.Items))
	for i, it := range v.Items {
		replaced := fn(it, sig)
		if typed, ok := replaced.(T); ok {
			out[i] = typed
		} else {
			out[i] = it
		}
	}
	return KeyedSlice[T, K]{Items: out, KeyFunc: v.KeyFunc}
}

// keyedListSerializer is Serializer[KeyedSlice[T,K]].
type keyedListSerializer[T any, K comparable] struct {
	item     Serializer[T]
	keyChain string
	keyFunc  func(T) K
}

// KeyedList returns the Serializer for a list that additionally exposes a
// key->item lookup built by applying keyFunc (the runtime counterpart of
// the dotted key-extractor path named by keyChain) to each decoded item.
func KeyedList[T any, K comparable](item Serializer[T], keyChain string, keyFunc func(T) K) Serializer[KeyedSlice[T, K]] {
	return keyedListSerializer[T, K]{item: item, keyChain: keyChain, keyFunc: keyFunc}
}

func (s keyedListSerializer[T, K]) encode(w *writer, v KeyedSlice[T, K]) {
	encodeList(w, v.Items, s.item)
}

func (s keyedListSerializer[T, K]) decode(r *reader, keep bool) (KeyedSlice[T, K], error) {
	items, err := decodeList(r, s.item, keep)
	if err != nil {
		return KeyedSlice[T, K]{}, err
	}
	return newKeyedSlice(items, s.keyFunc), nil
}

func (s keyedListSerializer[T, K]) toJSON(v KeyedSlice[T, K], flavor Flavor) any {
	return listToJSON(v.Items, s.item, flavor)
}

func (s keyedListSerializer[T, K]) fromJSON(j any, keep bool) (KeyedSlice[T, K], error) {
	items, err := listFromJSON(j, s.item, keep)
	if err != nil {
		return KeyedSlice[T, K]{}, err
	}
	return newKeyedSlice(items, s.keyFunc), nil
}

func (s keyedListSerializer[T, K]) isDefault(v KeyedSlice[T, K]) bool { return len(v.Items) == 0 }

func (s keyedListSerializer[T, K]) signature() TypeSignature {
	item := s.item.signature()
	return TypeSignature{Kind: KindArray, Item: &item, KeyChain: s.keyChain}
}

// --- shared framing helpers ---

func encodeList[T any](w *writer, v []T, item Serializer[T]) {
	encodeFrameHeader(w, len(v), _TAG_LIST_INLINE_MIN)
	for _, it := range v {
		item.encode(w, it)
	}
}

func decodeList[T any](r *reader, item Serializer[T], keep bool) ([]T, error) {
	size, err := decodeFrameSize(r)
	if err != nil {
		return nil, err
	}
	items := make([]T, size)
	for i := 0; i < size; i++ {
		v, err := item.decode(r, keep)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

func listToJSON[T any](v []T, item Serializer[T], flavor Flavor) any {
	out := make([]any, len(v))
	for i, it := range v {
		out[i] = item.toJSON(it, flavor)
	}
	return out
}

func listFromJSON[T any](j any, item Serializer[T], keep bool) ([]T, error) {
	if jsonIsZeroNumber(j) {
		return []T{}, nil
	}
	arr, ok := j.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected array, got %T", ErrSchemaMismatch, j)
	}
	items := make([]T, len(arr))
	for i, el := range arr {
		v, err := item.fromJSON(el, keep)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}
