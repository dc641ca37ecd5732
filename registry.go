package grove

import "go.uber.org/zap"

// DenseRegistry stores values in a contiguous slice indexed by key.
// Add, Remove and Get are O(1). Remove swaps the last value into the vacated
// slot, so iteration order is not stable across removals.
//
// Pointers returned by Emplace and Get are invalidated by any later Add,
// Emplace or Remove on the same registry.
//
// The zero value is ready to use and logs through zap.L().
type DenseRegistry[K comparable, V any] struct {
	values  []V
	keys    []K // keys[i] owns values[i]
	indexOf map[K]int
	log     *zap.Logger
}

// NewDenseRegistry creates an empty registry. Lookup misses are logged to log.
func NewDenseRegistry[K comparable, V any](log *zap.Logger) *DenseRegistry[K, V] {
	return &DenseRegistry[K, V]{
		indexOf: make(map[K]int),
		log:     log,
	}
}

func (r *DenseRegistry[K, V]) logger() *zap.Logger {
	if r.log == nil {
		return zap.L()
	}
	return r.log
}

// Emplace appends a zero value under key and returns a pointer to its slot.
// If key is already present the existing slot is returned unchanged.
func (r *DenseRegistry[K, V]) Emplace(key K) *V {
	if idx, ok := r.indexOf[key]; ok {
		r.logger().Warn("registry: emplace on existing key", zap.Any("key", key))
		return &r.values[idx]
	}
	var zero V
	r.push(key, zero)
	return &r.values[len(r.values)-1]
}

// Add appends value under key. If key is already present the existing value
// is kept and Add reports false.
func (r *DenseRegistry[K, V]) Add(key K, value V) bool {
	if _, ok := r.indexOf[key]; ok {
		return false
	}
	r.push(key, value)
	return true
}

func (r *DenseRegistry[K, V]) push(key K, value V) {
	if r.indexOf == nil {
		r.indexOf = make(map[K]int)
	}
	r.indexOf[key] = len(r.values)
	r.values = append(r.values, value)
	r.keys = append(r.keys, key)
}

// Remove deletes key by moving the last value into its slot.
// Removing an absent key logs a warning and reports false.
func (r *DenseRegistry[K, V]) Remove(key K) bool {
	idx, ok := r.indexOf[key]
	if !ok {
		r.logger().Warn("registry: remove of unknown key", zap.Any("key", key))
		return false
	}
	last := len(r.values) - 1
	if idx != last {
		movedKey := r.keys[last]
		r.values[idx] = r.values[last]
		r.keys[idx] = movedKey
		r.indexOf[movedKey] = idx
	}
	var zero V
	r.values[last] = zero // drop the reference held by the backing array
	r.values = r.values[:last]
	r.keys = r.keys[:last]
	delete(r.indexOf, key)
	return true
}

// Get returns a pointer to the value stored under key, or nil with a logged
// warning if key is absent.
func (r *DenseRegistry[K, V]) Get(key K) *V {
	idx, ok := r.indexOf[key]
	if !ok {
		r.logger().Warn("registry: get of unknown key", zap.Any("key", key))
		return nil
	}
	return &r.values[idx]
}

// Has reports whether key is present. It never logs.
func (r *DenseRegistry[K, V]) Has(key K) bool {
	_, ok := r.indexOf[key]
	return ok
}

// Values returns the values in storage order. The returned slice MUST NOT
// be mutated or retained across calls that modify the registry.
func (r *DenseRegistry[K, V]) Values() []V {
	return r.values
}

// Keys returns the keys in the same order as Values. Same restrictions apply.
func (r *DenseRegistry[K, V]) Keys() []K {
	return r.keys
}

// Len returns the number of live keys.
func (r *DenseRegistry[K, V]) Len() int {
	return len(r.values)
}

// Clear removes every entry.
func (r *DenseRegistry[K, V]) Clear() {
	clear(r.values)
	r.values = r.values[:0]
	r.keys = r.keys[:0]
	clear(r.indexOf)
}

// snapshot copies keys and values into the given buffers (reused across
// frames) so a pass can iterate while callbacks mutate the registry.
func (r *DenseRegistry[K, V]) snapshot(keys []K, values []V) ([]K, []V) {
	keys = append(keys[:0], r.keys...)
	values = append(values[:0], r.values...)
	return keys, values
}
