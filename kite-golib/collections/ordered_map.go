package collections

import (
	"container/list"
)

type keyVal struct {
	key string
	val float64
}

// OrderedMap maps names to values and remembers the order in which names were first set.
// It is not thread-safe.
type OrderedMap struct {
	items map[string]*list.Element
	order *list.List
}

// NewOrderedMap allocates an ordered map with the given initial capacity.
// The capacity will grow as needed.
func NewOrderedMap(cap int) OrderedMap {
	return OrderedMap{
		items: make(map[string]*list.Element, cap),
		order: list.New(),
	}
}

// Len returns the number of elements in the map
func (m OrderedMap) Len() int {
	return len(m.items)
}

// Get returns the value for a given key in the map and an existence flag.
func (m OrderedMap) Get(key string) (float64, bool) {
	elem := m.items[key]
	if elem == nil {
		return 0, false
	}
	return elem.Value.(keyVal).val, true
}

// Set sets the value for a given key in the map and returns true iff the key did not already exist.
// If the key already exists its value is updated, but its position is not.
func (m OrderedMap) Set(key string, val float64) bool {
	elem := m.items[key]
	if elem != nil {
		elem.Value = keyVal{key, val}
		return false
	}

	m.items[key] = m.order.PushBack(keyVal{key, val})
	return true
}

// Delete deletes the given key from the map, returning the corresponding value and an existence flag.
func (m OrderedMap) Delete(key string) (float64, bool) {
	elem := m.items[key]
	if elem == nil {
		return 0, false
	}
	delete(m.items, key)
	return m.order.Remove(elem).(keyVal).val, true
}

// Keys returns the keys in insertion order.
func (m OrderedMap) Keys() []string {
	keys := make([]string, 0, m.Len())
	m.Range(func(k string, _ float64) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Range iterates over the map in insertion order until cb returns false.
func (m OrderedMap) Range(cb func(k string, v float64) bool) {
	if m.order == nil {
		return
	}
	elem := m.order.Front()
	for elem != nil {
		kv := elem.Value.(keyVal)
		elem = elem.Next() // this needs to happen before cb(...), since cb(...) might delete `elem`
		if !cb(kv.key, kv.val) {
			break
		}
	}
}
