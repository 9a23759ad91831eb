package object

import (
	"strings"
)

// Container is a polymorphic boxed container: the backing store of a
// native List or Dict instance, identified by a type tag string.
type Container interface {
	ContainerType() string
	String() string
}

// MetaList is the backing store of the native List class.
type MetaList struct {
	Items []Object
}

// NewMetaList creates a list over the given items.
func NewMetaList(items []Object) *MetaList {
	return &MetaList{Items: items}
}

func (l *MetaList) ContainerType() string {
	return "MetaList"
}

func (l *MetaList) Len() int {
	return len(l.Items)
}

func (l *MetaList) Reverse() {
	for i, j := 0, len(l.Items)-1; i < j; i, j = i+1, j-1 {
		l.Items[i], l.Items[j] = l.Items[j], l.Items[i]
	}
}

func (l *MetaList) Append(val Object) {
	l.Items = append(l.Items, val)
}

func (l *MetaList) Pop() (Object, error) {
	if len(l.Items) == 0 {
		return Nil(), runtimeErrorf("Poping from empty List")
	}
	last := l.Items[len(l.Items)-1]
	l.Items = l.Items[:len(l.Items)-1]
	return last, nil
}

// Remove deletes the first element equal to val, if any.
func (l *MetaList) Remove(val Object) error {
	for i, item := range l.Items {
		eq, err := Equal(item, val)
		if err != nil {
			return err
		}
		if eq {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (l *MetaList) Unshift(val Object) {
	l.Items = append([]Object{val}, l.Items...)
}

// At returns a reference to the element at index. Negative indices
// wrap from the end; out-of-bounds indices error.
func (l *MetaList) At(index int) (*Object, error) {
	idx, err := l.checkBound(index)
	if err != nil {
		return nil, err
	}
	return &l.Items[idx], nil
}

// IndexOf returns the index of the first element equal to val at or
// after fromIndex, or -1.
func (l *MetaList) IndexOf(val Object, fromIndex int) (Object, error) {
	from, err := l.checkBound(fromIndex)
	if err != nil {
		return Nil(), err
	}
	for i := from; i < len(l.Items); i++ {
		eq, err := Equal(l.Items[i], val)
		if err != nil {
			return Nil(), err
		}
		if eq {
			return Number(float64(i)), nil
		}
	}
	return Number(-1), nil
}

// LastIndexOf returns the index of the last element equal to val,
// skipping fromIndex elements from the end, or -1.
func (l *MetaList) LastIndexOf(val Object, fromIndex int) (Object, error) {
	from, err := l.checkBound(fromIndex)
	if err != nil {
		return Nil(), err
	}
	for i := len(l.Items) - 1 - from; i >= 0; i-- {
		eq, err := Equal(l.Items[i], val)
		if err != nil {
			return Nil(), err
		}
		if eq {
			return Number(float64(i)), nil
		}
	}
	return Number(-1), nil
}

// Reduce folds the items with a two-parameter callable.
func (l *MetaList) Reduce(fn Callable) (Object, error) {
	switch len(l.Items) {
	case 0:
		return Nil(), nil
	case 1:
		return l.Items[0], nil
	}

	reduction, err := fn.Call([]Object{l.Items[0], l.Items[1]})
	if err != nil {
		return Nil(), err
	}
	for i := 2; i < len(l.Items); i++ {
		reduction, err = fn.Call([]Object{reduction, l.Items[i]})
		if err != nil {
			return Nil(), err
		}
	}
	return reduction, nil
}

// Map applies a one-parameter callable to every item and returns the
// results; the caller wraps them into a new List instance.
func (l *MetaList) Map(fn Callable) ([]Object, error) {
	mapped := make([]Object, 0, len(l.Items))
	for _, item := range l.Items {
		result, err := fn.Call([]Object{item})
		if err != nil {
			return nil, err
		}
		mapped = append(mapped, result)
	}
	return mapped, nil
}

// Slice copies the half-open range [fromIndex, endIndex).
func (l *MetaList) Slice(fromIndex, endIndex int) ([]Object, error) {
	from, err := l.checkBound(fromIndex)
	if err != nil {
		return nil, err
	}
	end := endIndex
	if end < 0 {
		end = len(l.Items) + end
	}
	if end < 0 || end > len(l.Items) {
		return nil, runtimeErrorf("List index out of bound")
	}
	if from > end {
		return nil, runtimeErrorf("invalid range of List")
	}
	out := make([]Object, end-from)
	copy(out, l.Items[from:end])
	return out, nil
}

// EqualTo compares element-wise. A list containing itself compares
// unequal rather than recursing forever.
func (l *MetaList) EqualTo(other *MetaList) (bool, error) {
	if l == other {
		return true, nil
	}
	if len(l.Items) != len(other.Items) {
		return false, nil
	}
	for i, item := range l.Items {
		if inner := backingList(item); inner == l {
			return false, nil
		}
		eq, err := Equal(item, other.Items[i])
		if err != nil {
			return false, err
		}
		if !eq {
			return false, nil
		}
	}
	return true, nil
}

// String renders the list; a list containing itself renders "..."
// instead of recursing.
func (l *MetaList) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, item := range l.Items {
		if inner := backingList(item); inner == l {
			sb.WriteString("...")
		} else {
			sb.WriteString(item.String())
		}
		if i != len(l.Items)-1 {
			sb.WriteString(", ")
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// checkBound normalizes a possibly negative index against the list
// length and rejects out-of-bounds access.
func (l *MetaList) checkBound(index int) (int, error) {
	if index < 0 {
		index = len(l.Items) + index
	}
	if index < 0 || index >= len(l.Items) {
		return 0, runtimeErrorf("List index out of bound")
	}
	return index, nil
}

// backingList extracts the MetaList behind a List instance, or nil.
func backingList(obj Object) *MetaList {
	if !obj.IsInstance() {
		return nil
	}
	items := obj.Instance().Get("@items")
	if !items.IsContainer() {
		return nil
	}
	list, _ := items.Container().(*MetaList)
	return list
}

// IsMetaList reports whether obj boxes a MetaList container.
func IsMetaList(obj Object) bool {
	return obj.IsContainer() && obj.Container().ContainerType() == "MetaList"
}

// GetMetaList extracts the MetaList from a container object.
// Call only after IsMetaList.
func GetMetaList(obj Object) *MetaList {
	return obj.Container().(*MetaList)
}

// -----------------------------------------------------------------------------
// MetaMap
// -----------------------------------------------------------------------------

// mapKey normalizes an Object into a comparable key: scalars hash by
// kind and payload, callables/instances/containers by identity.
type mapKey struct {
	kind Type
	num  float64
	str  string
	ref  any
}

func keyOf(obj Object) mapKey {
	key := mapKey{kind: obj.Type}
	switch obj.Type {
	case BOOL, NUMBER:
		key.num = obj.num
	case STRING:
		key.str = obj.str
	case CALLABLE:
		key.ref = obj.callable
	case INSTANCE:
		key.ref = obj.instance
	case CONTAINER:
		key.ref = obj.container
	}
	return key
}

type mapEntry struct {
	key Object
	val Object
}

// MetaMap is the backing store of the native Dict class. It keeps
// insertion order for display and key listing.
type MetaMap struct {
	entries map[mapKey]*mapEntry
	order   []*mapEntry
}

// NewMetaMap creates an empty map.
func NewMetaMap() *MetaMap {
	return &MetaMap{entries: make(map[mapKey]*mapEntry)}
}

func (m *MetaMap) ContainerType() string {
	return "MetaMap"
}

func (m *MetaMap) Len() int {
	return len(m.order)
}

// Set inserts or overwrites the value for key.
func (m *MetaMap) Set(key, val Object) {
	k := keyOf(key)
	if entry, ok := m.entries[k]; ok {
		entry.val = val
		return
	}
	entry := &mapEntry{key: key, val: val}
	m.entries[k] = entry
	m.order = append(m.order, entry)
}

// Get returns the value for key, or nil when absent.
func (m *MetaMap) Get(key Object) Object {
	if entry, ok := m.entries[keyOf(key)]; ok {
		return entry.val
	}
	return Nil()
}

// Delete removes the entry for key, if any.
func (m *MetaMap) Delete(key Object) {
	k := keyOf(key)
	entry, ok := m.entries[k]
	if !ok {
		return
	}
	delete(m.entries, k)
	for i, e := range m.order {
		if e == entry {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *MetaMap) Keys() []Object {
	keys := make([]Object, 0, len(m.order))
	for _, entry := range m.order {
		keys = append(keys, entry.key)
	}
	return keys
}

func (m *MetaMap) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, entry := range m.order {
		sb.WriteString(entry.key.String())
		sb.WriteString(": ")
		sb.WriteString(entry.val.String())
		if i != len(m.order)-1 {
			sb.WriteString(", ")
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

// IsMetaMap reports whether obj boxes a MetaMap container.
func IsMetaMap(obj Object) bool {
	return obj.IsContainer() && obj.Container().ContainerType() == "MetaMap"
}

// GetMetaMap extracts the MetaMap from a container object.
// Call only after IsMetaMap.
func GetMetaMap(obj Object) *MetaMap {
	return obj.Container().(*MetaMap)
}
