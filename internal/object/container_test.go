package object

import "testing"

func nums(ns ...float64) []Object {
	items := make([]Object, 0, len(ns))
	for _, n := range ns {
		items = append(items, Number(n))
	}
	return items
}

func TestMetaListBasics(t *testing.T) {
	list := NewMetaList(nums(1, 2, 3))

	if list.Len() != 3 {
		t.Fatalf("expected length 3, got %d", list.Len())
	}

	list.Append(Number(4))
	if list.Len() != 4 {
		t.Errorf("append: expected 4 items, got %d", list.Len())
	}

	popped, err := list.Pop()
	if err != nil || popped.Number() != 4 {
		t.Errorf("pop: expected 4, got %s (%v)", popped, err)
	}

	list.Unshift(Number(0))
	ref, err := list.At(0)
	if err != nil || ref.Number() != 0 {
		t.Errorf("unshift+at: expected 0, got %s (%v)", ref, err)
	}
}

func TestMetaListNegativeIndexWraps(t *testing.T) {
	list := NewMetaList(nums(1, 2, 3))

	ref, err := list.At(-1)
	if err != nil {
		t.Fatalf("At(-1) failed: %v", err)
	}
	if ref.Number() != 3 {
		t.Errorf("At(-1): expected 3, got %s", ref)
	}
}

func TestMetaListOutOfBounds(t *testing.T) {
	list := NewMetaList(nums(1))
	if _, err := list.At(5); err == nil {
		t.Error("expected out-of-bound error")
	}
	if _, err := list.At(-3); err == nil {
		t.Error("expected out-of-bound error for deep negative index")
	}
}

func TestMetaListPopEmpty(t *testing.T) {
	list := NewMetaList(nil)
	if _, err := list.Pop(); err == nil {
		t.Error("expected error popping an empty list")
	}
}

func TestMetaListSearch(t *testing.T) {
	list := NewMetaList(nums(5, 6, 5))

	idx, err := list.IndexOf(Number(5), 0)
	if err != nil || idx.Number() != 0 {
		t.Errorf("IndexOf: expected 0, got %s (%v)", idx, err)
	}

	idx, err = list.IndexOf(Number(5), 1)
	if err != nil || idx.Number() != 2 {
		t.Errorf("IndexOf from 1: expected 2, got %s (%v)", idx, err)
	}

	idx, err = list.LastIndexOf(Number(5), 0)
	if err != nil || idx.Number() != 2 {
		t.Errorf("LastIndexOf: expected 2, got %s (%v)", idx, err)
	}

	idx, err = list.IndexOf(Number(99), 0)
	if err != nil || idx.Number() != -1 {
		t.Errorf("IndexOf missing: expected -1, got %s (%v)", idx, err)
	}
}

func TestMetaListSlice(t *testing.T) {
	list := NewMetaList(nums(1, 2, 3, 4))
	out, err := list.Slice(1, 3)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if len(out) != 2 || out[0].Number() != 2 || out[1].Number() != 3 {
		t.Errorf("Slice(1,3): got %v", out)
	}

	if _, err := list.Slice(3, 1); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestMetaListRemove(t *testing.T) {
	list := NewMetaList(nums(1, 2, 1))
	if err := list.Remove(Number(1)); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if list.Len() != 2 {
		t.Fatalf("expected 2 items after remove, got %d", list.Len())
	}
	first, _ := list.At(0)
	if first.Number() != 2 {
		t.Errorf("expected first remaining to be 2, got %s", first)
	}
}

func TestMetaListString(t *testing.T) {
	list := NewMetaList([]Object{Number(1), Str("a"), Bool(true)})
	if got := list.String(); got != "[1, a, true]" {
		t.Errorf("String() = %q", got)
	}
}

func TestMetaListEqual(t *testing.T) {
	a := NewMetaList(nums(1, 2))
	b := NewMetaList(nums(1, 2))
	c := NewMetaList(nums(1, 3))

	if eq, _ := a.EqualTo(b); !eq {
		t.Error("equal lists should compare equal")
	}
	if eq, _ := a.EqualTo(c); eq {
		t.Error("different lists should not compare equal")
	}
}

func TestMetaMap(t *testing.T) {
	m := NewMetaMap()

	m.Set(Str("k"), Number(1))
	m.Set(Number(2), Str("two"))
	m.Set(Bool(true), Nil())

	if m.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", m.Len())
	}

	if got := m.Get(Str("k")); got.Number() != 1 {
		t.Errorf("Get(k): got %s", got)
	}
	if got := m.Get(Number(2)); got.Str() != "two" {
		t.Errorf("Get(2): got %s", got)
	}
	if got := m.Get(Str("missing")); !got.IsNil() {
		t.Errorf("missing key should read nil, got %s", got)
	}

	// overwrite keeps one entry
	m.Set(Str("k"), Number(9))
	if m.Len() != 3 {
		t.Errorf("overwrite must not grow the map")
	}
	if got := m.Get(Str("k")); got.Number() != 9 {
		t.Errorf("overwrite: got %s", got)
	}

	m.Delete(Number(2))
	if m.Len() != 2 {
		t.Errorf("delete: expected 2 entries, got %d", m.Len())
	}

	keys := m.Keys()
	if len(keys) != 2 || keys[0].Str() != "k" {
		t.Errorf("keys should keep insertion order, got %v", keys)
	}
}

// Reference kinds key by identity, consistent with ==.
func TestMetaMapIdentityKeys(t *testing.T) {
	class := NewClass("C", map[string]Callable{}, nil)
	a := NewInstance(NewInstanceOf(class))
	b := NewInstance(NewInstanceOf(class))

	m := NewMetaMap()
	m.Set(a, Number(1))

	if got := m.Get(a); got.Number() != 1 {
		t.Error("same instance should hit")
	}
	if got := m.Get(b); !got.IsNil() {
		t.Error("different instance must miss")
	}
}
