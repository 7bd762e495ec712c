package container

import "testing"

func TestSlotMapEmplaceGet(t *testing.T) {
	m := NewSlotMap[string]()
	h := m.Emplace("alpha")
	if !h.Valid() {
		t.Fatalf("handle.Valid:\nhave false\nwant true")
	}
	if v := m.Get(h); v == nil || *v != "alpha" {
		t.Fatalf("m.Get(h):\nhave %v\nwant alpha", v)
	}
	if n := m.Len(); n != 1 {
		t.Fatalf("m.Len:\nhave %d\nwant 1", n)
	}
}

func TestSlotMapRemoveInvalidatesHandle(t *testing.T) {
	m := NewSlotMap[int]()
	h1 := m.Emplace(1)
	if !m.Remove(h1) {
		t.Fatalf("m.Remove(h1):\nhave false\nwant true")
	}
	if v := m.Get(h1); v != nil {
		t.Fatalf("m.Get(h1) after remove:\nhave %v\nwant nil", v)
	}
	// Reusing the freed slot must bump the generation so the old handle stays invalid.
	h2 := m.Emplace(2)
	if v := m.Get(h1); v != nil {
		t.Fatalf("m.Get(stale h1):\nhave %v\nwant nil", v)
	}
	if v := m.Get(h2); v == nil || *v != 2 {
		t.Fatalf("m.Get(h2):\nhave %v\nwant 2", v)
	}
}

func TestSlotMapEachVisitsAllLiveEntries(t *testing.T) {
	m := NewSlotMap[int]()
	var handles []Handle
	for i := 0; i < 5; i++ {
		handles = append(handles, m.Emplace(i))
	}
	m.Remove(handles[2])

	seen := map[int]bool{}
	m.Each(func(h Handle, v *int) bool {
		seen[*v] = true
		return true
	})
	for i := 0; i < 5; i++ {
		want := i != 2
		if seen[i] != want {
			t.Fatalf("seen[%d]:\nhave %v\nwant %v", i, seen[i], want)
		}
	}
	if n := m.Len(); n != 4 {
		t.Fatalf("m.Len:\nhave %d\nwant 4", n)
	}
}

func TestSlotMapEachEarlyStop(t *testing.T) {
	m := NewSlotMap[int]()
	for i := 0; i < 10; i++ {
		m.Emplace(i)
	}
	count := 0
	m.Each(func(h Handle, v *int) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Fatalf("count:\nhave %d\nwant 3", count)
	}
}

func TestInvalidHandleNeverReturnedByEmplace(t *testing.T) {
	m := NewSlotMap[int]()
	for i := 0; i < 100; i++ {
		h := m.Emplace(i)
		if h == InvalidHandle {
			t.Fatalf("Emplace returned the reserved invalid handle at i=%d", i)
		}
		m.Remove(h)
	}
}
