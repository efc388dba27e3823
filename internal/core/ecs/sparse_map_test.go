package ecs

import (
	"math/rand"
	"testing"
)

func TestSparseMapFirstWriteWins(t *testing.T) {
	m := NewSparseMap[Entity32, string](0)
	k := NewEntity32(3, 0)
	m.Insert(k, "v1")
	if m.Insert(k, "v2") {
		t.Fatal("second insert must be a no-op")
	}
	if got := *m.Get(k); got != "v1" {
		t.Fatalf("expected v1, got %q", got)
	}
}

func TestSparseMapInsertOrReplaceLastWriteWins(t *testing.T) {
	m := NewSparseMap[Entity32, string](0)
	k := NewEntity32(3, 0)
	if m.InsertOrReplace(k, "v1") {
		t.Fatal("first InsertOrReplace must report insert")
	}
	if !m.InsertOrReplace(k, "v2") {
		t.Fatal("second InsertOrReplace must report replace")
	}
	if got := *m.Get(k); got != "v2" {
		t.Fatalf("expected v2, got %q", got)
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", m.Len())
	}
}

func TestSparseMapInsertOrReplaceEvictsStaleGeneration(t *testing.T) {
	m := NewSparseMap[Entity64, int](0)
	old := NewEntity64(9, 0)
	fresh := NewEntity64(9, 1)
	m.Insert(old, 1)
	if m.InsertOrReplace(fresh, 2) {
		t.Fatal("a different generation is an insert, not a replace")
	}
	if m.Contains(old) || !m.Contains(fresh) || m.Len() != 1 {
		t.Fatal("stale key must be evicted by the new generation")
	}
}

func TestSparseMapReplaceOnlyWhenPresent(t *testing.T) {
	m := NewSparseMap[Entity64, int](0)
	k := NewEntity64(1, 0)
	if m.Replace(k, 5) {
		t.Fatal("Replace on absent key must be a no-op")
	}
	if m.Len() != 0 {
		t.Fatal("Replace must not insert")
	}
	m.Insert(k, 1)
	if !m.Replace(k, 5) || *m.Get(k) != 5 {
		t.Fatal("Replace on present key must overwrite")
	}
}

func TestSparseMapRemoveKeepsArraysInLockstep(t *testing.T) {
	m := NewSparseMap[Entity32, int](128)
	const n = 300
	for i := 0; i < n; i++ {
		m.Insert(NewEntity32(uint32(i), 0), i*10)
	}
	rng := rand.New(rand.NewSource(7))
	for _, i := range rng.Perm(n) {
		k := NewEntity32(uint32(i), 0)
		if !m.Remove(k) {
			t.Fatalf("remove %d failed", i)
		}
		if len(m.Keys()) != len(m.Values()) || m.Len() != len(m.Keys()) {
			t.Fatalf("dense arrays out of step: keys %d values %d len %d", len(m.Keys()), len(m.Values()), m.Len())
		}
		for j, key := range m.Keys() {
			if m.Values()[j] != int(key.Index())*10 {
				t.Fatalf("value for %v is %d", key, m.Values()[j])
			}
		}
	}
	if !m.Empty() {
		t.Fatal("expected empty map")
	}
}

func TestSparseMapRemoveValue(t *testing.T) {
	m := NewSparseMap[Entity32, int](0)
	k := NewEntity32(2, 0)
	m.Insert(k, 4)
	if RemoveValue(m, k, 5) {
		t.Fatal("mismatched value must not remove")
	}
	if !ContainsValue(m, k, 4) {
		t.Fatal("ContainsValue must match the stored value")
	}
	if !RemoveValue(m, k, 4) || m.Contains(k) {
		t.Fatal("matching value must remove")
	}
}

func TestSparseMapLookupAndGet(t *testing.T) {
	m := NewSparseMap[Entity64, [2]int](0)
	k := NewEntity64(4, 2)
	if v, ok := m.Lookup(k); ok || v != nil {
		t.Fatal("Lookup on empty map must miss")
	}
	m.Insert(k, [2]int{1, 2})
	m.Get(k)[1] = 9
	v, ok := m.Lookup(k)
	if !ok || v[1] != 9 {
		t.Fatalf("write through Get must persist, got %v", v)
	}
	if _, ok := m.Lookup(NewEntity64(4, 3)); ok {
		t.Fatal("Lookup with another generation must miss")
	}
}

func TestEqualMapsIgnoresInsertionOrder(t *testing.T) {
	a := NewSparseMap[Entity32, int](0)
	b := NewSparseMap[Entity32, int](0)
	for i := uint32(0); i < 20; i++ {
		a.Insert(NewEntity32(i, 0), int(i))
		b.Insert(NewEntity32(19-i, 0), int(19-i))
	}
	if !EqualMaps(a, b) {
		t.Fatal("maps with same pairs must be equal")
	}
	b.Replace(NewEntity32(5, 0), 500)
	if EqualMaps(a, b) {
		t.Fatal("differing value must make maps unequal")
	}
	b.Remove(NewEntity32(5, 0))
	if EqualMaps(a, b) {
		t.Fatal("differing size must make maps unequal")
	}
}

func TestSparseMapIteration(t *testing.T) {
	m := NewSparseMap[Entity32, int](0)
	for i := uint32(0); i < 5; i++ {
		m.Insert(NewEntity32(i, 0), 1)
	}
	sum := 0
	for _, v := range m.All() {
		*v += 1
		sum += *v
	}
	if sum != 10 {
		t.Fatalf("expected 10, got %d", sum)
	}
	count := 0
	m.Each(func(Entity32, *int) { count++ })
	if count != 5 {
		t.Fatalf("expected 5 visits, got %d", count)
	}
}

func BenchmarkSparseMapInsertRemove(b *testing.B) {
	m := NewSparseMap[Entity64, [4]float32](0)
	for i := 0; i < b.N; i++ {
		k := NewEntity64(uint32(i%4096), 0)
		if !m.Insert(k, [4]float32{}) {
			m.Remove(k)
		}
	}
}
