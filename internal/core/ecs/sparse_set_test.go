package ecs

import (
	"math/rand"
	"testing"
)

func TestSparseSetInsertRemoveAllOrders(t *testing.T) {
	for _, pageSize := range []int{DefaultPageSize, 64, 100} {
		s := NewSparseSet[Entity32](pageSize)
		const n = 500
		keys := make([]Entity32, n)
		for i := range keys {
			keys[i] = NewEntity32(uint32(i*3), uint32(i%4))
			if !s.Insert(keys[i]) {
				t.Fatalf("page %d: insert of %v reported no-op", pageSize, keys[i])
			}
			if s.Len() != len(s.Keys()) {
				t.Fatalf("page %d: Len %d != dense %d", pageSize, s.Len(), len(s.Keys()))
			}
		}

		rng := rand.New(rand.NewSource(int64(pageSize)))
		for _, i := range rng.Perm(n) {
			if !s.Remove(keys[i]) {
				t.Fatalf("page %d: remove of %v failed", pageSize, keys[i])
			}
			if s.Contains(keys[i]) {
				t.Fatalf("page %d: %v still present after remove", pageSize, keys[i])
			}
			if s.Len() != len(s.Keys()) {
				t.Fatalf("page %d: Len %d != dense %d", pageSize, s.Len(), len(s.Keys()))
			}
			for _, k := range s.Keys() {
				if !s.Contains(k) {
					t.Fatalf("page %d: dense key %v lost its trampoline", pageSize, k)
				}
			}
		}
		if !s.Empty() {
			t.Fatalf("page %d: expected empty set, have %d", pageSize, s.Len())
		}
	}
}

func TestSparseSetInsertIsIdempotent(t *testing.T) {
	s := NewSparseSet[Entity64](0)
	e := NewEntity64(7, 0)
	if !s.Insert(e) {
		t.Fatal("first insert should add")
	}
	if s.Insert(e) {
		t.Fatal("second insert should be a no-op")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 member, got %d", s.Len())
	}
}

func TestSparseSetStaleGeneration(t *testing.T) {
	s := NewSparseSet[Entity32](0)
	live := NewEntity32(5, 0)
	stale := NewEntity32(5, 1)
	s.Insert(live)

	if s.Contains(stale) {
		t.Fatal("other generation of the same index must not be contained")
	}
	if s.Remove(stale) {
		t.Fatal("removing another generation must be a no-op")
	}
	if s.Insert(stale) {
		t.Fatal("index already held; insert must be a no-op")
	}
	if !s.Contains(live) {
		t.Fatal("live key must survive")
	}
}

func TestSparseSetAbsentQueries(t *testing.T) {
	s := NewSparseSet[Entity64](16)
	far := NewEntity64(1<<20, 0)
	if s.Contains(far) || s.Remove(far) {
		t.Fatal("queries beyond allocated pages must report absence")
	}
	if s.sparse.pageCount() != 0 {
		t.Fatal("queries must not allocate pages")
	}
}

func TestSparseSetPagesGrowLazily(t *testing.T) {
	s := NewSparseSet[Entity64](64)
	s.Insert(NewEntity64(200, 0))
	if got := s.sparse.pageCount(); got != 4 {
		t.Fatalf("expected 4 pages for index 200, got %d", got)
	}
	s.Remove(NewEntity64(200, 0))
	s.ShrinkToFit()
	if s.sparse.pageCount() != 0 {
		t.Fatal("ShrinkToFit on an empty set must drop pages")
	}
}

func TestSparseSetOffsetModes(t *testing.T) {
	pow2 := newPager[Entity32](64)
	odd := newPager[Entity32](100)
	e := NewEntity32(250, 0)
	if pow2.page(e) != 3 || pow2.offset(e) != 250%64 {
		t.Fatalf("pow2 pager: page %d offset %d", pow2.page(e), pow2.offset(e))
	}
	if odd.page(e) != 2 || odd.offset(e) != 50 {
		t.Fatalf("modulo pager: page %d offset %d", odd.page(e), odd.offset(e))
	}
}

func TestSparseSetEqualIgnoresOrder(t *testing.T) {
	a := NewSparseSet[Entity32](0)
	b := NewSparseSet[Entity32](0)
	for i := uint32(0); i < 10; i++ {
		a.Insert(NewEntity32(i, 0))
		b.Insert(NewEntity32(9-i, 0))
	}
	if !a.Equal(b) {
		t.Fatal("sets with same members must be equal")
	}
	b.Remove(NewEntity32(3, 0))
	b.Insert(NewEntity32(3, 1))
	if a.Equal(b) {
		t.Fatal("different generations must make sets unequal")
	}
}

func TestSparseSetReserveAndClear(t *testing.T) {
	s := NewSparseSet[Entity32](32)
	s.Reserve(100)
	if s.Cap() < 100 || s.sparse.pageCount() != 4 {
		t.Fatalf("reserve: cap %d pages %d", s.Cap(), s.sparse.pageCount())
	}
	s.Insert(NewEntity32(1, 0))
	s.Clear()
	if !s.Empty() || s.Contains(NewEntity32(1, 0)) {
		t.Fatal("Clear must empty the set")
	}
}
