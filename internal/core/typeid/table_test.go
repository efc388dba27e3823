package typeid

import (
	"reflect"
	"testing"
)

type alpha struct{ A int }
type beta struct{ B string }

func TestOfAssignsSequentially(t *testing.T) {
	tab := New()
	if id := Of[alpha](tab); id != 0 {
		t.Fatalf("expected first id 0, got %d", id)
	}
	if id := Of[beta](tab); id != 1 {
		t.Fatalf("expected second id 1, got %d", id)
	}
	if id := Of[alpha](tab); id != 0 {
		t.Fatalf("expected cached id 0, got %d", id)
	}
	if tab.Len() != 2 {
		t.Fatalf("expected 2 types, got %d", tab.Len())
	}
}

func TestTablesAreIndependent(t *testing.T) {
	a, b := New(), New()
	Of[alpha](a)
	if id := Of[beta](b); id != 0 {
		t.Fatalf("expected independent tables to start at 0, got %d", id)
	}
	if _, ok := Lookup[beta](a); ok {
		t.Fatal("beta must not be visible in table a")
	}
}

func TestLookupAndType(t *testing.T) {
	tab := New()
	if _, ok := Lookup[alpha](tab); ok {
		t.Fatal("Lookup must not assign")
	}
	id := Of[alpha](tab)
	got, ok := tab.LookupType(reflect.TypeOf(alpha{}))
	if !ok || got != id {
		t.Fatalf("LookupType: got %d,%v want %d,true", got, ok, id)
	}
	if tab.Type(id) != reflect.TypeFor[alpha]() {
		t.Fatalf("Type(%d) = %v", id, tab.Type(id))
	}
	if tab.Type(42) != nil {
		t.Fatal("unassigned id must map to nil type")
	}
}
