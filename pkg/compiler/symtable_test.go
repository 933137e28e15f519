package compiler

import (
	"errors"
	"strings"
	"testing"
)

func TestSymbolTable(t *testing.T) {
	t.Run("ResolveAllocates", func(t *testing.T) {
		s := NewSymbolTable()
		x := s.Resolve("x")
		y := s.Resolve("y")
		z := s.Resolve("z")

		if x != DefaultScratchCells {
			t.Errorf("x offset: expected %d (first cell past the scratch pool), got %d", DefaultScratchCells, x)
		}
		if y != x+1 {
			t.Errorf("y offset: expected %d, got %d", x+1, y)
		}
		if z != y+1 {
			t.Errorf("z offset: expected %d, got %d", y+1, z)
		}
	})

	t.Run("ResolveIsStable", func(t *testing.T) {
		s := NewSymbolTable()
		first := s.Resolve("counter")
		s.Resolve("other")
		second := s.Resolve("counter")

		if first != second {
			t.Errorf("Resolve(counter) moved: first %d, then %d", first, second)
		}
	})

	t.Run("Lookup", func(t *testing.T) {
		s := NewSymbolTable()
		want := s.Resolve("x")

		got, found := s.Lookup("x")
		if !found {
			t.Fatalf("Lookup(x) failed after Resolve")
		}
		if got != want {
			t.Errorf("Lookup(x): expected %d, got %d", want, got)
		}

		if _, found := s.Lookup("nonexistent"); found {
			t.Errorf("Lookup(nonexistent) succeeded, expected failure")
		}
	})

	t.Run("ScratchPoolSize", func(t *testing.T) {
		s := NewSymbolTable(4)
		if s.ScratchCells() != 4 {
			t.Errorf("ScratchCells: expected 4, got %d", s.ScratchCells())
		}
		if off := s.Resolve("v"); off != 4 {
			t.Errorf("first variable: expected offset 4, got %d", off)
		}
	})

	t.Run("CheckoutRelease", func(t *testing.T) {
		s := NewSymbolTable()
		a, err := s.CheckoutScratch()
		if err != nil {
			t.Fatalf("CheckoutScratch failed: %v", err)
		}
		b, err := s.CheckoutScratch()
		if err != nil {
			t.Fatalf("CheckoutScratch failed: %v", err)
		}
		if a != 0 || b != 1 {
			t.Errorf("checkouts: expected 0 and 1, got %d and %d", a, b)
		}

		s.ReleaseScratch(b)
		c, err := s.CheckoutScratch()
		if err != nil {
			t.Fatalf("CheckoutScratch failed: %v", err)
		}
		if c != b {
			t.Errorf("released cell not reused: expected %d, got %d", b, c)
		}
	})

	t.Run("ScratchDisjointFromVariables", func(t *testing.T) {
		s := NewSymbolTable()
		v := s.Resolve("v")
		for i := 0; i < s.ScratchCells(); i++ {
			off, err := s.CheckoutScratch()
			if err != nil {
				t.Fatalf("CheckoutScratch %d failed: %v", i, err)
			}
			if off == v {
				t.Errorf("scratch cell %d collides with variable at %d", off, v)
			}
		}
	})

	t.Run("Exhaustion", func(t *testing.T) {
		s := NewSymbolTable(2)
		s.CheckoutScratch()
		s.CheckoutScratch()

		_, err := s.CheckoutScratch()
		if err == nil {
			t.Fatalf("CheckoutScratch succeeded on an empty pool")
		}
		if !errors.Is(err, ErrScratchExhausted) {
			t.Errorf("expected ErrScratchExhausted, got %v", err)
		}
	})

	t.Run("OutOfOrderReleasePanics", func(t *testing.T) {
		s := NewSymbolTable()
		a, _ := s.CheckoutScratch()
		s.CheckoutScratch()

		defer func() {
			if recover() == nil {
				t.Errorf("ReleaseScratch out of LIFO order did not panic")
			}
		}()
		s.ReleaseScratch(a)
	})

	t.Run("Variables", func(t *testing.T) {
		s := NewSymbolTable()
		s.Resolve("b")
		s.Resolve("a")

		vars := s.Variables()
		if len(vars) != 2 {
			t.Fatalf("Variables: expected 2 entries, got %d", len(vars))
		}
		// Tape order, not name order.
		if vars[0].Name != "b" || vars[1].Name != "a" {
			t.Errorf("Variables order: expected [b a], got [%s %s]", vars[0].Name, vars[1].Name)
		}
		if vars[0].Offset >= vars[1].Offset {
			t.Errorf("Variables not in tape order: %d then %d", vars[0].Offset, vars[1].Offset)
		}
	})

	t.Run("String", func(t *testing.T) {
		s := NewSymbolTable()
		if !strings.Contains(s.String(), "(none)") {
			t.Errorf("empty table dump should mention (none), got:\n%s", s.String())
		}

		s.Resolve("x")
		dump := s.String()
		if !strings.Contains(dump, "x") || !strings.Contains(dump, "cell 16") {
			t.Errorf("table dump missing variable line, got:\n%s", dump)
		}
	})
}
