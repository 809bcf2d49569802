package automaton

import (
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var params = [][2]int{{1, 1}, {1, 4}, {2, 1}, {2, 3}, {3, 2}, {4, 4}, {5, 3}}

func makeAutomaton(t *testing.T, p, q int) *Automaton {
	fa, err := New(p, q)
	if err != nil {
		t.Fatal(err)
	}
	return fa
}

func TestInvalidParameters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.automaton")
	defer teardown()
	//
	for _, pq := range [][2]int{{0, 1}, {1, 0}, {-2, 3}} {
		if _, err := New(pq[0], pq[1]); err == nil {
			t.Errorf("expected automaton for p=%d, q=%d to be rejected", pq[0], pq[1])
		}
	}
}

func TestScenario32(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.automaton")
	defer teardown()
	//
	fa := makeAutomaton(t, 3, 2)
	if fa.Size() != 6 {
		t.Errorf("expected size 6, is %d", fa.Size())
	}
	expect(t, "states", fa.States(), []int{1, 2, 3, 4, 5, 6})
	expect(t, "block 1", fa.BlockStates(1), []int{1, 2, 3})
	expect(t, "block 2", fa.BlockStates(2), []int{4, 5, 6})
	expect(t, "entries", fa.Entries(), []int{1, 4})
	expect(t, "non-final entries", fa.NonFinalEntries(), []int{1})
	if fa.Accepting() != 4 || !fa.IsAccepting(4) || fa.IsAccepting(1) {
		t.Errorf("expected accepting state 4, is %d", fa.Accepting())
	}
	expect(t, "closure(1)", fa.Closure(1), []int{2, 3, 4, 5, 6})
	expect(t, "closure(2)", fa.Closure(2), []int{1, 3, 4, 5, 6})
	expect(t, "closure(4)", fa.Closure(4), []int{5, 6})
	expect(t, "closure(6)", fa.Closure(6), []int{4, 5})
	expect(t, "successors(1)", fa.Successors(1), []int{2, 4})
	expect(t, "successors(3)", fa.Successors(3), []int{1})
	expect(t, "successors(4)", fa.Successors(4), []int{5})
	expect(t, "successors(6)", fa.Successors(6), []int{4})
}

func TestBlocksAndEntries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.automaton")
	defer teardown()
	//
	for _, pq := range params {
		p, q := pq[0], pq[1]
		fa := makeAutomaton(t, p, q)
		if fa.Size() != p*q {
			t.Errorf("%v: expected size %d, is %d", fa, p*q, fa.Size())
		}
		if fa.Accepting() != p*q-p+1 {
			t.Errorf("%v: expected accepting state %d, is %d", fa, p*q-p+1, fa.Accepting())
		}
		if len(fa.Entries()) != q || len(fa.NonFinalEntries()) != q-1 {
			t.Errorf("%v: expected %d entries, have %v", fa, q, fa.Entries())
		}
		for _, e := range fa.Entries() {
			if (e-1)%p != 0 || !fa.IsEntry(e) {
				t.Errorf("%v: %d is not an entry state", fa, e)
			}
		}
		for _, i := range fa.States() {
			b := fa.Block(i)
			if b < 1 || b > q || !contains(fa.BlockStates(b), i) {
				t.Errorf("%v: state %d not in its block %d", fa, i, b)
			}
		}
	}
}

func TestLoopSuccessorIsCyclic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.automaton")
	defer teardown()
	//
	for _, pq := range params {
		p, q := pq[0], pq[1]
		fa := makeAutomaton(t, p, q)
		for b := 1; b <= q; b++ {
			block := fa.BlockStates(b)
			seen := map[int]bool{}
			for _, i := range block {
				s := fa.LoopSuccessor(i)
				if !contains(block, s) {
					t.Errorf("%v: loop successor %d of %d leaves block %d", fa, s, i, b)
				}
				seen[s] = true
			}
			if len(seen) != p {
				t.Errorf("%v: loop successor is not a bijection on block %d", fa, b)
			}
			i, steps := block[0], 0 // walk the cycle from the entry
			for {
				i = fa.LoopSuccessor(i)
				steps++
				if i == block[0] {
					break
				}
			}
			if steps != p {
				t.Errorf("%v: expected cycle of length %d in block %d, is %d", fa, p, b, steps)
			}
		}
	}
}

func TestEntrySuccessorPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.automaton")
	defer teardown()
	//
	gconf.Initialize(testconfig.Conf{
		"tracing.adapter":           "test",
		"panic-on-automaton-misuse": true,
	})
	defer gconf.Initialize(testconfig.Conf{"tracing.adapter": "test"})
	fa := makeAutomaton(t, 3, 2)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected entry successor of 2 to panic")
		}
		if err, ok := r.(error); !ok || !errors.Is(err, ErrNotAnEntry) {
			t.Errorf("expected panic with ErrNotAnEntry, have %v", r)
		}
	}()
	if s, err := fa.EntrySuccessor(1); err != nil || s != 4 {
		t.Fatalf("expected entry successor of 1 to be 4, is %d (%v)", s, err)
	}
	fa.EntrySuccessor(2)
}

func TestEntrySuccessor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.automaton")
	defer teardown()
	//
	for _, pq := range params {
		p, q := pq[0], pq[1]
		fa := makeAutomaton(t, p, q)
		for _, e := range fa.NonFinalEntries() {
			s, err := fa.EntrySuccessor(e)
			if err != nil {
				t.Fatal(err)
			}
			if !fa.IsEntry(s) || fa.Block(s) != fa.Block(e)+1 {
				t.Errorf("%v: entry successor %d of %d is not the next block's entry", fa, s, e)
			}
			succ := fa.Successors(e)
			if len(succ) != 2 || succ[0] != fa.LoopSuccessor(e) || succ[1] != s {
				t.Errorf("%v: expected successors(%d) = {%d, %d}, are %v", fa, e, fa.LoopSuccessor(e), s, succ)
			}
		}
		for _, i := range fa.States() {
			if fa.IsEntry(i) {
				continue
			}
			if _, err := fa.EntrySuccessor(i); !errors.Is(err, ErrNotAnEntry) {
				t.Errorf("%v: expected entry successor of %d to fail, error is %v", fa, i, err)
			}
		}
	}
}

func TestClosure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.automaton")
	defer teardown()
	//
	for _, pq := range params {
		p, q := pq[0], pq[1]
		fa := makeAutomaton(t, p, q)
		for _, i := range fa.States() {
			C := fa.Closure(i)
			if contains(C, i) {
				t.Errorf("%v: %d is contained in its own closure", fa, i)
			}
			for _, j := range C {
				if j < 1 || j > fa.Size() {
					t.Errorf("%v: closure(%d) contains %d, not a state", fa, i, j)
				}
				if fa.Block(j) < fa.Block(i) {
					t.Errorf("%v: closure(%d) contains %d of an earlier block", fa, i, j)
				}
			}
			if expected := fa.Size() - p*(fa.Block(i)-1) - 1; len(C) != expected {
				t.Errorf("%v: expected |closure(%d)| = %d, is %d", fa, i, expected, len(C))
			}
			for _, j := range fa.States() {
				if fa.InClosure(i, j) != contains(C, j) || fa.Compatible(i, j) != contains(C, j) {
					t.Errorf("%v: InClosure(%d,%d) disagrees with Closure", fa, i, j)
				}
			}
			if fa.Block(i) == q && p == 1 && len(C) != 0 {
				t.Errorf("%v: expected empty closure for %d, is %v", fa, i, C)
			}
		}
	}
}

// ---------------------------------------------------------------------------

func expect(t *testing.T, what string, have, want []int) {
	t.Helper()
	if fmt.Sprint(have) != fmt.Sprint(want) {
		t.Errorf("expected %s = %v, is %v", what, want, have)
	}
}

func contains(S []int, i int) bool {
	for _, j := range S {
		if j == i {
			return true
		}
	}
	return false
}
