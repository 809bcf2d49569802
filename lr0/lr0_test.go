package lr0

import (
	"strings"
	"testing"

	"github.com/npillmayer/flat/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// S ➞ a S b | c
func makeLR0Grammar(t *testing.T) *grammar.Grammar {
	b := grammar.NewBuilder("G")
	b.LHS("S").T("a").N("S").T("b").End()
	b.LHS("S").T("c").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// S ➞ a S d | S',  S' ➞ b S' c | ϵ
func makeNestedGrammar(t *testing.T) *grammar.Grammar {
	b := grammar.NewBuilder("Nested")
	b.LHS("S").T("a").N("S").T("d").End()
	b.LHS("S").N("S'").End()
	b.LHS("S'").T("b").N("S'").T("c").End()
	b.LHS("S'").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

var (
	S          = grammar.N("S")
	a, b, c, d = grammar.T("a"), grammar.T("b"), grammar.T("c"), grammar.T("d")
)

func TestItems(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.lr0")
	defer teardown()
	//
	p := grammar.NewProduction(S, a, S, b)
	i := Item{prod: p, serial: 1}
	if X, ok := i.PeekSymbol(); !ok || X != a {
		t.Errorf("expected a after dot, have %v", X)
	}
	i, _ = i.Advance()
	i, _ = i.Advance()
	if X, ok := i.PrevSymbol(); !ok || X != S {
		t.Errorf("expected S before dot, have %v", X)
	}
	if s := i.String(); s != "S ➞ a S • b" {
		t.Errorf("unexpected item %q", s)
	}
	i, _ = i.Advance()
	if !i.IsComplete() || len(i.Prefix()) != 3 {
		t.Errorf("expected item to be complete, is %v", i)
	}
	if _, ok := i.Advance(); ok {
		t.Errorf("complete item should not advance")
	}
	e := Item{prod: grammar.NewProduction(S)}
	if !e.IsComplete() || e.String() != "S ➞ •" {
		t.Errorf("expected epsilon item to be complete, is %v", e)
	}
}

func TestCFSM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.lr0")
	defer teardown()
	//
	lrgen := NewTableGenerator(makeLR0Grammar(t))
	cfsm := lrgen.CFSM()
	if len(cfsm.States()) != 6 {
		t.Errorf("expected CFSM to have 6 states, have %d", len(cfsm.States()))
	}
	if cfsm.EdgeCount() != 7 {
		t.Errorf("expected CFSM to have 7 edges, have %d", cfsm.EdgeCount())
	}
	if len(cfsm.S0.Items()) != 3 {
		t.Errorf("expected start state to have 3 items, have %v", cfsm.S0.Items())
	}
	trans := cfsm.Transitions(cfsm.S0)
	if len(trans) != 3 || trans[S] == nil || !trans[S].Accept {
		t.Errorf("expected start state to have 3 transitions, one to accepting, have %v", trans)
	}
	if trans[b] != nil {
		t.Errorf("unexpected transition on b from start state")
	}
	if acc := lrgen.AcceptingStates(); len(acc) != 1 || acc[0] != 0 {
		t.Errorf("expected state 0 to be the only accepting state, have %v", acc)
	}
}

func TestTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.lr0")
	defer teardown()
	//
	lrgen := NewTableGenerator(makeLR0Grammar(t))
	lrgen.CreateTables()
	if lrgen.HasConflicts {
		t.Errorf("grammar is LR(0), but tables have conflicts")
	}
	gototable := lrgen.GotoTable()
	s1 := gototable.Value(0, S)
	s2 := gototable.Value(0, a)
	if s1 == gototable.NullValue() || s2 == gototable.NullValue() {
		t.Fatalf("expected GOTO entries for state 0")
	}
	if gototable.Value(uint(s2), a) != s2 {
		t.Errorf("expected goto(%d,a) to loop", s2)
	}
	if gototable.Value(uint(s1), a) != gototable.NullValue() {
		t.Errorf("expected no transition from accepting state")
	}
	if gototable.ValueCount() != 7 {
		t.Errorf("expected one GOTO entry per edge, have %d", gototable.ValueCount())
	}
	actions := lrgen.ActionTable()
	if actions.Value(0, a) != ShiftAction {
		t.Errorf("expected shift in state 0, have %s", ActionString(actions, 0))
	}
	if actions.Value(uint(s1), a) != AcceptAction {
		t.Errorf("expected accept in state %d, have %s", s1, ActionString(actions, uint(s1)))
	}
	sc := gototable.Value(0, c)
	r := actions.Value(uint(sc), c)
	if r < 1 || !lrgen.Rule(int(r)).Equals(grammar.NewProduction(S, c)) {
		t.Errorf("expected reduce S ➞ c in state %d, have %s", sc, ActionString(actions, uint(sc)))
	}
}

func TestConflicts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.lr0")
	defer teardown()
	//
	lrgen := NewTableGenerator(makeNestedGrammar(t))
	if start := lrgen.Rule(0); start.LHS != grammar.N("S''") || start.RHS[0] != S {
		t.Errorf("expected augmented start production S'' ➞ S, have %v", start)
	}
	lrgen.CreateTables()
	if !lrgen.HasConflicts {
		t.Errorf("expected shift/reduce conflict for ϵ-production")
	}
	a1, a2 := lrgen.ActionTable().Values(0, grammar.Symbol{})
	if (a1 != ShiftAction && a2 != ShiftAction) || a2 == lrgen.ActionTable().NullValue() {
		t.Errorf("expected conflict in state 0, have %s", ActionString(lrgen.ActionTable(), 0))
	}
}

func TestGraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.lr0")
	defer teardown()
	//
	lrgen := NewTableGenerator(makeLR0Grammar(t))
	var w strings.Builder
	if err := lrgen.CFSM().CFSM2GraphViz(&w); err != nil {
		t.Fatal(err)
	}
	dot := w.String()
	if !strings.HasPrefix(dot, "digraph {") || !strings.Contains(dot, "s000 -> s001") {
		t.Errorf("unexpected Graphviz output:\n%s", dot)
	}
	if strings.Count(dot, " -> ") != 7 {
		t.Errorf("expected 7 edges in Graphviz output")
	}
}
