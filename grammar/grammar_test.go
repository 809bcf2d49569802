package grammar

import (
	"errors"
	"testing"

	"github.com/npillmayer/flat/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// We use the grammar of nested brackets:
//
//     S  ➞ a S d  |  S'
//     S' ➞ b S' c  |  ϵ
//
func makeGrammar(t *testing.T) *Grammar {
	b := NewBuilder("G")
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

func TestBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.grammar")
	defer teardown()
	//
	g := makeGrammar(t)
	g.Dump()
	if g.Start() != N("S") {
		t.Errorf("expected start symbol S, is %s", g.Start())
	}
	if g.Name() != "G" {
		t.Errorf("expected grammar to be named G, is %q", g.Name())
	}
	if len(g.Nonterminals()) != 2 || len(g.Terminals()) != 4 {
		t.Errorf("expected 2 non-terminals and 4 terminals, have %v and %v",
			g.Nonterminals(), g.Terminals())
	}
	if g.Size() != 4 {
		t.Errorf("expected 4 productions, have %d", g.Size())
	}
	if len(g.ProductionsOf(N("S'"))) != 2 {
		t.Errorf("expected 2 productions for S', have %v", g.ProductionsOf(N("S'")))
	}
	empty := 0
	for _, p := range g.Productions() {
		if p.IsEmpty() {
			empty++
			if p.LHS != N("S'") || p.Len() != 0 {
				t.Errorf("unexpected epsilon production %v", p)
			}
		}
	}
	if empty != 1 {
		t.Errorf("expected 1 epsilon production, have %d", empty)
	}
	t.Logf("\n%s", g)
}

func TestStartSymbolExplicit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.grammar")
	defer teardown()
	//
	b := NewBuilder("G").Start("B")
	b.LHS("A").T("a").End()
	b.LHS("B").N("A").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if g.Start() != N("B") {
		t.Errorf("expected start symbol B, is %s", g.Start())
	}
}

func TestConstructionErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.grammar")
	defer teardown()
	//
	S, A := N("S"), N("A")
	a := T("a")
	tests := []struct {
		name  string
		N     []Symbol
		T     []Symbol
		start Symbol
		P     []*Production
	}{
		{"overlap", []Symbol{S, N("a")}, []Symbol{a}, S, []*Production{NewProduction(S, a)}},
		{"start not a non-terminal", []Symbol{A}, []Symbol{a}, S, []*Production{NewProduction(S, a)}},
		{"no start production", []Symbol{S, A}, []Symbol{a}, S, []*Production{NewProduction(A, a)}},
		{"terminal among non-terminals", []Symbol{S, a}, nil, S, []*Production{NewProduction(S, a)}},
		{"terminal LHS", []Symbol{S}, []Symbol{a}, S, []*Production{NewProduction(S, a), NewProduction(a, S)}},
		{"missing RHS", []Symbol{S}, nil, S, []*Production{{LHS: S}}},
	}
	for _, test := range tests {
		g, err := New(test.name, test.N, test.T, test.start, test.P)
		if err == nil || g != nil {
			t.Errorf("%s: expected construction error", test.name)
			continue
		}
		if !errors.Is(err, ErrConstruction) {
			t.Errorf("%s: expected error to wrap ErrConstruction, is %v", test.name, err)
		}
		t.Logf("%s: %v", test.name, err)
	}
	b := NewBuilder("clash")
	b.LHS("S").T("x").N("x").End()
	if _, err := b.Grammar(); !errors.Is(err, ErrConstruction) {
		t.Errorf("expected builder to reject x as terminal and non-terminal, error is %v", err)
	}
	b = NewBuilder("reserved")
	b.LHS("S").T("$").End()
	if _, err := b.Grammar(); !errors.Is(err, ErrConstruction) {
		t.Errorf("expected builder to reject reserved terminal $, error is %v", err)
	}
}

func TestProductionEquality(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.grammar")
	defer teardown()
	//
	S, a := N("S"), T("a")
	p1 := NewProduction(S, a, S)
	p2 := NewProduction(S, a, S)
	p3 := NewProduction(S, S, a)
	if !p1.Equals(p2) || p1.Key() != p2.Key() {
		t.Errorf("expected %v and %v to be equal", p1, p2)
	}
	if p1.Equals(p3) || p1.Key() == p3.Key() {
		t.Errorf("expected %v and %v to differ", p1, p3)
	}
	if !NewProduction(S).IsEmpty() || !NewProduction(S, Epsilon).IsEmpty() {
		t.Errorf("expected epsilon productions to be empty")
	}
	g, err := New("dups", []Symbol{S}, []Symbol{a}, S, []*Production{p1, p2, p3})
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 2 {
		t.Errorf("expected structurally equal productions to be merged, have %d", g.Size())
	}
	if !g.HasProduction(NewProduction(S, S, a)) {
		t.Errorf("expected grammar to contain %v", p3)
	}
}

func TestTaggedSymbols(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.grammar")
	defer teardown()
	//
	a, A := T("a"), N("a")
	if a.Lift(1, 2) == A.Lift(1, 2) {
		t.Errorf("lifted terminal and non-terminal of same name should differ")
	}
	if a.Lift(1, 2).IsTerminal() {
		t.Errorf("lifted terminal should be a non-terminal")
	}
	if s := a.Lift(1, 2).String(); s != "a⊕(1,2)" {
		t.Errorf("expected a⊕(1,2), have %s", s)
	}
	if s := Epsilon.At(3).String(); s != "ϵ(3)" {
		t.Errorf("expected ϵ(3), have %s", s)
	}
	if a.At(3).Base() != a || a.Lift(4, 5).Base() != a {
		t.Errorf("expected base of tagged symbols to be %s", a)
	}
	if a.Lift(1, 2).Lift(3, 4) != a.Lift(3, 4) {
		t.Errorf("re-lifting should replace the tag")
	}
	if idx := a.Lift(4, 5).Indices(); len(idx) != 2 || idx[0] != 4 || idx[1] != 5 {
		t.Errorf("expected indices [4 5], have %v", idx)
	}
}

func TestFirst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.grammar")
	defer teardown()
	//
	g := makeGrammar(t)
	F := g.First(N("S"))
	expected := []Symbol{T("a"), T("b"), Epsilon}
	if len(F) != len(expected) {
		t.Fatalf("expected FIRST(S) = %v, is %v", expected, F)
	}
	for i := range F {
		if F[i] != expected[i] {
			t.Errorf("expected FIRST(S) = %v, is %v", expected, F)
		}
	}
	for _, p := range g.ProductionsOf(N("S")) {
		t.Logf("FIRST(%v) = %v", p, g.FirstOfProduction(p))
	}
}

func TestFirstIsShallow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.grammar")
	defer teardown()
	//
	// A derives ϵ, but FIRST(S) does not look past A
	b := NewBuilder("shallow")
	b.LHS("S").N("A").T("x").End()
	b.LHS("A").Epsilon()
	b.LHS("L").N("L").T("y").End() // left recursive
	b.LHS("L").T("z").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	F := g.First(N("S"))
	if len(F) != 1 || F[0] != Epsilon {
		t.Errorf("expected FIRST(S) = [ϵ], is %v", F)
	}
	F = g.First(N("L"))
	if len(F) != 1 || F[0] != T("z") {
		t.Errorf("expected FIRST(L) = [z], is %v", F)
	}
}

func TestRecognize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.grammar")
	defer teardown()
	//
	g := makeGrammar(t)
	scan, err := scanner.Letters("abcd")
	if err != nil {
		t.Fatal(err)
	}
	derivation, err := g.Recognize(scan)
	if err != nil {
		t.Fatal(err)
	}
	expected := "<START>(S(aS(S'(bS'(ϵ)c))d)$)"
	if derivation != expected {
		t.Errorf("expected derivation %s, have %s", expected, derivation)
	}
	for _, input := range []string{"aaabcddd", "aaaabcdddd", "", "bbcc"} {
		scan, _ := scanner.Letters(input)
		if _, err := g.Recognize(scan); err != nil {
			t.Errorf("expected %q to be recognized, error is %v", input, err)
		}
	}
}

func TestRecognizeFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.grammar")
	defer teardown()
	//
	g := makeGrammar(t)
	for _, input := range []string{"abd", "abcdd", "ax", "aab"} {
		scan, _ := scanner.Letters(input)
		if d, err := g.Recognize(scan); !errors.Is(err, ErrNotRecognized) {
			t.Errorf("expected %q to be rejected, derivation is %s", input, d)
		}
	}
	b := NewBuilder("leftrec")
	b.LHS("E").N("E").T("+").T("a").End()
	b.LHS("E").T("a").End()
	lr, _ := b.Grammar()
	scan, _ := scanner.Letters("a+a")
	if _, err := lr.Recognize(scan); !errors.Is(err, ErrNotRecognized) {
		t.Errorf("expected left recursive grammar to fail, error is %v", err)
	}
}

func TestParikh(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.grammar")
	defer teardown()
	//
	b := NewBuilder("P")
	b.LHS("S").T("a").N("S").T("b").End()
	b.LHS("S").T("c").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	// productions are ordered: p1 = S ➞ a S b, p2 = S ➞ c
	expected := "(M_G(S)+1*y(p1)=0) AND xa=1*y(p1)+0*y(p2) AND xb=1*y(p1)+0*y(p2) AND xc=0*y(p1)+1*y(p2)"
	if f := Parikh(g); f != expected {
		t.Errorf("expected formula\n%s\nhave\n%s", expected, f)
	}
}
