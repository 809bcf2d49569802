package grammar

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
)

// ErrConstruction is returned (wrapped) for grammars violating one of the
// grammar invariants.
var ErrConstruction = errors.New("invalid grammar")

// Grammar is a context-free grammar, consisting of a set of non-terminals,
// a set of terminals, a start symbol and a set of productions. Grammars are
// read-only after construction. Create one with New or with a Builder.
//
// The following invariants hold for every grammar:
//
//    ▪︎ terminals and non-terminals are disjoint
//    ▪︎ the start symbol is a non-terminal
//    ▪︎ there is at least one production for the start symbol
//
type Grammar struct {
	name         string
	nonterminals *treeset.Set             // of Symbol
	terminals    *treeset.Set             // of Symbol
	start        Symbol                   // start symbol
	prods        []*Production            // sorted, without duplicates
	byLHS        map[Symbol][]*Production // productions grouped by LHS
	keys         map[string]*Production   // structural keys of productions
}

// New creates a grammar from explicit sets of symbols and productions.
// Duplicate symbols and productions are silently merged.
//
// New returns an error wrapping ErrConstruction if one of the grammar
// invariants is violated. No grammar is returned in this case.
func New(name string, nonterminals, terminals []Symbol, start Symbol, prods []*Production) (*Grammar, error) {
	g := &Grammar{
		name:         name,
		nonterminals: treeset.NewWith(symbolComparator),
		terminals:    treeset.NewWith(symbolComparator),
		start:        start,
		byLHS:        make(map[Symbol][]*Production),
		keys:         make(map[string]*Production),
	}
	identities := make(map[Symbol]struct{}, len(nonterminals))
	for _, A := range nonterminals {
		if A.IsTerminal() {
			return nil, fmt.Errorf("%w %q: terminal %s in set of non-terminals", ErrConstruction, name, A)
		}
		g.nonterminals.Add(A)
		identities[A.identity()] = struct{}{}
	}
	for _, a := range terminals {
		if !a.IsTerminal() {
			return nil, fmt.Errorf("%w %q: non-terminal %s in set of terminals", ErrConstruction, name, a)
		}
		if _, clash := identities[a.identity()]; clash {
			return nil, fmt.Errorf("%w %q: symbol %s is both terminal and non-terminal", ErrConstruction, name, a)
		}
		g.terminals.Add(a)
	}
	if !g.nonterminals.Contains(start) {
		return nil, fmt.Errorf("%w %q: start symbol %s is not a non-terminal of the grammar", ErrConstruction, name, start)
	}
	for _, p := range prods {
		if p == nil {
			continue
		}
		if p.LHS.IsTerminal() {
			return nil, fmt.Errorf("%w %q: production %v has a terminal LHS", ErrConstruction, name, p)
		}
		if len(p.RHS) == 0 {
			return nil, fmt.Errorf("%w %q: production for %s has no RHS, use [ϵ] for empty productions", ErrConstruction, name, p.LHS)
		}
		k := p.Key()
		if _, dup := g.keys[k]; dup {
			continue
		}
		g.keys[k] = p
		g.prods = append(g.prods, p)
		g.byLHS[p.LHS] = append(g.byLHS[p.LHS], p)
	}
	if len(g.byLHS[start]) == 0 {
		return nil, fmt.Errorf("%w %q: no production for start symbol %s", ErrConstruction, name, start)
	}
	sort.Slice(g.prods, func(i, j int) bool {
		return CompareProductions(g.prods[i], g.prods[j]) < 0
	})
	for _, P := range g.byLHS {
		sort.Slice(P, func(i, j int) bool {
			return CompareProductions(P[i], P[j]) < 0
		})
	}
	tracer().Debugf("created grammar %q with %d productions", name, len(g.prods))
	return g, nil
}

// Name returns the name of the grammar.
func (g *Grammar) Name() string {
	return g.name
}

// Start returns the start symbol.
func (g *Grammar) Start() Symbol {
	return g.start
}

// Nonterminals returns the set of non-terminals, sorted.
func (g *Grammar) Nonterminals() []Symbol {
	return symbols(g.nonterminals)
}

// Terminals returns the set of terminals, sorted.
func (g *Grammar) Terminals() []Symbol {
	return symbols(g.terminals)
}

// Productions returns all productions in a deterministic order.
// Clients must not modify the slice.
func (g *Grammar) Productions() []*Production {
	return g.prods
}

// ProductionsOf returns all productions with LHS A.
// Clients must not modify the slice.
func (g *Grammar) ProductionsOf(A Symbol) []*Production {
	return g.byLHS[A]
}

// HasNonterminal is true if A is a non-terminal of g.
func (g *Grammar) HasNonterminal(A Symbol) bool {
	return g.nonterminals.Contains(A)
}

// HasTerminal is true if a is a terminal of g.
func (g *Grammar) HasTerminal(a Symbol) bool {
	return g.terminals.Contains(a)
}

// HasProduction is true if g contains a production structurally equal to p.
func (g *Grammar) HasProduction(p *Production) bool {
	_, ok := g.keys[p.Key()]
	return ok
}

// Size returns the number of productions.
func (g *Grammar) Size() int {
	return len(g.prods)
}

// EachSymbol iterates over all non-terminals and then all terminals.
// Returns a slice of the results of f.
func (g *Grammar) EachSymbol(f func(A Symbol) interface{}) []interface{} {
	ret := make([]interface{}, 0, g.nonterminals.Size()+g.terminals.Size())
	for _, A := range g.Nonterminals() {
		ret = append(ret, f(A))
	}
	for _, a := range g.Terminals() {
		ret = append(ret, f(a))
	}
	return ret
}

// --- FIRST ------------------------------------------------------------------

// First returns the FIRST-set of a non-terminal: all terminals which are
// the first symbol of a production of A, plus recursively FIRST of the
// leading non-terminals of productions of A.
//
// This is intentionally shallow: it is not a fixed-point computation and
// does not look past a leading non-terminal which derives ϵ. Epsilon
// counts as an ordinary terminal.
func (g *Grammar) First(A Symbol) []Symbol {
	F := treeset.NewWith(symbolComparator)
	g.first(A, F, map[Symbol]bool{})
	return symbols(F)
}

// FirstOfProduction returns the FIRST-set of a single production: its
// first symbol if it is a terminal, FIRST of the leading non-terminal otherwise.
func (g *Grammar) FirstOfProduction(p *Production) []Symbol {
	F := treeset.NewWith(symbolComparator)
	g.firstOfProduction(p, F, map[Symbol]bool{})
	return symbols(F)
}

func (g *Grammar) first(A Symbol, F *treeset.Set, path map[Symbol]bool) {
	if path[A] { // left recursion adds nothing new
		return
	}
	path[A] = true
	for _, p := range g.byLHS[A] {
		g.firstOfProduction(p, F, path)
	}
	delete(path, A)
}

func (g *Grammar) firstOfProduction(p *Production, F *treeset.Set, path map[Symbol]bool) {
	X := p.RHS[0]
	if X.IsTerminal() {
		F.Add(X)
		return
	}
	g.first(X, F, path)
}

// --- Output -----------------------------------------------------------------

// Dump is a debugging helper, tracing all productions of g.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s ----------------------------------------", g.name)
	tracer().Debugf("start symbol: %s", g.start)
	for n, p := range g.prods {
		tracer().Debugf("%3d: %v", n, p)
	}
	tracer().Debugf("-----------------------------------------------")
}

// String lists the productions of g, with alternatives grouped under their
// LHS:
//
//    S  ➞ a S d
//       | S'
//
func (g *Grammar) String() string {
	var b strings.Builder
	b.WriteString("Grammar ")
	b.WriteString(g.name)
	b.WriteString(":")
	var last *Production
	for _, p := range g.prods {
		b.WriteString("\n  ")
		if last != nil && last.LHS == p.LHS {
			b.WriteString(strings.Repeat(" ", len([]rune(p.LHS.String()))))
			b.WriteString(" |")
		} else {
			b.WriteString(p.LHS.String())
			b.WriteString(" ➞")
		}
		for _, X := range p.RHS {
			b.WriteString(" ")
			b.WriteString(X.String())
		}
		last = p
	}
	return b.String()
}

func symbols(set *treeset.Set) []Symbol {
	syms := make([]Symbol, 0, set.Size())
	it := set.Iterator()
	for it.Next() {
		syms = append(syms, it.Value().(Symbol))
	}
	return syms
}
