/*
Package flatten implements the flattening transform of a context-free grammar.

Given a grammar G and parameters p, q, Flatten synchronizes the derivations of G
with a periodic index automaton of p·q states (see package automaton). Every
symbol X of G is lifted to non-terminals X⊕(i,j) for compatible pairs of states
(i,j), i.e. for j ∈ closure(i). Terminals of the flattened grammar are terminals
of G pinned to a single state, a(i), plus ϵ.

The productions of the flattened grammar are the union of five families:

    P1   A⊕(i,j) ➞ X1⊕(i,j) … Xk⊕(i,j)      for A ➞ X1…Xk in G
    P2   a⊕(i,j) ➞ ϵ⊕(i,i1) a(i1) ϵ⊕(i2,j)  for terminals a, i1 ∈ closure(i),
                                            i2 = loopSucc(i1)
    P31  ϵ⊕(i,j) ➞ ϵ(i) ϵ⊕(k,j)             for k = loopSucc(i)
    P32  ϵ⊕(i,i) ➞ ϵ
    P4   A⊕(i,entrySucc(i)) ➞ ϵ             for non-final entries i

Every pair of states occuring in a symbol of P1, P2, P31 and P4 is compatible.
P1 is a literal lift: all RHS symbols carry the same pair as the LHS. The ϵ⊕
family is the epsilon bridge: it advances the automaton one loop step at a time
without consuming any terminal of G.

The transform is a pure function of (p, q, G). Its cost is polynomial in p·q
and the size of G, but P2 enumerates 4-tuples of states.
*/
package flatten

import (
	"fmt"
	"sync"

	"github.com/npillmayer/flat/automaton"
	"github.com/npillmayer/flat/grammar"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/exp/maps"
)

// tracer traces with key 'flat.flatten'.
func tracer() tracing.Trace {
	return tracing.Select("flat.flatten")
}

// Option configures a flattening run.
type Option func(*config)

type config struct {
	parallel bool
}

// Parallel lets Flatten enumerate the production families concurrently.
// The resulting grammar is identical to a sequential run.
func Parallel(b bool) Option {
	return func(c *config) {
		c.parallel = b
	}
}

// Flatten creates the flattened grammar for parameters p, q and grammar G.
//
// Flatten returns an error if p or q are not positive, or if the flattened
// grammar is not a valid grammar. The latter happens for p·q = 1, where the
// start symbol S⊕(1,1) is not admissible. No partial grammar is ever returned.
func Flatten(p, q int, G *grammar.Grammar, opts ...Option) (*grammar.Grammar, error) {
	var conf config
	for _, opt := range opts {
		opt(&conf)
	}
	fa, err := automaton.New(p, q)
	if err != nil {
		return nil, err
	}
	t := &transform{fa: fa, G: G, states: fa.States()}
	tracer().Infof("flattening grammar %q with %v", G.Name(), fa)
	//
	N, T := t.alphabet()
	families := []family{
		{"P1", t.structuralLift},
		{"P2", t.terminalRealization},
		{"P31", t.bridgeRecursion},
		{"P32", t.bridgeBase},
		{"P4", t.entryTermination},
	}
	var P productionSet
	if conf.parallel {
		P, err = t.runParallel(families)
	} else {
		P, err = t.runSequential(families)
	}
	if err != nil {
		return nil, err
	}
	S := G.Start().Lift(1, fa.Size())
	name := fmt.Sprintf("%s[%d,%d]", G.Name(), p, q)
	F, err := grammar.New(name, N, T, S, P.productions())
	if err != nil {
		return nil, fmt.Errorf("cannot flatten grammar %q: %w", G.Name(), err)
	}
	tracer().Infof("flattened grammar %q has %d productions", name, F.Size())
	return F, nil
}

type transform struct {
	fa     *automaton.Automaton
	G      *grammar.Grammar
	states []int
}

type family struct {
	name string
	emit func(productionSet) error
}

func (t *transform) runSequential(families []family) (productionSet, error) {
	P := make(productionSet)
	for _, f := range families {
		n := len(P)
		if err := f.emit(P); err != nil {
			return nil, err
		}
		tracer().Debugf("family %s: %d new productions", f.name, len(P)-n)
	}
	return P, nil
}

// runParallel lets each family accumulate into its own local set. Sets are
// merged by union.
func (t *transform) runParallel(families []family) (productionSet, error) {
	local := make([]productionSet, len(families))
	errs := make([]error, len(families))
	var wg sync.WaitGroup
	for k, f := range families {
		wg.Add(1)
		go func(k int, f family) {
			defer wg.Done()
			local[k] = make(productionSet)
			errs[k] = f.emit(local[k])
		}(k, f)
	}
	wg.Wait()
	P := make(productionSet)
	for k, f := range families {
		if errs[k] != nil {
			return nil, errs[k]
		}
		tracer().Debugf("family %s: %d productions", f.name, len(local[k]))
		P.union(local[k])
	}
	return P, nil
}

// --- Alphabet ---------------------------------------------------------------

// alphabet returns the non-terminals and terminals of the flattened grammar.
//
// Non-terminals are X⊕(i,j) for every symbol X of G (non-terminals, terminals
// and ϵ) and every compatible (i,j), plus the bridge base cases ϵ⊕(i,i).
// Symbols used on a RHS of G without being declared are lifted as well, so
// that no production refers to an undeclared symbol.
//
// Terminals are a(i) for every terminal a of G and ϵ, and every state i,
// plus ϵ itself.
func (t *transform) alphabet() ([]grammar.Symbol, []grammar.Symbol) {
	nonterms := make(map[grammar.Symbol]struct{})
	terms := make(map[grammar.Symbol]struct{})
	for _, X := range t.sourceSymbols() {
		for _, i := range t.states {
			for _, j := range t.states {
				if t.fa.Compatible(i, j) {
					nonterms[X.Lift(i, j)] = struct{}{}
				}
			}
		}
	}
	for _, i := range t.states {
		nonterms[grammar.Epsilon.Lift(i, i)] = struct{}{}
	}
	for _, a := range t.sourceTerminals() {
		for _, i := range t.states {
			terms[a.At(i)] = struct{}{}
		}
	}
	terms[grammar.Epsilon] = struct{}{}
	tracer().Debugf("alphabet: %d non-terminals, %d terminals", len(nonterms), len(terms))
	return maps.Keys(nonterms), maps.Keys(terms)
}

// sourceSymbols returns all symbols of G to be lifted.
func (t *transform) sourceSymbols() []grammar.Symbol {
	syms := make(map[grammar.Symbol]struct{})
	for _, A := range t.G.Nonterminals() {
		syms[A] = struct{}{}
	}
	for _, a := range t.sourceTerminals() {
		syms[a] = struct{}{}
	}
	for _, p := range t.G.Productions() {
		for _, X := range p.RHS {
			syms[X] = struct{}{}
		}
	}
	return maps.Keys(syms)
}

// sourceTerminals returns the terminals of G including ϵ.
func (t *transform) sourceTerminals() []grammar.Symbol {
	terms := map[grammar.Symbol]struct{}{grammar.Epsilon: {}}
	for _, a := range t.G.Terminals() {
		terms[a] = struct{}{}
	}
	for _, p := range t.G.Productions() {
		for _, X := range p.RHS {
			if X.IsTerminal() {
				terms[X] = struct{}{}
			}
		}
	}
	return maps.Keys(terms)
}

// --- Production families ----------------------------------------------------

// P1: A⊕(i,j) ➞ X1⊕(i,j) … Xk⊕(i,j) for every production of G and every
// compatible (i,j).
func (t *transform) structuralLift(P productionSet) error {
	for _, prod := range t.G.Productions() {
		for _, i := range t.states {
			for _, j := range t.states {
				if !t.fa.Compatible(i, j) {
					continue
				}
				rhs := make([]grammar.Symbol, len(prod.RHS))
				for k, X := range prod.RHS {
					rhs[k] = X.Lift(i, j)
				}
				P.add(grammar.NewProduction(prod.LHS.Lift(i, j), rhs...))
			}
		}
	}
	return nil
}

// P2: a⊕(i,j) ➞ ϵ⊕(i,i1) a(i1) ϵ⊕(i2,j) for every terminal a of G and states
// with (i,j) compatible, i1 ∈ closure(i), i2 = loopSucc(i1) and (i2,j) compatible.
func (t *transform) terminalRealization(P productionSet) error {
	eps := grammar.Epsilon
	for _, a := range t.G.Terminals() {
		for _, i := range t.states {
			for _, j := range t.states {
				if !t.fa.Compatible(i, j) {
					continue
				}
				for _, i1 := range t.states {
					if !t.fa.InClosure(i, i1) {
						continue
					}
					i2 := t.fa.LoopSuccessor(i1)
					if !t.fa.Compatible(i2, j) {
						continue
					}
					P.add(grammar.NewProduction(a.Lift(i, j), eps.Lift(i, i1), a.At(i1), eps.Lift(i2, j)))
				}
			}
		}
	}
	return nil
}

// P31: ϵ⊕(i,j) ➞ ϵ(i) ϵ⊕(k,j) for k = loopSucc(i) and (k,j) compatible.
func (t *transform) bridgeRecursion(P productionSet) error {
	eps := grammar.Epsilon
	for _, i := range t.states {
		k := t.fa.LoopSuccessor(i)
		for _, j := range t.states {
			if t.fa.Compatible(k, j) {
				P.add(grammar.NewProduction(eps.Lift(i, j), eps.At(i), eps.Lift(k, j)))
			}
		}
	}
	return nil
}

// P32: ϵ⊕(i,i) ➞ ϵ for every state i.
func (t *transform) bridgeBase(P productionSet) error {
	for _, i := range t.states {
		P.add(grammar.NewProduction(grammar.Epsilon.Lift(i, i), grammar.Epsilon))
	}
	return nil
}

// P4: A⊕(i,entrySucc(i)) ➞ ϵ for every non-terminal A of G and every
// non-final entry i.
func (t *transform) entryTermination(P productionSet) error {
	for _, A := range t.G.Nonterminals() {
		for _, i := range t.fa.NonFinalEntries() {
			e, err := t.fa.EntrySuccessor(i)
			if err != nil {
				return fmt.Errorf("cannot terminate %s at block entry: %w", A, err)
			}
			P.add(grammar.NewProduction(A.Lift(i, e), grammar.Epsilon))
		}
	}
	return nil
}

// --- Production sets --------------------------------------------------------

// productionSet is a set of productions, keyed structurally.
type productionSet map[string]*grammar.Production

func (P productionSet) add(p *grammar.Production) {
	P[p.Key()] = p
}

func (P productionSet) union(other productionSet) {
	for k, p := range other {
		P[k] = p
	}
}

func (P productionSet) productions() []*grammar.Production {
	return maps.Values(P)
}
