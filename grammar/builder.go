package grammar

import (
	"fmt"
)

// Builder is a helper to construct grammars rule by rule. Create one with
// NewBuilder, then add rules:
//
//    b.LHS("A").N("B").T("x").End()     // A ➞ B x
//    b.LHS("B").Epsilon()               // B ➞ ϵ
//
// The first LHS will be the start symbol, unless set with Start(…).
type Builder struct {
	name         string
	start        string
	nonterminals []Symbol
	terminals    []Symbol
	seen         map[Symbol]bool
	prods        []*Production
	err          error
}

// NewBuilder creates an empty grammar builder.
func NewBuilder(name string) *Builder {
	return &Builder{
		name: name,
		seen: make(map[Symbol]bool),
	}
}

// Start sets the start symbol of the grammar.
func (b *Builder) Start(name string) *Builder {
	b.start = name
	return b
}

// LHS starts a new rule for non-terminal name.
func (b *Builder) LHS(name string) *RuleBuilder {
	A := b.nonterminal(name)
	if b.start == "" {
		b.start = name
	}
	return &RuleBuilder{b: b, lhs: A}
}

// Grammar returns the grammar built so far. An error will be returned if the
// grammar is invalid, i.e. violates the invariants of grammars (see New).
func (b *Builder) Grammar() (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.start == "" {
		return nil, fmt.Errorf("%w %q: grammar has no rules", ErrConstruction, b.name)
	}
	return New(b.name, b.nonterminals, b.terminals, N(b.start), b.prods)
}

func (b *Builder) nonterminal(name string) Symbol {
	A := N(name)
	if !b.seen[A] {
		b.seen[A] = true
		b.nonterminals = append(b.nonterminals, A)
	}
	return A
}

func (b *Builder) terminal(name string) Symbol {
	a := T(name)
	if a == Epsilon || a == EOF {
		b.err = fmt.Errorf("%w %q: reserved symbol %s used as terminal", ErrConstruction, b.name, a)
		return a
	}
	if !b.seen[a] {
		b.seen[a] = true
		b.terminals = append(b.terminals, a)
	}
	return a
}

// RuleBuilder collects the RHS symbols of a single rule.
type RuleBuilder struct {
	b   *Builder
	lhs Symbol
	rhs []Symbol
}

// N appends a non-terminal to the RHS.
func (r *RuleBuilder) N(name string) *RuleBuilder {
	r.rhs = append(r.rhs, r.b.nonterminal(name))
	return r
}

// T appends a terminal to the RHS.
func (r *RuleBuilder) T(name string) *RuleBuilder {
	r.rhs = append(r.rhs, r.b.terminal(name))
	return r
}

// End completes the rule. A rule without any RHS symbols will be an
// epsilon production.
func (r *RuleBuilder) End() *Production {
	p := NewProduction(r.lhs, r.rhs...)
	r.b.prods = append(r.b.prods, p)
	return p
}

// Epsilon completes the rule as an epsilon production. RHS symbols
// appended before are discarded.
func (r *RuleBuilder) Epsilon() *Production {
	r.rhs = nil
	return r.End()
}
