package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/flat"
	"github.com/npillmayer/flat/scanner"
)

// ErrNotRecognized is returned (wrapped) for input words which are not
// recognized by a grammar.
var ErrNotRecognized = errors.New("input not recognized")

// StartSymbol is the LHS of the pseudo production S' ➞ S $ used by the recognizer.
var StartSymbol = N("<START>")

// Recognize runs a simple predictive recognizer over the tokens of tok.
// For a non-terminal A and lookahead a it selects the first production of A
// having a in its (shallow) FIRST-set, otherwise the first one having ϵ in it.
// Terminals are matched against token lexemes.
//
// The recognizer is not a complete LL(1) parser: there is no FOLLOW-set
// analysis and it does not backtrack. On success it returns the derivation
// in bracketed form, e.g.
//
//    <START>(S(a S(S'(b S'(ϵ)c))d)$)
//
func (g *Grammar) Recognize(tok scanner.Tokenizer) (string, error) {
	r := &recognizer{
		g:     g,
		input: scanner.Peeking(tok),
		path:  make(map[Symbol]uint64),
	}
	start := NewProduction(StartSymbol, g.start, EOF)
	if err := r.derive(start); err != nil {
		tracer().Infof("recognizer: %v", err)
		return r.out.String(), err
	}
	return r.out.String(), nil
}

type recognizer struct {
	g     *Grammar
	input *scanner.PeekTokenizer
	out   strings.Builder
	path  map[Symbol]uint64 // non-terminals under expansion → input position
}

func (r *recognizer) derive(p *Production) error {
	tracer().Debugf("recognizer: expand %v", p)
	r.out.WriteString(p.LHS.String())
	r.out.WriteString("(")
	for _, X := range p.RHS {
		switch {
		case X == Epsilon:
			r.out.WriteString(X.String())
		case X == EOF:
			if t := r.input.NextToken(); t.TokType() != scanner.EOF {
				return fmt.Errorf("%w: expected end of input but found %q", ErrNotRecognized, t.Lexeme())
			}
			r.out.WriteString(X.String())
		case X.IsTerminal():
			t := r.input.NextToken()
			if t.TokType() == scanner.EOF {
				return fmt.Errorf("%w: expected %q but reached end of input", ErrNotRecognized, X)
			}
			if t.Lexeme() != X.Name {
				return fmt.Errorf("%w: expected %q but found %q", ErrNotRecognized, X, t.Lexeme())
			}
			r.out.WriteString(t.Lexeme())
		default:
			pos := r.input.Consumed()
			if at, ok := r.path[X]; ok && at == pos {
				return fmt.Errorf("%w: left recursion on %s at position %d", ErrNotRecognized, X, pos)
			}
			la := lookahead(r.input.Peek())
			q := r.g.choose(X, la)
			if q == nil {
				return fmt.Errorf("%w: no production for %s with lookahead %s", ErrNotRecognized, X, la)
			}
			outer, nested := r.path[X]
			r.path[X] = pos
			if err := r.derive(q); err != nil {
				return err
			}
			if nested {
				r.path[X] = outer
			} else {
				delete(r.path, X)
			}
		}
	}
	r.out.WriteString(")")
	return nil
}

// choose selects a production of A for lookahead a.
func (g *Grammar) choose(A Symbol, a Symbol) *Production {
	for _, p := range g.ProductionsOf(A) {
		if contains(g.FirstOfProduction(p), a) {
			return p
		}
	}
	for _, p := range g.ProductionsOf(A) {
		if contains(g.FirstOfProduction(p), Epsilon) {
			return p
		}
	}
	return nil
}

func lookahead(t flat.Token) Symbol {
	if t.TokType() == scanner.EOF {
		return EOF
	}
	return T(t.Lexeme())
}

func contains(syms []Symbol, a Symbol) bool {
	for _, X := range syms {
		if X == a {
			return true
		}
	}
	return false
}
