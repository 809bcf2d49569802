/*
Package gdl reads grammars from a simple textual grammar definition language.

Rules are written one per non-terminal, with alternatives separated by '|' and
terminated by ';':

    # a nested grammar
    S  -> a S d | S' ;
    S' -> b S' c | ε ;

Identifiers starting with an uppercase letter are non-terminals, all other
identifiers are terminals. Identifiers may carry trailing primes. Terminals
consisting of other characters have to be quoted, e.g. "+". 'ε' and 'eps'
denote the empty string and have to stand alone in an alternative. An empty
alternative is an epsilon production as well.

The LHS of the first rule is the start symbol.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package gdl

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/npillmayer/flat"
	"github.com/npillmayer/flat/grammar"
	"github.com/npillmayer/flat/scanner"
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
)

// tracer traces with key 'flat.gdl'.
func tracer() tracing.Trace {
	return tracing.Select("flat.gdl")
}

// ErrSyntax is returned (wrapped) for malformed grammar definitions.
var ErrSyntax = errors.New("syntax error in grammar definition")

// Token types of the grammar definition language.
const (
	tokNonterm flat.TokType = iota + 1
	tokTerm
	tokEpsilon
	tokArrow
	tokBar
	tokSemicolon
)

var literals = []string{"->", "|", ";"}

var tokenIds = map[string]int{
	"->": int(tokArrow),
	"|":  int(tokBar),
	";":  int(tokSemicolon),
}

var tokenNames = map[flat.TokType]string{
	tokNonterm:   "non-terminal",
	tokTerm:      "terminal",
	tokEpsilon:   "ε",
	tokArrow:     "'->'",
	tokBar:       "'|'",
	tokSemicolon: "';'",
	scanner.EOF:  "end of input",
}

var gdlLexer *scanner.LMAdapter
var gdlErr error
var gdlOnce sync.Once

func lexer() (*scanner.LMAdapter, error) {
	gdlOnce.Do(func() {
		gdlLexer, gdlErr = scanner.NewLMAdapter(func(lexer *lexmachine.Lexer) {
			lexer.Add([]byte(`( |\t|\n|\r)+`), scanner.Skip)
			lexer.Add([]byte(`#[^\n]*`), scanner.Skip)
			lexer.Add([]byte(`ε|eps`), scanner.MakeToken("epsilon", int(tokEpsilon)))
			lexer.Add([]byte(`[A-Z][A-Za-z0-9_]*'*`), scanner.MakeToken("nonterm", int(tokNonterm)))
			lexer.Add([]byte(`[a-z0-9_][A-Za-z0-9_]*'*`), scanner.MakeToken("term", int(tokTerm)))
			lexer.Add([]byte(`"[^"]+"`), scanner.MakeToken("term", int(tokTerm)))
		}, literals, tokenIds)
	})
	return gdlLexer, gdlErr
}

// Parse reads a grammar definition and creates a grammar with the given name.
func Parse(name, src string) (*grammar.Grammar, error) {
	lm, err := lexer()
	if err != nil {
		return nil, fmt.Errorf("cannot create grammar scanner: %w", err)
	}
	sc, err := lm.Scanner(src)
	if err != nil {
		return nil, err
	}
	p := &parser{
		b:   grammar.NewBuilder(name),
		tok: scanner.Peeking(sc),
	}
	sc.SetErrorHandler(func(e error) {
		if p.err == nil {
			p.err = fmt.Errorf("%w: %v", ErrSyntax, e)
		}
	})
	if err := p.parse(); err != nil {
		return nil, err
	}
	g, err := p.b.Grammar()
	if err != nil {
		return nil, err
	}
	tracer().Infof("parsed grammar %q with %d productions", name, g.Size())
	return g, nil
}

type parser struct {
	b   *grammar.Builder
	tok *scanner.PeekTokenizer
	err error // first scanner error
}

// grammar ::= rule { rule } EOF
func (p *parser) parse() error {
	if p.tok.Peek().TokType() == scanner.EOF {
		return p.check(fmt.Errorf("%w: no rules", ErrSyntax))
	}
	for p.tok.Peek().TokType() != scanner.EOF {
		if err := p.rule(); err != nil {
			return p.check(err)
		}
	}
	return p.check(nil)
}

// scanner errors take precedence, as they are the cause of follow-up errors.
func (p *parser) check(err error) error {
	if p.err != nil {
		return p.err
	}
	return err
}

// rule ::= NONTERM '->' alternative { '|' alternative } ';'
func (p *parser) rule() error {
	lhs, err := p.expect(tokNonterm)
	if err != nil {
		return err
	}
	if _, err = p.expect(tokArrow); err != nil {
		return err
	}
	for {
		if err = p.alternative(lhs.Lexeme()); err != nil {
			return err
		}
		next := p.tok.NextToken()
		switch next.TokType() {
		case tokBar:
			continue
		case tokSemicolon:
			return nil
		default:
			return p.unexpected(next, tokBar, tokSemicolon)
		}
	}
}

// alternative ::= ε | { NONTERM | TERM }
func (p *parser) alternative(lhs string) error {
	r := p.b.LHS(lhs)
	if p.tok.Peek().TokType() == tokEpsilon {
		p.tok.NextToken()
		r.Epsilon()
		return nil
	}
	for {
		next := p.tok.Peek()
		switch next.TokType() {
		case tokNonterm:
			r.N(next.Lexeme())
		case tokTerm:
			r.T(strings.Trim(next.Lexeme(), `"`))
		case tokEpsilon:
			return fmt.Errorf("%w at %s: ε has to stand alone", ErrSyntax, next.Span())
		default:
			prod := r.End()
			tracer().Debugf("rule %v", prod)
			return nil
		}
		p.tok.NextToken()
	}
}

func (p *parser) expect(typ flat.TokType) (flat.Token, error) {
	tok := p.tok.NextToken()
	if tok.TokType() != typ {
		return tok, p.unexpected(tok, typ)
	}
	return tok, nil
}

func (p *parser) unexpected(tok flat.Token, expected ...flat.TokType) error {
	names := make([]string, len(expected))
	for i, typ := range expected {
		names[i] = tokenNames[typ]
	}
	found := tokenNames[tok.TokType()]
	if tok.Lexeme() != "" {
		found = fmt.Sprintf("%s %q", found, tok.Lexeme())
	}
	return fmt.Errorf("%w at %s: expected %s, found %s", ErrSyntax, tok.Span(),
		strings.Join(names, " or "), found)
}
