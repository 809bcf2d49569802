/*
Package scanner defines an interface for tokenizers to be used with the
recognizer of package grammar.

Tokenizers are backed by lexmachine. Two kinds of input words are supported:
words where every character is a terminal ("aabbc"), and words of
whitespace-separated terminal names ("id + id").

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package scanner

import (
	"github.com/npillmayer/flat"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'flat.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("flat.scanner")
}

// Token types produced by the tokenizers of this package. Token types are
// compatible with text/scanner.
const (
	EOF   flat.TokType = -(iota + 1)
	Ident              // a terminal name
)

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() flat.Token
	SetErrorHandler(func(error))
}

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: %v", e)
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used by the tokenizers
// of this package.
type DefaultToken struct {
	kind   flat.TokType
	lexeme string
	Val    interface{}
	span   flat.Span
}

// MakeDefaultToken creates a token.
func MakeDefaultToken(typ flat.TokType, lexeme string, span flat.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

func (t DefaultToken) TokType() flat.TokType {
	return t.kind
}

func (t DefaultToken) Value() interface{} {
	return t.Val
}

func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

func (t DefaultToken) Span() flat.Span {
	return t.span
}

// --- Peeking ---------------------------------------------------------------

// PeekTokenizer wraps a tokenizer and allows to look at the next token
// without consuming it.
type PeekTokenizer struct {
	Tokenizer
	buf      []flat.Token
	consumed uint64
}

// Peeking wraps a tokenizer with a peek buffer.
func Peeking(t Tokenizer) *PeekTokenizer {
	return &PeekTokenizer{Tokenizer: t}
}

// Peek returns the next token without consuming it.
func (pt *PeekTokenizer) Peek() flat.Token {
	if len(pt.buf) == 0 {
		pt.buf = append(pt.buf, pt.Tokenizer.NextToken())
	}
	return pt.buf[0]
}

// NextToken is part of the Tokenizer interface.
func (pt *PeekTokenizer) NextToken() flat.Token {
	var tok flat.Token
	if len(pt.buf) > 0 {
		tok = pt.buf[0]
		pt.buf = pt.buf[1:]
	} else {
		tok = pt.Tokenizer.NextToken()
	}
	if tok.TokType() != EOF {
		pt.consumed++
	}
	return tok
}

// Consumed returns the number of non-EOF tokens consumed so far.
func (pt *PeekTokenizer) Consumed() uint64 {
	return pt.consumed
}
