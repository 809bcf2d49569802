package scanner

import (
	"fmt"
	"strings"
	"sync"

	"github.com/npillmayer/flat"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives an initializer
// for the lexer and a list of literals ('|', ';', …) together with a map for
// translating literals to their token types.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, tokenIds map[string]int) (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	init(adapter.Lexer)
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(lit, tokenIds[lit]))
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{scanner: s, Error: logError}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
}

var _ Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// NextToken is part of the Tokenizer interface. Unconsumable input is
// reported to the error handler and skipped.
func (lms *LMScanner) NextToken() flat.Token {
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		lms.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			lms.scanner.TC = ui.FailTC
		}
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		pos := uint64(lms.scanner.TC)
		return MakeDefaultToken(EOF, "", flat.Span{pos, pos})
	}
	token := tok.(*lexmachine.Token)
	tracer().Debugf("token %d | %q", token.Type, token.Lexeme)
	return DefaultToken{
		kind:   flat.TokType(token.Type),
		lexeme: string(token.Lexeme),
		Val:    token.Value,
		span:   flat.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
	}
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// --- Word tokenizers -------------------------------------------------------

var letterLexer, fieldLexer *LMAdapter
var letterErr, fieldErr error
var letterOnce, fieldOnce sync.Once

// Letters creates a tokenizer for input words where every (non-space) byte
// is a terminal, e.g. "aabbc". Only single-byte characters are supported.
func Letters(input string) (*LMScanner, error) {
	letterOnce.Do(func() {
		letterLexer, letterErr = NewLMAdapter(func(lexer *lexmachine.Lexer) {
			lexer.Add([]byte(`( |\t|\n|\r)+`), Skip)
			lexer.Add([]byte(`[^ \t\n\r]`), MakeToken("letter", int(Ident)))
		}, nil, nil)
	})
	if letterErr != nil {
		return nil, fmt.Errorf("cannot create letter scanner: %w", letterErr)
	}
	return letterLexer.Scanner(input)
}

// Fields creates a tokenizer for input words consisting of whitespace
// separated terminal names, e.g. "id + id".
func Fields(input string) (*LMScanner, error) {
	fieldOnce.Do(func() {
		fieldLexer, fieldErr = NewLMAdapter(func(lexer *lexmachine.Lexer) {
			lexer.Add([]byte(`( |\t|\n|\r)+`), Skip)
			lexer.Add([]byte(`[^ \t\n\r]+`), MakeToken("field", int(Ident)))
		}, nil, nil)
	})
	if fieldErr != nil {
		return nil, fmt.Errorf("cannot create field scanner: %w", fieldErr)
	}
	return fieldLexer.Scanner(input)
}
