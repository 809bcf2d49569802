package scanner

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var letterInputs = []string{
	"a",
	"aabbc",
	"ab ba",
	"",
}

var letterCounts = []int{1, 5, 4, 0}

func TestLetters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.scanner")
	defer teardown()
	//
	for i, input := range letterInputs {
		scan, err := Letters(input)
		if err != nil {
			t.Fatal(err)
		}
		count := 0
		for token := scan.NextToken(); token.TokType() != EOF; token = scan.NextToken() {
			if len(token.Lexeme()) != 1 {
				t.Errorf("expected single letter token, got %q", token.Lexeme())
			}
			count++
		}
		if count != letterCounts[i] {
			t.Errorf("expected token count for #%d to be %d, is %d", i, letterCounts[i], count)
		}
	}
}

func TestFields(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.scanner")
	defer teardown()
	//
	scan, err := Fields("id + id\t*  num")
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{"id", "+", "id", "*", "num"}
	for n, lexeme := range expected {
		token := scan.NextToken()
		if token.TokType() != Ident || token.Lexeme() != lexeme {
			t.Errorf("token #%d: expected %q, got %q/%d", n, lexeme, token.Lexeme(), token.TokType())
		}
	}
	if token := scan.NextToken(); token.TokType() != EOF {
		t.Errorf("expected EOF, got %q", token.Lexeme())
	}
}

func TestPeek(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flat.scanner")
	defer teardown()
	//
	scan, err := Letters("xy")
	if err != nil {
		t.Fatal(err)
	}
	pt := Peeking(scan)
	if pt.Peek().Lexeme() != "x" || pt.Peek().Lexeme() != "x" {
		t.Errorf("peek should not consume input")
	}
	if pt.Consumed() != 0 {
		t.Errorf("expected nothing consumed, have %d", pt.Consumed())
	}
	if tok := pt.NextToken(); tok.Lexeme() != "x" {
		t.Errorf("expected x, got %q", tok.Lexeme())
	}
	if tok := pt.NextToken(); tok.Lexeme() != "y" {
		t.Errorf("expected y, got %q", tok.Lexeme())
	}
	if tok := pt.NextToken(); tok.TokType() != EOF {
		t.Errorf("expected EOF, got %q", tok.Lexeme())
	}
	if pt.Consumed() != 2 {
		t.Errorf("expected 2 tokens consumed, have %d", pt.Consumed())
	}
}
