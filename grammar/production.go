package grammar

import (
	"encoding/hex"
	"strings"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/utils"
)

// Production is a grammar rule
//
//    LHS ➞ X1 X2 … Xk
//
// An empty right hand side is represented as the one-symbol sequence [ϵ].
// Productions are immutable after creation and are compared structurally.
type Production struct {
	LHS Symbol
	RHS []Symbol
}

// NewProduction creates a production for a non-terminal. If no right hand
// side symbols are given, the production will be an epsilon production.
func NewProduction(lhs Symbol, rhs ...Symbol) *Production {
	p := &Production{LHS: lhs}
	if len(rhs) == 0 {
		p.RHS = []Symbol{Epsilon}
	} else {
		p.RHS = append([]Symbol(nil), rhs...) // do not alias the caller's slice
	}
	return p
}

// IsEmpty is true for epsilon productions.
func (p *Production) IsEmpty() bool {
	return len(p.RHS) == 1 && p.RHS[0] == Epsilon
}

// Len returns the number of RHS symbols, 0 for epsilon productions.
func (p *Production) Len() int {
	if p.IsEmpty() {
		return 0
	}
	return len(p.RHS)
}

// Equals compares two productions structurally.
func (p *Production) Equals(other *Production) bool {
	if p == other {
		return true
	}
	if p == nil || other == nil || p.LHS != other.LHS || len(p.RHS) != len(other.RHS) {
		return false
	}
	for i, X := range p.RHS {
		if X != other.RHS[i] {
			return false
		}
	}
	return true
}

// Key returns a structural hash of a production. Productions which are Equal
// have identical keys.
func (p *Production) Key() string {
	return hex.EncodeToString(structhash.Md5(*p, 1))
}

func (p *Production) String() string {
	var b strings.Builder
	b.WriteString(p.LHS.String())
	b.WriteString(" ➞")
	for _, X := range p.RHS {
		b.WriteString(" ")
		b.WriteString(X.String())
	}
	return b.String()
}

// CompareProductions orders productions by LHS, then lexicographically by RHS.
func CompareProductions(p1, p2 *Production) int {
	if c := CompareSymbols(p1.LHS, p2.LHS); c != 0 {
		return c
	}
	for i := 0; i < len(p1.RHS) && i < len(p2.RHS); i++ {
		if c := CompareSymbols(p1.RHS[i], p2.RHS[i]); c != 0 {
			return c
		}
	}
	return utils.IntComparator(len(p1.RHS), len(p2.RHS))
}
