package grammar

import (
	"fmt"
	"strings"
)

// Parikh translates the production multiplicities of g into a linear
// arithmetic formula. Productions are numbered p1…pn in the order of
// g.Productions(); y(pk) stands for the number of applications of
// production pk, xa for the number of occurences of terminal a.
//
// For every non-terminal N there is a balance clause
//
//    (M_G(N)+c1*y(p1)+…=0)
//
// listing the productions with N on their RHS (c = number of occurences),
// and for every terminal a there is a clause
//
//    xa=c1*y(p1)+…+cn*y(pn)
//
// All clauses are joined by " AND ".
func Parikh(g *Grammar) string {
	var formula []string
	prods := g.Productions()
	for _, A := range g.Nonterminals() {
		var clause strings.Builder
		fmt.Fprintf(&clause, "M_G(%s)", A)
		for k, p := range prods {
			if c := count(p, A); c > 0 {
				fmt.Fprintf(&clause, "+%d*y(p%d)", c, k+1)
			}
		}
		formula = append(formula, "("+clause.String()+"=0)")
	}
	for _, a := range g.Terminals() {
		sums := make([]string, len(prods))
		for k, p := range prods {
			sums[k] = fmt.Sprintf("%d*y(p%d)", count(p, a), k+1)
		}
		formula = append(formula, fmt.Sprintf("x%s=%s", a, strings.Join(sums, "+")))
	}
	return strings.Join(formula, " AND ")
}

// count returns the number of occurences of X on the RHS of p.
func count(p *Production, X Symbol) int {
	c := 0
	for _, Y := range p.RHS {
		if Y == X {
			c++
		}
	}
	return c
}
