/*
Package lr0 constructs the LR(0) characteristic finite state machine (CFSM)
for a grammar, together with GOTO and LR(0) ACTION tables.

Clients create a grammar G and a table generator for it:

    lrgen := lr0.NewTableGenerator(g)
    lrgen.CreateTables()
    if lrgen.HasConflicts {
        …  // grammar is not LR(0)
    }

The CFSM may be exported to Graphviz for inspection:

    lrgen.CFSM().CFSM2GraphViz(w)

Tables are stored as sparse matrices (see package sparse). ACTION entries
may carry two values, representing shift/reduce- or reduce/reduce-conflicts.
*/
package lr0

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'flat.lr0'.
func tracer() tracing.Trace {
	return tracing.Select("flat.lr0")
}
