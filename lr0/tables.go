package lr0

import (
	"fmt"
	"io"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/flat/grammar"
	"github.com/npillmayer/flat/lr0/sparse"
)

// Actions for parser action tables. Non-negative actions denote a reduce
// with the production of that serial number.
const (
	ShiftAction  = -1
	AcceptAction = -2
)

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing

// Compute the closure of an item set: for every item A ➞ … • B …, add
// all items B ➞ • … until nothing changes.
func (lrgen *TableGenerator) closureSet(S *treeset.Set) *treeset.Set {
	C := newItemSet()
	C.Add(S.Values()...)
	worklist := S.Values()
	for len(worklist) > 0 {
		item := asItem(worklist[len(worklist)-1])
		worklist = worklist[:len(worklist)-1]
		B, ok := item.PeekSymbol()
		if !ok || B.IsTerminal() {
			continue
		}
		for _, p := range lrgen.g.ProductionsOf(B) {
			i := lrgen.startItem(p)
			if !C.Contains(i) {
				C.Add(i)
				worklist = append(worklist, i)
			}
		}
	}
	return C
}

func (lrgen *TableGenerator) gotoSet(closure *treeset.Set, A grammar.Symbol) *treeset.Set {
	// for every item in closure C
	// if item in C:  N -> ... *A ...
	//     advance N -> ... A * ...
	gotoset := newItemSet()
	for _, x := range closure.Values() {
		i := asItem(x)
		if B, ok := i.PeekSymbol(); ok && B == A {
			ii, _ := i.Advance()
			gotoset.Add(ii)
		}
	}
	return gotoset
}

func (lrgen *TableGenerator) gotoSetClosure(i *treeset.Set, A grammar.Symbol) *treeset.Set {
	gotoset := lrgen.gotoSet(i, A)
	if gotoset.Empty() {
		return gotoset
	}
	gclosure := lrgen.closureSet(gotoset)
	tracer().Debugf("goto(%s) --%s--> %s", itemSetString(i), A, itemSetString(gclosure))
	return gclosure
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     uint         // serial ID of this state
	items  *treeset.Set // configuration items within this state
	Accept bool         // is this an accepting state?
}

// CFSM edge between 2 states, directed and labeled with a grammar symbol
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label grammar.Symbol
}

// Items returns the (closed) item set of a state.
func (s *CFSMState) Items() []Item {
	items := make([]Item, 0, s.items.Size())
	for _, x := range s.items.Values() {
		items = append(items, asItem(x))
	}
	return items
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	for _, item := range s.Items() {
		tracer().Debugf("    %v", item)
	}
	tracer().Debugf("-------------------------")
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

func (s *CFSMState) containsCompletedStartRule() bool {
	for _, item := range s.Items() {
		if item.serial == 0 && item.IsComplete() {
			return true
		}
	}
	return false
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(int(c1.ID), int(c2.ID))
}

// CFSM is the characteristic finite state machine for a grammar, i.e. the
// LR(0) state diagram. Will be constructed by a TableGenerator.
type CFSM struct {
	g       *grammar.Grammar      // this CFSM is for grammar g
	states  *treeset.Set          // all the states
	index   map[string]*CFSMState // states by item set
	edges   *arraylist.List       // all the edges between states
	S0      *CFSMState            // start state
	cfsmIds uint                  // serial IDs for CFSM states
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *grammar.Grammar) *CFSM {
	return &CFSM{
		g:      g,
		states: treeset.NewWith(stateComparator),
		index:  make(map[string]*CFSMState),
		edges:  arraylist.New(),
	}
}

// Add a state to the CFSM, if no state with an equal item set is present.
// Returns the state and true if it is a new one.
func (c *CFSM) addState(iset *treeset.Set) (*CFSMState, bool) {
	key := itemSetKey(iset)
	if s, ok := c.index[key]; ok {
		return s, false
	}
	s := &CFSMState{ID: c.cfsmIds, items: iset}
	c.cfsmIds++
	c.states.Add(s)
	c.index[key] = s
	return s, true
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym grammar.Symbol) {
	c.edges.Add(&cfsmEdge{from: s0, to: s1, label: sym})
}

func (c *CFSM) allEdges(s *CFSMState) []*cfsmEdge {
	it := c.edges.Iterator()
	r := make([]*cfsmEdge, 0, 2)
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if e.from == s {
			r = append(r, e)
		}
	}
	return r
}

// States returns all states, ordered by ID.
func (c *CFSM) States() []*CFSMState {
	states := make([]*CFSMState, 0, c.states.Size())
	for _, x := range c.states.Values() {
		states = append(states, x.(*CFSMState))
	}
	return states
}

// Transitions returns the outgoing transitions of a state.
func (c *CFSM) Transitions(s *CFSMState) map[grammar.Symbol]*CFSMState {
	t := make(map[grammar.Symbol]*CFSMState)
	for _, e := range c.allEdges(s) {
		t[e.label] = e.to
	}
	return t
}

// EdgeCount returns the number of transitions of the CFSM.
func (c *CFSM) EdgeCount() int {
	return c.edges.Size()
}

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) CFSM2GraphViz(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range c.States() {
		items := make([]string, 0, s.items.Size())
		for _, item := range s.Items() {
			items = append(items, dotEscaper.Replace(item.String()))
		}
		fmt.Fprintf(&b, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, strings.Join(items, "\\l")+"\\l")
	}
	it := c.edges.Iterator()
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		fmt.Fprintf(&b, "s%03d -> s%03d [label=\"%s\"]\n", e.from.ID, e.to.ID,
			dotEscaper.Replace(e.label.String()))
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

var dotEscaper = strings.NewReplacer(`"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`)

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

// === Table Generator =======================================================

// TableGenerator is a generator object to construct LR(0) parser tables.
// Clients create a grammar G and a table generator for it.
// TableGenerator.CreateTables() constructs the CFSM and parser tables.
//
// The grammar is augmented with a start production S' ➞ S, which has
// serial number 0. Productions of G are numbered from 1 in the order of
// G.Productions().
type TableGenerator struct {
	g            *grammar.Grammar
	rules        []*grammar.Production // productions by serial number
	serials      map[*grammar.Production]int
	columns      map[grammar.Symbol]int // column index of symbols in tables
	dfa          *CFSM
	gototable    *Table
	actiontable  *Table
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a grammar.
func NewTableGenerator(g *grammar.Grammar) *TableGenerator {
	lrgen := &TableGenerator{
		g:       g,
		serials: make(map[*grammar.Production]int),
		columns: make(map[grammar.Symbol]int),
	}
	start := grammar.NewProduction(augmentedStart(g), g.Start())
	lrgen.rules = append(lrgen.rules, start)
	lrgen.serials[start] = 0
	for _, p := range g.Productions() {
		lrgen.serials[p] = len(lrgen.rules)
		lrgen.rules = append(lrgen.rules, p)
	}
	g.EachSymbol(func(A grammar.Symbol) interface{} {
		lrgen.columns[A] = len(lrgen.columns)
		return nil
	})
	return lrgen
}

// augmentedStart returns S' for start symbol S, adding primes until the
// symbol is not in use by the grammar.
func augmentedStart(g *grammar.Grammar) grammar.Symbol {
	name := g.Start().Name + "'"
	for g.HasNonterminal(grammar.N(name)) || g.HasTerminal(grammar.T(name)) {
		name += "'"
	}
	return grammar.N(name)
}

func (lrgen *TableGenerator) startItem(p *grammar.Production) Item {
	return Item{prod: p, serial: lrgen.serials[p], dot: 0}
}

// Rule returns the production with a given serial number. Serial number 0 is
// the augmented start production S' ➞ S.
func (lrgen *TableGenerator) Rule(serial int) *grammar.Production {
	if serial < 0 || serial >= len(lrgen.rules) {
		return nil
	}
	return lrgen.rules[serial]
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// The CFSM will be created, if it has not been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = lrgen.buildCFSM()
	}
	return lrgen.dfa
}

// GotoTable returns the GOTO table. The tables have to be built by calling
// CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *Table {
	if lrgen.gototable == nil {
		tracer().Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the LR(0) ACTION table. The tables have to be built by
// calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *Table {
	if lrgen.actiontable == nil {
		tracer().Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// CreateTables creates the CFSM, the GOTO table and the LR(0) ACTION table.
func (lrgen *TableGenerator) CreateTables() {
	lrgen.CFSM()
	lrgen.gototable = lrgen.BuildGotoTable()
	lrgen.actiontable, lrgen.HasConflicts = lrgen.BuildLR0ActionTable()
}

// AcceptingStates returns all states of the CFSM with a transition to an
// accepting state.
func (lrgen *TableGenerator) AcceptingStates() []uint {
	dfa := lrgen.CFSM()
	acc := make([]uint, 0, 3)
	seen := make(map[uint]bool)
	it := dfa.edges.Iterator()
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if e.to.Accept && !seen[e.from.ID] {
			seen[e.from.ID] = true
			acc = append(acc, e.from.ID)
		}
	}
	return acc
}

// Construct the characteristic finite state machine CFSM for a grammar.
func (lrgen *TableGenerator) buildCFSM() *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	cfsm := emptyCFSM(lrgen.g)
	S := newItemSet()
	S.Add(lrgen.startItem(lrgen.rules[0]))
	cfsm.S0, _ = cfsm.addState(lrgen.closureSet(S))
	cfsm.S0.Dump()
	worklist := []*CFSMState{cfsm.S0}
	for len(worklist) > 0 {
		s := worklist[0]
		worklist = worklist[1:]
		lrgen.g.EachSymbol(func(A grammar.Symbol) interface{} {
			gotoset := lrgen.gotoSetClosure(s.items, A)
			if gotoset.Empty() {
				return nil
			}
			snew, isNew := cfsm.addState(gotoset)
			if isNew {
				snew.Accept = snew.containsCompletedStartRule()
				worklist = append(worklist, snew)
				snew.Dump()
			}
			cfsm.addEdge(s, snew, A)
			return nil
		})
	}
	tracer().Infof("CFSM for %q has %d states and %d edges", lrgen.g.Name(), cfsm.states.Size(), cfsm.edges.Size())
	return cfsm
}

// ===========================================================================

// BuildGotoTable builds the GOTO table. This is normally not called directly, but rather
// via CreateTables().
func (lrgen *TableGenerator) BuildGotoTable() *Table {
	dfa := lrgen.CFSM()
	statescnt := dfa.states.Size()
	tracer().Infof("GOTO table of size %d x %d", statescnt, len(lrgen.columns))
	gototable := &Table{
		matrix:  sparse.NewIntMatrix(statescnt, len(lrgen.columns), sparse.DefaultNullValue),
		columns: lrgen.columns,
	}
	for _, state := range dfa.States() {
		for _, e := range dfa.allEdges(state) {
			gototable.matrix.Set(int(state.ID), lrgen.columns[e.label], int32(e.to.ID))
		}
	}
	return gototable
}

// BuildLR0ActionTable contructs the LR(0) ACTION table. The table has a single
// column: an LR(0) parser decides without lookahead. An entry may consist of up
// to 2 actions, representing shift/reduce- or reduce/reduce-conflicts.
//
// Shift entries are represented as ShiftAction. Reduce entries are encoded as the
// serial number of the production to reduce. Reducing the start production is
// represented as AcceptAction.
func (lrgen *TableGenerator) BuildLR0ActionTable() (*Table, bool) {
	dfa := lrgen.CFSM()
	statescnt := dfa.states.Size()
	tracer().Infof("ACTION.0 table of size %d x 1", statescnt)
	actions := &Table{
		matrix: sparse.NewIntMatrix(statescnt, 1, sparse.DefaultNullValue),
	}
	hasConflicts := false
	for _, state := range dfa.States() {
		shifted := false
		for _, item := range state.Items() {
			var action int32
			if A, ok := item.PeekSymbol(); ok {
				if !A.IsTerminal() || shifted {
					continue // relax, double shift
				}
				action, shifted = ShiftAction, true
			} else if item.serial == 0 {
				action = AcceptAction
			} else {
				action = int32(item.serial)
			}
			if a1 := actions.matrix.Value(int(state.ID), 0); a1 != actions.NullValue() {
				tracer().Debugf("state %d: conflict %s / %s", state.ID, valstring(a1, actions), valstring(action, actions))
				hasConflicts = true
			}
			actions.matrix.Add(int(state.ID), 0, action)
		}
	}
	return actions, hasConflicts
}

// Table is a parser table, with rows for CFSM states and columns for
// grammar symbols.
type Table struct {
	matrix  *sparse.IntMatrix
	columns map[grammar.Symbol]int // nil for LR(0) ACTION tables
}

// NullValue is the value of empty table entries.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Value returns the primary entry for a state and a symbol. For LR(0) ACTION
// tables the symbol is ignored.
func (t *Table) Value(state uint, A grammar.Symbol) int32 {
	v, _ := t.Values(state, A)
	return v
}

// Values returns both entries for a state and a symbol. For LR(0) ACTION
// tables the symbol is ignored.
func (t *Table) Values(state uint, A grammar.Symbol) (int32, int32) {
	col := 0
	if t.columns != nil {
		c, ok := t.columns[A]
		if !ok {
			return t.NullValue(), t.NullValue()
		}
		col = c
	}
	return t.matrix.Values(int(state), col)
}

// ValueCount returns the number of table positions set.
func (t *Table) ValueCount() int {
	return t.matrix.ValueCount()
}

// valstring is a short helper to stringify an action table entry.
func valstring(v int32, m *Table) string {
	if v == m.NullValue() {
		return "<none>"
	} else if v == AcceptAction {
		return "<accept>"
	} else if v == ShiftAction {
		return "<shift>"
	}
	return fmt.Sprintf("<reduce %d>", v)
}

// ActionString is a helper to stringify the ACTION entries of a state.
func ActionString(actions *Table, state uint) string {
	a1, a2 := actions.Values(state, grammar.Symbol{})
	if a2 == actions.NullValue() {
		return valstring(a1, actions)
	}
	return valstring(a1, actions) + "/" + valstring(a2, actions)
}
