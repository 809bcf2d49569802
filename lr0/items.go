package lr0

import (
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/flat/grammar"
)

// Item is an LR(0) item, i.e. a production with a dot position:
//
//    A ➞ X1 … • Xi … Xk
//
// Epsilon productions have a single item, which is complete.
type Item struct {
	prod   *grammar.Production
	serial int // serial number of prod within its grammar
	dot    int
}

// Production returns the production of an item.
func (i Item) Production() *grammar.Production {
	return i.prod
}

// Dot returns the dot position.
func (i Item) Dot() int {
	return i.dot
}

// PeekSymbol returns the symbol after the dot. It returns false for
// complete items.
func (i Item) PeekSymbol() (grammar.Symbol, bool) {
	if i.dot >= i.prod.Len() {
		return grammar.Symbol{}, false
	}
	return i.prod.RHS[i.dot], true
}

// PrevSymbol returns the symbol before the dot, if any.
func (i Item) PrevSymbol() (grammar.Symbol, bool) {
	if i.dot == 0 || i.dot > i.prod.Len() {
		return grammar.Symbol{}, false
	}
	return i.prod.RHS[i.dot-1], true
}

// Advance returns the item with the dot moved one position to the right.
// It returns false for complete items.
func (i Item) Advance() (Item, bool) {
	if i.IsComplete() {
		return i, false
	}
	i.dot++
	return i, true
}

// IsComplete is true if the dot is behind the complete RHS.
func (i Item) IsComplete() bool {
	return i.dot >= i.prod.Len()
}

// Prefix returns the RHS symbols before the dot.
func (i Item) Prefix() []grammar.Symbol {
	if i.prod.IsEmpty() {
		return nil
	}
	return i.prod.RHS[:i.dot]
}

func (i Item) String() string {
	var b strings.Builder
	b.WriteString(i.prod.LHS.String())
	b.WriteString(" ➞")
	if !i.prod.IsEmpty() {
		for k, X := range i.prod.RHS {
			if k == i.dot {
				b.WriteString(" •")
			}
			b.WriteString(" ")
			b.WriteString(X.String())
		}
	}
	if i.IsComplete() {
		b.WriteString(" •")
	}
	return b.String()
}

// We need this for sets of items. It sorts items by production serial and dot.
func itemComparator(i1, i2 interface{}) int {
	a, b := i1.(Item), i2.(Item)
	if c := utils.IntComparator(a.serial, b.serial); c != 0 {
		return c
	}
	return utils.IntComparator(a.dot, b.dot)
}

func newItemSet() *treeset.Set {
	return treeset.NewWith(itemComparator)
}

func asItem(x interface{}) Item {
	return x.(Item)
}

// itemSetKey is a canonical string representation of an item set, used to
// identify CFSM states.
func itemSetKey(S *treeset.Set) string {
	var b strings.Builder
	it := S.Iterator()
	for it.Next() {
		item := asItem(it.Value())
		b.WriteString(strconv.Itoa(item.serial))
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(item.dot))
		b.WriteByte(';')
	}
	return b.String()
}

func itemSetString(S *treeset.Set) string {
	var b strings.Builder
	b.WriteString("{")
	it := S.Iterator()
	first := true
	for it.Next() {
		if first {
			b.WriteString(" ")
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(asItem(it.Value()).String())
	}
	b.WriteString(" }")
	return b.String()
}
