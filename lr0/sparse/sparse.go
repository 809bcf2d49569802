/*
Package sparse implements a simple type for sparse integer matrices.
It is used for LR(0) parser tables (GOTO-table and ACTION-table).
Every entry in the table is either a single int32 or a pair (int32,int32),
the latter representing conflicts.

This implementation uses the COO algorithm (a.k.a. triplet-encoding), with
triplets kept sorted in row-major order.
*/
package sparse

import (
	"fmt"
	"sort"
)

// IntMatrix is a type for a spare matrix of integer values. Construct with
//
//     M := NewIntMatrix(10, 10, -1)  // last parameter is M's null-value
//
// Now
//
//     M.Set(2, 3, 4711)              // set a value
//     v := M.Value(2, 3)             // returns 4711
//     M.Add(2, 3, 123)               // add a second value
//     cnt := M.ValueCount()          // still returns 1 (one position set)
//     v = M.Value(9, 9)              // returns -1, i.e. the null-value
//
// Values cannot be deleted, but may be overwritten with the null-value.
type IntMatrix struct {
	values  []triplet
	rowcnt  int
	colcnt  int
	nullval int32
}

// DefaultNullValue is the default empty-value for matrices (min int32).
const DefaultNullValue = -2147483648

// Triplet values to store
type triplet struct {
	row, col int
	value    intPair
}

// we store up to 2 int32 in one position
type intPair struct {
	a, b int32
}

func (pr intPair) String() string {
	return fmt.Sprintf("[%d,%d]", pr.a, pr.b)
}

// NewIntMatrix creates a new matrix for int32, size m x n. The 3rd argument is a
// null-value, indicating empty entries (use DefaultNullValue if you haven't any
// specific requirements).
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{
		values:  []triplet{},
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// M returns the row count.
func (m *IntMatrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *IntMatrix) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value
func (m *IntMatrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of positions set in the matrix.
func (m *IntMatrix) ValueCount() int {
	return len(m.values)
}

// Value returns the primary value at position (i,j), or NullValue
func (m *IntMatrix) Value(i, j int) int32 {
	v, _ := m.Values(i, j)
	return v
}

// Values returns the pair of values at position (i,j), or (NullValue, NullValue)
func (m *IntMatrix) Values(i, j int) (int32, int32) {
	if k, found := m.find(i, j); found {
		return m.values[k].value.a, m.values[k].value.b
	}
	return m.nullval, m.nullval
}

// Set a value in the matrix at position (i,j), replacing any values present.
// Set panics for positions outside the matrix.
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix {
	return m.setOrAdd(i, j, value, false)
}

// Add a value in the matrix at position (i,j). If a value is already present,
// value will become the second value of the position. If two values are present,
// the second one will be overwritten.
func (m *IntMatrix) Add(i, j int, value int32) *IntMatrix {
	return m.setOrAdd(i, j, value, true)
}

func (m *IntMatrix) setOrAdd(i, j int, value int32, doAdd bool) *IntMatrix {
	if i < 0 || i >= m.rowcnt || j < 0 || j >= m.colcnt {
		panic(fmt.Sprintf("sparse.IntMatrix: index (%d,%d) out of range [%d,%d]", i, j, m.rowcnt, m.colcnt))
	}
	k, found := m.find(i, j)
	if found {
		if doAdd {
			m.values[k].value = m.addValue(m.values[k].value, value)
		} else {
			m.values[k].value = intPair{value, m.nullval}
		}
		return m
	}
	t := triplet{row: i, col: j, value: intPair{value, m.nullval}}
	m.values = append(m.values, triplet{}) // make room
	copy(m.values[k+1:], m.values[k:])     // shift remainder one index to the right
	m.values[k] = t
	return m
}

func (m *IntMatrix) addValue(v intPair, n int32) intPair {
	if v.a == m.nullval {
		v.a = n
	} else {
		v.b = n
	}
	return v
}

// find returns the index of the triplet at (i,j), or the index where it
// would have to be inserted.
func (m *IntMatrix) find(i, j int) (int, bool) {
	k := sort.Search(len(m.values), func(k int) bool {
		t := m.values[k]
		return t.row > i || t.row == i && t.col >= j
	})
	found := k < len(m.values) && m.values[k].row == i && m.values[k].col == j
	return k, found
}
