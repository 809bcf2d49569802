package sparse

import (
	"testing"
)

func TestSetAndGet(t *testing.T) {
	M := NewIntMatrix(10, 10, -1)
	if v := M.Value(9, 9); v != -1 {
		t.Errorf("expected null-value for empty position, is %d", v)
	}
	M.Set(2, 3, 4711)
	M.Set(0, 5, 1)
	M.Set(7, 0, 2)
	M.Set(2, 1, 3)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected M(2,3) = 4711, is %d", v)
	}
	if v := M.Value(2, 1); v != 3 {
		t.Errorf("expected M(2,1) = 3, is %d", v)
	}
	if M.ValueCount() != 4 {
		t.Errorf("expected 4 positions set, have %d", M.ValueCount())
	}
	for k := 1; k < len(M.values); k++ {
		prev, t0 := M.values[k-1], M.values[k]
		if prev.row > t0.row || prev.row == t0.row && prev.col >= t0.col {
			t.Errorf("triplets not in row-major order: %v", M.values)
		}
	}
}

func TestAdd(t *testing.T) {
	M := NewIntMatrix(3, 3, DefaultNullValue)
	M.Add(1, 1, 5)
	M.Add(1, 1, 6)
	if a, b := M.Values(1, 1); a != 5 || b != 6 {
		t.Errorf("expected M(1,1) = [5,6], is [%d,%d]", a, b)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected 1 position set, have %d", M.ValueCount())
	}
	M.Set(1, 1, 7)
	if a, b := M.Values(1, 1); a != 7 || b != M.NullValue() {
		t.Errorf("expected Set to replace both values, is [%d,%d]", a, b)
	}
}

func TestOutOfRange(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for index out of range")
		}
	}()
	M := NewIntMatrix(2, 2, -1)
	M.Set(2, 0, 1)
}
