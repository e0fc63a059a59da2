package complexmul

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// tripwire panics when any index past limit is read.
type tripwire struct {
	Vector
	limit int
}

func (s tripwire) At(i int) Complex {
	if i > s.limit {
		panic("element read after the first mismatch")
	}
	return s.Vector[i]
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want Verdict
		idx  int
	}{
		{"empty", Vector{}, Vector{}, Match, -1},
		{"equal", Vector{{1, 2}, {3, 4}}, Vector{{1, 2}, {3, 4}}, Match, -1},
		{"last differs", Vector{{1, 2}, {3, 4}}, Vector{{1, 2}, {3, 5}}, ValueMismatch, 1},
		{"imaginary differs", Vector{{1, 2}}, Vector{{1, 3}}, ValueMismatch, 0},
		{"shorter", Vector{{1, 2}}, Vector{{1, 2}, {3, 4}}, LengthMismatch, -1},
		{"longer", Vector{{1, 2}, {3, 4}}, Vector{{1, 2}}, LengthMismatch, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, idx := CompareIndex(tt.a, tt.b)
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.idx, idx)
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}

func TestCompareShortCircuits(t *testing.T) {
	a := tripwire{Vector: Vector{{0, 0}, {1, 1}, {2, 2}}, limit: 0}
	b := tripwire{Vector: Vector{{9, 9}, {1, 1}, {2, 2}}, limit: 0}

	assert.NotPanics(t, func() {
		assert.Equal(t, ValueMismatch, Compare(a, b))
	})
}

func TestCompareLengthBeforeValues(t *testing.T) {
	// Overlapping elements match, and no element may be read at all.
	a := tripwire{Vector: Vector{{1, 1}, {2, 2}}, limit: -1}
	b := tripwire{Vector: Vector{{1, 1}, {2, 2}, {3, 3}}, limit: -1}

	assert.NotPanics(t, func() {
		assert.Equal(t, LengthMismatch, Compare(a, b))
	})
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "Match", Match.String())
	assert.Equal(t, "LengthMismatch", LengthMismatch.String())
	assert.Equal(t, "ValueMismatch", ValueMismatch.String())
	assert.Equal(t, "Unknown", Verdict(99).String())
}
