package complexmul

import (
	"math"
	"strings"
	"testing"
)

func TestFloat64ULPDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want uint64
	}{
		{"equal", 1.5, 1.5, 0},
		{"signed zeros", 0, math.Copysign(0, -1), 0},
		{"adjacent", 1, math.Nextafter(1, 2), 1},
		{"adjacent negative", -1, math.Nextafter(-1, -2), 1},
		{"two apart", 1, math.Nextafter(math.Nextafter(1, 2), 2), 2},
		{"opposite signs", 1, -1, math.MaxUint64},
		{"nan", math.NaN(), 1, math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Float64ULPDiff(tt.a, tt.b); got != tt.want {
				t.Errorf("Float64ULPDiff(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := Float64ULPDiff(tt.b, tt.a); got != tt.want {
				t.Errorf("Float64ULPDiff is not symmetric for %v, %v", tt.a, tt.b)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	expected := Vector{{1, 1}, {2, 2}, {3, 3}}

	r := Diff(expected, Vector{{1, 1}, {2, 2}, {3, 3}})
	if r.NumErrors != 0 || r.FirstError != -1 {
		t.Errorf("identical sequences: %+v", r)
	}
	if !strings.HasPrefix(r.String(), "PASS") {
		t.Errorf("String() = %q", r.String())
	}

	actual := Vector{{1, 1}, {2, math.Nextafter(2, 3)}, {3.5, 3}}
	r = Diff(expected, actual)
	if r.NumErrors != 2 || r.FirstError != 1 {
		t.Errorf("NumErrors = %d, FirstError = %d", r.NumErrors, r.FirstError)
	}
	if r.MaxAbsError != 0.5 {
		t.Errorf("MaxAbsError = %v, want 0.5", r.MaxAbsError)
	}
	if !strings.HasPrefix(r.String(), "FAIL: 2/3") {
		t.Errorf("String() = %q", r.String())
	}

	r = Diff(expected, Vector{{1, 1}})
	if r.NumErrors != 3 {
		t.Errorf("length mismatch NumErrors = %d, want 3", r.NumErrors)
	}
}
