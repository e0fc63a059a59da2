// Package complexmul ULP diagnostics for result mismatches
package complexmul

import (
	"fmt"
	"math"
)

// DiffResult summarises how far two result sequences are apart. It is a
// diagnostic for mismatches; Compare never applies a tolerance.
type DiffResult struct {
	MaxAbsError float64
	MaxULPError uint64
	NumErrors   int
	TotalItems  int
	FirstError  int // Index of first error, -1 if none
}

// Float64ULPDiff computes the difference in ULPs between two float64 values.
// Values of different sign report math.MaxUint64 unless both are zero.
func Float64ULPDiff(a, b float64) uint64 {
	if a == b {
		return 0
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.MaxUint64
	}

	aBits := math.Float64bits(a)
	bBits := math.Float64bits(b)

	if (aBits^bBits)&(1<<63) != 0 {
		return math.MaxUint64
	}
	if aBits > bBits {
		return aBits - bBits
	}
	return bBits - aBits
}

// Diff compares expected and actual component by component and records the
// worst absolute and ULP errors.
func Diff(expected, actual Sequence) DiffResult {
	result := DiffResult{
		TotalItems: expected.Len(),
		FirstError: -1,
	}

	if expected.Len() != actual.Len() {
		result.NumErrors = expected.Len()
		return result
	}

	for i := 0; i < expected.Len(); i++ {
		e, a := expected.At(i), actual.At(i)
		if e.Equal(a) {
			continue
		}
		result.NumErrors++
		if result.FirstError == -1 {
			result.FirstError = i
		}
		for _, pair := range [2][2]float64{{e.Re, a.Re}, {e.Im, a.Im}} {
			if abs := math.Abs(pair[0] - pair[1]); abs > result.MaxAbsError {
				result.MaxAbsError = abs
			}
			if ulp := Float64ULPDiff(pair[0], pair[1]); ulp > result.MaxULPError {
				result.MaxULPError = ulp
			}
		}
	}

	return result
}

// String formats the result for display
func (r DiffResult) String() string {
	if r.NumErrors == 0 {
		return "PASS: all values identical"
	}

	errorRate := 100.0
	if r.TotalItems > 0 {
		errorRate = float64(r.NumErrors) / float64(r.TotalItems) * 100
	}
	return fmt.Sprintf("FAIL: %d/%d values differ (%.2f%%)\n"+
		"  Max absolute error: %e\n"+
		"  Max ULP difference: %d\n"+
		"  First error at index: %d",
		r.NumErrors, r.TotalItems, errorRate,
		r.MaxAbsError, r.MaxULPError, r.FirstError)
}
