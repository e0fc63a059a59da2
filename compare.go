package complexmul

// Verdict is the outcome of comparing two result sequences.
type Verdict int

const (
	Match          Verdict = iota // Same length, every element equal
	LengthMismatch                // Lengths differ
	ValueMismatch                 // Same length, some element differs
)

func (v Verdict) String() string {
	switch v {
	case Match:
		return "Match"
	case LengthMismatch:
		return "LengthMismatch"
	case ValueMismatch:
		return "ValueMismatch"
	default:
		return "Unknown"
	}
}

// Sequence is a read-only, zero-indexed view of complex values.
type Sequence interface {
	Len() int
	At(i int) Complex
}

// Vector adapts a slice to Sequence.
type Vector []Complex

// Len returns the number of elements.
func (v Vector) Len() int { return len(v) }

// At returns element i.
func (v Vector) At(i int) Complex { return v[i] }

// Compare checks a and b for equal length and exact element-wise equality.
func Compare(a, b Sequence) Verdict {
	v, _ := CompareIndex(a, b)
	return v
}

// CompareIndex is Compare that also returns the first differing index, or -1.
// A length mismatch is reported before any element is read. The scan stops
// at the first differing element.
func CompareIndex(a, b Sequence) (Verdict, int) {
	n := a.Len()
	if n != b.Len() {
		return LengthMismatch, -1
	}
	for i := 0; i < n; i++ {
		if !a.At(i).Equal(b.At(i)) {
			return ValueMismatch, i
		}
	}
	return Match, -1
}
