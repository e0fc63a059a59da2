package complexmul

import "fmt"

// Complex is an immutable complex value with float64 components.
type Complex struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// FromComplex128 converts a builtin complex value.
func FromComplex128(c complex128) Complex {
	return Complex{Re: real(c), Im: imag(c)}
}

// Complex128 returns c as a builtin complex value.
func (c Complex) Complex128() complex128 {
	return complex(c.Re, c.Im)
}

// Mul returns c*o = (ac-bd) + (ad+bc)i.
//
// Every product is rounded to float64 before it is combined, which keeps the
// compiler from fusing the multiply into the add. Scalar, per-index and
// vector paths therefore agree bit for bit.
func (c Complex) Mul(o Complex) Complex {
	return Complex{
		Re: float64(c.Re*o.Re) - float64(c.Im*o.Im),
		Im: float64(c.Re*o.Im) + float64(c.Im*o.Re),
	}
}

// Equal reports exact component-wise equality. There is no tolerance.
func (c Complex) Equal(o Complex) bool {
	return c.Re == o.Re && c.Im == o.Im
}

// String formats c as (re,im).
func (c Complex) String() string {
	return fmt.Sprintf("(%g,%g)", c.Re, c.Im)
}
