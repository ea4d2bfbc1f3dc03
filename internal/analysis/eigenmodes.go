package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Modes summarizes the spectrum of a coupling matrix. A complex pair gives
// damped oscillation: the real part is the damping rate, the imaginary
// part the angular frequency.
type Modes struct {
	Values []complex128
	// Stable is true when every eigenvalue has positive real part, the
	// condition for relaxation toward equilibrium.
	Stable bool
	// Period is 2*pi over the largest |imaginary part|, or 0 when the
	// spectrum is purely real.
	Period float64
}

// Eigenmodes decomposes a rate/coupling matrix.
func Eigenmodes(k *mat.Dense) (Modes, error) {
	r, c := k.Dims()
	if r != c {
		return Modes{}, fmt.Errorf("analysis: coupling matrix is %dx%d, want square", r, c)
	}
	var eig mat.Eigen
	if ok := eig.Factorize(k, mat.EigenNone); !ok {
		return Modes{}, fmt.Errorf("analysis: eigendecomposition did not converge")
	}

	m := Modes{Values: eig.Values(nil), Stable: true}
	maxImag := 0.0
	for _, v := range m.Values {
		if real(v) <= 0 {
			m.Stable = false
		}
		if im := math.Abs(imag(v)); im > maxImag {
			maxImag = im
		}
	}
	if maxImag > 0 {
		m.Period = 2 * math.Pi / maxImag
	}
	return m, nil
}
