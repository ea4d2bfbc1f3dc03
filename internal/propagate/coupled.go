package propagate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/rqlab/internal/chem"
)

// Coupled propagates a vector of reaction quotients whose log deviations
// relax through a coupling matrix:
//
//	x(t) = exp(-K t) x0 + K^-1 (I - exp(-K t)) u,   x = ln(Q/Keq)
//
// K must be positive-stable. The K^-1 term only exists for nonzero drive;
// a singular K with drive is reported explicitly (callers wanting a
// time-varying or singular setup integrate VariableRelaxation-style
// equations numerically instead).
type Coupled struct {
	K     *mat.Dense
	Keq   []float64
	Drive []float64
}

func NewCoupled(k *mat.Dense, keq, drive []float64) (*Coupled, error) {
	c := &Coupled{K: k, Keq: keq, Drive: drive}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Coupled) Validate() error {
	r, cols := c.K.Dims()
	if r != cols {
		return fmt.Errorf("%w: rate matrix is %dx%d", chem.ErrDimensionMismatch, r, cols)
	}
	if len(c.Keq) != r {
		return fmt.Errorf("%w: %d equilibrium constants for %d quotients", chem.ErrDimensionMismatch, len(c.Keq), r)
	}
	if c.Drive != nil && len(c.Drive) != r {
		return fmt.Errorf("%w: %d drive terms for %d quotients", chem.ErrDimensionMismatch, len(c.Drive), r)
	}
	for i, keq := range c.Keq {
		if keq <= 0 {
			return fmt.Errorf("%w: Keq[%d]=%g", chem.ErrNonPositiveParam, i, keq)
		}
	}
	vals, err := c.Eigenvalues()
	if err != nil {
		return err
	}
	for _, v := range vals {
		if real(v) <= 0 {
			return fmt.Errorf("%w: eigenvalue %v", chem.ErrNotPositiveStable, v)
		}
	}
	return nil
}

// Eigenvalues returns the spectrum of K.
func (c *Coupled) Eigenvalues() ([]complex128, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(c.K, mat.EigenNone); !ok {
		return nil, fmt.Errorf("propagate: eigendecomposition of rate matrix did not converge")
	}
	return eig.Values(nil), nil
}

func (c *Coupled) driven() bool {
	for _, u := range c.Drive {
		if u != 0 {
			return true
		}
	}
	return false
}

// At evaluates the quotient vector at time t from initial quotients q0.
func (c *Coupled) At(q0 []float64, t float64) ([]float64, error) {
	n := len(c.Keq)
	if len(q0) != n {
		return nil, fmt.Errorf("%w: %d initial quotients for %d equations", chem.ErrDimensionMismatch, len(q0), n)
	}
	x0 := make([]float64, n)
	for i := range q0 {
		if q0[i] <= 0 {
			return nil, fmt.Errorf("%w: Q0[%d]=%g", chem.ErrNonPositiveParam, i, q0[i])
		}
		x0[i] = math.Log(q0[i] / c.Keq[i])
	}

	var kt mat.Dense
	kt.Scale(-t, c.K)
	e, err := expm(&kt)
	if err != nil {
		return nil, err
	}

	var x mat.VecDense
	x.MulVec(e, mat.NewVecDense(n, x0))

	if c.driven() {
		u := mat.NewVecDense(n, append([]float64(nil), c.Drive...))
		var z mat.VecDense
		if err := z.SolveVec(c.K, u); err != nil {
			return nil, fmt.Errorf("%w: %v", chem.ErrSingularRateMatrix, err)
		}
		var ez mat.VecDense
		ez.MulVec(e, &z)
		x.AddVec(&x, &z)
		x.SubVec(&x, &ez)
	}

	q := make([]float64, n)
	for i := range q {
		q[i] = c.Keq[i] * math.Exp(x.AtVec(i))
	}
	return q, nil
}
