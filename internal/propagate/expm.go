package propagate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// expm computes the matrix exponential by [6/6] Pade approximation with
// scaling and squaring. The Pade solve fails on a (near-)singular
// denominator, which only happens for badly conditioned inputs; that is
// surfaced as an error rather than ignored.
func expm(a *mat.Dense) (*mat.Dense, error) {
	n, m := a.Dims()
	if n != m {
		return nil, fmt.Errorf("propagate: expm needs a square matrix, got %dx%d", n, m)
	}

	j := 0
	if norm := mat.Norm(a, 1); norm > 0.5 {
		j = int(math.Ceil(math.Log2(norm / 0.5)))
	}
	var s mat.Dense
	s.Scale(math.Pow(2, -float64(j)), a)

	const q = 6
	pow := eye(n)
	num := eye(n)
	den := eye(n)
	c := 1.0
	for k := 1; k <= q; k++ {
		c *= float64(q-k+1) / (float64(k) * float64(2*q-k+1))
		var next mat.Dense
		next.Mul(pow, &s)
		pow = &next

		var term mat.Dense
		term.Scale(c, pow)
		num.Add(num, &term)
		if k%2 == 0 {
			den.Add(den, &term)
		} else {
			den.Sub(den, &term)
		}
	}

	var f mat.Dense
	if err := f.Solve(den, num); err != nil {
		return nil, fmt.Errorf("propagate: matrix exponential did not converge: %w", err)
	}
	for ; j > 0; j-- {
		var sq mat.Dense
		sq.Mul(&f, &f)
		f.CloneFrom(&sq)
	}
	return &f, nil
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
