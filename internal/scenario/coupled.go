package scenario

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/rqlab/internal/propagate"
)

// CoupledTransport is the two-transporter membrane example: Na+ and H+
// quotients relax through a symmetric coupling matrix while the membrane
// potential drives both. Returns the propagator and the initial quotients.
func CoupledTransport() (*propagate.Coupled, []float64, error) {
	const (
		kNa               = 1.0
		kH                = 2.0
		coupling          = 0.5
		membranePotential = 3.0
	)
	k := mat.NewDense(2, 2, []float64{
		kNa, coupling,
		coupling, kH,
	})
	drive := math.Log(membranePotential)
	coupled, err := propagate.NewCoupled(k, []float64{1, 2}, []float64{drive, drive})
	if err != nil {
		return nil, nil, err
	}
	return coupled, []float64{0.2, 0.2}, nil
}

// TJump is the temperature-jump relaxation experiment: Keq follows a
// van 't Hoff schedule over a 298K -> 330K -> 298K profile, so the
// quotient is integrated numerically from the instantaneous law. Returns
// the system and the initial ln Q (20% of the initial Keq).
func TJump() (*propagate.VariableRelaxation, float64) {
	const (
		dH    = -50_000.0 // J/mol
		dS    = -100.0    // J/mol/K
		tUp   = 2.0
		tDown = 7.0
	)
	temp := func(t float64) float64 {
		if t < tUp || t >= tDown {
			return 298.0
		}
		return 330.0
	}
	lnKeq := propagate.VanTHoff(dH, dS, temp)
	v := &propagate.VariableRelaxation{K: 1.0, LnKeq: lnKeq}
	lnQ0 := math.Log(0.2) + lnKeq(0)
	return v, lnQ0
}
