package chem

import "errors"

var (
	// ErrDegenerateStoichiometry indicates every net coefficient is zero.
	ErrDegenerateStoichiometry = errors.New("chem: degenerate stoichiometry (all net coefficients zero)")
	// ErrNegativeConcentration indicates a negative initial concentration.
	ErrNegativeConcentration = errors.New("chem: initial concentration must be non-negative")
	// ErrZeroParticipant indicates a participating species starts at zero,
	// so the initial quotient cannot be formed.
	ErrZeroParticipant = errors.New("chem: participating species needs a positive initial concentration")
	// ErrNegativeCoefficient indicates a reactant or product coefficient < 0.
	ErrNegativeCoefficient = errors.New("chem: stoichiometric coefficients must be non-negative")
	// ErrDimensionMismatch indicates vectors of inconsistent length.
	ErrDimensionMismatch = errors.New("chem: dimension mismatch")
	// ErrNonPositiveParam indicates a rate or equilibrium constant <= 0.
	ErrNonPositiveParam = errors.New("chem: parameter must be positive")
	// ErrSingularRateMatrix indicates the coupling matrix cannot be inverted
	// where the driven closed form requires it.
	ErrSingularRateMatrix = errors.New("chem: singular rate matrix")
	// ErrNotPositiveStable indicates a coupling matrix with an eigenvalue
	// whose real part is not positive.
	ErrNotPositiveStable = errors.New("chem: rate matrix is not positive-stable")
	// ErrInfeasible indicates no extent keeps every concentration non-negative.
	ErrInfeasible = errors.New("chem: no feasible extent interval")
)
