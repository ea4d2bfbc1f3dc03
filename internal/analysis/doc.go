// Package analysis provides post-hoc characterization of quotient
// trajectories and coupling matrices.
//
//   - [RelaxationRate]: estimate the relaxation rate k from sampled Q(t)
//   - [Eigenmodes]: spectrum, stability and oscillation period of a
//     coupling matrix
package analysis
