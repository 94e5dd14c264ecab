package qmag

import "math"

// QuantumState is a real-amplitude state vector in the computational basis.
type QuantumState struct {
	Vector []float64
}

// Probabilities returns amplitude² for every basis state. The result is not
// renormalized; its sum is Norm.
func (qs QuantumState) Probabilities() []float64 {
	probs := make([]float64, len(qs.Vector))
	for i, amplitude := range qs.Vector {
		probs[i] = amplitude * amplitude
	}
	return probs
}

// Norm is the total probability mass Σ amplitude². A physical state has norm 1.
func (qs QuantumState) Norm() float64 {
	var total float64
	for _, amplitude := range qs.Vector {
		total += amplitude * amplitude
	}
	return total
}

// Normalized returns a copy scaled to unit norm. A zero vector is returned unchanged.
func (qs QuantumState) Normalized() QuantumState {
	out := QuantumState{Vector: make([]float64, len(qs.Vector))}
	copy(out.Vector, qs.Vector)

	norm := math.Sqrt(qs.Norm())
	if norm == 0 {
		return out
	}

	for i := range out.Vector {
		out.Vector[i] /= norm
	}
	return out
}
