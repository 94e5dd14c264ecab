package qmag

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/theapemachine/errnie"
	"gonum.org/v1/gonum/mat"
)

// MaxGeneratorQubits bounds the chain length of Generate; the Hamiltonian
// is diagonalized densely, which is O(8^n).
const MaxGeneratorQubits = 12

// singleFieldValue replaces a field grid of one point, keeping the
// corresponding symmetry slightly broken.
const singleFieldValue = 0.01

/*
GeneratorConfig describes a sweep of transverse-field Ising chains

	H = -J Σ z_i z_{i+1} - Σ (Bz + h_i) z_i - Bx Σ x_i

over a grid of Bx and Bz values. h_i is on-site disorder drawn uniformly
from [-Disorder, Disorder], only applied when more than one replica is
requested.
*/
type GeneratorConfig struct {
	Qubits   int
	Coupling float64
	BxMin    float64
	BxMax    float64
	BxSteps  int
	BzMin    float64
	BzMax    float64
	BzSteps  int
	Replicas int
	Disorder float64
	States   int
	Seed     uint64
}

func NewGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Qubits:   4,
		Coupling: 1,
		BxMin:    0,
		BxMax:    2,
		BxSteps:  11,
		BzSteps:  1,
		Replicas: 1,
		States:   1,
		Seed:     1,
	}
}

func (c GeneratorConfig) Validate() error {
	switch {
	case c.Qubits < 1 || c.Qubits > MaxGeneratorQubits:
		return fmt.Errorf("%w: qubits must be within [1, %d], got %d",
			ErrInvalidArgument, MaxGeneratorQubits, c.Qubits)
	case c.BxSteps < 1 || c.BzSteps < 1:
		return fmt.Errorf("%w: field grids need at least one step", ErrInvalidArgument)
	case c.Replicas < 1:
		return fmt.Errorf("%w: replicas must be at least 1, got %d", ErrInvalidArgument, c.Replicas)
	case c.States < 1 || c.States > 1<<c.Qubits:
		return fmt.Errorf("%w: states must be within [1, %d], got %d",
			ErrInvalidArgument, 1<<c.Qubits, c.States)
	case c.Disorder < 0:
		return fmt.Errorf("%w: negative disorder %v", ErrInvalidArgument, c.Disorder)
	}
	return nil
}

// Generate diagonalizes every Hamiltonian of the sweep and collects the
// lowest c.States eigenpairs of each, ordered by Bx, then Bz, then replica.
func Generate(c GeneratorConfig) (*Eigenset, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	disorder := 0.0
	if c.Replicas > 1 {
		disorder = c.Disorder
	}

	rng := rand.New(rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15))
	es := NewEigenset(1 << c.Qubits)

	var elapsed time.Duration
	for _, bx := range linSpaced(c.BxSteps, c.BxMin, c.BxMax) {
		for _, bz := range linSpaced(c.BzSteps, c.BzMin, c.BzMax) {
			for replica := 0; replica < c.Replicas; replica++ {
				fields := make([]float64, c.Qubits)
				for i := range fields {
					fields[i] = bz + disorder*(2*rng.Float64()-1)
				}

				start := time.Now()
				values, vectors, err := diagonalize(Hamiltonian(c.Qubits, c.Coupling, bx, fields))
				elapsed += time.Since(start)
				if err != nil {
					return nil, fmt.Errorf("Bx=%v Bz=%v replica %d: %w", bx, bz, replica, err)
				}

				for k := 0; k < c.States; k++ {
					es.Append(Eigenpair{
						Bx:          bx,
						Bz:          bz,
						Eigenvalue:  values[k],
						Eigenvector: mat.Col(nil, k, vectors),
					})
				}
			}
		}
	}

	errnie.Info("generated %d eigenpairs - qubits %d, diagonalization time %v",
		es.NumberEigenvectors, c.Qubits, elapsed)
	return es, nil
}

/*
Hamiltonian builds the transverse-field Ising Hamiltonian of an open chain
in the computational basis, using the same big-endian state order as Basis.
fields holds the longitudinal field of every site.
*/
func Hamiltonian(n int, coupling, bx float64, fields []float64) *mat.SymDense {
	dim := 1 << n
	h := mat.NewSymDense(dim, nil)

	spin := func(s, q int) float64 {
		return float64(1 - 2*((s>>(n-1-q))&1))
	}

	for s := 0; s < dim; s++ {
		var diag float64
		for q := 0; q < n; q++ {
			if q+1 < n {
				diag -= coupling * spin(s, q) * spin(s, q+1)
			}
			diag -= fields[q] * spin(s, q)

			if t := s ^ (1 << (n - 1 - q)); t > s {
				h.SetSym(s, t, -bx)
			}
		}
		h.SetSym(s, s, diag)
	}

	return h
}

// diagonalize returns the eigenvalues in ascending order and the matching
// eigenvectors as columns.
func diagonalize(h *mat.SymDense) ([]float64, *mat.Dense, error) {
	var eig mat.EigenSym
	if !eig.Factorize(h, true) {
		return nil, nil, ErrDiagonalization
	}

	var vectors mat.Dense
	eig.VectorsTo(&vectors)
	return eig.Values(nil), &vectors, nil
}

func linSpaced(steps int, lo, hi float64) []float64 {
	if steps == 1 {
		return []float64{singleFieldValue}
	}

	out := make([]float64, steps)
	step := (hi - lo) / float64(steps-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
