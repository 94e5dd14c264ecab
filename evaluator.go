package qmag

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"gonum.org/v1/gonum/mat"
)

// Observation is the magnetization expectation value of one eigenpair,
// reported together with the fields the eigenpair was computed for.
type Observation struct {
	Index int
	Bx    float64
	Bz    float64
	Value float64
	Norm  float64
	Err   error
}

func (o Observation) String() string {
	if o.Err != nil {
		return fmt.Sprintf("( %v, %v, error: %v)", o.Bx, o.Bz, o.Err)
	}
	return fmt.Sprintf("( %v, %v, %v)", o.Bx, o.Bz, o.Value)
}

// Result holds one observation per eigenpair, in eigenpair order.
type Result struct {
	Qubits       int
	Observations []Observation
}

// Values returns the expectation values in eigenpair order. Failed
// eigenpairs contribute NaN.
func (r Result) Values() []float64 {
	values := make([]float64, len(r.Observations))
	for i, o := range r.Observations {
		values[i] = o.Value
	}
	return values
}

// Err joins the failures of individual eigenpairs, or returns nil if every
// eigenpair was evaluated.
func (r Result) Err() error {
	var errs []error
	for _, o := range r.Observations {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("eigenpair %d: %w", o.Index, o.Err))
		}
	}
	return errors.Join(errs...)
}

/*
Evaluator computes magnetization expectation values of eigensets. It holds
no per-evaluation state; the only thing shared between calls is the
read-only cache of magnetization tables, so one Evaluator may serve many
goroutines.
*/
type Evaluator struct {
	maxQubits int
	tables    *tableCache
}

func NewEvaluator(config *Config) *Evaluator {
	if config == nil {
		config = NewConfig()
	}

	return &Evaluator{
		maxQubits: config.qubitLimit(),
		tables:    &tableCache{},
	}
}

// QubitCount returns n such that size == 2^n, failing for sizes that are
// not a power of two or that describe fewer than one qubit.
func QubitCount(size int) (int, error) {
	if size < 2 || size&(size-1) != 0 {
		return 0, fmt.Errorf("%w: eigenvector size %d is not a power of two of at least 2",
			ErrInvalidArgument, size)
	}
	return bits.TrailingZeros(uint(size)), nil
}

// Table returns a copy of the magnetization table for n qubits.
func (ev *Evaluator) Table(n int) ([]float64, error) {
	if n > ev.maxQubits {
		return nil, fmt.Errorf("%w: %d qubits exceeds the configured limit of %d",
			ErrInvalidArgument, n, ev.maxQubits)
	}

	table, err := ev.tables.get(n)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(table))
	copy(out, table)
	return out, nil
}

/*
Evaluate computes, for every eigenpair i,

	expectation[i] = Σ_j Eigenvector[i][j]² · magnetization[j]

as one matrix-vector product of the squared amplitudes with the
magnetization table.

Problems with the eigenset as a whole (a size that is not a power of two,
a pair count that disagrees with the eigenpairs present) fail the call.
An eigenvector of the wrong length only fails its own observation; the
other eigenpairs are still evaluated and Result.Err reports the failures.
*/
func (ev *Evaluator) Evaluate(es *Eigenset) (Result, error) {
	if es == nil {
		return Result{}, fmt.Errorf("%w: nil eigenset", ErrInvalidArgument)
	}

	if es.NumberEigenvectors != len(es.Eigenpairs) {
		return Result{}, fmt.Errorf("%w: eigenset declares %d eigenpairs, holds %d",
			ErrDimensionMismatch, es.NumberEigenvectors, len(es.Eigenpairs))
	}

	n, err := QubitCount(es.EigenvectorSize)
	if err != nil {
		return Result{}, err
	}

	if n > ev.maxQubits {
		return Result{}, fmt.Errorf("%w: %d qubits exceeds the configured limit of %d",
			ErrInvalidArgument, n, ev.maxQubits)
	}

	if len(es.Eigenpairs) == 0 {
		return Result{Qubits: n, Observations: []Observation{}}, nil
	}

	table, err := ev.tables.get(n)
	if err != nil {
		return Result{}, err
	}

	if len(table) != es.EigenvectorSize {
		return Result{}, fmt.Errorf("%w: basis has %d states, eigenvectors have %d",
			ErrDimensionMismatch, len(table), es.EigenvectorSize)
	}

	result := Result{
		Qubits:       n,
		Observations: make([]Observation, len(es.Eigenpairs)),
	}

	valid := make([]int, 0, len(es.Eigenpairs))
	for i, pair := range es.Eigenpairs {
		obs := Observation{Index: i, Bx: pair.Bx, Bz: pair.Bz, Value: math.NaN()}

		if len(pair.Eigenvector) != es.EigenvectorSize {
			obs.Err = fmt.Errorf("%w: eigenvector has %d amplitudes, want %d",
				ErrDimensionMismatch, len(pair.Eigenvector), es.EigenvectorSize)
		} else {
			obs.Norm = pair.State().Norm()
			valid = append(valid, i)
		}

		result.Observations[i] = obs
	}

	if len(valid) == 0 {
		return result, nil
	}

	probs := mat.NewDense(len(valid), es.EigenvectorSize, nil)
	for row, i := range valid {
		probs.SetRow(row, es.Eigenpairs[i].State().Probabilities())
	}

	var expectation mat.VecDense
	expectation.MulVec(probs, mat.NewVecDense(len(table), table))

	for row, i := range valid {
		result.Observations[i].Value = expectation.AtVec(row)
	}

	return result, nil
}
