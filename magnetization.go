package qmag

import "fmt"

/*
MagnetizationTable maps every bitstring of a basis to its magnetization,
the mean of the per-qubit spins where '0' is spin up (+1) and '1' is spin
down (-1). The table is index-aligned with basis, so the all-zero state
maps to +1 and the all-one state to -1.
*/
func MagnetizationTable(basis []string, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: qubit count must be positive, got %d", ErrInvalidArgument, n)
	}

	table := make([]float64, len(basis))
	for j, state := range basis {
		m, err := magnetization(state, n)
		if err != nil {
			return nil, fmt.Errorf("basis state %d: %w", j, err)
		}
		table[j] = m
	}

	return table, nil
}

func magnetization(state string, n int) (float64, error) {
	if len(state) != n {
		return 0, fmt.Errorf("%w: bitstring %q has length %d, want %d",
			ErrDimensionMismatch, state, len(state), n)
	}

	spin := 0
	for _, c := range state {
		switch c {
		case '0':
			spin++
		case '1':
			spin--
		default:
			return 0, fmt.Errorf("%w: bitstring %q contains %q", ErrInvalidArgument, state, c)
		}
	}

	return float64(spin) / float64(n), nil
}
