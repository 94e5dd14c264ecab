package qmag

import "fmt"

// MaxQubits is the widest register Basis will enumerate. Indices are held
// in an int, so anything wider cannot be addressed at all; callers should
// keep to far smaller counts since the enumeration is O(n·2^n).
const MaxQubits = 62

/*
Basis returns the 2^n computational basis states of an n-qubit register as
bitstrings of length n.

Index j of the result is the big-endian binary representation of j, so
qubit 0 is the leftmost character. The first half of the result therefore
starts with '0' and the second half with '1', and each half repeats the
(n-1)-qubit enumeration. Eigenvector amplitudes are laid out in the same
order, which is what lets the evaluator pair amplitude j with state j.
*/
func Basis(n int) ([]string, error) {
	if err := checkQubits(n); err != nil {
		return nil, err
	}

	states := make([]string, 1<<n)
	for j := range states {
		states[j] = BasisState(j, n)
	}

	return states, nil
}

// BasisState renders index j as an n character bitstring, most significant bit first.
func BasisState(j, n int) string {
	buf := make([]byte, n)
	for q := 0; q < n; q++ {
		buf[q] = '0' + byte((j>>(n-1-q))&1)
	}
	return string(buf)
}

func checkQubits(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: qubit count must be at least 1, got %d", ErrInvalidArgument, n)
	}
	if n > MaxQubits {
		return fmt.Errorf("%w: qubit count %d exceeds %d", ErrInvalidArgument, n, MaxQubits)
	}
	return nil
}
