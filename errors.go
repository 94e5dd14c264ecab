package qmag

import "errors"

var (
	// ErrInvalidArgument is returned for a qubit count below one, an
	// eigenvector size that is not a power of two, or a bitstring holding
	// anything other than '0' and '1'.
	ErrInvalidArgument = errors.New("qmag: invalid argument")

	// ErrDimensionMismatch is returned when an eigenvector, bitstring or
	// eigenpair count disagrees with the size the eigenset declares.
	ErrDimensionMismatch = errors.New("qmag: dimension mismatch")

	// ErrMalformed wraps decoding failures of an eigenset or config file.
	ErrMalformed = errors.New("qmag: malformed input")

	// ErrDiagonalization signals that the symmetric eigensolver did not converge.
	ErrDiagonalization = errors.New("qmag: diagonalization failed")
)
