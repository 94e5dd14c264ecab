package qmag

// Eigenset is the full output of one diagonalization run.
type Eigenset struct {
	EigenvectorSize    int         `json:"eigenvectorSize"`
	NumberEigenvectors int         `json:"numberEigenvectors"`
	Eigenpairs         []Eigenpair `json:"eigenpairs"`
}

/*
Eigenpair bundles one eigenvector with the external field components it was
computed for. Bx and Bz pass through evaluation untouched. Eigenvalue is
optional; files produced elsewhere may omit it.
*/
type Eigenpair struct {
	Bx          float64   `json:"Bx"`
	Bz          float64   `json:"Bz"`
	Eigenvalue  float64   `json:"Eigenvalue,omitempty"`
	Eigenvector []float64 `json:"Eigenvector"`
}

// State views the eigenvector as a quantum state.
func (ep Eigenpair) State() QuantumState {
	return QuantumState{Vector: ep.Eigenvector}
}

// NewEigenset builds an eigenset whose counts agree with pairs.
func NewEigenset(size int, pairs ...Eigenpair) *Eigenset {
	return &Eigenset{
		EigenvectorSize:    size,
		NumberEigenvectors: len(pairs),
		Eigenpairs:         pairs,
	}
}

// Append adds an eigenpair and keeps NumberEigenvectors in step.
func (es *Eigenset) Append(pairs ...Eigenpair) {
	es.Eigenpairs = append(es.Eigenpairs, pairs...)
	es.NumberEigenvectors = len(es.Eigenpairs)
}
