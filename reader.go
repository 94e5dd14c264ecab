package qmag

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/theapemachine/errnie"
	"sigs.k8s.io/yaml"
)

/*
ReadEigenset decodes an eigenset document. YAML and JSON share one schema:

	eigenvectorSize: 4
	numberEigenvectors: 1
	eigenpairs:
	  - Bx: 0.5
	    Bz: 0.01
	    Eigenvector: [1, 0, 0, 0]

The reader only decodes. Consistency between the declared sizes and the
data is checked by the evaluator, which can still report per-eigenpair
results for a partly inconsistent file.
*/
func ReadEigenset(r io.Reader) (*Eigenset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading eigenset: %w", err)
	}

	es := &Eigenset{}
	if err := yaml.UnmarshalStrict(raw, es); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return es, nil
}

// LoadEigenset reads the eigenset stored at path.
func LoadEigenset(path string) (*Eigenset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	es, err := ReadEigenset(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	errnie.Info("loaded eigenset %s - size %d, eigenpairs %d",
		path, es.EigenvectorSize, len(es.Eigenpairs))
	return es, nil
}

// WriteEigenset encodes es as YAML.
func WriteEigenset(w io.Writer, es *Eigenset) error {
	raw, err := yaml.Marshal(es)
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

// SaveEigenset writes es to path. An existing file is only replaced when overwrite is set.
func SaveEigenset(path string, es *Eigenset, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%s already exists, refusing to overwrite", path)
	}
	if err != nil {
		return err
	}

	if err := WriteEigenset(f, es); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
