package qmag

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const yamlEigenset = `
eigenvectorSize: 4
numberEigenvectors: 2
eigenpairs:
  - Bx: 0.5
    Bz: 0.01
    Eigenvector: [1, 0, 0, 0]
  - Bx: 1.5
    Bz: 0.01
    Eigenvalue: -2.25
    Eigenvector: [0, 0.7071, 0.7071, 0]
`

const jsonEigenset = `{"eigenvectorSize": 2, "numberEigenvectors": 1,
 "eigenpairs": [{"Bx": 0.1, "Bz": 0.2, "Eigenvector": [0, 1]}]}`

func TestReadEigenset(t *testing.T) {
	Convey("Given serialized eigensets", t, func() {
		Convey("YAML documents decode into the data model", func() {
			es, err := ReadEigenset(strings.NewReader(yamlEigenset))
			So(err, ShouldBeNil)
			So(es.EigenvectorSize, ShouldEqual, 4)
			So(es.NumberEigenvectors, ShouldEqual, 2)
			So(es.Eigenpairs[0].Bx, ShouldEqual, 0.5)
			So(es.Eigenpairs[1].Eigenvalue, ShouldEqual, -2.25)
			So(es.Eigenpairs[1].Eigenvector, ShouldResemble, []float64{0, 0.7071, 0.7071, 0})
		})

		Convey("JSON documents share the schema", func() {
			es, err := ReadEigenset(strings.NewReader(jsonEigenset))
			So(err, ShouldBeNil)
			So(es.Eigenpairs[0].Bz, ShouldEqual, 0.2)
			So(es.Eigenpairs[0].Eigenvector, ShouldResemble, []float64{0, 1})
		})

		Convey("Unknown keys and broken syntax are malformed", func() {
			_, err := ReadEigenset(strings.NewReader("eigenvectorSize: 4\nqubits: 2\n"))
			So(errors.Is(err, ErrMalformed), ShouldBeTrue)

			_, err = ReadEigenset(strings.NewReader("eigenpairs: [\n"))
			So(errors.Is(err, ErrMalformed), ShouldBeTrue)
		})

		Convey("Inconsistent sizes are left for the evaluator", func() {
			es, err := ReadEigenset(strings.NewReader("eigenvectorSize: 5\nnumberEigenvectors: 0\n"))
			So(err, ShouldBeNil)
			So(es.EigenvectorSize, ShouldEqual, 5)
		})
	})
}

func TestSaveEigenset(t *testing.T) {
	Convey("Given an eigenset on disk", t, func() {
		path := filepath.Join(t.TempDir(), "results.eigenset")
		es := NewEigenset(4,
			Eigenpair{Bx: 0.25, Bz: 0.01, Eigenvalue: -1.5, Eigenvector: []float64{0.6, 0, 0, 0.8}},
		)
		So(SaveEigenset(path, es, false), ShouldBeNil)

		Convey("It loads back unchanged", func() {
			loaded, err := LoadEigenset(path)
			So(err, ShouldBeNil)
			So(loaded, ShouldResemble, es)
		})

		Convey("It is not overwritten by default", func() {
			err := SaveEigenset(path, NewEigenset(2), false)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "already exists")

			loaded, _ := LoadEigenset(path)
			So(loaded.NumberEigenvectors, ShouldEqual, 1)
		})

		Convey("It is replaced when overwrite is requested", func() {
			So(SaveEigenset(path, NewEigenset(2), true), ShouldBeNil)

			loaded, err := LoadEigenset(path)
			So(err, ShouldBeNil)
			So(loaded.NumberEigenvectors, ShouldEqual, 0)
		})

		Convey("Loading a missing file reports the OS error", func() {
			_, err := LoadEigenset(path + ".missing")
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})

	Convey("Given a writer", t, func() {
		var buf bytes.Buffer
		So(WriteEigenset(&buf, NewEigenset(2, Eigenpair{Eigenvector: []float64{1, 0}})), ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, "eigenvectorSize: 2")
		So(buf.String(), ShouldNotContainSubstring, "Eigenvalue")
	})
}
