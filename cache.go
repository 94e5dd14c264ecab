package qmag

import (
	"strconv"
	"sync"

	"github.com/theapemachine/errnie"
	"golang.org/x/sync/singleflight"
)

// tableCache memoizes magnetization tables per qubit count. Concurrent
// misses for the same count share a single build.
type tableCache struct {
	tables sync.Map
	group  singleflight.Group
}

// get returns the shared table for n qubits. Callers must not modify it.
func (tc *tableCache) get(n int) ([]float64, error) {
	if table, ok := tc.tables.Load(n); ok {
		return table.([]float64), nil
	}

	v, err, _ := tc.group.Do(strconv.Itoa(n), func() (any, error) {
		if table, ok := tc.tables.Load(n); ok {
			return table, nil
		}

		basis, err := Basis(n)
		if err != nil {
			return nil, err
		}

		table, err := MagnetizationTable(basis, n)
		if err != nil {
			return nil, err
		}

		errnie.Info("built magnetization table - qubits %d, states %d", n, len(table))
		tc.tables.Store(n, table)
		return table, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]float64), nil
}
