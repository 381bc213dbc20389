// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synspec

import (
	"errors"
	"sort"

	"github.com/emer/connect/sli"
	"github.com/emer/etable/v2/etensor"
	"github.com/goki/ki/kit"
)

// Kind is the kind of a synapse parameter value.
type Kind int32

var KiT_Kind = kit.Enums.AddEnum(KindN, false, nil)

func (ev Kind) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Kind) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// ScalarKind is one value for all edges
	ScalarKind Kind = iota

	// EdgeArrayKind is one value per edge, in edge order
	EdgeArrayKind

	// MatrixKind is a n_target x n_source matrix of values
	MatrixKind

	// DistributionKind draws each edge's value from a named distribution
	DistributionKind

	KindN
)

var kindNames = [...]string{"Scalar", "EdgeArray", "Matrix", "Distribution"}

func (ev Kind) String() string {
	if ev < 0 || ev >= KindN {
		return "Kind(?)"
	}
	return kindNames[ev]
}

// FromString sets the kind from its name.
func (ev *Kind) FromString(s string) error {
	for i, nm := range kindNames {
		if nm == s {
			*ev = Kind(i)
			return nil
		}
	}
	return errors.New("String: " + s + " is not a valid option for type: Kind")
}

// Value is a synapse parameter value.  It is a closed set: Scalar,
// EdgeArray, Matrix and Distribution are the only implementations.
type Value interface {
	// Kind returns the kind of value
	Kind() Kind

	// Datum returns the value as pushed to the kernel
	Datum() any

	// Host returns the value in canonical host form, as accepted by Resolve
	Host() any

	isValue()
}

// Scalar is a single value applied to every edge.
type Scalar struct {
	Val float64

	// Int is set when the value was given as an integer and is passed on as one
	Int bool
}

func (sc Scalar) Kind() Kind { return ScalarKind }
func (sc Scalar) isValue()   {}

func (sc Scalar) Datum() any {
	if sc.Int {
		return int64(sc.Val)
	}
	return sc.Val
}

func (sc Scalar) Host() any {
	if sc.Int {
		return int(sc.Val)
	}
	return sc.Val
}

// EdgeArray holds one value per edge.
type EdgeArray []float64

func (ea EdgeArray) Kind() Kind { return EdgeArrayKind }
func (ea EdgeArray) isValue()   {}
func (ea EdgeArray) Datum() any { return sli.DoubleVector(append([]float64(nil), ea...)) }
func (ea EdgeArray) Host() any  { return append([]float64{}, ea...) }

// Matrix is a two-dimensional parameter array, rows x cols, stored row-major.
// For all_to_all connections rows index targets and cols index sources.
type Matrix struct {
	Tsr *etensor.Float64
}

// NewMatrix returns a Matrix copying the given rows.  Rows must all have the
// same length, which the caller guarantees.
func NewMatrix(rows [][]float64) Matrix {
	nr := len(rows)
	nc := 0
	if nr > 0 {
		nc = len(rows[0])
	}
	tsr := etensor.NewFloat64([]int{nr, nc}, nil, []string{"Target", "Source"})
	for r, row := range rows {
		copy(tsr.Values[r*nc:(r+1)*nc], row)
	}
	return Matrix{Tsr: tsr}
}

func (mx Matrix) Kind() Kind { return MatrixKind }
func (mx Matrix) isValue()   {}

// Rows returns the number of rows (targets).
func (mx Matrix) Rows() int { return mx.Tsr.Dim(0) }

// Cols returns the number of columns (sources).
func (mx Matrix) Cols() int { return mx.Tsr.Dim(1) }

// Flat returns the row-major flattening of the matrix: all of row 0, then row 1, ...
func (mx Matrix) Flat() []float64 {
	return append([]float64{}, mx.Tsr.Values...)
}

// Row returns a copy of row r.
func (mx Matrix) Row(r int) []float64 {
	nc := mx.Cols()
	return append([]float64{}, mx.Tsr.Values[r*nc:(r+1)*nc]...)
}

func (mx Matrix) Datum() any {
	ar := make(sli.Array, mx.Rows())
	for r := range ar {
		ar[r] = sli.DoubleVector(mx.Row(r))
	}
	return ar
}

func (mx Matrix) Host() any {
	rows := make([][]float64, mx.Rows())
	for r := range rows {
		rows[r] = mx.Row(r)
	}
	return rows
}

// KeyDistribution marks a parameter mapping as a distribution descriptor.
const KeyDistribution = "distribution"

// Distribution draws each edge's value from a named distribution.  Its
// parameters are handed to the kernel verbatim; their names are not checked here.
type Distribution struct {
	Name   string
	Params map[string]float64
}

func (ds Distribution) Kind() Kind { return DistributionKind }
func (ds Distribution) isValue()   {}

func (ds Distribution) Datum() any {
	d := sli.Dict{KeyDistribution: sli.Literal(ds.Name)}
	for k, v := range ds.Params {
		d[k] = v
	}
	return d
}

func (ds Distribution) Host() any {
	m := map[string]any{KeyDistribution: ds.Name}
	for k, v := range ds.Params {
		m[k] = v
	}
	return m
}

// Param returns the named distribution parameter, or def if absent.
func (ds Distribution) Param(name string, def float64) float64 {
	if v, has := ds.Params[name]; has {
		return v
	}
	return def
}

// Names returns the sorted keys of a parameter set.
func Names(params map[string]Value) []string {
	ks := make([]string, 0, len(params))
	for k := range params {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
