// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synspec

import (
	"github.com/emer/connect/connspec"
	"github.com/emer/connect/sli"
)

// Classify turns a host parameter value into a Value.  name is used in errors.
func Classify(name string, v any) (Value, error) {
	if sc, ok := scalar(v); ok {
		return sc, nil
	}
	switch x := v.(type) {
	case Scalar:
		return x, nil
	case EdgeArray:
		return append(EdgeArray{}, x...), nil
	case Matrix:
		return NewMatrix(x.Host().([][]float64)), nil
	case Distribution:
		return x, nil
	case []float64:
		return append(EdgeArray{}, x...), nil
	case sli.DoubleVector:
		return append(EdgeArray{}, x...), nil
	case []float32:
		ea := make(EdgeArray, len(x))
		for i, f := range x {
			ea[i] = float64(f)
		}
		return ea, nil
	case []int:
		ea := make(EdgeArray, len(x))
		for i, n := range x {
			ea[i] = float64(n)
		}
		return ea, nil
	case []int64:
		return intsArray(x), nil
	case sli.IntVector:
		return intsArray(x), nil
	case [][]float64:
		return matrix(name, x)
	case [][]int:
		rows := make([][]float64, len(x))
		for r, row := range x {
			rows[r] = make([]float64, len(row))
			for c, n := range row {
				rows[r][c] = float64(n)
			}
		}
		return matrix(name, rows)
	case sli.Array:
		return sequence(name, x)
	case []any:
		return sequence(name, x)
	case sli.Dict:
		return distribution(name, x)
	case map[string]any:
		return distribution(name, x)
	}
	return nil, connspec.Errorf(name, "has the wrong type %T; must be a number, an array or a distribution mapping", v)
}

// scalar returns a Scalar for any Go number kind.
func scalar(v any) (Scalar, bool) {
	switch x := v.(type) {
	case int:
		return Scalar{Val: float64(x), Int: true}, true
	case int64:
		return Scalar{Val: float64(x), Int: true}, true
	case int32:
		return Scalar{Val: float64(x), Int: true}, true
	case uint:
		return Scalar{Val: float64(x), Int: true}, true
	case uint32:
		return Scalar{Val: float64(x), Int: true}, true
	case uint64:
		return Scalar{Val: float64(x), Int: true}, true
	case float64:
		return Scalar{Val: x}, true
	case float32:
		return Scalar{Val: float64(x)}, true
	}
	return Scalar{}, false
}

func intsArray(x []int64) EdgeArray {
	ea := make(EdgeArray, len(x))
	for i, n := range x {
		ea[i] = float64(n)
	}
	return ea
}

// sequence classifies a heterogeneous list: all numbers is an EdgeArray,
// all sequences of numbers a Matrix.  Deeper nesting is rejected.
func sequence(name string, xs []any) (Value, error) {
	if len(xs) == 0 {
		return EdgeArray{}, nil
	}
	if _, ok := scalar(xs[0]); ok {
		ea := make(EdgeArray, len(xs))
		for i, e := range xs {
			sc, ok := scalar(e)
			if !ok {
				return nil, connspec.Errorf(name, "element %d is %T, not a number", i, e)
			}
			ea[i] = sc.Val
		}
		return ea, nil
	}
	rows := make([][]float64, len(xs))
	for r, e := range xs {
		row, err := Classify(name, e)
		if err != nil {
			return nil, err
		}
		ea, ok := row.(EdgeArray)
		if !ok {
			return nil, connspec.Errorf(name, "row %d is a %v; parameter arrays must be one- or two-dimensional", r, row.Kind())
		}
		rows[r] = ea
	}
	return matrix(name, rows)
}

func matrix(name string, rows [][]float64) (Value, error) {
	for r := 1; r < len(rows); r++ {
		if len(rows[r]) != len(rows[0]) {
			return nil, connspec.Errorf(name, "ragged array: row %d has %d elements, row 0 has %d", r, len(rows[r]), len(rows[0]))
		}
	}
	return NewMatrix(rows), nil
}

func distribution(name string, m map[string]any) (Value, error) {
	dv, has := m[KeyDistribution]
	if !has {
		return nil, connspec.Errorf(name, "mapping value must contain %q", KeyDistribution)
	}
	ds := Distribution{Params: make(map[string]float64, len(m)-1)}
	switch nm := dv.(type) {
	case string:
		ds.Name = nm
	case sli.Literal:
		ds.Name = string(nm)
	default:
		return nil, connspec.Errorf(name, "distribution name must be a string, not %T", dv)
	}
	for k, v := range m {
		if k == KeyDistribution {
			continue
		}
		sc, ok := scalar(v)
		if !ok {
			return nil, connspec.Errorf(name+"."+k, "distribution parameter must be numeric, not %T", v)
		}
		ds.Params[k] = sc.Val
	}
	return ds, nil
}
