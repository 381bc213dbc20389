// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shape checks array-valued synapse parameters against the
// connectivity rule and population sizes of a connect call, and flattens
// target x source matrices into the edge order the kernel expects.
//
// Only two combinations are supported: a one-dimensional array of length
// n_source under one_to_one, and a two-dimensional n_target x n_source array
// under all_to_all.  Every other combination is rejected, even when the
// dimensions would happen to fit.
package shape

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/emer/connect/connspec"
	"github.com/emer/connect/synspec"
)

// ErrShape is the class of all array shape errors.  Test with errors.Is(err, ErrShape).
var ErrShape = errors.New("shape error")

// ShapeError reports an array parameter that does not fit the connect call.
type ShapeError struct {

	// parameter name
	Param string

	// connectivity rule of the call
	Rule connspec.Rule

	// number of dimensions of the offending array (1 or 2)
	Dims int

	// expected dimension, e.g. "3" or "2x3" -- empty if no shape is acceptable under Rule
	Want string

	// actual dimension
	Got string
}

func (se *ShapeError) Error() string {
	if se.Want == "" {
		var need connspec.Rule
		if se.Dims == 1 {
			need = connspec.OneToOne
		} else {
			need = connspec.AllToAll
		}
		return fmt.Sprintf("'%s' has the wrong type. %s parameter arrays can only be used in conjunction with rule '%s', not '%s'",
			se.Param, dimsName(se.Dims), need, se.Rule)
	}
	if se.Dims == 2 {
		return fmt.Sprintf("'%s' has to be an array of dimension %s (n_target x n_sources), a scalar or a dictionary; got %s",
			se.Param, se.Want, se.Got)
	}
	return fmt.Sprintf("'%s' has to be an array of dimension %s, a scalar or a dictionary; got %s",
		se.Param, se.Want, se.Got)
}

// Is reports ShapeError as ErrShape.
func (se *ShapeError) Is(target error) bool {
	return target == ErrShape
}

func dimsName(n int) string {
	if n == 1 {
		return "One-dimensional"
	}
	return "Two-dimensional"
}

// Validate checks every array-valued parameter against the rule and the
// population sizes, and returns the kernel-bound parameter set: matrices are
// replaced by an EdgeArray holding their row-major (target-major) flattening,
// all other values are passed through.  params is not modified.  Parameters
// are checked in name order, and the first misfit is returned as *ShapeError.
func Validate(cs *connspec.ConnSpec, preSize, postSize int, params map[string]synspec.Value) (map[string]synspec.Value, error) {
	out := make(map[string]synspec.Value, len(params))
	for _, nm := range synspec.Names(params) {
		v := params[nm]
		switch x := v.(type) {
		case synspec.EdgeArray:
			if cs.Rule != connspec.OneToOne {
				return nil, &ShapeError{Param: nm, Rule: cs.Rule, Dims: 1, Got: strconv.Itoa(len(x))}
			}
			if len(x) != preSize {
				return nil, &ShapeError{Param: nm, Rule: cs.Rule, Dims: 1, Want: strconv.Itoa(preSize), Got: strconv.Itoa(len(x))}
			}
			out[nm] = x
		case synspec.Matrix:
			got := fmt.Sprintf("%dx%d", x.Rows(), x.Cols())
			if cs.Rule != connspec.AllToAll {
				return nil, &ShapeError{Param: nm, Rule: cs.Rule, Dims: 2, Got: got}
			}
			if x.Rows() != postSize || x.Cols() != preSize {
				return nil, &ShapeError{Param: nm, Rule: cs.Rule, Dims: 2, Want: fmt.Sprintf("%dx%d", postSize, preSize), Got: got}
			}
			out[nm] = synspec.EdgeArray(x.Flat())
		default:
			out[nm] = v
		}
	}
	return out, nil
}
