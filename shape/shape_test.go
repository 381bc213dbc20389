// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"errors"
	"testing"

	"github.com/emer/connect/connspec"
	"github.com/emer/connect/synspec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spec(t *testing.T, in any) *connspec.ConnSpec {
	t.Helper()
	cs, err := connspec.Resolve(in)
	require.NoError(t, err)
	return cs
}

func TestOneToOneArray(t *testing.T) {
	cs := spec(t, "one_to_one")
	in := map[string]synspec.Value{"weight": synspec.EdgeArray{1, 2, 3}}
	out, err := Validate(cs, 3, 2, in)
	require.NoError(t, err)
	assert.Equal(t, synspec.EdgeArray{1, 2, 3}, out["weight"])

	_, err = Validate(cs, 3, 2, map[string]synspec.Value{"weight": synspec.EdgeArray{1, 2}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShape))
	var se *ShapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "weight", se.Param)
	assert.Equal(t, "3", se.Want)
	assert.Equal(t, "2", se.Got)
	assert.Contains(t, se.Error(), "'weight' has to be an array of dimension 3")
}

func TestAllToAllMatrix(t *testing.T) {
	cs := spec(t, "all_to_all")
	mx := synspec.NewMatrix([][]float64{{1, 2, 3}, {4, 5, 6}})
	in := map[string]synspec.Value{"weight": mx, "delay": synspec.Scalar{Val: 1.5}}
	out, err := Validate(cs, 3, 2, in)
	require.NoError(t, err)
	assert.Equal(t, synspec.EdgeArray{1, 2, 3, 4, 5, 6}, out["weight"])
	assert.Equal(t, synspec.Scalar{Val: 1.5}, out["delay"])
	_, still := in["weight"].(synspec.Matrix)
	assert.True(t, still, "input is not modified")

	// transposed
	_, err = Validate(cs, 3, 2, map[string]synspec.Value{"weight": synspec.NewMatrix([][]float64{{1, 2}, {3, 4}, {5, 6}})})
	var se *ShapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "2x3", se.Want)
	assert.Equal(t, "3x2", se.Got)
	assert.Contains(t, se.Error(), "n_target x n_sources")
}

func TestStrictRuleCombinations(t *testing.T) {
	mx := synspec.NewMatrix([][]float64{{1, 2}, {3, 4}})
	// 2-D under one_to_one fails even though 2x2 "fits" 2 sources and 2 targets
	_, err := Validate(spec(t, "one_to_one"), 2, 2, map[string]synspec.Value{"weight": mx})
	assert.True(t, errors.Is(err, ErrShape))
	var se *ShapeError
	require.True(t, errors.As(err, &se))
	assert.Empty(t, se.Want)
	assert.Contains(t, se.Error(), "Two-dimensional parameter arrays can only be used in conjunction with rule 'all_to_all'")

	// 1-D under anything but one_to_one fails, whatever its length
	others := []any{
		"all_to_all",
		map[string]any{"rule": "fixed_outdegree", "outdegree": 1},
		map[string]any{"rule": "fixed_indegree", "indegree": 1},
		map[string]any{"rule": "fixed_total_number", "N": 2},
		map[string]any{"rule": "pairwise_bernoulli", "p": 0.5},
	}
	for _, o := range others {
		_, err := Validate(spec(t, o), 2, 2, map[string]synspec.Value{"weight": synspec.EdgeArray{1, 2}})
		assert.True(t, errors.Is(err, ErrShape), "rule %v", o)
	}
	// and 2-D under anything but all_to_all
	_, err = Validate(spec(t, map[string]any{"rule": "fixed_indegree", "indegree": 2}), 2, 2, map[string]synspec.Value{"weight": mx})
	assert.True(t, errors.Is(err, ErrShape))
}

func TestPassThrough(t *testing.T) {
	cs := spec(t, map[string]any{"rule": "pairwise_bernoulli", "p": 0.2})
	ds := synspec.Distribution{Name: "normal", Params: map[string]float64{"mu": 1, "sigma": 0.1}}
	in := map[string]synspec.Value{"weight": ds, "delay": synspec.Scalar{Val: 2, Int: true}}
	out, err := Validate(cs, 10, 10, in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFirstErrorByName(t *testing.T) {
	cs := spec(t, "all_to_all")
	in := map[string]synspec.Value{
		"b": synspec.EdgeArray{1},
		"a": synspec.EdgeArray{1},
	}
	_, err := Validate(cs, 1, 1, in)
	var se *ShapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "a", se.Param)
}
