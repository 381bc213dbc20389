// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synspec

import (
	"github.com/emer/connect/connspec"
	"github.com/emer/connect/sli"
)

// DefaultModel is the synapse model used when none is given.
const DefaultModel = "static_synapse"

// KeyModel selects the synapse model in a synapse mapping.
const KeyModel = "model"

// SynSpec is a resolved synapse specification: a model name plus a set of
// classified parameter values.  It is built per connect call and never retained.
type SynSpec struct {

	// synapse model name
	Model string `def:"static_synapse"`

	// parameter values by name
	Params map[string]Value
}

// Default returns the default spec: static_synapse with no parameters.
func Default() *SynSpec {
	return &SynSpec{Model: DefaultModel, Params: map[string]Value{}}
}

// Resolve normalizes a synapse request.  nil yields Default(), a string is
// the model name, and a mapping selects the model with its "model" key and
// gives parameters with all other keys.  Parameter values are classified
// eagerly: numbers become Scalar, one-dimensional sequences EdgeArray,
// rectangular two-dimensional sequences Matrix, and mappings with a
// "distribution" key Distribution.  Anything else is a *connspec.ConfigError.
func Resolve(input any) (*SynSpec, error) {
	switch x := input.(type) {
	case nil:
		return Default(), nil
	case *SynSpec:
		return x.Clone(), nil
	case string:
		return resolveName(x)
	case sli.Literal:
		return resolveName(string(x))
	case sli.Dict:
		return resolveMap(x)
	case map[string]any:
		return resolveMap(x)
	}
	return nil, connspec.Errorf("syn_spec", "needs to be a string or mapping, not %T", input)
}

func resolveName(name string) (*SynSpec, error) {
	if name == "" {
		return nil, connspec.Errorf(KeyModel, "empty synapse model name")
	}
	ss := Default()
	ss.Model = name
	return ss, nil
}

func resolveMap(m map[string]any) (*SynSpec, error) {
	ss := Default()
	for k, v := range m {
		if k == KeyModel {
			switch nm := v.(type) {
			case string:
				ss.Model = nm
			case sli.Literal:
				ss.Model = string(nm)
			default:
				return nil, connspec.Errorf(KeyModel, "must be a string, not %T", v)
			}
			if ss.Model == "" {
				return nil, connspec.Errorf(KeyModel, "empty synapse model name")
			}
			continue
		}
		pv, err := Classify(k, v)
		if err != nil {
			return nil, err
		}
		ss.Params[k] = pv
	}
	return ss, nil
}

// Clone returns a deep copy of the spec.
func (ss *SynSpec) Clone() *SynSpec {
	cp := &SynSpec{Model: ss.Model, Params: make(map[string]Value, len(ss.Params))}
	for k, v := range ss.Params {
		switch x := v.(type) {
		case EdgeArray:
			cp.Params[k] = append(EdgeArray{}, x...)
		case Matrix:
			cp.Params[k] = NewMatrix(x.Host().([][]float64))
		case Distribution:
			ps := make(map[string]float64, len(x.Params))
			for pk, pv := range x.Params {
				ps[pk] = pv
			}
			cp.Params[k] = Distribution{Name: x.Name, Params: ps}
		default:
			cp.Params[k] = v
		}
	}
	return cp
}

// Map returns the canonical host mapping of the spec.  Resolve(ss.Map())
// yields a spec equal to ss.
func (ss *SynSpec) Map() map[string]any {
	m := map[string]any{KeyModel: ss.Model}
	for k, v := range ss.Params {
		m[k] = v.Host()
	}
	return m
}

// Datum returns the synapse dictionary for the spec's own parameters.
func (ss *SynSpec) Datum() sli.Dict {
	return Datum(ss.Model, ss.Params)
}

// String returns the SLI form of the spec.
func (ss *SynSpec) String() string {
	return sli.Format(ss.Datum())
}

// Datum returns the synapse dictionary pushed to the kernel for a model and
// a (typically validated) parameter set.
func Datum(model string, params map[string]Value) sli.Dict {
	d := sli.Dict{KeyModel: sli.Literal(model)}
	for k, v := range params {
		d[k] = v.Datum()
	}
	return d
}
