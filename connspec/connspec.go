// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package connspec

import (
	"math"
	"sort"

	"github.com/emer/connect/sli"
)

// Reserved keys of a connectivity mapping that are not rule parameters.
const (
	KeyRule      = "rule"
	KeyAutapses  = "autapses"
	KeyMultapses = "multapses"
	KeySymmetric = "symmetric"
)

// ConnSpec is a resolved connectivity specification.  It is built per
// connect call and never retained.
type ConnSpec struct {

	// connectivity rule
	Rule Rule

	// rule parameters -- exactly the keys given by Rule.Keys()
	Params map[string]float64

	// allow self-connections
	Autapses bool `def:"true"`

	// allow multiple edges between the same ordered pair
	Multapses bool `def:"true"`

	// also create the reverse of every edge
	Symmetric bool `def:"false"`
}

// Default returns the all_to_all spec with default flags.
func Default() *ConnSpec {
	cs := &ConnSpec{Rule: AllToAll}
	cs.Defaults()
	return cs
}

// Defaults sets the flag defaults and clears rule parameters.
func (cs *ConnSpec) Defaults() {
	cs.Params = map[string]float64{}
	cs.Autapses = true
	cs.Multapses = true
	cs.Symmetric = false
}

// Resolve normalizes a connectivity request, which is either a rule name
// (canonical or alias) or a mapping with a "rule" key plus rule parameters
// and the reserved autapses / multapses / symmetric flags.  Any other input,
// an unknown rule, or a parameter set that does not match the rule exactly,
// is a *ConfigError.
func Resolve(input any) (*ConnSpec, error) {
	switch x := input.(type) {
	case *ConnSpec:
		if x == nil {
			break
		}
		cs := x.Clone()
		if err := cs.checkKeys(); err != nil {
			return nil, err
		}
		return cs, nil
	case string:
		return resolveName(x)
	case sli.Literal:
		return resolveName(string(x))
	case sli.Dict:
		return resolveMap(x)
	case map[string]any:
		return resolveMap(x)
	}
	return nil, Errorf("conn_spec", "needs to be a string or mapping, not %T", input)
}

func resolveName(name string) (*ConnSpec, error) {
	cs, err := resolveRule(name)
	if err != nil {
		return nil, err
	}
	if err := cs.checkKeys(); err != nil {
		return nil, err
	}
	return cs, nil
}

func resolveMap(m map[string]any) (*ConnSpec, error) {
	rv, has := m[KeyRule]
	if !has {
		return nil, Errorf(KeyRule, "missing from conn_spec mapping")
	}
	var name string
	switch r := rv.(type) {
	case string:
		name = r
	case sli.Literal:
		name = string(r)
	default:
		return nil, Errorf(KeyRule, "must be a string, not %T", rv)
	}
	cs, err := resolveRule(name)
	if err != nil {
		return nil, err
	}
	for _, k := range sortedKeys(m) {
		v := m[k]
		switch k {
		case KeyRule:
			continue
		case KeyAutapses:
			cs.Autapses, err = boolValue(k, v)
		case KeyMultapses:
			cs.Multapses, err = boolValue(k, v)
		case KeySymmetric:
			cs.Symmetric, err = boolValue(k, v)
		default:
			cs.Params[k], err = numberValue(k, v)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := cs.checkKeys(); err != nil {
		return nil, err
	}
	return cs, nil
}

func resolveRule(name string) (*ConnSpec, error) {
	cs := Default()
	rule, ok := ParseRule(name)
	if !ok {
		return nil, Errorf(KeyRule, "unknown connection rule %q", name)
	}
	cs.Rule = rule
	return cs, nil
}

// checkKeys enforces that Params holds exactly the rule's keys, with
// values in range.
func (cs *ConnSpec) checkKeys() error {
	want := cs.Rule.Keys()
	for _, k := range want {
		if _, has := cs.Params[k]; !has {
			return Errorf(k, "required by rule %s", cs.Rule)
		}
	}
	for _, k := range sortedKeys(cs.Params) {
		if !contains(want, k) {
			return Errorf(k, "not a parameter of rule %s", cs.Rule)
		}
		v := cs.Params[k]
		switch k {
		case "p":
			if v < 0 || v > 1 || math.IsNaN(v) {
				return Errorf(k, "probability %g not in [0, 1]", v)
			}
		default:
			if v < 0 || v != math.Trunc(v) || math.IsInf(v, 0) {
				return Errorf(k, "must be a non-negative integer, not %g", v)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the spec.
func (cs *ConnSpec) Clone() *ConnSpec {
	cp := *cs
	cp.Params = make(map[string]float64, len(cs.Params))
	for k, v := range cs.Params {
		cp.Params[k] = v
	}
	return &cp
}

// Int returns an integer rule parameter (indegree, outdegree, N).
func (cs *ConnSpec) Int(key string) int {
	return int(cs.Params[key])
}

// Map returns the canonical host mapping for the spec.  Resolve(cs.Map())
// yields a spec equal to cs.
func (cs *ConnSpec) Map() map[string]any {
	m := map[string]any{
		KeyRule:      cs.Rule.String(),
		KeyAutapses:  cs.Autapses,
		KeyMultapses: cs.Multapses,
		KeySymmetric: cs.Symmetric,
	}
	for k, v := range cs.Params {
		if k == "p" {
			m[k] = v
		} else {
			m[k] = int(v)
		}
	}
	return m
}

// Datum returns the connectivity dictionary pushed to the kernel.
func (cs *ConnSpec) Datum() sli.Dict {
	d := sli.Dict{
		KeyRule:      sli.Literal(cs.Rule.String()),
		KeyAutapses:  cs.Autapses,
		KeyMultapses: cs.Multapses,
		KeySymmetric: cs.Symmetric,
	}
	for k, v := range cs.Params {
		if k == "p" {
			d[k] = v
		} else {
			d[k] = int64(v)
		}
	}
	return d
}

// String returns the SLI form of the spec.
func (cs *ConnSpec) String() string {
	return sli.Format(cs.Datum())
}

func boolValue(key string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, Errorf(key, "must be a bool, not %T", v)
	}
	return b, nil
}

// numberValue accepts any Go integer or float kind.
func numberValue(key string, v any) (float64, error) {
	switch x := v.(type) {
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	}
	return 0, Errorf(key, "must be numeric, not %T", v)
}

func sortedKeys[V any](m map[string]V) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func contains(ss []string, s string) bool {
	for _, e := range ss {
		if e == s {
			return true
		}
	}
	return false
}
