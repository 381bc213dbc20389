// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math"

	"github.com/emer/connect/connstore"
	"github.com/emer/connect/sli"
)

// synParam is the source of one synapse parameter's per-connection values:
// a constant, a per-edge array or a distribution.
type synParam struct {
	name   string
	scalar float64
	vec    []float64
	dist   *Dist
}

func (sp *synParam) value(k *Kernel, idx int) float64 {
	switch {
	case sp.vec != nil:
		return sp.vec[idx]
	case sp.dist != nil:
		return sp.dist.Gen(k.erng)
	}
	return sp.scalar
}

// synSpec is a synapse dictionary parsed against the model registry.
type synSpec struct {
	model  *Model
	label  int
	params []*synParam
}

// parseSyn parses a synapse model name or dictionary.  If onlyModel is
// set, no parameters may be given.
func (k *Kernel) parseSyn(d any, onlyModel bool) (*synSpec, error) {
	ss := &synSpec{label: connstore.Unlabeled}
	name := k.Models.List[0].Name
	var dict sli.Dict
	switch x := d.(type) {
	case sli.Dict:
		dict = x
		if mv, has := x["model"]; has {
			nm, ok := literal(mv)
			if !ok {
				return nil, kerrf("ArgumentType", "synapse model must be a literal, not %s", sli.TypeName(mv))
			}
			name = nm
		}
	default:
		nm, ok := literal(d)
		if !ok {
			return nil, kerrf("ArgumentType", "synapse spec must be a dictionary or literal, not %s", sli.TypeName(d))
		}
		name = nm
	}
	md, has := k.Models.ByName(name)
	if !has {
		return nil, kerrf("UnknownSynapseType", "synapse type %s does not exist", name)
	}
	ss.model = md
	for _, key := range dict.Keys() {
		if key == "model" {
			continue
		}
		v := dict[key]
		if onlyModel || !md.Has(key) {
			return nil, kerrf("UnaccessedDictionaryEntry", "%s is not a parameter of %s", key, md.Name)
		}
		if key == KeyLabel {
			lbl, ok := v.(int64)
			if !ok || lbl < 0 {
				return nil, kerrf("BadProperty", "synapse_label must be a non-negative integer")
			}
			ss.label = int(lbl)
			continue
		}
		sp := &synParam{name: key}
		switch x := v.(type) {
		case int64:
			sp.scalar = float64(x)
		case float64:
			sp.scalar = x
		case sli.Dict:
			ds, err := NewDist(x)
			if err != nil {
				return nil, err
			}
			sp.dist = ds
		default:
			vec, ok := vector(v)
			if !ok {
				return nil, kerrf("BadProperty", "parameter %s has unsupported type %s", key, sli.TypeName(v))
			}
			sp.vec = vec
		}
		ss.params = append(ss.params, sp)
	}
	return ss, nil
}

// conns realizes the connections of the given edges whose targets are local
// to this rank.  n is the required length of per-edge arrays.  Nothing is
// stored.
func (k *Kernel) conns(ss *synSpec, es []Edge, n int) ([]connstore.Conn, error) {
	for _, sp := range ss.params {
		if sp.vec != nil && len(sp.vec) != n {
			return nil, kerrf("DimensionMismatch", "parameter %s has %d values, expected %d", sp.name, len(sp.vec), n)
		}
	}
	md := ss.model
	extra := md.ParamNames()
	out := make([]connstore.Conn, 0, len(es))
	for _, e := range es {
		if !k.Params.IsLocal(e.Tgt) {
			continue
		}
		c := connstore.Conn{
			Source:  e.Src,
			Target:  e.Tgt,
			Thread:  k.Params.Thread(e.Tgt),
			ModelID: md.ID,
			Label:   ss.label,
			Weight:  md.Defaults[KeyWeight],
			Delay:   md.Defaults[KeyDelay],
		}
		if len(extra) > 0 {
			c.Params = make(map[string]float64, len(extra))
			for _, nm := range extra {
				c.Params[nm] = md.Defaults[nm]
			}
		}
		for _, sp := range ss.params {
			v := sp.value(k, e.Idx)
			switch sp.name {
			case KeyWeight:
				c.Weight = v
			case KeyDelay:
				c.Delay = v
			default:
				c.Params[sp.name] = v
			}
		}
		if math.IsNaN(c.Delay) || c.Delay < k.Params.Resolution-1e-12 {
			return nil, kerrf("BadDelay", "delay %g of %d -> %d is below the resolution %g", c.Delay, c.Source, c.Target, k.Params.Resolution)
		}
		out = append(out, c)
	}
	return out, nil
}

// add stores connections.
func (k *Kernel) add(cs []connstore.Conn) error {
	for _, c := range cs {
		if _, err := k.store.Add(c); err != nil {
			return err
		}
	}
	return nil
}
