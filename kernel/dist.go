// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math"

	"github.com/emer/connect/sli"
	"github.com/emer/emergent/v2/erand"
)

// distDef describes a supported distribution: its parameters with defaults,
// and how to turn them into random parameters.
type distDef struct {
	params map[string]float64
	setup  func(p map[string]float64) (erand.RndParams, error)
	post   func(p map[string]float64, x float64) float64
}

var distDefs = map[string]*distDef{
	"uniform": {
		params: map[string]float64{"low": 0, "high": 1},
		setup: func(p map[string]float64) (erand.RndParams, error) {
			lo, hi := p["low"], p["high"]
			if hi < lo {
				return erand.RndParams{}, kerrf("BadProperty", "uniform: high %g < low %g", hi, lo)
			}
			return erand.RndParams{Dist: erand.Uniform, Mean: 0.5 * (lo + hi), Var: 0.5 * (hi - lo)}, nil
		},
	},
	"normal": {
		params: map[string]float64{"mu": 0, "sigma": 1},
		setup:  gaussian,
	},
	"lognormal": {
		params: map[string]float64{"mu": 0, "sigma": 1},
		setup:  gaussian,
		post:   func(p map[string]float64, x float64) float64 { return math.Exp(x) },
	},
	"exponential": {
		params: map[string]float64{"lambda": 1},
		setup: func(p map[string]float64) (erand.RndParams, error) {
			if p["lambda"] <= 0 {
				return erand.RndParams{}, kerrf("BadProperty", "exponential: lambda must be positive")
			}
			return erand.RndParams{Dist: erand.Uniform, Mean: 0.5, Var: 0.5}, nil
		},
		post: func(p map[string]float64, x float64) float64 { return -math.Log(1-x) / p["lambda"] },
	},
	"poisson": {
		params: map[string]float64{"lambda": 1},
		setup: func(p map[string]float64) (erand.RndParams, error) {
			if p["lambda"] < 0 {
				return erand.RndParams{}, kerrf("BadProperty", "poisson: lambda must not be negative")
			}
			return erand.RndParams{Dist: erand.Poisson, Var: p["lambda"]}, nil
		},
	},
	"gamma": {
		params: map[string]float64{"order": 1, "scale": 1},
		setup: func(p map[string]float64) (erand.RndParams, error) {
			if p["order"] <= 0 || p["scale"] <= 0 {
				return erand.RndParams{}, kerrf("BadProperty", "gamma: order and scale must be positive")
			}
			return erand.RndParams{Dist: erand.Gamma, Par: p["order"], Var: 1 / p["scale"]}, nil
		},
	},
	"binomial": {
		params: map[string]float64{"n": 1, "p": 0.5},
		setup: func(p map[string]float64) (erand.RndParams, error) {
			if p["p"] < 0 || p["p"] > 1 || p["n"] < 0 {
				return erand.RndParams{}, kerrf("BadProperty", "binomial: need n >= 0 and p in [0, 1]")
			}
			return erand.RndParams{Dist: erand.Binomial, Par: p["n"], Var: p["p"]}, nil
		},
	},
}

func gaussian(p map[string]float64) (erand.RndParams, error) {
	if p["sigma"] < 0 {
		return erand.RndParams{}, kerrf("BadProperty", "sigma must not be negative")
	}
	return erand.RndParams{Dist: erand.Gaussian, Mean: p["mu"], Var: p["sigma"]}, nil
}

// Dist is a parameter distribution realized per connection.
type Dist struct {
	Name   string
	Params map[string]float64
	Rnd    erand.RndParams

	def *distDef
}

// NewDist makes a distribution from its dictionary form:
// << /distribution /normal /mu 1. /sigma .1 >>.
func NewDist(d sli.Dict) (*Dist, error) {
	nm, ok := literal(d["distribution"])
	if !ok {
		return nil, kerrf("BadProperty", "distribution name must be a literal")
	}
	def, has := distDefs[nm]
	if !has {
		return nil, kerrf("BadProperty", "unknown distribution %q", nm)
	}
	ds := &Dist{Name: nm, Params: make(map[string]float64, len(def.params)), def: def}
	for k, v := range def.params {
		ds.Params[k] = v
	}
	for _, k := range d.Keys() {
		if k == "distribution" {
			continue
		}
		if _, has := def.params[k]; !has {
			return nil, kerrf("UnaccessedDictionaryEntry", "distribution %s has no parameter %s", nm, k)
		}
		f, ok := number(d[k])
		if !ok {
			return nil, kerrf("BadProperty", "distribution parameter %s must be numeric", k)
		}
		ds.Params[k] = f
	}
	rp, err := def.setup(ds.Params)
	if err != nil {
		return nil, err
	}
	ds.Rnd = rp
	return ds, nil
}

// Gen draws one value.
func (ds *Dist) Gen(rnd erand.Rand) float64 {
	x := ds.Rnd.Gen(-1, rnd)
	if ds.def.post != nil {
		x = ds.def.post(ds.Params, x)
	}
	return x
}
