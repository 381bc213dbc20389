// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"sort"
)

const (
	// KeyWeight, KeyDelay and KeyLabel are parameters handled by every model.
	KeyWeight = "weight"
	KeyDelay  = "delay"
	KeyLabel  = "synapse_label"
)

// Model is a registered synapse model.
type Model struct {

	// name used in synapse specs
	Name string

	// index in the registry, reported as the synapse model id of connections
	ID int

	// whether connections of this model carry a synapse_label
	Labeled bool

	// default value of every parameter, including weight and delay
	Defaults map[string]float64
}

// Has returns true if name is a parameter of the model.
func (md *Model) Has(name string) bool {
	if name == KeyLabel {
		return md.Labeled
	}
	_, has := md.Defaults[name]
	return has
}

// ParamNames returns the sorted names of the model parameters other than
// weight and delay.
func (md *Model) ParamNames() []string {
	var ns []string
	for k := range md.Defaults {
		if k == KeyWeight || k == KeyDelay {
			continue
		}
		ns = append(ns, k)
	}
	sort.Strings(ns)
	return ns
}

// Models is the synapse model registry.
type Models struct {
	List   []*Model
	byName map[string]*Model
}

// Register adds a model.  Weight and delay default to 1 unless given.
func (ms *Models) Register(name string, labeled bool, defs map[string]float64) *Model {
	if ms.byName == nil {
		ms.byName = make(map[string]*Model)
	}
	md := &Model{Name: name, ID: len(ms.List), Labeled: labeled, Defaults: map[string]float64{KeyWeight: 1, KeyDelay: 1}}
	for k, v := range defs {
		md.Defaults[k] = v
	}
	ms.List = append(ms.List, md)
	ms.byName[name] = md
	return md
}

// ByName returns the model of the given name.
func (ms *Models) ByName(name string) (*Model, bool) {
	md, has := ms.byName[name]
	return md, has
}

// ByID returns the model with the given id, or nil.
func (ms *Models) ByID(id int) *Model {
	if id < 0 || id >= len(ms.List) {
		return nil
	}
	return ms.List[id]
}

// StdModels returns the registry of built-in synapse models.
func StdModels() *Models {
	ms := &Models{}
	ms.Register("static_synapse", false, nil)
	ms.Register("static_synapse_lbl", true, nil)
	ms.Register("stdp_synapse", false, map[string]float64{
		"tau_plus": 20,
		"lambda":   0.01,
		"alpha":    1,
		"mu_plus":  1,
		"mu_minus": 1,
		"Wmax":     100,
	})
	ms.Register("tsodyks_synapse", false, map[string]float64{
		"U":       0.5,
		"tau_psc": 3,
		"tau_fac": 0,
		"tau_rec": 800,
		"x":       1,
		"y":       0,
		"u":       0,
	})
	return ms
}
