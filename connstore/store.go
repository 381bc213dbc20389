// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package connstore holds the connection table of the reference kernel.
package connstore

import (
	"errors"
	"sort"
)

// Unlabeled is the label of connections without a synapse label.
const Unlabeled = -1

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("connstore: store closed")

// Conn is one synaptic connection.
type Conn struct {
	Source int
	Target int

	// thread of the target node
	Thread int

	// index of the synapse model in the kernel's model registry
	ModelID int

	// index of the connection among those with the same Source and ModelID
	Port int

	// synapse label, Unlabeled if none
	Label int

	Weight float64
	Delay  float64

	// additional model-specific parameters
	Params map[string]float64 `json:",omitempty"`
}

// Filter selects connections.  Empty Sources / Targets match any node,
// negative ModelID / Label match any model / label.
type Filter struct {
	Sources []int
	Targets []int
	ModelID int
	Label   int
}

// AnyFilter returns a filter that matches every connection.
func AnyFilter() Filter {
	return Filter{ModelID: -1, Label: -1}
}

// Match returns true if c passes the filter.
func (f *Filter) Match(c *Conn) bool {
	if f.ModelID >= 0 && c.ModelID != f.ModelID {
		return false
	}
	if f.Label >= 0 && c.Label != f.Label {
		return false
	}
	if len(f.Sources) > 0 && !containsInt(f.Sources, c.Source) {
		return false
	}
	if len(f.Targets) > 0 && !containsInt(f.Targets, c.Target) {
		return false
	}
	return true
}

// Store is a connection table.
type Store interface {
	// Add inserts c, assigning its Port, and returns the stored connection.
	Add(c Conn) (Conn, error)

	// Remove deletes the first connection from src to tgt with the given
	// model, returning false if there is none.
	Remove(src, tgt, modelID int) (bool, error)

	// Query returns matching connections sorted by Source, ModelID, Port.
	Query(f Filter) ([]Conn, error)

	// Len returns the number of stored connections.
	Len() (int, error)
}

// SortConns sorts connections by Source, ModelID, Port.
func SortConns(cs []Conn) {
	sort.Slice(cs, func(i, j int) bool {
		a, b := &cs[i], &cs[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.ModelID != b.ModelID {
			return a.ModelID < b.ModelID
		}
		return a.Port < b.Port
	})
}

func containsInt(is []int, v int) bool {
	for _, i := range is {
		if i == v {
			return true
		}
	}
	return false
}
