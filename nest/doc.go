// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package nest is the host-side API for creating, querying and removing
synaptic connections in a simulation kernel driven through a stack-based
command interpreter (see package sli).

A Client resolves connectivity and synapse specifications (packages connspec
and synspec), checks array-valued parameters against the populations (package
shape), and only then sends the request to the kernel:

	c := nest.NewClient(interp)
	err := c.Connect(pre, post,
		map[string]any{"rule": "fixed_indegree", "indegree": 10},
		map[string]any{"model": "stdp_synapse", "weight": 2.5,
			"delay": map[string]any{"distribution": "uniform", "low": 1.0, "high": 2.0}})

Malformed specifications are returned as errors matching connspec.ErrConfig
or shape.ErrShape, and nothing is sent.  Errors raised by the kernel are
returned unchanged as *sli.KernelError.

The deprecated functions of older scripts (OneToOneConnect,
ConvergentConnect, DivergentConnect, RandomConvergentConnect,
RandomDivergentConnect, FindConnections) forward to Connect and
GetConnections and report a Warning the first time they are used.
*/
package nest
