// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package connect is the overall repository for the host-side connectivity
layer of a stack-machine driven simulation kernel.

This top-level of the repository has no functional code -- everything is organized
into the following sub-packages:

* nest: the Client API: Connect, GetConnections, Disconnect, DataConnect,
the connection generator calls, and the deprecated connect / find functions
of older scripts.

* connspec, synspec: resolution of connectivity and synapse specifications
into their canonical form and kernel dictionaries.

* shape: validation of array-valued synapse parameters against the rule and
the populations.

* sli: the stack-machine protocol: datums, the Interp interface and scoped
Sessions.

* kernel: an in-process reference kernel implementing the command set, with
connection rules, synapse models, distributions and locality.

* connstore: the connection tables of the kernel, in memory or in sqlite.

* examples/connect: a runnable program driving the kernel from a script.
*/
package connect
