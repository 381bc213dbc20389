// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package kernel is an in-process simulation kernel that executes the command
vocabulary of the connectivity binding in package nest.  It is a stack
machine implementing sli.Interp: operands are pushed, a named command consumes
them and pushes its results.

Connection rules are enumerated by builders registered per rule: all_to_all
and one_to_one use the emergent projection patterns, the randomized rules
draw from a seeded source.  Edges are enumerated target-major, so the i-th
value of a flattened |post| x |pre| matrix belongs to the i-th edge of an
all_to_all connection.

Connections are only created onto targets that are local to this process
(see Params.IsLocal), and are kept in a connstore.Store.
*/
package kernel
