// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package sli provides the stack-protocol layer used to talk to a simulation
kernel that is driven by a stack-based command interpreter.

Values exchanged with the kernel (datums) are plain Go values drawn from a
closed set: int64, float64, bool, string, Literal, IntVector, DoubleVector,
Array, Dict and GIDCollection.  Convert maps host values onto that set, and
Format renders a datum in the interpreter's text notation for tracing.

All access to an Interp goes through a Session, which serializes logical calls
and checks that each call leaves the operand stack exactly as it found it:

	sess := sli.NewSession(interp, nil)
	err := sess.Do("GetConnections", func(tx *sli.Tx) error {
		tx.Push(sli.Dict{"source": sli.IntVector{1, 2}})
		if err := tx.Run("GetConnections"); err != nil {
			return err
		}
		reply, err := tx.PopArray()
		...
	})
*/
package sli
