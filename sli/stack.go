// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sli

// Stack is an operand stack, usable as the storage of an Interp.
type Stack struct {
	ops []any
}

// Push puts a datum on top.
func (st *Stack) Push(d any) {
	st.ops = append(st.ops, d)
}

// Pop removes and returns the top datum.
func (st *Stack) Pop() (any, error) {
	n := len(st.ops)
	if n == 0 {
		return nil, ErrStackUnderflow
	}
	d := st.ops[n-1]
	st.ops[n-1] = nil
	st.ops = st.ops[:n-1]
	return d, nil
}

// PopN removes the top n datums and returns them in push order.
func (st *Stack) PopN(n int) ([]any, error) {
	if n > len(st.ops) {
		return nil, ErrStackUnderflow
	}
	ds := make([]any, n)
	copy(ds, st.ops[len(st.ops)-n:])
	for i := len(st.ops) - n; i < len(st.ops); i++ {
		st.ops[i] = nil
	}
	st.ops = st.ops[:len(st.ops)-n]
	return ds, nil
}

// Peek returns the datum i positions below the top (0 = top) without removing it.
func (st *Stack) Peek(i int) (any, error) {
	if i < 0 || i >= len(st.ops) {
		return nil, ErrStackUnderflow
	}
	return st.ops[len(st.ops)-1-i], nil
}

// Depth returns the number of datums on the stack.
func (st *Stack) Depth() int {
	return len(st.ops)
}
