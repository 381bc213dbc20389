// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sli

import (
	"errors"
	"fmt"
)

// ErrStackUnderflow is returned when popping from an empty operand stack.
var ErrStackUnderflow = errors.New("sli: stack underflow")

// Interp is the command interpreter of the kernel.  Datums are pushed onto its
// operand stack, commands consume and produce operands, and replies are popped
// back off.  Implementations are not required to be safe for concurrent use;
// Session serializes access.
type Interp interface {
	// Push puts a datum on top of the operand stack.
	Push(d any)

	// Run executes a command.  Errors raised by the kernel are *KernelError.
	Run(cmd string) error

	// Pop removes and returns the top of the operand stack.
	Pop() (any, error)

	// Depth returns the number of operands on the stack.
	Depth() int
}

// KernelError is an error raised inside the kernel.  The binding passes these
// through without interpretation.
type KernelError struct {
	// Name is the kernel's error name, e.g. UnknownSynapseType
	Name string

	// Msg is the kernel's message
	Msg string

	// Cmd is the command that raised the error
	Cmd string
}

func (ke *KernelError) Error() string {
	if ke.Cmd != "" {
		return fmt.Sprintf("%s in %s: %s", ke.Name, ke.Cmd, ke.Msg)
	}
	return fmt.Sprintf("%s: %s", ke.Name, ke.Msg)
}

// IsKernelError returns true if err is (or wraps) a KernelError with the given
// name.  An empty name matches any KernelError.
func IsKernelError(err error, name string) bool {
	var ke *KernelError
	if !errors.As(err, &ke) {
		return false
	}
	return name == "" || ke.Name == name
}
