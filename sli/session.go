// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sli

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrStackImbalance is returned when a logical call leaves the operand
	// stack at a different depth than it found it.
	ErrStackImbalance = errors.New("sli: operand stack imbalance")

	// ErrUnexpectedType is returned when a popped datum has the wrong type.
	ErrUnexpectedType = errors.New("sli: unexpected datum type")
)

// Session is an explicit channel to one Interp.  Each logical call (one
// public binding operation) runs inside Do, which holds the session for the
// whole sequence of commands belonging to that call.
type Session struct {

	// ID identifies the session in logs
	ID uuid.UUID

	interp Interp
	log    *slog.Logger
	mu     sync.Mutex
	calls  int
}

// NewSession returns a session on the given interpreter.  A nil logger
// uses slog.Default().
func NewSession(interp Interp, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New()
	return &Session{ID: id, interp: interp, log: logger.With("session", id.String())}
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.log
}

// Calls returns the number of logical calls run on the session.
func (s *Session) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Do runs fn as one logical call named name.  The session is held for the
// duration of fn.  If fn returns nil, the operand stack must be back at the
// depth it had on entry, otherwise ErrStackImbalance is returned.  If fn fails,
// any operands it left behind are discarded.
func (s *Session) Do(name string, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	tx := &Tx{sess: s, name: name, depth: s.interp.Depth()}
	err := fn(tx)
	if err != nil {
		tx.restore()
		s.log.Debug("call failed", "call", name, "err", err)
		return err
	}
	if d := s.interp.Depth(); d != tx.depth {
		tx.restore()
		return fmt.Errorf("%s: depth %d on entry, %d on exit: %w", name, tx.depth, d, ErrStackImbalance)
	}
	return nil
}

// Tx is the view of the interpreter given to one logical call.
type Tx struct {
	sess  *Session
	name  string
	depth int
}

// restore pops anything above the entry depth.
func (tx *Tx) restore() {
	in := tx.sess.interp
	for in.Depth() > tx.depth {
		if _, err := in.Pop(); err != nil {
			break
		}
	}
}

// Push puts a datum on the stack.
func (tx *Tx) Push(d any) {
	tx.sess.log.Debug("push", "call", tx.name, "datum", Format(d))
	tx.sess.interp.Push(d)
}

// Run executes a command.
func (tx *Tx) Run(cmd string) error {
	tx.sess.log.Debug("run", "call", tx.name, "cmd", cmd)
	return tx.sess.interp.Run(cmd)
}

// Pop removes the top of the stack.
func (tx *Tx) Pop() (any, error) {
	return tx.sess.interp.Pop()
}

// PopBool pops a bool.
func (tx *Tx) PopBool() (bool, error) {
	d, err := tx.Pop()
	if err != nil {
		return false, err
	}
	b, ok := d.(bool)
	if !ok {
		return false, fmt.Errorf("%s: want booltype, got %s: %w", tx.name, TypeName(d), ErrUnexpectedType)
	}
	return b, nil
}

// PopInt pops an integer.
func (tx *Tx) PopInt() (int64, error) {
	d, err := tx.Pop()
	if err != nil {
		return 0, err
	}
	i, ok := d.(int64)
	if !ok {
		return 0, fmt.Errorf("%s: want integertype, got %s: %w", tx.name, TypeName(d), ErrUnexpectedType)
	}
	return i, nil
}

// PopDict pops a dictionary.
func (tx *Tx) PopDict() (Dict, error) {
	d, err := tx.Pop()
	if err != nil {
		return nil, err
	}
	dc, ok := d.(Dict)
	if !ok {
		return nil, fmt.Errorf("%s: want dictionarytype, got %s: %w", tx.name, TypeName(d), ErrUnexpectedType)
	}
	return dc, nil
}

// PopArray pops an array.
func (tx *Tx) PopArray() (Array, error) {
	d, err := tx.Pop()
	if err != nil {
		return nil, err
	}
	ar, ok := d.(Array)
	if !ok {
		return nil, fmt.Errorf("%s: want arraytype, got %s: %w", tx.name, TypeName(d), ErrUnexpectedType)
	}
	return ar, nil
}

// PopIntVector pops an integer vector.  An Array holding only integers is
// accepted as well.
func (tx *Tx) PopIntVector() (IntVector, error) {
	d, err := tx.Pop()
	if err != nil {
		return nil, err
	}
	return AsIntVector(d)
}

// AsIntVector returns d as an IntVector if it is one, or is a GIDCollection
// or an Array of integers.
func AsIntVector(d any) (IntVector, error) {
	switch x := d.(type) {
	case IntVector:
		return x, nil
	case GIDCollection:
		return IntVector(x), nil
	case Array:
		iv := make(IntVector, len(x))
		for i, e := range x {
			v, ok := e.(int64)
			if !ok {
				return nil, fmt.Errorf("element %d is %s: %w", i, TypeName(e), ErrUnexpectedType)
			}
			iv[i] = v
		}
		return iv, nil
	}
	return nil, fmt.Errorf("want intvectortype, got %s: %w", TypeName(d), ErrUnexpectedType)
}
