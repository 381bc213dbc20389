// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/emer/connect/connspec"
	"github.com/emer/connect/connstore"
	"github.com/emer/connect/sli"
	"github.com/emer/emergent/v2/erand"
)

// Command is the implementation of one kernel command.  It takes its
// operands from the kernel's stack and pushes its results back onto it.
type Command func(k *Kernel) error

// Kernel is an in-process kernel that executes the commands of the
// connectivity binding.  It implements sli.Interp.
type Kernel struct {
	sli.Stack

	Params   Params
	Models   *Models
	Builders Builders

	store    connstore.Store
	rnd      *rand.Rand
	erng     erand.Rand
	nodes    []string
	options  map[string]sli.Dict
	commands map[string]Command

	// unknown keys of connection status dictionaries are errors
	dictMissIsError bool
}

// New returns a kernel with the given params, or defaults if nil.
func New(kp *Params) (*Kernel, error) {
	k := &Kernel{}
	if kp != nil {
		k.Params = *kp
	} else {
		k.Params.Defaults()
	}
	k.Params.Update()
	if err := k.Params.Validate(); err != nil {
		return nil, err
	}
	st, err := connstore.NewStore(k.Params.Store, k.Params.SQLitePath)
	if err != nil {
		return nil, err
	}
	k.store = st
	k.Models = StdModels()
	k.Builders = StdBuilders()
	k.reseed(k.Params.Seed)
	k.options = map[string]sli.Dict{
		"Connect": {
			"conn_spec": connspec.Default().Datum(),
			"syn_spec":  sli.Literal(k.Models.List[0].Name),
		},
	}
	k.commands = StdCommands()
	k.dictMissIsError = true
	return k, nil
}

func (k *Kernel) reseed(seed int64) {
	k.rnd = rand.New(rand.NewSource(seed))
	k.erng = erand.NewSysRand(seed)
}

// Close releases the connection store.
func (k *Kernel) Close() error {
	return connstore.CloseIfSupported(k.store)
}

// Store returns the connection table.
func (k *Kernel) Store() connstore.Store {
	return k.store
}

// NNodes returns the number of created nodes.
func (k *Kernel) NNodes() int {
	return len(k.nodes)
}

// Register adds or replaces a command.
func (k *Kernel) Register(name string, cmd Command) {
	k.commands[name] = cmd
}

// Run executes a command.  Errors are always *sli.KernelError.
func (k *Kernel) Run(cmd string) error {
	fn, has := k.commands[cmd]
	if !has {
		return &sli.KernelError{Name: "UndefinedName", Msg: fmt.Sprintf("%s is not defined", cmd), Cmd: cmd}
	}
	err := fn(k)
	if err == nil {
		return nil
	}
	var ke *sli.KernelError
	switch {
	case errors.As(err, &ke):
	case errors.Is(err, sli.ErrStackUnderflow):
		ke = &sli.KernelError{Name: "StackUnderflow", Msg: err.Error()}
	case errors.Is(err, sli.ErrUnexpectedType):
		ke = &sli.KernelError{Name: "ArgumentType", Msg: err.Error()}
	default:
		ke = &sli.KernelError{Name: "KernelException", Msg: err.Error()}
	}
	if ke.Cmd == "" {
		ke.Cmd = cmd
	}
	return ke
}

// checkNodes returns an error unless all ids name created nodes.
func (k *Kernel) checkNodes(ids []int) error {
	for _, id := range ids {
		if id < 1 || id > len(k.nodes) {
			return kerrf("UnknownNode", "node %d does not exist", id)
		}
	}
	return nil
}

func kerrf(name, format string, args ...any) *sli.KernelError {
	return &sli.KernelError{Name: name, Msg: fmt.Sprintf(format, args...)}
}

// literal returns the name held by a Literal or string datum.
func literal(d any) (string, bool) {
	switch x := d.(type) {
	case sli.Literal:
		return string(x), true
	case string:
		return x, true
	}
	return "", false
}

// number returns the value of a numeric datum.
func number(d any) (float64, bool) {
	switch x := d.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// ids converts an IntVector-like datum into node ids.
func ids(d any) ([]int, error) {
	iv, err := sli.AsIntVector(d)
	if err != nil {
		return nil, err
	}
	return iv.Ints(), nil
}

// vector returns the values of a numeric vector datum.
func vector(d any) ([]float64, bool) {
	switch x := d.(type) {
	case sli.DoubleVector:
		return x, true
	case sli.IntVector:
		fs := make([]float64, len(x))
		for i, v := range x {
			fs[i] = float64(v)
		}
		return fs, true
	case sli.Array:
		fs := make([]float64, len(x))
		for i, v := range x {
			f, ok := number(v)
			if !ok {
				return nil, false
			}
			fs[i] = f
		}
		return fs, true
	}
	return nil, false
}
