// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nest

import (
	"fmt"

	"github.com/emer/connect/connspec"
	"github.com/emer/connect/shape"
	"github.com/emer/connect/sli"
	"github.com/emer/connect/synspec"
)

// connectArgs collects the optional arguments of Connect.
type connectArgs struct {
	model    any
	hasModel bool
}

// ConnectOption is an optional argument of Connect.
type ConnectOption func(ca *connectArgs)

// WithModel gives the synapse spec under its deprecated name "model".  It
// cannot be combined with a non-nil synSpec.
func WithModel(model any) ConnectOption {
	return func(ca *connectArgs) {
		ca.model = model
		ca.hasModel = true
	}
}

// synAlias resolves the deprecated model argument against synSpec.
func (c *Client) synAlias(fn string, synSpec any, ca *connectArgs) (any, error) {
	if !ca.hasModel {
		return synSpec, nil
	}
	if synSpec != nil {
		return nil, connspec.Errorf("model", "syn_spec and model cannot be used together, use only syn_spec")
	}
	c.warn(backwardCompat(fn, "model", "syn_spec"))
	return ca.model, nil
}

// Connect connects the pre population to the post population.
//
// connSpec is a rule name or a mapping with "rule", the rule's parameters
// and the autapses / multapses / symmetric flags.  If nil, the kernel's
// default (all_to_all) is used.
//
// synSpec is a synapse model name or a mapping with "model" and synapse
// parameters, each a number, an array, or a mapping with a "distribution".
// Arrays are only allowed as |pre| values under one_to_one or as |post| x |pre|
// matrices under all_to_all.  If nil, static_synapse is used.
//
// Specs are checked before anything is sent to the kernel.  Only connections
// whose targets are local to the kernel's process are created.
func (c *Client) Connect(pre, post []int, connSpec, synSpec any, opts ...ConnectOption) error {
	ca := &connectArgs{}
	for _, o := range opts {
		o(ca)
	}
	synSpec, err := c.synAlias("Connect", synSpec, ca)
	if err != nil {
		return err
	}
	ss, err := synspec.Resolve(synSpec)
	if err != nil {
		return err
	}
	var cs *connspec.ConnSpec
	var params map[string]synspec.Value
	if connSpec != nil {
		cs, err = connspec.Resolve(connSpec)
		if err != nil {
			return err
		}
		params, err = shape.Validate(cs, len(pre), len(post), ss.Params)
		if err != nil {
			return err
		}
	}
	return c.sess.Do("Connect", func(tx *sli.Tx) error {
		if cs == nil {
			cs, err = defaultConnSpec(tx)
			if err != nil {
				return err
			}
			params, err = shape.Validate(cs, len(pre), len(post), ss.Params)
			if err != nil {
				return err
			}
		}
		tx.Push(sli.NewIntVector(pre))
		tx.Push(sli.NewIntVector(post))
		tx.Push(cs.Datum())
		tx.Push(synspec.Datum(ss.Model, params))
		return tx.Run("Connect")
	})
}

// defaultConnSpec asks the kernel for the default connectivity of Connect.
func defaultConnSpec(tx *sli.Tx) (*connspec.ConnSpec, error) {
	tx.Push(sli.Literal("Connect"))
	tx.Push(sli.Literal("conn_spec"))
	if err := tx.Run("GetOption"); err != nil {
		return nil, err
	}
	d, err := tx.Pop()
	if err != nil {
		return nil, err
	}
	cs, err := connspec.Resolve(d)
	if err != nil {
		return nil, fmt.Errorf("default conn_spec: %w: %w", ErrBadReply, err)
	}
	return cs, nil
}
