// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nest

import (
	"github.com/emer/connect/sli"
	"github.com/emer/connect/synspec"
)

// haveCG returns ErrNoConnectionGenerator unless the kernel supports
// connection generators.
func haveCG(tx *sli.Tx) error {
	if err := tx.Run("statusdict/have_libneurosim ::"); err != nil {
		return err
	}
	ok, err := tx.PopBool()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoConnectionGenerator
	}
	return nil
}

// CGConnect connects pre to post using a connection generator.  paramMap
// maps the generator's value sets to synapse parameters, e.g. weight: 0.
func (c *Client) CGConnect(pre, post []int, cg any, paramMap map[string]int, model string) error {
	if model == "" {
		model = synspec.DefaultModel
	}
	pm := sli.Dict{}
	for k, v := range paramMap {
		pm[k] = int64(v)
	}
	return c.sess.Do("CGConnect", func(tx *sli.Tx) error {
		if err := haveCG(tx); err != nil {
			return err
		}
		tx.Push(cg)
		tx.Push(sli.NewIntVector(pre))
		if err := tx.Run("cvgidcollection"); err != nil {
			return err
		}
		tx.Push(sli.NewIntVector(post))
		if err := tx.Run("cvgidcollection"); err != nil {
			return err
		}
		tx.Push(pm)
		tx.Push(sli.Literal(model))
		return tx.Run("CGConnect")
	})
}

// CGParse returns a connection generator parsed from its XML description.
func (c *Client) CGParse(xml string) (any, error) {
	var cg any
	err := c.sess.Do("CGParse", func(tx *sli.Tx) error {
		if err := haveCG(tx); err != nil {
			return err
		}
		tx.Push(xml)
		if err := tx.Run("CGParse"); err != nil {
			return err
		}
		var err error
		cg, err = tx.Pop()
		return err
	})
	return cg, err
}

// CGSelectImplementation selects the library providing the connection
// generator with the given XML tag.
func (c *Client) CGSelectImplementation(tag, library string) error {
	return c.sess.Do("CGSelectImplementation", func(tx *sli.Tx) error {
		if err := haveCG(tx); err != nil {
			return err
		}
		tx.Push(tag)
		tx.Push(library)
		return tx.Run("CGSelectImplementation")
	})
}
