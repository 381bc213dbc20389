// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nest

import (
	"github.com/emer/connect/connspec"
	"github.com/emer/connect/sli"
	"github.com/emer/connect/synspec"
)

// Disconnect removes connections between pre and post.  connSpec gives the
// disconnection rule, one_to_one (the default when nil) or all_to_all.
// synSpec selects the synapse model, static_synapse when nil.  If any of the
// connections does not exist, nothing is removed and the kernel's error is
// returned.
func (c *Client) Disconnect(pre, post []int, connSpec, synSpec any) error {
	if connSpec == nil {
		connSpec = connspec.OneToOne.String()
	}
	cs, err := connspec.Resolve(connSpec)
	if err != nil {
		return err
	}
	switch cs.Rule {
	case connspec.OneToOne:
		if len(pre) != len(post) {
			return connspec.Errorf("pre", "one_to_one disconnection needs populations of equal size, got %d and %d", len(pre), len(post))
		}
	case connspec.AllToAll:
	default:
		return connspec.Errorf(connspec.KeyRule, "disconnection rule must be one_to_one or all_to_all, not %s", cs.Rule)
	}
	ss, err := synspec.Resolve(synSpec)
	if err != nil {
		return err
	}
	return c.sess.Do("Disconnect", func(tx *sli.Tx) error {
		tx.Push(sli.NewIntVector(pre))
		if err := tx.Run("cvgidcollection"); err != nil {
			return err
		}
		tx.Push(sli.NewIntVector(post))
		if err := tx.Run("cvgidcollection"); err != nil {
			return err
		}
		tx.Push(cs.Datum())
		tx.Push(ss.Datum())
		return tx.Run("Disconnect_g_g_D_D")
	})
}

// DisconnectOneToOne removes one connection from source to target.
// synSpec selects the synapse model, static_synapse when nil.
func (c *Client) DisconnectOneToOne(source, target int, synSpec any) error {
	ss, err := synspec.Resolve(synSpec)
	if err != nil {
		return err
	}
	return c.sess.Do("DisconnectOneToOne", func(tx *sli.Tx) error {
		tx.Push(int64(source))
		tx.Push(int64(target))
		tx.Push(ss.Datum())
		return tx.Run("Disconnect")
	})
}
