// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nest

import (
	"fmt"

	"github.com/emer/connect/connspec"
	"github.com/emer/connect/sli"
)

// ConnFilter selects connections in GetConnections.  Zero fields match
// anything.
type ConnFilter struct {
	Source       []int
	Target       []int
	SynapseModel string

	// SynapseLabel must be non-negative if set
	SynapseLabel *int
}

// Datum returns the filter dictionary sent to the kernel.
func (f *ConnFilter) Datum() (sli.Dict, error) {
	d := sli.Dict{}
	if f.Source != nil {
		d["source"] = sli.NewIntVector(f.Source)
	}
	if f.Target != nil {
		d["target"] = sli.NewIntVector(f.Target)
	}
	if f.SynapseModel != "" {
		d["synapse_model"] = sli.Literal(f.SynapseModel)
	}
	if f.SynapseLabel != nil {
		if *f.SynapseLabel < 0 {
			return nil, connspec.Errorf("synapse_label", "must be a non-negative integer, not %d", *f.SynapseLabel)
		}
		d["synapse_label"] = int64(*f.SynapseLabel)
	}
	return d, nil
}

// Connection identifies one connection in the kernel.
type Connection struct {
	Source         int
	Target         int
	TargetThread   int
	SynapseModelID int
	Port           int
}

func (cn Connection) String() string {
	return fmt.Sprintf("[%d %d %d %d %d]", cn.Source, cn.Target, cn.TargetThread, cn.SynapseModelID, cn.Port)
}

// GetConnections returns the connections matching the filter.  Only
// connections whose targets are local to the kernel's process are
// returned.
func (c *Client) GetConnections(f ConnFilter) ([]Connection, error) {
	d, err := f.Datum()
	if err != nil {
		return nil, err
	}
	var cns []Connection
	err = c.sess.Do("GetConnections", func(tx *sli.Tx) error {
		tx.Push(d)
		if err := tx.Run("GetConnections"); err != nil {
			return err
		}
		ar, err := tx.PopArray()
		if err != nil {
			return fmt.Errorf("GetConnections: %w: %w", ErrBadReply, err)
		}
		cns, err = decodeConnections(ar)
		return err
	})
	return cns, err
}

// decodeConnections decodes the 5-field records of a GetConnections reply.
func decodeConnections(ar sli.Array) ([]Connection, error) {
	cns := make([]Connection, len(ar))
	for i, d := range ar {
		rec, err := sli.AsIntVector(d)
		if err != nil {
			return nil, fmt.Errorf("connection %d: %w: %w", i, ErrBadReply, err)
		}
		if len(rec) != 5 {
			return nil, fmt.Errorf("connection %d has %d fields, want 5: %w", i, len(rec), ErrBadReply)
		}
		cns[i] = Connection{
			Source:         int(rec[0]),
			Target:         int(rec[1]),
			TargetThread:   int(rec[2]),
			SynapseModelID: int(rec[3]),
			Port:           int(rec[4]),
		}
	}
	return cns, nil
}
