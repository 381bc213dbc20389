// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nest

import (
	"fmt"

	"github.com/emer/connect/connspec"
	"github.com/emer/connect/sli"
	"github.com/emer/connect/synspec"
)

// SourceData are explicit connections from one source: target i gets
// Weights[i], Delays[i] and Params[name][i].
type SourceData struct {
	Source  int
	Targets []int
	Weights []float64
	Delays  []float64

	// other synapse parameters, one value per target
	Params map[string][]float64
}

// Datum returns the parameter dictionary sent to the kernel.
func (sd *SourceData) Datum() (sli.Dict, error) {
	n := len(sd.Targets)
	if len(sd.Weights) != n || len(sd.Delays) != n {
		return nil, connspec.Errorf("weight", "source %d: targets, weights and delays must have the same length, got %d, %d and %d", sd.Source, n, len(sd.Weights), len(sd.Delays))
	}
	tgts := make(sli.DoubleVector, n)
	for i, t := range sd.Targets {
		tgts[i] = float64(t)
	}
	d := sli.Dict{
		"target": tgts,
		"weight": append(sli.DoubleVector(nil), sd.Weights...),
		"delay":  append(sli.DoubleVector(nil), sd.Delays...),
	}
	for k, vs := range sd.Params {
		if k == "target" || k == "weight" || k == "delay" {
			return nil, connspec.Errorf(k, "source %d: given twice", sd.Source)
		}
		if len(vs) != n {
			return nil, connspec.Errorf(k, "source %d: %d values for %d targets", sd.Source, len(vs), n)
		}
		d[k] = append(sli.DoubleVector(nil), vs...)
	}
	return d, nil
}

// DataConnect makes explicitly listed connections of the given synapse
// model (static_synapse if empty).  All data are checked before the first
// source is sent.
func (c *Client) DataConnect(data []SourceData, model string) error {
	if model == "" {
		model = synspec.DefaultModel
	}
	ds := make([]sli.Dict, len(data))
	for i := range data {
		d, err := data[i].Datum()
		if err != nil {
			return err
		}
		ds[i] = d
	}
	return c.sess.Do("DataConnect", func(tx *sli.Tx) error {
		for i := range data {
			tx.Push(int64(data[i].Source))
			tx.Push(ds[i])
			tx.Push(sli.Literal(model))
			if err := tx.Run("DataConnect_i_D_s"); err != nil {
				return err
			}
		}
		return nil
	})
}

// DataConnectStatus makes the connections described by status
// dictionaries, as reported for existing connections: each has source and
// target, the synapse_model (or synapse_modelid, static_synapse if neither
// is given) and parameter values.  Keys that are not parameters of the
// model are ignored.
func (c *Client) DataConnectStatus(status []map[string]any) error {
	if len(status) == 0 {
		return nil
	}
	ar := make(sli.Array, len(status))
	for i, st := range status {
		d, err := sli.Convert(st)
		if err != nil {
			return connspec.Errorf("status", "connection %d: %v", i, err)
		}
		ar[i] = d
	}
	return c.sess.Do("DataConnectStatus", func(tx *sli.Tx) error {
		if err := tx.Run("GetStatus"); err != nil {
			return err
		}
		ks, err := tx.PopDict()
		if err != nil {
			return fmt.Errorf("GetStatus: %w: %w", ErrBadReply, err)
		}
		miss, ok := ks["dict_miss_is_error"].(bool)
		if !ok {
			return fmt.Errorf("GetStatus: %w: no dict_miss_is_error", ErrBadReply)
		}
		tx.Push(sli.Dict{"dict_miss_is_error": false})
		if err := tx.Run("SetStatus"); err != nil {
			return err
		}
		tx.Push(ar)
		err = tx.Run("DataConnect_a")
		tx.Push(sli.Dict{"dict_miss_is_error": miss})
		if rerr := tx.Run("SetStatus"); err == nil {
			err = rerr
		}
		return err
	})
}
