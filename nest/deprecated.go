// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nest

import (
	"sort"

	"github.com/emer/connect/connspec"
	"github.com/emer/connect/synspec"
)

// The functions in this file are kept for old scripts.  Each forwards to
// Connect or GetConnections and reports a Deprecated warning once.

// Legacy holds the optional arguments of the deprecated connect functions.
type Legacy struct {

	// one weight for all connections, or one per connection of a call
	Weight []float64

	// delays, given together with Weight and of the same length
	Delay []float64

	// synapse model, static_synapse if empty
	Model string

	// forbid self connections in the random variants
	NoAutapses bool

	// forbid multiple connections between a pair in the random variants
	NoMultapses bool
}

func (lg *Legacy) model() string {
	if lg.Model == "" {
		return synspec.DefaultModel
	}
	return lg.Model
}

// check requires weights and delays to be given together, each with one
// value or n.
func (lg *Legacy) check(n int) error {
	if (lg.Weight == nil) != (lg.Delay == nil) {
		return connspec.Errorf("weight", "both 'weight' and 'delay' have to be given")
	}
	if lg.Weight == nil {
		return nil
	}
	if len(lg.Weight) != len(lg.Delay) {
		return connspec.Errorf("weight", "weight and delay must have the same length, got %d and %d", len(lg.Weight), len(lg.Delay))
	}
	if len(lg.Weight) != 1 && len(lg.Weight) != n {
		return connspec.Errorf("weight", "weight and delay must have 1 or %d values, not %d", n, len(lg.Weight))
	}
	return nil
}

// broadcast returns vs repeated to length n if it has a single value.
func broadcast(vs []float64, n int) []float64 {
	if len(vs) != 1 {
		return vs
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = vs[0]
	}
	return out
}

// OneToOneConnect connects pre[i] to post[i].  params is nil, a mapping of
// synapse parameters for all connections, or a list of mappings with one
// entry or one per connection.  If delay is given, params are instead the
// weights: a number or a list of one or len(pre) numbers, and delay is a
// number or list of the same form.
//
// Deprecated: use Connect with rule one_to_one.
func (c *Client) OneToOneConnect(pre, post []int, params, delay any, model string) error {
	c.warn(deprecated("OneToOneConnect", "Connect(pre, post, \"one_to_one\", syn_spec)"))
	if len(pre) != len(post) {
		return connspec.Errorf("pre", "pre and post have to be the same length")
	}
	syn := map[string]any{}
	if model != "" {
		syn[synspec.KeyModel] = model
	}
	if delay != nil {
		if params == nil {
			return connspec.Errorf("params", "both 'params' and 'delay' have to be given")
		}
		wts, err := numbers("params", params, len(pre))
		if err != nil {
			return err
		}
		dls, err := numbers("delay", delay, len(pre))
		if err != nil {
			return err
		}
		syn["weight"] = synspec.EdgeArray(wts)
		syn["delay"] = synspec.EdgeArray(dls)
		return c.Connect(pre, post, connspec.OneToOne.String(), syn)
	}
	if ps, ok := params.([]map[string]any); ok && len(ps) == 1 {
		params = ps[0]
	}
	switch ps := params.(type) {
	case nil:
	case map[string]any:
		for k, v := range ps {
			syn[k] = v
		}
	case []map[string]any:
		if len(ps) != len(pre) {
			return connspec.Errorf("params", "must be a mapping, or a list of mappings of length 1 or %d, not %d", len(pre), len(ps))
		}
		edges, err := perEdge(ps)
		if err != nil {
			return err
		}
		for k, v := range edges {
			syn[k] = v
		}
	default:
		return connspec.Errorf("params", "must be a mapping or a list of mappings without delay, not %T", params)
	}
	return c.Connect(pre, post, connspec.OneToOne.String(), syn)
}

// numbers returns a number or list of numbers broadcast to length n.
func numbers(name string, v any, n int) ([]float64, error) {
	var vs []float64
	switch x := v.(type) {
	case []float64:
		vs = x
	case []int:
		vs = make([]float64, len(x))
		for i, e := range x {
			vs[i] = float64(e)
		}
	default:
		sv, err := synspec.Classify(name, v)
		if err != nil {
			return nil, err
		}
		switch x := sv.(type) {
		case synspec.Scalar:
			vs = []float64{x.Val}
		case synspec.EdgeArray:
			vs = x
		default:
			return nil, connspec.Errorf(name, "must be a number or a list of numbers, not %T", v)
		}
	}
	if len(vs) != 1 && len(vs) != n {
		return nil, connspec.Errorf(name, "must have 1 or %d values, not %d", n, len(vs))
	}
	return broadcast(vs, n), nil
}

// perEdge turns one parameter mapping per connection into one array per
// parameter.  All mappings must have the same numeric parameters.
func perEdge(ps []map[string]any) (map[string]synspec.EdgeArray, error) {
	out := map[string]synspec.EdgeArray{}
	if len(ps) == 0 {
		return out, nil
	}
	var keys []string
	for k := range ps[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ea := make(synspec.EdgeArray, len(ps))
		for i, p := range ps {
			v, has := p[k]
			if !has {
				return nil, connspec.Errorf(k, "missing from parameter set %d", i)
			}
			sv, err := synspec.Classify(k, v)
			if err != nil {
				return nil, err
			}
			sc, ok := sv.(synspec.Scalar)
			if !ok {
				return nil, connspec.Errorf(k, "parameter set %d: must be a number", i)
			}
			ea[i] = sc.Val
		}
		out[k] = ea
	}
	for i, p := range ps {
		if len(p) != len(keys) {
			return nil, connspec.Errorf("params", "parameter set %d has different parameters than set 0", i)
		}
	}
	return out, nil
}

// ConvergentConnect connects every pre node to every post node.  Weight and
// delay have one value or one per pre node, the same for every target.
//
// Deprecated: use Connect with rule all_to_all.
func (c *Client) ConvergentConnect(pre, post []int, lg Legacy) error {
	c.warn(deprecated("ConvergentConnect", "Connect(pre, post, \"all_to_all\", syn_spec)"))
	if err := lg.check(len(pre)); err != nil {
		return err
	}
	if lg.Weight == nil {
		return c.Connect(pre, post, connspec.AllToAll.String(), lg.model())
	}
	wts := broadcast(lg.Weight, len(pre))
	dls := broadcast(lg.Delay, len(pre))
	for _, t := range post {
		syn := map[string]any{
			synspec.KeyModel: lg.model(),
			"weight":         synspec.NewMatrix([][]float64{wts}),
			"delay":          synspec.NewMatrix([][]float64{dls}),
		}
		if err := c.Connect(pre, []int{t}, connspec.AllToAll.String(), syn); err != nil {
			return err
		}
	}
	return nil
}

// DivergentConnect connects every pre node to every post node.  Weight and
// delay have one value or one per post node, the same for every source.
//
// Deprecated: use Connect with rule all_to_all.
func (c *Client) DivergentConnect(pre, post []int, lg Legacy) error {
	c.warn(deprecated("DivergentConnect", "Connect(pre, post, \"all_to_all\", syn_spec)"))
	if err := lg.check(len(post)); err != nil {
		return err
	}
	if lg.Weight == nil {
		return c.Connect(pre, post, connspec.AllToAll.String(), lg.model())
	}
	wts := column(broadcast(lg.Weight, len(post)))
	dls := column(broadcast(lg.Delay, len(post)))
	for _, s := range pre {
		syn := map[string]any{
			synspec.KeyModel: lg.model(),
			"weight":         synspec.NewMatrix(wts),
			"delay":          synspec.NewMatrix(dls),
		}
		if err := c.Connect([]int{s}, post, connspec.AllToAll.String(), syn); err != nil {
			return err
		}
	}
	return nil
}

// column returns vs as an n x 1 matrix.
func column(vs []float64) [][]float64 {
	rows := make([][]float64, len(vs))
	for i, v := range vs {
		rows[i] = []float64{v}
	}
	return rows
}

// checkRandom allows at most a single weight and delay: per-connection
// arrays are only accepted by one_to_one and all_to_all.
func (lg *Legacy) checkRandom() error {
	if len(lg.Weight) > 1 || len(lg.Delay) > 1 {
		return connspec.Errorf("weight", "random connections take a single weight and delay; per-connection arrays need rule one_to_one or all_to_all")
	}
	return lg.check(1)
}

// randomSyn returns the synapse spec of the random variants.
func (lg *Legacy) randomSyn() map[string]any {
	syn := map[string]any{synspec.KeyModel: lg.model()}
	if lg.Weight != nil {
		syn["weight"] = lg.Weight[0]
		syn["delay"] = lg.Delay[0]
	}
	return syn
}

func (lg *Legacy) randomConn(rule connspec.Rule, key string, n int) map[string]any {
	return map[string]any{
		connspec.KeyRule:      rule.String(),
		key:                   n,
		connspec.KeyAutapses:  !lg.NoAutapses,
		connspec.KeyMultapses: !lg.NoMultapses,
	}
}

// RandomConvergentConnect connects n randomly chosen pre nodes to each post
// node.
//
// Deprecated: use Connect with rule fixed_indegree.
func (c *Client) RandomConvergentConnect(pre, post []int, n int, lg Legacy) error {
	c.warn(deprecated("RandomConvergentConnect", "Connect(pre, post, {\"rule\": \"fixed_indegree\", \"indegree\": n}, syn_spec)"))
	if err := lg.checkRandom(); err != nil {
		return err
	}
	return c.Connect(pre, post, lg.randomConn(connspec.FixedIndegree, "indegree", n), lg.randomSyn())
}

// RandomDivergentConnect connects each pre node to n randomly chosen post
// nodes.
//
// Deprecated: use Connect with rule fixed_outdegree.
func (c *Client) RandomDivergentConnect(pre, post []int, n int, lg Legacy) error {
	c.warn(deprecated("RandomDivergentConnect", "Connect(pre, post, {\"rule\": \"fixed_outdegree\", \"outdegree\": n}, syn_spec)"))
	if err := lg.checkRandom(); err != nil {
		return err
	}
	return c.Connect(pre, post, lg.randomConn(connspec.FixedOutdegree, "outdegree", n), lg.randomSyn())
}

// FindConnections returns the connections from each source.  If target
// is given, it holds one target for all sources or one per source, and only
// the connection from source[i] to target[i] matches.  synapseType is the
// deprecated name of synapseModel; at most one of them may be given.
//
// Deprecated: use GetConnections.
func (c *Client) FindConnections(source, target []int, synapseModel, synapseType string) ([]Connection, error) {
	c.warn(deprecated("FindConnections", "GetConnections"))
	if synapseModel != "" && synapseType != "" {
		return nil, connspec.Errorf("synapse_type", "synapse_model and synapse_type cannot be used together, use only synapse_model")
	}
	if synapseType != "" {
		c.warn(backwardCompat("FindConnections", "synapse_type", "synapse_model"))
		synapseModel = synapseType
	}
	if target != nil && len(target) != 1 && len(target) != len(source) {
		return nil, connspec.Errorf("target", "must have 1 or %d elements, not %d", len(source), len(target))
	}
	var cns []Connection
	for i, s := range source {
		f := ConnFilter{Source: []int{s}, SynapseModel: synapseModel}
		if target != nil {
			t := target[0]
			if len(target) > 1 {
				t = target[i]
			}
			f.Target = []int{t}
		}
		pc, err := c.GetConnections(f)
		if err != nil {
			return nil, err
		}
		cns = append(cns, pc...)
	}
	return cns, nil
}
