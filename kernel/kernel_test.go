// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/emer/connect/connstore"
	"github.com/emer/connect/sli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() *Params {
	return &Params{Threads: 1, Seed: 42, Resolution: 0.1, Store: "memory", Rank: 0, Size: 1}
}

func newKernel(t *testing.T, kp *Params) *Kernel {
	t.Helper()
	if kp == nil {
		kp = testParams()
	}
	k, err := New(kp)
	require.NoError(t, err)
	t.Cleanup(func() { k.Close() })
	return k
}

func create(t *testing.T, k *Kernel, n int) sli.IntVector {
	t.Helper()
	k.Push(sli.Literal("iaf_psc_alpha"))
	k.Push(int64(n))
	require.NoError(t, k.Run("Create"))
	d, err := k.Pop()
	require.NoError(t, err)
	iv, ok := d.(sli.IntVector)
	require.True(t, ok)
	return iv
}

func connect(k *Kernel, pre, post sli.IntVector, conn, syn any) error {
	k.Push(pre)
	k.Push(post)
	k.Push(conn)
	k.Push(syn)
	return k.Run("Connect")
}

func all(t *testing.T, k *Kernel) []connstore.Conn {
	t.Helper()
	cs, err := k.Store().Query(connstore.AnyFilter())
	require.NoError(t, err)
	return cs
}

func getConns(t *testing.T, k *Kernel, filter sli.Dict) sli.Array {
	t.Helper()
	k.Push(filter)
	require.NoError(t, k.Run("GetConnections"))
	d, err := k.Pop()
	require.NoError(t, err)
	ar, ok := d.(sli.Array)
	require.True(t, ok)
	return ar
}

func kernelErr(t *testing.T, err error, name string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, sli.IsKernelError(err, name), "want %s, got %v", name, err)
}

func TestCreate(t *testing.T) {
	k := newKernel(t, nil)
	assert.Equal(t, sli.IntVector{1, 2, 3}, create(t, k, 3))
	assert.Equal(t, sli.IntVector{4, 5}, create(t, k, 2))
	assert.Equal(t, 5, k.NNodes())

	k.Push(sli.Literal("iaf_psc_alpha"))
	k.Push(int64(0))
	kernelErr(t, k.Run("Create"), "RangeCheck")
	assert.Equal(t, 0, k.Depth())
}

func TestUndefinedName(t *testing.T) {
	k := newKernel(t, nil)
	err := k.Run("ConnectFast")
	kernelErr(t, err, "UndefinedName")
	var ke *sli.KernelError
	require.ErrorAs(t, err, &ke)
	assert.Equal(t, "ConnectFast", ke.Cmd)

	kernelErr(t, k.Run("Connect"), "StackUnderflow")
}

func TestConverters(t *testing.T) {
	k := newKernel(t, nil)
	k.Push("static_synapse")
	require.NoError(t, k.Run("cvlit"))
	d, _ := k.Pop()
	assert.Equal(t, sli.Literal("static_synapse"), d)

	k.Push(sli.IntVector{1, 2})
	require.NoError(t, k.Run("cvgidcollection"))
	d, _ = k.Pop()
	assert.Equal(t, sli.GIDCollection{1, 2}, d)
}

func TestAllToAllMatrixOrder(t *testing.T) {
	k := newKernel(t, nil)
	pre := create(t, k, 3)
	post := create(t, k, 2)
	wts := sli.DoubleVector{1, 2, 3, 4, 5, 6}
	syn := sli.Dict{"model": sli.Literal("static_synapse"), "weight": wts, "delay": 1.5}
	require.NoError(t, connect(k, pre, post, sli.Dict{"rule": sli.Literal("all_to_all")}, syn))

	cs := all(t, k)
	require.Len(t, cs, 6)
	for _, c := range cs {
		ri := c.Target - 4
		si := c.Source - 1
		assert.Equal(t, wts[ri*3+si], c.Weight, "%d -> %d", c.Source, c.Target)
		assert.Equal(t, 1.5, c.Delay)
		assert.Nil(t, c.Params)
	}
}

func TestOneToOne(t *testing.T) {
	k := newKernel(t, nil)
	pre := create(t, k, 3)
	post := create(t, k, 3)
	syn := sli.Dict{"weight": sli.DoubleVector{0.5, 1.5, 2.5}}
	require.NoError(t, connect(k, pre, post, sli.Dict{"rule": sli.Literal("one_to_one")}, syn))
	cs := all(t, k)
	require.Len(t, cs, 3)
	for i, c := range cs {
		assert.Equal(t, i+1, c.Source)
		assert.Equal(t, i+4, c.Target)
		assert.Equal(t, 0.5+float64(i), c.Weight)
	}

	err := connect(k, pre, post[:2], sli.Dict{"rule": sli.Literal("one_to_one")}, sli.Dict{})
	kernelErr(t, err, "DimensionMismatch")
	assert.Equal(t, 0, k.Depth())
}

func TestAutapses(t *testing.T) {
	k := newKernel(t, nil)
	pop := create(t, k, 3)
	require.NoError(t, connect(k, pop, pop, sli.Dict{"rule": sli.Literal("all_to_all"), "autapses": false}, sli.Dict{}))
	cs := all(t, k)
	assert.Len(t, cs, 6)
	for _, c := range cs {
		assert.NotEqual(t, c.Source, c.Target)
	}
	require.NoError(t, connect(k, pop, pop, sli.Dict{"rule": sli.Literal("all_to_all"), "autapses": true}, sli.Dict{}))
	assert.Len(t, all(t, k), 15)

	// one_to_one onto itself makes nothing without autapses
	require.NoError(t, connect(k, pop, pop, sli.Dict{"rule": sli.Literal("one_to_one"), "autapses": false}, sli.Dict{}))
	assert.Len(t, all(t, k), 15)
}

func TestFixedIndegree(t *testing.T) {
	k := newKernel(t, nil)
	pre := create(t, k, 10)
	post := create(t, k, 5)
	conn := sli.Dict{"rule": sli.Literal("fixed_indegree"), "indegree": int64(3), "multapses": false}
	require.NoError(t, connect(k, pre, post, conn, sli.Dict{}))
	cs := all(t, k)
	require.Len(t, cs, 15)
	srcs := make(map[int]map[int]bool)
	for _, c := range cs {
		if srcs[c.Target] == nil {
			srcs[c.Target] = make(map[int]bool)
		}
		assert.False(t, srcs[c.Target][c.Source], "multapse %d -> %d", c.Source, c.Target)
		srcs[c.Target][c.Source] = true
		assert.True(t, c.Source >= 1 && c.Source <= 10)
	}
	assert.Len(t, srcs, 5)

	conn["indegree"] = int64(11)
	kernelErr(t, connect(k, pre, post, conn, sli.Dict{}), "BadProperty")
	assert.Len(t, all(t, k), 15)
}

func TestRandomRules(t *testing.T) {
	k := newKernel(t, nil)
	pre := create(t, k, 4)
	post := create(t, k, 6)

	require.NoError(t, connect(k, pre, post, sli.Dict{"rule": sli.Literal("fixed_outdegree"), "outdegree": int64(2)}, sli.Dict{}))
	outdeg := make(map[int]int)
	for _, c := range all(t, k) {
		outdeg[c.Source]++
		assert.True(t, c.Target >= 5 && c.Target <= 10)
	}
	assert.Equal(t, map[int]int{1: 2, 2: 2, 3: 2, 4: 2}, outdeg)

	require.NoError(t, connect(k, pre, post, sli.Dict{"rule": sli.Literal("fixed_total_number"), "N": int64(7)}, sli.Dict{"model": sli.Literal("stdp_synapse")}))
	ar := getConns(t, k, sli.Dict{"synapse_model": sli.Literal("stdp_synapse")})
	assert.Len(t, ar, 7)

	require.NoError(t, connect(k, pre, post, sli.Dict{"rule": sli.Literal("pairwise_bernoulli"), "p": 1.0}, sli.Dict{"model": sli.Literal("tsodyks_synapse")}))
	assert.Len(t, getConns(t, k, sli.Dict{"synapse_model": sli.Literal("tsodyks_synapse")}), 24)

	n, _ := k.Store().Len()
	require.NoError(t, connect(k, pre, post, sli.Dict{"rule": sli.Literal("pairwise_bernoulli"), "p": 0.0}, sli.Dict{}))
	n2, _ := k.Store().Len()
	assert.Equal(t, n, n2)

	pop := create(t, k, 2)
	conn := sli.Dict{"rule": sli.Literal("fixed_total_number"), "N": int64(3), "autapses": false, "multapses": false}
	kernelErr(t, connect(k, pop, pop, conn, sli.Dict{}), "BadProperty")
}

func TestSymmetric(t *testing.T) {
	k := newKernel(t, nil)
	pre := create(t, k, 2)
	post := create(t, k, 2)
	conn := sli.Dict{"rule": sli.Literal("one_to_one"), "symmetric": true}
	require.NoError(t, connect(k, pre, post, conn, sli.Dict{"weight": sli.DoubleVector{1, 2}}))
	cs := all(t, k)
	require.Len(t, cs, 4)
	wt := make(map[[2]int]float64)
	for _, c := range cs {
		wt[[2]int{c.Source, c.Target}] = c.Weight
	}
	assert.Equal(t, map[[2]int]float64{{1, 3}: 1, {2, 4}: 2, {3, 1}: 1, {4, 2}: 2}, wt)

	conn = sli.Dict{"rule": sli.Literal("fixed_indegree"), "indegree": int64(1), "symmetric": true}
	kernelErr(t, connect(k, pre, post, conn, sli.Dict{}), "NotImplemented")
}

func TestSynapseErrors(t *testing.T) {
	k := newKernel(t, nil)
	pre := create(t, k, 3)
	post := create(t, k, 2)
	a2a := sli.Dict{"rule": sli.Literal("all_to_all")}

	kernelErr(t, connect(k, pre, post, a2a, sli.Dict{"model": sli.Literal("bogus_synapse")}), "UnknownSynapseType")
	kernelErr(t, connect(k, pre, post, a2a, sli.Dict{"tau_plus": 10.0}), "UnaccessedDictionaryEntry")
	kernelErr(t, connect(k, pre, post, a2a, sli.Dict{"delay": 0.05}), "BadDelay")
	kernelErr(t, connect(k, pre, post, a2a, sli.Dict{"weight": sli.DoubleVector{1, 2, 3}}), "DimensionMismatch")
	kernelErr(t, connect(k, pre, sli.IntVector{99}, a2a, sli.Dict{}), "UnknownNode")
	kernelErr(t, connect(k, pre, post, sli.Dict{"rule": sli.Literal("fixed_indegree")}, sli.Dict{}), "BadProperty")
	assert.Len(t, all(t, k), 0)
	assert.Equal(t, 0, k.Depth())

	// a literal is a model name
	require.NoError(t, connect(k, pre, post, a2a, sli.Literal("stdp_synapse")))
}

func TestModelParams(t *testing.T) {
	k := newKernel(t, nil)
	pre := create(t, k, 1)
	post := create(t, k, 1)
	syn := sli.Dict{"model": sli.Literal("stdp_synapse"), "tau_plus": 15.0, "weight": int64(2)}
	require.NoError(t, connect(k, pre, post, sli.Dict{"rule": sli.Literal("all_to_all")}, syn))
	cs := all(t, k)
	require.Len(t, cs, 1)
	assert.Equal(t, 2.0, cs[0].Weight)
	assert.Equal(t, 1.0, cs[0].Delay)
	assert.Equal(t, 15.0, cs[0].Params["tau_plus"])
	assert.Equal(t, 100.0, cs[0].Params["Wmax"])
	assert.Equal(t, 2, cs[0].ModelID)
}

func TestDistributions(t *testing.T) {
	k := newKernel(t, nil)
	pre := create(t, k, 5)
	post := create(t, k, 5)
	a2a := sli.Dict{"rule": sli.Literal("all_to_all")}
	syn := sli.Dict{
		"weight": sli.Dict{"distribution": sli.Literal("uniform"), "low": 1.0, "high": 2.0},
		"delay":  sli.Dict{"distribution": sli.Literal("normal"), "mu": 3.0, "sigma": 0.0},
	}
	require.NoError(t, connect(k, pre, post, a2a, syn))
	cs := all(t, k)
	require.Len(t, cs, 25)
	for _, c := range cs {
		assert.True(t, c.Weight >= 1 && c.Weight <= 2, "weight %g", c.Weight)
		assert.InDelta(t, 3.0, c.Delay, 1e-9)
	}

	bad := sli.Dict{"weight": sli.Dict{"distribution": sli.Literal("zipf")}}
	kernelErr(t, connect(k, pre, post, a2a, bad), "BadProperty")
	bad = sli.Dict{"weight": sli.Dict{"distribution": sli.Literal("normal"), "mean": 1.0}}
	kernelErr(t, connect(k, pre, post, a2a, bad), "UnaccessedDictionaryEntry")

	ds, err := NewDist(sli.Dict{"distribution": sli.Literal("exponential"), "lambda": 2.0})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		assert.GreaterOrEqual(t, ds.Gen(k.erng), 0.0)
	}
}

func TestDistributionMeans(t *testing.T) {
	k := newKernel(t, nil)
	tests := []struct {
		dist  sli.Dict
		mean  float64
		delta float64
	}{
		{sli.Dict{"distribution": sli.Literal("binomial"), "n": int64(10), "p": 0.3}, 3, 0.1},
		{sli.Dict{"distribution": sli.Literal("gamma"), "order": 2.0, "scale": 3.0}, 6, 0.25},
		{sli.Dict{"distribution": sli.Literal("poisson"), "lambda": 4.0}, 4, 0.1},
		{sli.Dict{"distribution": sli.Literal("lognormal"), "mu": 0.0, "sigma": 0.5}, math.Exp(0.125), 0.05},
		{sli.Dict{"distribution": sli.Literal("exponential"), "lambda": 2.0}, 0.5, 0.03},
		{sli.Dict{"distribution": sli.Literal("uniform"), "low": -1.0, "high": 3.0}, 1, 0.05},
	}
	const n = 20000
	for _, tt := range tests {
		ds, err := NewDist(tt.dist)
		require.NoError(t, err)
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += ds.Gen(k.erng)
		}
		assert.InDelta(t, tt.mean, sum/n, tt.delta, ds.Name)
	}
}

func TestLabels(t *testing.T) {
	k := newKernel(t, nil)
	pre := create(t, k, 2)
	post := create(t, k, 2)
	a2a := sli.Dict{"rule": sli.Literal("all_to_all")}
	require.NoError(t, connect(k, pre, post, a2a, sli.Dict{"model": sli.Literal("static_synapse_lbl"), "synapse_label": int64(3)}))
	require.NoError(t, connect(k, pre, post, a2a, sli.Dict{"model": sli.Literal("static_synapse_lbl"), "synapse_label": int64(4)}))
	assert.Len(t, getConns(t, k, sli.Dict{"synapse_label": int64(3)}), 4)
	assert.Len(t, getConns(t, k, sli.Dict{}), 8)

	kernelErr(t, connect(k, pre, post, a2a, sli.Dict{"synapse_label": int64(3)}), "UnaccessedDictionaryEntry")
}

func TestGetConnections(t *testing.T) {
	k := newKernel(t, nil)
	pre := create(t, k, 2)
	post := create(t, k, 2)
	a2a := sli.Dict{"rule": sli.Literal("all_to_all")}
	require.NoError(t, connect(k, pre, post, a2a, sli.Dict{}))
	require.NoError(t, connect(k, pre, post, a2a, sli.Dict{}))

	ar := getConns(t, k, sli.Dict{"source": sli.IntVector{1}})
	require.Len(t, ar, 4)
	for i, d := range ar {
		rec, ok := d.(sli.IntVector)
		require.True(t, ok)
		require.Len(t, rec, 5)
		assert.Equal(t, int64(1), rec[0])
		assert.Equal(t, int64(0), rec[3])
		assert.Equal(t, int64(i), rec[4], "ports count up per source and model")
	}
	assert.Equal(t, sli.IntVector{1, 3, 0, 0, 0}, ar[0])
	assert.Len(t, getConns(t, k, sli.Dict{"target": sli.IntVector{4}}), 4)
	assert.Len(t, getConns(t, k, sli.Dict{"source": sli.IntVector{}}), 0)
	assert.Len(t, getConns(t, k, sli.Dict{"synapse_model": sli.Literal("stdp_synapse")}), 0)

	k.Push(sli.Dict{"synapse_model": sli.Literal("nope")})
	kernelErr(t, k.Run("GetConnections"), "UnknownSynapseType")
	k.Push(sli.Dict{"weight": 1.0})
	kernelErr(t, k.Run("GetConnections"), "UnaccessedDictionaryEntry")
}

func TestDisconnect(t *testing.T) {
	k := newKernel(t, nil)
	pre := create(t, k, 2)
	post := create(t, k, 2)
	require.NoError(t, connect(k, pre, post, sli.Dict{"rule": sli.Literal("all_to_all")}, sli.Dict{}))

	k.Push(int64(1))
	k.Push(int64(3))
	k.Push(sli.Dict{"model": sli.Literal("static_synapse")})
	require.NoError(t, k.Run("Disconnect"))
	assert.Len(t, all(t, k), 3)

	k.Push(int64(1))
	k.Push(int64(3))
	k.Push(sli.Literal("static_synapse"))
	kernelErr(t, k.Run("Disconnect"), "InexistentConnection")

	k.Push(int64(1))
	k.Push(int64(4))
	k.Push(sli.Dict{"model": sli.Literal("static_synapse"), "weight": 1.0})
	kernelErr(t, k.Run("Disconnect"), "UnaccessedDictionaryEntry")
	assert.Equal(t, 0, k.Depth())
}

func disconnectGG(k *Kernel, pre, post sli.IntVector, rule string) error {
	k.Push(sli.GIDCollection(pre))
	k.Push(sli.GIDCollection(post))
	k.Push(sli.Dict{"rule": sli.Literal(rule)})
	k.Push(sli.Dict{"model": sli.Literal("static_synapse")})
	return k.Run("Disconnect_g_g_D_D")
}

func TestDisconnectCollections(t *testing.T) {
	k := newKernel(t, nil)
	pre := create(t, k, 3)
	post := create(t, k, 3)
	require.NoError(t, connect(k, pre, post, sli.Dict{"rule": sli.Literal("one_to_one")}, sli.Dict{}))
	require.NoError(t, connect(k, pre[:2], post[:2], sli.Dict{"rule": sli.Literal("all_to_all")}, sli.Dict{}))
	require.Len(t, all(t, k), 7)

	require.NoError(t, disconnectGG(k, pre, post, "one_to_one"))
	assert.Len(t, all(t, k), 4)

	// 3 -> 6 is gone now, so nothing is removed
	kernelErr(t, disconnectGG(k, pre, post, "all_to_all"), "InexistentConnection")
	assert.Len(t, all(t, k), 4)

	kernelErr(t, disconnectGG(k, pre, post, "pairwise_bernoulli"), "BadProperty")
	require.NoError(t, disconnectGG(k, pre[:2], post[:2], "all_to_all"))
	assert.Len(t, all(t, k), 0)
}

func TestDataConnect(t *testing.T) {
	k := newKernel(t, nil)
	create(t, k, 4)
	k.Push(int64(1))
	k.Push(sli.Dict{
		"target": sli.DoubleVector{2, 3, 4},
		"weight": sli.DoubleVector{0.1, 0.2, 0.3},
		"delay":  sli.DoubleVector{1, 2, 3},
	})
	k.Push(sli.Literal("static_synapse"))
	require.NoError(t, k.Run("DataConnect_i_D_s"))
	cs := all(t, k)
	require.Len(t, cs, 3)
	for i, c := range cs {
		assert.Equal(t, 1, c.Source)
		assert.Equal(t, i+2, c.Target)
		assert.InDelta(t, 0.1*float64(i+1), c.Weight, 1e-12)
		assert.Equal(t, float64(i+1), c.Delay)
	}

	k.Push(int64(1))
	k.Push(sli.Dict{"target": sli.DoubleVector{2, 3}, "weight": sli.DoubleVector{1}})
	k.Push(sli.Literal("static_synapse"))
	kernelErr(t, k.Run("DataConnect_i_D_s"), "DimensionMismatch")
}

func TestDataConnectStatus(t *testing.T) {
	k := newKernel(t, nil)
	create(t, k, 3)
	status := sli.Array{
		sli.Dict{"source": int64(1), "target": int64(2), "synapse_model": sli.Literal("tsodyks_synapse"),
			"weight": 3.0, "delay": 2.0, "U": 0.3, "port": int64(0)},
		sli.Dict{"source": int64(2), "target": int64(3), "synapse_modelid": int64(1), "synapse_label": int64(4)},
	}
	k.Push(status)
	kernelErr(t, k.Run("DataConnect_a"), "UnaccessedDictionaryEntry")
	assert.Empty(t, all(t, k))

	k.Push(sli.Dict{"dict_miss_is_error": false})
	require.NoError(t, k.Run("SetStatus"))
	k.Push(status)
	require.NoError(t, k.Run("DataConnect_a"))
	cs := all(t, k)
	require.Len(t, cs, 2)
	assert.Equal(t, 3, cs[0].ModelID)
	assert.Equal(t, 0.3, cs[0].Params["U"])
	assert.Equal(t, 3.0, cs[0].Weight)
	assert.Equal(t, 1, cs[1].ModelID)
	assert.Equal(t, 4, cs[1].Label)

	k.Push(sli.Array{sli.Dict{"source": int64(1), "target": int64(2), "synapse_modelid": int64(9)}})
	kernelErr(t, k.Run("DataConnect_a"), "UnknownSynapseType")
	k.Push(sli.Array{sli.Dict{"source": int64(1)}})
	kernelErr(t, k.Run("DataConnect_a"), "UndefinedName")
}

func TestOptions(t *testing.T) {
	k := newKernel(t, nil)
	k.Push(sli.Literal("Connect"))
	k.Push(sli.Literal("conn_spec"))
	require.NoError(t, k.Run("GetOption"))
	d, _ := k.Pop()
	cs, ok := d.(sli.Dict)
	require.True(t, ok)
	assert.Equal(t, sli.Literal("all_to_all"), cs["rule"])

	k.Push(sli.Literal("Connect"))
	k.Push(sli.Dict{"conn_spec": sli.Dict{"rule": sli.Literal("one_to_one")}})
	require.NoError(t, k.Run("SetOptions"))
	k.Push(sli.Literal("Connect"))
	k.Push(sli.Literal("conn_spec"))
	require.NoError(t, k.Run("GetOption"))
	d, _ = k.Pop()
	assert.Equal(t, sli.Literal("one_to_one"), d.(sli.Dict)["rule"])

	k.Push(sli.Literal("Connect"))
	k.Push(sli.Literal("nothing"))
	kernelErr(t, k.Run("GetOption"), "UnknownOption")
}

func TestStatus(t *testing.T) {
	k := newKernel(t, nil)
	k.Push(sli.Dict{"resolution": 0.5, "local_num_threads": int64(2)})
	require.NoError(t, k.Run("SetStatus"))
	assert.Equal(t, 0.5, k.Params.Resolution)
	assert.Equal(t, 2, k.Params.Threads)

	k.Push(sli.Dict{"bogus": int64(1)})
	kernelErr(t, k.Run("SetStatus"), "UnaccessedDictionaryEntry")

	pop := create(t, k, 2)
	require.NoError(t, connect(k, pop, pop, sli.Dict{"rule": sli.Literal("one_to_one")}, sli.Dict{}))
	k.Push(sli.Dict{"resolution": 1.0})
	kernelErr(t, k.Run("SetStatus"), "KernelException")

	require.NoError(t, k.Run("GetStatus"))
	d, _ := k.Pop()
	st := d.(sli.Dict)
	assert.Equal(t, int64(2), st["network_size"])
	assert.Equal(t, int64(2), st["num_connections"])
}

func TestLocality(t *testing.T) {
	kp := testParams()
	kp.Threads = 2
	kp.Size = 2
	kp.Rank = 0
	k := newKernel(t, kp)
	pop := create(t, k, 4)
	require.NoError(t, connect(k, pop, pop, sli.Dict{"rule": sli.Literal("all_to_all")}, sli.Dict{}))
	cs := all(t, k)
	require.Len(t, cs, 8)
	for _, c := range cs {
		assert.Contains(t, []int{2, 4}, c.Target)
		if c.Target == 2 {
			assert.Equal(t, 1, c.Thread)
		} else {
			assert.Equal(t, 0, c.Thread)
		}
	}

	kp.Rank = 2
	_, err := New(kp)
	assert.Error(t, err)
}

func TestLibneurosim(t *testing.T) {
	k := newKernel(t, nil)
	require.NoError(t, k.Run("statusdict/have_libneurosim ::"))
	d, _ := k.Pop()
	assert.Equal(t, false, d)
	kernelErr(t, k.Run("CGConnect"), "NotImplemented")
}

func TestReports(t *testing.T) {
	k := newKernel(t, nil)
	pre := create(t, k, 3)
	post := create(t, k, 2)
	require.NoError(t, connect(k, pre, post, sli.Dict{"rule": sli.Literal("all_to_all")}, sli.Dict{}))
	require.NoError(t, connect(k, pre[:1], post[:1], sli.Dict{"rule": sli.Literal("one_to_one")}, sli.Dict{"model": sli.Literal("tsodyks_synapse")}))

	sts, err := k.Stats()
	require.NoError(t, err)
	assert.Equal(t, 6, sts[0].NConn)
	assert.Equal(t, float32(3), sts[0].InDeg.Max)
	assert.Equal(t, float32(3), sts[0].InDeg.Avg)
	assert.Equal(t, 1, sts[3].NConn)

	rep := k.SizeReport()
	assert.Contains(t, rep, "static_synapse")
	assert.Contains(t, rep, "tsodyks_synapse")
	assert.Contains(t, rep, "Conns: 7")
	assert.NotContains(t, rep, "stdp_synapse")

	var b bytes.Buffer
	require.NoError(t, k.WriteConnsJSON(&b))
	var out struct {
		Rank   int
		Models []struct {
			Model string
			ID    int
			Conns []map[string]float64
		}
	}
	require.NoError(t, json.Unmarshal(b.Bytes(), &out), b.String())
	require.Len(t, out.Models, 2)
	assert.Equal(t, "static_synapse", out.Models[0].Model)
	assert.Len(t, out.Models[0].Conns, 6)
	assert.Equal(t, 3, out.Models[1].ID)
	assert.Equal(t, 800.0, out.Models[1].Conns[0]["tau_rec"])
}
