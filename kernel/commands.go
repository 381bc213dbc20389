// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"github.com/emer/connect/connspec"
	"github.com/emer/connect/connstore"
	"github.com/emer/connect/sli"
)

// StdCommands returns the kernel's command table.
func StdCommands() map[string]Command {
	return map[string]Command{
		"Create":                         cmdCreate,
		"cvlit":                          cmdCvlit,
		"cvgidcollection":                cmdCvgidcollection,
		"GetOption":                      cmdGetOption,
		"SetOptions":                     cmdSetOptions,
		"GetStatus":                      cmdGetStatus,
		"SetStatus":                      cmdSetStatus,
		"Connect":                        cmdConnect,
		"GetConnections":                 cmdGetConnections,
		"Disconnect":                     cmdDisconnect,
		"Disconnect_g_g_D_D":             cmdDisconnectGG,
		"DataConnect_i_D_s":              cmdDataConnect,
		"DataConnect_a":                  cmdDataConnectStatus,
		"statusdict/have_libneurosim ::": cmdHaveLibneurosim,
		"CGConnect":                      cmdNoLibneurosim,
		"CGParse":                        cmdNoLibneurosim,
		"CGSelectImplementation":         cmdNoLibneurosim,
	}
}

// /model n Create -> gids
func cmdCreate(k *Kernel) error {
	ops, err := k.PopN(2)
	if err != nil {
		return err
	}
	model, ok := literal(ops[0])
	if !ok {
		return kerrf("ArgumentType", "model must be a literal, not %s", sli.TypeName(ops[0]))
	}
	n, ok := ops[1].(int64)
	if !ok || n < 1 {
		return kerrf("RangeCheck", "number of nodes must be a positive integer")
	}
	gids := make(sli.IntVector, n)
	for i := range gids {
		k.nodes = append(k.nodes, model)
		gids[i] = int64(len(k.nodes))
	}
	k.Push(gids)
	return nil
}

// (name) cvlit -> /name
func cmdCvlit(k *Kernel) error {
	d, err := k.Pop()
	if err != nil {
		return err
	}
	nm, ok := literal(d)
	if !ok {
		return kerrf("ArgumentType", "cvlit needs a string, not %s", sli.TypeName(d))
	}
	k.Push(sli.Literal(nm))
	return nil
}

// <# ids #> cvgidcollection -> gidcollection
func cmdCvgidcollection(k *Kernel) error {
	d, err := k.Pop()
	if err != nil {
		return err
	}
	iv, err := sli.AsIntVector(d)
	if err != nil {
		return err
	}
	k.Push(sli.GIDCollection(iv))
	return nil
}

// /func /option GetOption -> value
func cmdGetOption(k *Kernel) error {
	ops, err := k.PopN(2)
	if err != nil {
		return err
	}
	fn, ok1 := literal(ops[0])
	opt, ok2 := literal(ops[1])
	if !ok1 || !ok2 {
		return kerrf("ArgumentType", "GetOption needs two literals")
	}
	v, has := k.options[fn][opt]
	if !has {
		return kerrf("UnknownOption", "%s has no option %s", fn, opt)
	}
	if d, isDict := v.(sli.Dict); isDict {
		v = copyDict(d)
	}
	k.Push(v)
	return nil
}

// /func << options >> SetOptions
func cmdSetOptions(k *Kernel) error {
	ops, err := k.PopN(2)
	if err != nil {
		return err
	}
	fn, ok := literal(ops[0])
	if !ok {
		return kerrf("ArgumentType", "SetOptions needs a literal function name")
	}
	d, ok := ops[1].(sli.Dict)
	if !ok {
		return kerrf("ArgumentType", "SetOptions needs an option dictionary")
	}
	cur, has := k.options[fn]
	if !has {
		return kerrf("UnknownOption", "%s has no options", fn)
	}
	for _, key := range d.Keys() {
		if _, has := cur[key]; !has {
			return kerrf("UnknownOption", "%s has no option %s", fn, key)
		}
	}
	if cs, has := d["conn_spec"]; has {
		if _, err := connspec.Resolve(cs); err != nil {
			return kerrf("BadProperty", "%v", err)
		}
	}
	for _, key := range d.Keys() {
		cur[key] = d[key]
	}
	return nil
}

// GetStatus -> << kernel status >>
func cmdGetStatus(k *Kernel) error {
	n, err := k.store.Len()
	if err != nil {
		return err
	}
	k.Push(sli.Dict{
		"network_size":       int64(len(k.nodes)),
		"num_connections":    int64(n),
		"local_num_threads":  int64(k.Params.Threads),
		"num_processes":      int64(k.Params.Size),
		"resolution":         k.Params.Resolution,
		"rng_seed":           k.Params.Seed,
		"dict_miss_is_error": k.dictMissIsError,
	})
	return nil
}

// << status >> SetStatus
func cmdSetStatus(k *Kernel) error {
	d, err := k.Pop()
	if err != nil {
		return err
	}
	dict, ok := d.(sli.Dict)
	if !ok {
		return kerrf("ArgumentType", "SetStatus needs a dictionary")
	}
	n, err := k.store.Len()
	if err != nil {
		return err
	}
	kp := k.Params
	miss := k.dictMissIsError
	for _, key := range dict.Keys() {
		v := dict[key]
		switch key {
		case "local_num_threads":
			t, ok := v.(int64)
			if !ok || t < 1 {
				return kerrf("BadProperty", "local_num_threads must be a positive integer")
			}
			if n > 0 {
				return kerrf("KernelException", "cannot change the number of threads after connections were made")
			}
			kp.Threads = int(t)
		case "resolution":
			r, ok := number(v)
			if !ok || r <= 0 {
				return kerrf("BadProperty", "resolution must be positive")
			}
			if n > 0 {
				return kerrf("KernelException", "cannot change the resolution after connections were made")
			}
			kp.Resolution = r
		case "rng_seed":
			s, ok := v.(int64)
			if !ok {
				return kerrf("BadProperty", "rng_seed must be an integer")
			}
			kp.Seed = s
		case "dict_miss_is_error":
			b, ok := v.(bool)
			if !ok {
				return kerrf("BadProperty", "dict_miss_is_error must be a bool")
			}
			miss = b
		default:
			return kerrf("UnaccessedDictionaryEntry", "%s is not a kernel property", key)
		}
	}
	if kp.Seed != k.Params.Seed {
		k.reseed(kp.Seed)
	}
	k.Params = kp
	k.dictMissIsError = miss
	return nil
}

// pre post << conn >> << syn >> Connect
func cmdConnect(k *Kernel) error {
	ops, err := k.PopN(4)
	if err != nil {
		return err
	}
	pre, err := ids(ops[0])
	if err != nil {
		return err
	}
	post, err := ids(ops[1])
	if err != nil {
		return err
	}
	if err := k.checkNodes(pre); err != nil {
		return err
	}
	if err := k.checkNodes(post); err != nil {
		return err
	}
	cs, err := connspec.Resolve(ops[2])
	if err != nil {
		return kerrf("BadProperty", "%v", err)
	}
	ss, err := k.parseSyn(ops[3], false)
	if err != nil {
		return err
	}
	es, n, err := k.Builders.Build(k.rnd, pre, post, cs)
	if err != nil {
		return err
	}
	conns, err := k.conns(ss, es, n)
	if err != nil {
		return err
	}
	return k.add(conns)
}

// << filter >> GetConnections -> [<# source target thread modelid port #> ...]
func cmdGetConnections(k *Kernel) error {
	d, err := k.Pop()
	if err != nil {
		return err
	}
	dict, ok := d.(sli.Dict)
	if !ok {
		return kerrf("ArgumentType", "GetConnections needs a dictionary")
	}
	f := connstore.AnyFilter()
	none := false
	for _, key := range dict.Keys() {
		v := dict[key]
		switch key {
		case "source":
			if f.Sources, err = ids(v); err != nil {
				return err
			}
			none = none || len(f.Sources) == 0
		case "target":
			if f.Targets, err = ids(v); err != nil {
				return err
			}
			none = none || len(f.Targets) == 0
		case "synapse_model":
			nm, ok := literal(v)
			if !ok {
				return kerrf("ArgumentType", "synapse_model must be a literal")
			}
			md, has := k.Models.ByName(nm)
			if !has {
				return kerrf("UnknownSynapseType", "synapse type %s does not exist", nm)
			}
			f.ModelID = md.ID
		case KeyLabel:
			lbl, ok := v.(int64)
			if !ok || lbl < 0 {
				return kerrf("BadProperty", "synapse_label must be a non-negative integer")
			}
			f.Label = int(lbl)
		default:
			return kerrf("UnaccessedDictionaryEntry", "%s is not a connection filter", key)
		}
	}
	var cs []connstore.Conn
	if !none {
		cs, err = k.store.Query(f)
		if err != nil {
			return err
		}
	}
	res := make(sli.Array, len(cs))
	for i, c := range cs {
		res[i] = sli.IntVector{int64(c.Source), int64(c.Target), int64(c.Thread), int64(c.ModelID), int64(c.Port)}
	}
	k.Push(res)
	return nil
}

// source target syn Disconnect
func cmdDisconnect(k *Kernel) error {
	ops, err := k.PopN(3)
	if err != nil {
		return err
	}
	src, ok1 := ops[0].(int64)
	tgt, ok2 := ops[1].(int64)
	if !ok1 || !ok2 {
		return kerrf("ArgumentType", "Disconnect needs source and target ids")
	}
	if err := k.checkNodes([]int{int(src), int(tgt)}); err != nil {
		return err
	}
	ss, err := k.parseSyn(ops[2], true)
	if err != nil {
		return err
	}
	if !k.Params.IsLocal(int(tgt)) {
		return nil
	}
	ok, err := k.store.Remove(int(src), int(tgt), ss.model.ID)
	if err != nil {
		return err
	}
	if !ok {
		return kerrf("InexistentConnection", "no %s connection from %d to %d", ss.model.Name, src, tgt)
	}
	return nil
}

type pair struct{ src, tgt int }

// pre post << conn >> << syn >> Disconnect_g_g_D_D
func cmdDisconnectGG(k *Kernel) error {
	ops, err := k.PopN(4)
	if err != nil {
		return err
	}
	pre, err := ids(ops[0])
	if err != nil {
		return err
	}
	post, err := ids(ops[1])
	if err != nil {
		return err
	}
	if err := k.checkNodes(pre); err != nil {
		return err
	}
	if err := k.checkNodes(post); err != nil {
		return err
	}
	cs, err := connspec.Resolve(ops[2])
	if err != nil {
		return kerrf("BadProperty", "%v", err)
	}
	ss, err := k.parseSyn(ops[3], true)
	if err != nil {
		return err
	}
	var pairs []pair
	switch cs.Rule {
	case connspec.OneToOne:
		if len(pre) != len(post) {
			return kerrf("DimensionMismatch", "one_to_one requires source and target populations of equal size, got %d and %d", len(pre), len(post))
		}
		for i := range pre {
			pairs = append(pairs, pair{pre[i], post[i]})
		}
	case connspec.AllToAll:
		for _, t := range post {
			for _, s := range pre {
				pairs = append(pairs, pair{s, t})
			}
		}
	default:
		return kerrf("BadProperty", "disconnection rule must be one_to_one or all_to_all, not %s", cs.Rule)
	}

	need := make(map[pair]int)
	var srcs []int
	for _, p := range pairs {
		if !k.Params.IsLocal(p.tgt) {
			continue
		}
		if need[p] == 0 {
			srcs = append(srcs, p.src)
		}
		need[p]++
	}
	if len(need) == 0 {
		return nil
	}
	f := connstore.AnyFilter()
	f.Sources = srcs
	f.ModelID = ss.model.ID
	have, err := k.store.Query(f)
	if err != nil {
		return err
	}
	got := make(map[pair]int)
	for _, c := range have {
		got[pair{c.Source, c.Target}]++
	}
	for _, p := range pairs {
		if need[p] > got[p] {
			return kerrf("InexistentConnection", "no %s connection from %d to %d", ss.model.Name, p.src, p.tgt)
		}
	}
	for _, p := range pairs {
		if !k.Params.IsLocal(p.tgt) {
			continue
		}
		if _, err := k.store.Remove(p.src, p.tgt, ss.model.ID); err != nil {
			return err
		}
	}
	return nil
}

// source << /target <# #> /weight <. .> ... >> /model DataConnect_i_D_s
func cmdDataConnect(k *Kernel) error {
	ops, err := k.PopN(3)
	if err != nil {
		return err
	}
	src, ok := ops[0].(int64)
	if !ok {
		return kerrf("ArgumentType", "DataConnect needs a source id")
	}
	params, ok := ops[1].(sli.Dict)
	if !ok {
		return kerrf("ArgumentType", "DataConnect needs a parameter dictionary")
	}
	name, ok := literal(ops[2])
	if !ok {
		return kerrf("ArgumentType", "DataConnect needs a synapse model name")
	}
	tv, has := params["target"]
	if !has {
		return kerrf("UndefinedName", "DataConnect parameters need a target array")
	}
	tgts, ok := vector(tv)
	if !ok {
		return kerrf("ArgumentType", "target must be an array of ids")
	}
	syn := sli.Dict{"model": sli.Literal(name)}
	for _, key := range params.Keys() {
		if key == "target" {
			continue
		}
		v := params[key]
		if _, isVec := vector(v); !isVec {
			return kerrf("ArgumentType", "%s must be an array", key)
		}
		syn[key] = v
	}
	ss, err := k.parseSyn(syn, false)
	if err != nil {
		return err
	}
	nodes := []int{int(src)}
	es := make([]Edge, len(tgts))
	for i, t := range tgts {
		es[i] = Edge{Src: int(src), Tgt: int(t), Idx: i}
		nodes = append(nodes, int(t))
	}
	if err := k.checkNodes(nodes); err != nil {
		return err
	}
	conns, err := k.conns(ss, es, len(es))
	if err != nil {
		return err
	}
	return k.add(conns)
}

// [<< /source s /target t /synapse_model /m /weight w ... >> ...] DataConnect_a
func cmdDataConnectStatus(k *Kernel) error {
	d, err := k.Pop()
	if err != nil {
		return err
	}
	ar, ok := d.(sli.Array)
	if !ok {
		return kerrf("ArgumentType", "DataConnect_a needs an array of connection dictionaries")
	}
	var out []connstore.Conn
	for i, e := range ar {
		st, ok := e.(sli.Dict)
		if !ok {
			return kerrf("ArgumentType", "connection %d is %s, not a dictionary", i, sli.TypeName(e))
		}
		src, ok1 := st["source"].(int64)
		tgt, ok2 := st["target"].(int64)
		if !ok1 || !ok2 {
			return kerrf("UndefinedName", "connection %d needs integer source and target", i)
		}
		md := k.Models.List[0]
		if mv, has := st["synapse_model"]; has {
			nm, ok := literal(mv)
			if !ok {
				return kerrf("ArgumentType", "synapse_model must be a literal")
			}
			if md, ok = k.Models.ByName(nm); !ok {
				return kerrf("UnknownSynapseType", "synapse type %s does not exist", nm)
			}
		} else if id, has := st["synapse_modelid"].(int64); has {
			if md = k.Models.ByID(int(id)); md == nil {
				return kerrf("UnknownSynapseType", "synapse model id %d does not exist", id)
			}
		}
		syn := sli.Dict{"model": sli.Literal(md.Name)}
		for _, key := range st.Keys() {
			switch key {
			case "source", "target", "synapse_model", "synapse_modelid":
				continue
			}
			if md.Has(key) {
				syn[key] = st[key]
			} else if k.dictMissIsError {
				return kerrf("UnaccessedDictionaryEntry", "%s is not a parameter of %s", key, md.Name)
			}
		}
		if err := k.checkNodes([]int{int(src), int(tgt)}); err != nil {
			return err
		}
		ss, err := k.parseSyn(syn, false)
		if err != nil {
			return err
		}
		cs, err := k.conns(ss, []Edge{{Src: int(src), Tgt: int(tgt)}}, 1)
		if err != nil {
			return err
		}
		out = append(out, cs...)
	}
	return k.add(out)
}

func cmdHaveLibneurosim(k *Kernel) error {
	k.Push(false)
	return nil
}

func cmdNoLibneurosim(k *Kernel) error {
	return kerrf("NotImplemented", "connection generators require libneurosim, which is not available")
}

func copyDict(d sli.Dict) sli.Dict {
	c := make(sli.Dict, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}
