// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math/rand"

	"github.com/emer/connect/connspec"
	"github.com/emer/emergent/v2/prjn"
	"github.com/emer/etable/v2/etensor"
)

// Edge is one connection to be made.  Idx is the position of the edge's
// values in per-edge parameter arrays.
type Edge struct {
	Src, Tgt int
	Idx      int
}

// BuildFunc enumerates the edges of a rule between pre and post.  It returns
// the edges and the length that per-edge parameter arrays must have.
type BuildFunc func(rnd *rand.Rand, pre, post []int, cs *connspec.ConnSpec) ([]Edge, int, error)

// Builders maps connection rules to their builders.
type Builders map[connspec.Rule]BuildFunc

// StdBuilders returns the builders of all connection rules.
func StdBuilders() Builders {
	return Builders{
		connspec.AllToAll:          AllToAll,
		connspec.OneToOne:          OneToOne,
		connspec.FixedIndegree:     FixedIndegree,
		connspec.FixedOutdegree:    FixedOutdegree,
		connspec.FixedTotalNumber:  FixedTotalNumber,
		connspec.PairwiseBernoulli: PairwiseBernoulli,
	}
}

// Build runs the builder of the spec's rule, adding reverse edges for
// symmetric specs.
func (bs Builders) Build(rnd *rand.Rand, pre, post []int, cs *connspec.ConnSpec) ([]Edge, int, error) {
	fn, has := bs[cs.Rule]
	if !has {
		return nil, 0, kerrf("BadProperty", "no builder for connection rule %s", cs.Rule)
	}
	if cs.Symmetric && cs.Rule != connspec.OneToOne && cs.Rule != connspec.AllToAll {
		return nil, 0, kerrf("NotImplemented", "connection rule %s does not support symmetric connections", cs.Rule)
	}
	es, n, err := fn(rnd, pre, post, cs)
	if err != nil {
		return nil, 0, err
	}
	if cs.Symmetric && !(cs.Rule == connspec.AllToAll && sameIDs(pre, post)) {
		fwd := len(es)
		for i := 0; i < fwd; i++ {
			e := es[i]
			es = append(es, Edge{Src: e.Tgt, Tgt: e.Src, Idx: e.Idx})
		}
	}
	return es, n, nil
}

// patternEdges enumerates the connections of an emergent projection pattern
// target-major, so that Idx = target index * |pre| + source index.
func patternEdges(pat prjn.Pattern, pre, post []int, cs *connspec.ConnSpec) []Edge {
	slen := len(pre)
	rlen := len(post)
	ssh := etensor.NewShape([]int{slen}, nil, nil)
	rsh := etensor.NewShape([]int{rlen}, nil, nil)
	_, _, cons := pat.Connect(ssh, rsh, !cs.Autapses && sameIDs(pre, post))
	cbits := cons.Values
	var es []Edge
	for ri := 0; ri < rlen; ri++ {
		rbi := ri * slen
		for si := 0; si < slen; si++ {
			if !cbits.Index(rbi + si) {
				continue
			}
			if !cs.Autapses && pre[si] == post[ri] {
				continue
			}
			es = append(es, Edge{Src: pre[si], Tgt: post[ri], Idx: rbi + si})
		}
	}
	return es
}

// AllToAll connects every source to every target.  Per-edge arrays are
// |post| x |pre| matrices flattened target-major.
func AllToAll(rnd *rand.Rand, pre, post []int, cs *connspec.ConnSpec) ([]Edge, int, error) {
	pat := prjn.NewFull()
	pat.SelfCon = cs.Autapses
	return patternEdges(pat, pre, post, cs), len(pre) * len(post), nil
}

// OneToOne connects the i-th source to the i-th target.
func OneToOne(rnd *rand.Rand, pre, post []int, cs *connspec.ConnSpec) ([]Edge, int, error) {
	if len(pre) != len(post) {
		return nil, 0, kerrf("DimensionMismatch", "one_to_one requires source and target populations of equal size, got %d and %d", len(pre), len(post))
	}
	es := patternEdges(prjn.NewOneToOne(), pre, post, cs)
	for i := range es {
		es[i].Idx /= len(pre) + 1
	}
	return es, len(pre), nil
}

// FixedIndegree draws indegree sources for every target.
func FixedIndegree(rnd *rand.Rand, pre, post []int, cs *connspec.ConnSpec) ([]Edge, int, error) {
	n := cs.Int("indegree")
	var es []Edge
	for _, tgt := range post {
		srcs, err := draw(rnd, pre, tgt, n, cs, "indegree")
		if err != nil {
			return nil, 0, err
		}
		for _, src := range srcs {
			es = append(es, Edge{Src: src, Tgt: tgt, Idx: len(es)})
		}
	}
	return es, len(es), nil
}

// FixedOutdegree draws outdegree targets for every source.
func FixedOutdegree(rnd *rand.Rand, pre, post []int, cs *connspec.ConnSpec) ([]Edge, int, error) {
	n := cs.Int("outdegree")
	var es []Edge
	for _, src := range pre {
		tgts, err := draw(rnd, post, src, n, cs, "outdegree")
		if err != nil {
			return nil, 0, err
		}
		for _, tgt := range tgts {
			es = append(es, Edge{Src: src, Tgt: tgt, Idx: len(es)})
		}
	}
	return es, len(es), nil
}

// draw picks n partners of node from pool, excluding node itself unless
// autapses are allowed, and with repetition only if multapses are allowed.
func draw(rnd *rand.Rand, pool []int, node, n int, cs *connspec.ConnSpec, key string) ([]int, error) {
	cands := pool
	if !cs.Autapses {
		cands = make([]int, 0, len(pool))
		for _, p := range pool {
			if p != node {
				cands = append(cands, p)
			}
		}
	}
	if n == 0 {
		return nil, nil
	}
	if len(cands) == 0 {
		return nil, kerrf("BadProperty", "no candidates for node %d with %s %d", node, key, n)
	}
	out := make([]int, n)
	if cs.Multapses {
		for i := range out {
			out[i] = cands[rnd.Intn(len(cands))]
		}
		return out, nil
	}
	if n > len(cands) {
		return nil, kerrf("BadProperty", "%s %d exceeds the %d available partners of node %d without multapses", key, n, len(cands), node)
	}
	perm := rnd.Perm(len(cands))
	for i := range out {
		out[i] = cands[perm[i]]
	}
	return out, nil
}

// FixedTotalNumber draws N source / target pairs.
func FixedTotalNumber(rnd *rand.Rand, pre, post []int, cs *connspec.ConnSpec) ([]Edge, int, error) {
	n := cs.Int("N")
	slen, rlen := len(pre), len(post)
	avail := 0
	for _, t := range post {
		for _, s := range pre {
			if cs.Autapses || s != t {
				avail++
			}
		}
	}
	if n > 0 && avail == 0 {
		return nil, 0, kerrf("BadProperty", "no possible connections for N %d", n)
	}
	if !cs.Multapses && n > avail {
		return nil, 0, kerrf("BadProperty", "N %d exceeds the %d possible connections without multapses", n, avail)
	}
	seen := make(map[int]bool)
	es := make([]Edge, 0, n)
	for len(es) < n {
		ri, si := rnd.Intn(rlen), rnd.Intn(slen)
		if !cs.Autapses && pre[si] == post[ri] {
			continue
		}
		if !cs.Multapses {
			bi := ri*slen + si
			if seen[bi] {
				continue
			}
			seen[bi] = true
		}
		es = append(es, Edge{Src: pre[si], Tgt: post[ri], Idx: len(es)})
	}
	return es, n, nil
}

// PairwiseBernoulli makes each possible connection with probability p.
func PairwiseBernoulli(rnd *rand.Rand, pre, post []int, cs *connspec.ConnSpec) ([]Edge, int, error) {
	p := cs.Params["p"]
	var es []Edge
	for _, tgt := range post {
		for _, src := range pre {
			if !cs.Autapses && src == tgt {
				continue
			}
			if rnd.Float64() < p {
				es = append(es, Edge{Src: src, Tgt: tgt, Idx: len(es)})
			}
		}
	}
	return es, len(es), nil
}

// sameIDs returns true if a and b list the same nodes in the same order.
func sameIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
