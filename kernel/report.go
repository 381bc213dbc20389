// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/connect/connstore"
	"github.com/emer/etable/v2/minmax"
	"github.com/goki/ki/indent"
)

// ConnStats summarizes the connections of one synapse model.
type ConnStats struct {
	Model string
	NConn int
	Mem   datasize.ByteSize

	// indegree over targets with at least one connection of the model
	InDeg minmax.AvgMax32
}

// Stats returns per-model connection statistics, in model id order.
func (k *Kernel) Stats() ([]ConnStats, error) {
	cs, err := k.store.Query(connstore.AnyFilter())
	if err != nil {
		return nil, err
	}
	indeg := make([]map[int]int, len(k.Models.List))
	for i := range indeg {
		indeg[i] = make(map[int]int)
	}
	sts := make([]ConnStats, len(k.Models.List))
	for i, md := range k.Models.List {
		sts[i].Model = md.Name
	}
	for i := range cs {
		c := &cs[i]
		st := &sts[c.ModelID]
		st.NConn++
		st.Mem += datasize.ByteSize(int(unsafe.Sizeof(*c)) + 8*len(c.Params))
		indeg[c.ModelID][c.Target]++
	}
	for i := range sts {
		am := &sts[i].InDeg
		am.Init()
		tgts := make([]int, 0, len(indeg[i]))
		for t := range indeg[i] {
			tgts = append(tgts, t)
		}
		sort.Ints(tgts)
		for _, t := range tgts {
			am.UpdateVal(float32(indeg[i][t]), int32(t))
		}
		am.CalcAvg()
	}
	return sts, nil
}

// SizeReport returns a string reporting the number of nodes and the number
// and memory of connections per synapse model.
func (k *Kernel) SizeReport() string {
	var b strings.Builder
	sts, err := k.Stats()
	if err != nil {
		fmt.Fprintf(&b, "error: %v\n", err)
		return b.String()
	}
	nconn := 0
	mem := datasize.ByteSize(0)
	for _, st := range sts {
		if st.NConn == 0 {
			continue
		}
		nconn += st.NConn
		mem += st.Mem
		fmt.Fprintf(&b, "%20s:\t Conns: %d\t ConnMem: %v\t InDeg Avg: %g\t Max: %g (node %d)\n", st.Model, st.NConn, st.Mem.HumanReadable(), st.InDeg.Avg, st.InDeg.Max, st.InDeg.MaxIdx)
	}
	fmt.Fprintf(&b, "\n%20s:\t Nodes: %d\t Conns: %d\t ConnMem: %v\t Rank: %d / %d\n", "kernel", len(k.nodes), nconn, mem.HumanReadable(), k.Params.Rank, k.Params.Size)
	return b.String()
}

// WriteConnsJSON writes the local connection table in a JSON text format,
// grouped by synapse model.
func (k *Kernel) WriteConnsJSON(w io.Writer) error {
	cs, err := k.store.Query(connstore.AnyFilter())
	if err != nil {
		return err
	}
	byModel := make([][]connstore.Conn, len(k.Models.List))
	for _, c := range cs {
		byModel[c.ModelID] = append(byModel[c.ModelID], c)
	}
	depth := 0
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Rank\": %d,\n", k.Params.Rank)))
	w.Write(indent.TabBytes(depth))
	var mds []int
	for i, mc := range byModel {
		if len(mc) > 0 {
			mds = append(mds, i)
		}
	}
	if len(mds) == 0 {
		w.Write([]byte("\"Models\": null\n"))
	} else {
		w.Write([]byte("\"Models\": [\n"))
		depth++
		for mi, id := range mds {
			writeModelJSON(w, depth, k.Models.List[id], byModel[id])
			if mi == len(mds)-1 {
				w.Write([]byte("\n"))
			} else {
				w.Write([]byte(",\n"))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("]\n"))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	_, err = w.Write([]byte("}\n"))
	return err
}

// writeModelJSON writes one model's connections, leaving the object
// unterminated.
func writeModelJSON(w io.Writer, depth int, md *Model, cs []connstore.Conn) {
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Model\": %q,\n", md.Name)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"ID\": %d,\n", md.ID)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("\"Conns\": [\n"))
	depth++
	pnms := md.ParamNames()
	for ci := range cs {
		c := &cs[ci]
		w.Write(indent.TabBytes(depth))
		w.Write([]byte(fmt.Sprintf("{\"Src\": %d, \"Tgt\": %d, \"Thr\": %d, \"Port\": %d, \"Wt\": %g, \"Dly\": %g", c.Source, c.Target, c.Thread, c.Port, c.Weight, c.Delay)))
		if md.Labeled {
			w.Write([]byte(fmt.Sprintf(", \"Lbl\": %d", c.Label)))
		}
		for _, pn := range pnms {
			w.Write([]byte(fmt.Sprintf(", %q: %g", pn, c.Params[pn])))
		}
		if ci == len(cs)-1 {
			w.Write([]byte("}\n"))
		} else {
			w.Write([]byte("},\n"))
		}
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("]\n"))
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}"))
}
