// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"fmt"

	"github.com/emer/empi/v2/mpi"
)

// Params are the kernel-wide settings.
type Params struct {
	Threads    int     `def:"1" min:"1" desc:"number of threads per process -- connections are assigned to threads by target"`
	Seed       int64   `def:"1" desc:"seed of the random number source used by the randomized connection rules and distributions"`
	Resolution float64 `def:"0.1" min:"0" desc:"simulation resolution in ms -- delays below this are rejected"`
	Store      string  `def:"memory" desc:"connection table backend: memory or sqlite (sqlite requires the sqlite build tag)"`
	SQLitePath string  `viewif:"Store=sqlite" desc:"database file of the sqlite backend"`
	Rank       int     `desc:"rank of this process -- only connections onto targets local to this rank are created"`
	Size       int     `min:"1" desc:"number of processes"`
}

func (kp *Params) Defaults() {
	kp.Threads = 1
	kp.Seed = 1
	kp.Resolution = 0.1
	kp.Store = "memory"
	kp.Rank = mpi.WorldRank()
	kp.Size = mpi.WorldSize()
}

func (kp *Params) Update() {
	if kp.Threads < 1 {
		kp.Threads = 1
	}
	if kp.Size < 1 {
		kp.Size = 1
	}
}

// Validate returns an error if the params are unusable.
func (kp *Params) Validate() error {
	if kp.Rank < 0 || kp.Rank >= kp.Size {
		return fmt.Errorf("kernel: rank %d out of range for %d processes", kp.Rank, kp.Size)
	}
	if kp.Resolution <= 0 {
		return fmt.Errorf("kernel: resolution must be positive, not %g", kp.Resolution)
	}
	return nil
}

// VP returns the virtual process of a node: its position among Threads*Size slots.
func (kp *Params) VP(gid int) int {
	return gid % (kp.Threads * kp.Size)
}

// IsLocal returns true if the node lives on this rank.
func (kp *Params) IsLocal(gid int) bool {
	return kp.VP(gid)%kp.Size == kp.Rank
}

// Thread returns the thread of a node on its rank.
func (kp *Params) Thread(gid int) int {
	return kp.VP(gid) / kp.Size
}
