// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package connstore

import (
	"sync"
)

type portKey struct {
	src, model int
}

// MemoryStore keeps connections in memory, grouped by source.
type MemoryStore struct {
	mu     sync.RWMutex
	bySrc  map[int][]Conn
	nports map[portKey]int
	n      int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bySrc: make(map[int][]Conn), nports: make(map[portKey]int)}
}

func (s *MemoryStore) Add(c Conn) (Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pk := portKey{c.Source, c.ModelID}
	c.Port = s.nports[pk]
	s.nports[pk]++
	s.bySrc[c.Source] = append(s.bySrc[c.Source], c)
	s.n++
	return c, nil
}

func (s *MemoryStore) Remove(src, tgt, modelID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.bySrc[src]
	for i := range cs {
		if cs[i].Target == tgt && cs[i].ModelID == modelID {
			s.bySrc[src] = append(cs[:i], cs[i+1:]...)
			s.n--
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Query(f Filter) ([]Conn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Conn
	if len(f.Sources) > 0 {
		seen := make(map[int]bool, len(f.Sources))
		for _, src := range f.Sources {
			if seen[src] {
				continue
			}
			seen[src] = true
			out = appendMatches(out, s.bySrc[src], &f)
		}
	} else {
		for _, cs := range s.bySrc {
			out = appendMatches(out, cs, &f)
		}
	}
	SortConns(out)
	return out, nil
}

func appendMatches(out, cs []Conn, f *Filter) []Conn {
	for i := range cs {
		if f.Match(&cs[i]) {
			out = append(out, cs[i])
		}
	}
	return out
}

func (s *MemoryStore) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.n, nil
}
