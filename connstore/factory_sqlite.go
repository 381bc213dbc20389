// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build sqlite

package connstore

func newSQLiteStore(path string) (Store, error) {
	s := NewSQLiteStore(path)
	if err := s.Init(); err != nil {
		return nil, err
	}
	return s, nil
}
