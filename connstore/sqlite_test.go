// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build sqlite

package connstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	store, err := NewStore("sqlite", filepath.Join(t.TempDir(), "conns.db"))
	require.NoError(t, err)
	defer CloseIfSupported(store)
	testStoreContract(t, store)
}

func TestSQLiteParams(t *testing.T) {
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "conns.db"))
	require.NoError(t, s.Init())
	_, err := s.Add(Conn{Source: 1, Target: 2, Label: Unlabeled, Weight: 0.5, Delay: 1.5, Params: map[string]float64{"U": 0.2}})
	require.NoError(t, err)
	got, err := s.Query(AnyFilter())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]float64{"U": 0.2}, got[0].Params)
	assert.Equal(t, 1.5, got[0].Delay)

	require.NoError(t, s.Close())
	_, err = s.Len()
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestSQLiteRequiresPath(t *testing.T) {
	assert.Error(t, NewSQLiteStore("").Init())
}
