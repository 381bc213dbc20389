// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nest

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/emer/connect/connspec"
	"github.com/emer/connect/sli"
)

var (
	// ErrBadReply is returned when the kernel's reply cannot be decoded.
	ErrBadReply = errors.New("nest: malformed kernel reply")

	// ErrNoConnectionGenerator is returned by the connection generator
	// functions when the kernel was built without libneurosim.
	ErrNoConnectionGenerator = errors.New("nest: kernel has no connection generator support (libneurosim)")
)

// Client is the host-side entry point to the connection routines of a
// kernel.  All calls go through one sli.Session and are serialized.
type Client struct {
	sess   *sli.Session
	log    *slog.Logger
	onWarn func(Warning)

	mu       sync.Mutex
	warned   map[string]bool
	warnings []Warning
}

// Option configures a Client.
type Option func(c *Client)

// WithLogger sets the logger, slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithWarningHandler sets a function called with each new warning.
func WithWarningHandler(fn func(Warning)) Option {
	return func(c *Client) { c.onWarn = fn }
}

// NewClient returns a client talking to interp.
func NewClient(interp sli.Interp, opts ...Option) *Client {
	c := &Client{warned: make(map[string]bool)}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	c.sess = sli.NewSession(interp, c.log)
	return c
}

// Warnings returns the warnings raised so far, each once.
func (c *Client) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Warning(nil), c.warnings...)
}

// warn records w the first time its kind is seen for its function.
func (c *Client) warn(w Warning) {
	key := w.Kind.String() + "/" + w.Func + "/" + w.Alt
	c.mu.Lock()
	if c.warned[key] {
		c.mu.Unlock()
		return
	}
	c.warned[key] = true
	c.warnings = append(c.warnings, w)
	c.mu.Unlock()
	c.sess.Logger().Warn(w.Msg, "kind", w.Kind.String(), "func", w.Func)
	if c.onWarn != nil {
		c.onWarn(w)
	}
}

// Create makes n nodes of the given model and returns their ids.
func (c *Client) Create(model string, n int) ([]int, error) {
	if model == "" {
		return nil, connspec.Errorf("model", "empty model name")
	}
	if n < 1 {
		return nil, connspec.Errorf("n", "must be positive, not %d", n)
	}
	var gids []int
	err := c.sess.Do("Create", func(tx *sli.Tx) error {
		tx.Push(sli.Literal(model))
		tx.Push(int64(n))
		if err := tx.Run("Create"); err != nil {
			return err
		}
		iv, err := tx.PopIntVector()
		if err != nil {
			return fmt.Errorf("Create: %w: %w", ErrBadReply, err)
		}
		gids = iv.Ints()
		return nil
	})
	return gids, err
}
