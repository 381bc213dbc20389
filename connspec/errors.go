// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package connspec

import (
	"errors"
	"fmt"
)

// ErrConfig is the class of all local configuration errors: malformed
// connectivity or synapse specifications, conflicting aliases, wrong argument
// arity.  Test with errors.Is(err, ErrConfig).
var ErrConfig = errors.New("configuration error")

// ConfigError describes a malformed specification.  It is raised before any
// request reaches the kernel.
type ConfigError struct {
	// Field names the offending key or argument, if any
	Field string

	// Msg describes the problem
	Msg string
}

func (ce *ConfigError) Error() string {
	if ce.Field == "" {
		return "configuration error: " + ce.Msg
	}
	return fmt.Sprintf("configuration error: %s: %s", ce.Field, ce.Msg)
}

// Is reports ConfigError as ErrConfig.
func (ce *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// Errorf returns a *ConfigError for field with a formatted message.
func Errorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
