// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nest

import (
	"errors"
	"strconv"

	"github.com/goki/ki/kit"
)

// WarningKind is the kind of a Warning.
type WarningKind int32

var KiT_WarningKind = kit.Enums.AddEnum(WarningKindN, false, nil)

func (ev WarningKind) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *WarningKind) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Deprecated is reported when a deprecated function is called
	Deprecated WarningKind = iota

	// BackwardCompat is reported when a deprecated argument name is used in
	// place of its replacement
	BackwardCompat

	WarningKindN
)

var warningKindNames = [...]string{"Deprecated", "BackwardCompat"}

func (ev WarningKind) String() string {
	if ev < 0 || ev >= WarningKindN {
		return "WarningKind(" + strconv.Itoa(int(ev)) + ")"
	}
	return warningKindNames[ev]
}

func (ev *WarningKind) FromString(s string) error {
	for i, nm := range warningKindNames {
		if nm == s {
			*ev = WarningKind(i)
			return nil
		}
	}
	return errors.New("String: " + s + " is not a valid option for type: WarningKind")
}

// Warning reports use of a deprecated function or argument.
type Warning struct {
	Kind WarningKind

	// Func is the deprecated function, or the function taking the deprecated argument
	Func string

	// Alt names the replacement
	Alt string

	Msg string
}

func (w Warning) String() string {
	return w.Kind.String() + ": " + w.Msg
}

func deprecated(fn, alt string) Warning {
	return Warning{Kind: Deprecated, Func: fn, Alt: alt,
		Msg: fn + " is deprecated and will be removed in a future version. Please use " + alt + " instead."}
}

func backwardCompat(fn, old, alt string) Warning {
	return Warning{Kind: BackwardCompat, Func: fn, Alt: alt,
		Msg: "The argument " + old + " of " + fn + " is deprecated and will be removed in a future version. Please use " + alt + " instead."}
}
