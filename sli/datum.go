// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sli

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrUnsupportedType is returned when a host value has no datum representation.
var ErrUnsupportedType = errors.New("sli: unsupported host type")

// Literal is a literal name, written /name in the interpreter's notation.
type Literal string

// IntVector is a homogeneous vector of integers.
type IntVector []int64

// DoubleVector is a homogeneous vector of doubles.
type DoubleVector []float64

// Array is a heterogeneous array of datums.
type Array []any

// Dict is a dictionary of datums keyed by name.
type Dict map[string]any

// GIDCollection is a node collection produced by cvgidcollection.
type GIDCollection []int64

// Ints converts the vector to a slice of ints.
func (iv IntVector) Ints() []int {
	is := make([]int, len(iv))
	for i, v := range iv {
		is[i] = int(v)
	}
	return is
}

// NewIntVector returns the IntVector for given node ids.
func NewIntVector(ids []int) IntVector {
	iv := make(IntVector, len(ids))
	for i, v := range ids {
		iv[i] = int64(v)
	}
	return iv
}

// Keys returns the dictionary keys in sorted order.
func (d Dict) Keys() []string {
	ks := make([]string, 0, len(d))
	for k := range d {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// Convert maps a host value onto the closed datum set.  Integer kinds become
// int64, float kinds float64, []int an IntVector, []float64 a DoubleVector,
// map[string]any a Dict and []any an Array, recursively.  Values that are
// already datums are returned unchanged (containers are converted deeply).
func Convert(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, fmt.Errorf("nil value: %w", ErrUnsupportedType)
	case bool, string, Literal, int64, float64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case uint:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("uint64 %d overflows int64: %w", x, ErrUnsupportedType)
		}
		return int64(x), nil
	case float32:
		return float64(x), nil
	case IntVector, DoubleVector, GIDCollection:
		return x, nil
	case []int:
		return NewIntVector(x), nil
	case []int64:
		return IntVector(x), nil
	case []float64:
		return DoubleVector(x), nil
	case []float32:
		dv := make(DoubleVector, len(x))
		for i, f := range x {
			dv[i] = float64(f)
		}
		return dv, nil
	case []string:
		ar := make(Array, len(x))
		for i, s := range x {
			ar[i] = s
		}
		return ar, nil
	case Array:
		return convertSlice(x)
	case []any:
		return convertSlice(x)
	case Dict:
		return convertMap(x)
	case map[string]any:
		return convertMap(x)
	}
	return nil, fmt.Errorf("%T: %w", v, ErrUnsupportedType)
}

func convertSlice(xs []any) (Array, error) {
	ar := make(Array, len(xs))
	for i, e := range xs {
		d, err := Convert(e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		ar[i] = d
	}
	return ar, nil
}

func convertMap(m map[string]any) (Dict, error) {
	d := make(Dict, len(m))
	for k, e := range m {
		v, err := Convert(e)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		d[k] = v
	}
	return d, nil
}

// Format renders a datum in the interpreter's text notation:
// /name for literals, (text) for strings, <# ... #> for vectors,
// [ ... ] for arrays and << /key value ... >> for dictionaries (keys sorted).
func Format(d any) string {
	var b strings.Builder
	format(&b, d)
	return b.String()
}

func format(b *strings.Builder, d any) {
	switch x := d.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		if x {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case int64:
		b.WriteString(strconv.FormatInt(x, 10))
	case float64:
		b.WriteString(formatDouble(x))
	case string:
		b.WriteString("(" + x + ")")
	case Literal:
		b.WriteString("/" + string(x))
	case IntVector:
		b.WriteString("<#")
		for _, v := range x {
			b.WriteString(" " + strconv.FormatInt(v, 10))
		}
		b.WriteString(" #>")
	case GIDCollection:
		b.WriteString("<<GIDCollection")
		for _, v := range x {
			b.WriteString(" " + strconv.FormatInt(v, 10))
		}
		b.WriteString(">>")
	case DoubleVector:
		b.WriteString("<.")
		for _, v := range x {
			b.WriteString(" " + formatDouble(v))
		}
		b.WriteString(" .>")
	case Array:
		b.WriteString("[")
		for i, v := range x {
			if i > 0 {
				b.WriteString(" ")
			}
			format(b, v)
		}
		b.WriteString("]")
	case Dict:
		b.WriteString("<<")
		for _, k := range x.Keys() {
			b.WriteString(" /" + k + " ")
			format(b, x[k])
		}
		b.WriteString(" >>")
	default:
		fmt.Fprintf(b, "%v", x)
	}
}

// formatDouble always keeps a decimal point so doubles and integers stay distinct.
func formatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += "."
	}
	return s
}

// TypeName returns the interpreter's type name for a datum, used in error messages.
func TypeName(d any) string {
	switch d.(type) {
	case int64:
		return "integertype"
	case float64:
		return "doubletype"
	case bool:
		return "booltype"
	case string:
		return "stringtype"
	case Literal:
		return "literaltype"
	case IntVector:
		return "intvectortype"
	case DoubleVector:
		return "doublevectortype"
	case Array:
		return "arraytype"
	case Dict:
		return "dictionarytype"
	case GIDCollection:
		return "gidcollectiontype"
	}
	return fmt.Sprintf("%T", d)
}
