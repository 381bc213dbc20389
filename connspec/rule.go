// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package connspec

import (
	"errors"
	"strconv"

	"github.com/goki/ki/kit"
)

// Rule is a connectivity rule: the named algorithm the kernel uses to choose
// edges between a source and a target population.
type Rule int32

var KiT_Rule = kit.Enums.AddEnum(RuleN, false, nil)

func (ev Rule) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Rule) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// AllToAll connects every source to every target
	AllToAll Rule = iota

	// OneToOne connects the i-th source to the i-th target -- populations must be the same size
	OneToOne

	// FixedIndegree draws a fixed number of sources (indegree) for each target
	FixedIndegree

	// FixedOutdegree draws a fixed number of targets (outdegree) for each source
	FixedOutdegree

	// FixedTotalNumber draws a fixed total number (N) of edges between the populations
	FixedTotalNumber

	// PairwiseBernoulli includes each source-target pair independently with probability p
	PairwiseBernoulli

	RuleN
)

var ruleNames = [...]string{
	AllToAll:          "all_to_all",
	OneToOne:          "one_to_one",
	FixedIndegree:     "fixed_indegree",
	FixedOutdegree:    "fixed_outdegree",
	FixedTotalNumber:  "fixed_total_number",
	PairwiseBernoulli: "pairwise_bernoulli",
}

// ruleAliases are the accepted short names, matched case for case.
var ruleAliases = map[string]Rule{
	"indegree":  FixedIndegree,
	"outdegree": FixedOutdegree,
	"N":         FixedTotalNumber,
	"p":         PairwiseBernoulli,
}

// ruleKeys are the rule parameter keys each rule requires -- no more, no less.
var ruleKeys = [...][]string{
	AllToAll:          nil,
	OneToOne:          nil,
	FixedIndegree:     {"indegree"},
	FixedOutdegree:    {"outdegree"},
	FixedTotalNumber:  {"N"},
	PairwiseBernoulli: {"p"},
}

// String returns the canonical rule name.
func (ev Rule) String() string {
	if ev < 0 || ev >= RuleN {
		return "Rule(" + strconv.Itoa(int(ev)) + ")"
	}
	return ruleNames[ev]
}

// FromString sets the rule from a canonical name or alias.
func (ev *Rule) FromString(s string) error {
	r, ok := ParseRule(s)
	if !ok {
		return errors.New("String: " + s + " is not a valid option for type: Rule")
	}
	*ev = r
	return nil
}

// Keys returns the rule parameter keys the rule requires.
func (ev Rule) Keys() []string {
	if ev < 0 || ev >= RuleN {
		return nil
	}
	return ruleKeys[ev]
}

// ParseRule maps a canonical rule name or an alias to its Rule.
func ParseRule(name string) (Rule, bool) {
	for i, nm := range ruleNames {
		if nm == name {
			return Rule(i), true
		}
	}
	r, ok := ruleAliases[name]
	return r, ok
}
