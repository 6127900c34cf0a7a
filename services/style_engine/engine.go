// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package style_engine selects a named interaction style for a partially
// known user context by scanning an ordered list of declarative rules.
//
// # Description
//
// Rules are loaded once from YAML (an operator file or the embedded
// defaults) and held read-only for the process lifetime. Evaluation is a
// linear ordered predicate scan: the first rule whose every constrained
// attribute is set-and-equal in the context wins, and evaluation stops
// there. If nothing matches, a configurable fallback style is returned
// with rule index -1. Absence of a match is not an error.
//
// # Thread Safety
//
// StyleEngine is immutable after construction and safe for concurrent use
// without locking. Decide is a pure function of (context, rules): it never
// mutates its inputs and allocates only its output.
package style_engine

// DefaultFallbackStyle is the style returned when no rule matches and no
// other fallback label was configured.
const DefaultFallbackStyle = "hybrid"

// StyleEngine evaluates interaction contexts against an ordered rule list.
type StyleEngine struct {
	rules    []Rule
	fallback string
}

// NewStyleEngine creates an engine over the given ordered rules.
//
// The rule slice is copied so later mutation by the caller cannot affect
// evaluation. An empty fallback selects DefaultFallbackStyle. Rules are
// assumed to be load-time validated (see ParseRules); the engine itself
// raises no errors.
func NewStyleEngine(rules []Rule, fallback string) *StyleEngine {
	if fallback == "" {
		fallback = DefaultFallbackStyle
	}
	owned := make([]Rule, len(rules))
	copy(owned, rules)
	return &StyleEngine{rules: owned, fallback: fallback}
}

// Decide returns the style decision for the given context.
//
// Rules are scanned in list order and the first match is returned, even if
// later rules would also match. An empty rule list (or a context matching
// nothing) yields the fallback style with index -1. The operation is total
// and deterministic.
func (e *StyleEngine) Decide(ctx InteractionContext) StyleDecision {
	for idx, rule := range e.rules {
		if rule.Conditions.Matches(ctx) {
			return StyleDecision{
				Style:            rule.Style,
				MatchedRuleIndex: idx,
				MatchedRuleName:  rule.Name,
			}
		}
	}
	return StyleDecision{Style: e.fallback, MatchedRuleIndex: -1}
}

// Rules returns a copy of the effective ordered rule list.
func (e *StyleEngine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// RuleCount returns the number of loaded rules.
func (e *StyleEngine) RuleCount() int {
	return len(e.rules)
}

// FallbackStyle returns the label used when no rule matches.
func (e *StyleEngine) FallbackStyle() string {
	return e.fallback
}
