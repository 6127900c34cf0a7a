// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package style_engine

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// KnowledgeLevel is the estimated knowledge level of the user.
type KnowledgeLevel string

const (
	KnowledgeNovice       KnowledgeLevel = "novice"
	KnowledgeIntermediate KnowledgeLevel = "intermediate"
	KnowledgeExpert       KnowledgeLevel = "expert"
)

// Emotion is the detected emotional valence of the interaction.
type Emotion string

const (
	EmotionPositive Emotion = "positive"
	EmotionNeutral  Emotion = "neutral"
	EmotionNegative Emotion = "negative"
)

// GoalClarity describes how clear the user's goal is.
type GoalClarity string

const (
	ClarityClear     GoalClarity = "clear"
	ClarityAmbiguous GoalClarity = "ambiguous"
)

// Urgency is the urgency level of the request.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyNormal Urgency = "normal"
	UrgencyLow    Urgency = "low"
)

// Stakes is the risk level of the task.
type Stakes string

const (
	StakesHigh   Stakes = "high"
	StakesMedium Stakes = "medium"
	StakesLow    Stakes = "low"
)

func (k *KnowledgeLevel) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	incoming := KnowledgeLevel(s)
	switch incoming {
	case KnowledgeNovice, KnowledgeIntermediate, KnowledgeExpert:
		*k = incoming
		return nil
	default:
		return fmt.Errorf("invalid value for knowledge: %q", incoming)
	}
}

func (e *Emotion) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	incoming := Emotion(s)
	switch incoming {
	case EmotionPositive, EmotionNeutral, EmotionNegative:
		*e = incoming
		return nil
	default:
		return fmt.Errorf("invalid value for emotion: %q", incoming)
	}
}

func (g *GoalClarity) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	incoming := GoalClarity(s)
	switch incoming {
	case ClarityClear, ClarityAmbiguous:
		*g = incoming
		return nil
	default:
		return fmt.Errorf("invalid value for clarity: %q", incoming)
	}
}

func (u *Urgency) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	incoming := Urgency(s)
	switch incoming {
	case UrgencyHigh, UrgencyNormal, UrgencyLow:
		*u = incoming
		return nil
	default:
		return fmt.Errorf("invalid value for urgency: %q", incoming)
	}
}

func (s *Stakes) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}
	incoming := Stakes(str)
	switch incoming {
	case StakesHigh, StakesMedium, StakesLow:
		*s = incoming
		return nil
	default:
		return fmt.Errorf("invalid value for stakes: %q", incoming)
	}
}

// InteractionContext describes what is known about a user interaction at
// decision time. Every attribute is optional; a nil field means the
// attribute is unknown and is never compared against rule conditions.
//
// Contexts are constructed per request by the caller and never mutated by
// the engine.
type InteractionContext struct {
	Knowledge *KnowledgeLevel `json:"knowledge,omitempty" yaml:"knowledge,omitempty"`
	Emotion   *Emotion        `json:"emotion,omitempty" yaml:"emotion,omitempty"`
	Clarity   *GoalClarity    `json:"clarity,omitempty" yaml:"clarity,omitempty"`
	Urgency   *Urgency        `json:"urgency,omitempty" yaml:"urgency,omitempty"`
	Stakes    *Stakes         `json:"stakes,omitempty" yaml:"stakes,omitempty"`
}

// Conditions is the constraint set of a rule: the subset of context
// attributes the rule requires to have specific values. Nil fields are
// wildcards. A zero-value Conditions matches every context.
//
// Condition values share the attribute enum types, so a rule can never
// require a value the request boundary would reject.
type Conditions struct {
	Knowledge *KnowledgeLevel `json:"knowledge,omitempty" yaml:"knowledge,omitempty"`
	Emotion   *Emotion        `json:"emotion,omitempty" yaml:"emotion,omitempty"`
	Clarity   *GoalClarity    `json:"clarity,omitempty" yaml:"clarity,omitempty"`
	Urgency   *Urgency        `json:"urgency,omitempty" yaml:"urgency,omitempty"`
	Stakes    *Stakes         `json:"stakes,omitempty" yaml:"stakes,omitempty"`
}

// IsEmpty reports whether no attribute is constrained (an unconditional
// catch-all rule).
func (c Conditions) IsEmpty() bool {
	return c.Knowledge == nil && c.Emotion == nil && c.Clarity == nil &&
		c.Urgency == nil && c.Stakes == nil
}

// Matches reports whether every constrained attribute is set in the context
// and equal to the required value. Unconstrained attributes are ignored.
func (c Conditions) Matches(ctx InteractionContext) bool {
	if c.Knowledge != nil && (ctx.Knowledge == nil || *ctx.Knowledge != *c.Knowledge) {
		return false
	}
	if c.Emotion != nil && (ctx.Emotion == nil || *ctx.Emotion != *c.Emotion) {
		return false
	}
	if c.Clarity != nil && (ctx.Clarity == nil || *ctx.Clarity != *c.Clarity) {
		return false
	}
	if c.Urgency != nil && (ctx.Urgency == nil || *ctx.Urgency != *c.Urgency) {
		return false
	}
	if c.Stakes != nil && (ctx.Stakes == nil || *ctx.Stakes != *c.Stakes) {
		return false
	}
	return true
}

// Rule is one ordered (conditions, style) entry of the strategy list.
// List order is priority order; the engine enforces order, not specificity.
type Rule struct {
	// Name is an optional operator-facing identifier for the rule.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Description explains when the rule is meant to fire.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Conditions is the constraint set. Empty means the rule matches
	// unconditionally.
	Conditions Conditions `json:"conditions" yaml:"conditions,omitempty"`

	// Style is the interaction style label selected when the rule matches.
	// Required; entries without a style are rejected at load time.
	Style string `json:"style" yaml:"style"`
}

// StyleDecision is the engine output: the selected style label and the
// zero-based index of the rule that produced it, or index -1 with the
// fallback style when no rule matched.
type StyleDecision struct {
	Style            string `json:"style"`
	MatchedRuleIndex int    `json:"matched_rule_index"`

	// MatchedRuleName is the Name of the matched rule, if it has one.
	MatchedRuleName string `json:"matched_rule_name,omitempty"`
}

// Matched reports whether a rule matched (as opposed to the fallback path).
func (d StyleDecision) Matched() bool {
	return d.MatchedRuleIndex >= 0
}

// StyleRulesFile is the on-disk shape of a rules document.
//
// The top-level "strategies" list is the evaluation priority order.
// "fallback_style" optionally overrides the built-in fallback label.
type StyleRulesFile struct {
	FallbackStyle string `yaml:"fallback_style,omitempty"`
	Strategies    []Rule `yaml:"strategies"`
}
