// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides request and response types for the styleapi
// service.
//
// This file contains the decide endpoint types. Inbound contexts are
// validated here against the closed attribute enumerations before the
// engine is ever invoked, so the matcher never sees an invalid value.
package datatypes

import (
	"github.com/AleutianAI/StyleEngine/services/style_engine"
	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// decideValidate is the validator instance for decide datatypes.
var decideValidate *validator.Validate

func init() {
	decideValidate = validator.New()
}

// =============================================================================
// Decide Request / Response
// =============================================================================

// DecideRequest is the POST /v1/style/decide request body.
//
// # Description
//
// Every attribute is optional; an omitted or empty attribute means
// "unknown" and is treated as a wildcard by the rule matcher. Present
// attributes must belong to the closed value set of that attribute,
// enforced by the oneof validations below — anything else is rejected
// with 400 before a decision is attempted.
//
// # Fields
//
//   - Knowledge: novice | intermediate | expert
//   - Emotion:   positive | neutral | negative
//   - Clarity:   clear | ambiguous
//   - Urgency:   high | normal | low
//   - Stakes:    high | medium | low
//
// # Examples
//
//	// A frustrated novice
//	req := DecideRequest{Knowledge: "novice", Emotion: "negative"}
//
//	// Nothing known about the user (valid; yields the fallback style)
//	req := DecideRequest{}
type DecideRequest struct {
	Knowledge string `json:"knowledge,omitempty" validate:"omitempty,oneof=novice intermediate expert"`
	Emotion   string `json:"emotion,omitempty" validate:"omitempty,oneof=positive neutral negative"`
	Clarity   string `json:"clarity,omitempty" validate:"omitempty,oneof=clear ambiguous"`
	Urgency   string `json:"urgency,omitempty" validate:"omitempty,oneof=high normal low"`
	Stakes    string `json:"stakes,omitempty" validate:"omitempty,oneof=high medium low"`
}

// Validate checks the request against the closed attribute enumerations.
func (r *DecideRequest) Validate() error {
	return decideValidate.Struct(r)
}

// ToContext converts the validated request into an engine context.
// Empty attributes become nil (unknown).
func (r *DecideRequest) ToContext() style_engine.InteractionContext {
	var ctx style_engine.InteractionContext
	if r.Knowledge != "" {
		v := style_engine.KnowledgeLevel(r.Knowledge)
		ctx.Knowledge = &v
	}
	if r.Emotion != "" {
		v := style_engine.Emotion(r.Emotion)
		ctx.Emotion = &v
	}
	if r.Clarity != "" {
		v := style_engine.GoalClarity(r.Clarity)
		ctx.Clarity = &v
	}
	if r.Urgency != "" {
		v := style_engine.Urgency(r.Urgency)
		ctx.Urgency = &v
	}
	if r.Stakes != "" {
		v := style_engine.Stakes(r.Stakes)
		ctx.Stakes = &v
	}
	return ctx
}

// DecideResponse is the POST /v1/style/decide response body.
//
// MatchedRuleIndex is the zero-based position of the winning rule in the
// loaded strategy list, or -1 when the fallback style was returned.
type DecideResponse struct {
	Style            string `json:"style"`
	MatchedRuleIndex int    `json:"matched_rule_index"`
	MatchedRuleName  string `json:"matched_rule_name,omitempty"`
	RequestID        string `json:"request_id,omitempty"`
}

// RulesResponse is the GET /v1/style/rules response body: the effective
// ordered rule list, for operators auditing shadowing and order.
type RulesResponse struct {
	Count         int                 `json:"count"`
	FallbackStyle string              `json:"fallback_style"`
	Strategies    []style_engine.Rule `json:"strategies"`
}
