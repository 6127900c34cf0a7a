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
	"reflect"
	"testing"
)

func knowledge(v KnowledgeLevel) *KnowledgeLevel { return &v }
func emotion(v Emotion) *Emotion                 { return &v }
func clarity(v GoalClarity) *GoalClarity         { return &v }
func urgency(v Urgency) *Urgency                 { return &v }
func stakes(v Stakes) *Stakes                    { return &v }

// defaultEngine loads the embedded rule set, which the documented
// decision scenarios are written against.
func defaultEngine(t *testing.T) *StyleEngine {
	t.Helper()
	engine, err := NewStyleEngineFromFile("", "")
	if err != nil {
		t.Fatalf("Failed to load embedded rules: %v", err)
	}
	return engine
}

func TestDecide_DefaultRuleScenarios(t *testing.T) {
	engine := defaultEngine(t)

	tests := []struct {
		name          string
		ctx           InteractionContext
		expectedStyle string
		expectMatch   bool
	}{
		{
			name:          "Novice Knowledge",
			ctx:           InteractionContext{Knowledge: knowledge(KnowledgeNovice)},
			expectedStyle: "explanatory",
			expectMatch:   true,
		},
		{
			name:          "Negative Emotion Outranks Knowledge",
			ctx:           InteractionContext{Knowledge: knowledge(KnowledgeNovice), Emotion: emotion(EmotionNegative)},
			expectedStyle: "reassuring_explanatory",
			expectMatch:   true,
		},
		{
			name: "Expert Fast Path",
			ctx: InteractionContext{
				Knowledge: knowledge(KnowledgeExpert),
				Clarity:   clarity(ClarityClear),
				Urgency:   urgency(UrgencyNormal),
			},
			expectedStyle: "concise",
			expectMatch:   true,
		},
		{
			name: "Exploratory Session",
			ctx: InteractionContext{
				Clarity: clarity(ClarityAmbiguous),
				Emotion: emotion(EmotionPositive),
				Urgency: urgency(UrgencyLow),
			},
			expectedStyle: "invitational",
			expectMatch:   true,
		},
		{
			name:          "Empty Context Falls Back",
			ctx:           InteractionContext{},
			expectedStyle: "hybrid",
			expectMatch:   false,
		},
		{
			name:          "Unmatched Context Falls Back",
			ctx:           InteractionContext{Knowledge: knowledge(KnowledgeIntermediate)},
			expectedStyle: "hybrid",
			expectMatch:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decision := engine.Decide(tc.ctx)

			if decision.Style != tc.expectedStyle {
				t.Errorf("Expected style %q, got %q", tc.expectedStyle, decision.Style)
			}
			if decision.Matched() != tc.expectMatch {
				t.Errorf("Expected Matched()=%v, got index %d", tc.expectMatch, decision.MatchedRuleIndex)
			}
			if !tc.expectMatch && decision.MatchedRuleIndex != -1 {
				t.Errorf("Fallback must carry index -1, got %d", decision.MatchedRuleIndex)
			}
		})
	}
}

func TestDecide_FirstMatchWins(t *testing.T) {
	// Both rules match a negative-emotion novice; the earlier one must win.
	rules := []Rule{
		{Name: "first", Conditions: Conditions{Emotion: emotion(EmotionNegative)}, Style: "reassuring"},
		{Name: "second", Conditions: Conditions{Knowledge: knowledge(KnowledgeNovice)}, Style: "explanatory"},
	}
	engine := NewStyleEngine(rules, "")

	decision := engine.Decide(InteractionContext{
		Knowledge: knowledge(KnowledgeNovice),
		Emotion:   emotion(EmotionNegative),
	})

	if decision.MatchedRuleIndex != 0 {
		t.Errorf("Expected first matching rule (index 0), got %d", decision.MatchedRuleIndex)
	}
	if decision.Style != "reassuring" {
		t.Errorf("Expected style 'reassuring', got %q", decision.Style)
	}
	if decision.MatchedRuleName != "first" {
		t.Errorf("Expected rule name 'first', got %q", decision.MatchedRuleName)
	}
}

func TestDecide_DuplicateRulesKeepFirst(t *testing.T) {
	// Overlapping/duplicate rules are allowed; order is the contract.
	rules := []Rule{
		{Conditions: Conditions{Urgency: urgency(UrgencyHigh)}, Style: "direct"},
		{Conditions: Conditions{Urgency: urgency(UrgencyHigh)}, Style: "shadowed"},
	}
	engine := NewStyleEngine(rules, "")

	decision := engine.Decide(InteractionContext{Urgency: urgency(UrgencyHigh)})
	if decision.Style != "direct" || decision.MatchedRuleIndex != 0 {
		t.Errorf("Expected ('direct', 0), got (%q, %d)", decision.Style, decision.MatchedRuleIndex)
	}
}

func TestDecide_EmptyConditionsMatchEverything(t *testing.T) {
	catchAll := []Rule{{Name: "catch_all", Style: "hybrid"}}
	engine := NewStyleEngine(catchAll, "")

	contexts := []InteractionContext{
		{},
		{Knowledge: knowledge(KnowledgeExpert)},
		{
			Knowledge: knowledge(KnowledgeNovice),
			Emotion:   emotion(EmotionNeutral),
			Clarity:   clarity(ClarityClear),
			Urgency:   urgency(UrgencyLow),
			Stakes:    stakes(StakesMedium),
		},
	}
	for _, ctx := range contexts {
		decision := engine.Decide(ctx)
		if decision.MatchedRuleIndex != 0 {
			t.Errorf("Catch-all rule must match context %+v, got index %d", ctx, decision.MatchedRuleIndex)
		}
	}
}

func TestDecide_PartialConditionsRequireAllSet(t *testing.T) {
	rules := []Rule{{
		Conditions: Conditions{
			Knowledge: knowledge(KnowledgeExpert),
			Clarity:   clarity(ClarityClear),
		},
		Style: "concise",
	}}
	engine := NewStyleEngine(rules, "")

	// Knowledge matches but clarity is unset: no match.
	decision := engine.Decide(InteractionContext{Knowledge: knowledge(KnowledgeExpert)})
	if decision.Matched() {
		t.Errorf("Rule with unset constrained attribute must not match, got index %d", decision.MatchedRuleIndex)
	}

	// Extra unconstrained attributes do not prevent a match.
	decision = engine.Decide(InteractionContext{
		Knowledge: knowledge(KnowledgeExpert),
		Clarity:   clarity(ClarityClear),
		Stakes:    stakes(StakesLow),
	})
	if !decision.Matched() {
		t.Error("Unconstrained attributes are wildcards; rule should have matched")
	}
}

func TestDecide_EmptyRuleListFallsBack(t *testing.T) {
	engine := NewStyleEngine(nil, "")

	decision := engine.Decide(InteractionContext{Knowledge: knowledge(KnowledgeNovice)})
	if decision.MatchedRuleIndex != -1 {
		t.Errorf("Expected index -1, got %d", decision.MatchedRuleIndex)
	}
	if decision.Style != DefaultFallbackStyle {
		t.Errorf("Expected fallback %q, got %q", DefaultFallbackStyle, decision.Style)
	}
}

func TestDecide_ConfiguredFallbackLabel(t *testing.T) {
	engine := NewStyleEngine(nil, "balanced")

	decision := engine.Decide(InteractionContext{})
	if decision.Style != "balanced" {
		t.Errorf("Expected configured fallback 'balanced', got %q", decision.Style)
	}
	if engine.FallbackStyle() != "balanced" {
		t.Errorf("FallbackStyle() = %q", engine.FallbackStyle())
	}
}

func TestDecide_Deterministic(t *testing.T) {
	engine := defaultEngine(t)
	ctx := InteractionContext{
		Knowledge: knowledge(KnowledgeExpert),
		Clarity:   clarity(ClarityClear),
		Urgency:   urgency(UrgencyNormal),
	}

	first := engine.Decide(ctx)
	for i := 0; i < 50; i++ {
		if got := engine.Decide(ctx); got != first {
			t.Fatalf("Decision changed on repeat %d: %+v vs %+v", i, got, first)
		}
	}
}

func TestDecide_DoesNotMutateInputs(t *testing.T) {
	rules := []Rule{
		{Name: "novice", Conditions: Conditions{Knowledge: knowledge(KnowledgeNovice)}, Style: "explanatory"},
	}
	engine := NewStyleEngine(rules, "")

	ctx := InteractionContext{Knowledge: knowledge(KnowledgeNovice)}
	before := *ctx.Knowledge
	rulesBefore := engine.Rules()

	_ = engine.Decide(ctx)

	if *ctx.Knowledge != before {
		t.Error("Decide mutated the context")
	}
	if !reflect.DeepEqual(rulesBefore, engine.Rules()) {
		t.Error("Decide mutated the rule list")
	}

	// The caller's slice is copied at construction: mutating it afterwards
	// must not change engine behavior.
	rules[0].Style = "tampered"
	if got := engine.Decide(ctx); got.Style != "explanatory" {
		t.Errorf("Engine observed caller-side mutation, got style %q", got.Style)
	}
}

func TestDecide_Concurrency(t *testing.T) {
	engine := defaultEngine(t)
	ctx := InteractionContext{Emotion: emotion(EmotionNegative)}

	t.Run("ParallelDecisions", func(t *testing.T) {
		t.Parallel()
		for i := 0; i < 100; i++ {
			t.Run("Worker", func(t *testing.T) {
				t.Parallel()
				decision := engine.Decide(ctx)
				if decision.Style != "reassuring_explanatory" {
					t.Errorf("Concurrent decision wrong: %+v", decision)
				}
			})
		}
	})
}

func BenchmarkDecide_Match(b *testing.B) {
	engine, _ := NewStyleEngineFromFile("", "")
	ctx := InteractionContext{
		Knowledge: knowledge(KnowledgeExpert),
		Clarity:   clarity(ClarityClear),
		Urgency:   urgency(UrgencyNormal),
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Decide(ctx)
	}
}

func BenchmarkDecide_Fallback(b *testing.B) {
	engine, _ := NewStyleEngineFromFile("", "")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Decide(InteractionContext{})
	}
}
