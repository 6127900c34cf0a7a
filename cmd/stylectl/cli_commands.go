// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AleutianAI/StyleEngine/services/style_engine"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "stylectl",
		Short: "A CLI to validate and exercise styleengine rule documents",
		Long: `Stylectl works offline against YAML strategy lists: it validates a
rules document the same way the server would at startup, and evaluates
a hand-written context against it to show which rule would fire.`,
	}

	rulesCmd = &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate rules documents",
	}
	rulesValidateCmd = &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a rules document without starting the server",
		Long: `Parses the given YAML strategy list with the same strict validation the
server applies at startup: required style labels, closed attribute value
sets, and no unknown keys. Exits non-zero if the document would be
rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: runRulesValidate,
	}

	decideRulesPath string
	decideFallback  string
	decideKnowledge string
	decideEmotion   string
	decideClarity   string
	decideUrgency   string
	decideStakes    string

	decideCmd = &cobra.Command{
		Use:   "decide",
		Short: "Evaluate a context against a rules document locally",
		Long: `Builds an interaction context from the attribute flags, evaluates it
against the given rules document (or the embedded defaults when --rules
is omitted), and prints the decision. Output is human-readable on a TTY
and JSON when piped.`,
		RunE: runDecide,
	}
)

func init() {
	rulesCmd.AddCommand(rulesValidateCmd)
	rootCmd.AddCommand(rulesCmd)

	decideCmd.Flags().StringVar(&decideRulesPath, "rules", "", "rules document path (default: embedded rules)")
	decideCmd.Flags().StringVar(&decideFallback, "fallback", "", "fallback style override")
	decideCmd.Flags().StringVar(&decideKnowledge, "knowledge", "", "novice|intermediate|expert")
	decideCmd.Flags().StringVar(&decideEmotion, "emotion", "", "positive|neutral|negative")
	decideCmd.Flags().StringVar(&decideClarity, "clarity", "", "clear|ambiguous")
	decideCmd.Flags().StringVar(&decideUrgency, "urgency", "", "high|normal|low")
	decideCmd.Flags().StringVar(&decideStakes, "stakes", "", "high|medium|low")
	rootCmd.AddCommand(decideCmd)
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	rs, err := style_engine.LoadRulesFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("OK: %d rules", len(rs.Rules))
	if rs.FallbackStyle != "" {
		fmt.Printf(", fallback_style %q", rs.FallbackStyle)
	}
	fmt.Println()
	for i, rule := range rs.Rules {
		name := rule.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("  %2d. %-24s -> %s\n", i, name, rule.Style)
	}
	return nil
}

func runDecide(cmd *cobra.Command, args []string) error {
	engine, err := style_engine.NewStyleEngineFromFile(decideRulesPath, decideFallback)
	if err != nil {
		return err
	}

	ctx, err := buildContext()
	if err != nil {
		return err
	}

	decision := engine.Decide(ctx)

	if isatty.IsTerminal(os.Stdout.Fd()) {
		if decision.Matched() {
			fmt.Printf("style: %s (rule %d", decision.Style, decision.MatchedRuleIndex)
			if decision.MatchedRuleName != "" {
				fmt.Printf(", %s", decision.MatchedRuleName)
			}
			fmt.Println(")")
		} else {
			fmt.Printf("style: %s (fallback, no rule matched)\n", decision.Style)
		}
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(decision)
}

// buildContext converts the attribute flags into an engine context,
// rejecting values outside the closed sets the same way the API boundary
// would.
func buildContext() (style_engine.InteractionContext, error) {
	var ctx style_engine.InteractionContext

	switch style_engine.KnowledgeLevel(decideKnowledge) {
	case "":
	case style_engine.KnowledgeNovice, style_engine.KnowledgeIntermediate, style_engine.KnowledgeExpert:
		v := style_engine.KnowledgeLevel(decideKnowledge)
		ctx.Knowledge = &v
	default:
		return ctx, fmt.Errorf("invalid value for --knowledge: %q", decideKnowledge)
	}

	switch style_engine.Emotion(decideEmotion) {
	case "":
	case style_engine.EmotionPositive, style_engine.EmotionNeutral, style_engine.EmotionNegative:
		v := style_engine.Emotion(decideEmotion)
		ctx.Emotion = &v
	default:
		return ctx, fmt.Errorf("invalid value for --emotion: %q", decideEmotion)
	}

	switch style_engine.GoalClarity(decideClarity) {
	case "":
	case style_engine.ClarityClear, style_engine.ClarityAmbiguous:
		v := style_engine.GoalClarity(decideClarity)
		ctx.Clarity = &v
	default:
		return ctx, fmt.Errorf("invalid value for --clarity: %q", decideClarity)
	}

	switch style_engine.Urgency(decideUrgency) {
	case "":
	case style_engine.UrgencyHigh, style_engine.UrgencyNormal, style_engine.UrgencyLow:
		v := style_engine.Urgency(decideUrgency)
		ctx.Urgency = &v
	default:
		return ctx, fmt.Errorf("invalid value for --urgency: %q", decideUrgency)
	}

	switch style_engine.Stakes(decideStakes) {
	case "":
	case style_engine.StakesHigh, style_engine.StakesMedium, style_engine.StakesLow:
		v := style_engine.Stakes(decideStakes)
		ctx.Stakes = &v
	default:
		return ctx, fmt.Errorf("invalid value for --stakes: %q", decideStakes)
	}

	return ctx, nil
}
