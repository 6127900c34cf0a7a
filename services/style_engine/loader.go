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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AleutianAI/StyleEngine/services/style_engine/defaults"
	"gopkg.in/yaml.v3"
)

// RuleSet is the validated result of loading a rules document.
type RuleSet struct {
	// Rules is the ordered strategy list (list order = priority order).
	Rules []Rule

	// FallbackStyle is the document-level fallback override, or "" if the
	// document did not set one.
	FallbackStyle string
}

// ParseRules parses and validates a YAML rules document.
//
// Validation is strict: unknown document or condition keys, enum values
// outside the closed sets, and entries without a style label are all
// rejected here so the engine never sees a malformed rule. The rule order
// of the document is preserved verbatim; duplicate or shadowed rules are
// the operator's responsibility.
func ParseRules(data []byte) (*RuleSet, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file StyleRulesFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("rules document is empty")
		}
		return nil, fmt.Errorf("parse rules document: %w", err)
	}

	for i, rule := range file.Strategies {
		if rule.Style == "" {
			name := rule.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("rule %s: missing required style label", name)
		}
	}

	return &RuleSet{
		Rules:         file.Strategies,
		FallbackStyle: file.FallbackStyle,
	}, nil
}

// LoadRulesFile reads and parses a rules document from disk.
func LoadRulesFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	rs, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rs, nil
}

// LoadEmbeddedRules parses the rule set baked into the binary.
//
// The embedded document ships with the release and is validated by tests,
// so a parse failure here means a broken build rather than an operator
// mistake.
func LoadEmbeddedRules() (*RuleSet, error) {
	rs, err := ParseRules(defaults.StyleRules)
	if err != nil {
		return nil, fmt.Errorf("embedded rules: %w", err)
	}
	return rs, nil
}

// NewStyleEngineFromFile builds an engine from a rules file, or from the
// embedded defaults when path is empty.
//
// fallbackOverride, when non-empty, takes precedence over the document's
// fallback_style. Precedence: override > document > DefaultFallbackStyle.
func NewStyleEngineFromFile(path, fallbackOverride string) (*StyleEngine, error) {
	var (
		rs  *RuleSet
		err error
	)
	if path == "" {
		rs, err = LoadEmbeddedRules()
	} else {
		rs, err = LoadRulesFile(path)
	}
	if err != nil {
		return nil, err
	}

	fallback := fallbackOverride
	if fallback == "" {
		fallback = rs.FallbackStyle
	}
	return NewStyleEngine(rs.Rules, fallback), nil
}
