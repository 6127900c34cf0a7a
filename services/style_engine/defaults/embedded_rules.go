// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
This file serves as the bridge between the build system and the runtime logic. It utilizes the Go
embed package to bake the default_style_rules.yaml file directly into the compiled binary, so the
service always has a working strategy list even when no operator config is mounted.
*/

package defaults

import (
	_ "embed"
)

// StyleRules holds the raw byte content of the 'default_style_rules.yaml' file.
//
// This variable is populated at compile-time using the Go 'embed' directive.
// An operator-provided rules file (STYLE_RULES_PATH) takes precedence over
// these defaults; they are the zero-configuration behavior of the service.
//
// Usage:
//
//	// Pass these bytes directly to style_engine.ParseRules
//	rs, err := style_engine.ParseRules(defaults.StyleRules)
//
//go:embed default_style_rules.yaml
var StyleRules []byte
