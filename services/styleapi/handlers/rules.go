// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"

	"github.com/AleutianAI/StyleEngine/services/style_engine"
	"github.com/AleutianAI/StyleEngine/services/styleapi/datatypes"
	"github.com/gin-gonic/gin"
)

// ListRules returns the effective ordered strategy list.
//
// List position is evaluation priority, so this is the operator's view for
// auditing rule order and shadowing — the engine performs no conflict
// detection of its own.
func ListRules(engine *style_engine.StyleEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		rules := engine.Rules()
		c.JSON(http.StatusOK, datatypes.RulesResponse{
			Count:         len(rules),
			FallbackStyle: engine.FallbackStyle(),
			Strategies:    rules,
		})
	}
}
