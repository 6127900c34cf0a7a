// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers provides HTTP handlers for the styleapi service.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/AleutianAI/StyleEngine/services/style_engine"
	"github.com/AleutianAI/StyleEngine/services/styleapi/datatypes"
	"github.com/AleutianAI/StyleEngine/services/styleapi/history"
	"github.com/AleutianAI/StyleEngine/services/styleapi/middleware"
	"github.com/AleutianAI/StyleEngine/services/styleapi/observability"
	"github.com/gin-gonic/gin"
)

// HandleDecide evaluates an interaction context against the loaded rules.
//
// Validation happens entirely at this boundary: malformed JSON and
// attribute values outside the closed enumerations are rejected with 400
// and never reach the engine. The engine call itself is total — a
// non-matching context is answered with the fallback style, not an error.
//
// store may be nil (history disabled); recording failures are logged and
// never affect the response.
func HandleDecide(engine *style_engine.StyleEngine, store history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req datatypes.DecideRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			observability.RecordValidationFailure("bind")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			observability.RecordValidationFailure("enum")
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid context attribute",
				"details": err.Error(),
			})
			return
		}

		decision := engine.Decide(req.ToContext())
		requestID := middleware.GetRequestID(c)

		observability.RecordDecision(decision.Style, decision.Matched())
		observability.RecordDecisionDuration(time.Since(start).Seconds())

		if store != nil {
			entry := history.Entry{
				RequestID:        requestID,
				Timestamp:        time.Now().UTC(),
				Style:            decision.Style,
				MatchedRuleIndex: decision.MatchedRuleIndex,
				MatchedRuleName:  decision.MatchedRuleName,
				Context:          contextEcho(req),
			}
			if err := store.Record(c.Request.Context(), entry); err != nil {
				slog.Warn("Failed to record decision history",
					"request_id", requestID,
					"error", err)
			}
		}

		slog.Info("Style decision",
			"request_id", requestID,
			"style", decision.Style,
			"matched_rule_index", decision.MatchedRuleIndex,
		)

		c.JSON(http.StatusOK, datatypes.DecideResponse{
			Style:            decision.Style,
			MatchedRuleIndex: decision.MatchedRuleIndex,
			MatchedRuleName:  decision.MatchedRuleName,
			RequestID:        requestID,
		})
	}
}

// contextEcho flattens the set attributes for the audit trail.
func contextEcho(req datatypes.DecideRequest) map[string]string {
	echo := make(map[string]string, 5)
	if req.Knowledge != "" {
		echo["knowledge"] = req.Knowledge
	}
	if req.Emotion != "" {
		echo["emotion"] = req.Emotion
	}
	if req.Clarity != "" {
		echo["clarity"] = req.Clarity
	}
	if req.Urgency != "" {
		echo["urgency"] = req.Urgency
	}
	if req.Stakes != "" {
		echo["stakes"] = req.Stakes
	}
	if len(echo) == 0 {
		return nil
	}
	return echo
}
