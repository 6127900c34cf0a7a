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
	"strconv"

	"github.com/AleutianAI/StyleEngine/services/styleapi/history"
	"github.com/gin-gonic/gin"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// RecentDecisions lists recent style decisions from the audit trail,
// newest first. Supports ?limit=N (default 20, capped at 100).
func RecentDecisions(store history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "decision history is disabled"})
			return
		}

		limit := defaultRecentLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = parsed
		}
		if limit > maxRecentLimit {
			limit = maxRecentLimit
		}

		entries, err := store.Recent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read decision history"})
			return
		}
		if entries == nil {
			entries = []history.Entry{}
		}

		c.JSON(http.StatusOK, gin.H{
			"count":     len(entries),
			"decisions": entries,
		})
	}
}
