// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/AleutianAI/StyleEngine/services/style_engine"
	"github.com/AleutianAI/StyleEngine/services/styleapi/handlers"
	"github.com/AleutianAI/StyleEngine/services/styleapi/history"
	"github.com/AleutianAI/StyleEngine/services/styleapi/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes registers all styleapi routes.
//
// /health and /metrics stay outside the authenticated group so probes and
// scrapers work without credentials. apiKey == "" disables auth entirely.
func SetupRoutes(router *gin.Engine, engine *style_engine.StyleEngine,
	store history.Store, apiKey string) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1", middleware.RequestID(), middleware.APIKeyAuth(apiKey))
	{
		v1.POST("/style/decide", handlers.HandleDecide(engine, store))
		v1.GET("/style/rules", handlers.ListRules(engine))
		// Decision audit routes
		decisions := v1.Group("/decisions")
		{
			decisions.GET("/recent", handlers.RecentDecisions(store))
		}
	}
}
