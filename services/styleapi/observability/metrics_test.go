// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for style decision metrics

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// InitMetrics registers with the default Prometheus registry, which only
// tolerates one registration per process; all tests share the instance.
func TestMetrics(t *testing.T) {
	m := InitMetrics()
	require.NotNil(t, m)
	require.Same(t, m, DefaultMetrics)

	t.Run("record decision by outcome", func(t *testing.T) {
		RecordDecision("explanatory", true)
		RecordDecision("explanatory", true)
		RecordDecision("hybrid", false)

		assert.Equal(t, float64(2),
			testutil.ToFloat64(m.DecisionsTotal.WithLabelValues("explanatory", OutcomeMatched)))
		assert.Equal(t, float64(1),
			testutil.ToFloat64(m.DecisionsTotal.WithLabelValues("hybrid", OutcomeFallback)))
	})

	t.Run("rules loaded gauge", func(t *testing.T) {
		SetRulesLoaded(6)
		assert.Equal(t, float64(6), testutil.ToFloat64(m.RulesLoaded))
	})

	t.Run("validation failures by reason", func(t *testing.T) {
		RecordValidationFailure("enum")
		RecordValidationFailure("enum")
		RecordValidationFailure("bind")

		assert.Equal(t, float64(2),
			testutil.ToFloat64(m.ValidationFailuresTotal.WithLabelValues("enum")))
		assert.Equal(t, float64(1),
			testutil.ToFloat64(m.ValidationFailuresTotal.WithLabelValues("bind")))
	})
}

func TestHelpers_NilSafeWhenMetricsDisabled(t *testing.T) {
	saved := DefaultMetrics
	DefaultMetrics = nil
	defer func() { DefaultMetrics = saved }()

	assert.NotPanics(t, func() {
		RecordDecision("concise", true)
		RecordDecisionDuration(0.001)
		RecordValidationFailure("bind")
		SetRulesLoaded(3)
	})
}
