package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMetricRoundTrip(t *testing.T) {
	s := openTestStore(t)

	v, err := s.GetMetric("chart_mounts")
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, s.SaveMetric("chart_mounts", 4))
	require.NoError(t, s.SaveMetric("chart_mounts", 7))

	v, err = s.GetMetric("chart_mounts")
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
}

func TestMetricsWithLabels(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveMetricWithLabels("fallbacks", "operation", "market_data", 3))
	require.NoError(t, s.SaveMetricWithLabels("fallbacks", "operation", "portfolio", 1))
	require.NoError(t, s.SaveMetric("fallbacks", 99))

	got, err := s.GetMetricsWithLabels("fallbacks")
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]float64{
		"operation": {"market_data": 3, "portfolio": 1},
	}, got)
}

func TestPreferences(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.GetPreference("theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetPreference("theme", "light"))
	require.NoError(t, s.SetPreference("theme", "system"))

	v, ok, err := s.GetPreference("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "system", v)
}
