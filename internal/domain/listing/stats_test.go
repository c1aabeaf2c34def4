package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStatusStats(t *testing.T) {
	raw := []string{
		"active", "active", "reserved", "sold",
		"initiated", // legacy, counts as reserved
		"pending", "pending", "bogus",
	}

	stats := GenerateStatusStats(raw)

	assert.Equal(t, 8, stats.Total)
	assert.Equal(t, 2, stats.Stats[StatusActive])
	assert.Equal(t, 2, stats.Stats[StatusReserved])
	assert.Equal(t, 1, stats.Stats[StatusSold])
	assert.Equal(t, 0, stats.Stats[StatusShipping])
	assert.Equal(t, []string{"bogus", "pending"}, stats.UnknownStatuses)
}

func TestGenerateStatusStats_Empty(t *testing.T) {
	stats := GenerateStatusStats(nil)
	assert.Zero(t, stats.Total)
	assert.Empty(t, stats.UnknownStatuses)
	// the map still covers the full enum so dashboards render all rows
	assert.Len(t, stats.Stats, 9)
}

func TestDetectMissingStatuses_NoDriftOverOwnEnum(t *testing.T) {
	var values []string
	for _, s := range AllStatuses() {
		values = append(values, string(s))
	}

	d := DetectMissingStatuses(values)

	assert.Empty(t, d.Missing)
	assert.Empty(t, d.Unexpected)
	assert.True(t, d.Empty())
}

func TestDetectMissingStatuses_Drift(t *testing.T) {
	d := DetectMissingStatuses([]string{"active", "sold", "pending", "pending"})

	require.NotEmpty(t, d.Missing)
	assert.NotContains(t, d.Missing, StatusActive)
	assert.NotContains(t, d.Missing, StatusSold)
	assert.Contains(t, d.Missing, StatusShipping)
	assert.Equal(t, []string{"pending"}, d.Unexpected)
	assert.False(t, d.Empty())
}
