package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFilter_Known(t *testing.T) {
	assert.Equal(t, GroupAvailable, ResolveFilter("available"))
	assert.Equal(t, GroupTrading, ResolveFilter("trading"))
	assert.Equal(t, GroupShipping, ResolveFilter("shipping"))
	assert.Equal(t, GroupCompleted, ResolveFilter("completed"))
	assert.Equal(t, GroupCancelled, ResolveFilter("cancelled"))
	assert.Equal(t, GroupHidden, ResolveFilter("hidden"))
}

func TestResolveFilter_DefaultPermissive(t *testing.T) {
	// An absent or unrecognized filter name deliberately falls back to
	// the full active set rather than hiding listings.
	assert.Equal(t, GroupAllActive, ResolveFilter(""))
	assert.Equal(t, GroupAllActive, ResolveFilter("garbage-unknown-name"))
	assert.Equal(t, ResolveFilter(""), ResolveFilter("garbage-unknown-name"))

	assert.False(t, KnownFilter("garbage-unknown-name"))
	assert.True(t, KnownFilter("trading"))
}

func TestVisibility_PartitionsEnum(t *testing.T) {
	// Every status lands in exactly one visibility bucket and the three
	// buckets together cover the enum exactly once.
	counts := map[Status]int{}
	for _, s := range AllStatuses() {
		class, err := Visibility(s)
		require.NoError(t, err, "status %s has no visibility class", s)
		assert.NotEmpty(t, class)
		counts[s]++
	}
	for _, g := range []Group{GroupAllActive, GroupCancelled, GroupHidden} {
		for _, s := range g {
			counts[s]--
		}
	}
	for s, c := range counts {
		assert.Zero(t, c, "status %s is not covered exactly once", s)
	}
}

func TestVisibility_Unknown(t *testing.T) {
	_, err := Visibility(Status("pending"))
	var unknownErr *UnknownStatusError
	require.ErrorAs(t, err, &unknownErr)
}

func TestGroup_Contains(t *testing.T) {
	assert.True(t, GroupTrading.Contains(StatusReserved))
	assert.True(t, GroupTrading.Contains(StatusCancelRequested))
	assert.False(t, GroupTrading.Contains(StatusActive))
	assert.False(t, GroupAllActive.Contains(StatusDeleted))
	assert.False(t, GroupAllActive.Contains(StatusCancelled))
}

func TestFilterNames(t *testing.T) {
	names := FilterNames()
	assert.Len(t, names, 7)
	assert.Contains(t, names, "all")
	assert.Contains(t, names, "available")
}
