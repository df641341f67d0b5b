package club

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusActive, true},
		{StatusPending, StatusArchived, true},
		{StatusPending, StatusSuspended, false},
		{StatusActive, StatusSuspended, true},
		{StatusActive, StatusArchived, true},
		{StatusActive, StatusPending, false},
		{StatusSuspended, StatusActive, true},
		{StatusSuspended, StatusArchived, true},
		{StatusSuspended, StatusPending, false},
		{StatusArchived, StatusActive, false},
		{StatusArchived, StatusPending, false},
		{StatusArchived, StatusSuspended, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+" -> "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTags_ValueScan(t *testing.T) {
	tags := Tags{"chess", "strategy"}

	val, err := tags.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte(`["chess","strategy"]`), val)

	var got Tags
	require.NoError(t, got.Scan(val))
	assert.Equal(t, tags, got)

	var empty Tags
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)
}

func TestClub_IsLeadership(t *testing.T) {
	vice := "b2c7d4a1-14f7-4f59-9204-30e54b1e0d23"
	c := Club{LeaderID: "a1f3c2d4-0a1b-4c3d-8e5f-6a7b8c9d0e1f", ViceLeaderID: &vice}

	assert.True(t, c.IsLeader(c.LeaderID))
	assert.False(t, c.IsLeader(vice))
	assert.True(t, c.IsLeadership(c.LeaderID))
	assert.True(t, c.IsLeadership(vice))
	assert.False(t, c.IsLeadership("someone-else"))
}
