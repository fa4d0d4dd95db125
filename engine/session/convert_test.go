package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	t.Run("Should compute the duration and span of an overnight session", func(t *testing.T) {
		var r Record
		require.NoError(t, json.Unmarshal([]byte(`{
			"id": 3,
			"deployment": {"id": 4, "name": "Vermont #1"},
			"start": "2023-06-03T21:00:00Z",
			"end": "2023-06-04T04:30:00Z",
			"captures_count": 220
		}`), &r))
		s := Convert(r)
		assert.Equal(t, 7*time.Hour+30*time.Minute, s.Duration)
		assert.Equal(t, "7h 30m", s.DurationLabel)
		assert.Equal(t, "Jun 3–4, 2023", s.DateSpan)
		assert.Equal(t, "220 captures", s.CapturesLabel)
		assert.Equal(t, "Vermont #1", s.DeploymentName)
	})

	t.Run("Should leave the duration empty without both ends", func(t *testing.T) {
		var r Record
		require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "start": "2023-06-03T21:00:00Z", "end": null}`), &r))
		s := Convert(r)
		assert.Zero(t, s.Duration)
		assert.Empty(t, s.DurationLabel)
		assert.Equal(t, "Jun 3, 2023", s.DateSpan)
	})
}
