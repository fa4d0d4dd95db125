package deployment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldnet/fieldnet/engine/core"
)

func TestConvert(t *testing.T) {
	t.Run("Should derive location counts and date span", func(t *testing.T) {
		var r Record
		require.NoError(t, json.Unmarshal([]byte(`{
			"id": 4,
			"name": "Vermont #1",
			"project": {"id": 1, "name": "Moths"},
			"research_site": {"id": 2, "name": "Ridge"},
			"device": {"id": 3, "name": "Trap v2"},
			"latitude": 44.2601,
			"longitude": -72.5754,
			"captures_count": 12345,
			"occurrences_count": 1,
			"first_date": "2023-06-03",
			"last_date": "2023-07-05"
		}`), &r))
		d := Convert(r)
		assert.Equal(t, core.ID("4"), d.ID)
		assert.Equal(t, core.ID("1"), d.ProjectID)
		assert.Equal(t, "Ridge", d.ResearchSiteName)
		assert.Equal(t, "Trap v2", d.DeviceName)
		assert.Equal(t, "44.2601, -72.5754", d.Location)
		assert.Equal(t, "12,345 captures", d.CapturesLabel)
		assert.Equal(t, "1 occurrence", d.OccurrencesLabel)
		assert.Equal(t, "Jun 3 – Jul 5, 2023", d.DateSpan)
	})

	t.Run("Should tolerate a bare record", func(t *testing.T) {
		d := Convert(Record{ID: "9"})
		assert.Empty(t, d.ProjectID)
		assert.Empty(t, d.Location)
		assert.Empty(t, d.CapturesLabel)
		assert.Empty(t, d.DateSpan)
		assert.Nil(t, d.FirstDate)
	})
}
