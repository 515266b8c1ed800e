package sheet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnValues(t *testing.T) {
	s := Sheet{
		Headers: []string{"device", "uptime"},
		Rows: []Row{
			{"device": "a", "uptime": "1"},
			{"device": "b"},
		},
	}
	assert.Equal(t, []string{"1", ""}, s.ColumnValues("uptime"), "absent cells read as empty")
	assert.True(t, s.HasColumn("device"))
	assert.False(t, s.HasColumn("Device"))
}

func TestFrequencyTableMarshalOrder(t *testing.T) {
	table := FrequencyTable{
		{Label: "2024-02", Count: 3},
		{Label: "2024-01", Count: 5},
		{Label: "Missing", Count: 1},
	}
	out, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Equal(t, `{"2024-02":3,"2024-01":5,"Missing":1}`, string(out))
}

func TestFrequencyTableMarshalEmpty(t *testing.T) {
	out, err := json.Marshal(FrequencyTable{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestFrequencyTableEscapesLabels(t *testing.T) {
	out, err := json.Marshal(FrequencyTable{{Label: `he said "hi"`, Count: 1}})
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, map[string]int{`he said "hi"`: 1}, decoded)
}

func TestCounts(t *testing.T) {
	table := FrequencyTable{{Label: "Yes", Count: 3}, {Label: "No", Count: 1}}
	assert.Equal(t, map[string]int{"Yes": 3, "No": 1}, table.Counts())
}
