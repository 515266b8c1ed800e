package aggregate

import (
	"encoding/json"
	"testing"

	"churnboard/domain/sheet"
	"churnboard/internal/normalize"
)

func TestAggregate_TemporalColumn(t *testing.T) {
	result := Aggregate([]string{"2024-01-05", "2024-01-20", "2024-02-01"})

	if result.Kind != Temporal {
		t.Fatalf("expected temporal classification, got %s", result.Kind)
	}
	want := sheet.FrequencyTable{
		{Label: "2024-01", Count: 2},
		{Label: "2024-02", Count: 1},
	}
	assertTableEqual(t, want, result.Table)
}

func TestAggregate_CategoricalColumn(t *testing.T) {
	result := Aggregate([]string{"Yes", "No", "Yes", "Yes"})

	if result.Kind != Categorical {
		t.Fatalf("expected categorical classification, got %s", result.Kind)
	}
	want := sheet.FrequencyTable{
		{Label: "Yes", Count: 3},
		{Label: "No", Count: 1},
	}
	assertTableEqual(t, want, result.Table)
}

func TestAggregate_CategoricalTiesBreakByFirstSeen(t *testing.T) {
	result := Aggregate([]string{"Beta", "Alpha", "Beta", "Alpha", "Gamma"})

	want := sheet.FrequencyTable{
		{Label: "Beta", Count: 2},
		{Label: "Alpha", Count: 2},
		{Label: "Gamma", Count: 1},
	}
	assertTableEqual(t, want, result.Table)
}

func TestAggregate_MissingIsItsOwnBucket(t *testing.T) {
	result := Aggregate([]string{"Yes", "", "unknown", "Yes"})

	if result.Kind != Categorical {
		t.Fatalf("expected categorical classification, got %s", result.Kind)
	}
	counts := result.Table.Counts()
	if counts[normalize.MissingLabel] != 2 {
		t.Errorf("Missing bucket = %d, want 2", counts[normalize.MissingLabel])
	}
	if counts["Yes"] != 2 {
		t.Errorf("Yes bucket = %d, want 2", counts["Yes"])
	}
}

// RFC3339 values carry a trailing uppercase Z that title-casing would
// lowercase; classification must see the value before canonicalization.
func TestAggregate_Rfc3339ColumnIsTemporal(t *testing.T) {
	result := Aggregate([]string{
		"2024-01-05T10:30:00Z",
		"2024-02-01T00:00:00Z",
		"2024-01-20T08:15:00+03:30",
	})

	if result.Kind != Temporal {
		t.Fatalf("expected temporal classification, got %s", result.Kind)
	}
	want := sheet.FrequencyTable{
		{Label: "2024-01", Count: 2},
		{Label: "2024-02", Count: 1},
	}
	assertTableEqual(t, want, result.Table)
}

// One stray parseable date reclassifies the entire column as temporal.
// This all-or-nothing column-level decision is deliberate known behavior.
func TestAggregate_StrayDateReclassifiesColumn(t *testing.T) {
	result := Aggregate([]string{"Yes", "No", "2024-03-01", "Maybe"})

	if result.Kind != Temporal {
		t.Fatalf("expected temporal classification, got %s", result.Kind)
	}
	want := sheet.FrequencyTable{{Label: "2024-03", Count: 1}}
	assertTableEqual(t, want, result.Table)
}

func TestAggregate_NormalizesBeforeCounting(t *testing.T) {
	result := Aggregate([]string{"yes", " YES ", "no"})

	want := sheet.FrequencyTable{
		{Label: "Yes", Count: 2},
		{Label: "No", Count: 1},
	}
	assertTableEqual(t, want, result.Table)
}

func TestAggregate_UnwrapsEmbeddedCarrierRecords(t *testing.T) {
	result := Aggregate([]string{
		`[{"carrier_name": "t-mobile"}]`,
		`[{"carrier_name": "t-mobile"}]`,
		`[{"broken`,
	})

	counts := result.Table.Counts()
	if counts["T-Mobile"] != 2 {
		t.Errorf("T-Mobile bucket = %d, want 2", counts["T-Mobile"])
	}
	if counts[normalize.MissingLabel] != 1 {
		t.Errorf("Missing bucket = %d, want 1", counts[normalize.MissingLabel])
	}
}

func TestFrequencyTable_JSONPreservesOrder(t *testing.T) {
	result := Aggregate([]string{"2024-02-01", "2024-01-05", "2024-01-20"})

	data, err := json.Marshal(result.Table)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"2024-01":2,"2024-02":1}`
	if string(data) != want {
		t.Errorf("marshalled table = %s, want %s", data, want)
	}
}

func assertTableEqual(t *testing.T, want, got sheet.FrequencyTable) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("table length = %d, want %d (got %v)", len(got), len(want), got)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("bucket %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
