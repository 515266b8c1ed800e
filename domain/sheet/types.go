package sheet

import (
	"bytes"
	"encoding/json"
)

// Row represents a single data row as column-name/cell pairs. Cell values
// are carried as strings the way they come off the workbook reader.
type Row map[string]string

// Sheet is one worksheet loaded from a workbook: an ordered header plus
// its data rows. Column order is significant and preserved.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []Row
}

// ColumnValues returns the cell values of one column in row order.
// Absent cells come back as empty strings.
func (s Sheet) ColumnValues(column string) []string {
	values := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		values[i] = row[column]
	}
	return values
}

// HasColumn reports whether the header contains the given column name.
func (s Sheet) HasColumn(column string) bool {
	for _, h := range s.Headers {
		if h == column {
			return true
		}
	}
	return false
}

// FrequencyBucket is one entry of a frequency table.
type FrequencyBucket struct {
	Label string
	Count int
}

// FrequencyTable is an ordered mapping from bucket label to count.
// Insertion order is meaningful (chronological for temporal tables,
// descending count for categorical ones), so it marshals to a JSON
// object with keys in table order rather than going through a Go map.
type FrequencyTable []FrequencyBucket

// Counts returns the table as a plain map, dropping the ordering.
func (t FrequencyTable) Counts() map[string]int {
	m := make(map[string]int, len(t))
	for _, b := range t {
		m[b.Label] = b.Count
	}
	return m
}

// MarshalJSON encodes the table as an object preserving bucket order.
func (t FrequencyTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		count, err := json.Marshal(b.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
