package tablepick

// Table is one HTML table normalized into a rectangular matrix of strings.
// Every row has exactly len(Header) cells; ragged source rows are padded
// with empty strings during normalization. Header names are not required
// to be unique.
type Table struct {
	Header []string
	Rows   [][]string
}

// Field is a single key/value pair in a JSON record.
type Field struct {
	Key   string
	Value string
}

// Record is one data row as an ordered sequence of key/value pairs.
// Key order follows the header.
type Record []Field

// Records converts the table's rows into ordered records for JSON output.
// Duplicate header names collapse into one field: the key keeps the position
// of its first occurrence, the value comes from the last occurrence. This
// mirrors how an insertion-ordered map would absorb repeated keys and is a
// documented policy, not an accident.
func (t *Table) Records() []Record {
	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		pos := make(map[string]int, len(t.Header))
		record := make(Record, 0, len(t.Header))
		for i, key := range t.Header {
			var value string
			if i < len(row) {
				value = row[i]
			}
			if j, ok := pos[key]; ok {
				record[j].Value = value
				continue
			}
			pos[key] = len(record)
			record = append(record, Field{Key: key, Value: value})
		}
		records = append(records, record)
	}
	return records
}

// Extractor locates every <table> in an HTML document and normalizes each
// one into a Table. Tables are returned in document order; a document with
// no tables yields an empty slice, not an error.
type Extractor interface {
	Extract(html string) ([]*Table, error)
}
