package entities

// RawTable is a header row plus data rows as produced by a table extractor.
// Rows may be ragged; missing cells read as empty.
type RawTable struct {
	Headers []string   `json:"headers" yaml:"headers"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// Cell returns the value at row i, column j, or "" when the row is short.
func (t RawTable) Cell(i, j int) string {
	if i < 0 || i >= len(t.Rows) || j < 0 || j >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][j]
}
