package extract

import (
	"encoding/csv"
	"io"
	"strings"
)

// CSV renders tabular files as readable text: a column header line followed
// by one line per row.
type CSV struct{}

// NewCSV creates a CSV extractor.
func NewCSV() *CSV {
	return &CSV{}
}

func (c *CSV) Extensions() []string {
	return []string{".csv", ".tsv"}
}

func (c *CSV) Extract(r io.Reader) (string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var b strings.Builder
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if first {
			b.WriteString("Columns: ")
			b.WriteString(strings.Join(record, ", "))
			b.WriteString("\n\n")
			first = false
			continue
		}
		b.WriteString(strings.Join(record, " "))
		b.WriteString("\n")
	}
	return b.String(), nil
}
