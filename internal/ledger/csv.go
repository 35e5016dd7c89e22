package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/utopialog/internal/metrics"
)

// ReadResult is the outcome of parsing a record file.
type ReadResult struct {
	Records []metrics.Record
	// Dropped counts rows whose date did not parse.
	Dropped int
}

// ReadCSV parses a record file with a header row. Both the legacy and the
// current column sets are accepted. Rows keep file order, so when a date
// repeats the later row is the one an upsert keeps.
func ReadCSV(r io.Reader) (ReadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ReadResult{}, nil
		}
		return ReadResult{}, fmt.Errorf("read csv header: %w", err)
	}

	var result ReadResult
	for {
		cols, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Dropped++
				continue
			}
			return result, fmt.Errorf("read csv row: %w", err)
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(cols) {
				row[name] = cols[i]
			}
		}

		rec, ok := EnsureSchema(row)
		if !ok {
			result.Dropped++
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result, nil
}

// WriteCSV writes records in date order using the current schema.
func WriteCSV(w io.Writer, records []metrics.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range metrics.SortByDate(records) {
		row := Row(rec)
		cols := make([]string, len(Header))
		for i, name := range Header {
			cols[i] = row[name]
		}
		if err := writer.Write(cols); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
