package playlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"iptv-ranker/internal/candidate"
)

// CSV column names, shared with the original export.
const (
	ColumnName  = "tvg-name"
	ColumnID    = "tvg-id"
	ColumnLogo  = "tvg-logo"
	ColumnGroup = "group-title"
	ColumnLink  = "link"
	ColumnSpeed = "speed"
)

var csvHeader = []string{ColumnName, ColumnID, ColumnLogo, ColumnGroup, ColumnLink, ColumnSpeed}

// WriteCSV writes entries with their measured latency in seconds.
func WriteCSV(w io.Writer, entries []candidate.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.Name,
			e.ID,
			e.Logo,
			e.Group,
			e.Endpoint,
			strconv.FormatFloat(e.Latency, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a candidate list with at least the tvg-name and link
// columns, in any order. Measured speeds are not carried over: every entry
// comes back unprobed. Rows without a name or link are skipped.
func ReadCSV(r io.Reader) ([]candidate.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{ColumnName, ColumnLink} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("csv is missing the %q column", required)
		}
	}

	field := func(record []string, column string) string {
		i, ok := columns[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var entries []candidate.Entry
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entries, fmt.Errorf("failed to read csv record: %w", err)
		}

		name := field(record, ColumnName)
		link := field(record, ColumnLink)
		if name == "" || link == "" {
			continue
		}
		entries = append(entries, candidate.New(
			name, field(record, ColumnID), field(record, ColumnLogo), field(record, ColumnGroup), link))
	}
	return entries, nil
}
