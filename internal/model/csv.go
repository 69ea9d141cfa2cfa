package model

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV parses CSV data into a Dataset. The first record is the header;
// every following record becomes one row. Field values are mapped by
// ParseCell (empty/NA/NaN to Missing, numerics to Number, the rest to
// Text). A byte-order mark on the first header field is stripped, since
// clinical data exports routinely carry one.
//
// The csv reader enforces rectangular input, so ragged records surface
// as errors rather than silently short rows.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	ds, err := New(header...)
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header: %w", err)
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		cells := make([]Cell, len(record))
		for i, field := range record {
			cells[i] = ParseCell(field)
		}
		if err := ds.AppendRow(cells...); err != nil {
			return nil, err
		}
	}

	return ds, nil
}
