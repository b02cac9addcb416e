package dataset

import (
	"encoding/csv"
	"io"
	"os"

	vitalsErrors "github.com/ezoic/vitals/pkg/errors"
)

// Load reads a comma-delimited file with a header row into a Table.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, vitalsErrors.Wrapf(err, "failed to open dataset %s", path)
	}
	defer func() { _ = file.Close() }()

	table, err := Read(file)
	if err != nil {
		return nil, vitalsErrors.Wrapf(err, "failed to parse dataset %s", path)
	}
	return table, nil
}

// Read parses comma-delimited data with a header row from r. Every data
// row must have the same number of fields as the header.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, vitalsErrors.NewValueError("dataset.Read", "dataset is empty, expected a header row")
	}
	if err != nil {
		return nil, vitalsErrors.Wrap(err, "failed to read header")
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, vitalsErrors.Wrap(err, "failed to read record")
		}
		row := make([]string, len(record))
		copy(row, record)
		rows = append(rows, row)
	}

	return NewTable(header, rows)
}
