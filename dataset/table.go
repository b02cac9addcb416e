// Package dataset loads delimited patient data into an in-memory table and
// derives the numeric/categorical views the preprocessing stages consume.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	vitalsErrors "github.com/ezoic/vitals/pkg/errors"
)

// ColumnKind classifies a column for preprocessing.
type ColumnKind int

const (
	// Numeric columns parse as float64 in every non-missing cell.
	Numeric ColumnKind = iota
	// Categorical columns hold at least one non-numeric cell.
	Categorical
)

func (k ColumnKind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

// Table is an immutable in-memory tabular dataset. Rows are patients,
// columns are features plus the label column. Cells are kept as raw
// strings until a typed view is requested.
type Table struct {
	columns []string
	cells   [][]string // row-major, every row has len(columns) cells
}

// NewTable builds a Table from a header and rows. Every row must have the
// same width as the header and column names must be unique.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, vitalsErrors.NewValueError("NewTable", "table must have at least one column")
	}
	seen := make(map[string]bool, len(columns))
	for _, name := range columns {
		if seen[name] {
			return nil, vitalsErrors.NewValueError("NewTable",
				fmt.Sprintf("duplicate column %q", name))
		}
		seen[name] = true
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, vitalsErrors.NewDimensionError("NewTable", len(columns), len(row), i)
		}
	}
	return &Table{columns: append([]string(nil), columns...), cells: rows}, nil
}

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.cells) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.columns) }

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index(name)
	return ok
}

// At returns the raw cell at row i, column j.
func (t *Table) At(i, j int) string { return t.cells[i][j] }

func (t *Table) index(name string) (int, bool) {
	for j, col := range t.columns {
		if col == name {
			return j, true
		}
	}
	return 0, false
}

// IsMissing reports whether a cell should be treated as a missing value.
// Empty cells and the common NA markers count as missing.
func IsMissing(cell string) bool {
	switch strings.TrimSpace(strings.ToUpper(cell)) {
	case "", "NA", "N/A", "NAN", "NULL", "?":
		return true
	}
	return false
}

// Kind classifies a column. A column is Numeric when every non-missing
// cell parses as float64; a fully missing column counts as Numeric so the
// imputer can collapse it to a constant.
func (t *Table) Kind(name string) (ColumnKind, error) {
	j, ok := t.index(name)
	if !ok {
		return Numeric, vitalsErrors.NewValueError("Table.Kind",
			fmt.Sprintf("unknown column %q", name))
	}
	for i := range t.cells {
		cell := t.cells[i][j]
		if IsMissing(cell) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			return Categorical, nil
		}
	}
	return Numeric, nil
}

// ColumnsOfKind returns the names of all columns of the given kind,
// preserving file order.
func (t *Table) ColumnsOfKind(kind ColumnKind) []string {
	var names []string
	for _, name := range t.columns {
		k, err := t.Kind(name)
		if err == nil && k == kind {
			names = append(names, name)
		}
	}
	return names
}

// Drop returns a new Table without the named column. Dropping an unknown
// column is an error.
func (t *Table) Drop(name string) (*Table, error) {
	j, ok := t.index(name)
	if !ok {
		return nil, vitalsErrors.NewValueError("Table.Drop",
			fmt.Sprintf("unknown column %q", name))
	}
	columns := make([]string, 0, len(t.columns)-1)
	columns = append(columns, t.columns[:j]...)
	columns = append(columns, t.columns[j+1:]...)

	rows := make([][]string, len(t.cells))
	for i, row := range t.cells {
		out := make([]string, 0, len(row)-1)
		out = append(out, row[:j]...)
		out = append(out, row[j+1:]...)
		rows[i] = out
	}
	return &Table{columns: columns, cells: rows}, nil
}

// NumericMatrix extracts the given numeric columns as a dense matrix.
// Missing cells become NaN so the imputer can find them.
func (t *Table) NumericMatrix(cols []string) (*mat.Dense, error) {
	if len(cols) == 0 {
		return nil, vitalsErrors.NewValueError("Table.NumericMatrix", "no columns requested")
	}
	if len(t.cells) == 0 {
		return nil, vitalsErrors.NewModelError("Table.NumericMatrix",
			"table has no rows", vitalsErrors.ErrEmptyData)
	}
	idx := make([]int, len(cols))
	for k, name := range cols {
		j, ok := t.index(name)
		if !ok {
			return nil, vitalsErrors.NewValueError("Table.NumericMatrix",
				fmt.Sprintf("unknown column %q", name))
		}
		idx[k] = j
	}

	out := mat.NewDense(len(t.cells), len(cols), nil)
	for i := range t.cells {
		for k, j := range idx {
			cell := t.cells[i][j]
			if IsMissing(cell) {
				out.Set(i, k, math.NaN())
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, vitalsErrors.NewValidationError(cols[k],
					fmt.Sprintf("cell %q at row %d is not numeric", cell, i), cell)
			}
			out.Set(i, k, v)
		}
	}
	return out, nil
}

// CategoricalRecords extracts the given columns as string records, one
// slice per row, in the column order requested. Missing cells are kept as
// their own category marker so they one-hot encode like any other level.
func (t *Table) CategoricalRecords(cols []string) ([][]string, error) {
	if len(cols) == 0 {
		return nil, vitalsErrors.NewValueError("Table.CategoricalRecords", "no columns requested")
	}
	idx := make([]int, len(cols))
	for k, name := range cols {
		j, ok := t.index(name)
		if !ok {
			return nil, vitalsErrors.NewValueError("Table.CategoricalRecords",
				fmt.Sprintf("unknown column %q", name))
		}
		idx[k] = j
	}

	records := make([][]string, len(t.cells))
	for i := range t.cells {
		rec := make([]string, len(cols))
		for k, j := range idx {
			cell := strings.TrimSpace(t.cells[i][j])
			if IsMissing(cell) {
				cell = "missing"
			}
			rec[k] = cell
		}
		records[i] = rec
	}
	return records, nil
}

// LabelVector extracts the named column as a binary label vector.
// Every cell must parse to exactly 0 or 1; 1 means the patient survived
// and is the positive class throughout the pipeline.
func (t *Table) LabelVector(name string) (*mat.VecDense, error) {
	j, ok := t.index(name)
	if !ok {
		return nil, vitalsErrors.NewValueError("Table.LabelVector",
			fmt.Sprintf("label column %q not found", name))
	}
	if len(t.cells) == 0 {
		return nil, vitalsErrors.NewModelError("Table.LabelVector",
			"table has no rows", vitalsErrors.ErrEmptyData)
	}
	y := mat.NewVecDense(len(t.cells), nil)
	for i := range t.cells {
		cell := strings.TrimSpace(t.cells[i][j])
		if IsMissing(cell) {
			return nil, vitalsErrors.NewValidationError(name,
				fmt.Sprintf("missing label at row %d", i), cell)
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || (v != 0 && v != 1) {
			return nil, vitalsErrors.NewValidationError(name,
				fmt.Sprintf("label %q at row %d is not binary (0 or 1)", cell, i), cell)
		}
		y.SetVec(i, v)
	}
	return y, nil
}
