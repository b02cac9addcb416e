package dataset_test

import (
	stderrors "errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/vitals/dataset"
	vitalsErrors "github.com/ezoic/vitals/pkg/errors"
)

const sampleCSV = `age,sex,bp,survived
63,male,140,1
41,female,NA,0
,female,118,1
57,male,129,0
`

func readSample(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return table
}

func TestRead_ShapeAndColumns(t *testing.T) {
	table := readSample(t)
	assert.Equal(t, 4, table.NumRows())
	assert.Equal(t, []string{"age", "sex", "bp", "survived"}, table.Columns())
}

func TestRead_EmptyInput(t *testing.T) {
	_, err := dataset.Read(strings.NewReader(""))
	require.Error(t, err)
}

func TestRead_RaggedRow(t *testing.T) {
	_, err := dataset.Read(strings.NewReader("a,b\n1,2\n3\n"))
	require.Error(t, err)
}

func TestKind_Classification(t *testing.T) {
	table := readSample(t)

	kind, err := table.Kind("age")
	require.NoError(t, err)
	assert.Equal(t, dataset.Numeric, kind, "age has a missing cell but parses otherwise")

	kind, err = table.Kind("sex")
	require.NoError(t, err)
	assert.Equal(t, dataset.Categorical, kind)

	kind, err = table.Kind("bp")
	require.NoError(t, err)
	assert.Equal(t, dataset.Numeric, kind, "NA markers do not make a column categorical")

	_, err = table.Kind("nope")
	require.Error(t, err)
}

func TestColumnsOfKind(t *testing.T) {
	table := readSample(t)
	features, err := table.Drop("survived")
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "bp"}, features.ColumnsOfKind(dataset.Numeric))
	assert.Equal(t, []string{"sex"}, features.ColumnsOfKind(dataset.Categorical))
}

func TestNumericMatrix_MissingBecomesNaN(t *testing.T) {
	table := readSample(t)
	X, err := table.NumericMatrix([]string{"age", "bp"})
	require.NoError(t, err)

	r, c := X.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 63.0, X.At(0, 0))
	assert.True(t, math.IsNaN(X.At(1, 1)), "NA cell should be NaN")
	assert.True(t, math.IsNaN(X.At(2, 0)), "empty cell should be NaN")
}

func TestCategoricalRecords_MissingMarker(t *testing.T) {
	table, err := dataset.Read(strings.NewReader("ward,survived\nicu,1\n,0\n"))
	require.NoError(t, err)

	records, err := table.CategoricalRecords([]string{"ward"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"icu"}, {"missing"}}, records)
}

func TestLabelVector(t *testing.T) {
	table := readSample(t)
	y, err := table.LabelVector("survived")
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 0, 1, 0}, y.RawVector().Data)
}

func TestLabelVector_MissingColumnIsValueError(t *testing.T) {
	table := readSample(t)
	_, err := table.LabelVector("outcome")
	require.Error(t, err)

	var valueErr *vitalsErrors.ValueError
	assert.True(t, stderrors.As(err, &valueErr))
}

func TestLabelVector_NonBinaryIsValidationError(t *testing.T) {
	table, err := dataset.Read(strings.NewReader("x,survived\n1,2\n"))
	require.NoError(t, err)

	_, err = table.LabelVector("survived")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, vitalsErrors.ErrInvalidInput))
}

func TestDrop_Immutable(t *testing.T) {
	table := readSample(t)
	dropped, err := table.Drop("survived")
	require.NoError(t, err)

	assert.Equal(t, 3, dropped.NumCols())
	assert.Equal(t, 4, table.NumCols(), "original table must be unchanged")
}
