package preprocessing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/vitals/preprocessing"
)

func makeSplitFixture(n int) (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i)*10)
		y.SetVec(i, float64(i%2))
	}
	return X, y
}

func TestTrainTestSplit_Sizes(t *testing.T) {
	X, y := makeSplitFixture(10)
	split, err := preprocessing.TrainTestSplit(X, y, 0.2, 42)
	require.NoError(t, err)

	trainRows, _ := split.XTrain.Dims()
	testRows, _ := split.XTest.Dims()
	assert.Equal(t, 8, trainRows)
	assert.Equal(t, 2, testRows)
	assert.Equal(t, 8, split.YTrain.Len())
	assert.Equal(t, 2, split.YTest.Len())
}

func TestTrainTestSplit_DeterministicForSeed(t *testing.T) {
	X, y := makeSplitFixture(50)

	first, err := preprocessing.TrainTestSplit(X, y, 0.2, 42)
	require.NoError(t, err)
	second, err := preprocessing.TrainTestSplit(X, y, 0.2, 42)
	require.NoError(t, err)

	assert.Equal(t, first.TrainIndices, second.TrainIndices)
	assert.Equal(t, first.TestIndices, second.TestIndices)
	assert.True(t, mat.Equal(first.XTrain, second.XTrain))
	assert.True(t, mat.Equal(first.XTest, second.XTest))
	assert.True(t, mat.Equal(first.YTrain, second.YTrain))
	assert.True(t, mat.Equal(first.YTest, second.YTest))
}

func TestTrainTestSplit_DifferentSeedsDiffer(t *testing.T) {
	X, y := makeSplitFixture(100)

	a, err := preprocessing.TrainTestSplit(X, y, 0.2, 1)
	require.NoError(t, err)
	b, err := preprocessing.TrainTestSplit(X, y, 0.2, 2)
	require.NoError(t, err)

	assert.NotEqual(t, a.TestIndices, b.TestIndices)
}

func TestTrainTestSplit_RowsStayAligned(t *testing.T) {
	X, y := makeSplitFixture(20)
	split, err := preprocessing.TrainTestSplit(X, y, 0.25, 7)
	require.NoError(t, err)

	// Row content encodes the source index, so feature rows and labels
	// must still point at the same patient after shuffling.
	for i, src := range split.TestIndices {
		assert.Equal(t, float64(src), split.XTest.At(i, 0))
		assert.Equal(t, float64(src%2), split.YTest.AtVec(i))
	}
	for i, src := range split.TrainIndices {
		assert.Equal(t, float64(src), split.XTrain.At(i, 0))
		assert.Equal(t, float64(src%2), split.YTrain.AtVec(i))
	}
}

func TestTrainTestSplit_Partition(t *testing.T) {
	X, y := makeSplitFixture(10)
	split, err := preprocessing.TrainTestSplit(X, y, 0.3, 3)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, idx := range append(append([]int{}, split.TrainIndices...), split.TestIndices...) {
		assert.False(t, seen[idx], "row %d appears twice", idx)
		seen[idx] = true
	}
	assert.Len(t, seen, 10)
}

func TestTrainTestSplit_InvalidFraction(t *testing.T) {
	X, y := makeSplitFixture(10)
	for _, fraction := range []float64{0, 1, -0.5, 1.5} {
		_, err := preprocessing.TrainTestSplit(X, y, fraction, 1)
		assert.Error(t, err, "fraction %v", fraction)
	}
}

func TestTrainTestSplit_TooFewRows(t *testing.T) {
	X, y := makeSplitFixture(1)
	_, err := preprocessing.TrainTestSplit(X, y, 0.5, 1)
	assert.Error(t, err)
}

func TestTrainTestSplit_LengthMismatch(t *testing.T) {
	X, _ := makeSplitFixture(10)
	y := mat.NewVecDense(5, nil)
	_, err := preprocessing.TrainTestSplit(X, y, 0.2, 1)
	assert.Error(t, err)
}
