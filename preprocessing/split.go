package preprocessing

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	vitalsErrors "github.com/ezoic/vitals/pkg/errors"
)

// Split holds a train/test partition of a feature matrix and its labels.
type Split struct {
	XTrain, XTest *mat.Dense
	YTrain, YTest *mat.VecDense

	// TrainIndices and TestIndices record which source rows landed in
	// each partition, in partition order.
	TrainIndices, TestIndices []int
}

// TrainTestSplit shuffles the rows of X and y with a seeded generator and
// partitions them, putting testFraction of the rows in the test set.
// The same seed always yields the same partition. Both partitions must be
// non-empty, so n must be at least 2 and testFraction strictly inside
// (0, 1).
func TrainTestSplit(X mat.Matrix, y *mat.VecDense, testFraction float64, seed int64) (*Split, error) {
	if X == nil || y == nil {
		return nil, vitalsErrors.NewValueError("TrainTestSplit", "X and y cannot be nil")
	}
	n, c := X.Dims()
	if n != y.Len() {
		return nil, vitalsErrors.NewDimensionError("TrainTestSplit", n, y.Len(), 0)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, vitalsErrors.NewValueError("TrainTestSplit",
			"testFraction must be strictly between 0 and 1")
	}

	nTest := int(float64(n) * testFraction)
	if nTest == 0 || nTest == n {
		return nil, vitalsErrors.NewValueError("TrainTestSplit",
			"both partitions must contain at least one row")
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	testIdx := perm[:nTest]
	trainIdx := perm[nTest:]

	split := &Split{
		XTrain:       mat.NewDense(len(trainIdx), c, nil),
		XTest:        mat.NewDense(len(testIdx), c, nil),
		YTrain:       mat.NewVecDense(len(trainIdx), nil),
		YTest:        mat.NewVecDense(len(testIdx), nil),
		TrainIndices: trainIdx,
		TestIndices:  testIdx,
	}

	copyRows(split.XTrain, X, trainIdx)
	copyRows(split.XTest, X, testIdx)
	for i, src := range trainIdx {
		split.YTrain.SetVec(i, y.AtVec(src))
	}
	for i, src := range testIdx {
		split.YTest.SetVec(i, y.AtVec(src))
	}
	return split, nil
}

func copyRows(dst *mat.Dense, src mat.Matrix, indices []int) {
	_, c := src.Dims()
	for i, row := range indices {
		for j := 0; j < c; j++ {
			dst.Set(i, j, src.At(row, j))
		}
	}
}
