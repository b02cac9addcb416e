package metrics_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/vitals/metrics"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func TestConfusionMatrix_ManualTenRows(t *testing.T) {
	// Hand-counted: TP=3, TN=3, FP=2, FN=2.
	yTrue := vec(1, 1, 1, 1, 1, 0, 0, 0, 0, 0)
	yPred := vec(1, 1, 1, 0, 0, 0, 0, 0, 1, 1)

	cm, err := metrics.NewConfusionMatrix(yTrue, yPred)
	require.NoError(t, err)

	assert.Equal(t, 3, cm.TruePositives)
	assert.Equal(t, 2, cm.FalseNegatives)
	assert.Equal(t, 3, cm.TrueNegatives)
	assert.Equal(t, 2, cm.FalsePositives)
	assert.Equal(t, 10, cm.Total())

	// Accuracy must equal (TP+TN)/total exactly.
	acc, err := metrics.Accuracy(yTrue, yPred)
	require.NoError(t, err)
	assert.Equal(t, 0.6, acc)
	assert.Equal(t, cm.Accuracy(), acc)
}

func TestConfusionMatrix_RejectsNonBinary(t *testing.T) {
	_, err := metrics.NewConfusionMatrix(vec(0, 2), vec(0, 1))
	require.Error(t, err)

	_, err = metrics.NewConfusionMatrix(vec(0, 1), vec(0, 0.5))
	require.Error(t, err)
}

func TestConfusionMatrix_LengthMismatch(t *testing.T) {
	_, err := metrics.NewConfusionMatrix(vec(0, 1), vec(0))
	require.Error(t, err)
}

func TestClassificationReport_HandComputed(t *testing.T) {
	// TP=3, FN=2, TN=3, FP=2 (same fixture as above).
	yTrue := vec(1, 1, 1, 1, 1, 0, 0, 0, 0, 0)
	yPred := vec(1, 1, 1, 0, 0, 0, 0, 0, 1, 1)

	report, err := metrics.ClassificationReport(yTrue, yPred)
	require.NoError(t, err)

	pos := report.PerClass[1]
	assert.InDelta(t, 3.0/5.0, pos.Precision, 1e-12)
	assert.InDelta(t, 3.0/5.0, pos.Recall, 1e-12)
	assert.InDelta(t, 0.6, pos.F1, 1e-12)
	assert.Equal(t, 5, pos.Support)

	neg := report.PerClass[0]
	assert.InDelta(t, 3.0/5.0, neg.Precision, 1e-12)
	assert.InDelta(t, 3.0/5.0, neg.Recall, 1e-12)
	assert.Equal(t, 5, neg.Support)

	assert.InDelta(t, 0.6, report.Accuracy, 1e-12)
}

func TestClassificationReport_NoPredictedPositives(t *testing.T) {
	report, err := metrics.ClassificationReport(vec(1, 0, 0), vec(0, 0, 0))
	require.NoError(t, err)

	// No positive predictions: precision and F1 defined as 0, not NaN.
	assert.Equal(t, 0.0, report.PerClass[1].Precision)
	assert.Equal(t, 0.0, report.PerClass[1].Recall)
	assert.Equal(t, 0.0, report.PerClass[1].F1)
}

func TestROCCurve_KnownExample(t *testing.T) {
	yTrue := vec(0, 0, 1, 1)
	yScore := vec(0.1, 0.4, 0.35, 0.8)

	curve, err := metrics.ROCCurve(yTrue, yScore)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0, 0.5, 0.5, 1}, curve.FPR)
	assert.Equal(t, []float64{0, 0.5, 0.5, 1, 1}, curve.TPR)
	assert.InDelta(t, 0.75, curve.AUC(), 1e-12)
}

func TestROCCurve_Endpoints(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	n := 100
	yTrue := mat.NewVecDense(n, nil)
	yScore := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yTrue.SetVec(i, float64(i%2))
		yScore.SetVec(i, rng.Float64())
	}

	curve, err := metrics.ROCCurve(yTrue, yScore)
	require.NoError(t, err)

	last := len(curve.FPR) - 1
	assert.Equal(t, 0.0, curve.FPR[0])
	assert.Equal(t, 0.0, curve.TPR[0])
	assert.Equal(t, 1.0, curve.FPR[last])
	assert.Equal(t, 1.0, curve.TPR[last])
}

func TestROCCurve_MonotoneNonDecreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	n := 500
	yTrue := mat.NewVecDense(n, nil)
	yScore := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yTrue.SetVec(i, float64(rng.Intn(2)))
		yScore.SetVec(i, rng.Float64())
	}

	curve, err := metrics.ROCCurve(yTrue, yScore)
	require.NoError(t, err)
	for i := 1; i < len(curve.FPR); i++ {
		assert.GreaterOrEqual(t, curve.FPR[i], curve.FPR[i-1])
		assert.GreaterOrEqual(t, curve.TPR[i], curve.TPR[i-1])
	}
}

func TestROCCurve_SingleClassFails(t *testing.T) {
	_, err := metrics.ROCCurve(vec(1, 1, 1), vec(0.1, 0.2, 0.3))
	require.Error(t, err)
}

func TestAUC_PerfectClassifier(t *testing.T) {
	auc, err := metrics.AUC(vec(0, 0, 1, 1), vec(0.1, 0.2, 0.8, 0.9))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, auc, 1e-12)
}

func TestAUC_AntiClassifier(t *testing.T) {
	auc, err := metrics.AUC(vec(0, 0, 1, 1), vec(0.9, 0.8, 0.2, 0.1))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, auc, 1e-12)
}

func TestAUC_RandomScoresNearHalf(t *testing.T) {
	// Scores drawn independently of the labels: AUC must sit at 0.5 up
	// to sampling noise (standard error well below 0.01 at this n).
	labelRng := rand.New(rand.NewSource(21))
	scoreRng := rand.New(rand.NewSource(99))
	n := 20000
	yTrue := mat.NewVecDense(n, nil)
	yScore := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yTrue.SetVec(i, float64(labelRng.Intn(2)))
		yScore.SetVec(i, scoreRng.Float64())
	}

	auc, err := metrics.AUC(yTrue, yScore)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, auc, 0.02)
}

func TestAUC_SingleClassDefaultsToHalf(t *testing.T) {
	auc, err := metrics.AUC(vec(1, 1, 1), vec(0.2, 0.4, 0.9))
	require.NoError(t, err)
	assert.Equal(t, 0.5, auc)
}

func TestAUC_BoundedByZeroAndOne(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	for trial := 0; trial < 10; trial++ {
		n := 50
		yTrue := mat.NewVecDense(n, nil)
		yScore := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			yTrue.SetVec(i, float64(i%2))
			yScore.SetVec(i, rng.NormFloat64())
		}
		auc, err := metrics.AUC(yTrue, yScore)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, auc, 0.0)
		assert.LessOrEqual(t, auc, 1.0)
	}
}

func TestBinaryLogLoss(t *testing.T) {
	// Confident correct predictions give a small loss.
	good, err := metrics.BinaryLogLoss(vec(0, 1), vec(0.05, 0.95))
	require.NoError(t, err)
	assert.Less(t, good, 0.1)

	// Confident wrong predictions give a much larger loss.
	bad, err := metrics.BinaryLogLoss(vec(0, 1), vec(0.95, 0.05))
	require.NoError(t, err)
	assert.Greater(t, bad, good)

	// Extreme probabilities are clipped; the loss stays finite.
	clipped, err := metrics.BinaryLogLoss(vec(1), vec(0.0))
	require.NoError(t, err)
	assert.False(t, clipped != clipped, "loss must not be NaN")
}

func TestBinaryLogLoss_RejectsNonBinaryLabels(t *testing.T) {
	_, err := metrics.BinaryLogLoss(vec(0.4), vec(0.4))
	require.Error(t, err)
}
