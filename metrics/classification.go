// Package metrics computes binary classification metrics: confusion
// matrix, accuracy, precision/recall/F1 report, ROC curve and AUC.
//
// Every function is a pure function of its inputs; nothing is mutated.
// Labels are 0 (negative, died) and 1 (positive, survived).
package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	vitalsErrors "github.com/ezoic/vitals/pkg/errors"
)

// checkPair validates a pair of equally sized non-empty vectors.
func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, vitalsErrors.NewValueError(op, "input vectors cannot be nil")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, vitalsErrors.NewValueError(op, "input vectors cannot be empty")
	}
	if n != yPred.Len() {
		return 0, vitalsErrors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// checkBinary validates that v holds only 0 and 1.
func checkBinary(name string, v *mat.VecDense) error {
	for i := 0; i < v.Len(); i++ {
		val := v.AtVec(i)
		if val != 0.0 && val != 1.0 {
			return vitalsErrors.NewValidationError(
				name,
				fmt.Sprintf("must contain only binary values (0 or 1), found %f at index %d", val, i),
				val,
			)
		}
	}
	return nil
}

// ConfusionMatrix holds the four outcome counts of a binary classifier.
type ConfusionMatrix struct {
	TruePositives  int
	FalsePositives int
	TrueNegatives  int
	FalseNegatives int
}

// NewConfusionMatrix counts prediction outcomes against the ground truth.
// Both vectors must be binary.
func NewConfusionMatrix(yTrue, yPred *mat.VecDense) (ConfusionMatrix, error) {
	var cm ConfusionMatrix
	n, err := checkPair("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return cm, err
	}
	if err := checkBinary("yTrue", yTrue); err != nil {
		return cm, err
	}
	if err := checkBinary("yPred", yPred); err != nil {
		return cm, err
	}

	for i := 0; i < n; i++ {
		switch {
		case yTrue.AtVec(i) == 1 && yPred.AtVec(i) == 1:
			cm.TruePositives++
		case yTrue.AtVec(i) == 0 && yPred.AtVec(i) == 1:
			cm.FalsePositives++
		case yTrue.AtVec(i) == 0 && yPred.AtVec(i) == 0:
			cm.TrueNegatives++
		default:
			cm.FalseNegatives++
		}
	}
	return cm, nil
}

// Total returns the number of counted samples.
func (cm ConfusionMatrix) Total() int {
	return cm.TruePositives + cm.FalsePositives + cm.TrueNegatives + cm.FalseNegatives
}

// Accuracy returns (TP + TN) / total.
func (cm ConfusionMatrix) Accuracy() float64 {
	total := cm.Total()
	if total == 0 {
		return 0
	}
	return float64(cm.TruePositives+cm.TrueNegatives) / float64(total)
}

// String renders the matrix with predicted classes as columns.
func (cm ConfusionMatrix) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "                 predicted 0  predicted 1\n")
	fmt.Fprintf(&b, "actual 0  %12d %12d\n", cm.TrueNegatives, cm.FalsePositives)
	fmt.Fprintf(&b, "actual 1  %12d %12d", cm.FalseNegatives, cm.TruePositives)
	return b.String()
}

// Accuracy returns the fraction of predictions matching the ground truth.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return cm.Accuracy(), nil
}

// ClassMetrics holds precision, recall and F1 for one class.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int // number of true samples of this class
}

// Report holds per-class metrics for a binary problem; index 0 is the
// negative class, index 1 the positive class.
type Report struct {
	PerClass [2]ClassMetrics
	Accuracy float64
}

// ClassificationReport computes per-class precision, recall and F1 from a
// confusion matrix. A class with no predicted samples gets precision 0,
// and one with no true samples gets recall 0; ratios never divide by zero.
func ClassificationReport(yTrue, yPred *mat.VecDense) (Report, error) {
	var report Report
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return report, err
	}

	// Class 1 uses the matrix directly; class 0 is the mirrored view.
	report.PerClass[1] = classMetrics(cm.TruePositives, cm.FalsePositives, cm.FalseNegatives)
	report.PerClass[0] = classMetrics(cm.TrueNegatives, cm.FalseNegatives, cm.FalsePositives)
	report.Accuracy = cm.Accuracy()
	return report, nil
}

func classMetrics(tp, fp, fn int) ClassMetrics {
	m := ClassMetrics{Support: tp + fn}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// String renders the report in the usual tabular layout.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "class     precision  recall    f1        support\n")
	for class, m := range r.PerClass {
		fmt.Fprintf(&b, "%-9d %-10.3f %-9.3f %-9.3f %d\n",
			class, m.Precision, m.Recall, m.F1, m.Support)
	}
	fmt.Fprintf(&b, "accuracy  %.3f", r.Accuracy)
	return b.String()
}

// ROC is a receiver-operating-characteristic curve: parallel slices of
// false-positive rate, true-positive rate and the decision threshold that
// produced each point. The first point is always (0, 0) and the last
// (1, 1).
type ROC struct {
	FPR        []float64
	TPR        []float64
	Thresholds []float64
}

// ROCCurve sweeps the decision threshold over every distinct score and
// records the (FPR, TPR) locus. yTrue must be binary and contain both
// classes; yScore holds scores or probabilities where larger means more
// likely positive.
func ROCCurve(yTrue, yScore *mat.VecDense) (*ROC, error) {
	n, err := checkPair("ROCCurve", yTrue, yScore)
	if err != nil {
		return nil, err
	}
	if err := checkBinary("yTrue", yTrue); err != nil {
		return nil, err
	}

	totalPos, totalNeg := 0.0, 0.0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1.0 {
			totalPos++
		} else {
			totalNeg++
		}
	}
	if totalPos == 0 || totalNeg == 0 {
		return nil, vitalsErrors.NewValueError("ROCCurve",
			"yTrue must contain both classes")
	}

	type pair struct {
		score float64
		label float64
	}
	pairs := make([]pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = pair{score: yScore.AtVec(i), label: yTrue.AtVec(i)}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].score > pairs[j].score
	})

	curve := &ROC{
		FPR:        []float64{0},
		TPR:        []float64{0},
		Thresholds: []float64{math.Inf(1)},
	}

	tp, fp := 0.0, 0.0
	prevScore := math.Inf(1)
	for _, p := range pairs {
		if p.score != prevScore && prevScore != math.Inf(1) {
			curve.FPR = append(curve.FPR, fp/totalNeg)
			curve.TPR = append(curve.TPR, tp/totalPos)
			curve.Thresholds = append(curve.Thresholds, prevScore)
		}
		prevScore = p.score
		if p.label == 1.0 {
			tp++
		} else {
			fp++
		}
	}

	curve.FPR = append(curve.FPR, 1)
	curve.TPR = append(curve.TPR, 1)
	curve.Thresholds = append(curve.Thresholds, prevScore)
	return curve, nil
}

// AUC returns the trapezoidal area under the curve, always in [0, 1].
func (r *ROC) AUC() float64 {
	auc := 0.0
	for i := 1; i < len(r.FPR); i++ {
		width := r.FPR[i] - r.FPR[i-1]
		height := (r.TPR[i] + r.TPR[i-1]) / 2
		auc += width * height
	}
	return auc
}

// AUC computes the area under the ROC curve of yScore against yTrue.
// When yTrue holds a single class the curve is undefined and 0.5 is
// returned, the value of a random classifier.
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	n, err := checkPair("AUC", yTrue, yScore)
	if err != nil {
		return 0, err
	}
	if err := checkBinary("yTrue", yTrue); err != nil {
		return 0, err
	}

	hasPos, hasNeg := false, false
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1.0 {
			hasPos = true
		} else {
			hasNeg = true
		}
	}
	if !hasPos || !hasNeg {
		return 0.5, nil
	}

	curve, err := ROCCurve(yTrue, yScore)
	if err != nil {
		return 0, err
	}
	return curve.AUC(), nil
}

// BinaryLogLoss returns the mean binary cross-entropy of predicted
// probabilities against binary labels. Probabilities are clipped away
// from 0 and 1 so the loss stays finite.
func BinaryLogLoss(yTrue, yProb *mat.VecDense) (float64, error) {
	n, err := checkPair("BinaryLogLoss", yTrue, yProb)
	if err != nil {
		return 0, err
	}
	if err := checkBinary("yTrue", yTrue); err != nil {
		return 0, err
	}

	const epsilon = 1e-15
	loss := 0.0
	for i := 0; i < n; i++ {
		p := yProb.AtVec(i)
		if p < epsilon {
			p = epsilon
		} else if p > 1-epsilon {
			p = 1 - epsilon
		}
		if yTrue.AtVec(i) == 1.0 {
			loss -= math.Log(p)
		} else {
			loss -= math.Log(1 - p)
		}
	}
	return loss / float64(n), nil
}
