// Package report renders evaluation results: a text summary for the
// terminal plus the ROC-curve and feature-importance charts.
//
// Nothing here makes decisions; it formats what the evaluator produced.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/ezoic/vitals/metrics"
	vitalsErrors "github.com/ezoic/vitals/pkg/errors"
)

// FeatureWeight pairs a feature name with its learned coefficient.
type FeatureWeight struct {
	Name   string
	Weight float64 // signed coefficient; ranking uses the magnitude
}

// RankFeatures returns the topN features ordered by absolute coefficient
// magnitude, largest first. Ties are broken by the original feature index
// so the ranking is identical across reruns of the same fit.
func RankFeatures(names []string, coefs []float64, topN int) ([]FeatureWeight, error) {
	if len(names) != len(coefs) {
		return nil, vitalsErrors.NewDimensionError("RankFeatures", len(names), len(coefs), 0)
	}
	if topN <= 0 {
		return nil, vitalsErrors.NewValueError("RankFeatures", "topN must be positive")
	}

	order := make([]int, len(coefs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		wa, wb := math.Abs(coefs[order[a]]), math.Abs(coefs[order[b]])
		if wa != wb {
			return wa > wb
		}
		return order[a] < order[b]
	})

	if topN > len(order) {
		topN = len(order)
	}
	ranked := make([]FeatureWeight, topN)
	for i := 0; i < topN; i++ {
		idx := order[i]
		ranked[i] = FeatureWeight{Name: names[idx], Weight: coefs[idx]}
	}
	return ranked, nil
}

// WriteSummary writes the evaluation metrics and the feature ranking as
// text to w.
func WriteSummary(w io.Writer, cm metrics.ConfusionMatrix, rep metrics.Report, auc float64, top []FeatureWeight) error {
	if _, err := fmt.Fprintf(w, "Accuracy: %.4f\n\n", rep.Accuracy); err != nil {
		return vitalsErrors.Wrap(err, "failed to write summary")
	}
	if _, err := fmt.Fprintf(w, "Confusion matrix:\n%s\n\n", cm); err != nil {
		return vitalsErrors.Wrap(err, "failed to write summary")
	}
	if _, err := fmt.Fprintf(w, "Classification report:\n%s\n\n", rep); err != nil {
		return vitalsErrors.Wrap(err, "failed to write summary")
	}
	if _, err := fmt.Fprintf(w, "ROC AUC: %.4f\n", auc); err != nil {
		return vitalsErrors.Wrap(err, "failed to write summary")
	}

	if len(top) > 0 {
		if _, err := fmt.Fprintf(w, "\nTop feature weights:\n"); err != nil {
			return vitalsErrors.Wrap(err, "failed to write summary")
		}
		for i, fw := range top {
			if _, err := fmt.Fprintf(w, "%2d. %-24s %+.4f\n", i+1, fw.Name, fw.Weight); err != nil {
				return vitalsErrors.Wrap(err, "failed to write summary")
			}
		}
	}
	return nil
}
