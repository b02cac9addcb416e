package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ezoic/vitals/metrics"
	vitalsErrors "github.com/ezoic/vitals/pkg/errors"
)

// SaveROCCurve renders the ROC curve with a diagonal chance reference and
// saves it as an image; the format follows the file extension (.png).
func SaveROCCurve(curve *metrics.ROC, auc float64, path string) error {
	if curve == nil || len(curve.FPR) == 0 {
		return vitalsErrors.NewValueError("SaveROCCurve", "curve cannot be nil or empty")
	}

	p := plot.New()
	p.Title.Text = "ROC curve"
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	pts := make(plotter.XYs, len(curve.FPR))
	for i := range curve.FPR {
		pts[i].X = curve.FPR[i]
		pts[i].Y = curve.TPR[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return vitalsErrors.Wrap(err, "failed to build ROC line")
	}
	line.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("ROC (AUC = %.3f)", auc), line)

	chance, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return vitalsErrors.Wrap(err, "failed to build reference line")
	}
	chance.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	chance.Color = color.Gray{Y: 128}
	p.Add(chance)
	p.Legend.Add("chance", chance)
	p.Legend.Top = false

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return vitalsErrors.Wrapf(err, "failed to save ROC curve to %s", path)
	}
	return nil
}

// SaveFeatureImportance renders a bar chart of the given ranked feature
// weights by absolute magnitude and saves it as an image.
func SaveFeatureImportance(top []FeatureWeight, path string) error {
	if len(top) == 0 {
		return vitalsErrors.NewValueError("SaveFeatureImportance", "no features to plot")
	}

	p := plot.New()
	p.Title.Text = "Feature importance"
	p.Y.Label.Text = "|coefficient|"

	values := make(plotter.Values, len(top))
	names := make([]string, len(top))
	for i, fw := range top {
		values[i] = math.Abs(fw.Weight)
		names[i] = fw.Name
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return vitalsErrors.Wrap(err, "failed to build bar chart")
	}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = -1
	p.X.Tick.Label.YAlign = -0.5

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return vitalsErrors.Wrapf(err, "failed to save feature importance to %s", path)
	}
	return nil
}
