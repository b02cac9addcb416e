// Command vitals trains a logistic-regression survival model on a patient
// CSV, prints the evaluation metrics and writes the ROC curve and feature
// importance charts.
//
// Usage:
//
//	vitals -data patients.csv [-label survived] [-test-fraction 0.2]
//	       [-seed 42] [-out .] [-top 10] [-v]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ezoic/vitals/pipeline"
	"github.com/ezoic/vitals/pkg/log"
	"github.com/ezoic/vitals/report"
)

func main() {
	var (
		dataPath     = flag.String("data", "", "path to the patient CSV file (required)")
		labelColumn  = flag.String("label", "survived", "name of the binary survival column")
		testFraction = flag.Float64("test-fraction", 0.2, "fraction of rows held out for evaluation")
		seed         = flag.Int64("seed", 42, "random seed for the split and weight initialization")
		outDir       = flag.String("out", ".", "directory for the rendered charts")
		topFeatures  = flag.Int("top", 10, "how many features to keep in the importance chart")
		verbose      = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *dataPath == "" {
		fmt.Fprintln(os.Stderr, "vitals: -data is required")
		flag.Usage()
		os.Exit(1)
	}

	level := log.InfoLevel
	if *verbose {
		level = log.DebugLevel
	}
	logger := log.NewZerologProvider(level).GetLoggerWithName("vitals")

	if err := run(*dataPath, *labelColumn, *testFraction, *seed, *outDir, *topFeatures, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(dataPath, labelColumn string, testFraction float64, seed int64, outDir string, topFeatures int, logger log.Logger) error {
	result, err := pipeline.Run(pipeline.Config{
		DataPath:     dataPath,
		LabelColumn:  labelColumn,
		TestFraction: testFraction,
		Seed:         seed,
		TopFeatures:  topFeatures,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	if err := report.WriteSummary(os.Stdout, result.Eval.Confusion, result.Eval.Report, result.Eval.AUC, result.TopFeatures); err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	rocPath := filepath.Join(outDir, "roc_curve.png")
	if err := report.SaveROCCurve(result.Eval.ROC, result.Eval.AUC, rocPath); err != nil {
		return err
	}
	logger.Info("chart written", "path", rocPath)

	importancePath := filepath.Join(outDir, "feature_importance.png")
	if err := report.SaveFeatureImportance(result.TopFeatures, importancePath); err != nil {
		return err
	}
	logger.Info("chart written", "path", importancePath)

	return nil
}
