// Package pipeline wires the survival-prediction stages together:
// load, preprocess, train, evaluate.
//
// Each stage is a function from the previous stage's result to a new
// immutable value. No stage stores intermediate state on a shared object,
// so a stage can never silently operate on stale data from a violated
// call order.
package pipeline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/vitals/dataset"
	"github.com/ezoic/vitals/linear"
	"github.com/ezoic/vitals/metrics"
	vitalsErrors "github.com/ezoic/vitals/pkg/errors"
	"github.com/ezoic/vitals/pkg/log"
	"github.com/ezoic/vitals/preprocessing"
	"github.com/ezoic/vitals/report"
)

// Config carries every knob of a pipeline run. The zero value is not
// usable; construct through the field defaults applied by Run.
type Config struct {
	// DataPath is the CSV file to load. Required.
	DataPath string

	// LabelColumn names the binary survival column. Default "survived".
	LabelColumn string

	// TestFraction is the share of rows held out for evaluation.
	// Default 0.2.
	TestFraction float64

	// Seed drives the split shuffle and the weight initialization.
	// The zero value is a valid seed, not an unset marker; the same seed
	// always reproduces the same run.
	Seed int64

	// MaxIter bounds the solver iterations. Default 200.
	MaxIter int

	// C is the inverse L2 regularization strength. Default 1.
	C float64

	// TopFeatures is how many features the importance ranking keeps.
	// Default 10.
	TopFeatures int

	// Logger receives stage progress. Defaults to a no-op logger.
	Logger log.Logger
}

func (c Config) withDefaults() Config {
	if c.LabelColumn == "" {
		c.LabelColumn = "survived"
	}
	if c.TestFraction == 0 {
		c.TestFraction = 0.2
	}
	if c.MaxIter == 0 {
		c.MaxIter = 200
	}
	if c.C == 0 {
		c.C = 1.0
	}
	if c.TopFeatures == 0 {
		c.TopFeatures = 10
	}
	if c.Logger == nil {
		c.Logger = log.Nop()
	}
	return c
}

// Preprocessed is the output of the preprocessing stage: the encoded,
// split and standardized feature matrices plus the fitted components, so
// callers (and tests) can inspect the learned statistics.
type Preprocessed struct {
	FeatureNames []string
	Split        *preprocessing.Split

	Imputer *preprocessing.MedianImputer
	Encoder *preprocessing.OneHotEncoder
	Scaler  *preprocessing.StandardScaler
}

// Preprocess turns a raw table into standardized train/test matrices.
//
// Stage order: median-impute numeric columns, one-hot encode categorical
// columns, split 80/20 by the seed, then standardize with statistics
// fitted on the training partition only.
func Preprocess(table *dataset.Table, labelColumn string, testFraction float64, seed int64) (*Preprocessed, error) {
	y, err := table.LabelVector(labelColumn)
	if err != nil {
		return nil, err
	}

	features, err := table.Drop(labelColumn)
	if err != nil {
		return nil, err
	}

	numericCols := features.ColumnsOfKind(dataset.Numeric)
	categoricalCols := features.ColumnsOfKind(dataset.Categorical)
	if len(numericCols) == 0 && len(categoricalCols) == 0 {
		return nil, vitalsErrors.NewModelError("pipeline.Preprocess",
			"dataset has no feature columns", vitalsErrors.ErrEmptyData)
	}

	pre := &Preprocessed{}
	var blocks []mat.Matrix
	var names []string

	if len(numericCols) > 0 {
		raw, err := features.NumericMatrix(numericCols)
		if err != nil {
			return nil, err
		}
		pre.Imputer = preprocessing.NewMedianImputer()
		filled, err := pre.Imputer.FitTransform(raw)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, filled)
		names = append(names, numericCols...)
	}

	if len(categoricalCols) > 0 {
		records, err := features.CategoricalRecords(categoricalCols)
		if err != nil {
			return nil, err
		}
		pre.Encoder = preprocessing.NewOneHotEncoder()
		encoded, err := pre.Encoder.FitTransform(records)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, encoded)
		names = append(names, pre.Encoder.FeatureNamesOut(categoricalCols)...)
	}

	X := blocks[0]
	if len(blocks) == 2 {
		var joined mat.Dense
		joined.Augment(blocks[0], blocks[1])
		X = &joined
	}
	pre.FeatureNames = names

	split, err := preprocessing.TrainTestSplit(X, y, testFraction, seed)
	if err != nil {
		return nil, err
	}

	pre.Scaler = preprocessing.NewStandardScalerDefault()
	scaledTrain, err := pre.Scaler.FitTransform(split.XTrain)
	if err != nil {
		return nil, err
	}
	scaledTest, err := pre.Scaler.Transform(split.XTest)
	if err != nil {
		return nil, err
	}
	split.XTrain = mat.DenseCopyOf(scaledTrain)
	split.XTest = mat.DenseCopyOf(scaledTest)

	pre.Split = split
	return pre, nil
}

// Train fits a logistic-regression classifier on the training partition.
func Train(pre *Preprocessed, opts ...linear.Option) (*linear.LogisticRegression, error) {
	if pre == nil || pre.Split == nil {
		return nil, vitalsErrors.NewValueError("pipeline.Train", "preprocessed data cannot be nil")
	}
	model := linear.NewLogisticRegression(opts...)
	if err := model.Fit(pre.Split.XTrain, pre.Split.YTrain); err != nil {
		return nil, vitalsErrors.Wrap(err, "model training failed")
	}
	return model, nil
}

// Evaluation is the pure result of scoring a fitted model on held-out
// data.
type Evaluation struct {
	Confusion metrics.ConfusionMatrix
	Report    metrics.Report
	Accuracy  float64
	ROC       *metrics.ROC
	AUC       float64
	LogLoss   float64

	// Predictions and Probabilities are the per-row outputs on the test
	// partition, aligned with its rows.
	Predictions   *mat.VecDense
	Probabilities *mat.VecDense
}

// Evaluate scores a fitted model on a held-out partition. Inputs are not
// mutated; the result is a pure function of (model, X, y).
func Evaluate(model *linear.LogisticRegression, X mat.Matrix, y *mat.VecDense) (*Evaluation, error) {
	predicted, err := model.Predict(X)
	if err != nil {
		return nil, vitalsErrors.Wrap(err, "prediction failed")
	}
	probas, err := model.PredictProba(X)
	if err != nil {
		return nil, vitalsErrors.Wrap(err, "probability prediction failed")
	}

	n, _ := predicted.Dims()
	yPred := mat.NewVecDense(n, nil)
	yProb := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yPred.SetVec(i, predicted.At(i, 0))
		yProb.SetVec(i, probas.At(i, 1))
	}

	ev := &Evaluation{Predictions: yPred, Probabilities: yProb}

	if ev.Confusion, err = metrics.NewConfusionMatrix(y, yPred); err != nil {
		return nil, err
	}
	if ev.Report, err = metrics.ClassificationReport(y, yPred); err != nil {
		return nil, err
	}
	ev.Accuracy = ev.Confusion.Accuracy()

	if ev.ROC, err = metrics.ROCCurve(y, yProb); err != nil {
		return nil, err
	}
	ev.AUC = ev.ROC.AUC()

	if ev.LogLoss, err = metrics.BinaryLogLoss(y, yProb); err != nil {
		return nil, err
	}
	return ev, nil
}

// Result bundles the artifacts of a full pipeline run.
type Result struct {
	Pre         *Preprocessed
	Model       *linear.LogisticRegression
	Eval        *Evaluation
	TopFeatures []report.FeatureWeight
}

// Run executes the full pipeline: load the CSV, preprocess, train,
// evaluate on the held-out partition and rank the feature weights.
// Any stage failure aborts the run with the stage's error.
func Run(cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	logger := cfg.Logger

	table, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset loaded", "rows", table.NumRows(), "columns", table.NumCols())

	pre, err := Preprocess(table, cfg.LabelColumn, cfg.TestFraction, cfg.Seed)
	if err != nil {
		return nil, err
	}
	trainRows, _ := pre.Split.XTrain.Dims()
	testRows, _ := pre.Split.XTest.Dims()
	logger.Info("preprocessing complete",
		"features", len(pre.FeatureNames), "train_rows", trainRows, "test_rows", testRows)

	model, err := Train(pre,
		linear.WithMaxIter(cfg.MaxIter),
		linear.WithC(cfg.C),
		linear.WithSeed(cfg.Seed),
	)
	if err != nil {
		return nil, err
	}
	logger.Info("model trained", "iterations", model.NIter())

	eval, err := Evaluate(model, pre.Split.XTest, pre.Split.YTest)
	if err != nil {
		return nil, err
	}
	logger.Info("evaluation complete", "accuracy", eval.Accuracy, "auc", eval.AUC)

	top, err := report.RankFeatures(pre.FeatureNames, model.Coef(), cfg.TopFeatures)
	if err != nil {
		return nil, err
	}

	return &Result{Pre: pre, Model: model, Eval: eval, TopFeatures: top}, nil
}
