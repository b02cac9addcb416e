// Package linear implements the binary logistic-regression classifier used
// by the survival pipeline.
package linear

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/ezoic/vitals/core/model"
	vitalsErrors "github.com/ezoic/vitals/pkg/errors"
)

const (
	// SolverLBFGS minimizes the regularized log loss with gonum's L-BFGS.
	SolverLBFGS = "lbfgs"
	// SolverGD minimizes it with plain gradient descent and a decaying
	// learning rate.
	SolverGD = "gd"

	epsilonSmall       = 1e-15
	regularizationHalf = 0.5
)

// LogisticRegression models the log-odds of survival as a linear function
// of the features. Labels are 0 (died) and 1 (survived); 1 is the positive
// class everywhere.
//
// Fitting is deterministic for a fixed seed: the weight initialization is
// drawn from a seeded generator and both solvers are themselves
// deterministic.
type LogisticRegression struct {
	state *model.StateManager

	// Hyperparameters
	penalty      string  // "l2" or "none"
	c            float64 // inverse regularization strength
	fitIntercept bool
	solver       string
	maxIter      int
	tol          float64
	seed         int64

	// Learned parameters
	coef      []float64 // one weight per feature column
	intercept float64
	nFeatures int
	nIter     int
}

// Option configures a LogisticRegression.
type Option func(*LogisticRegression)

// NewLogisticRegression creates a classifier with L2 penalty (C=1),
// intercept fitting, the L-BFGS solver and a fixed default seed.
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "l2",
		c:            1.0,
		fitIntercept: true,
		solver:       SolverLBFGS,
		maxIter:      200,
		tol:          1e-6,
		seed:         42,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// WithPenalty sets the regularization type, "l2" or "none".
func WithPenalty(penalty string) Option {
	return func(lr *LogisticRegression) { lr.penalty = penalty }
}

// WithC sets the inverse regularization strength.
func WithC(c float64) Option {
	return func(lr *LogisticRegression) { lr.c = c }
}

// WithFitIntercept controls whether a bias term is learned.
func WithFitIntercept(fit bool) Option {
	return func(lr *LogisticRegression) { lr.fitIntercept = fit }
}

// WithSolver selects SolverLBFGS or SolverGD.
func WithSolver(solver string) Option {
	return func(lr *LogisticRegression) { lr.solver = solver }
}

// WithMaxIter sets the iteration budget.
func WithMaxIter(maxIter int) Option {
	return func(lr *LogisticRegression) { lr.maxIter = maxIter }
}

// WithTol sets the gradient tolerance for convergence.
func WithTol(tol float64) Option {
	return func(lr *LogisticRegression) { lr.tol = tol }
}

// WithSeed sets the seed for weight initialization.
func WithSeed(seed int64) Option {
	return func(lr *LogisticRegression) { lr.seed = seed }
}

// stableSigmoid computes sigmoid(z) without overflowing for large |z|.
func stableSigmoid(z float64) float64 {
	if z >= 0 {
		ez := math.Exp(-z)
		return 1.0 / (1.0 + ez)
	}
	ez := math.Exp(z)
	return ez / (1.0 + ez)
}

// clampProbability keeps p inside (0, 1) so log(p) stays finite.
func clampProbability(p float64) float64 {
	if p < epsilonSmall {
		return epsilonSmall
	}
	if p > 1-epsilonSmall {
		return 1 - epsilonSmall
	}
	return p
}

// IsFitted reports whether Fit has completed.
func (lr *LogisticRegression) IsFitted() bool { return lr.state.IsFitted() }

// Fit trains the classifier on X and the binary column vector y.
// A label set with fewer than two classes cannot be fitted and is a fatal
// error, as is any solver failure.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) (err error) {
	defer vitalsErrors.Recover(&err, "LogisticRegression.Fit")

	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return vitalsErrors.NewModelError("LogisticRegression.Fit", "empty data", vitalsErrors.ErrEmptyData)
	}
	if yCols != 1 {
		return vitalsErrors.NewValueError("LogisticRegression.Fit", "y must be a column vector")
	}
	if nSamples != yRows {
		return vitalsErrors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if lr.penalty == "l2" && lr.c <= 0 {
		return vitalsErrors.NewValueError("LogisticRegression.Fit", "C must be > 0 for l2 penalty")
	}

	yBinary := make([]float64, nSamples)
	sawPos, sawNeg := false, false
	for i := 0; i < nSamples; i++ {
		v := y.At(i, 0)
		if v != 0 && v != 1 {
			return vitalsErrors.NewValidationError("y",
				"labels must be 0 or 1", v)
		}
		yBinary[i] = v
		if v == 1 {
			sawPos = true
		} else {
			sawNeg = true
		}
	}
	if !sawPos || !sawNeg {
		return vitalsErrors.NewModelError("LogisticRegression.Fit",
			"training labels contain a single class", vitalsErrors.ErrInvalidInput)
	}

	lr.nFeatures = nFeatures
	lr.initializeWeights(nFeatures)

	switch lr.solver {
	case SolverLBFGS:
		err = lr.fitLBFGS(X, yBinary)
	case SolverGD:
		err = lr.fitGD(X, yBinary)
	default:
		return vitalsErrors.NewValueError("LogisticRegression.Fit",
			"unknown solver "+lr.solver)
	}
	if err != nil {
		return err
	}

	lr.state.SetFitted()
	return nil
}

// initializeWeights draws small seeded normal weights so reruns with the
// same seed reproduce the same fit.
func (lr *LogisticRegression) initializeWeights(nFeatures int) {
	rng := rand.New(rand.NewSource(lr.seed))
	lr.coef = make([]float64, nFeatures)
	for j := range lr.coef {
		lr.coef[j] = rng.NormFloat64() * 0.01
	}
	lr.intercept = 0
	lr.nIter = 0
}

func (lr *LogisticRegression) lambda() float64 {
	if lr.penalty == "l2" {
		return 1.0 / lr.c
	}
	return 0
}

// fitLBFGS minimizes mean log loss + 0.5*lambda*||w||^2 with gonum's
// L-BFGS. The parameter vector is [w..., b] when an intercept is fitted.
func (lr *LogisticRegression) fitLBFGS(X mat.Matrix, yBinary []float64) error {
	nSamples, nFeatures := X.Dims()
	xD := mat.DenseCopyOf(X)
	lambda := lr.lambda()

	pDim := nFeatures
	if lr.fitIntercept {
		pDim++
	}
	x0 := make([]float64, pDim)
	copy(x0[:nFeatures], lr.coef)

	prob := optimize.Problem{
		Func: func(theta []float64) float64 {
			w := theta[:nFeatures]
			b := 0.0
			if lr.fitIntercept {
				b = theta[nFeatures]
			}
			loss := 0.0
			for i := 0; i < nSamples; i++ {
				z := b
				for j := 0; j < nFeatures; j++ {
					z += w[j] * xD.At(i, j)
				}
				p := clampProbability(stableSigmoid(z))
				loss += -yBinary[i]*math.Log(p) - (1.0-yBinary[i])*math.Log(1.0-p)
			}
			loss /= float64(nSamples)
			if lambda > 0 {
				reg := 0.0
				for j := 0; j < nFeatures; j++ {
					reg += w[j] * w[j]
				}
				loss += regularizationHalf * lambda * reg
			}
			return loss
		},
		Grad: func(grad, theta []float64) {
			w := theta[:nFeatures]
			b := 0.0
			if lr.fitIntercept {
				b = theta[nFeatures]
			}
			for j := range grad {
				grad[j] = 0
			}
			for i := 0; i < nSamples; i++ {
				z := b
				for j := 0; j < nFeatures; j++ {
					z += w[j] * xD.At(i, j)
				}
				diff := stableSigmoid(z) - yBinary[i]
				for j := 0; j < nFeatures; j++ {
					grad[j] += diff * xD.At(i, j)
				}
				if lr.fitIntercept {
					grad[nFeatures] += diff
				}
			}
			invN := 1.0 / float64(nSamples)
			for j := range grad {
				grad[j] *= invN
			}
			if lambda > 0 {
				for j := 0; j < nFeatures; j++ {
					grad[j] += lambda * w[j]
				}
			}
		},
	}

	settings := optimize.Settings{
		GradientThreshold: lr.tol,
		MajorIterations:   lr.maxIter,
	}
	result, err := optimize.Minimize(prob, x0, &settings, &optimize.LBFGS{})
	if err != nil {
		return vitalsErrors.Wrap(err, "lbfgs optimization failed")
	}

	copy(lr.coef, result.X[:nFeatures])
	if lr.fitIntercept {
		lr.intercept = result.X[nFeatures]
	}
	lr.nIter = result.Stats.MajorIterations
	return nil
}

// fitGD runs batch gradient descent with a decaying learning rate,
// stopping when the largest gradient component drops below tol.
func (lr *LogisticRegression) fitGD(X mat.Matrix, yBinary []float64) error {
	nSamples, nFeatures := X.Dims()
	lambda := lr.lambda()
	baseLearningRate := 1.0

	for iter := 0; iter < lr.maxIter; iter++ {
		gradWeights := make([]float64, nFeatures)
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := lr.intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * lr.coef[j]
			}
			diff := stableSigmoid(z) - yBinary[i]
			gradIntercept += diff
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += diff * X.At(i, j)
			}
		}

		invN := 1.0 / float64(nSamples)
		for j := range gradWeights {
			gradWeights[j] *= invN
		}
		gradIntercept *= invN

		if lambda > 0 {
			for j := range lr.coef {
				gradWeights[j] += lambda * lr.coef[j]
			}
		}

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))
		for j := range lr.coef {
			lr.coef[j] -= learningRate * gradWeights[j]
		}
		if lr.fitIntercept {
			lr.intercept -= learningRate * gradIntercept
		}
		lr.nIter = iter + 1

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < lr.tol {
			break
		}
	}
	return nil
}

// decision computes w·x + b for row i of X.
func (lr *LogisticRegression) decision(X mat.Matrix, i int) float64 {
	z := lr.intercept
	for j := 0; j < lr.nFeatures; j++ {
		z += X.At(i, j) * lr.coef[j]
	}
	return z
}

func (lr *LogisticRegression) checkPredictInput(op string, X mat.Matrix) error {
	if !lr.state.IsFitted() {
		return vitalsErrors.NewNotFittedError("LogisticRegression", op)
	}
	_, c := X.Dims()
	if c != lr.nFeatures {
		return vitalsErrors.NewDimensionError("LogisticRegression."+op, lr.nFeatures, c, 1)
	}
	return nil
}

// Predict returns the 0/1 label for each row of X using a 0.5 threshold
// on the survival probability.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.checkPredictInput("Predict", X); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		if stableSigmoid(lr.decision(X, i)) >= 0.5 {
			predictions.Set(i, 0, 1)
		}
	}
	return predictions, nil
}

// PredictProba returns an n x 2 matrix of class probabilities, column 0
// for died and column 1 for survived.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.checkPredictInput("PredictProba", X); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	probas := mat.NewDense(nSamples, 2, nil)
	for i := 0; i < nSamples; i++ {
		p := stableSigmoid(lr.decision(X, i))
		probas.Set(i, 0, 1.0-p)
		probas.Set(i, 1, p)
	}
	return probas, nil
}

// Score returns the mean accuracy of Predict on X against y.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	nSamples, _ := X.Dims()
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples), nil
}

// Coef returns a copy of the learned weight vector, one entry per feature
// column in fit order.
func (lr *LogisticRegression) Coef() []float64 {
	return append([]float64(nil), lr.coef...)
}

// Intercept returns the learned bias term.
func (lr *LogisticRegression) Intercept() float64 { return lr.intercept }

// NIter returns the number of solver iterations the last Fit used.
func (lr *LogisticRegression) NIter() int { return lr.nIter }
