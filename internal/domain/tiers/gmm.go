package tiers

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"
)

// EM fit constants.
const (
	emMaxIterations = 200
	emTolerance     = 1e-6
	covarianceRidge = 1e-6
)

// mixture is a fitted Gaussian mixture over d-dimensional observations.
type mixture struct {
	k, d          int
	logWeights    []float64
	components    []*distmv.Normal
	logLikelihood float64
}

// fitMixture runs EM from `restarts` random initializations drawn from rng
// and keeps the fit with the highest log-likelihood. Restarts that collapse
// (singular covariance, empty component) are skipped; if every restart
// collapses the fit fails.
func fitMixture(data *mat.Dense, k, restarts int, rng *rand.Rand) (*mixture, error) {
	var best *mixture
	var lastErr error
	for r := 0; r < restarts; r++ {
		m, err := emFit(data, k, rng)
		if err != nil {
			lastErr = err
			continue
		}
		if best == nil || m.logLikelihood > best.logLikelihood {
			best = m
		}
	}
	if best == nil {
		return nil, fmt.Errorf("all %d restarts collapsed for k=%d: %w", restarts, k, lastErr)
	}
	return best, nil
}

// emFit runs one EM optimization from a random initialization.
func emFit(data *mat.Dense, k int, rng *rand.Rand) (*mixture, error) {
	n, d := data.Dims()
	if n < k {
		return nil, fmt.Errorf("%d observations cannot support %d components", n, k)
	}

	// Initialize means at k distinct random observations, components with
	// the pooled data covariance, and uniform weights.
	pooled := mat.NewSymDense(d, nil)
	stat.CovarianceMatrix(pooled, data, nil)
	addRidge(pooled, covarianceRidge)

	m := &mixture{
		k:          k,
		d:          d,
		logWeights: make([]float64, k),
		components: make([]*distmv.Normal, k),
	}
	logUniform := -math.Log(float64(k))
	for j, idx := range rng.Perm(n)[:k] {
		mu := make([]float64, d)
		mat.Row(mu, idx, data)
		normal, ok := distmv.NewNormal(mu, pooled, nil)
		if !ok {
			return nil, fmt.Errorf("initial covariance is not positive definite")
		}
		m.logWeights[j] = logUniform
		m.components[j] = normal
	}

	resp := mat.NewDense(n, k, nil)
	obs := make([]float64, d)
	prevLL := math.Inf(-1)

	for iter := 0; iter < emMaxIterations; iter++ {
		// E-step: responsibilities and log-likelihood.
		var ll float64
		for i := 0; i < n; i++ {
			mat.Row(obs, i, data)
			logDens := resp.RawRowView(i)
			for j := 0; j < k; j++ {
				logDens[j] = m.logWeights[j] + m.components[j].LogProb(obs)
			}
			lse := floats.LogSumExp(logDens)
			ll += lse
			for j := 0; j < k; j++ {
				logDens[j] = math.Exp(logDens[j] - lse)
			}
		}
		m.logLikelihood = ll

		if math.Abs(ll-prevLL) < emTolerance*(1+math.Abs(ll)) {
			break
		}
		prevLL = ll

		// M-step: weights, means, covariances from responsibilities.
		if err := m.maximize(data, resp); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// maximize re-estimates mixture parameters from the responsibility matrix.
func (m *mixture) maximize(data, resp *mat.Dense) error {
	n, d := data.Dims()
	for j := 0; j < m.k; j++ {
		var nk float64
		for i := 0; i < n; i++ {
			nk += resp.At(i, j)
		}
		if nk < emTolerance {
			return fmt.Errorf("component %d collapsed to zero weight", j)
		}
		m.logWeights[j] = math.Log(nk / float64(n))

		mu := make([]float64, d)
		for i := 0; i < n; i++ {
			w := resp.At(i, j)
			for a := 0; a < d; a++ {
				mu[a] += w * data.At(i, a)
			}
		}
		for a := 0; a < d; a++ {
			mu[a] /= nk
		}

		cov := mat.NewSymDense(d, nil)
		for i := 0; i < n; i++ {
			w := resp.At(i, j)
			if w == 0 {
				continue
			}
			for a := 0; a < d; a++ {
				da := data.At(i, a) - mu[a]
				for b := a; b < d; b++ {
					cov.SetSym(a, b, cov.At(a, b)+w*da*(data.At(i, b)-mu[b]))
				}
			}
		}
		for a := 0; a < d; a++ {
			for b := a; b < d; b++ {
				cov.SetSym(a, b, cov.At(a, b)/nk)
			}
		}
		addRidge(cov, covarianceRidge)

		normal, ok := distmv.NewNormal(mu, cov, nil)
		if !ok {
			return fmt.Errorf("component %d covariance is not positive definite", j)
		}
		m.components[j] = normal
	}
	return nil
}

// posteriors returns, per observation, the most probable component and the
// posterior probability of that assignment.
func (m *mixture) posteriors(data *mat.Dense) (labels []int, confidence []float64) {
	n, d := data.Dims()
	labels = make([]int, n)
	confidence = make([]float64, n)
	obs := make([]float64, d)
	logDens := make([]float64, m.k)
	for i := 0; i < n; i++ {
		mat.Row(obs, i, data)
		for j := 0; j < m.k; j++ {
			logDens[j] = m.logWeights[j] + m.components[j].LogProb(obs)
		}
		lse := floats.LogSumExp(logDens)
		bestJ, bestP := 0, math.Inf(-1)
		for j := 0; j < m.k; j++ {
			if logDens[j] > bestP {
				bestJ, bestP = j, logDens[j]
			}
		}
		labels[i] = bestJ
		confidence[i] = math.Exp(bestP - lse)
	}
	return labels, confidence
}

// bic is the Bayesian Information Criterion for the fit: lower is better.
// Free parameters: k-1 mixing weights, k*d means, k*d*(d+1)/2 covariances.
func (m *mixture) bic(n int) float64 {
	params := float64(m.k-1) + float64(m.k*m.d) + float64(m.k*m.d*(m.d+1))/2
	return params*math.Log(float64(n)) - 2*m.logLikelihood
}

func addRidge(s *mat.SymDense, eps float64) {
	d := s.SymmetricDim()
	for i := 0; i < d; i++ {
		s.SetSym(i, i, s.At(i, i)+eps)
	}
}
