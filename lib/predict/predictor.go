package predict

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dmitryikh/leaves"
	"github.com/fiffu/matchwatch/config"
	"github.com/fiffu/matchwatch/lib/features"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrModelUnavailable marks a missing or unusable classifier artifact. It is
// fatal to the prediction path for the current tick only.
var ErrModelUnavailable = errors.New("classifier model unavailable")

// Outcome is a probability distribution over the two match outcomes.
type Outcome struct {
	ProbTeam0 float64
	ProbTeam1 float64
}

// Winner is the argmax class: 0 for team 0, 1 for team 1.
func (o Outcome) Winner() int {
	if o.ProbTeam1 > o.ProbTeam0 {
		return 1
	}
	return 0
}

// Confidence is the probability of the argmax class.
func (o Outcome) Confidence() float64 {
	if o.ProbTeam1 > o.ProbTeam0 {
		return o.ProbTeam1
	}
	return o.ProbTeam0
}

type Predictor interface {
	Predict(row []float64) (Outcome, error)
}

// GBTPredictor wraps a gradient-boosted ensemble produced by the offline
// training job. The artifact is loaded at most once per process; loaded
// ensembles are read-only, so concurrent Predict calls need no serializing.
type GBTPredictor struct {
	log  *zap.Logger
	path string

	mu    sync.RWMutex
	model *leaves.Ensemble
}

func NewPredictor(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config) Predictor {
	return &GBTPredictor{log: log, path: cfg.ModelPath}
}

func (p *GBTPredictor) Predict(row []float64) (Outcome, error) {
	if len(row) != features.RowWidth {
		return Outcome{}, fmt.Errorf("%w: expected %d features, got %d", ErrModelUnavailable, features.RowWidth, len(row))
	}

	model, err := p.ensemble()
	if err != nil {
		return Outcome{}, err
	}

	// The artifact records the transformation, so the single output is
	// already the probability of team 1 winning.
	prob1 := model.PredictSingle(row, 0)
	return Outcome{ProbTeam0: 1 - prob1, ProbTeam1: prob1}, nil
}

func (p *GBTPredictor) ensemble() (*leaves.Ensemble, error) {
	p.mu.RLock()
	model := p.model
	p.mu.RUnlock()
	if model != nil {
		return model, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.model != nil {
		return p.model, nil
	}

	model, err := leaves.LGEnsembleFromFile(p.path, true)
	if err != nil {
		return nil, fmt.Errorf("%w: loading %s: %v", ErrModelUnavailable, p.path, err)
	}
	if n := model.NFeatures(); n != features.RowWidth {
		return nil, fmt.Errorf("%w: artifact expects %d features, decoder emits %d", ErrModelUnavailable, n, features.RowWidth)
	}

	p.log.Sugar().Infow("Loaded classifier artifact", "path", p.path, "estimators", model.NEstimators())
	p.model = model
	return p.model, nil
}

// Reload drops the loaded ensemble so the next Predict re-reads the
// artifact. Intended for tests; the poll loop never reloads mid-sweep.
func (p *GBTPredictor) Reload() {
	p.mu.Lock()
	p.model = nil
	p.mu.Unlock()
}
