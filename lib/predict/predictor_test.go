package predict

import (
	"testing"

	"github.com/fiffu/matchwatch/lib/features"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestOutcome(t *testing.T) {
	team0Favored := Outcome{ProbTeam0: 0.8, ProbTeam1: 0.2}
	assert.Equal(t, 0, team0Favored.Winner())
	assert.Equal(t, 0.8, team0Favored.Confidence())

	team1Favored := Outcome{ProbTeam0: 0.25, ProbTeam1: 0.75}
	assert.Equal(t, 1, team1Favored.Winner())
	assert.Equal(t, 0.75, team1Favored.Confidence())
}

func TestPredict_RejectsWrongRowWidth(t *testing.T) {
	p := &GBTPredictor{log: zap.NewNop(), path: "testdata/nonexistent.txt"}

	_, err := p.Predict(make([]float64, features.RowWidth-1))
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestPredict_MissingArtifact(t *testing.T) {
	p := &GBTPredictor{log: zap.NewNop(), path: "testdata/nonexistent.txt"}

	_, err := p.Predict(make([]float64, features.RowWidth))
	assert.ErrorIs(t, err, ErrModelUnavailable)

	// Reload must not disturb the next (still failing) load attempt.
	p.Reload()
	_, err = p.Predict(make([]float64, features.RowWidth))
	assert.ErrorIs(t, err, ErrModelUnavailable)
}
