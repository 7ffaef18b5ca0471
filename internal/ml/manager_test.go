package ml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return m
}

func repeatSamples(fv [5]float64, level int, riskType string, n int) []models.TrainingSample {
	out := make([]models.TrainingSample, n)
	for i := range out {
		out[i] = models.TrainingSample{Features: fv, RiskLevel: level, RiskType: riskType}
	}
	return out
}

var (
	safeVec     = [5]float64{0, 0, 0, 0, 0}
	phishingVec = [5]float64{25, 25, 0, 0, 0}
	piracyVec   = [5]float64{0, 0, 25, 15, 10}
)

// Thirty rows across three clusters: enough for the risk classifier, and
// twenty concretely-labeled rows across two categories for the type one.
func trainingCorpus() []models.TrainingSample {
	samples := repeatSamples(safeVec, models.RiskLevelLow, models.RiskTypeSafe, 10)
	samples = append(samples, repeatSamples(phishingVec, models.RiskLevelHigh, models.RiskTypePhishing, 10)...)
	samples = append(samples, repeatSamples(piracyVec, models.RiskLevelHigh, models.RiskTypePiracy, 10)...)
	return samples
}

func TestFallbackRiskLevel(t *testing.T) {
	m := newTestManager(t)
	require.False(t, m.RiskReady())

	tests := []struct {
		totalScore     int
		wantLevel      int
		wantConfidence float64
	}{
		{70, models.RiskLevelHigh, FallbackConfidenceHigh},
		{61, models.RiskLevelHigh, FallbackConfidenceHigh},
		{60, models.RiskLevelMedium, FallbackConfidenceMedium},
		{40, models.RiskLevelMedium, FallbackConfidenceMedium},
		{36, models.RiskLevelMedium, FallbackConfidenceMedium},
		{35, models.RiskLevelLow, FallbackConfidenceLow},
		{20, models.RiskLevelLow, FallbackConfidenceLow},
		{0, models.RiskLevelLow, FallbackConfidenceLow},
	}
	for _, tt := range tests {
		level, confidence := m.PredictRiskLevel(safeVec, tt.totalScore, false)
		assert.Equal(t, tt.wantLevel, level, "total_score=%d", tt.totalScore)
		assert.Equal(t, tt.wantConfidence, confidence, "total_score=%d", tt.totalScore)
	}
}

func TestFallbackGamblingFloor(t *testing.T) {
	m := newTestManager(t)

	level, confidence := m.PredictRiskLevel(safeVec, 0, true)
	assert.Equal(t, models.RiskLevelMedium, level)
	assert.Equal(t, FallbackConfidenceGambling, confidence)
}

func TestPredictRiskTypeUntrained(t *testing.T) {
	m := newTestManager(t)
	require.False(t, m.TypeReady())

	assert.Equal(t, models.RiskTypePhishing, m.PredictRiskType(phishingVec, models.RiskTypePhishing))
	assert.Equal(t, models.RiskTypeUnknown, m.PredictRiskType(safeVec, ""))
}

func TestDetectAnomalyGuards(t *testing.T) {
	m := newTestManager(t)

	assert.False(t, m.DetectAnomaly(phishingVec, true, false), "trusted domains skip detection")
	assert.False(t, m.DetectAnomaly(phishingVec, false, true), "gambling domains skip detection")
	assert.False(t, m.DetectAnomaly(phishingVec, false, false), "untrained detector never flags")
}

func TestTrainReadinessGates(t *testing.T) {
	m := newTestManager(t)

	// Ten rows: below the sample floors, and single-class for the type model.
	res := m.Train(repeatSamples(phishingVec, models.RiskLevelHigh, models.RiskTypePhishing, 10))
	assert.False(t, res.RiskTrained)
	assert.False(t, res.TypeTrained)
	assert.False(t, res.AnomalyTrained)

	assert.False(t, m.RiskReady())
	assert.False(t, m.TypeReady())
	assert.False(t, m.AnomalyReady())
}

func TestUndersizedArtifactsStayUntrained(t *testing.T) {
	dir := t.TempDir()

	// Artifacts below the readiness gates, as left behind by a wiped corpus
	// with a retained model directory.
	x := [][]float64{{0, 0, 0, 0, 0}, {1, 0, 0, 0, 0}, {0, 1, 0, 0, 0}, {0, 0, 1, 0, 0}, {0, 0, 0, 1, 0}}
	require.NoError(t, saveArtifact(dir, riskArtifactFile, &artifact{
		Kind: "risk_level", X: x, Classes: []int{0, 0, 0, 0, 0},
	}))
	require.NoError(t, saveArtifact(dir, typeArtifactFile, &artifact{
		Kind: "risk_type", X: x, ClassIndexes: []int{0, 0, 0, 0, 0}, Labels: []string{models.RiskTypePhishing},
	}))
	require.NoError(t, saveArtifact(dir, anomalyArtifactFile, &artifact{
		Kind: "anomaly", X: x,
	}))

	m, err := NewManager(dir, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, m.RiskReady())
	assert.False(t, m.TypeReady())
	assert.False(t, m.AnomalyReady())

	// Predictions stay on the fallback path regardless of what is on disk.
	level, confidence := m.PredictRiskLevel([5]float64{25, 24, 0, 15, 0}, 64, false)
	assert.Equal(t, models.RiskLevelHigh, level)
	assert.Equal(t, FallbackConfidenceHigh, confidence)

	assert.Equal(t, models.RiskTypePhishing, m.PredictRiskType(phishingVec, models.RiskTypePhishing))
	assert.False(t, m.DetectAnomaly(phishingVec, false, false))
}

func TestTrainAndPredict(t *testing.T) {
	m := newTestManager(t)

	res := m.Train(trainingCorpus())
	require.True(t, res.RiskTrained)
	require.True(t, res.TypeTrained)
	require.True(t, res.AnomalyTrained)

	level, confidence := m.PredictRiskLevel(safeVec, 0, false)
	assert.Equal(t, models.RiskLevelLow, level)
	assert.Greater(t, confidence, 50.0)

	level, _ = m.PredictRiskLevel(phishingVec, 50, false)
	assert.Equal(t, models.RiskLevelHigh, level)

	// The gambling floor applies on the model path too.
	level, _ = m.PredictRiskLevel(safeVec, 0, true)
	assert.Equal(t, models.RiskLevelMedium, level)

	assert.Equal(t, models.RiskTypePhishing, m.PredictRiskType(phishingVec, models.RiskTypeUnknown))
	assert.Equal(t, models.RiskTypePiracy, m.PredictRiskType(piracyVec, models.RiskTypeUnknown))
}

func TestArtifactRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir, zap.NewNop())
	require.NoError(t, err)

	res := m.Train(trainingCorpus())
	require.True(t, res.RiskTrained)

	// A fresh manager over the same directory refits from the artifacts.
	reloaded, err := NewManager(dir, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, reloaded.RiskReady())
	assert.True(t, reloaded.TypeReady())
	assert.True(t, reloaded.AnomalyReady())

	level, _ := reloaded.PredictRiskLevel(phishingVec, 50, false)
	assert.Equal(t, models.RiskLevelHigh, level)
}

func TestCorruptArtifactStartsUntrained(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, riskArtifactFile), []byte("{not json"), 0o644))

	m, err := NewManager(dir, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, m.RiskReady())
}
