package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/models"
)

func newTestRepo(t *testing.T) AnalysisRepository {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	MigrateDB(db, zap.NewNop())
	return NewAnalysisRepository(db, zap.NewNop())
}

func testRecord(url string) *models.AnalysisRecord {
	return &models.AnalysisRecord{
		URL:                url,
		Domain:             "evil.zz",
		DomainScore:        13,
		URLScore:           5,
		KeywordScore:       10,
		SecurityScore:      15,
		RedirectScore:      4,
		TotalScore:         47,
		PredictedRiskLevel: models.RiskLevelMedium,
		PredictedRiskType:  models.RiskTypePhishing,
		ConfidencePercent:  65.0,
		AnomalyDetected:    false,
		RiskSeverityIndex:  52,
		WhyRisk:            "No HTTPS encryption",
	}
}

func TestUpsertAndGet(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Upsert(testRecord("https://evil.zz/login")))

	got, err := repo.GetByURL("https://evil.zz/login")
	require.NoError(t, err)
	assert.Equal(t, "evil.zz", got.Domain)
	assert.Equal(t, 47, got.TotalScore)
	assert.Equal(t, models.RiskLevelMedium, got.PredictedRiskLevel)
	assert.Equal(t, models.RiskTypePhishing, got.PredictedRiskType)
	assert.Nil(t, got.ActualRiskLevel)
	assert.Nil(t, got.ActualRiskType)
	assert.False(t, got.AnalyzedAt.IsZero())
}

func TestGetByURLUnknown(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByURL("https://never-seen.zz/")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUpsertReplaceKeepsCorrections(t *testing.T) {
	repo := newTestRepo(t)
	url := "https://evil.zz/login"

	require.NoError(t, repo.Upsert(testRecord(url)))

	level := models.RiskLevelHigh
	riskType := models.RiskTypeScam
	require.NoError(t, repo.CorrectLabels(url, &level, &riskType))

	// Re-analysis replaces the predicted fields in the same row.
	updated := testRecord(url)
	updated.TotalScore = 60
	updated.PredictedRiskLevel = models.RiskLevelHigh
	require.NoError(t, repo.Upsert(updated))

	got, err := repo.GetByURL(url)
	require.NoError(t, err)
	assert.Equal(t, 60, got.TotalScore)

	require.NotNil(t, got.ActualRiskLevel)
	require.NotNil(t, got.ActualRiskType)
	assert.Equal(t, models.RiskLevelHigh, *got.ActualRiskLevel)
	assert.Equal(t, models.RiskTypeScam, *got.ActualRiskType)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCorrectLabels(t *testing.T) {
	repo := newTestRepo(t)
	url := "https://evil.zz/login"
	require.NoError(t, repo.Upsert(testRecord(url)))

	// A level-only correction leaves the type untouched.
	level := models.RiskLevelLow
	require.NoError(t, repo.CorrectLabels(url, &level, nil))

	got, err := repo.GetByURL(url)
	require.NoError(t, err)
	require.NotNil(t, got.ActualRiskLevel)
	assert.Equal(t, models.RiskLevelLow, *got.ActualRiskLevel)
	assert.Nil(t, got.ActualRiskType)

	// Predicted fields never move on a correction.
	assert.Equal(t, models.RiskLevelMedium, got.PredictedRiskLevel)
	assert.Equal(t, models.RiskTypePhishing, got.PredictedRiskType)
}

func TestCorrectLabelsUnknownURL(t *testing.T) {
	repo := newTestRepo(t)

	level := models.RiskLevelHigh
	err := repo.CorrectLabels("https://never-seen.zz/", &level, nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestTrainingSnapshotUsesCorrections(t *testing.T) {
	repo := newTestRepo(t)
	url := "https://evil.zz/login"
	require.NoError(t, repo.Upsert(testRecord(url)))

	level := models.RiskLevelHigh
	riskType := models.RiskTypeScam
	require.NoError(t, repo.CorrectLabels(url, &level, &riskType))

	samples, err := repo.TrainingSnapshot()
	require.NoError(t, err)
	require.Len(t, samples, 1)

	assert.Equal(t, [5]float64{13, 5, 10, 15, 4}, samples[0].Features)
	assert.Equal(t, models.RiskLevelHigh, samples[0].RiskLevel)
	assert.Equal(t, models.RiskTypeScam, samples[0].RiskType)
}

func TestClassDistribution(t *testing.T) {
	repo := newTestRepo(t)

	low := testRecord("https://a.zz/")
	low.PredictedRiskLevel = models.RiskLevelLow
	low.PredictedRiskType = models.RiskTypeSafe
	require.NoError(t, repo.Upsert(low))

	require.NoError(t, repo.Upsert(testRecord("https://b.zz/")))
	require.NoError(t, repo.Upsert(testRecord("https://c.zz/")))

	levels, types, err := repo.ClassDistribution()
	require.NoError(t, err)

	assert.Equal(t, map[int]int{models.RiskLevelLow: 1, models.RiskLevelMedium: 2}, levels)
	assert.Equal(t, map[string]int{models.RiskTypeSafe: 1, models.RiskTypePhishing: 2}, types)
}
