package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/models"
)

// ErrRecordNotFound is returned when no analysis exists for a URL.
var ErrRecordNotFound = errors.New("analysis record not found")

// AnalysisRepository is the persistent store for verdicts. It is both the
// result cache and the training corpus: rows are inserted on first
// analysis, replaced on re-analysis, corrected in place, and never deleted.
type AnalysisRepository interface {
	GetByURL(url string) (*models.AnalysisRecord, error)
	Upsert(record *models.AnalysisRecord) error
	CorrectLabels(url string, riskLevel *int, riskType *string) error
	TrainingSnapshot() ([]models.TrainingSample, error)
	Count() (int, error)
	ClassDistribution() (map[int]int, map[string]int, error)
}

type analysisRepository struct {
	db     *sqlx.DB
	logger *zap.Logger

	// Serializes all mutating operations: one logical writer at a time.
	// Reads go through SQLite's own snapshot consistency and never see a
	// partially written row.
	mu sync.Mutex
}

// NewAnalysisRepository creates the analysis repository.
func NewAnalysisRepository(db *sqlx.DB, logger *zap.Logger) AnalysisRepository {
	return &analysisRepository{db: db, logger: logger}
}

// GetByURL returns the cached record for the exact submitted URL string.
func (r *analysisRepository) GetByURL(url string) (*models.AnalysisRecord, error) {
	record := &models.AnalysisRecord{}
	err := r.db.Get(record, `SELECT * FROM url_analysis WHERE url = ?`, url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis record: %w", err)
	}
	return record, nil
}

// Upsert inserts the record on first sight of a URL and replaces the full
// row on re-analysis. The actual_* label corrections and the creation
// timestamp survive a replace.
func (r *analysisRepository) Upsert(record *models.AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	record.AnalyzedAt = now
	record.UpdatedAt = now

	_, err := r.db.NamedExec(`
		INSERT INTO url_analysis (
			url, domain, domain_score, url_score, keyword_score,
			security_score, redirect_score, total_score,
			predicted_risk_level, predicted_risk_type, confidence_percent,
			anomaly_detected, risk_severity_index, why_risk,
			analyzed_at, updated_at
		) VALUES (
			:url, :domain, :domain_score, :url_score, :keyword_score,
			:security_score, :redirect_score, :total_score,
			:predicted_risk_level, :predicted_risk_type, :confidence_percent,
			:anomaly_detected, :risk_severity_index, :why_risk,
			:analyzed_at, :updated_at
		)
		ON CONFLICT(url) DO UPDATE SET
			domain = excluded.domain,
			domain_score = excluded.domain_score,
			url_score = excluded.url_score,
			keyword_score = excluded.keyword_score,
			security_score = excluded.security_score,
			redirect_score = excluded.redirect_score,
			total_score = excluded.total_score,
			predicted_risk_level = excluded.predicted_risk_level,
			predicted_risk_type = excluded.predicted_risk_type,
			confidence_percent = excluded.confidence_percent,
			anomaly_detected = excluded.anomaly_detected,
			risk_severity_index = excluded.risk_severity_index,
			why_risk = excluded.why_risk,
			updated_at = excluded.updated_at
	`, record)
	if err != nil {
		return fmt.Errorf("failed to store analysis record: %w", err)
	}
	return nil
}

// CorrectLabels sets only the human-corrected label fields. Predicted
// fields are never touched by a correction.
func (r *analysisRepository) CorrectLabels(url string, riskLevel *int, riskType *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.db.Exec(`
		UPDATE url_analysis SET
			actual_risk_level = COALESCE(?, actual_risk_level),
			actual_risk_type = COALESCE(?, actual_risk_type),
			updated_at = ?
		WHERE url = ?
	`, riskLevel, riskType, time.Now().UTC(), url)
	if err != nil {
		return fmt.Errorf("failed to correct labels: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read correction result: %w", err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// TrainingSnapshot projects the whole store into training samples. A
// human-corrected label, when present, overrides the predicted one.
func (r *analysisRepository) TrainingSnapshot() ([]models.TrainingSample, error) {
	rows := []models.AnalysisRecord{}
	err := r.db.Select(&rows, `
		SELECT * FROM url_analysis ORDER BY analyzed_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read training snapshot: %w", err)
	}

	samples := make([]models.TrainingSample, 0, len(rows))
	for i := range rows {
		rec := &rows[i]
		samples = append(samples, models.TrainingSample{
			Features: [5]float64{
				float64(rec.DomainScore), float64(rec.URLScore),
				float64(rec.KeywordScore), float64(rec.SecurityScore),
				float64(rec.RedirectScore),
			},
			RiskLevel: rec.EffectiveRiskLevel(),
			RiskType:  rec.EffectiveRiskType(),
		})
	}
	return samples, nil
}

// Count returns the number of stored analysis records.
func (r *analysisRepository) Count() (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM url_analysis`); err != nil {
		return 0, fmt.Errorf("failed to count analysis records: %w", err)
	}
	return count, nil
}

// ClassDistribution returns the per-level and per-type record counts.
func (r *analysisRepository) ClassDistribution() (map[int]int, map[string]int, error) {
	levelRows := []struct {
		Level int `db:"predicted_risk_level"`
		Count int `db:"count"`
	}{}
	err := r.db.Select(&levelRows, `
		SELECT predicted_risk_level, COUNT(*) AS count
		FROM url_analysis GROUP BY predicted_risk_level
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read risk distribution: %w", err)
	}

	typeRows := []struct {
		Type  string `db:"predicted_risk_type"`
		Count int    `db:"count"`
	}{}
	err = r.db.Select(&typeRows, `
		SELECT predicted_risk_type, COUNT(*) AS count
		FROM url_analysis GROUP BY predicted_risk_type
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read type distribution: %w", err)
	}

	levels := make(map[int]int, len(levelRows))
	for _, row := range levelRows {
		levels[row.Level] = row.Count
	}
	types := make(map[string]int, len(typeRows))
	for _, row := range typeRows {
		types[row.Type] = row.Count
	}
	return levels, types, nil
}
