package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/features"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/ml"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/models"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/reputation"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/repository"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/verdict"
)

var (
	// ErrInvalidURL marks input whose domain cannot be parsed. No record
	// is written for such input.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrUnknownURL marks a label correction for a URL never analyzed.
	ErrUnknownURL = errors.New("URL has not been analyzed")
)

// Retrain trigger: after each successful store, retrain when the record
// count is a multiple of RetrainInterval and at least MinRecordsForRetrain.
const (
	RetrainInterval      = 50
	MinRecordsForRetrain = ml.MinRiskSamples
)

// Trusted-domain override values.
const trustedConfidence = 95.0

// Notifier receives fresh high-severity verdicts. Implementations must be
// safe for concurrent use; a nil Notifier disables notifications.
type Notifier interface {
	NotifyHighRisk(result *models.AnalysisResult)
}

// AnalyzerService is the core engine: scoring, inference, caching and the
// count-triggered retrain cycle.
type AnalyzerService interface {
	Analyze(ctx context.Context, url string) (*models.AnalysisResult, error)
	Correct(url string, riskLevel *int, riskType *string) error
	Retrain() (ml.TrainResult, error)
	Stats() (*Stats, error)
}

// Stats summarizes the stored corpus and model readiness.
type Stats struct {
	RecordCount      int            `json:"record_count"`
	RiskDistribution map[int]int    `json:"risk_distribution"`
	TypeDistribution map[string]int `json:"type_distribution"`
	RiskModelReady   bool           `json:"risk_model_ready"`
	TypeModelReady   bool           `json:"type_model_ready"`
	AnomalyReady     bool           `json:"anomaly_model_ready"`
}

type analyzerService struct {
	repo      repository.AnalysisRepository
	extractor *features.Extractor
	manager   *ml.Manager
	tables    *reputation.Tables
	notifier  Notifier
	logger    *zap.Logger

	// Collapses concurrent first-time analyses of the same URL so the
	// live redirect probe runs at most once and the second caller sees
	// the first caller's completed record.
	group singleflight.Group
}

// NewAnalyzerService wires the analysis pipeline. notifier may be nil.
func NewAnalyzerService(
	repo repository.AnalysisRepository,
	extractor *features.Extractor,
	manager *ml.Manager,
	tables *reputation.Tables,
	notifier Notifier,
	logger *zap.Logger,
) AnalyzerService {
	return &analyzerService{
		repo:      repo,
		extractor: extractor,
		manager:   manager,
		tables:    tables,
		notifier:  notifier,
		logger:    logger,
	}
}

// Analyze produces the risk report for a URL, serving a cached verdict
// when one exists.
func (s *analyzerService) Analyze(ctx context.Context, url string) (*models.AnalysisResult, error) {
	url = strings.TrimSpace(url)
	if url == "" || !(strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")) {
		return nil, ErrInvalidURL
	}

	// The shared analysis runs detached from the first caller's context:
	// its cancellation must not fail the collapsed waiters. The redirect
	// probe carries its own timeout.
	value, err, _ := s.group.Do(url, func() (interface{}, error) {
		return s.analyze(context.WithoutCancel(ctx), url)
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.AnalysisResult), nil
}

func (s *analyzerService) analyze(ctx context.Context, url string) (*models.AnalysisResult, error) {
	record, err := s.repo.GetByURL(url)
	if err == nil {
		s.logger.Debug("Cache hit", zap.String("url", url))
		return s.resultFromRecord(record), nil
	}
	if !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("cache lookup failed: %w", err)
	}

	fv, aux, err := s.extractor.Extract(ctx, url)
	if err != nil {
		return nil, ErrInvalidURL
	}
	totalScore := fv.Total()
	floats := fv.Floats()

	var (
		riskLevel  int
		riskType   string
		confidence float64
		anomaly    bool
	)
	if aux.Trusted {
		riskLevel = models.RiskLevelLow
		riskType = models.RiskTypeSafe
		confidence = trustedConfidence
	} else {
		riskLevel, confidence = s.manager.PredictRiskLevel(floats, totalScore, aux.Gambling)
		riskType = s.manager.PredictRiskType(floats, aux.InferredType)
		anomaly = s.manager.DetectAnomaly(floats, aux.Trusted, aux.Gambling)
	}

	severity := verdict.Severity(totalScore, confidence, aux.Gambling)
	whyRisk := verdict.Explanation(fv, aux, riskType)

	record = &models.AnalysisRecord{
		URL:                url,
		Domain:             aux.Domain,
		DomainScore:        fv.Domain,
		URLScore:           fv.URL,
		KeywordScore:       fv.Keyword,
		SecurityScore:      fv.Security,
		RedirectScore:      fv.Redirect,
		TotalScore:         totalScore,
		PredictedRiskLevel: riskLevel,
		PredictedRiskType:  riskType,
		ConfidencePercent:  confidence,
		AnomalyDetected:    anomaly,
		RiskSeverityIndex:  severity,
		WhyRisk:            whyRisk,
	}
	if err := s.repo.Upsert(record); err != nil {
		return nil, fmt.Errorf("failed to persist verdict: %w", err)
	}

	s.checkAndRetrain()

	result := &models.AnalysisResult{
		URL:               url,
		Domain:            aux.Domain,
		DomainScore:       fv.Domain,
		URLScore:          fv.URL,
		KeywordScore:      fv.Keyword,
		SecurityScore:     fv.Security,
		RedirectScore:     fv.Redirect,
		TotalScore:        totalScore,
		RiskLevel:         models.RiskLevelName(riskLevel),
		RiskLevelNumeric:  riskLevel,
		RiskType:          riskType,
		ConfidencePercent: confidence,
		RiskSeverityIndex: severity,
		AnomalyDetected:   anomaly,
		WhyRisk:           whyRisk,
		GamblingWarning:   verdict.GamblingWarning(totalScore, aux.Gambling),
		Cached:            false,
	}

	if s.notifier != nil {
		go s.notifier.NotifyHighRisk(result)
	}
	return result, nil
}

// resultFromRecord rebuilds a verdict from a cached row. Corrected labels
// override predictions, and the gambling warning tier is re-derived from
// the stored scores so it always reflects the current thresholds.
func (s *analyzerService) resultFromRecord(record *models.AnalysisRecord) *models.AnalysisResult {
	riskLevel := record.EffectiveRiskLevel()
	riskType := record.EffectiveRiskType()
	gambling := riskType == models.RiskTypeGambling || s.tables.IsGamblingPlatform(record.Domain)

	whyRisk := record.WhyRisk
	if whyRisk == "" {
		whyRisk = "Multiple risk factors"
	}

	return &models.AnalysisResult{
		URL:               record.URL,
		Domain:            record.Domain,
		DomainScore:       record.DomainScore,
		URLScore:          record.URLScore,
		KeywordScore:      record.KeywordScore,
		SecurityScore:     record.SecurityScore,
		RedirectScore:     record.RedirectScore,
		TotalScore:        record.TotalScore,
		RiskLevel:         models.RiskLevelName(riskLevel),
		RiskLevelNumeric:  riskLevel,
		RiskType:          riskType,
		ConfidencePercent: record.ConfidencePercent,
		RiskSeverityIndex: record.RiskSeverityIndex,
		AnomalyDetected:   record.AnomalyDetected,
		WhyRisk:           whyRisk,
		GamblingWarning:   verdict.GamblingWarning(record.TotalScore, gambling),
		Cached:            true,
	}
}

// Correct records human-reviewed labels for an already analyzed URL.
func (s *analyzerService) Correct(url string, riskLevel *int, riskType *string) error {
	if riskLevel == nil && riskType == nil {
		return fmt.Errorf("%w: no corrected labels supplied", ErrInvalidURL)
	}
	if riskLevel != nil && (*riskLevel < models.RiskLevelLow || *riskLevel > models.RiskLevelHigh) {
		return fmt.Errorf("%w: risk level out of range", ErrInvalidURL)
	}
	err := s.repo.CorrectLabels(url, riskLevel, riskType)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return ErrUnknownURL
	}
	return err
}

// Retrain runs a full batch refit of all three classifiers from the
// stored corpus.
func (s *analyzerService) Retrain() (ml.TrainResult, error) {
	samples, err := s.repo.TrainingSnapshot()
	if err != nil {
		return ml.TrainResult{}, fmt.Errorf("failed to snapshot training data: %w", err)
	}
	// The snapshot is a copy; fitting happens off the store's write path.
	return s.manager.Train(samples), nil
}

// checkAndRetrain applies the count trigger after a successful upsert.
func (s *analyzerService) checkAndRetrain() {
	count, err := s.repo.Count()
	if err != nil {
		s.logger.Error("Failed to count records for retrain check", zap.Error(err))
		return
	}
	if !shouldRetrain(count) {
		return
	}
	s.logger.Info("Retrain triggered", zap.Int("record_count", count))
	if _, err := s.Retrain(); err != nil {
		s.logger.Error("Retrain cycle failed", zap.Error(err))
	}
}

func shouldRetrain(count int) bool {
	return count >= MinRecordsForRetrain && count%RetrainInterval == 0
}

// Stats reports corpus size, class distributions and model readiness.
func (s *analyzerService) Stats() (*Stats, error) {
	count, err := s.repo.Count()
	if err != nil {
		return nil, err
	}
	levels, types, err := s.repo.ClassDistribution()
	if err != nil {
		return nil, err
	}
	return &Stats{
		RecordCount:      count,
		RiskDistribution: levels,
		TypeDistribution: types,
		RiskModelReady:   s.manager.RiskReady(),
		TypeModelReady:   s.manager.TypeReady(),
		AnomalyReady:     s.manager.AnomalyReady(),
	}, nil
}
