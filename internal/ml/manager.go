package ml

import (
	"fmt"
	"math"
	"os"
	"sort"
	"sync/atomic"
	"time"

	randomforest "github.com/malaschitz/randomForest"
	"go.uber.org/zap"

	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/models"
)

// Readiness preconditions and training parameters.
const (
	// MinRiskSamples is the labeled-sample floor below which the risk
	// level classifier stays Untrained and the threshold fallback applies.
	MinRiskSamples = 30

	// MinTypeSamples / MinTypeClasses gate the risk-type classifier: it
	// needs enough non-Unknown labels spanning at least two categories.
	MinTypeSamples = 10
	MinTypeClasses = 2

	// Contamination is the fraction of training mass the anomaly detector
	// treats as anomalous.
	Contamination = 0.10

	riskTrees    = 100
	typeTrees    = 200
	anomalyTrees = 100
)

// Fallback confidences, used while the risk classifier is Untrained. They
// are deliberately distinct from model-path confidences, which come from
// class probabilities.
const (
	FallbackConfidenceHigh     = 70.0
	FallbackConfidenceMedium   = 65.0
	FallbackConfidenceLow      = 60.0
	FallbackConfidenceGambling = 70.0
)

// Fallback thresholds on the total score.
const (
	fallbackHighThreshold   = 60 // above: High
	fallbackMediumThreshold = 35 // above: Medium
)

type riskModel struct {
	forest  *randomforest.Forest
	classes []int // forest class index -> risk level ordinal
	samples int
}

type typeModel struct {
	forest  *randomforest.Forest
	labels  []string // forest class index -> risk type label
	samples int
}

type anomalyModel struct {
	forest    *randomforest.IsolationForest
	threshold float64
	samples   int
}

// Manager owns the three classifiers. Each bundle lives behind an atomic
// pointer and is replaced as a whole on retrain, so a prediction in flight
// sees either the old or the new bundle, never a mix. Predictions never
// mutate a bundle.
type Manager struct {
	dir    string
	logger *zap.Logger

	risk    atomic.Pointer[riskModel]
	rtype   atomic.Pointer[typeModel]
	anomaly atomic.Pointer[anomalyModel]
}

// NewManager loads any persisted bundles from dir. A missing or corrupt
// artifact leaves that classifier Untrained with a logged warning; it is
// never fatal.
func NewManager(dir string, logger *zap.Logger) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create model dir: %w", err)
	}
	m := &Manager{dir: dir, logger: logger}
	m.loadAll()
	return m, nil
}

// loadAll refits classifiers from persisted artifacts. An artifact that
// fails its classifier's readiness gate counts as corrupt: the classifier
// stays Untrained and the fallback applies, no matter what is on disk.
func (m *Manager) loadAll() {
	if art, err := loadArtifact(m.dir, riskArtifactFile); err != nil {
		m.logger.Warn("Risk model artifact unreadable, starting untrained", zap.Error(err))
	} else if art != nil {
		if len(art.X) < MinRiskSamples {
			m.logger.Warn("Risk model artifact below the sample floor, starting untrained",
				zap.Int("samples", len(art.X)), zap.Int("required", MinRiskSamples))
		} else {
			m.risk.Store(fitRisk(art.X, art.Classes))
			m.logger.Info("Risk model loaded", zap.Int("samples", len(art.X)))
		}
	}

	if art, err := loadArtifact(m.dir, typeArtifactFile); err != nil {
		m.logger.Warn("Risk type model artifact unreadable, starting untrained", zap.Error(err))
	} else if art != nil {
		if len(art.X) < MinTypeSamples || len(art.Labels) < MinTypeClasses {
			m.logger.Warn("Risk type model artifact lacks labeled diversity, starting untrained",
				zap.Int("samples", len(art.X)), zap.Int("classes", len(art.Labels)))
		} else {
			m.rtype.Store(fitType(art.X, art.ClassIndexes, art.Labels))
			m.logger.Info("Risk type model loaded", zap.Int("samples", len(art.X)))
		}
	}

	if art, err := loadArtifact(m.dir, anomalyArtifactFile); err != nil {
		m.logger.Warn("Anomaly model artifact unreadable, starting untrained", zap.Error(err))
	} else if art != nil {
		if len(art.X) < MinRiskSamples {
			m.logger.Warn("Anomaly model artifact below the sample floor, starting untrained",
				zap.Int("samples", len(art.X)), zap.Int("required", MinRiskSamples))
		} else {
			m.anomaly.Store(fitAnomaly(art.X))
			m.logger.Info("Anomaly model loaded", zap.Int("samples", len(art.X)))
		}
	}
}

// PredictRiskLevel returns the risk level ordinal and a confidence
// percentage. While the classifier is Untrained the closed-form threshold
// fallback on the total score applies. The gambling flag floors the level
// at Medium on either path.
func (m *Manager) PredictRiskLevel(fv [5]float64, totalScore int, gambling bool) (int, float64) {
	model := m.risk.Load()
	if model == nil {
		return m.fallbackRiskLevel(totalScore, gambling)
	}

	votes := model.forest.Vote(fv[:])
	if len(votes) == 0 {
		return m.fallbackRiskLevel(totalScore, gambling)
	}
	best := 0
	for i, v := range votes {
		if v > votes[best] {
			best = i
		}
	}
	level := model.classes[best]
	confidence := round1(votes[best] * 100)

	if gambling && level < models.RiskLevelMedium {
		level = models.RiskLevelMedium
	}
	return level, confidence
}

func (m *Manager) fallbackRiskLevel(totalScore int, gambling bool) (int, float64) {
	if gambling {
		return models.RiskLevelMedium, FallbackConfidenceGambling
	}
	switch {
	case totalScore > fallbackHighThreshold:
		return models.RiskLevelHigh, FallbackConfidenceHigh
	case totalScore > fallbackMediumThreshold:
		return models.RiskLevelMedium, FallbackConfidenceMedium
	default:
		return models.RiskLevelLow, FallbackConfidenceLow
	}
}

// PredictRiskType returns the risk category. While the classifier is
// Untrained the keyword scorer's inferred category is used as-is.
func (m *Manager) PredictRiskType(fv [5]float64, inferredType string) string {
	model := m.rtype.Load()
	if model == nil {
		if inferredType == "" {
			return models.RiskTypeUnknown
		}
		return inferredType
	}

	votes := model.forest.Vote(fv[:])
	if len(votes) == 0 {
		return inferredType
	}
	best := 0
	for i, v := range votes {
		if v > votes[best] {
			best = i
		}
	}
	return model.labels[best]
}

// DetectAnomaly reports whether the feature vector is anomalous relative
// to the training corpus. Trusted and known-gambling domains skip
// detection entirely.
func (m *Manager) DetectAnomaly(fv [5]float64, trusted, gambling bool) bool {
	if trusted || gambling {
		return false
	}
	model := m.anomaly.Load()
	if model == nil {
		return false
	}
	score := model.forest.AnomalyScore(fv[:], anomalyTrees)
	return score > model.threshold
}

// RiskReady reports whether the risk level classifier is Trained.
func (m *Manager) RiskReady() bool { return m.risk.Load() != nil }

// TypeReady reports whether the risk type classifier is Trained.
func (m *Manager) TypeReady() bool { return m.rtype.Load() != nil }

// AnomalyReady reports whether the anomaly detector is Trained.
func (m *Manager) AnomalyReady() bool { return m.anomaly.Load() != nil }

// TrainResult reports which classifiers a retrain cycle refreshed.
type TrainResult struct {
	RiskTrained    bool
	TypeTrained    bool
	AnomalyTrained bool
}

// Train refits all three classifiers from the training snapshot and swaps
// in the new bundles atomically. The refit is all-or-nothing per
// classifier: one classifier missing its preconditions leaves its previous
// bundle (or the fallback) in place while the others still update.
func (m *Manager) Train(samples []models.TrainingSample) TrainResult {
	var res TrainResult
	start := time.Now()

	x := make([][]float64, len(samples))
	for i, s := range samples {
		row := s.Features
		x[i] = row[:]
	}

	// Risk level classifier
	if len(samples) >= MinRiskSamples {
		classes := make([]int, len(samples))
		for i, s := range samples {
			classes[i] = s.RiskLevel
		}
		model := fitRisk(x, classes)
		art := &artifact{Kind: "risk_level", TrainedAt: time.Now(), X: x, Classes: classes}
		if err := saveArtifact(m.dir, riskArtifactFile, art); err != nil {
			m.logger.Error("Failed to persist risk model", zap.Error(err))
		} else {
			m.risk.Store(model)
			res.RiskTrained = true
		}
	} else {
		m.logger.Info("Skipping risk model refit: not enough samples",
			zap.Int("samples", len(samples)), zap.Int("required", MinRiskSamples))
	}

	// Risk type classifier: only rows with a concrete threat label count.
	var typeX [][]float64
	var typeIdx []int
	labelIndex := map[string]int{}
	var labels []string
	for i, s := range samples {
		if s.RiskType == "" || s.RiskType == models.RiskTypeUnknown || s.RiskType == models.RiskTypeSafe {
			continue
		}
		idx, ok := labelIndex[s.RiskType]
		if !ok {
			idx = len(labels)
			labelIndex[s.RiskType] = idx
			labels = append(labels, s.RiskType)
		}
		typeX = append(typeX, x[i])
		typeIdx = append(typeIdx, idx)
	}
	if len(typeX) >= MinTypeSamples && len(labels) >= MinTypeClasses {
		model := fitType(typeX, typeIdx, labels)
		art := &artifact{Kind: "risk_type", TrainedAt: time.Now(), X: typeX, ClassIndexes: typeIdx, Labels: labels}
		if err := saveArtifact(m.dir, typeArtifactFile, art); err != nil {
			m.logger.Error("Failed to persist risk type model", zap.Error(err))
		} else {
			m.rtype.Store(model)
			res.TypeTrained = true
		}
	} else {
		m.logger.Info("Skipping risk type refit: insufficient labeled diversity",
			zap.Int("labeled", len(typeX)), zap.Int("classes", len(labels)))
	}

	// Anomaly detector: shares the risk classifier's sample floor so a
	// near-empty corpus cannot define "normal".
	if len(x) >= MinRiskSamples {
		model := fitAnomaly(x)
		art := &artifact{Kind: "anomaly", TrainedAt: time.Now(), X: x, Threshold: model.threshold}
		if err := saveArtifact(m.dir, anomalyArtifactFile, art); err != nil {
			m.logger.Error("Failed to persist anomaly model", zap.Error(err))
		} else {
			m.anomaly.Store(model)
			res.AnomalyTrained = true
		}
	} else {
		m.logger.Info("Skipping anomaly detector refit: not enough samples",
			zap.Int("samples", len(x)), zap.Int("required", MinRiskSamples))
	}

	m.logger.Info("Model training cycle finished",
		zap.Int("samples", len(samples)),
		zap.Bool("risk", res.RiskTrained),
		zap.Bool("type", res.TypeTrained),
		zap.Bool("anomaly", res.AnomalyTrained),
		zap.Duration("took", time.Since(start)),
	)
	return res
}

// fitRisk fits the risk level forest over compact class indexes so a
// corpus missing an ordinal does not leave a hole in the vote slice.
func fitRisk(x [][]float64, classes []int) *riskModel {
	compact := make(map[int]int)
	var ordinals []int
	y := make([]int, len(classes))
	for i, c := range classes {
		idx, ok := compact[c]
		if !ok {
			idx = len(ordinals)
			compact[c] = idx
			ordinals = append(ordinals, c)
		}
		y[i] = idx
	}
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: x, Class: y}
	forest.Train(riskTrees)
	return &riskModel{forest: forest, classes: ordinals, samples: len(x)}
}

func fitType(x [][]float64, classIndexes []int, labels []string) *typeModel {
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: x, Class: classIndexes}
	forest.Train(typeTrees)
	return &typeModel{forest: forest, labels: labels, samples: len(x)}
}

// fitAnomaly trains the isolation forest and places the decision
// threshold at the (1 - Contamination) quantile of the forest's scores on
// its own training corpus.
func fitAnomaly(x [][]float64) *anomalyModel {
	forest := &randomforest.IsolationForest{X: x}
	forest.Train(anomalyTrees)

	scores := make([]float64, len(x))
	for i, row := range x {
		scores[i] = forest.AnomalyScore(row, anomalyTrees)
	}
	sort.Float64s(scores)
	idx := int(math.Ceil(float64(len(scores))*(1-Contamination))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(scores) {
		idx = len(scores) - 1
	}
	return &anomalyModel{forest: forest, threshold: scores[idx], samples: len(x)}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
