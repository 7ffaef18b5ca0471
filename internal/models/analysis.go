package models

import "time"

// Risk levels are stored as ordinals so they can double as classifier labels.
const (
	RiskLevelLow    = 0
	RiskLevelMedium = 1
	RiskLevelHigh   = 2
)

// RiskLevelName maps a risk level ordinal to its display string.
func RiskLevelName(level int) string {
	switch level {
	case RiskLevelMedium:
		return "Medium"
	case RiskLevelHigh:
		return "High"
	default:
		return "Low"
	}
}

// Risk type labels produced by the keyword scorer and the type classifier.
const (
	RiskTypeUnknown   = "Unknown"
	RiskTypeSafe      = "Safe"
	RiskTypePhishing  = "Phishing"
	RiskTypeFinancial = "Financial Fraud"
	RiskTypeScam      = "Scam"
	RiskTypeGambling  = "Gambling/Betting"
	RiskTypeMalware   = "Malware"
	RiskTypePiracy    = "Piracy"
)

// AnalysisRecord is a single row of the url_analysis table. It is both the
// cached verdict for a URL and one training sample for the classifiers.
// Rows are never deleted; re-analysis replaces the predicted fields in place
// and label correction touches only the actual_* fields.
type AnalysisRecord struct {
	ID     int64  `db:"id"`
	URL    string `db:"url"`
	Domain string `db:"domain"`

	DomainScore   int `db:"domain_score"`
	URLScore      int `db:"url_score"`
	KeywordScore  int `db:"keyword_score"`
	SecurityScore int `db:"security_score"`
	RedirectScore int `db:"redirect_score"`
	TotalScore    int `db:"total_score"`

	PredictedRiskLevel int     `db:"predicted_risk_level"`
	PredictedRiskType  string  `db:"predicted_risk_type"`
	ConfidencePercent  float64 `db:"confidence_percent"`
	AnomalyDetected    bool    `db:"anomaly_detected"`
	RiskSeverityIndex  int     `db:"risk_severity_index"`
	WhyRisk            string  `db:"why_risk"`

	// Human-corrected labels. Nil until a correction is submitted.
	ActualRiskLevel *int    `db:"actual_risk_level"`
	ActualRiskType  *string `db:"actual_risk_type"`

	AnalyzedAt time.Time `db:"analyzed_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// EffectiveRiskLevel returns the corrected risk level when one exists.
func (r *AnalysisRecord) EffectiveRiskLevel() int {
	if r.ActualRiskLevel != nil {
		return *r.ActualRiskLevel
	}
	return r.PredictedRiskLevel
}

// EffectiveRiskType returns the corrected risk type when one exists.
func (r *AnalysisRecord) EffectiveRiskType() string {
	if r.ActualRiskType != nil && *r.ActualRiskType != "" {
		return *r.ActualRiskType
	}
	if r.PredictedRiskType == "" {
		return RiskTypeUnknown
	}
	return r.PredictedRiskType
}

// AnalysisResult is the verdict returned to the routing layer. Field names
// are fixed; downstream consumers bind to them verbatim.
type AnalysisResult struct {
	URL    string `json:"url"`
	Domain string `json:"domain"`

	DomainScore   int `json:"domain_score"`
	URLScore      int `json:"url_score"`
	KeywordScore  int `json:"keyword_score"`
	SecurityScore int `json:"security_score"`
	RedirectScore int `json:"redirect_score"`
	TotalScore    int `json:"total_score"`

	RiskLevel         string  `json:"risk_level"`
	RiskLevelNumeric  int     `json:"risk_level_numeric"`
	RiskType          string  `json:"risk_type"`
	ConfidencePercent float64 `json:"confidence_percent"`
	RiskSeverityIndex int     `json:"risk_severity_index"`

	AnomalyDetected bool   `json:"anomaly_detected"`
	WhyRisk         string `json:"why_risk"`
	GamblingWarning string `json:"gambling_warning,omitempty"`
	Cached          bool   `json:"cached"`
}

// TrainingSample is one row of the training corpus projection: the feature
// vector plus labels, with human corrections overriding predictions.
type TrainingSample struct {
	Features  [5]float64
	RiskLevel int
	RiskType  string
}
