package features

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/models"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/reputation"
)

// Per-component score ceilings. The total is therefore bounded by 100.
const (
	MaxDomainScore   = 25
	MaxURLScore      = 25
	MaxKeywordScore  = 25
	MaxSecurityScore = 15
	MaxRedirectScore = 10
)

// ErrUnparseableURL is returned when no domain can be extracted from the
// submitted URL. No record is written in that case.
var ErrUnparseableURL = errors.New("url has no parseable domain")

// Vector is the fixed-order feature vector consumed by the classifiers:
// [domain, url, keyword, security, redirect].
type Vector struct {
	Domain   int
	URL      int
	Keyword  int
	Security int
	Redirect int
}

// Total returns the summed risk score, 0-100 by construction.
func (v Vector) Total() int {
	return v.Domain + v.URL + v.Keyword + v.Security + v.Redirect
}

// Floats returns the vector in classifier input order.
func (v Vector) Floats() [5]float64 {
	return [5]float64{
		float64(v.Domain), float64(v.URL), float64(v.Keyword),
		float64(v.Security), float64(v.Redirect),
	}
}

// Aux carries the non-numeric signals the later stages need.
type Aux struct {
	Domain       string
	Trusted      bool
	Gambling     bool
	InferredType string
}

// Prober performs the live redirect probe. It is the only part of feature
// extraction that touches the network.
type Prober interface {
	Probe(ctx context.Context, rawURL, originDomain string) int
}

// Extractor computes the feature vector for a URL against the reputation
// tables. Safe for concurrent use.
type Extractor struct {
	tables *reputation.Tables
	prober Prober
	logger *zap.Logger
}

// NewExtractor creates a feature extractor. A nil prober disables the
// redirect probe (score 0), which is only useful in tests.
func NewExtractor(tables *reputation.Tables, prober Prober, logger *zap.Logger) *Extractor {
	return &Extractor{tables: tables, prober: prober, logger: logger}
}

// Extract parses the URL and runs the five scorers. Everything except the
// redirect probe is a pure function of the URL string and the tables.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (Vector, Aux, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Vector{}, Aux{}, ErrUnparseableURL
	}
	domain := strings.ToLower(parsed.Hostname())
	if domain == "" {
		return Vector{}, Aux{}, ErrUnparseableURL
	}

	keywordScore, inferredType := e.keywordScore(rawURL, domain)

	v := Vector{
		Domain:   e.domainScore(domain),
		URL:      e.urlScore(rawURL, parsed, domain),
		Keyword:  keywordScore,
		Security: securityScore(rawURL),
	}
	if e.prober != nil {
		v.Redirect = e.prober.Probe(ctx, rawURL, domain)
	}

	aux := Aux{
		Domain:       domain,
		Trusted:      e.tables.IsTrusted(domain),
		Gambling:     e.tables.IsGamblingPlatform(domain) || inferredType == models.RiskTypeGambling,
		InferredType: inferredType,
	}

	e.logger.Debug("Features extracted",
		zap.String("domain", domain),
		zap.Int("total_score", v.Total()),
		zap.String("inferred_type", inferredType),
	)
	return v, aux, nil
}

func clamp(score, max int) int {
	if score > max {
		return max
	}
	return score
}
