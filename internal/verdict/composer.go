// Package verdict turns feature scores and model outputs into the
// human-facing parts of a risk report: the severity index, the headline
// explanation and the gambling warning tier.
package verdict

import (
	"strings"

	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/features"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/models"
)

// Gambling warning tiers on the total score. The tier is derived from the
// stored component scores on every read, cache hits included, so cached
// records always reflect the current thresholds.
const (
	gamblingWarningThreshold = 50 // above: strongest tier
	gamblingCautionThreshold = 30 // above: caution tier, otherwise advisory
)

// Severity computes the 0-100 severity index. Gambling-flagged URLs use a
// dedicated formula with a raised floor; both results are truncated to an
// integer and clamped to 100.
func Severity(totalScore int, confidence float64, gambling bool) int {
	var severity int
	if gambling {
		severity = int(35 + float64(totalScore)*0.4 + confidence*0.2)
	} else {
		severity = int(float64(totalScore)*0.7 + confidence*0.3)
	}
	if severity > 100 {
		severity = 100
	}
	return severity
}

// Explanation summarizes the dominant risk factor. For untrusted,
// non-gambling URLs the single highest-scoring component is the headline;
// ties break by component precedence domain > url > keyword > security >
// redirect.
func Explanation(v features.Vector, aux features.Aux, riskType string) string {
	if aux.Trusted {
		return "Verified trusted domain"
	}
	if aux.Gambling || riskType == models.RiskTypeGambling {
		parts := []string{}
		if v.Total() > 40 {
			parts = append(parts, "financial risk involved")
		} else {
			parts = append(parts, "financial risk present")
		}
		parts = append(parts, "outcomes depend on probability")
		if v.Keyword > 10 {
			parts = append(parts, "real money transactions involved")
		}
		return capitalize(strings.Join(parts, ", "))
	}

	type component struct {
		score    int
		headline string
	}
	ranked := []component{
		{v.Domain, "High-risk domain reputation"},
		{v.URL, "Suspicious URL structure"},
		{v.Keyword, strings.ToLower(riskType) + " indicators"},
		{v.Security, "No HTTPS encryption"},
		{v.Redirect, "Suspicious redirect behaviour"},
	}
	best := ranked[0]
	for _, c := range ranked[1:] {
		if c.score > best.score {
			best = c
		}
	}
	if best.score == 0 {
		return "Low-level risk indicators"
	}
	return capitalize(best.headline)
}

// GamblingWarning returns the warning tier text for a gambling-flagged
// URL, or an empty string otherwise. Never persisted; always recomputed
// from the stored total score.
func GamblingWarning(totalScore int, gambling bool) string {
	if !gambling {
		return ""
	}
	switch {
	case totalScore > gamblingWarningThreshold:
		return "FINANCIAL RISK WARNING: money loss is highly probable; " +
			"outcomes are uncertain and depend on chance or skill; " +
			"only use money you can afford to lose; " +
			"gambling can be addictive - seek help if needed"
	case totalScore > gamblingCautionThreshold:
		return "FINANCIAL CAUTION: real money transactions involved; " +
			"risk of financial loss exists; " +
			"probability of winning varies - no guarantees; " +
			"set limits and gamble responsibly"
	default:
		return "ADVISORY: platform involves real money gaming; " +
			"financial risk is present; " +
			"understand the odds before participating; " +
			"play responsibly within your means"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
