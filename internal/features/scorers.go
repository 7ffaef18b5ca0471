package features

import (
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/models"
)

var (
	specialCharsRe = regexp.MustCompile(`[!#$%^&*(),?":{}|<>]`)
	fourDigitsRe   = regexp.MustCompile(`\d{4}`)
)

// domainScore scores the bare domain. Trusted and known-gambling matches
// short-circuit every other penalty.
func (e *Extractor) domainScore(domain string) int {
	if e.tables.IsTrusted(domain) {
		return 0
	}
	if e.tables.IsGamblingPlatform(domain) {
		return 8
	}
	if net.ParseIP(domain) != nil {
		return MaxDomainScore
	}

	score := e.tables.TLDScore(domain)

	name := domain
	if i := strings.Index(domain, "."); i >= 0 {
		name = domain[:i]
	}
	switch {
	case len(name) > 25:
		score += 8
	case len(name) > 15:
		score += 5
	case len(name) < 3:
		score += 8
	}

	hyphens := strings.Count(name, "-")
	switch {
	case hyphens > 3:
		score += 10
	case hyphens > 2:
		score += 5
	}

	digits := 0
	for _, c := range name {
		if unicode.IsDigit(c) {
			digits++
		}
	}
	switch {
	case digits > 5:
		score += 8
	case digits > 3:
		score += 4
	}

	if fourDigitsRe.MatchString(name) {
		score += 5
	}

	return clamp(score, MaxDomainScore)
}

// urlScore scores the URL structure: IP literals, length, credential
// spoofing, subdomain depth, special characters, path traversal and
// oversized query strings.
func (e *Extractor) urlScore(rawURL string, parsed *url.URL, domain string) int {
	score := 0

	if net.ParseIP(domain) != nil {
		score += 20
	}

	switch {
	case len(rawURL) > 120:
		score += 10
	case len(rawURL) > 80:
		score += 5
	}

	if strings.Contains(rawURL, "@") {
		score += 15
	}

	subdomains := strings.Count(parsed.Host, ".")
	switch {
	case subdomains > 3:
		score += 8
	case subdomains > 2:
		score += 4
	}

	if len(specialCharsRe.FindAllString(rawURL, -1)) > 5 {
		score += 8
	}

	if strings.Contains(parsed.Path, "//") {
		score += 10
	}

	if len(parsed.RawQuery) > 100 {
		score += 8
	}

	return clamp(score, MaxURLScore)
}

// keywordScore scans the URL (and, for gambling terms, the domain) against
// the six category keyword sets and returns the score together with the
// winning category. Ties between categories with equal match counts are
// broken by categoryPrecedence. A known gambling platform boosts the
// gambling count by 3 before the category is selected.
func (e *Extractor) keywordScore(rawURL, domain string) (int, string) {
	urlLower := strings.ToLower(rawURL)
	domainLower := strings.ToLower(domain)

	counts := make(map[string]int, len(keywordSets))
	for category, set := range keywordSets {
		n := 0
		for _, kw := range set {
			if strings.Contains(urlLower, kw) {
				n++
			} else if category == models.RiskTypeGambling && strings.Contains(domainLower, kw) {
				n++
			}
		}
		counts[category] = n
	}

	if e.tables.IsGamblingPlatform(domainLower) {
		counts[models.RiskTypeGambling] += 3
	}

	best := models.RiskTypeUnknown
	bestCount := 0
	for _, category := range categoryPrecedence {
		if counts[category] > bestCount {
			best = category
			bestCount = counts[category]
		}
	}
	if bestCount == 0 {
		return 0, models.RiskTypeUnknown
	}

	var score int
	switch best {
	case models.RiskTypeGambling:
		// Legal but risky: lower multiplier, capped below the ceiling.
		score = clamp(bestCount*4, 18)
	case models.RiskTypePiracy:
		score = bestCount * 6
	default:
		score = bestCount * 5
	}
	return clamp(score, MaxKeywordScore), best
}

// securityScore is binary: plain HTTP takes the full penalty.
func securityScore(rawURL string) int {
	if !strings.HasPrefix(rawURL, "https://") {
		return MaxSecurityScore
	}
	return 0
}
