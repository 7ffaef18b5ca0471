package reputation

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tables holds the static reputation data: trusted domains, known legal
// gambling platforms and per-TLD risk scores. Loaded once at process start
// and treated as immutable afterwards; changing the data is a redeploy.
type Tables struct {
	trusted  map[string]struct{}
	gambling map[string]struct{}
	tld      map[string]int

	// TLD suffixes sorted longest-first so the longest match wins.
	tldOrder []string
}

// overrides is the YAML shape of an optional reputation override file.
// Entries are merged over the built-in defaults.
type overrides struct {
	TrustedDomains    []string       `yaml:"trusted_domains"`
	GamblingPlatforms []string       `yaml:"gambling_platforms"`
	TLDScores         map[string]int `yaml:"tld_scores"`
}

// Default returns the built-in reputation tables.
func Default() *Tables {
	return build(nil)
}

// Load returns the built-in tables merged with the override file at path.
// An empty path yields the defaults.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reputation overrides: %w", err)
	}
	var ov overrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("failed to decode reputation overrides: %w", err)
	}
	return build(&ov), nil
}

func build(ov *overrides) *Tables {
	t := &Tables{
		trusted:  make(map[string]struct{}, len(trustedDomains)),
		gambling: make(map[string]struct{}, len(gamblingPlatforms)),
		tld:      make(map[string]int, len(tldReputation)),
	}
	for _, d := range trustedDomains {
		t.trusted[d] = struct{}{}
	}
	for _, d := range gamblingPlatforms {
		t.gambling[d] = struct{}{}
	}
	for tld, score := range tldReputation {
		t.tld[tld] = score
	}
	if ov != nil {
		for _, d := range ov.TrustedDomains {
			t.trusted[strings.ToLower(d)] = struct{}{}
		}
		for _, d := range ov.GamblingPlatforms {
			t.gambling[strings.ToLower(d)] = struct{}{}
		}
		for tld, score := range ov.TLDScores {
			t.tld[strings.ToLower(tld)] = score
		}
	}
	t.tldOrder = make([]string, 0, len(t.tld))
	for tld := range t.tld {
		t.tldOrder = append(t.tldOrder, tld)
	}
	sort.Slice(t.tldOrder, func(i, j int) bool {
		if len(t.tldOrder[i]) != len(t.tldOrder[j]) {
			return len(t.tldOrder[i]) > len(t.tldOrder[j])
		}
		return t.tldOrder[i] < t.tldOrder[j]
	})
	return t
}

// IsTrusted reports whether the domain is whitelisted, either exactly or as
// a subdomain of a whitelisted entry.
func (t *Tables) IsTrusted(domain string) bool {
	if _, ok := t.trusted[domain]; ok {
		return true
	}
	for trusted := range t.trusted {
		if strings.HasSuffix(domain, "."+trusted) {
			return true
		}
	}
	return false
}

// IsGamblingPlatform reports whether the domain is a known legal gambling
// platform, matched exactly, as a subdomain, or as a substring.
func (t *Tables) IsGamblingPlatform(domain string) bool {
	if _, ok := t.gambling[domain]; ok {
		return true
	}
	for g := range t.gambling {
		if strings.HasSuffix(domain, "."+g) || strings.Contains(domain, g) {
			return true
		}
	}
	return false
}

// TLDScore returns the reputation score of the longest TLD suffix matching
// the domain. Unlisted TLDs score a mild default of 5.
func (t *Tables) TLDScore(domain string) int {
	for _, tld := range t.tldOrder {
		if strings.HasSuffix(domain, tld) {
			return t.tld[tld]
		}
	}
	return 5
}
