package features

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Redirect score bands, first match wins in this order: probe failure,
// redirect-count bands, then the changed-final-domain check.
const (
	redirectFailureScore   = 5
	redirectManyScore      = 10 // more than 5 redirects
	redirectMidScore       = 7  // 3-5 redirects
	redirectFewScore       = 4  // 1-2 redirects
	redirectNewDomainScore = 6  // no redirects but final domain differs
)

// ProbeTimeout bounds the live redirect probe. The timeout is a score
// input, not an error: an expired probe scores redirectFailureScore.
const ProbeTimeout = 2 * time.Second

// RedirectProber follows a URL's redirect chain with a bounded-time GET
// and converts the outcome into the redirect component score.
type RedirectProber struct {
	client *http.Client
	logger *zap.Logger
}

// NewRedirectProber creates a prober with the given timeout. A zero
// timeout uses ProbeTimeout.
func NewRedirectProber(timeout time.Duration, logger *zap.Logger) *RedirectProber {
	if timeout == 0 {
		timeout = ProbeTimeout
	}
	return &RedirectProber{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				// Probing hostile URLs; certificate validity is already
				// captured by the security scorer's scheme check.
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		logger: logger,
	}
}

// Probe performs the live request. The store lock is never held across
// this call.
func (p *RedirectProber) Probe(ctx context.Context, rawURL, originDomain string) int {
	redirects := 0
	client := &http.Client{
		Timeout:   p.client.Timeout,
		Transport: p.client.Transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			redirects = len(via)
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return redirectFailureScore
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		p.logger.Debug("Redirect probe failed", zap.String("url", rawURL), zap.Error(err))
		return redirectFailureScore
	}
	defer resp.Body.Close()

	switch {
	case redirects > 5:
		return redirectManyScore
	case redirects >= 3:
		return redirectMidScore
	case redirects >= 1:
		return redirectFewScore
	}

	finalDomain := strings.ToLower(resp.Request.URL.Hostname())
	if finalDomain != "" && finalDomain != originDomain {
		return redirectNewDomainScore
	}
	return 0
}
