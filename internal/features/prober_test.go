package features

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// redirectServer answers /r/N with a redirect to /r/N-1 until N reaches 0.
func redirectServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/r/", func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.URL.Path[len("/r/"):])
		if err != nil || n <= 0 {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/r/%d", n-1), http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestProbeRedirectBands(t *testing.T) {
	srv := redirectServer(t)
	origin := serverDomain(t, srv)
	p := NewRedirectProber(0, zap.NewNop())

	tests := []struct {
		redirects int
		want      int
	}{
		{0, 0},
		{1, redirectFewScore},
		{2, redirectFewScore},
		{3, redirectMidScore},
		{5, redirectMidScore},
		{6, redirectManyScore},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d redirects", tt.redirects), func(t *testing.T) {
			target := fmt.Sprintf("%s/r/%d", srv.URL, tt.redirects)
			assert.Equal(t, tt.want, p.Probe(context.Background(), target, origin))
		})
	}
}

func TestProbeChangedFinalDomain(t *testing.T) {
	srv := redirectServer(t)
	p := NewRedirectProber(0, zap.NewNop())

	// Zero redirects but the responding domain differs from the submitted one.
	got := p.Probe(context.Background(), srv.URL+"/r/0", "origin.example")
	assert.Equal(t, redirectNewDomainScore, got)
}

func TestProbeFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	target := srv.URL
	srv.Close()

	p := NewRedirectProber(0, zap.NewNop())
	assert.Equal(t, redirectFailureScore, p.Probe(context.Background(), target, "origin.example"))
}

func serverDomain(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return u.Hostname()
}
