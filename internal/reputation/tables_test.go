package reputation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTrusted(t *testing.T) {
	tables := Default()

	assert.True(t, tables.IsTrusted("google.com"))
	assert.True(t, tables.IsTrusted("mail.google.com"), "subdomains of trusted domains are trusted")
	assert.True(t, tables.IsTrusted("example.com"))
	assert.False(t, tables.IsTrusted("google.com.evil.tk"))
	assert.False(t, tables.IsTrusted("notgoogle.com"))
}

func TestIsGamblingPlatform(t *testing.T) {
	tables := Default()

	assert.True(t, tables.IsGamblingPlatform("bet365.com"))
	assert.True(t, tables.IsGamblingPlatform("promo.bet365.com"))
	assert.False(t, tables.IsGamblingPlatform("example.com"))
}

func TestTLDScoreLongestMatchWins(t *testing.T) {
	tables := Default()

	// .co.uk (score 0) must win over .uk falling through to the default.
	assert.Equal(t, 0, tables.TLDScore("shop.co.uk"))
	assert.Equal(t, 25, tables.TLDScore("freebie.tk"))
	assert.Equal(t, 0, tables.TLDScore("example.com"))
	// Unlisted TLDs get the mild default.
	assert.Equal(t, 5, tables.TLDScore("example.zz"))
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yml")
	content := `
trusted_domains:
  - mycorp.internal
gambling_platforms:
  - newcasino.example
tld_scores:
  ".zz": 21
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tables, err := Load(path)
	require.NoError(t, err)

	assert.True(t, tables.IsTrusted("mycorp.internal"))
	assert.True(t, tables.IsGamblingPlatform("newcasino.example"))
	assert.Equal(t, 21, tables.TLDScore("example.zz"))
	// Built-ins survive the merge.
	assert.True(t, tables.IsTrusted("google.com"))
}
