package server

import (
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gossh "golang.org/x/crypto/ssh"
)

func newTestKey(t *testing.T) gossh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	key, err := gossh.NewPublicKey(pub)
	require.NoError(t, err)
	return key
}

func writeAuthorizedKeys(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "authorized_keys")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0600))
	return path
}

func TestIsKeyAuthorized(t *testing.T) {
	trusted := newTestKey(t)
	stranger := newTestKey(t)
	trustedLine := strings.TrimSpace(string(gossh.MarshalAuthorizedKey(trusted))) + " me@laptop"

	tests := []struct {
		name  string
		lines []string
		key   gossh.PublicKey
		want  bool
	}{
		{
			name:  "listed key",
			lines: []string{trustedLine},
			key:   trusted,
			want:  true,
		},
		{
			name:  "unlisted key",
			lines: []string{trustedLine},
			key:   stranger,
			want:  false,
		},
		{
			name:  "skips comments and garbage",
			lines: []string{"# my keys", "", "not a key at all", trustedLine},
			key:   trusted,
			want:  true,
		},
		{
			name:  "empty file",
			lines: []string{""},
			key:   trusted,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeAuthorizedKeys(t, tt.lines...)
			assert.Equal(t, tt.want, isKeyAuthorized(tt.key, path))
		})
	}
}

func TestIsKeyAuthorized_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist")

	assert.False(t, isKeyAuthorized(newTestKey(t), path))
}

func TestGetKeyFingerprint(t *testing.T) {
	key := newTestKey(t)

	fingerprint := getKeyFingerprint(key)

	require.True(t, strings.HasPrefix(fingerprint, "MD5:"))
	parts := strings.Split(strings.TrimPrefix(fingerprint, "MD5:"), ":")
	assert.Len(t, parts, 16)
	for _, part := range parts {
		assert.Len(t, part, 2)
	}
	assert.Equal(t, fingerprint, getKeyFingerprint(key))
	assert.NotEqual(t, fingerprint, getKeyFingerprint(newTestKey(t)))
}

func TestLoadAuthorizedKeys_SkipsUnparsableLines(t *testing.T) {
	first, second := newTestKey(t), newTestKey(t)
	path := writeAuthorizedKeys(t,
		"# laptop",
		strings.TrimSpace(string(gossh.MarshalAuthorizedKey(first))),
		"garbage line",
		strings.TrimSpace(string(gossh.MarshalAuthorizedKey(second)))+" ci@runner",
	)

	keys, err := loadAuthorizedKeys(path)

	require.NoError(t, err)
	assert.Equal(t, [][]byte{first.Marshal(), second.Marshal()}, keys)
}
