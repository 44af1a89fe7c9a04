package services

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomToken(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		tok, err := randomToken(verifierBytes)
		require.NoError(t, err)
		assert.Len(t, tok, 86)
		assert.NotContains(t, tok, "=")

		raw, err := base64.RawURLEncoding.DecodeString(tok)
		require.NoError(t, err)
		assert.Len(t, raw, verifierBytes)

		assert.False(t, seen[tok], "duplicate token")
		seen[tok] = true
	}
}

func TestS256Challenge(t *testing.T) {
	// RFC 7636 appendix B.
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", s256Challenge(verifier))
	assert.Equal(t, s256Challenge(verifier), s256Challenge(verifier))
	assert.NotEqual(t, s256Challenge(verifier), s256Challenge(verifier+"x"))
}
