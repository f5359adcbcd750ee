package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret(SecretSize)
	require.NoError(t, err)
	b, err := GenerateSecret(SecretSize)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	raw, err := base64.RawURLEncoding.DecodeString(a)
	require.NoError(t, err)
	require.Len(t, raw, SecretSize)

	_, err = GenerateSecret(0)
	require.Error(t, err)
}

func TestFingerprintToken(t *testing.T) {
	fp := FingerprintToken("abc.def")
	require.Equal(t, fp, FingerprintToken("abc.def"))
	require.NotEqual(t, fp, FingerprintToken("abc.deg"))
	require.NotContains(t, fp, "abc")
	require.Len(t, fp, 12)
}
