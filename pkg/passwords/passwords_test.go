package passwords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль密码"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := Hash(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"digest should be PHC encoded")
			require.Len(t, strings.Split(hash, "$"), 6)
		})
	}
}

func TestHashUniqueSalts(t *testing.T) {
	t.Parallel()

	h1, err := Hash("samepassword")
	require.NoError(t, err)
	h2, err := Hash("samepassword")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2, "digests should differ due to unique salts")
}

func TestVerify(t *testing.T) {
	t.Parallel()

	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)

	require.True(t, Verify("correct horse battery staple", hash))
	require.False(t, Verify("incorrect horse", hash))
	require.False(t, Verify("", hash))
}

func TestVerifyMalformedDigest(t *testing.T) {
	t.Parallel()

	require.False(t, Verify("whatever", ""))
	require.False(t, Verify("whatever", "not-a-digest"))
	require.False(t, Verify("whatever", "$argon2id$v=19$m=bad$x$y"))
	require.False(t, Verify("whatever", "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"))
}
