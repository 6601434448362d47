package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return &Service{
		Secret: []byte("test-secret-with-enough-entropy!"),
		Issuer: "contacthub-test",
	}
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()
	svc := newTestService()

	raw, err := svc.IssueSession("alice")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	subject, err := svc.Decode(raw, PurposeSession)
	require.NoError(t, err)
	require.Equal(t, "alice", subject)
}

func TestPurposeRoundTrip(t *testing.T) {
	t.Parallel()
	svc := newTestService()

	raw, err := svc.IssuePurpose("alice@example.com", PurposeVerifyEmail)
	require.NoError(t, err)

	subject, err := svc.Decode(raw, PurposeVerifyEmail)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", subject)
}

func TestPurposeMismatchRejected(t *testing.T) {
	t.Parallel()
	svc := newTestService()

	verify, err := svc.IssuePurpose("alice@example.com", PurposeVerifyEmail)
	require.NoError(t, err)
	reset, err := svc.IssuePurpose("alice@example.com", PurposeResetPassword)
	require.NoError(t, err)
	session, err := svc.IssueSession("alice")
	require.NoError(t, err)

	// A confirmation token must not open the reset flow, and vice versa.
	_, err = svc.Decode(verify, PurposeResetPassword)
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Decode(reset, PurposeVerifyEmail)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Session tokens never pass as purpose tokens and purpose tokens never
	// pass as sessions.
	_, err = svc.Decode(session, PurposeVerifyEmail)
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Decode(verify, PurposeSession)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()
	svc := newTestService()

	issuedAt := time.Now().Add(-8 * 24 * time.Hour)
	svc.Now = func() time.Time { return issuedAt }

	raw, err := svc.IssuePurpose("alice@example.com", PurposeVerifyEmail)
	require.NoError(t, err)

	svc.Now = nil // back to the real clock, 8 days later
	_, err = svc.Decode(raw, PurposeVerifyEmail)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecretRejected(t *testing.T) {
	t.Parallel()

	raw, err := newTestService().IssueSession("alice")
	require.NoError(t, err)

	other := &Service{Secret: []byte("a-completely-different-secret!!!")}
	_, err = other.Decode(raw, PurposeSession)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageRejected(t *testing.T) {
	t.Parallel()
	svc := newTestService()

	for _, raw := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0.e30."} {
		_, err := svc.Decode(raw, PurposeSession)
		require.ErrorIs(t, err, ErrInvalidToken, "input %q", raw)
	}
}
