// Package tokens issues and decodes the signed, self-contained bearer
// tokens used for session auth, email confirmation and password reset.
//
// Tokens are HS256 JWTs signed with a server-held secret. Expiry is enforced
// solely by the embedded timestamp plus signature integrity; no token is
// persisted server-side.
package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose scopes a token to the single flow allowed to consume it. A token
// minted for one purpose is rejected everywhere else.
type Purpose string

const (
	PurposeSession       Purpose = "session"
	PurposeVerifyEmail   Purpose = "verify_email"
	PurposeResetPassword Purpose = "reset_password"
)

const (
	// DefaultSessionTTL is the default lifetime for session tokens.
	DefaultSessionTTL = 15 * time.Minute

	// PurposeTTL is the fixed lifetime for email-confirmation and
	// password-reset tokens.
	PurposeTTL = 7 * 24 * time.Hour
)

// ErrInvalidToken is the uniform decode failure. Callers never learn whether
// the signature, a claim, or the expiry was at fault.
var ErrInvalidToken = errors.New("tokens: invalid token")

// Claims are the claims embedded in every token this service mints.
type Claims struct {
	jwt.RegisteredClaims

	Purpose Purpose `json:"purpose,omitempty"`
}

// Service signs and verifies tokens. Construct one per signing secret and
// inject it explicitly; there is no package-level state.
type Service struct {
	Secret     []byte
	Issuer     string
	SessionTTL time.Duration

	// Now overrides the clock, used in tests. Nil means time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return DefaultSessionTTL
}

// IssueSession mints a short-lived session token. The subject is the
// principal's username.
func (s *Service) IssueSession(subject string) (string, error) {
	return s.sign(subject, PurposeSession, s.sessionTTL())
}

// IssuePurpose mints a 7-day token for the email-confirmation or
// password-reset flow. The subject is the principal's email.
func (s *Service) IssuePurpose(subject string, purpose Purpose) (string, error) {
	return s.sign(subject, purpose, PurposeTTL)
}

func (s *Service) sign(subject string, purpose Purpose, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Purpose: purpose,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// Decode verifies the signature and expiry and returns the subject. It is
// pure and side-effect free. Any failure, including a purpose mismatch,
// reads as ErrInvalidToken.
func (s *Service) Decode(raw string, want Purpose) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" || claims.Purpose != want {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
