// Package service holds the application logic between the HTTP layer and the
// store: account lifecycle, bearer identity resolution and contact
// management.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/mail"
	"github.com/contacthub/contacthub/internal/store"
	"github.com/contacthub/contacthub/pkg/idx"
	"github.com/contacthub/contacthub/pkg/passwords"
	"github.com/contacthub/contacthub/pkg/slogx"
	"github.com/contacthub/contacthub/pkg/tokens"
)

var (
	ErrEmailTaken     = errors.New("email_taken")
	ErrUsernameTaken  = errors.New("username_taken")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadToken       = errors.New("bad_token")
	ErrNotFound       = errors.New("not_found")
	ErrBadCredentials = errors.New("bad_credentials")
	ErrSamePassword   = errors.New("same_password")
)

// Mailer queues a message for background delivery. Satisfied by
// *mail.Dispatcher.
type Mailer interface {
	Dispatch(ctx context.Context, msg mail.Message)
}

// AccountService implements registration, login and the two email token
// flows (confirmation and password reset).
type AccountService struct {
	Store  store.Store
	Tokens *tokens.Service
	Mail   Mailer

	// BaseURL is the public origin embedded in mail links,
	// e.g. "http://localhost:8080/". Must end with a slash.
	BaseURL string
}

// Register creates an unverified account and queues the confirmation mail.
// Duplicate emails and usernames are reported separately so the API can keep
// the original contract of a 409 on email reuse.
func (s *AccountService) Register(ctx context.Context, username, email, password, role string) (domain.User, error) {
	hash, err := passwords.Hash(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Verified:     false,
		Role:         domain.ParseRole(role),
	}

	if err := s.Store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			if _, lookupErr := s.Store.Users().GetByEmail(ctx, email); lookupErr == nil {
				return domain.User{}, ErrEmailTaken
			}
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	created, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}

	s.sendConfirmation(ctx, created)
	return created, nil
}

// Login verifies the credentials and mints a session token. Missing user,
// unverified email and password mismatch all collapse into ErrUnauthorized.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.Store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}

	if !u.Verified || !passwords.Verify(password, u.PasswordHash) {
		return "", ErrUnauthorized
	}

	return s.Tokens.IssueSession(u.Username)
}

// ConfirmEmail consumes a verify_email token. Returns true when the account
// was already verified, so the handler can report the no-op distinctly.
func (s *AccountService) ConfirmEmail(ctx context.Context, token string) (alreadyVerified bool, err error) {
	email, err := s.Tokens.Decode(token, tokens.PurposeVerifyEmail)
	if err != nil {
		return false, ErrBadToken
	}

	u, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrBadToken
		}
		return false, err
	}

	if u.Verified {
		return true, nil
	}

	if err := s.Store.Users().SetVerified(ctx, email); err != nil {
		return false, err
	}
	return false, nil
}

// RequestEmailConfirmation re-sends the confirmation mail. An unknown email
// reads the same as a successful send so addresses cannot be enumerated.
// Returns true when the account is already verified.
func (s *AccountService) RequestEmailConfirmation(ctx context.Context, email string) (alreadyVerified bool, err error) {
	u, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if u.Verified {
		return true, nil
	}

	s.sendConfirmation(ctx, u)
	return false, nil
}

// ForgotPassword stages a password change. The identifier is tried as an
// email first, then as a username. The new hash is parked in temp_password
// and only promoted when the mailed reset token is consumed.
func (s *AccountService) ForgotPassword(ctx context.Context, identifier, oldPassword, newPassword string) error {
	u, err := s.Store.Users().GetByEmail(ctx, identifier)
	if errors.Is(err, store.ErrNotFound) {
		u, err = s.Store.Users().GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !passwords.Verify(oldPassword, u.PasswordHash) {
		return ErrBadCredentials
	}
	if passwords.Verify(newPassword, u.PasswordHash) {
		return ErrSamePassword
	}

	hash, err := passwords.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.Users().SetTempPassword(ctx, u.Email, &hash); err != nil {
		return err
	}

	token, err := s.Tokens.IssuePurpose(u.Email, tokens.PurposeResetPassword)
	if err != nil {
		return err
	}
	s.Mail.Dispatch(ctx, mail.Message{
		To:       u.Email,
		Template: mail.TemplateResetPassword,
		Data:     mail.TemplateData{Host: s.BaseURL, Username: u.Username, Token: token},
	})

	return nil
}

// ResetPassword consumes a reset_password token, promoting the staged
// temp_password into the active hash and clearing it in one transaction. A
// token without a staged reset (already consumed, or never requested) reads
// as ErrBadToken.
func (s *AccountService) ResetPassword(ctx context.Context, token string) error {
	email, err := s.Tokens.Decode(token, tokens.PurposeResetPassword)
	if err != nil {
		return ErrBadToken
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrBadToken
			}
			return err
		}
		if u.TempPasswordHash == nil {
			return ErrBadToken
		}

		if err := tx.Users().UpdatePassword(ctx, email, *u.TempPasswordHash); err != nil {
			return err
		}
		return tx.Users().SetTempPassword(ctx, email, nil)
	})
}

func (s *AccountService) sendConfirmation(ctx context.Context, u domain.User) {
	token, err := s.Tokens.IssuePurpose(u.Email, tokens.PurposeVerifyEmail)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to sign confirmation token",
			slog.Any("error", err),
		)
		return
	}

	s.Mail.Dispatch(ctx, mail.Message{
		To:       u.Email,
		Template: mail.TemplateVerifyEmail,
		Data:     mail.TemplateData{Host: s.BaseURL, Username: u.Username, Token: token},
	})
}
