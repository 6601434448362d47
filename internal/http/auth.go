package http

import (
	"encoding/json"
	"net/http"

	"github.com/contacthub/contacthub/internal/service"
	"github.com/contacthub/contacthub/pkg/httpx"
	"github.com/contacthub/contacthub/pkg/slogx"
)

// AuthHandler serves registration, login and the email token flows.
type AuthHandler struct {
	Accounts *service.AccountService
}

// HandleRegistration creates a new account and queues the confirmation mail.
func (h *AuthHandler) HandleRegistration(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WriteError(w)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		ErrMalformedBody.WriteError(w)
		return
	}

	u, err := h.Accounts.Register(r.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

// HandleLogin exchanges form-encoded credentials for a bearer token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ErrMalformedBody.WriteError(w)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		ErrInvalidCredentials.WriteError(w)
		return
	}

	token, err := h.Accounts.Login(r.Context(), username, password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// HandleConfirmEmail consumes the mailed confirmation token.
func (h *AuthHandler) HandleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	already, err := h.Accounts.ConfirmEmail(r.Context(), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	msg := "Email confirmed"
	if already {
		msg = "Your email is already confirmed"
	}
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// HandleRequestEmail re-sends the confirmation mail. The response never
// reveals whether the address exists.
func (h *AuthHandler) HandleRequestEmail(w http.ResponseWriter, r *http.Request) {
	var req requestEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		ErrMalformedBody.WriteError(w)
		return
	}

	already, err := h.Accounts.RequestEmailConfirmation(r.Context(), req.Email)
	if err != nil {
		slogx.FromContext(r.Context()).Error("request email failed", "err", err)
		ErrServerError.WriteError(w)
		return
	}

	msg := "Check your email for confirmation"
	if already {
		msg = "Your email is already confirmed"
	}
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// HandleForgotPassword stages a password change and mails the reset token.
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WriteError(w)
		return
	}
	if req.UserData == "" || req.OldPassword == "" || req.NewPassword == "" {
		ErrMalformedBody.WriteError(w)
		return
	}

	if err := h.Accounts.ForgotPassword(r.Context(), req.UserData, req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, messageResponse{
		Message: "Check your email to confirm new password",
	})
}

// HandleResetPassword consumes the mailed reset token and promotes the
// staged password.
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.ResetPassword(r.Context(), r.PathValue("token")); err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, messageResponse{
		Message: "Password successfully changed",
	})
}
