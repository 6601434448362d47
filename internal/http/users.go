package http

import (
	"net/http"

	"github.com/contacthub/contacthub/internal/service"
	"github.com/contacthub/contacthub/pkg/httpx"
	"github.com/contacthub/contacthub/pkg/slogx"
)

// maxAvatarSize bounds avatar uploads to 5 MiB.
const maxAvatarSize = 5 << 20

// UsersHandler serves the authenticated user's profile.
type UsersHandler struct {
	Avatars *service.AvatarService
}

// HandleMe returns the current user.
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		ErrNotAuthenticated.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleUpdateAvatar replaces the current user's avatar from a multipart
// "file" field. Admin-only, enforced by the route middleware.
func (h *UsersHandler) HandleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		ErrNotAuthenticated.WriteError(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		ErrMalformedBody.WriteError(w)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		ErrMalformedBody.WriteError(w)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	updated, err := h.Avatars.Update(r.Context(), user, file, contentType)
	if err != nil {
		slogx.FromContext(r.Context()).Error("avatar update failed",
			"user_id", user.ID,
			"err", err,
		)
		ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(updated))
}
