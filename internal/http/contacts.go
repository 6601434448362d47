package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/contacthub/contacthub/internal/service"
	"github.com/contacthub/contacthub/pkg/httpx"
)

// ContactsHandler serves the authenticated user's address book. Every
// operation is scoped to the owner taken from the request context.
type ContactsHandler struct {
	Contacts *service.ContactService
}

func (h *ContactsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		ErrNotAuthenticated.WriteError(w)
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WriteError(w)
		return
	}
	in, err := req.toInput()
	if err != nil || req.Name == "" {
		ErrMalformedBody.WriteError(w)
		return
	}

	c, err := h.Contacts.Create(r.Context(), user.ID, in)
	if err != nil {
		ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toContactResponse(c))
}

func (h *ContactsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		ErrNotAuthenticated.WriteError(w)
		return
	}

	list, err := h.Contacts.List(r.Context(), user.ID, r.URL.Query().Get("q"))
	if err != nil {
		ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toContactResponses(list))
}

func (h *ContactsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		ErrNotAuthenticated.WriteError(w)
		return
	}

	c, err := h.Contacts.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeContactError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toContactResponse(c))
}

func (h *ContactsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		ErrNotAuthenticated.WriteError(w)
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WriteError(w)
		return
	}
	in, err := req.toInput()
	if err != nil {
		ErrMalformedBody.WriteError(w)
		return
	}

	c, err := h.Contacts.Update(r.Context(), user.ID, r.PathValue("id"), in)
	if err != nil {
		writeContactError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toContactResponse(c))
}

func (h *ContactsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		ErrNotAuthenticated.WriteError(w)
		return
	}

	if err := h.Contacts.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeContactError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleBirthdays lists contacts with a birthday in the next seven days.
func (h *ContactsHandler) HandleBirthdays(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		ErrNotAuthenticated.WriteError(w)
		return
	}

	list, err := h.Contacts.UpcomingBirthdays(r.Context(), user.ID)
	if err != nil {
		ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toContactResponses(list))
}

func writeContactError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotFound) {
		ErrContactNotFound.WriteError(w)
		return
	}
	ErrServerError.WriteError(w)
}
