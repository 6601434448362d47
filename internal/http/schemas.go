package http

import (
	"time"

	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/service"
)

const dateFormat = "2006-01-02"

type registrationRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type requestEmailRequest struct {
	Email string `json:"email"`
}

type forgotPasswordRequest struct {
	// UserData is the account email or, as a fallback, the username.
	UserData    string `json:"user_data"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// userResponse is the public view of a user. The password hash never leaves
// the service.
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Verified  bool      `json:"is_verified"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Verified:  u.Verified,
		Role:      string(u.Role),
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

type contactRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Birthday string `json:"birthday"` // YYYY-MM-DD
	Info     string `json:"info"`
}

func (r contactRequest) toInput() (service.ContactInput, error) {
	birthday, err := time.Parse(dateFormat, r.Birthday)
	if err != nil {
		return service.ContactInput{}, err
	}
	return service.ContactInput{
		Name:     r.Name,
		Surname:  r.Surname,
		Email:    r.Email,
		Phone:    r.Phone,
		Birthday: birthday,
		Info:     r.Info,
	}, nil
}

type contactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Birthday  string    `json:"birthday"`
	Info      string    `json:"info"`
	CreatedAt time.Time `json:"created_at"`
}

func toContactResponse(c domain.Contact) contactResponse {
	return contactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Surname:   c.Surname,
		Email:     c.Email,
		Phone:     c.Phone,
		Birthday:  c.Birthday.Format(dateFormat),
		Info:      c.Info,
		CreatedAt: c.CreatedAt,
	}
}

func toContactResponses(cs []domain.Contact) []contactResponse {
	out := make([]contactResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toContactResponse(c))
	}
	return out
}
