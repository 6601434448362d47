package service

import (
	"context"
	"io"

	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/media"
	"github.com/contacthub/contacthub/internal/store"
)

// AvatarService stores a new profile image and records its URL.
type AvatarService struct {
	Store    store.Store
	Uploader media.Uploader
}

// Update uploads the image keyed by the user's id, so re-uploads replace the
// previous avatar, then persists the returned URL.
func (s *AvatarService) Update(ctx context.Context, u domain.User, file io.Reader, contentType string) (domain.User, error) {
	url, err := s.Uploader.Upload(ctx, file, u.ID, contentType)
	if err != nil {
		return domain.User{}, err
	}

	if err := s.Store.Users().UpdateAvatarURL(ctx, u.Email, url); err != nil {
		return domain.User{}, err
	}
	return s.Store.Users().GetByEmail(ctx, u.Email)
}
