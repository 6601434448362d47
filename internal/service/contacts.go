package service

import (
	"context"
	"errors"
	"time"

	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/store"
	"github.com/contacthub/contacthub/pkg/idx"
)

// ContactInput carries the caller-editable contact fields.
type ContactInput struct {
	Name     string
	Surname  string
	Email    string
	Phone    string
	Birthday time.Time
	Info     string
}

// ContactService manages a user's address book. Every operation is scoped to
// the owner; a contact belonging to someone else reads as ErrNotFound.
type ContactService struct {
	Store store.Store
}

func (s *ContactService) Create(ctx context.Context, ownerID string, in ContactInput) (domain.Contact, error) {
	c := domain.Contact{
		ID:       idx.New().String(),
		OwnerID:  ownerID,
		Name:     in.Name,
		Surname:  in.Surname,
		Email:    in.Email,
		Phone:    in.Phone,
		Birthday: in.Birthday,
		Info:     in.Info,
	}

	if err := s.Store.Contacts().Create(ctx, c); err != nil {
		return domain.Contact{}, err
	}
	return s.Store.Contacts().GetByID(ctx, ownerID, c.ID)
}

func (s *ContactService) Get(ctx context.Context, ownerID, id string) (domain.Contact, error) {
	c, err := s.Store.Contacts().GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Contact{}, ErrNotFound
		}
		return domain.Contact{}, err
	}
	return c, nil
}

// List returns the owner's contacts, optionally filtered by a
// case-insensitive substring over name, surname and email.
func (s *ContactService) List(ctx context.Context, ownerID, query string) ([]domain.Contact, error) {
	return s.Store.Contacts().ListByOwner(ctx, ownerID, query)
}

func (s *ContactService) Update(ctx context.Context, ownerID, id string, in ContactInput) (domain.Contact, error) {
	c, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return domain.Contact{}, err
	}

	c.Name = in.Name
	c.Surname = in.Surname
	c.Email = in.Email
	c.Phone = in.Phone
	c.Birthday = in.Birthday
	c.Info = in.Info

	if err := s.Store.Contacts().Update(ctx, c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Contact{}, ErrNotFound
		}
		return domain.Contact{}, err
	}
	return s.Store.Contacts().GetByID(ctx, ownerID, id)
}

func (s *ContactService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.Store.Contacts().Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// UpcomingBirthdays lists contacts whose birthday falls in the next seven
// days, starting today.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, ownerID string) ([]domain.Contact, error) {
	return s.Store.Contacts().UpcomingBirthdays(ctx, ownerID, time.Now().UTC())
}
