package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newContacts(t *testing.T) *ContactService {
	t.Helper()
	return &ContactService{Store: newTestStore(t)}
}

func birthday(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestContactCRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newContacts(t)
	owner := seedUser(t, svc.Store, "alice", "alice@example.com")

	c, err := svc.Create(ctx, owner.ID, ContactInput{
		Name:     "Bob",
		Surname:  "Jones",
		Email:    "bob@example.com",
		Phone:    "+61 400 000 000",
		Birthday: birthday(1990, 6, 15),
		Info:     "met at gophercon",
	})
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	require.Equal(t, owner.ID, c.OwnerID)

	t.Run("get round-trips", func(t *testing.T) {
		got, err := svc.Get(ctx, owner.ID, c.ID)
		require.NoError(t, err)
		require.Equal(t, "Bob", got.Name)
		require.Equal(t, birthday(1990, 6, 15), got.Birthday)
	})

	t.Run("update replaces the editable fields", func(t *testing.T) {
		got, err := svc.Update(ctx, owner.ID, c.ID, ContactInput{
			Name:     "Robert",
			Surname:  "Jones",
			Email:    "rob@example.com",
			Phone:    "+61 400 000 001",
			Birthday: birthday(1990, 6, 16),
		})
		require.NoError(t, err)
		require.Equal(t, "Robert", got.Name)
		require.Empty(t, got.Info)
	})

	t.Run("delete removes it", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, owner.ID, c.ID))

		_, err := svc.Get(ctx, owner.ID, c.ID)
		require.ErrorIs(t, err, ErrNotFound)

		require.ErrorIs(t, svc.Delete(ctx, owner.ID, c.ID), ErrNotFound)
	})
}

func TestContactOwnerScoping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newContacts(t)
	alice := seedUser(t, svc.Store, "alice", "alice@example.com")
	mallory := seedUser(t, svc.Store, "mallory", "mallory@example.com")

	c, err := svc.Create(ctx, alice.ID, ContactInput{Name: "Bob", Birthday: birthday(1990, 1, 1)})
	require.NoError(t, err)

	_, err = svc.Get(ctx, mallory.ID, c.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, mallory.ID, c.ID, ContactInput{Name: "Stolen"})
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, svc.Delete(ctx, mallory.ID, c.ID), ErrNotFound)

	list, err := svc.List(ctx, mallory.ID, "")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestContactList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newContacts(t)
	owner := seedUser(t, svc.Store, "alice", "alice@example.com")

	for _, in := range []ContactInput{
		{Name: "Bob", Surname: "Jones", Email: "bob@example.com", Birthday: birthday(1990, 1, 1)},
		{Name: "Carol", Surname: "Smith", Email: "carol@example.com", Birthday: birthday(1991, 2, 2)},
		{Name: "Dave", Surname: "Bobbin", Email: "dave@example.com", Birthday: birthday(1992, 3, 3)},
	} {
		_, err := svc.Create(ctx, owner.ID, in)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, owner.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Substring match is case-insensitive and spans name, surname and email.
	matched, err := svc.List(ctx, owner.ID, "bob")
	require.NoError(t, err)
	require.Len(t, matched, 2)
}

func TestUpcomingBirthdays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newContacts(t)
	owner := seedUser(t, svc.Store, "alice", "alice@example.com")

	today := time.Now().UTC()
	soon := today.AddDate(0, 0, 3)
	far := today.AddDate(0, 0, 30)

	_, err := svc.Create(ctx, owner.ID, ContactInput{
		Name:     "Soon",
		Birthday: birthday(1990, int(soon.Month()), soon.Day()),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, owner.ID, ContactInput{
		Name:     "Far",
		Birthday: birthday(1985, int(far.Month()), far.Day()),
	})
	require.NoError(t, err)

	got, err := svc.UpcomingBirthdays(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Soon", got[0].Name)
}
