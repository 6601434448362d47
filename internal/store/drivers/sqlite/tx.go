package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/contacthub/contacthub/internal/store"
)

// storeTx adapts an open *sql.Tx to the store.Tx interface. Nested
// transactions are rejected rather than silently flattened.
type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) Users() store.Users       { return &usersRepo{q: t.tx} }
func (t *storeTx) Contacts() store.Contacts { return &contactsRepo{q: t.tx} }

func (t *storeTx) Commit() error   { return t.tx.Commit() }
func (t *storeTx) Rollback() error { return t.tx.Rollback() }

func (t *storeTx) ApplyMigrations() error {
	return errors.New("sqlite: migrations cannot run inside a transaction")
}

func (t *storeTx) Tx(ctx context.Context) (store.Tx, error) {
	return nil, errors.New("sqlite: nested transactions are not supported")
}

func (t *storeTx) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return errors.New("sqlite: nested transactions are not supported")
}

func (t *storeTx) Close() error { return nil }

func (t *storeTx) Ping(ctx context.Context) error { return nil }
