package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/contacthub/contacthub/internal/domain"
)

const dateFormat = "2006-01-02"

type contactsRepo struct {
	q querier
}

const contactColumns = `id, owner_id, name, surname, email, phone, birthday, info, created_at, updated_at`

func (r *contactsRepo) Create(ctx context.Context, c domain.Contact) error {
	now := time.Now().UTC().Format(timeFormat)
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO contacts (id, owner_id, name, surname, email, phone, birthday, info, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Name, c.Surname, c.Email, c.Phone,
		c.Birthday.Format(dateFormat), c.Info, now, now,
	)
	return mapErr(err)
}

func (r *contactsRepo) GetByID(ctx context.Context, ownerID, id string) (domain.Contact, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ? AND owner_id = ?`, id, ownerID)
	return scanContact(row)
}

func (r *contactsRepo) ListByOwner(ctx context.Context, ownerID, query string) ([]domain.Contact, error) {
	sqlQuery := `SELECT ` + contactColumns + ` FROM contacts WHERE owner_id = ?`
	args := []any{ownerID}
	if query != "" {
		sqlQuery += ` AND (name LIKE ? COLLATE NOCASE OR surname LIKE ? COLLATE NOCASE OR email LIKE ? COLLATE NOCASE)`
		like := "%" + query + "%"
		args = append(args, like, like, like)
	}
	sqlQuery += ` ORDER BY id`

	rows, err := r.q.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

func (r *contactsRepo) Update(ctx context.Context, c domain.Contact) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE contacts SET name = ?, surname = ?, email = ?, phone = ?, birthday = ?, info = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		c.Name, c.Surname, c.Email, c.Phone, c.Birthday.Format(dateFormat), c.Info,
		time.Now().UTC().Format(timeFormat), c.ID, c.OwnerID,
	)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func (r *contactsRepo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM contacts WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

// UpcomingBirthdays matches on the next occurrence of each contact's
// birthday, so a late-December window correctly picks up early-January
// birthdays.
func (r *contactsRepo) UpcomingBirthdays(ctx context.Context, ownerID string, from time.Time) ([]domain.Contact, error) {
	all, err := r.ListByOwner(ctx, ownerID, "")
	if err != nil {
		return nil, err
	}

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	var out []domain.Contact
	for _, c := range all {
		next := time.Date(start.Year(), c.Birthday.Month(), c.Birthday.Day(), 0, 0, 0, 0, time.UTC)
		if next.Before(start) {
			next = next.AddDate(1, 0, 0)
		}
		if !next.Before(start) && next.Before(end) {
			out = append(out, c)
		}
	}
	return out, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapErr(sql.ErrNoRows)
	}
	return nil
}

func scanContact(row *sql.Row) (domain.Contact, error) {
	var (
		c         domain.Contact
		birthday  string
		createdAt string
		updatedAt string
	)
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Surname, &c.Email, &c.Phone,
		&birthday, &c.Info, &createdAt, &updatedAt)
	if err != nil {
		return domain.Contact{}, mapErr(err)
	}
	fillContactTimes(&c, birthday, createdAt, updatedAt)
	return c, nil
}

func collectContacts(rows *sql.Rows) ([]domain.Contact, error) {
	var out []domain.Contact
	for rows.Next() {
		var (
			c         domain.Contact
			birthday  string
			createdAt string
			updatedAt string
		)
		err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Surname, &c.Email, &c.Phone,
			&birthday, &c.Info, &createdAt, &updatedAt)
		if err != nil {
			return nil, mapErr(err)
		}
		fillContactTimes(&c, birthday, createdAt, updatedAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

func fillContactTimes(c *domain.Contact, birthday, createdAt, updatedAt string) {
	c.Birthday, _ = time.Parse(dateFormat, birthday)
	c.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	c.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
}
