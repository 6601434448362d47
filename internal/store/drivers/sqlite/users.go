package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/contacthub/contacthub/internal/domain"
)

const timeFormat = time.RFC3339

type usersRepo struct {
	q querier
}

const userColumns = `id, username, email, password_hash, verified, role, avatar_url, temp_password_hash, created_at, updated_at`

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	now := time.Now().UTC().Format(timeFormat)
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, verified, role, avatar_url, temp_password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, boolToInt(u.Verified),
		string(u.Role), u.AvatarURL, nullString(u.TempPasswordHash), now, now,
	)
	return mapErr(err)
}

func (r *usersRepo) SetVerified(ctx context.Context, email string) error {
	return r.exec(ctx,
		`UPDATE users SET verified = 1, updated_at = ? WHERE email = ?`,
		time.Now().UTC().Format(timeFormat), email)
}

func (r *usersRepo) SetTempPassword(ctx context.Context, email string, hash *string) error {
	return r.exec(ctx,
		`UPDATE users SET temp_password_hash = ?, updated_at = ? WHERE email = ?`,
		nullString(hash), time.Now().UTC().Format(timeFormat), email)
}

func (r *usersRepo) UpdatePassword(ctx context.Context, email string, hash string) error {
	return r.exec(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE email = ?`,
		hash, time.Now().UTC().Format(timeFormat), email)
}

func (r *usersRepo) UpdateAvatarURL(ctx context.Context, email string, url string) error {
	return r.exec(ctx,
		`UPDATE users SET avatar_url = ?, updated_at = ? WHERE email = ?`,
		url, time.Now().UTC().Format(timeFormat), email)
}

// exec runs an UPDATE that must touch exactly one row; zero rows means the
// user does not exist.
func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapErr(sql.ErrNoRows)
	}
	return nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		verified  int
		role      string
		temp      sql.NullString
		createdAt string
		updatedAt string
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &verified,
		&role, &u.AvatarURL, &temp, &createdAt, &updatedAt)
	if err != nil {
		return domain.User{}, mapErr(err)
	}

	u.Verified = verified != 0
	u.Role = domain.Role(role)
	if temp.Valid {
		u.TempPasswordHash = &temp.String
	}
	u.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	u.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
	return u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
