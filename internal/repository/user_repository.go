package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"attendance/internal/entity"
)

var ErrNotFound = errors.New("not found")

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// GetByUsernameAndRole finds the user a login form refers to.
func (r *UserRepository) GetByUsernameAndRole(ctx context.Context, username string, role entity.Role) (entity.User, error) {
	var u entity.User
	err := r.db.GetContext(ctx, &u, `
		SELECT id, username, name, role
		FROM users
		WHERE username = $1 AND role = $2
		LIMIT 1
	`, username, role)
	if err != nil {
		return entity.User{}, errors.Wrapf(notFound(err), "user %q (%s)", username, role)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (entity.User, error) {
	var u entity.User
	err := r.db.GetContext(ctx, &u, `SELECT id, username, name, role FROM users WHERE id = $1`, id)
	if err != nil {
		return entity.User{}, errors.Wrapf(notFound(err), "user %d", id)
	}
	return u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (entity.User, error) {
	var u entity.User
	err := r.db.GetContext(ctx, &u, `SELECT id, username, name, role FROM users WHERE username = $1`, username)
	if err != nil {
		return entity.User{}, errors.Wrapf(notFound(err), "user %q", username)
	}
	return u, nil
}

// GetCredentials returns the stored hash of the user, or ErrNotFound when none was set.
func (r *UserRepository) GetCredentials(ctx context.Context, userID int) (entity.AuthCredentials, error) {
	var c entity.AuthCredentials
	err := r.db.GetContext(ctx, &c, `
		SELECT id, user_id, password_hash
		FROM auth_credentials
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return entity.AuthCredentials{}, errors.Wrapf(notFound(err), "credentials of user %d", userID)
	}
	return c, nil
}

// Create inserts u. A non-zero u.ID is kept as is and the id sequence is moved past it.
func (r *UserRepository) Create(ctx context.Context, u entity.User) (entity.User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return entity.User{}, errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	if u.ID == 0 {
		err = tx.GetContext(ctx, &u.ID, `
			INSERT INTO users (username, name, role) VALUES ($1, $2, $3) RETURNING id
		`, u.Username, u.Name, u.Role)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (id, username, name, role) VALUES ($1, $2, $3, $4)
		`, u.ID, u.Username, u.Name, u.Role)
		if err == nil {
			_, err = tx.ExecContext(ctx, `
				SELECT setval(pg_get_serial_sequence('users', 'id'), (SELECT MAX(id) FROM users))
			`)
		}
	}
	if err != nil {
		return entity.User{}, errors.Wrapf(err, "create user %q", u.Username)
	}

	if err := tx.Commit(); err != nil {
		return entity.User{}, errors.Wrap(err, "commit")
	}
	return u, nil
}

// Update changes the display name and role of an existing user.
func (r *UserRepository) Update(ctx context.Context, u entity.User) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET name = $1, role = $2 WHERE id = $3`, u.Name, u.Role, u.ID)
	if err != nil {
		return errors.Wrapf(err, "update user %d", u.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(ErrNotFound, "user %d", u.ID)
	}
	return nil
}

// CreateCredentials stores the first hash of a user. It fails if the user already has one.
func (r *UserRepository) CreateCredentials(ctx context.Context, userID int, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auth_credentials (user_id, password_hash) VALUES ($1, $2)
	`, userID, passwordHash)
	return errors.Wrapf(err, "create credentials of user %d", userID)
}

// SetPassword stores passwordHash, replacing any previous one.
func (r *UserRepository) SetPassword(ctx context.Context, userID int, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auth_credentials (user_id, password_hash) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET password_hash = EXCLUDED.password_hash
	`, userID, passwordHash)
	return errors.Wrapf(err, "set password of user %d", userID)
}
