package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
)

var _ port.Authenticator = (*RemoteAuth)(nil)

// RemoteAuth performs password sign-in and sign-up against the
// backend users table.
type RemoteAuth struct {
	sqldb sqldb
}

func NewRemoteAuth(sqldb sqldb) RemoteAuth {
	return RemoteAuth{sqldb}
}

func (r RemoteAuth) SignUp(
	ctx context.Context, creds port.Credentials,
) (domain.User, error) {
	const op = "RemoteAuth.SignUp"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := bcrypt.GenerateFromPassword(
		[]byte(creds.Password), bcrypt.DefaultCost,
	)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO users (email, phone, full_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id;`

	var id string
	err = r.sqldb.QueryRowContext(ctx, query,
		creds.Email, creds.Phone, creds.FullName, string(hash),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrUserExists)
		}
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.User{
		ID:       id,
		Email:    creds.Email,
		Phone:    creds.Phone,
		FullName: creds.FullName,
	}, nil
}

func (r RemoteAuth) SignIn(
	ctx context.Context, creds port.Credentials,
) (domain.User, error) {
	const op = "RemoteAuth.SignIn"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT id, email, phone, full_name, password_hash
		FROM users
		WHERE email = $1 OR phone = $2;`

	var u domain.User
	var phone, fullName sql.NullString
	var hash string
	err := r.sqldb.QueryRowContext(ctx, query, creds.Email, creds.Phone).
		Scan(&u.ID, &u.Email, &phone, &fullName, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, fmt.Errorf(
				"%s: %w", op, domain.ErrInvalidCredentials,
			)
		}
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	u.Phone = phone.String
	u.FullName = fullName.String

	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password))
	if err != nil {
		return domain.User{}, fmt.Errorf(
			"%s: %w", op, domain.ErrInvalidCredentials,
		)
	}
	return u, nil
}

func (r RemoteAuth) SignOut(ctx context.Context) error {
	return ctx.Err()
}

// CurrentUser has no persisted session on the remote side, the
// session lives with the client.
func (r RemoteAuth) CurrentUser(ctx context.Context) (domain.User, error) {
	const op = "RemoteAuth.CurrentUser"
	return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
}
