package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

const userEmailConstraint = "user_email_key"

type dbUser struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Email           string    `db:"email"`
	Role            string    `db:"role"`
	ThemePreference string    `db:"theme_preference"`
	ProfilePhoto    string    `db:"profile_photo"`
	PasswordHash    []byte    `db:"password_hash"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (u dbUser) toDomain() user.User {
	return user.User{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		ThemePreference: u.ThemePreference,
		ProfilePhoto:    u.ProfilePhoto,
		PasswordHash:    u.PasswordHash,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	query := `SELECT EXISTS (SELECT 1 FROM "user" WHERE email = ?)`
	args := []interface{}{email}

	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		var err error
		query, args, err = sqlx.In(`SELECT EXISTS (SELECT 1 FROM "user" WHERE email = ? AND id NOT IN (?))`, email, ids)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
	}

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	query := `
		INSERT INTO "user" (id, name, email, role, theme_preference, profile_photo, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, query,
		usr.ID, usr.Name, usr.Email, usr.Role, usr.ThemePreference, usr.ProfilePhoto,
		usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(errors.Cause(err), userEmailConstraint) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var u dbUser
	if err := repo.db.GetContext(ctx, &u, `SELECT * FROM "user" WHERE id = $1`, id); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by id")
	}
	return u.toDomain(), nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var u dbUser
	if err := repo.db.GetContext(ctx, &u, `SELECT * FROM "user" WHERE email = $1`, email); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by email")
	}
	return u.toDomain(), nil
}

func (repo userRepository) FilterUsersByRole(ctx context.Context, role string) ([]user.User, error) {
	var dbUsers []dbUser
	query := `SELECT * FROM "user" WHERE role = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &dbUsers, query, role); err != nil {
		return nil, errors.Wrap(err, "filtering users by role")
	}

	users := make([]user.User, 0, len(dbUsers))
	for _, u := range dbUsers {
		users = append(users, u.toDomain())
	}
	return users, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	query := `
		UPDATE "user"
		SET name = $2, theme_preference = $3, profile_photo = $4, updated_at = $5
		WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query,
		usr.ID, usr.Name, usr.ThemePreference, usr.ProfilePhoto, usr.UpdatedAt,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, usr.ID)
}

func (repo userRepository) SetUserPassword(ctx context.Context, id string, hash []byte) error {
	res, err := repo.db.ExecContext(ctx, `UPDATE "user" SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return errors.Wrap(err, "setting user password")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}
	return nil
}
