package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Upsert(ctx context.Context, user User) (User, error)
	GetByUid(ctx context.Context, uid string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, uid string) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const userColumns = `uid, email, display_name, photo_url, timezone, week_first_day`

// Upsert inserts the user on first sign-in and refreshes profile fields on
// subsequent ones. Settings are preserved for existing users.
func (r *RepoImpl) Upsert(ctx context.Context, user User) (User, error) {
	existing, err := r.GetByUid(ctx, user.Uid)
	if err != nil && !errors.Is(err, ErrNoUser) {
		return User{}, err
	}
	if errors.Is(err, ErrNoUser) {
		if user.Settings.Timezone == "" {
			user.Settings.Timezone = "UTC"
		}
		if user.Settings.WeekFirstDay == 0 {
			user.Settings.WeekFirstDay = time.Monday
		}
		query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
		_, err := r.db.ExecContext(ctx, query,
			user.Uid, user.Email, user.DisplayName, user.PhotoUrl,
			user.Settings.Timezone, int(user.Settings.WeekFirstDay))
		if err != nil {
			log.Errorf("failed to create user: %v", err)
			return User{}, fmt.Errorf("could not create user: %w", err)
		}
		return user, nil
	}

	existing.Email = user.Email
	existing.DisplayName = user.DisplayName
	existing.PhotoUrl = user.PhotoUrl
	return r.Update(ctx, existing)
}

func (r *RepoImpl) GetByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, uid))
}

func (r *RepoImpl) GetByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *RepoImpl) scanOne(row *sql.Row) (User, error) {
	var u User
	var weekFirstDay int
	err := row.Scan(&u.Uid, &u.Email, &u.DisplayName, &u.PhotoUrl, &u.Settings.Timezone, &weekFirstDay)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNoUser
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, fmt.Errorf("could not get user: %w", err)
	}
	u.Settings.WeekFirstDay = time.Weekday(weekFirstDay)
	return u, nil
}

func (r *RepoImpl) GetAll(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY display_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Errorf("failed to list users: %v", err)
		return nil, fmt.Errorf("could not list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var weekFirstDay int
		if err := rows.Scan(&u.Uid, &u.Email, &u.DisplayName, &u.PhotoUrl, &u.Settings.Timezone, &weekFirstDay); err != nil {
			return nil, fmt.Errorf("could not scan user row: %w", err)
		}
		u.Settings.WeekFirstDay = time.Weekday(weekFirstDay)
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *RepoImpl) Update(ctx context.Context, user User) (User, error) {
	query := `UPDATE users SET email = $1, display_name = $2, photo_url = $3, timezone = $4, week_first_day = $5
				WHERE uid = $6`
	res, err := r.db.ExecContext(ctx, query,
		user.Email, user.DisplayName, user.PhotoUrl,
		user.Settings.Timezone, int(user.Settings.WeekFirstDay), user.Uid)
	if err != nil {
		log.Errorf("failed to update user: %v", err)
		return User{}, fmt.Errorf("could not update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if affected == 0 {
		return User{}, ErrNoUser
	}
	return user, nil
}

func (r *RepoImpl) Delete(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		log.Errorf("failed to delete user: %v", err)
		return fmt.Errorf("could not delete user: %w", err)
	}
	return nil
}
