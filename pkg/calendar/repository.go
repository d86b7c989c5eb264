package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrCalendarNotFound = errors.New("calendar not found")

type Repository interface {
	Store(ctx context.Context, cal Calendar) error
	GetByID(ctx context.Context, id string) (Calendar, error)
	ListOwned(ctx context.Context, ownerUid string) ([]Calendar, error)
	Update(ctx context.Context, cal Calendar) error
	Delete(ctx context.Context, id string) error

	StoreShare(ctx context.Context, share Share) error
	GetShare(ctx context.Context, calendarId, userUid string) (Share, error)
	UpdateShare(ctx context.Context, share Share) error
	DeleteShare(ctx context.Context, calendarId, userUid string) error
	ListSharedWith(ctx context.Context, userUid string) ([]Share, error)
	ListShares(ctx context.Context, calendarId string) ([]Share, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, cal Calendar) error {
	query := `INSERT INTO calendars (id, owner_uid, name, prioritized, visible) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, cal.ID, cal.OwnerUid, cal.Name, cal.Prioritized, cal.Visible)
	if err != nil {
		err := fmt.Errorf("could not store calendar: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id string) (Calendar, error) {
	query := `SELECT id, owner_uid, name, prioritized, visible FROM calendars WHERE id = $1`
	var cal Calendar
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&cal.ID, &cal.OwnerUid, &cal.Name, &cal.Prioritized, &cal.Visible)
	if errors.Is(err, sql.ErrNoRows) {
		return Calendar{}, ErrCalendarNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get calendar: %w", err)
		log.Error(err)
		return Calendar{}, err
	}
	return cal, nil
}

func (r *RepositoryImpl) ListOwned(ctx context.Context, ownerUid string) ([]Calendar, error) {
	query := `SELECT id, owner_uid, name, prioritized, visible FROM calendars WHERE owner_uid = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, ownerUid)
	if err != nil {
		err := fmt.Errorf("could not list calendars: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	calendars := make([]Calendar, 0, 4)
	for rows.Next() {
		var cal Calendar
		if err := rows.Scan(&cal.ID, &cal.OwnerUid, &cal.Name, &cal.Prioritized, &cal.Visible); err != nil {
			return nil, fmt.Errorf("could not scan calendar row: %w", err)
		}
		calendars = append(calendars, cal)
	}
	return calendars, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, cal Calendar) error {
	query := `UPDATE calendars SET name = $1, prioritized = $2, visible = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, cal.Name, cal.Prioritized, cal.Visible, cal.ID)
	if err != nil {
		err := fmt.Errorf("could not update calendar: %w", err)
		log.Error(err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCalendarNotFound
	}
	return nil
}

// Delete removes the calendar row; events, labels, shares, and invitations
// go with it through foreign key cascades.
func (r *RepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM calendars WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete calendar: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) StoreShare(ctx context.Context, share Share) error {
	query := `INSERT INTO calendar_shares (calendar_id, user_uid, role, visible) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, share.CalendarID, share.UserUid, string(share.Role), share.Visible)
	if err != nil {
		err := fmt.Errorf("could not store calendar share: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetShare(ctx context.Context, calendarId, userUid string) (Share, error) {
	query := `SELECT calendar_id, user_uid, role, visible FROM calendar_shares WHERE calendar_id = $1 AND user_uid = $2`
	var share Share
	var role string
	err := r.db.QueryRowContext(ctx, query, calendarId, userUid).
		Scan(&share.CalendarID, &share.UserUid, &role, &share.Visible)
	if errors.Is(err, sql.ErrNoRows) {
		return Share{}, ErrCalendarNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get calendar share: %w", err)
		log.Error(err)
		return Share{}, err
	}
	share.Role = Role(role)
	return share, nil
}

func (r *RepositoryImpl) UpdateShare(ctx context.Context, share Share) error {
	query := `UPDATE calendar_shares SET role = $1, visible = $2 WHERE calendar_id = $3 AND user_uid = $4`
	res, err := r.db.ExecContext(ctx, query, string(share.Role), share.Visible, share.CalendarID, share.UserUid)
	if err != nil {
		err := fmt.Errorf("could not update calendar share: %w", err)
		log.Error(err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCalendarNotFound
	}
	return nil
}

func (r *RepositoryImpl) DeleteShare(ctx context.Context, calendarId, userUid string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM calendar_shares WHERE calendar_id = $1 AND user_uid = $2`, calendarId, userUid)
	if err != nil {
		err := fmt.Errorf("could not delete calendar share: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) ListSharedWith(ctx context.Context, userUid string) ([]Share, error) {
	query := `SELECT calendar_id, user_uid, role, visible FROM calendar_shares WHERE user_uid = $1`
	return r.listShares(ctx, query, userUid)
}

func (r *RepositoryImpl) ListShares(ctx context.Context, calendarId string) ([]Share, error) {
	query := `SELECT calendar_id, user_uid, role, visible FROM calendar_shares WHERE calendar_id = $1`
	return r.listShares(ctx, query, calendarId)
}

func (r *RepositoryImpl) listShares(ctx context.Context, query string, arg any) ([]Share, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		err := fmt.Errorf("could not list calendar shares: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	shares := make([]Share, 0, 4)
	for rows.Next() {
		var share Share
		var role string
		if err := rows.Scan(&share.CalendarID, &share.UserUid, &role, &share.Visible); err != nil {
			return nil, fmt.Errorf("could not scan share row: %w", err)
		}
		share.Role = Role(role)
		shares = append(shares, share)
	}
	return shares, rows.Err()
}
