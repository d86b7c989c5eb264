package sharing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nothowstorygoes/carlocalendar/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

var ErrInvitationNotFound = errors.New("invitation not found")

type Repository interface {
	Store(ctx context.Context, inv Invitation) error
	GetByID(ctx context.Context, id string) (Invitation, error)
	Update(ctx context.Context, inv Invitation) error
	Delete(ctx context.Context, id string) error
	ListByCalendar(ctx context.Context, calendarId string) ([]Invitation, error)
	ListPendingByEmail(ctx context.Context, email string) ([]Invitation, error)
	DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const invitationColumns = `id, calendar_id, owner_uid, target_email, role, status, created_at`

func (r *RepositoryImpl) Store(ctx context.Context, inv Invitation) error {
	query := `INSERT INTO invitations (` + invitationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.CalendarID, inv.OwnerUid, inv.TargetEmail,
		string(inv.Role), string(inv.Status), inv.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		err := fmt.Errorf("could not store invitation: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id string) (Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	inv, err := scanInvitation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Invitation{}, ErrInvitationNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get invitation: %w", err)
		log.Error(err)
		return Invitation{}, err
	}
	return inv, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, inv Invitation) error {
	query := `UPDATE invitations SET status = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, string(inv.Status), inv.ID)
	if err != nil {
		err := fmt.Errorf("could not update invitation: %w", err)
		log.Error(err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete invitation: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) ListByCalendar(ctx context.Context, calendarId string) ([]Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE calendar_id = $1 ORDER BY created_at`
	return r.queryInvitations(ctx, query, calendarId)
}

func (r *RepositoryImpl) ListPendingByEmail(ctx context.Context, email string) ([]Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE target_email = $1 AND status = $2 ORDER BY created_at`
	return r.queryInvitations(ctx, query, email, string(StatusPending))
}

// DeletePendingBefore removes pending invitations created before the cutoff
// and reports how many went.
func (r *RepositoryImpl) DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM invitations WHERE status = $1 AND created_at < $2`,
		string(StatusPending), cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		err := fmt.Errorf("could not purge invitations: %w", err)
		log.Error(err)
		return 0, err
	}
	return res.RowsAffected()
}

func (r *RepositoryImpl) queryInvitations(ctx context.Context, query string, args ...any) ([]Invitation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not list invitations: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	invitations := make([]Invitation, 0, 4)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan invitation row: %w", err)
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(scanner rowScanner) (Invitation, error) {
	var inv Invitation
	var role, status, createdAt string
	err := scanner.Scan(&inv.ID, &inv.CalendarID, &inv.OwnerUid, &inv.TargetEmail, &role, &status, &createdAt)
	if err != nil {
		return Invitation{}, err
	}
	inv.Role = calendar.Role(role)
	inv.Status = Status(status)
	inv.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Invitation{}, fmt.Errorf("invalid stored invitation timestamp %q: %w", createdAt, err)
	}
	return inv, nil
}
