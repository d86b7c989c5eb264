package label

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrLabelNotFound = errors.New("label not found")

type Repository interface {
	Store(ctx context.Context, label Label) error
	GetByID(ctx context.Context, id string) (Label, error)
	List(ctx context.Context, calendarId string) ([]Label, error)
	Update(ctx context.Context, label Label) error
	Delete(ctx context.Context, id string) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, label Label) error {
	query := `INSERT INTO labels (id, calendar_id, name, code, color, visible) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		label.ID, label.CalendarID, label.Name, label.Code, label.Color, label.Visible)
	if err != nil {
		err := fmt.Errorf("could not store label: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id string) (Label, error) {
	query := `SELECT id, calendar_id, name, code, color, visible FROM labels WHERE id = $1`
	var label Label
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&label.ID, &label.CalendarID, &label.Name, &label.Code, &label.Color, &label.Visible)
	if errors.Is(err, sql.ErrNoRows) {
		return Label{}, ErrLabelNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get label: %w", err)
		log.Error(err)
		return Label{}, err
	}
	return label, nil
}

func (r *RepositoryImpl) List(ctx context.Context, calendarId string) ([]Label, error) {
	query := `SELECT id, calendar_id, name, code, color, visible FROM labels WHERE calendar_id = $1 ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query, calendarId)
	if err != nil {
		err := fmt.Errorf("could not list labels: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	labels := make([]Label, 0, 8)
	for rows.Next() {
		var label Label
		if err := rows.Scan(&label.ID, &label.CalendarID, &label.Name, &label.Code, &label.Color, &label.Visible); err != nil {
			return nil, fmt.Errorf("could not scan label row: %w", err)
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, label Label) error {
	query := `UPDATE labels SET name = $1, code = $2, color = $3, visible = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, label.Name, label.Code, label.Color, label.Visible, label.ID)
	if err != nil {
		err := fmt.Errorf("could not update label: %w", err)
		log.Error(err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLabelNotFound
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM labels WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete label: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
