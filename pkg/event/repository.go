package event

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nothowstorygoes/carlocalendar/pkg/recurrence"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("event not found")

const dateLayout = "2006-01-02"

type Repository interface {
	Store(ctx context.Context, e Event) error
	GetByID(ctx context.Context, id string) (Event, error)
	Update(ctx context.Context, e Event) error
	Delete(ctx context.Context, id string) error

	// ListForWindow returns the events of the given calendars that can
	// produce occurrences in [from, to]: every recurring event plus the
	// one-off events whose day falls in the window.
	ListForWindow(ctx context.Context, calendarIds []string, from, to time.Time) ([]Event, error)
	ListByCalendar(ctx context.Context, calendarId string) ([]Event, error)
	DeleteByLabel(ctx context.Context, calendarId, labelName string) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const eventColumns = `id, calendar_id, title, description, day, time_minutes, label, checked, repeat_rule, excluded_dates`

func (r *RepositoryImpl) Store(ctx context.Context, e Event) error {
	row, err := toRow(e)
	if err != nil {
		return err
	}
	query := `INSERT INTO events (` + eventColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.db.ExecContext(ctx, query,
		row.id, row.calendarId, row.title, row.description, row.day,
		row.timeMinutes, row.label, row.checked, row.repeatRule, row.excludedDates)
	if err != nil {
		err := fmt.Errorf("could not store event: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id string) (Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, ErrEventNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get event: %w", err)
		log.Error(err)
		return Event{}, err
	}
	return e, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, e Event) error {
	row, err := toRow(e)
	if err != nil {
		return err
	}
	query := `UPDATE events
		SET title = $1, description = $2, day = $3, time_minutes = $4,
		    label = $5, checked = $6, repeat_rule = $7, excluded_dates = $8
		WHERE id = $9`
	res, err := r.db.ExecContext(ctx, query,
		row.title, row.description, row.day, row.timeMinutes,
		row.label, row.checked, row.repeatRule, row.excludedDates, row.id)
	if err != nil {
		err := fmt.Errorf("could not update event: %w", err)
		log.Error(err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete event: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) ListForWindow(ctx context.Context, calendarIds []string, from, to time.Time) ([]Event, error) {
	if len(calendarIds) == 0 {
		return []Event{}, nil
	}

	placeholders := make([]string, len(calendarIds))
	args := make([]any, 0, len(calendarIds)+2)
	for i, id := range calendarIds {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	args = append(args, from.Format(dateLayout), to.Format(dateLayout))

	query := fmt.Sprintf(`SELECT %s FROM events
		WHERE calendar_id IN (%s)
		AND (repeat_rule IS NOT NULL OR (day >= $%d AND day <= $%d))`,
		eventColumns, strings.Join(placeholders, ", "), len(calendarIds)+1, len(calendarIds)+2)

	return r.queryEvents(ctx, query, args...)
}

func (r *RepositoryImpl) ListByCalendar(ctx context.Context, calendarId string) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE calendar_id = $1 ORDER BY day`
	return r.queryEvents(ctx, query, calendarId)
}

func (r *RepositoryImpl) DeleteByLabel(ctx context.Context, calendarId, labelName string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM events WHERE calendar_id = $1 AND label = $2`, calendarId, labelName)
	if err != nil {
		err := fmt.Errorf("could not delete events by label: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not list events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 16)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan event row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// eventRow is the flat database shape of an Event. The recurrence rule and
// the exclusion list are serialized to JSON text columns.
type eventRow struct {
	id            string
	calendarId    string
	title         string
	description   string
	day           string
	timeMinutes   sql.NullInt64
	label         sql.NullString
	checked       bool
	repeatRule    sql.NullString
	excludedDates sql.NullString
}

func toRow(e Event) (eventRow, error) {
	row := eventRow{
		id:          e.ID,
		calendarId:  e.CalendarID,
		title:       e.Title,
		description: e.Description,
		day:         e.Day.Format(dateLayout),
		checked:     e.Checked,
	}
	if e.Time != nil {
		row.timeMinutes = sql.NullInt64{Int64: int64(e.Time.minutesOfDay()), Valid: true}
	}
	if e.Label != "" {
		row.label = sql.NullString{String: e.Label, Valid: true}
	}
	if e.Repeat != nil {
		encoded, err := recurrence.EncodeRule(e.Repeat)
		if err != nil {
			return eventRow{}, fmt.Errorf("could not encode recurrence rule: %w", err)
		}
		row.repeatRule = sql.NullString{String: string(encoded), Valid: true}
	}
	if len(e.Excluded) > 0 {
		dates := make([]string, len(e.Excluded))
		for i, d := range e.Excluded {
			dates[i] = d.Format(dateLayout)
		}
		encoded, err := json.Marshal(dates)
		if err != nil {
			return eventRow{}, fmt.Errorf("could not encode excluded dates: %w", err)
		}
		row.excludedDates = sql.NullString{String: string(encoded), Valid: true}
	}
	return row, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(scanner rowScanner) (Event, error) {
	var row eventRow
	err := scanner.Scan(&row.id, &row.calendarId, &row.title, &row.description,
		&row.day, &row.timeMinutes, &row.label, &row.checked, &row.repeatRule, &row.excludedDates)
	if err != nil {
		return Event{}, err
	}

	day, err := time.Parse(dateLayout, row.day)
	if err != nil {
		return Event{}, fmt.Errorf("invalid stored event day %q: %w", row.day, err)
	}
	e := Event{
		ID:          row.id,
		CalendarID:  row.calendarId,
		Title:       row.title,
		Description: row.description,
		Day:         day,
		Label:       row.label.String,
		Checked:     row.checked,
	}
	if row.timeMinutes.Valid {
		e.Time = &TimeOfDay{
			Hours:   int(row.timeMinutes.Int64) / 60,
			Minutes: int(row.timeMinutes.Int64) % 60,
		}
	}
	if row.repeatRule.Valid {
		rule, err := recurrence.DecodeRule([]byte(row.repeatRule.String))
		if err != nil {
			return Event{}, fmt.Errorf("invalid stored recurrence rule: %w", err)
		}
		e.Repeat = rule
	}
	if row.excludedDates.Valid {
		var dates []string
		if err := json.Unmarshal([]byte(row.excludedDates.String), &dates); err != nil {
			return Event{}, fmt.Errorf("invalid stored excluded dates: %w", err)
		}
		for _, s := range dates {
			d, err := time.Parse(dateLayout, s)
			if err != nil {
				return Event{}, fmt.Errorf("invalid stored excluded date %q: %w", s, err)
			}
			e.Excluded = append(e.Excluded, d)
		}
	}
	return e, nil
}
