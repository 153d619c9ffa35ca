package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hperssn/pomobot/internal/domain"
)

// sqlRepository holds the queries shared by the sqlite and postgres
// repositories. Queries are written with ? placeholders and rebound for
// drivers that need numbered ones.
type sqlRepository struct {
	db     *sql.DB
	rebind func(string) string
}

func questionMarks(q string) string { return q }

func dollarPlaceholders(q string) string {
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (r *sqlRepository) exec(query string, args ...any) (sql.Result, error) {
	return r.db.Exec(r.rebind(query), args...)
}

func (r *sqlRepository) query(query string, args ...any) (*sql.Rows, error) {
	return r.db.Query(r.rebind(query), args...)
}

func (r *sqlRepository) queryRow(query string, args ...any) *sql.Row {
	return r.db.QueryRow(r.rebind(query), args...)
}

func (r *sqlRepository) SaveSession(record *SessionRecord) error {
	query := `
		INSERT INTO sessions (id, user_id, preset_id, focus_sec, rest_sec, outcome, started_at, ended_at, elapsed_sec)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.exec(
		query,
		record.ID,
		record.UserID,
		record.PresetID,
		record.FocusSec,
		record.RestSec,
		record.Outcome,
		record.StartedAt,
		record.EndedAt,
		record.ElapsedSec,
	)
	return err
}

func (r *sqlRepository) GetSessionsByUser(userID string) ([]SessionRecord, error) {
	query := `
		SELECT id, user_id, preset_id, focus_sec, rest_sec, outcome, started_at, ended_at, elapsed_sec
		FROM sessions
		WHERE user_id = ?
		ORDER BY ended_at DESC
	`

	rows, err := r.query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

func (r *sqlRepository) GetRecentSessions(userID string, since time.Time) ([]SessionRecord, error) {
	query := `
		SELECT id, user_id, preset_id, focus_sec, rest_sec, outcome, started_at, ended_at, elapsed_sec
		FROM sessions
		WHERE user_id = ? AND ended_at >= ?
		ORDER BY ended_at DESC
	`

	rows, err := r.query(query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

func (r *sqlRepository) GetSessionStats(userID string) (*SessionStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			SUM(CASE WHEN outcome = 'completed' THEN 1 ELSE 0 END) AS completed,
			SUM(CASE WHEN outcome = 'cancelled' THEN 1 ELSE 0 END) AS cancelled,
			SUM(CASE WHEN outcome = 'completed' THEN focus_sec ELSE 0 END) AS focus
		FROM sessions
		WHERE user_id = ?
	`

	var stats SessionStats
	var completed, cancelled, focus sql.NullInt64

	err := r.queryRow(query, userID).Scan(
		&stats.TotalSessions,
		&completed,
		&cancelled,
		&focus,
	)
	if err != nil {
		return nil, err
	}

	stats.CompletedCount = int(completed.Int64)
	stats.CancelledCount = int(cancelled.Int64)
	stats.TotalFocusSec = int(focus.Int64)
	if stats.TotalSessions > 0 {
		stats.CompletionRate = float64(stats.CompletedCount) / float64(stats.TotalSessions) * 100
	}

	return &stats, nil
}

func scanSessions(rows *sql.Rows) ([]SessionRecord, error) {
	var records []SessionRecord

	for rows.Next() {
		var record SessionRecord
		var presetID sql.NullString

		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&presetID,
			&record.FocusSec,
			&record.RestSec,
			&record.Outcome,
			&record.StartedAt,
			&record.EndedAt,
			&record.ElapsedSec,
		)
		if err != nil {
			return nil, err
		}
		record.PresetID = presetID.String

		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *sqlRepository) SaveTask(task *domain.Task) error {
	var due sql.NullTime
	if task.DueDate != nil {
		due = sql.NullTime{Time: *task.DueDate, Valid: true}
	}

	_, err := r.exec(
		`INSERT INTO tasks (id, user_id, description, due_date, completed, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.Description, due, task.Completed, task.CreatedAt,
	)
	return err
}

func (r *sqlRepository) GetTasks(userID string) ([]domain.Task, error) {
	rows, err := r.query(
		`SELECT id, user_id, description, due_date, completed, created_at FROM tasks WHERE user_id = ? ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		var due sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &t.Description, &due, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		if due.Valid {
			d := due.Time
			t.DueDate = &d
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *sqlRepository) CompleteTask(userID, taskID string) error {
	res, err := r.exec(`UPDATE tasks SET completed = ? WHERE user_id = ? AND id = ?`, true, userID, taskID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *sqlRepository) SaveReminder(reminder *domain.Reminder) error {
	_, err := r.exec(
		`INSERT INTO reminders (id, user_id, description, fire_at, created_at, fired) VALUES (?, ?, ?, ?, ?, ?)`,
		reminder.ID, reminder.UserID, reminder.Description, reminder.FireAt, reminder.CreatedAt, reminder.Fired,
	)
	return err
}

func (r *sqlRepository) GetReminders(userID string) ([]domain.Reminder, error) {
	rows, err := r.query(
		`SELECT id, user_id, description, fire_at, created_at, fired FROM reminders WHERE user_id = ? ORDER BY fire_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

func (r *sqlRepository) GetPendingReminders() ([]domain.Reminder, error) {
	rows, err := r.query(
		`SELECT id, user_id, description, fire_at, created_at, fired FROM reminders WHERE fired = ? ORDER BY fire_at ASC`,
		false,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

func scanReminders(rows *sql.Rows) ([]domain.Reminder, error) {
	var reminders []domain.Reminder
	for rows.Next() {
		var rem domain.Reminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.Description, &rem.FireAt, &rem.CreatedAt, &rem.Fired); err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func (r *sqlRepository) MarkReminderFired(id string) error {
	res, err := r.exec(`UPDATE reminders SET fired = ? WHERE id = ?`, true, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *sqlRepository) SaveCustomPomodoro(userID string, focusMin, restMin int) error {
	_, err := r.exec(
		`INSERT INTO custom_pomodoros (user_id, focus_min, rest_min, created_at) VALUES (?, ?, ?, ?)`,
		userID, focusMin, restMin, time.Now(),
	)
	return err
}

func (r *sqlRepository) GetCustomPomodoro(userID string) (*CustomPomodoro, error) {
	var c CustomPomodoro
	err := r.queryRow(
		`SELECT user_id, focus_min, rest_min, created_at FROM custom_pomodoros WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`,
		userID,
	).Scan(&c.UserID, &c.FocusMin, &c.RestMin, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqlRepository) Close() error {
	return r.db.Close()
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
