package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shift-bot/internal/domain"
	"shift-bot/internal/model"
)

const (
	shiftTimeLayout   = "2006-01-02 15:04"
	createdTimeLayout = "2006-01-02 15:04:05"
)

const selectShift = `SELECT id, user_id, name, start_time, end_time, hours, pay, created_at FROM shifts`

type SqliteShiftRepo struct {
	db  *sql.DB
	loc *time.Location
}

// NewSqliteShiftRepo: времена смен хранятся строками без зоны, loc задаёт,
// в какой зоне их читать и писать.
func NewSqliteShiftRepo(db *sql.DB, loc *time.Location) *SqliteShiftRepo {
	if loc == nil {
		loc = time.Local
	}
	return &SqliteShiftRepo{db: db, loc: loc}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SqliteShiftRepo) InsertShift(ctx context.Context, shift model.ShiftRecord) (model.ShiftRecord, error) {
	shift.StartTime = shift.StartTime.In(r.loc).Truncate(time.Minute)
	shift.CreatedAt = shift.CreatedAt.In(r.loc).Truncate(time.Second)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shifts (user_id, name, start_time, created_at) VALUES (?, ?, ?, ?)`,
		shift.UserID,
		shift.DisplayName,
		shift.StartTime.Format(shiftTimeLayout),
		shift.CreatedAt.Format(createdTimeLayout),
	)
	if err != nil {
		return model.ShiftRecord{}, storageErr("insert shift", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ShiftRecord{}, storageErr("insert shift", err)
	}
	shift.ID = id
	shift.EndTime, shift.Hours, shift.Pay = nil, nil, nil
	return shift, nil
}

func (r *SqliteShiftRepo) FindOpenShift(ctx context.Context, userID int64) (model.ShiftRecord, bool, error) {
	return r.findOpen(ctx, r.db, userID)
}

func (r *SqliteShiftRepo) findOpen(ctx context.Context, q queryer, userID int64) (model.ShiftRecord, bool, error) {
	row := q.QueryRowContext(ctx,
		selectShift+` WHERE user_id = ? AND end_time IS NULL ORDER BY id DESC LIMIT 1`,
		userID,
	)
	shift, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ShiftRecord{}, false, nil
	}
	if err != nil {
		return model.ShiftRecord{}, false, storageErr("find open shift", err)
	}
	return shift, true, nil
}

func (r *SqliteShiftRepo) CloseOpenShift(ctx context.Context, userID int64, closeFn domain.CloseFunc) (model.ShiftRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ShiftRecord{}, storageErr("begin close", err)
	}
	defer tx.Rollback()

	open, ok, err := r.findOpen(ctx, tx, userID)
	if err != nil {
		return model.ShiftRecord{}, err
	}
	if !ok {
		return model.ShiftRecord{}, domain.ErrNoOpenShift
	}

	closed := closeFn(open)
	if closed.EndTime == nil || closed.Hours == nil || closed.Pay == nil {
		return model.ShiftRecord{}, fmt.Errorf("закрытие смены %d: не заданы end_time/hours/pay", open.ID)
	}
	end := closed.EndTime.In(r.loc).Truncate(time.Minute)
	closed.EndTime = &end

	res, err := tx.ExecContext(ctx,
		`UPDATE shifts SET end_time = ?, hours = ?, pay = ? WHERE id = ? AND end_time IS NULL`,
		end.Format(shiftTimeLayout),
		*closed.Hours,
		*closed.Pay,
		open.ID,
	)
	if err != nil {
		return model.ShiftRecord{}, storageErr("close shift", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.ShiftRecord{}, storageErr("close shift", err)
	}
	if n == 0 {
		return model.ShiftRecord{}, domain.ErrNoOpenShift
	}
	if err := tx.Commit(); err != nil {
		return model.ShiftRecord{}, storageErr("commit close", err)
	}
	return closed, nil
}

func (r *SqliteShiftRepo) UserStats(ctx context.Context, userID int64) (model.UserStats, error) {
	var s model.UserStats
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(hours), COALESCE(SUM(hours), 0), COALESCE(SUM(pay), 0)
		 FROM shifts WHERE user_id = ? AND hours IS NOT NULL`,
		userID,
	).Scan(&s.SessionCount, &s.TotalHours, &s.TotalPay)
	if err != nil {
		return model.UserStats{}, storageErr("user stats", err)
	}
	return s, nil
}

// GlobalStats: по строке на пару (user_id, name) в порядке первого появления,
// итоги считаются по user_id.
func (r *SqliteShiftRepo) GlobalStats(ctx context.Context) ([]model.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		WITH totals AS (
			SELECT user_id,
			       COUNT(hours) AS sessions,
			       COALESCE(SUM(hours), 0) AS hours,
			       COALESCE(SUM(pay), 0) AS pay
			FROM shifts
			GROUP BY user_id
		), pairs AS (
			SELECT user_id, name, MIN(id) AS first_id
			FROM shifts
			GROUP BY user_id, name
		)
		SELECT pairs.user_id, pairs.name, totals.sessions, totals.hours, totals.pay
		FROM pairs JOIN totals ON totals.user_id = pairs.user_id
		ORDER BY pairs.first_id`)
	if err != nil {
		return nil, storageErr("global stats", err)
	}
	defer rows.Close()

	var stats []model.UserSummary
	for rows.Next() {
		var s model.UserSummary
		if err := rows.Scan(&s.UserID, &s.DisplayName, &s.SessionCount, &s.TotalHours, &s.TotalPay); err != nil {
			return nil, storageErr("global stats", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("global stats", err)
	}
	return stats, nil
}

func (r *SqliteShiftRepo) ListUsers(ctx context.Context) ([]model.UserRef, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, name FROM shifts GROUP BY user_id, name ORDER BY MIN(id)`)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	defer rows.Close()

	var users []model.UserRef
	for rows.Next() {
		var u model.UserRef
		if err := rows.Scan(&u.UserID, &u.DisplayName); err != nil {
			return nil, storageErr("list users", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list users", err)
	}
	return users, nil
}

func (r *SqliteShiftRepo) ListShifts(ctx context.Context) ([]model.ShiftRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectShift+` ORDER BY id`)
	if err != nil {
		return nil, storageErr("list shifts", err)
	}
	defer rows.Close()

	var shifts []model.ShiftRecord
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, storageErr("list shifts", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list shifts", err)
	}
	return shifts, nil
}

func (r *SqliteShiftRepo) DeleteUser(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE user_id = ?`, userID)
	if err != nil {
		return 0, storageErr("delete user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("delete user", err)
	}
	return n, nil
}

// DeleteAll очищает таблицу и сбрасывает счётчик id, следующая смена снова получит id = 1
func (r *SqliteShiftRepo) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin wipe", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shifts`); err != nil {
		return storageErr("wipe", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'shifts'`); err != nil {
		return storageErr("wipe sequence", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit wipe", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SqliteShiftRepo) scan(row scanner) (model.ShiftRecord, error) {
	var (
		s              model.ShiftRecord
		start, created string
		end            sql.NullString
		hours, pay     sql.NullFloat64
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.DisplayName, &start, &end, &hours, &pay, &created); err != nil {
		return model.ShiftRecord{}, err
	}

	var err error
	s.StartTime, err = time.ParseInLocation(shiftTimeLayout, start, r.loc)
	if err != nil {
		return model.ShiftRecord{}, fmt.Errorf("start_time смены %d: %w", s.ID, err)
	}
	s.CreatedAt, err = time.ParseInLocation(createdTimeLayout, created, r.loc)
	if err != nil {
		return model.ShiftRecord{}, fmt.Errorf("created_at смены %d: %w", s.ID, err)
	}
	if end.Valid {
		t, err := time.ParseInLocation(shiftTimeLayout, end.String, r.loc)
		if err != nil {
			return model.ShiftRecord{}, fmt.Errorf("end_time смены %d: %w", s.ID, err)
		}
		s.EndTime = &t
	}
	if hours.Valid {
		s.Hours = &hours.Float64
	}
	if pay.Valid {
		s.Pay = &pay.Float64
	}
	return s, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, op, err)
}
