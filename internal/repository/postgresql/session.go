package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

// ==================== WORK SESSIONS ====================

type workSessionRepositoryImpl struct {
	db *database.DB
}

func NewWorkSessionRepository(db *database.DB) session.WorkSessionRepository {
	return &workSessionRepositoryImpl{db: db}
}

const workSessionColumns = `
	ws.id, ws.category, ws.day_of_week, ws.slot_number, ws.start_time, ws.end_time,
	ws.rate, ws.active, ws.created_at, ws.updated_at`

func scanWorkSession(row pgx.Row) (session.WorkSession, error) {
	var ws session.WorkSession
	err := row.Scan(
		&ws.ID, &ws.Category, &ws.DayOfWeek, &ws.SlotNumber, &ws.StartTime, &ws.EndTime,
		&ws.Rate, &ws.Active, &ws.CreatedAt, &ws.UpdatedAt,
	)
	return ws, err
}

// Create implements session.WorkSessionRepository.
func (r *workSessionRepositoryImpl) Create(ctx context.Context, ws session.WorkSession) (session.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_sessions (
			id, category, day_of_week, slot_number, start_time, end_time, rate, active, created_at, updated_at
		) VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		ws.Category, int(ws.DayOfWeek), ws.SlotNumber, ws.StartTime, ws.EndTime, ws.Rate, ws.Active,
	).Scan(&ws.ID, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "work_sessions_day_slot_category_key") {
			return session.WorkSession{}, session.ErrWorkSessionExists
		}
		return session.WorkSession{}, fmt.Errorf("failed to create work session: %w", err)
	}
	return ws, nil
}

// GetByID implements session.WorkSessionRepository.
func (r *workSessionRepositoryImpl) GetByID(ctx context.Context, id string) (session.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	ws, err := scanWorkSession(q.QueryRow(ctx, `SELECT `+workSessionColumns+` FROM work_sessions ws WHERE ws.id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return session.WorkSession{}, session.ErrWorkSessionNotFound
		}
		return session.WorkSession{}, fmt.Errorf("failed to get work session: %w", err)
	}
	return ws, nil
}

// Update implements session.WorkSessionRepository. Category, day and slot
// form the identity of a template and never change.
func (r *workSessionRepositoryImpl) Update(ctx context.Context, ws session.WorkSession) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_sessions
		SET start_time = $1, end_time = $2, rate = $3, active = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, ws.StartTime, ws.EndTime, ws.Rate, ws.Active, ws.ID)
	if err != nil {
		if isNotFound(err) {
			return session.ErrWorkSessionNotFound
		}
		return fmt.Errorf("failed to update work session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrWorkSessionNotFound
	}
	return nil
}

// List implements session.WorkSessionRepository.
func (r *workSessionRepositoryImpl) List(ctx context.Context, filter session.WorkSessionFilter) ([]session.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.Category != nil && *filter.Category != "" {
		baseWhere += fmt.Sprintf(" AND ws.category = $%d", argIdx)
		args = append(args, *filter.Category)
		argIdx++
	}
	if filter.DayOfWeek != nil {
		baseWhere += fmt.Sprintf(" AND ws.day_of_week = $%d", argIdx)
		args = append(args, *filter.DayOfWeek)
		argIdx++
	}
	if filter.Active != nil {
		baseWhere += fmt.Sprintf(" AND ws.active = $%d", argIdx)
		args = append(args, *filter.Active)
	}

	query := `
		SELECT ` + workSessionColumns + ` FROM work_sessions ws
		WHERE ` + baseWhere + `
		ORDER BY ws.day_of_week, ws.slot_number, ws.category
	`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query work sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.WorkSession
	for rows.Next() {
		ws, err := scanWorkSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work session: %w", err)
		}
		sessions = append(sessions, ws)
	}
	return sessions, rows.Err()
}

// ==================== REALIZATIONS ====================

type realizationRepositoryImpl struct {
	db *database.DB
}

func NewRealizationRepository(db *database.DB) session.RealizationRepository {
	return &realizationRepositoryImpl{db: db}
}

const realizationColumns = `
	sr.id, sr.employee_id, sr.date, sr.work_session_id, sr.status, sr.source, sr.note,
	sr.approved_by, sr.review_note, sr.reviewed_at, sr.created_at, sr.updated_at`

func scanRealization(row pgx.Row) (session.SessionRealization, error) {
	var sr session.SessionRealization
	err := row.Scan(
		&sr.ID, &sr.EmployeeID, &sr.Date, &sr.WorkSessionID, &sr.Status, &sr.Source, &sr.Note,
		&sr.ApprovedBy, &sr.ReviewNote, &sr.ReviewedAt, &sr.CreatedAt, &sr.UpdatedAt,
	)
	return sr, err
}

// Create implements session.RealizationRepository. Concurrent claims of one
// slot race on the partial unique index; the loser gets ErrSlotAlreadyClaimed.
func (r *realizationRepositoryImpl) Create(ctx context.Context, sr session.SessionRealization) (session.SessionRealization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO session_realizations (
			id, employee_id, date, work_session_id, status, source, note, created_at, updated_at
		) VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		sr.EmployeeID, sr.Date, sr.WorkSessionID, sr.Status, sr.Source, sr.Note,
	).Scan(&sr.ID, &sr.CreatedAt, &sr.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "session_realizations_live_key") {
			return session.SessionRealization{}, session.ErrSlotAlreadyClaimed
		}
		return session.SessionRealization{}, fmt.Errorf("failed to create session realization: %w", err)
	}
	return sr, nil
}

func (r *realizationRepositoryImpl) get(ctx context.Context, query, id string) (session.SessionRealization, error) {
	q := GetQuerier(ctx, r.db)

	sr, err := scanRealization(q.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return session.SessionRealization{}, session.ErrRealizationNotFound
		}
		return session.SessionRealization{}, fmt.Errorf("failed to get session realization: %w", err)
	}
	return sr, nil
}

// GetByID implements session.RealizationRepository.
func (r *realizationRepositoryImpl) GetByID(ctx context.Context, id string) (session.SessionRealization, error) {
	return r.get(ctx, `SELECT `+realizationColumns+` FROM session_realizations sr WHERE sr.id = $1`, id)
}

// GetForUpdate implements session.RealizationRepository.
func (r *realizationRepositoryImpl) GetForUpdate(ctx context.Context, id string) (session.SessionRealization, error) {
	return r.get(ctx, `SELECT `+realizationColumns+` FROM session_realizations sr WHERE sr.id = $1 FOR UPDATE`, id)
}

// UpdateReview implements session.RealizationRepository.
func (r *realizationRepositoryImpl) UpdateReview(ctx context.Context, sr session.SessionRealization) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE session_realizations
		SET status = $1, approved_by = $2, review_note = $3, reviewed_at = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, sr.Status, sr.ApprovedBy, sr.ReviewNote, sr.ReviewedAt, sr.ID)
	if err != nil {
		return fmt.Errorf("failed to update session realization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrRealizationNotFound
	}
	return nil
}

// List implements session.RealizationRepository.
func (r *realizationRepositoryImpl) List(ctx context.Context, filter session.RealizationFilter) ([]session.SessionRealization, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND sr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.WorkSessionID != nil && *filter.WorkSessionID != "" {
		baseWhere += fmt.Sprintf(" AND sr.work_session_id = $%d", argIdx)
		args = append(args, *filter.WorkSessionID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND sr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.DateFrom != nil && *filter.DateFrom != "" {
		baseWhere += fmt.Sprintf(" AND sr.date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil && *filter.DateTo != "" {
		baseWhere += fmt.Sprintf(" AND sr.date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM session_realizations sr WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count session realizations: %w", err)
	}

	limit, offset := pagination(filter.Page, filter.Limit)
	query := fmt.Sprintf(`
		SELECT %s FROM session_realizations sr
		WHERE %s
		ORDER BY sr.date DESC, sr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, realizationColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query session realizations: %w", err)
	}
	defer rows.Close()

	var items []session.SessionRealization
	for rows.Next() {
		sr, err := scanRealization(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session realization: %w", err)
		}
		items = append(items, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListApprovedBetween implements session.RealizationRepository.
func (r *realizationRepositoryImpl) ListApprovedBetween(ctx context.Context, employeeID string, from, to time.Time) ([]session.SessionRealization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + realizationColumns + `, ` + workSessionColumns + `
		FROM session_realizations sr
		JOIN work_sessions ws ON ws.id = sr.work_session_id
		WHERE sr.employee_id = $1 AND sr.status = 'approved' AND sr.date BETWEEN $2 AND $3
		ORDER BY sr.date, sr.work_session_id
	`
	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved sessions: %w", err)
	}
	defer rows.Close()

	var items []session.SessionRealization
	for rows.Next() {
		var (
			sr session.SessionRealization
			ws session.WorkSession
		)
		if err := rows.Scan(
			&sr.ID, &sr.EmployeeID, &sr.Date, &sr.WorkSessionID, &sr.Status, &sr.Source, &sr.Note,
			&sr.ApprovedBy, &sr.ReviewNote, &sr.ReviewedAt, &sr.CreatedAt, &sr.UpdatedAt,
			&ws.ID, &ws.Category, &ws.DayOfWeek, &ws.SlotNumber, &ws.StartTime, &ws.EndTime,
			&ws.Rate, &ws.Active, &ws.CreatedAt, &ws.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approved session: %w", err)
		}
		sr.WorkSession = &ws
		items = append(items, sr)
	}
	return items, rows.Err()
}
