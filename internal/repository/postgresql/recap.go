package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

type recapRepositoryImpl struct {
	db *database.DB
}

func NewRecapRepository(db *database.DB) recap.RecapRepository {
	return &recapRepositoryImpl{db: db}
}

const recapColumns = `
	id, employee_id, period,
	present_days, permission_days, sick_days, leave_days, absent_days,
	coding_sessions, non_coding_sessions, coding_value, non_coding_value, session_income,
	created_at`

func scanRecap(row pgx.Row) (recap.MonthlyRecap, error) {
	var r recap.MonthlyRecap
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Period,
		&r.PresentDays, &r.PermissionDays, &r.SickDays, &r.LeaveDays, &r.AbsentDays,
		&r.CodingSessions, &r.NonCodingSessions, &r.CodingValue, &r.NonCodingValue, &r.SessionIncome,
		&r.CreatedAt,
	)
	return r, err
}

// Upsert implements recap.RecapRepository.
func (r *recapRepositoryImpl) Upsert(ctx context.Context, rc recap.MonthlyRecap) (recap.MonthlyRecap, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO monthly_recaps (
			id, employee_id, period,
			present_days, permission_days, sick_days, leave_days, absent_days,
			coding_sessions, non_coding_sessions, coding_value, non_coding_value, session_income,
			created_at
		) VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT ON CONSTRAINT monthly_recaps_employee_period_key DO UPDATE SET
			present_days = EXCLUDED.present_days,
			permission_days = EXCLUDED.permission_days,
			sick_days = EXCLUDED.sick_days,
			leave_days = EXCLUDED.leave_days,
			absent_days = EXCLUDED.absent_days,
			coding_sessions = EXCLUDED.coding_sessions,
			non_coding_sessions = EXCLUDED.non_coding_sessions,
			coding_value = EXCLUDED.coding_value,
			non_coding_value = EXCLUDED.non_coding_value,
			session_income = EXCLUDED.session_income
		RETURNING ` + recapColumns

	saved, err := scanRecap(q.QueryRow(ctx, query,
		rc.EmployeeID, rc.Period,
		rc.PresentDays, rc.PermissionDays, rc.SickDays, rc.LeaveDays, rc.AbsentDays,
		rc.CodingSessions, rc.NonCodingSessions, rc.CodingValue, rc.NonCodingValue, rc.SessionIncome,
	))
	if err != nil {
		return recap.MonthlyRecap{}, fmt.Errorf("failed to upsert recap: %w", err)
	}
	return saved, nil
}

// GetByID implements recap.RecapRepository.
func (r *recapRepositoryImpl) GetByID(ctx context.Context, id string) (recap.MonthlyRecap, error) {
	q := GetQuerier(ctx, r.db)

	rc, err := scanRecap(q.QueryRow(ctx, `SELECT `+recapColumns+` FROM monthly_recaps WHERE id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return recap.MonthlyRecap{}, recap.ErrRecapNotFound
		}
		return recap.MonthlyRecap{}, fmt.Errorf("failed to get recap: %w", err)
	}
	return rc, nil
}

// GetByEmployeeAndPeriod implements recap.RecapRepository.
func (r *recapRepositoryImpl) GetByEmployeeAndPeriod(ctx context.Context, employeeID string, p period.Period) (*recap.MonthlyRecap, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recapColumns + ` FROM monthly_recaps WHERE employee_id = $1 AND period = $2`
	rc, err := scanRecap(q.QueryRow(ctx, query, employeeID, p))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recap: %w", err)
	}
	return &rc, nil
}

// List implements recap.RecapRepository.
func (r *recapRepositoryImpl) List(ctx context.Context, filter recap.RecapFilter) ([]recap.MonthlyRecap, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Period != nil {
		baseWhere += fmt.Sprintf(" AND period = $%d", argIdx)
		args = append(args, *filter.Period)
	}

	query := `SELECT ` + recapColumns + ` FROM monthly_recaps WHERE ` + baseWhere + ` ORDER BY period DESC, employee_id`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recaps: %w", err)
	}
	defer rows.Close()

	var recaps []recap.MonthlyRecap
	for rows.Next() {
		rc, err := scanRecap(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recap: %w", err)
		}
		recaps = append(recaps, rc)
	}
	return recaps, rows.Err()
}
