package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const payrollColumns = `
	id, employee_id, recap_id, period, pay_type, leave_days, leave_deduction, total, status,
	created_by, approved_by, approved_at, paid_at, created_at, updated_at`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.RecapID, &p.Period, &p.PayType, &p.LeaveDays, &p.LeaveDeduction, &p.Total, &p.Status,
		&p.CreatedBy, &p.ApprovedBy, &p.ApprovedAt, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

const paymentColumns = `id, payroll_id, transfer_date, proof_ref, status, approved_by, note, created_at, updated_at`

func scanPayment(row pgx.Row) (payroll.Payment, error) {
	var pay payroll.Payment
	err := row.Scan(
		&pay.ID, &pay.PayrollID, &pay.TransferDate, &pay.ProofRef, &pay.Status,
		&pay.ApprovedBy, &pay.Note, &pay.CreatedAt, &pay.UpdatedAt,
	)
	return pay, err
}

// Create implements payroll.PayrollRepository. Header and components are
// written together; callers run it inside a transaction.
func (r *payrollRepositoryImpl) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			id, employee_id, recap_id, period, pay_type, leave_days, leave_deduction, total, status,
			created_by, created_at, updated_at
		) VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		p.EmployeeID, p.RecapID, p.Period, p.PayType, p.LeaveDays, p.LeaveDeduction, p.Total, p.Status, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "payrolls_employee_period_key") {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyGenerated
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}

	components := p.Components
	p.Components = make([]payroll.Component, 0, len(components))
	for _, c := range components {
		c.PayrollID = p.ID
		created, err := r.AddComponent(ctx, c)
		if err != nil {
			return payroll.Payroll{}, err
		}
		p.Components = append(p.Components, created)
	}
	p.Payments = nil
	return p, nil
}

func (r *payrollRepositoryImpl) get(ctx context.Context, query, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}
	if err := r.load(ctx, &p); err != nil {
		return payroll.Payroll{}, err
	}
	return p, nil
}

// load attaches components and payments in creation order.
func (r *payrollRepositoryImpl) load(ctx context.Context, p *payroll.Payroll) error {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, payroll_id, code, label, amount, created_at
		FROM payroll_components WHERE payroll_id = $1 ORDER BY id
	`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to query payroll components: %w", err)
	}
	p.Components = nil
	for rows.Next() {
		var c payroll.Component
		if err := rows.Scan(&c.ID, &c.PayrollID, &c.Code, &c.Label, &c.Amount, &c.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan payroll component: %w", err)
		}
		p.Components = append(p.Components, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.Query(ctx, `SELECT `+paymentColumns+` FROM payroll_payments WHERE payroll_id = $1 ORDER BY id`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to query payroll payments: %w", err)
	}
	defer rows.Close()
	p.Payments = nil
	for rows.Next() {
		pay, err := scanPayment(rows)
		if err != nil {
			return fmt.Errorf("failed to scan payroll payment: %w", err)
		}
		p.Payments = append(p.Payments, pay)
	}
	return rows.Err()
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	return r.get(ctx, `SELECT `+payrollColumns+` FROM payrolls WHERE id = $1`, id)
}

// GetForUpdate implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetForUpdate(ctx context.Context, id string) (payroll.Payroll, error) {
	return r.get(ctx, `SELECT `+payrollColumns+` FROM payrolls WHERE id = $1 FOR UPDATE`, id)
}

// ExistsForPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ExistsForPeriod(ctx context.Context, employeeID string, p period.Period) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payrolls WHERE employee_id = $1 AND period = $2)`,
		employeeID, p,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll: %w", err)
	}
	return exists, nil
}

// UpdateHeader implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpdateHeader(ctx context.Context, p payroll.Payroll) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET status = $1, total = $2, leave_deduction = $3,
			approved_by = $4, approved_at = $5, paid_at = $6, updated_at = NOW()
		WHERE id = $7
	`
	tag, err := q.Exec(ctx, query, p.Status, p.Total, p.LeaveDeduction, p.ApprovedBy, p.ApprovedAt, p.PaidAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update payroll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}
	return nil
}

// List implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
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
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payrolls WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	limit, offset := pagination(filter.Page, filter.Limit)
	query := fmt.Sprintf(`
		SELECT %s FROM payrolls
		WHERE %s
		ORDER BY period DESC, employee_id
		LIMIT $%d OFFSET $%d
	`, payrollColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query payrolls: %w", err)
	}
	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// a connection serves one result set at a time, so lines load after the page is read
	for i := range payrolls {
		if err := r.load(ctx, &payrolls[i]); err != nil {
			return nil, 0, err
		}
	}
	return payrolls, total, nil
}

// AddComponent implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) AddComponent(ctx context.Context, c payroll.Component) (payroll.Component, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_components (id, payroll_id, code, label, amount, created_at)
		VALUES (uuidv7(), $1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	if err := q.QueryRow(ctx, query, c.PayrollID, c.Code, c.Label, c.Amount).Scan(&c.ID, &c.CreatedAt); err != nil {
		return payroll.Component{}, fmt.Errorf("failed to add payroll component: %w", err)
	}
	return c, nil
}

// DeleteComponent implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) DeleteComponent(ctx context.Context, payrollID, componentID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_components WHERE id = $1 AND payroll_id = $2`, componentID, payrollID)
	if err != nil {
		if isNotFound(err) {
			return payroll.ErrComponentNotFound
		}
		return fmt.Errorf("failed to delete payroll component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrComponentNotFound
	}
	return nil
}

// CreatePayment implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) CreatePayment(ctx context.Context, pay payroll.Payment) (payroll.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_payments (id, payroll_id, transfer_date, proof_ref, status, note, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query, pay.PayrollID, pay.TransferDate, pay.ProofRef, pay.Status, pay.Note).
		Scan(&pay.ID, &pay.CreatedAt, &pay.UpdatedAt)
	if err != nil {
		return payroll.Payment{}, fmt.Errorf("failed to create payroll payment: %w", err)
	}
	return pay, nil
}

// GetPaymentForUpdate implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetPaymentForUpdate(ctx context.Context, id string) (payroll.Payment, error) {
	q := GetQuerier(ctx, r.db)

	pay, err := scanPayment(q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payroll_payments WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNotFound(err) {
			return payroll.Payment{}, payroll.ErrPaymentNotFound
		}
		return payroll.Payment{}, fmt.Errorf("failed to get payroll payment: %w", err)
	}
	return pay, nil
}

// UpdatePayment implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpdatePayment(ctx context.Context, pay payroll.Payment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_payments
		SET status = $1, approved_by = $2, note = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := q.Exec(ctx, query, pay.Status, pay.ApprovedBy, pay.Note, pay.ID)
	if err != nil {
		return fmt.Errorf("failed to update payroll payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPaymentNotFound
	}
	return nil
}
