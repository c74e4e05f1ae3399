package recap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/export"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

type RecapServiceImpl struct {
	transactor      database.Transactor
	recapRepo       recap.RecapRepository
	employeeRepo    employee.EmployeeRepository
	attendanceRepo  attendance.AttendanceRepository
	leaveRepo       leave.LeaveRequestRepository
	realizationRepo session.RealizationRepository
}

func NewRecapService(
	transactor database.Transactor,
	recapRepo recap.RecapRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	realizationRepo session.RealizationRepository,
) recap.RecapService {
	return &RecapServiceImpl{
		transactor:      transactor,
		recapRepo:       recapRepo,
		employeeRepo:    employeeRepo,
		attendanceRepo:  attendanceRepo,
		leaveRepo:       leaveRepo,
		realizationRepo: realizationRepo,
	}
}

// Aggregate implements recap.RecapService.
func (s *RecapServiceImpl) Aggregate(ctx context.Context, actor user.Actor, req recap.AggregateRequest) (recap.RecapResponse, error) {
	if err := actor.Require(user.PermissionRecapGenerate); err != nil {
		return recap.RecapResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return recap.RecapResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return recap.RecapResponse{}, err
	}

	r, err := s.aggregate(ctx, req.EmployeeID, req.ParsedPeriod())
	if err != nil {
		return recap.RecapResponse{}, err
	}
	return recap.ToResponse(r), nil
}

// aggregate reads every input from one snapshot and replaces the recap in
// the same transaction, so a concurrent approval lands either wholly before
// or wholly after it.
func (s *RecapServiceImpl) aggregate(ctx context.Context, employeeID string, p period.Period) (recap.MonthlyRecap, error) {
	var saved recap.MonthlyRecap
	err := s.transactor.WithinSnapshot(ctx, func(ctx context.Context) error {
		from, to := p.Start(), p.End()

		records, err := s.attendanceRepo.ListByEmployeeBetween(ctx, employeeID, from, to)
		if err != nil {
			return fmt.Errorf("failed to load attendance: %w", err)
		}
		leaves, err := s.leaveRepo.ListApprovedBetween(ctx, employeeID, from, to)
		if err != nil {
			return fmt.Errorf("failed to load approved leave: %w", err)
		}
		sessions, err := s.realizationRepo.ListApprovedBetween(ctx, employeeID, from, to)
		if err != nil {
			return fmt.Errorf("failed to load approved sessions: %w", err)
		}

		saved, err = s.recapRepo.Upsert(ctx, recap.Build(employeeID, p, records, leaves, sessions))
		if err != nil {
			return fmt.Errorf("failed to save recap: %w", err)
		}
		return nil
	})
	if err != nil {
		return recap.MonthlyRecap{}, err
	}

	slog.InfoContext(ctx, "monthly recap aggregated",
		"employee_id", employeeID,
		"period", p.String(),
		"present_days", saved.PresentDays,
		"absent_days", saved.AbsentDays,
		"session_income", saved.SessionIncome.String(),
	)
	return saved, nil
}

// AggregateAll implements recap.RecapService. Every active employee is
// aggregated in its own transaction; the first failure stops the run.
func (s *RecapServiceImpl) AggregateAll(ctx context.Context, actor user.Actor, req recap.AggregateAllRequest) (recap.AggregateAllResponse, error) {
	if err := actor.Require(user.PermissionRecapGenerate); err != nil {
		return recap.AggregateAllResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return recap.AggregateAllResponse{}, err
	}
	p := req.ParsedPeriod()

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return recap.AggregateAllResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	resp := recap.AggregateAllResponse{Period: p, Recaps: make([]recap.RecapResponse, 0, len(employees))}
	for _, emp := range employees {
		r, err := s.aggregate(ctx, emp.ID, p)
		if err != nil {
			return recap.AggregateAllResponse{}, fmt.Errorf("failed to aggregate employee %s: %w", emp.ID, err)
		}
		resp.Recaps = append(resp.Recaps, recap.ToResponse(r))
	}
	return resp, nil
}

// Get implements recap.RecapService.
func (s *RecapServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (recap.RecapResponse, error) {
	r, err := s.recapRepo.GetByID(ctx, id)
	if err != nil {
		return recap.RecapResponse{}, err
	}
	if err := actor.RequireSelfOr(r.EmployeeID, user.PermissionRecapViewOwn, user.PermissionRecapViewAll); err != nil {
		return recap.RecapResponse{}, err
	}
	return recap.ToResponse(r), nil
}

// List implements recap.RecapService.
func (s *RecapServiceImpl) List(ctx context.Context, actor user.Actor, filter recap.RecapFilter) ([]recap.RecapResponse, error) {
	if !actor.Can(user.PermissionRecapViewAll) {
		if err := actor.Require(user.PermissionRecapViewOwn); err != nil {
			return nil, err
		}
		if actor.EmployeeID == "" {
			return nil, user.ErrNotAnEmployee
		}
		filter.EmployeeID = &actor.EmployeeID
	}

	recaps, err := s.recapRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list recaps: %w", err)
	}
	resp := make([]recap.RecapResponse, 0, len(recaps))
	for _, r := range recaps {
		resp = append(resp, recap.ToResponse(r))
	}
	return resp, nil
}

// Export implements recap.RecapService.
func (s *RecapServiceImpl) Export(ctx context.Context, actor user.Actor, p period.Period, w io.Writer) error {
	if err := actor.Require(user.PermissionRecapViewAll); err != nil {
		return err
	}

	recaps, err := s.recapRepo.List(ctx, recap.RecapFilter{Period: &p})
	if err != nil {
		return fmt.Errorf("failed to list recaps: %w", err)
	}

	names := make(map[string]string, len(recaps))
	for _, r := range recaps {
		emp, err := s.employeeRepo.GetByID(ctx, r.EmployeeID)
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load employee %s: %w", r.EmployeeID, err)
		}
		names[r.EmployeeID] = emp.Name
	}

	return export.RecapWorkbook(w, p, recaps, names)
}
