package payroll

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/export"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/messaging"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

type PayrollServiceImpl struct {
	transactor   database.Transactor
	payrollRepo  payroll.PayrollRepository
	recapRepo    recap.RecapRepository
	employeeRepo employee.EmployeeRepository
	publisher    messaging.Publisher
	policy       payroll.Policy
	now          func() time.Time
}

func NewPayrollService(
	transactor database.Transactor,
	payrollRepo payroll.PayrollRepository,
	recapRepo recap.RecapRepository,
	employeeRepo employee.EmployeeRepository,
	publisher messaging.Publisher,
	policy payroll.Policy,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		transactor:   transactor,
		payrollRepo:  payrollRepo,
		recapRepo:    recapRepo,
		employeeRepo: employeeRepo,
		publisher:    publisher,
		policy:       policy,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// payrollEvent is the payload carried by payroll lifecycle events.
type payrollEvent struct {
	PayrollID  string        `json:"payroll_id"`
	EmployeeID string        `json:"employee_id"`
	Period     period.Period `json:"period"`
	Total      string        `json:"total"`
	Status     string        `json:"status"`
}

// publish never fails the caller; the payroll row is already committed.
func (s *PayrollServiceImpl) publish(ctx context.Context, eventType string, p payroll.Payroll) {
	err := s.publisher.Publish(ctx, messaging.Event{
		Type:       eventType,
		ID:         uuid.NewString(),
		OccurredAt: s.now(),
		Payload: payrollEvent{
			PayrollID:  p.ID,
			EmployeeID: p.EmployeeID,
			Period:     p.Period,
			Total:      p.Total.StringFixed(0),
			Status:     string(p.Status),
		},
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to publish payroll event", "event", eventType, "payroll_id", p.ID, "error", err)
	}
}

// ========== GENERATION ==========

// GenerateFromRecap implements payroll.PayrollService.
func (s *PayrollServiceImpl) GenerateFromRecap(ctx context.Context, actor user.Actor, req payroll.GenerateRequest) (payroll.PayrollResponse, error) {
	if err := actor.Require(user.PermissionPayrollGenerate); err != nil {
		return payroll.PayrollResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	var created payroll.Payroll
	err := s.transactor.WithinSnapshot(ctx, func(ctx context.Context) error {
		r, err := s.recapRepo.GetByID(ctx, req.RecapID)
		if err != nil {
			return err
		}
		emp, err := s.employeeRepo.GetByID(ctx, r.EmployeeID)
		if err != nil {
			return err
		}

		exists, err := s.payrollRepo.ExistsForPeriod(ctx, emp.ID, r.Period)
		if err != nil {
			return fmt.Errorf("failed to check existing payroll: %w", err)
		}
		if exists {
			return payroll.ErrPayrollAlreadyGenerated
		}

		p, err := s.policy.Compute(emp, r)
		if err != nil {
			return err
		}
		p.CreatedBy = actor.Ref()

		// the unique (employee, period) index still guards concurrent generators
		created, err = s.payrollRepo.Create(ctx, p)
		return err
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	slog.InfoContext(ctx, "payroll generated",
		"payroll_id", created.ID,
		"employee_id", created.EmployeeID,
		"period", created.Period.String(),
		"total", created.Total.String(),
	)
	s.publish(ctx, messaging.EventPayrollGenerated, created)
	return payroll.ToResponse(created), nil
}

// ========== STATUS ==========

// Approve implements payroll.PayrollService.
func (s *PayrollServiceImpl) Approve(ctx context.Context, actor user.Actor, id string) (payroll.PayrollResponse, error) {
	if err := actor.Require(user.PermissionPayrollApprove); err != nil {
		return payroll.PayrollResponse{}, err
	}

	p, err := s.advance(ctx, id, payroll.PayrollStatusApproved, func(p *payroll.Payroll, now time.Time) {
		by := actor.Ref()
		p.ApprovedBy = &by
		p.ApprovedAt = &now
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	s.publish(ctx, messaging.EventPayrollApproved, p)
	return payroll.ToResponse(p), nil
}

// MarkPaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, actor user.Actor, id string) (payroll.PayrollResponse, error) {
	if err := actor.Require(user.PermissionPayrollPay); err != nil {
		return payroll.PayrollResponse{}, err
	}

	p, err := s.advance(ctx, id, payroll.PayrollStatusPaid, func(p *payroll.Payroll, now time.Time) {
		p.PaidAt = &now
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	s.publish(ctx, messaging.EventPayrollPaid, p)
	return payroll.ToResponse(p), nil
}

func (s *PayrollServiceImpl) advance(ctx context.Context, id string, target payroll.PayrollStatus, stamp func(p *payroll.Payroll, now time.Time)) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.payrollRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := p.Status.Advance(target); err != nil {
			return err
		}
		p.Status = target
		stamp(&p, s.now())
		return s.payrollRepo.UpdateHeader(ctx, p)
	})
	if err != nil {
		return payroll.Payroll{}, err
	}

	slog.InfoContext(ctx, "payroll status changed", "payroll_id", p.ID, "status", p.Status)
	return p, nil
}

// ========== ADJUSTMENTS ==========

// AddAdjustment implements payroll.PayrollService.
func (s *PayrollServiceImpl) AddAdjustment(ctx context.Context, actor user.Actor, req payroll.AddAdjustmentRequest) (payroll.PayrollResponse, error) {
	if err := actor.Require(user.PermissionPayrollGenerate); err != nil {
		return payroll.PayrollResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.editDraft(ctx, req.PayrollID, func(ctx context.Context, p payroll.Payroll) error {
		_, err := s.payrollRepo.AddComponent(ctx, payroll.Component{
			PayrollID: p.ID,
			Code:      payroll.ComponentAdjustment,
			Label:     req.Label,
			Amount:    req.Amount,
		})
		return err
	})
}

// RemoveComponent implements payroll.PayrollService. Generated lines are fixed.
func (s *PayrollServiceImpl) RemoveComponent(ctx context.Context, actor user.Actor, payrollID, componentID string) (payroll.PayrollResponse, error) {
	if err := actor.Require(user.PermissionPayrollGenerate); err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.editDraft(ctx, payrollID, func(ctx context.Context, p payroll.Payroll) error {
		for _, c := range p.Components {
			if c.ID != componentID {
				continue
			}
			if c.Code != payroll.ComponentAdjustment {
				return payroll.ErrGeneratedComponent
			}
			return s.payrollRepo.DeleteComponent(ctx, p.ID, componentID)
		}
		return payroll.ErrComponentNotFound
	})
}

// editDraft runs edit on a locked draft payroll, then reloads it and stores
// the recomputed total.
func (s *PayrollServiceImpl) editDraft(ctx context.Context, id string, edit func(ctx context.Context, p payroll.Payroll) error) (payroll.PayrollResponse, error) {
	var p payroll.Payroll
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.payrollRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if locked.Status != payroll.PayrollStatusDraft {
			return payroll.ErrPayrollNotDraft
		}
		if err := edit(ctx, locked); err != nil {
			return err
		}

		p, err = s.payrollRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		p.Recompute()
		return s.payrollRepo.UpdateHeader(ctx, p)
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	slog.InfoContext(ctx, "payroll components changed", "payroll_id", p.ID, "total", p.Total.String())
	return payroll.ToResponse(p), nil
}

// ========== PAYMENTS ==========

// RecordPayment implements payroll.PayrollService.
func (s *PayrollServiceImpl) RecordPayment(ctx context.Context, actor user.Actor, req payroll.RecordPaymentRequest) (payroll.PaymentResponse, error) {
	if err := actor.Require(user.PermissionPayrollPay); err != nil {
		return payroll.PaymentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PaymentResponse{}, err
	}

	var created payroll.Payment
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.payrollRepo.GetForUpdate(ctx, req.PayrollID)
		if err != nil {
			return err
		}
		if p.Status != payroll.PayrollStatusApproved && p.Status != payroll.PayrollStatusPaid {
			return payroll.ErrPayrollNotApproved
		}

		created, err = s.payrollRepo.CreatePayment(ctx, payroll.Payment{
			PayrollID:    p.ID,
			TransferDate: req.ParsedTransferDate(),
			ProofRef:     req.ProofRef,
			Status:       payroll.PaymentStatusPending,
			Note:         req.Note,
		})
		return err
	})
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	slog.InfoContext(ctx, "payroll payment recorded", "payment_id", created.ID, "payroll_id", created.PayrollID)
	return payroll.ToPaymentResponse(created), nil
}

// UpdatePaymentStatus implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdatePaymentStatus(ctx context.Context, actor user.Actor, req payroll.UpdatePaymentStatusRequest) (payroll.PaymentResponse, error) {
	if err := actor.Require(user.PermissionPayrollPay); err != nil {
		return payroll.PaymentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PaymentResponse{}, err
	}

	var pay payroll.Payment
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		pay, err = s.payrollRepo.GetPaymentForUpdate(ctx, req.PaymentID)
		if err != nil {
			return err
		}
		target := payroll.PaymentStatus(req.Status)
		if err := pay.Status.Advance(target); err != nil {
			return err
		}

		by := actor.Ref()
		pay.Status = target
		pay.ApprovedBy = &by
		if req.Note != nil {
			pay.Note = req.Note
		}
		return s.payrollRepo.UpdatePayment(ctx, pay)
	})
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	slog.InfoContext(ctx, "payroll payment updated", "payment_id", pay.ID, "status", pay.Status)
	return payroll.ToPaymentResponse(pay), nil
}

// ========== QUERIES ==========

// Get implements payroll.PayrollService.
func (s *PayrollServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (payroll.PayrollResponse, error) {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.ToResponse(p), nil
}

func (s *PayrollServiceImpl) load(ctx context.Context, actor user.Actor, id string) (payroll.Payroll, error) {
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.Payroll{}, err
	}
	if err := actor.RequireSelfOr(p.EmployeeID, user.PermissionPayrollViewOwn, user.PermissionPayrollViewAll); err != nil {
		return payroll.Payroll{}, err
	}
	return p, nil
}

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, actor user.Actor, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}
	if !actor.Can(user.PermissionPayrollViewAll) {
		if err := actor.Require(user.PermissionPayrollViewOwn); err != nil {
			return payroll.ListPayrollResponse{}, err
		}
		if actor.EmployeeID == "" {
			return payroll.ListPayrollResponse{}, user.ErrNotAnEmployee
		}
		filter.EmployeeID = &actor.EmployeeID
	}

	payrolls, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payrolls: %w", err)
	}

	resp := payroll.ListPayrollResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Payrolls:   make([]payroll.PayrollResponse, 0, len(payrolls)),
	}
	for _, p := range payrolls {
		resp.Payrolls = append(resp.Payrolls, payroll.ToResponse(p))
	}
	return resp, nil
}

// Payslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) Payslip(ctx context.Context, actor user.Actor, id string, w io.Writer) error {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	emp, err := s.employeeRepo.GetByID(ctx, p.EmployeeID)
	if err != nil {
		return err
	}
	return export.Payslip(w, emp, p, s.policy.Currency)
}
