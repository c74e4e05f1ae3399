package session

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type SessionServiceImpl struct {
	transactor      database.Transactor
	workSessionRepo session.WorkSessionRepository
	realizationRepo session.RealizationRepository
	employeeRepo    employee.EmployeeRepository
	now             func() time.Time
}

func NewSessionService(
	transactor database.Transactor,
	workSessionRepo session.WorkSessionRepository,
	realizationRepo session.RealizationRepository,
	employeeRepo employee.EmployeeRepository,
) session.SessionService {
	return &SessionServiceImpl{
		transactor:      transactor,
		workSessionRepo: workSessionRepo,
		realizationRepo: realizationRepo,
		employeeRepo:    employeeRepo,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// ==================== WORK SESSIONS ====================

// CreateWorkSession implements session.SessionService.
func (s *SessionServiceImpl) CreateWorkSession(ctx context.Context, actor user.Actor, req session.CreateWorkSessionRequest) (session.WorkSessionResponse, error) {
	if err := actor.Require(user.PermissionSessionManage); err != nil {
		return session.WorkSessionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return session.WorkSessionResponse{}, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	created, err := s.workSessionRepo.Create(ctx, session.WorkSession{
		Category:   session.Category(req.Category),
		DayOfWeek:  time.Weekday(*req.DayOfWeek),
		SlotNumber: req.SlotNumber,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Rate:       req.Rate,
		Active:     active,
	})
	if err != nil {
		return session.WorkSessionResponse{}, fmt.Errorf("failed to create work session: %w", err)
	}
	return session.ToWorkSessionResponse(created), nil
}

// UpdateWorkSession implements session.SessionService. Rate changes apply to
// every recap aggregated afterwards.
func (s *SessionServiceImpl) UpdateWorkSession(ctx context.Context, actor user.Actor, req session.UpdateWorkSessionRequest) (session.WorkSessionResponse, error) {
	if err := actor.Require(user.PermissionSessionManage); err != nil {
		return session.WorkSessionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return session.WorkSessionResponse{}, err
	}

	var ws session.WorkSession
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		ws, err = s.workSessionRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.StartTime != nil {
			ws.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			ws.EndTime = *req.EndTime
		}
		if req.Rate != nil {
			ws.Rate = *req.Rate
		}
		if req.Active != nil {
			ws.Active = *req.Active
		}

		start, _ := validator.IsValidClock(ws.StartTime)
		end, _ := validator.IsValidClock(ws.EndTime)
		if !end.After(start) {
			var errs validator.ValidationErrors
			errs.Add("end_time", "end_time must be after start_time")
			return errs
		}

		return s.workSessionRepo.Update(ctx, ws)
	})
	if err != nil {
		return session.WorkSessionResponse{}, err
	}
	return session.ToWorkSessionResponse(ws), nil
}

func (s *SessionServiceImpl) requireView(actor user.Actor) error {
	if actor.Can(user.PermissionSessionViewAll) {
		return nil
	}
	return actor.Require(user.PermissionSessionViewOwn)
}

// GetWorkSession implements session.SessionService.
func (s *SessionServiceImpl) GetWorkSession(ctx context.Context, actor user.Actor, id string) (session.WorkSessionResponse, error) {
	if err := s.requireView(actor); err != nil {
		return session.WorkSessionResponse{}, err
	}
	ws, err := s.workSessionRepo.GetByID(ctx, id)
	if err != nil {
		return session.WorkSessionResponse{}, err
	}
	return session.ToWorkSessionResponse(ws), nil
}

// ListWorkSessions implements session.SessionService.
func (s *SessionServiceImpl) ListWorkSessions(ctx context.Context, actor user.Actor, filter session.WorkSessionFilter) ([]session.WorkSessionResponse, error) {
	if err := s.requireView(actor); err != nil {
		return nil, err
	}
	sessions, err := s.workSessionRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list work sessions: %w", err)
	}

	resp := make([]session.WorkSessionResponse, 0, len(sessions))
	for _, ws := range sessions {
		resp = append(resp, session.ToWorkSessionResponse(ws))
	}
	return resp, nil
}

// ==================== REALIZATIONS ====================

// Submit implements session.SessionService. At most one live claim exists
// per (date, work session), whoever makes it.
func (s *SessionServiceImpl) Submit(ctx context.Context, actor user.Actor, req session.SubmitRealizationRequest) (session.RealizationResponse, error) {
	if err := req.Validate(); err != nil {
		return session.RealizationResponse{}, err
	}
	if err := actor.RequireSelfOr(req.EmployeeID, user.PermissionSessionClaim, user.PermissionSessionClaimAny); err != nil {
		return session.RealizationResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return session.RealizationResponse{}, err
	}
	if !emp.IsActive() {
		return session.RealizationResponse{}, employee.ErrEmployeeInactive
	}

	date := req.ParsedDate()
	var created session.SessionRealization
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		ws, err := s.workSessionRepo.GetByID(ctx, req.WorkSessionID)
		if err != nil {
			return err
		}
		if !ws.Active {
			return session.ErrWorkSessionInactive
		}
		if !ws.Matches(date) {
			return fmt.Errorf("%w: %s is a %s, session runs on %s", session.ErrDateDayMismatch, req.Date, date.Weekday(), ws.DayOfWeek)
		}

		created, err = s.realizationRepo.Create(ctx, session.SessionRealization{
			EmployeeID:    req.EmployeeID,
			Date:          date,
			WorkSessionID: ws.ID,
			Status:        session.StatusSubmitted,
			Source:        session.Source(req.Source),
			Note:          req.Note,
		})
		if err != nil {
			return err
		}
		created.WorkSession = &ws
		return nil
	})
	if err != nil {
		return session.RealizationResponse{}, err
	}

	slog.InfoContext(ctx, "session claim submitted", "realization_id", created.ID, "employee_id", created.EmployeeID, "work_session_id", created.WorkSessionID)
	return session.ToRealizationResponse(created), nil
}

// Approve implements session.SessionService.
func (s *SessionServiceImpl) Approve(ctx context.Context, actor user.Actor, req session.ReviewRequest) (session.RealizationResponse, error) {
	return s.review(ctx, actor, req, session.ActionApprove)
}

// Reject implements session.SessionService. A note is mandatory.
func (s *SessionServiceImpl) Reject(ctx context.Context, actor user.Actor, req session.ReviewRequest) (session.RealizationResponse, error) {
	return s.review(ctx, actor, req, session.ActionReject)
}

func (s *SessionServiceImpl) review(ctx context.Context, actor user.Actor, req session.ReviewRequest, action session.Action) (session.RealizationResponse, error) {
	if err := req.Validate(); err != nil {
		return session.RealizationResponse{}, err
	}
	if err := actor.Require(user.PermissionSessionApprove); err != nil {
		return session.RealizationResponse{}, err
	}

	approverID := actor.Ref()

	var r session.SessionRealization
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = s.realizationRepo.GetForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if actor.IsEmployee(r.EmployeeID) {
			return session.ErrSelfApproval
		}
		if err := r.Review(action, approverID, req.Note, s.now()); err != nil {
			return err
		}
		if err := s.realizationRepo.UpdateReview(ctx, r); err != nil {
			return fmt.Errorf("failed to update session realization: %w", err)
		}

		ws, err := s.workSessionRepo.GetByID(ctx, r.WorkSessionID)
		if err != nil {
			return err
		}
		r.WorkSession = &ws
		return nil
	})
	if err != nil {
		return session.RealizationResponse{}, err
	}

	slog.InfoContext(ctx, "session claim reviewed", "realization_id", r.ID, "action", action, "status", r.Status, "by", approverID)
	return session.ToRealizationResponse(r), nil
}

// GetRealization implements session.SessionService.
func (s *SessionServiceImpl) GetRealization(ctx context.Context, actor user.Actor, id string) (session.RealizationResponse, error) {
	r, err := s.realizationRepo.GetByID(ctx, id)
	if err != nil {
		return session.RealizationResponse{}, err
	}
	if err := actor.RequireSelfOr(r.EmployeeID, user.PermissionSessionViewOwn, user.PermissionSessionViewAll); err != nil {
		return session.RealizationResponse{}, err
	}

	ws, err := s.workSessionRepo.GetByID(ctx, r.WorkSessionID)
	if err != nil {
		return session.RealizationResponse{}, err
	}
	r.WorkSession = &ws
	return session.ToRealizationResponse(r), nil
}

// ListRealizations implements session.SessionService.
func (s *SessionServiceImpl) ListRealizations(ctx context.Context, actor user.Actor, filter session.RealizationFilter) (session.ListRealizationResponse, error) {
	if err := filter.Validate(); err != nil {
		return session.ListRealizationResponse{}, err
	}
	if !actor.Can(user.PermissionSessionViewAll) {
		if err := actor.Require(user.PermissionSessionViewOwn); err != nil {
			return session.ListRealizationResponse{}, err
		}
		if actor.EmployeeID == "" {
			return session.ListRealizationResponse{}, user.ErrNotAnEmployee
		}
		filter.EmployeeID = &actor.EmployeeID
	}

	items, total, err := s.realizationRepo.List(ctx, filter)
	if err != nil {
		return session.ListRealizationResponse{}, fmt.Errorf("failed to list session realizations: %w", err)
	}

	resp := session.ListRealizationResponse{
		TotalCount:   total,
		Page:         filter.Page,
		Limit:        filter.Limit,
		TotalPages:   int(math.Ceil(float64(total) / float64(filter.Limit))),
		Realizations: make([]session.RealizationResponse, 0, len(items)),
	}
	for _, r := range items {
		resp.Realizations = append(resp.Realizations, session.ToRealizationResponse(r))
	}
	return resp, nil
}
