package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/geo"
	"github.com/cmlabs-hris/hris-payroll-go/internal/service/file"
)

// Geofence is the organization reference point and accepted radius band.
type Geofence struct {
	Reference geo.Point
	Band      geo.Band
}

type AttendanceServiceImpl struct {
	transactor     database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	fileService    file.FileService
	geofence       Geofence
	now            func() time.Time
}

func NewAttendanceService(
	transactor database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	geofence Geofence,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		transactor:     transactor,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		fileService:    fileService,
		geofence:       geofence,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// RecordEvent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordEvent(ctx context.Context, actor user.Actor, req attendance.RecordEventRequest) (attendance.RecordEventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordEventResponse{}, err
	}
	if !(actor.IsEmployee(req.EmployeeID) && actor.Can(user.PermissionAttendanceRecord)) {
		if err := actor.Require(user.PermissionAttendanceRecordAny); err != nil {
			return attendance.RecordEventResponse{}, err
		}
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.RecordEventResponse{}, err
	}
	if !emp.IsActive() {
		return attendance.RecordEventResponse{}, employee.ErrEmployeeInactive
	}

	date := req.ParsedDate()
	kind := attendance.EventKind(req.Kind)

	// Cheap pre-check so a duplicate does not upload a selfie first; the
	// authoritative check runs again inside the transaction.
	exists, err := s.attendanceRepo.HasLog(ctx, req.EmployeeID, date, kind)
	if err != nil {
		return attendance.RecordEventResponse{}, fmt.Errorf("failed to check existing %s: %w", kind, err)
	}
	if exists {
		return attendance.RecordEventResponse{}, attendance.ErrDuplicateEvent
	}

	result, err := geo.Validate(s.geofence.Reference, req.Point(), s.geofence.Band)
	if err != nil {
		return attendance.RecordEventResponse{}, err
	}
	if !result.WithinBand {
		slog.WarnContext(ctx, "attendance event outside geofence",
			"employee_id", req.EmployeeID,
			"kind", kind,
			"distance_meters", math.Round(result.DistanceMeters),
			"max_radius_meters", s.geofence.Band.Max,
		)
	}

	timestamp := s.now()
	if req.OccurredAt != nil {
		timestamp = req.OccurredAt.UTC()
	} else if !attendance.OnDate(date, timestamp) {
		return attendance.RecordEventResponse{}, attendance.ErrEventOutsideDate
	}

	selfieRef := req.SelfieRef
	if req.File != nil && req.FileHeader != nil {
		ref, err := s.fileService.UploadSelfie(ctx, req.EmployeeID, date, req.Kind, req.File, req.FileHeader.Filename)
		if err != nil {
			return attendance.RecordEventResponse{}, fmt.Errorf("failed to store selfie: %w", err)
		}
		selfieRef = &ref
	}

	var (
		record attendance.Attendance
		log    attendance.AttendanceLog
	)
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.attendanceRepo.HasLog(ctx, req.EmployeeID, date, kind)
		if err != nil {
			return fmt.Errorf("failed to check existing %s: %w", kind, err)
		}
		if exists {
			return attendance.ErrDuplicateEvent
		}

		existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to load attendance record: %w", err)
		}

		switch kind {
		case attendance.EventCheckIn:
			record, err = s.applyCheckIn(ctx, existing, req, date, timestamp)
		case attendance.EventCheckOut:
			record, err = s.applyCheckOut(ctx, existing, timestamp)
		}
		if err != nil {
			return err
		}

		log, err = s.attendanceRepo.CreateLog(ctx, attendance.AttendanceLog{
			AttendanceID:       record.ID,
			EmployeeID:         req.EmployeeID,
			Date:               date,
			Kind:               kind,
			Timestamp:          timestamp,
			Latitude:           *req.Latitude,
			Longitude:          *req.Longitude,
			AccuracyMeters:     req.Accuracy,
			SelfieRef:          selfieRef,
			ReferenceLatitude:  s.geofence.Reference.Latitude,
			ReferenceLongitude: s.geofence.Reference.Longitude,
			MinRadiusMeters:    s.geofence.Band.Min,
			MaxRadiusMeters:    s.geofence.Band.Max,
			DistanceMeters:     result.DistanceMeters,
			WithinGeofence:     result.WithinBand,
			Source:             attendance.Source(req.Source),
		})
		if err != nil {
			return fmt.Errorf("failed to create attendance log: %w", err)
		}

		record.Logs, err = s.attendanceRepo.ListLogs(ctx, record.ID)
		if err != nil {
			return fmt.Errorf("failed to load attendance logs: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.RecordEventResponse{}, err
	}

	slog.InfoContext(ctx, "attendance event recorded",
		"employee_id", req.EmployeeID,
		"date", date.Format("2006-01-02"),
		"kind", kind,
		"within_geofence", result.WithinBand,
	)

	return attendance.RecordEventResponse{
		Attendance: attendance.ToResponse(record),
		Log:        attendance.ToLogResponse(log),
	}, nil
}

func (s *AttendanceServiceImpl) applyCheckIn(ctx context.Context, existing *attendance.Attendance, req attendance.RecordEventRequest, date, timestamp time.Time) (attendance.Attendance, error) {
	if existing == nil {
		record := attendance.Attendance{
			EmployeeID: req.EmployeeID,
			Date:       date,
			Status:     attendance.StatusPresent,
			CheckIn:    &timestamp,
			Source:     attendance.Source(req.Source),
			Note:       req.Note,
		}
		record.Normalize()
		created, err := s.attendanceRepo.Create(ctx, record)
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to create attendance record: %w", err)
		}
		return created, nil
	}

	record := *existing
	if record.Status == attendance.StatusLeave {
		return attendance.Attendance{}, attendance.ErrEmployeeOnLeave
	}
	if record.CheckIn != nil {
		return attendance.Attendance{}, attendance.ErrDuplicateEvent
	}
	record.CheckIn = &timestamp
	if req.Note != nil {
		record.Note = req.Note
	}
	record.Normalize()
	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return record, nil
}

func (s *AttendanceServiceImpl) applyCheckOut(ctx context.Context, existing *attendance.Attendance, timestamp time.Time) (attendance.Attendance, error) {
	if existing == nil || existing.Status != attendance.StatusPresent || existing.CheckIn == nil {
		return attendance.Attendance{}, attendance.ErrNoCheckInFound
	}

	if attendance.ShiftTooLong(*existing.CheckIn, timestamp) {
		return attendance.Attendance{}, attendance.ErrCheckOutTooLate
	}

	record := *existing
	record.CheckOut = &timestamp
	record.Normalize()
	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return record, nil
}

// SetStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SetStatus(ctx context.Context, actor user.Actor, req attendance.SetStatusRequest) (attendance.AttendanceResponse, error) {
	if err := actor.Require(user.PermissionAttendanceManage); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var record attendance.Attendance
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		record, err = s.attendanceRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		logs, err := s.attendanceRepo.ListLogs(ctx, record.ID)
		if err != nil {
			return fmt.Errorf("failed to load attendance logs: %w", err)
		}

		record.Status = attendance.Status(req.Status)
		if req.Note != nil {
			record.Note = req.Note
		}
		if record.Status == attendance.StatusPresent {
			record.RestoreTimes(logs)
		}
		record.Normalize()
		if err := s.attendanceRepo.Update(ctx, record); err != nil {
			return fmt.Errorf("failed to update attendance status: %w", err)
		}
		record.Logs = logs
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.InfoContext(ctx, "attendance status changed", "attendance_id", record.ID, "status", record.Status, "by", actor.UserID)
	return attendance.ToResponse(record), nil
}

// GetRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetRecord(ctx context.Context, actor user.Actor, id string) (attendance.AttendanceResponse, error) {
	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := actor.RequireSelfOr(record.EmployeeID, user.PermissionAttendanceViewOwn, user.PermissionAttendanceViewAll); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record.Logs, err = s.attendanceRepo.ListLogs(ctx, record.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance logs: %w", err)
	}
	return attendance.ToResponse(record), nil
}

// ListRecords implements attendance.AttendanceService. Without view_all the
// filter is pinned to the actor's own records.
func (s *AttendanceServiceImpl) ListRecords(ctx context.Context, actor user.Actor, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if !actor.Can(user.PermissionAttendanceViewAll) {
		if err := actor.Require(user.PermissionAttendanceViewOwn); err != nil {
			return attendance.ListAttendanceResponse{}, err
		}
		if actor.EmployeeID == "" {
			return attendance.ListAttendanceResponse{}, user.ErrNotAnEmployee
		}
		filter.EmployeeID = &actor.EmployeeID
	}

	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.ListAttendanceResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Attendance: make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Attendance = append(resp.Attendance, attendance.ToResponse(r))
	}
	return resp, nil
}

// MarkLeave implements attendance.LeaveMarker.
func (s *AttendanceServiceImpl) MarkLeave(ctx context.Context, employeeID string, date time.Time) error {
	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return fmt.Errorf("failed to load attendance record: %w", err)
	}

	if existing == nil {
		record := attendance.Attendance{
			EmployeeID: employeeID,
			Date:       date,
			Status:     attendance.StatusLeave,
			Source:     attendance.SourceWeb,
		}
		record.Normalize()
		if _, err := s.attendanceRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to create leave record: %w", err)
		}
		return nil
	}

	record := *existing
	record.Status = attendance.StatusLeave
	record.Normalize()
	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to mark leave: %w", err)
	}
	return nil
}

// ClearLeave implements attendance.LeaveMarker. A leave record that carries
// recorded events is reverted to present, with its times rebuilt from those
// events, instead of being removed.
func (s *AttendanceServiceImpl) ClearLeave(ctx context.Context, employeeID string, date time.Time) error {
	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return fmt.Errorf("failed to load attendance record: %w", err)
	}
	if existing == nil || existing.Status != attendance.StatusLeave {
		return nil
	}

	err = s.attendanceRepo.Delete(ctx, existing.ID)
	if errors.Is(err, attendance.ErrHasEvents) {
		logs, err := s.attendanceRepo.ListLogs(ctx, existing.ID)
		if err != nil {
			return fmt.Errorf("failed to load attendance logs: %w", err)
		}
		record := *existing
		record.Status = attendance.StatusPresent
		record.RestoreTimes(logs)
		record.Normalize()
		return s.attendanceRepo.Update(ctx, record)
	}
	if err != nil {
		return fmt.Errorf("failed to clear leave: %w", err)
	}
	return nil
}
