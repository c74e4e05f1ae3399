package attendance

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/geo"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

const maxSelfieSize = 10 << 20 // 10MB

type RecordEventRequest struct {
	EmployeeID string     `json:"employee_id" validate:"required"`
	Date       string     `json:"date" validate:"required"`
	Kind       string     `json:"kind" validate:"required,oneof=check_in check_out"`
	Latitude   *float64   `json:"latitude" validate:"required"`
	Longitude  *float64   `json:"longitude" validate:"required"`
	Accuracy   *float64   `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
	SelfieRef  *string    `json:"selfie_ref,omitempty"`
	Source     string     `json:"source" validate:"required,oneof=mobile kiosk web"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
	Note       *string    `json:"note,omitempty" validate:"omitempty,max=500"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`

	date time.Time
}

func (r *RecordEventRequest) Validate() error {
	errs := validator.Struct(r)

	if r.Date != "" {
		if d, ok := validator.IsValidDate(r.Date); ok {
			r.date = d
		} else {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}

	if r.Latitude != nil && r.Longitude != nil {
		errs = append(errs, r.Point().Check("")...)
	}

	if r.OccurredAt != nil && !r.date.IsZero() && !OnDate(r.date, *r.OccurredAt) {
		errs.Add("occurred_at", "occurred_at must be within one day of date")
	}

	if r.FileHeader != nil {
		filename := strings.ToLower(r.FileHeader.Filename)
		if !strings.HasSuffix(filename, ".jpg") && !strings.HasSuffix(filename, ".jpeg") && !strings.HasSuffix(filename, ".png") {
			errs.Add("selfie", "invalid file type: only jpg, jpeg, png allowed")
		} else if r.FileHeader.Size > maxSelfieSize {
			errs.Add("selfie", "selfie size must not exceed 10MB")
		}
	}

	return errs.Err()
}

// Point is the observed position. Call it only after Validate succeeds.
func (r *RecordEventRequest) Point() geo.Point {
	return geo.Point{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

// ParsedDate is the calendar date, available after Validate succeeds.
func (r *RecordEventRequest) ParsedDate() time.Time {
	return r.date
}

type SetStatusRequest struct {
	ID     string  `json:"-"`
	Status string  `json:"status" validate:"required,oneof=present leave"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

func (r *SetStatusRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	return errs.Err()
}

type AttendanceFilter struct {
	EmployeeID *string
	Status     *string
	DateFrom   *string
	DateTo     *string
	Page       int
	Limit      int
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: present, leave")
	}
	if f.DateFrom != nil {
		if _, ok := validator.IsValidDate(*f.DateFrom); !ok {
			errs.Add("date_from", "date_from must be in YYYY-MM-DD format")
		}
	}
	if f.DateTo != nil {
		if _, ok := validator.IsValidDate(*f.DateTo); !ok {
			errs.Add("date_to", "date_to must be in YYYY-MM-DD format")
		}
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return errs.Err()
}

type AttendanceLogResponse struct {
	ID                 string   `json:"id"`
	Kind               string   `json:"kind"`
	Timestamp          string   `json:"timestamp"`
	Latitude           float64  `json:"latitude"`
	Longitude          float64  `json:"longitude"`
	AccuracyMeters     *float64 `json:"accuracy_meters,omitempty"`
	SelfieRef          *string  `json:"selfie_ref,omitempty"`
	ReferenceLatitude  float64  `json:"reference_latitude"`
	ReferenceLongitude float64  `json:"reference_longitude"`
	MinRadiusMeters    float64  `json:"min_radius_meters"`
	MaxRadiusMeters    float64  `json:"max_radius_meters"`
	DistanceMeters     float64  `json:"distance_meters"`
	WithinGeofence     bool     `json:"within_geofence"`
	Source             string   `json:"source"`
}

type AttendanceResponse struct {
	ID                 string                  `json:"id"`
	EmployeeID         string                  `json:"employee_id"`
	Date               string                  `json:"date"`
	Status             string                  `json:"status"`
	CheckIn            *string                 `json:"check_in,omitempty"`
	CheckOut           *string                 `json:"check_out,omitempty"`
	WorkHoursInMinutes *int                    `json:"work_hours_in_minutes,omitempty"`
	Source             string                  `json:"source"`
	Note               *string                 `json:"note,omitempty"`
	Logs               []AttendanceLogResponse `json:"logs,omitempty"`
	CreatedAt          string                  `json:"created_at"`
	UpdatedAt          string                  `json:"updated_at"`
}

// RecordEventResponse is the updated day record plus the log just written.
type RecordEventResponse struct {
	Attendance AttendanceResponse    `json:"attendance"`
	Log        AttendanceLogResponse `json:"log"`
}

type ListAttendanceResponse struct {
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
	Attendance []AttendanceResponse `json:"attendance"`
}

func ToLogResponse(l AttendanceLog) AttendanceLogResponse {
	return AttendanceLogResponse{
		ID:                 l.ID,
		Kind:               string(l.Kind),
		Timestamp:          l.Timestamp.Format(time.RFC3339),
		Latitude:           l.Latitude,
		Longitude:          l.Longitude,
		AccuracyMeters:     l.AccuracyMeters,
		SelfieRef:          l.SelfieRef,
		ReferenceLatitude:  l.ReferenceLatitude,
		ReferenceLongitude: l.ReferenceLongitude,
		MinRadiusMeters:    l.MinRadiusMeters,
		MaxRadiusMeters:    l.MaxRadiusMeters,
		DistanceMeters:     l.DistanceMeters,
		WithinGeofence:     l.WithinGeofence,
		Source:             string(l.Source),
	}
}

func ToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:                 a.ID,
		EmployeeID:         a.EmployeeID,
		Date:               a.Date.Format("2006-01-02"),
		Status:             string(a.Status),
		WorkHoursInMinutes: a.WorkHoursInMinutes,
		Source:             string(a.Source),
		Note:               a.Note,
		CreatedAt:          a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          a.UpdatedAt.Format(time.RFC3339),
	}
	if a.CheckIn != nil {
		s := a.CheckIn.Format(time.RFC3339)
		resp.CheckIn = &s
	}
	if a.CheckOut != nil {
		s := a.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &s
	}
	for _, l := range a.Logs {
		resp.Logs = append(resp.Logs, ToLogResponse(l))
	}
	return resp
}
