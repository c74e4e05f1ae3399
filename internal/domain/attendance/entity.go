package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLeave   Status = "leave"
)

func (s Status) IsValid() bool {
	return s == StatusPresent || s == StatusLeave
}

type Source string

const (
	SourceMobile Source = "mobile"
	SourceKiosk  Source = "kiosk"
	SourceWeb    Source = "web"
)

type EventKind string

const (
	EventCheckIn  EventKind = "check_in"
	EventCheckOut EventKind = "check_out"
)

// Attendance is one employee's outcome for one calendar date.
type Attendance struct {
	ID                 string
	EmployeeID         string
	Date               time.Time
	Status             Status
	CheckIn            *time.Time
	CheckOut           *time.Time
	WorkHoursInMinutes *int
	Source             Source
	Note               *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Logs []AttendanceLog
}

// Normalize enforces the status invariant: only a present day carries
// check-in, check-out and duration, and the duration is always derived from
// the two times. Every write path calls it before persisting.
func (a *Attendance) Normalize() {
	if a.Status != StatusPresent {
		a.CheckIn = nil
		a.CheckOut = nil
		a.WorkHoursInMinutes = nil
		return
	}

	if a.CheckIn == nil || a.CheckOut == nil {
		a.WorkHoursInMinutes = nil
		return
	}

	minutes := WorkMinutes(*a.CheckIn, *a.CheckOut)
	a.WorkHoursInMinutes = &minutes
}

// RestoreTimes rebuilds check-in and check-out from the record's event logs.
// Leave clears both times, so a record returning to present needs them back.
func (a *Attendance) RestoreTimes(logs []AttendanceLog) {
	a.CheckIn, a.CheckOut = nil, nil
	for _, l := range logs {
		ts := l.Timestamp
		switch l.Kind {
		case EventCheckIn:
			a.CheckIn = &ts
		case EventCheckOut:
			a.CheckOut = &ts
		}
	}
}

// WorkMinutes returns the whole minutes between two wall-clock times. A
// check-out earlier in the day than the check-in is treated as the next day.
func WorkMinutes(checkIn, checkOut time.Time) int {
	in := secondsOfDay(checkIn)
	out := secondsOfDay(checkOut)
	if out < in {
		out += 24 * 60 * 60
	}
	return (out - in) / 60
}

// eventSlack is how far outside its calendar date an event may be stamped,
// covering UTC offsets and shifts that end after midnight.
const eventSlack = 24 * time.Hour

// OnDate reports whether ts is a plausible event time for the calendar date.
func OnDate(date, ts time.Time) bool {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return !ts.Before(start.Add(-eventSlack)) && ts.Before(start.Add(24*time.Hour+eventSlack))
}

// ShiftTooLong reports whether a check-out is a full day or more away from
// the check-in, which the wall-clock duration rule cannot represent.
func ShiftTooLong(checkIn, checkOut time.Time) bool {
	d := checkOut.Sub(checkIn)
	if d < 0 {
		d = -d
	}
	return d >= 24*time.Hour
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// AttendanceLog is one geofence-checked check-in or check-out event.
// Logs are never updated.
type AttendanceLog struct {
	ID                 string
	AttendanceID       string
	EmployeeID         string
	Date               time.Time
	Kind               EventKind
	Timestamp          time.Time
	Latitude           float64
	Longitude          float64
	AccuracyMeters     *float64
	SelfieRef          *string
	ReferenceLatitude  float64
	ReferenceLongitude float64
	MinRadiusMeters    float64
	MaxRadiusMeters    float64
	DistanceMeters     float64
	WithinGeofence     bool
	Source             Source
	CreatedAt          time.Time
}
