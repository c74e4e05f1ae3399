package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(t *testing.T, day int, hhmmss string) time.Time {
	t.Helper()
	c, err := time.Parse("15:04:05", hhmmss)
	require.NoError(t, err)
	return time.Date(2025, 3, day, c.Hour(), c.Minute(), c.Second(), 0, time.UTC)
}

func TestWorkMinutes(t *testing.T) {
	tests := []struct {
		name     string
		in, out  string
		outDay   int
		expected int
	}{
		{"day shift", "08:45:00", "17:10:00", 10, 505},
		{"overnight shift", "22:30:00", "06:15:00", 11, 465},
		{"overnight shift recorded on same date", "22:30:00", "06:15:00", 10, 465},
		{"same instant", "09:00:00", "09:00:00", 10, 0},
		{"partial minute is truncated", "09:00:00", "09:01:59", 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WorkMinutes(clock(t, 10, tt.in), clock(t, tt.outDay, tt.out))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWorkMinutes_Property(t *testing.T) {
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for in := 0; in < 24*60; in += 37 {
		for out := 0; out < 24*60; out += 41 {
			checkIn := base.Add(time.Duration(in) * time.Minute)
			checkOut := base.Add(time.Duration(out) * time.Minute)
			want := out - in
			if out < in {
				want = out + 24*60 - in
			}
			assert.Equal(t, want, WorkMinutes(checkIn, checkOut))
		}
	}
}

func TestNormalize(t *testing.T) {
	in := clock(t, 10, "08:45:00")
	out := clock(t, 10, "17:10:00")

	t.Run("present with both times derives duration", func(t *testing.T) {
		stale := 1
		a := Attendance{Status: StatusPresent, CheckIn: &in, CheckOut: &out, WorkHoursInMinutes: &stale}
		a.Normalize()
		require.NotNil(t, a.WorkHoursInMinutes)
		assert.Equal(t, 505, *a.WorkHoursInMinutes)
	})

	t.Run("present without check-out has no duration", func(t *testing.T) {
		stale := 10
		a := Attendance{Status: StatusPresent, CheckIn: &in, WorkHoursInMinutes: &stale}
		a.Normalize()
		assert.Nil(t, a.WorkHoursInMinutes)
		assert.NotNil(t, a.CheckIn)
	})

	t.Run("leave clears every time field", func(t *testing.T) {
		d := 505
		a := Attendance{Status: StatusLeave, CheckIn: &in, CheckOut: &out, WorkHoursInMinutes: &d}
		a.Normalize()
		assert.Nil(t, a.CheckIn)
		assert.Nil(t, a.CheckOut)
		assert.Nil(t, a.WorkHoursInMinutes)
	})
}

func TestRestoreTimes(t *testing.T) {
	in := clock(t, 10, "08:45:00")
	out := clock(t, 10, "17:10:00")

	a := Attendance{Status: StatusLeave}
	a.Normalize()
	a.Status = StatusPresent
	a.RestoreTimes([]AttendanceLog{
		{Kind: EventCheckIn, Timestamp: in},
		{Kind: EventCheckOut, Timestamp: out},
	})
	a.Normalize()

	require.NotNil(t, a.CheckIn)
	require.NotNil(t, a.CheckOut)
	assert.True(t, in.Equal(*a.CheckIn))
	assert.True(t, out.Equal(*a.CheckOut))
	require.NotNil(t, a.WorkHoursInMinutes)
	assert.Equal(t, 505, *a.WorkHoursInMinutes)

	a.RestoreTimes(nil)
	assert.Nil(t, a.CheckIn)
	assert.Nil(t, a.CheckOut)
}

func TestOnDate(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		ts   time.Time
		want bool
	}{
		{"same day", clock(t, 10, "08:00:00"), true},
		{"previous evening in UTC", clock(t, 9, "23:30:00"), true},
		{"start of slack", clock(t, 9, "00:00:00"), true},
		{"overnight check-out", clock(t, 11, "06:15:00"), true},
		{"last second of slack", clock(t, 11, "23:59:59"), true},
		{"two days later", clock(t, 12, "00:00:00"), false},
		{"weeks later", time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC), false},
		{"two days earlier", clock(t, 8, "23:59:59"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OnDate(date, tt.ts))
		})
	}
}

func TestShiftTooLong(t *testing.T) {
	in := clock(t, 10, "22:30:00")
	assert.False(t, ShiftTooLong(in, clock(t, 11, "06:15:00")))
	assert.False(t, ShiftTooLong(in, clock(t, 10, "06:15:00")))
	assert.True(t, ShiftTooLong(in, clock(t, 11, "22:30:00")))
	assert.True(t, ShiftTooLong(in, clock(t, 12, "06:15:00")))
}
