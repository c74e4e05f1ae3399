package period

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p, err := Parse("2025-02")
	require.NoError(t, err)
	assert.Equal(t, New(2025, time.February), p)
	assert.Equal(t, "2025-02", p.String())

	for _, bad := range []string{"", "2025-13", "2025/02", "25-02", "2025-02-01"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestBounds(t *testing.T) {
	p := New(2024, time.February)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), p.End())
	assert.Len(t, p.Days(), 29)
	assert.True(t, p.Contains(time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestWeekdays(t *testing.T) {
	assert.Len(t, New(2025, time.January).Weekdays(), 23)
	assert.Len(t, New(2025, time.February).Weekdays(), 20)

	for _, d := range New(2025, time.March).Weekdays() {
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
	}
}

func TestJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Period Period `json:"period"`
	}{New(2025, time.March)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"period":"2025-03"}`, string(b))

	var out struct {
		Period Period `json:"period"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"period":"2024-11"}`), &out))
	assert.Equal(t, New(2024, time.November), out.Period)

	assert.Error(t, json.Unmarshal([]byte(`{"period":"november"}`), &out))
}
