package geo

import (
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	t.Run("same point", func(t *testing.T) {
		p := Point{Latitude: -6.2, Longitude: 106.816666}
		assert.Equal(t, 0.0, Distance(p, p))
	})

	t.Run("one degree of longitude on the equator", func(t *testing.T) {
		d := Distance(Point{0, 0}, Point{0, 1})
		assert.InDelta(t, 111194.93, d, 0.01)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := Point{Latitude: -7.7956, Longitude: 110.3695}
		b := Point{Latitude: -7.7829, Longitude: 110.3671}
		assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
	})
}

func TestValidate(t *testing.T) {
	office := Point{Latitude: -6.2, Longitude: 106.8}
	// roughly 111 m north of the office
	near := Point{Latitude: -6.199, Longitude: 106.8}

	tests := []struct {
		name   string
		point  Point
		band   Band
		within bool
	}{
		{"inside band", near, Band{Min: 0, Max: 150}, true},
		{"outside max", near, Band{Min: 0, Max: 100}, false},
		{"below min", office, Band{Min: 10, Max: 150}, false},
		{"exactly on site with zero min", office, Band{Min: 0, Max: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Validate(office, tt.point, tt.band)
			require.NoError(t, err)
			assert.Equal(t, tt.within, res.WithinBand)
		})
	}
}

func TestValidate_InvalidCoordinates(t *testing.T) {
	office := Point{Latitude: -6.2, Longitude: 106.8}

	_, err := Validate(office, Point{Latitude: 91, Longitude: 0}, Band{Max: 100})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "latitude")

	_, err = Validate(Point{Latitude: 0, Longitude: -181}, office, Band{Max: 100})
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "reference_longitude")
}
