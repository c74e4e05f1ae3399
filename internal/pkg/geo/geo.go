// Package geo validates observed coordinates against a reference point and
// an accepted radius band.
package geo

import (
	"math"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

const earthRadiusMeters = 6371000

type Point struct {
	Latitude  float64
	Longitude float64
}

// Band is the accepted distance window in meters. Min is normally 0.
type Band struct {
	Min float64
	Max float64
}

type Result struct {
	DistanceMeters float64
	WithinBand     bool
}

// Check returns field errors for out-of-range coordinates. prefix names the
// fields, e.g. "" gives "latitude" and "reference_" gives "reference_latitude".
func (p Point) Check(prefix string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		errs.Add(prefix+"latitude", "latitude must be between -90 and 90")
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		errs.Add(prefix+"longitude", "longitude must be between -180 and 180")
	}
	return errs
}

// Distance is the haversine great-circle distance between a and b in meters.
func Distance(a, b Point) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// Validate computes the distance from reference to observed and whether it
// falls inside band (inclusive on both ends). Invalid coordinates are
// rejected and nothing is computed.
func Validate(reference, observed Point, band Band) (Result, error) {
	errs := reference.Check("reference_")
	errs = append(errs, observed.Check("")...)
	if len(errs) > 0 {
		return Result{}, errs
	}

	d := Distance(reference, observed)
	return Result{
		DistanceMeters: d,
		WithinBand:     band.Min <= d && d <= band.Max,
	}, nil
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
