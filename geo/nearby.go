// Package geo finds pollution reports close to a point.
package geo

import (
	"errors"
	"sort"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"ecowatch/models"
)

const (
	EarthRadiusMeters   = 6371008.8
	DefaultRadiusMeters = 500.0
	MaxRadiusMeters     = 50000.0
)

var ErrInvalidRadius = errors.New("radius must be positive and at most 50 km")

// Match is a report with its distance from the query point
type Match struct {
	Report         models.PollutionReport `json:"report"`
	DistanceMeters float64                `json:"distance_m"`
}

func point(l models.Location) s2.LatLng {
	return s2.LatLngFromDegrees(l.Latitude, l.Longitude)
}

func toAngle(meters float64) s1.Angle {
	return s1.Angle(meters / EarthRadiusMeters)
}

// DistanceMeters is the great-circle distance between two locations
func DistanceMeters(a, b models.Location) float64 {
	return float64(point(a).Distance(point(b))) * EarthRadiusMeters
}

// Nearby returns the reports within radiusMeters of center, closest first.
// Ties keep input order.
func Nearby(reports []models.PollutionReport, center models.Location, radiusMeters float64) ([]Match, error) {
	if radiusMeters <= 0 || radiusMeters > MaxRadiusMeters {
		return nil, ErrInvalidRadius
	}

	area := s2.CapFromCenterAngle(s2.PointFromLatLng(point(center)), toAngle(radiusMeters))
	c := point(center)

	out := []Match{}
	for _, r := range reports {
		ll := point(r.Location)
		if !area.ContainsPoint(s2.PointFromLatLng(ll)) {
			continue
		}
		out = append(out, Match{
			Report:         r,
			DistanceMeters: float64(c.Distance(ll)) * EarthRadiusMeters,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceMeters < out[j].DistanceMeters
	})
	return out, nil
}

// NearbyReport runs Nearby around the report with the given id, excluding it
func NearbyReport(reports []models.PollutionReport, id string, radiusMeters float64) ([]Match, bool, error) {
	var origin *models.PollutionReport
	others := make([]models.PollutionReport, 0, len(reports))
	for i := range reports {
		if reports[i].ID == id {
			origin = &reports[i]
			continue
		}
		others = append(others, reports[i])
	}
	if origin == nil {
		return nil, false, nil
	}
	matches, err := Nearby(others, origin.Location, radiusMeters)
	return matches, true, err
}
