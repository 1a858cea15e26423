package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecowatch/models"
)

func at(id string, lat, lng float64) models.PollutionReport {
	return models.PollutionReport{ID: id, Location: models.Location{Latitude: lat, Longitude: lng}}
}

var reports = []models.PollutionReport{
	at("PR-001", 12.9716, 77.5946),
	at("PR-002", 12.9720, 77.5950),
	at("PR-003", 12.9730, 77.5960),
	at("PR-004", 13.0827, 80.2707),
}

func TestDistanceMeters(t *testing.T) {
	d := DistanceMeters(reports[0].Location, reports[1].Location)
	assert.InDelta(t, 62, d, 3)
	assert.Zero(t, DistanceMeters(reports[0].Location, reports[0].Location))
}

func TestNearbySortedByDistance(t *testing.T) {
	matches, err := Nearby(reports, models.Location{Latitude: 12.9730, Longitude: 77.5960}, 500)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "PR-003", matches[0].Report.ID)
	assert.Equal(t, "PR-002", matches[1].Report.ID)
	assert.Equal(t, "PR-001", matches[2].Report.ID)
	assert.Zero(t, matches[0].DistanceMeters)
}

func TestNearbyRadius(t *testing.T) {
	matches, err := Nearby(reports, reports[0].Location, 100)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	_, err = Nearby(reports, reports[0].Location, 0)
	assert.ErrorIs(t, err, ErrInvalidRadius)
	_, err = Nearby(reports, reports[0].Location, MaxRadiusMeters+1)
	assert.ErrorIs(t, err, ErrInvalidRadius)
}

func TestNearbyReportExcludesOrigin(t *testing.T) {
	matches, ok, err := NearbyReport(reports, "PR-001", DefaultRadiusMeters)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, matches, 2)
	assert.Equal(t, "PR-002", matches[0].Report.ID)

	_, ok, err = NearbyReport(reports, "PR-999", DefaultRadiusMeters)
	assert.NoError(t, err)
	assert.False(t, ok)
}
