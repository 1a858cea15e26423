package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecowatch/models"
	"ecowatch/state"
)

func TestSeedReportsAreConsistent(t *testing.T) {
	for _, r := range Reports(Officials()) {
		assert.Equal(t, r.Status, r.CurrentStatus(), r.ID)
		assert.True(t, r.Status.Valid())
	}
}

func TestSeedStateContinuesSequences(t *testing.T) {
	store := state.NewStore(State(nil))

	r := store.AddReport(models.ReportDraft{ImageURL: "x", Severity: 3})
	assert.Equal(t, "PR-003", r.ID)

	n, err := store.AddNotification(models.NewInfoNotification("hello", state.JustNow))
	require.NoError(t, err)
	assert.Equal(t, 5, n.ID)

	req, err := store.FileMaintenanceRequest(models.MaintenanceRequestInput{IssueType: "Other", Location: "Storage tank", Details: "d"})
	require.NoError(t, err)
	assert.Equal(t, "MR-002", req.ID)
}

func TestSeedReportsSkipUnknownOfficials(t *testing.T) {
	reports := Reports([]models.Official{{ID: "off2", Name: "Shri. Vikram Singh"}})
	assert.Len(t, reports[0].TaggedOfficials, 1)
	assert.Empty(t, reports[1].TaggedOfficials)
}

func TestDatasets(t *testing.T) {
	assert.Len(t, WeeklyUsage(), 7)
	assert.Len(t, HistoricalWaterQuality(), 7)
	assert.Len(t, CommunityData().MaintenanceTasks, 4)
	assert.Len(t, ConservationData(), 7)
	assert.Equal(t, 18.0, SystemHealth().FilterPressure)
}
