package composer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecowatch/models"
)

var directory = []models.Official{
	{ID: "off1", Name: "Smt. Radha Kumari", Title: "Sarpanch, Sector B"},
	{ID: "off2", Name: "Shri. Vikram Singh", Title: "Ward Officer, Sector D"},
	{ID: "off3", Name: "Anjali Menon", Title: "Environmental Officer"},
}

type fakeLocator struct {
	fix GeoFix
	err error
}

func (f fakeLocator) Locate(context.Context) (GeoFix, error) { return f.fix, f.err }

func TestSubmitRequiresImage(t *testing.T) {
	_, err := New().Submit()
	assert.ErrorIs(t, err, ErrImageRequired)

	c := New()
	c.AttachImage("image/png", nil)
	_, err = c.Submit()
	assert.ErrorIs(t, err, ErrImageRequired)
}

func TestSubmitDefaults(t *testing.T) {
	c := New()
	c.SetImageURL("https://picsum.photos/seed/x/800/600")

	d, err := c.Submit()
	require.NoError(t, err)
	assert.Equal(t, DefaultSeverity, d.Severity)
	assert.Equal(t, models.StatusSubmitted, d.Status)
	assert.Equal(t, &models.SensorSnapshot{TDS: 600, Turbidity: 15}, d.SensorSnapshot)
	assert.Nil(t, d.BoundingBox)
	assert.Empty(t, d.TaggedOfficials)
}

func TestLocationFallbackWhenGeolocationFails(t *testing.T) {
	c := New()
	c.SetImageURL("https://example.test/a.jpg")
	c.ResolveLocation(context.Background(), fakeLocator{err: errors.New("permission denied")})

	d, err := c.Submit()
	require.NoError(t, err)
	assert.Equal(t, FallbackAddress, d.Location.Address)
	assert.Equal(t, 12.9730, d.Location.Latitude)
	assert.Equal(t, 77.5960, d.Location.Longitude)
}

func TestLocationFromGeolocation(t *testing.T) {
	c := New()
	c.ResolveLocation(context.Background(), fakeLocator{fix: GeoFix{Latitude: 12.971598, Longitude: 77.594566}})
	loc := c.Location()
	assert.Equal(t, "Coords: 12.9716, 77.5946", loc.Address)
	assert.Equal(t, 12.971598, loc.Latitude)
}

func TestToggleOfficialDeduplicates(t *testing.T) {
	c := New()
	c.ToggleOfficial(directory[0])
	c.ToggleOfficial(directory[1])
	c.ToggleOfficial(directory[0])
	c.ToggleOfficial(directory[2])

	ids := []string{}
	for _, o := range c.Tagged() {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"off2", "off3"}, ids)
}

func TestSetSeverityRange(t *testing.T) {
	c := New()
	assert.NoError(t, c.SetSeverity(1))
	assert.NoError(t, c.SetSeverity(5))
	assert.ErrorIs(t, c.SetSeverity(0), ErrSeverityOutOfRange)
	assert.ErrorIs(t, c.SetSeverity(6), ErrSeverityOutOfRange)
}

func TestSetBoundingBoxDropsSmallBoxes(t *testing.T) {
	c := New()
	c.SetImageURL("x")
	c.SetBoundingBox(&models.BoundingBox{X: 1, Y: 1, Width: 4, Height: 40})
	d, _ := c.Submit()
	assert.Nil(t, d.BoundingBox)

	c.SetBoundingBox(&models.BoundingBox{X: 1, Y: 1, Width: 40, Height: 40})
	d, _ = c.Submit()
	assert.Equal(t, &models.BoundingBox{X: 1, Y: 1, Width: 40, Height: 40}, d.BoundingBox)
}

func TestAttachImageBuildsDataURI(t *testing.T) {
	c := New()
	c.AttachImage("", []byte{0xff, 0xd8})
	assert.Equal(t, "data:image/jpeg;base64,/9g=", c.ImageURL())
}

func TestCompose(t *testing.T) {
	sev := 5
	d, err := Compose(Request{
		ImageBase64: "iVBORw==",
		ImageType:   "image/png",
		Comment:     "  foam on the surface ",
		Severity:    &sev,
		OfficialIDs: []string{"off3", "off3", "off1"},
		Geolocation: &GeoFix{Latitude: 1.5, Longitude: 2.25},
	}, directory)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,iVBORw==", d.ImageURL)
	assert.Equal(t, "foam on the surface", d.Comment)
	assert.Equal(t, 5, d.Severity)
	assert.Equal(t, "Coords: 1.5000, 2.2500", d.Location.Address)
	require.Len(t, d.TaggedOfficials, 2)
	assert.Equal(t, "off3", d.TaggedOfficials[0].ID)
	assert.Equal(t, "off1", d.TaggedOfficials[1].ID)
}

func TestComposeErrors(t *testing.T) {
	_, err := Compose(Request{}, directory)
	assert.ErrorIs(t, err, ErrImageRequired)

	_, err = Compose(Request{ImageURL: "x", OfficialIDs: []string{"off9"}}, directory)
	assert.ErrorIs(t, err, ErrUnknownOfficial)

	bad := 9
	_, err = Compose(Request{ImageURL: "x", Severity: &bad}, directory)
	assert.ErrorIs(t, err, ErrSeverityOutOfRange)

	_, err = Compose(Request{ImageBase64: "***"}, directory)
	assert.Error(t, err)
}
