package composer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/apex/log"

	"ecowatch/models"
)

const (
	DefaultSeverity = 3
	MinSeverity     = 1
	MaxSeverity     = 5

	FallbackAddress   = "Auto-detected: Near Sector D Creek"
	FallbackLatitude  = 12.9730
	FallbackLongitude = 77.5960
)

// MockSensorSnapshot is attached to every submitted report
var MockSensorSnapshot = models.SensorSnapshot{TDS: 600, Turbidity: 15}

var (
	ErrImageRequired      = errors.New("an image is required to submit a report")
	ErrSeverityOutOfRange = fmt.Errorf("severity must be between %d and %d", MinSeverity, MaxSeverity)
	ErrUnknownOfficial    = errors.New("unknown official")
)

// GeoFix is a device geolocation result
type GeoFix struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Locator is the device geolocation boundary
type Locator interface {
	Locate(ctx context.Context) (GeoFix, error)
}

// Composer collects the fields of a new pollution report
type Composer struct {
	imageURL  string
	box       *models.BoundingBox
	comment   string
	severity  int
	officials []models.Official
	fix       *GeoFix
}

// New returns a composer with the default severity
func New() *Composer {
	return &Composer{severity: DefaultSeverity}
}

// SetImageURL uses a remote image or an existing data URI
func (c *Composer) SetImageURL(ref string) {
	c.imageURL = strings.TrimSpace(ref)
}

// AttachImage stores uploaded or captured bytes as a data URI
func (c *Composer) AttachImage(mimeType string, data []byte) {
	if len(data) == 0 {
		c.imageURL = ""
		return
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	c.imageURL = "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ImageURL returns the current image reference
func (c *Composer) ImageURL() string {
	return c.imageURL
}

// SetBoundingBox keeps box only when it passes the minimum size rule
func (c *Composer) SetBoundingBox(box *models.BoundingBox) {
	if box == nil || !box.Valid() {
		c.box = nil
		return
	}
	b := *box
	c.box = &b
}

// SetComment sets the free-text comment
func (c *Composer) SetComment(comment string) {
	c.comment = comment
}

// SetSeverity sets the 1-5 severity rating
func (c *Composer) SetSeverity(severity int) error {
	if severity < MinSeverity || severity > MaxSeverity {
		return ErrSeverityOutOfRange
	}
	c.severity = severity
	return nil
}

// ToggleOfficial tags o, or untags it when already tagged
func (c *Composer) ToggleOfficial(o models.Official) {
	for i, tagged := range c.officials {
		if tagged.ID == o.ID {
			c.officials = append(c.officials[:i:i], c.officials[i+1:]...)
			return
		}
	}
	c.officials = append(c.officials, o)
}

// Tagged returns the tagged officials in selection order
func (c *Composer) Tagged() []models.Official {
	return append([]models.Official(nil), c.officials...)
}

// SetGeoFix records a successful geolocation; nil clears it
func (c *Composer) SetGeoFix(fix *GeoFix) {
	if fix == nil {
		c.fix = nil
		return
	}
	f := *fix
	c.fix = &f
}

// ResolveLocation asks the locator for a fix. Failures are logged and leave
// the composer on the fallback location.
func (c *Composer) ResolveLocation(ctx context.Context, locator Locator) {
	if locator == nil {
		return
	}
	fix, err := locator.Locate(ctx)
	if err != nil {
		log.WithError(err).Warn("geolocation unavailable, using fallback location")
		c.fix = nil
		return
	}
	c.fix = &fix
}

// Location applies the location policy: device fix first, then the fallback
func (c *Composer) Location() models.Location {
	if c.fix != nil {
		return models.Location{
			Latitude:  c.fix.Latitude,
			Longitude: c.fix.Longitude,
			Address:   fmt.Sprintf("Coords: %.4f, %.4f", c.fix.Latitude, c.fix.Longitude),
		}
	}
	return models.Location{
		Latitude:  FallbackLatitude,
		Longitude: FallbackLongitude,
		Address:   FallbackAddress,
	}
}

// Submit assembles the draft. It fails only when no image was provided.
func (c *Composer) Submit() (models.ReportDraft, error) {
	if c.imageURL == "" {
		return models.ReportDraft{}, ErrImageRequired
	}
	snapshot := MockSensorSnapshot
	draft := models.ReportDraft{
		ImageURL:        c.imageURL,
		Comment:         c.comment,
		Severity:        c.severity,
		Location:        c.Location(),
		TaggedOfficials: c.Tagged(),
		SensorSnapshot:  &snapshot,
		Status:          models.StatusSubmitted,
	}
	if draft.TaggedOfficials == nil {
		draft.TaggedOfficials = []models.Official{}
	}
	if c.box != nil {
		b := *c.box
		draft.BoundingBox = &b
	}
	return draft, nil
}
