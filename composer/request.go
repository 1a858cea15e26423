package composer

import (
	"encoding/base64"
	"fmt"
	"strings"

	"ecowatch/models"
)

// Request is the JSON body accepted when submitting a report
type Request struct {
	ImageURL    string              `json:"image_url"`
	ImageBase64 string              `json:"image_base64"`
	ImageType   string              `json:"image_type"`
	BoundingBox *models.BoundingBox `json:"bounding_box"`
	Comment     string              `json:"comment"`
	Severity    *int                `json:"severity"`
	Geolocation *GeoFix             `json:"geolocation"`
	OfficialIDs []string            `json:"official_ids"`
}

// Compose runs a request through a fresh composer. Officials are resolved
// against directory; repeated ids are tagged once.
func Compose(req Request, directory []models.Official) (models.ReportDraft, error) {
	c := New()

	switch {
	case req.ImageBase64 != "":
		data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			return models.ReportDraft{}, fmt.Errorf("decode image: %w", err)
		}
		c.AttachImage(req.ImageType, data)
	default:
		c.SetImageURL(req.ImageURL)
	}

	c.SetBoundingBox(req.BoundingBox)
	c.SetComment(strings.TrimSpace(req.Comment))
	if req.Severity != nil {
		if err := c.SetSeverity(*req.Severity); err != nil {
			return models.ReportDraft{}, err
		}
	}
	c.SetGeoFix(req.Geolocation)

	byID := make(map[string]models.Official, len(directory))
	for _, o := range directory {
		byID[o.ID] = o
	}
	seen := make(map[string]bool, len(req.OfficialIDs))
	for _, id := range req.OfficialIDs {
		if seen[id] {
			continue
		}
		o, ok := byID[id]
		if !ok {
			return models.ReportDraft{}, fmt.Errorf("%w: %s", ErrUnknownOfficial, id)
		}
		seen[id] = true
		c.ToggleOfficial(o)
	}

	return c.Submit()
}
