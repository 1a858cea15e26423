package email

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecowatch/models"
)

type fakeClient struct {
	sent []*mail.SGMailV3
	fail map[string]bool
}

func (f *fakeClient) Send(m *mail.SGMailV3) (*rest.Response, error) {
	to := m.Personalizations[0].To[0].Address
	if f.fail[to] {
		return nil, errors.New("boom")
	}
	f.sent = append(f.sent, m)
	return &rest.Response{StatusCode: 202}, nil
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 80, 60))
	for x := 0; x < 80; x++ {
		for y := 0; y < 60; y++ {
			img.Set(x, y, color.RGBA{R: 20, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func report(imageURL string) models.PollutionReport {
	return models.PollutionReport{
		ID:          "PR-003",
		ImageURL:    imageURL,
		BoundingBox: &models.BoundingBox{X: 100, Y: 100, Width: 200, Height: 150},
		Comment:     "Oil slick",
		Severity:    4,
		Location:    models.Location{Latitude: 12.973, Longitude: 77.596, Address: "Creek outlet, Sector D"},
		TaggedOfficials: []models.Official{
			{ID: "off1", Name: "Smt. Radha Kumari", Email: "radha@example.org"},
			{ID: "off2", Name: "Shri. Vikram Singh"},
			{ID: "off3", Name: "Anjali Menon", Email: "anjali@example.org"},
		},
	}
}

func TestNotifyOfficialsSkipsMissingEmail(t *testing.T) {
	fc := &fakeClient{}
	s := &Sender{fromName: "EcoWatch", fromEmail: "alerts@ecowatch.local", client: fc}

	sent, err := s.NotifyOfficials(report(pngDataURI(t)))
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, fc.sent, 2)

	m := fc.sent[0]
	assert.Equal(t, "radha@example.org", m.Personalizations[0].To[0].Address)
	assert.Contains(t, m.Subject, "PR-003")
	require.Len(t, m.Attachments, 1)
	assert.Equal(t, "image/jpeg", m.Attachments[0].Type)
	assert.Equal(t, reportImgCid, m.Attachments[0].ContentID)
}

func TestNotifyOfficialsRemoteImage(t *testing.T) {
	fc := &fakeClient{}
	s := &Sender{client: fc}

	_, err := s.NotifyOfficials(report("https://picsum.photos/seed/pr003/800/600"))
	require.NoError(t, err)
	require.NotEmpty(t, fc.sent)
	assert.Empty(t, fc.sent[0].Attachments)
	assert.Contains(t, fc.sent[0].Content[0].Value, "https://picsum.photos/seed/pr003/800/600")
}

func TestNotifyOfficialsContinuesAfterFailure(t *testing.T) {
	fc := &fakeClient{fail: map[string]bool{"radha@example.org": true}}
	s := &Sender{client: fc}

	sent, err := s.NotifyOfficials(report(""))
	assert.Error(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, "anjali@example.org", fc.sent[0].Personalizations[0].To[0].Address)
}

func TestNotifyOfficialsNoRecipients(t *testing.T) {
	fc := &fakeClient{}
	s := &Sender{client: fc}
	r := report("")
	r.TaggedOfficials = []models.Official{{ID: "off2"}}

	sent, err := s.NotifyOfficials(r)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, fc.sent)
}
