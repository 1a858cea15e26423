package email

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/apex/log"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"ecowatch/annotation"
	"ecowatch/config"
	"ecowatch/models"
)

const reportImgCid = "report_image"

type sendClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// Sender mails tagged officials about new pollution reports
type Sender struct {
	fromName  string
	fromEmail string
	client    sendClient
}

func NewSender(cfg *config.Config) *Sender {
	return &Sender{
		fromName:  cfg.SendGridFromName,
		fromEmail: cfg.SendGridFromEmail,
		client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
	}
}

// NotifyOfficials sends one message per tagged official with an e-mail
// address and returns how many were accepted. Individual failures are
// logged and the remaining recipients are still attempted.
func (s *Sender) NotifyOfficials(report models.PollutionReport) (int, error) {
	recipients := make([]models.Official, 0, len(report.TaggedOfficials))
	for _, o := range report.TaggedOfficials {
		if strings.TrimSpace(o.Email) != "" {
			recipients = append(recipients, o)
		}
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	image := annotatedImage(report)
	log.Infof("Sending report %s to %d officials", report.ID, len(recipients))

	sent := 0
	var errs []error
	for _, o := range recipients {
		resp, err := s.client.Send(s.message(o, report, image))
		if err == nil && resp != nil && resp.StatusCode >= 300 {
			err = fmt.Errorf("sendgrid status %d", resp.StatusCode)
		}
		if err != nil {
			log.Warnf("Error sending report %s to %s: %v", report.ID, o.Email, err)
			errs = append(errs, err)
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}

// annotatedImage renders the reported box onto an inline image, nil when the
// report references a remote URL or the image cannot be decoded.
func annotatedImage(report models.PollutionReport) []byte {
	_, data, err := annotation.DecodeDataURI(report.ImageURL)
	if err != nil {
		return nil
	}
	out, err := annotation.Render(data, report.BoundingBox, report.ID)
	if err != nil {
		log.WithError(err).Warnf("Failed to annotate image for report %s", report.ID)
		return nil
	}
	return out
}

func (s *Sender) message(to models.Official, report models.PollutionReport, image []byte) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(s.fromName, s.fromEmail))
	m.Subject = fmt.Sprintf("Pollution report %s: severity %d at %s", report.ID, report.Severity, report.Location.Address)

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(to.Name, to.Email))
	m.AddPersonalizations(p)

	m.AddContent(mail.NewContent("text/plain", plainText(to, report)))
	m.AddContent(mail.NewContent("text/html", htmlText(to, report, image != nil)))

	if image != nil {
		a := mail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(image))
		a.SetType("image/jpeg")
		a.SetFilename(report.ID + ".jpg")
		a.SetDisposition("inline")
		a.SetContentID(reportImgCid)
		m.AddAttachment(a)
	}
	return m
}

func plainText(to models.Official, report models.PollutionReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", to.Name)
	fmt.Fprintf(&b, "You have been tagged on pollution report %s.\n\n", report.ID)
	fmt.Fprintf(&b, "Location: %s (%.4f, %.4f)\n", report.Location.Address, report.Location.Latitude, report.Location.Longitude)
	fmt.Fprintf(&b, "Severity: %d/5\n", report.Severity)
	if report.Comment != "" {
		fmt.Fprintf(&b, "Comment: %s\n", report.Comment)
	}
	if !strings.HasPrefix(report.ImageURL, "data:") && report.ImageURL != "" {
		fmt.Fprintf(&b, "Photo: %s\n", report.ImageURL)
	}
	return b.String()
}

func htmlText(to models.Official, report models.PollutionReport, inline bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Dear %s,</p>", html.EscapeString(to.Name))
	fmt.Fprintf(&b, "<p>You have been tagged on pollution report <b>%s</b>.</p>", html.EscapeString(report.ID))
	fmt.Fprintf(&b, "<p>Location: %s<br>Severity: %d/5</p>", html.EscapeString(report.Location.Address), report.Severity)
	if report.Comment != "" {
		fmt.Fprintf(&b, "<p><i>%s</i></p>", html.EscapeString(report.Comment))
	}
	if inline {
		fmt.Fprintf(&b, `<img src="cid:%s" alt="Report photo" width="400">`, reportImgCid)
	} else if report.ImageURL != "" {
		fmt.Fprintf(&b, `<img src="%s" alt="Report photo" width="400">`, html.EscapeString(report.ImageURL))
	}
	return b.String()
}
