package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/candidate-screening/internal/logging"
	"github.com/gokatarajesh/candidate-screening/internal/metrics"
)

//go:embed templates/invitation.html
var templateFS embed.FS

var invitationTmpl = template.Must(template.ParseFS(templateFS, "templates/invitation.html"))

const invitationSubject = "Your screening exam invitation"

// Invitation is what the candidate needs to get started.
type Invitation struct {
	Email     string
	ExamCode  string
	FirstName string
}

// Inviter emails an exam code to each newly registered candidate.
type Inviter struct {
	mailer          Mailer
	from            string
	registrationURL string
	metrics         *metrics.Metrics
	logger          zerolog.Logger
}

func NewInviter(mailer Mailer, from, registrationURL string, m *metrics.Metrics, logger zerolog.Logger) *Inviter {
	return &Inviter{
		mailer:          mailer,
		from:            from,
		registrationURL: strings.TrimRight(registrationURL, "/"),
		metrics:         m,
		logger:          logging.Component(logger, "inviter"),
	}
}

// Invite sends the invitation once. Failures are logged and never returned,
// so a redelivered event is the only way a send is attempted again.
func (i *Inviter) Invite(ctx context.Context, inv Invitation) error {
	msg, err := i.Compose(inv)
	if err != nil {
		i.logger.Error().Err(err).Str("to", inv.Email).Msg("render invitation")
		i.metrics.Invitation("failed")
		return nil
	}

	if err := i.mailer.Send(ctx, msg); err != nil {
		i.logger.Error().Err(err).Str("to", inv.Email).Msg("send invitation")
		i.metrics.Invitation("failed")
		return nil
	}

	i.logger.Info().Str("to", inv.Email).Msg("invitation sent")
	i.metrics.Invitation("sent")
	return nil
}

// Compose renders the invitation email.
func (i *Inviter) Compose(inv Invitation) (Message, error) {
	if inv.Email == "" {
		return Message{}, fmt.Errorf("invitation has no recipient")
	}

	var body bytes.Buffer
	err := invitationTmpl.Execute(&body, map[string]string{
		"FirstName":        inv.FirstName,
		"ExamCode":         inv.ExamCode,
		"RegistrationLink": i.registrationLink(inv.Email),
	})
	if err != nil {
		return Message{}, fmt.Errorf("execute template: %w", err)
	}

	return Message{
		From:    i.from,
		To:      inv.Email,
		Subject: invitationSubject,
		HTML:    body.String(),
	}, nil
}

func (i *Inviter) registrationLink(email string) string {
	return i.registrationURL + "/register?" + url.Values{"email": {email}}.Encode()
}
