// internal/services/email_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/benepisyo/benefits-backend/internal/config"
	"github.com/benepisyo/benefits-backend/internal/models"
)

// EmailService delivers status notices over SMTP. With no SMTP host
// configured it degrades to a logged no-op, which keeps local development
// and tests free of a mail dependency.
type EmailService struct {
	cfg      config.EmailConfig
	frontend config.FrontendConfig
}

func NewEmailService(cfg config.EmailConfig, frontend config.FrontendConfig) *EmailService {
	return &EmailService{cfg: cfg, frontend: frontend}
}

var noticeSubjects = map[StatusEvent]string{
	EventApprove:        "Your application has been accepted",
	EventApproveRenewal: "Your renewal has been accepted",
	EventDecline:        "Your application has been declined",
	EventRemark:         "Your application needs attention",
	EventResolveRemarks: "Your remarks have been resolved",
	EventTerminate:      "Your account has been terminated",
	EventReactivate:     "Your account has been reactivated",
}

var noticeTemplate = template.Must(template.New("notice").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Benefits Registry</h2>
	<p>Dear {{.Name}},</p>
	<p>{{.Message}}</p>
	<p>You can view the details of your application by signing in at
	<a href="{{.PortalURL}}">{{.PortalURL}}</a>.</p>
	<p>This is an automated message. Please do not reply to this email.</p>
</body>
</html>
`))

// SendStatusNotice implements Notifier.
func (s *EmailService) SendStatusNotice(account *models.Account, event StatusEvent, message string) error {
	if s.cfg.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{
			"email": account.Email,
			"event": event,
		}).Info("SMTP not configured, skipping status notice")
		return nil
	}

	subject, ok := noticeSubjects[event]
	if !ok {
		subject = "Benefits Registry notification"
	}

	var body bytes.Buffer
	err := noticeTemplate.Execute(&body, map[string]string{
		"Name":      account.Name,
		"Message":   message,
		"PortalURL": s.frontend.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to render notice template: %w", err)
	}

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.cfg.FromName, s.cfg.FromEmail, account.Email, subject, body.String())

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{account.Email}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send status notice: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"email": account.Email,
		"event": event,
	}).Info("Status notice delivered")
	return nil
}
