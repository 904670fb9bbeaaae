package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"mentorhub/internal/config"
	"mentorhub/internal/models"
	"mentorhub/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmailService dispatches platform mail over SMTP. Admin bulk sends are
// audit-logged with the actor and recipient count.
type EmailService interface {
	SendCustomEmail(ctx context.Context, req *CustomEmailRequest) (*EmailResult, error)
	SendTrialEndingNotice(ctx context.Context, org *models.Organization, recipients []string) error
}

// CustomEmailRequest is an admin-composed message to a recipient list.
type CustomEmailRequest struct {
	Recipients     []string `json:"recipients"`
	Subject        string   `json:"subject"`
	Body           string   `json:"body"`
	IsHTML         bool     `json:"is_html"`
	SenderID       uuid.UUID
	OrganizationID string
}

// EmailResult summarizes one dispatch.
type EmailResult struct {
	Sent   int      `json:"sent"`
	Failed []string `json:"failed,omitempty"`
}

type emailService struct {
	cfg       config.EmailConfig
	auditRepo repositories.AuditLogsRepository
	logger    *zap.Logger
	// send is swapped in tests; defaults to the SMTP path.
	send func(recipients []string, msg []byte) error
}

func NewEmailService(cfg config.EmailConfig, auditRepo repositories.AuditLogsRepository, logger *zap.Logger) EmailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &emailService{cfg: cfg, auditRepo: auditRepo, logger: logger}
	s.send = s.sendSMTP
	return s
}

// SendCustomEmail validates, dispatches one message per recipient so a bad
// address cannot sink the whole batch, and records the send in the audit log.
func (s *emailService) SendCustomEmail(ctx context.Context, req *CustomEmailRequest) (*EmailResult, error) {
	if len(req.Recipients) == 0 {
		return nil, fmt.Errorf("recipient list cannot be empty")
	}
	if strings.TrimSpace(req.Subject) == "" {
		return nil, fmt.Errorf("subject cannot be empty")
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("body cannot be empty")
	}

	result := &EmailResult{}
	for _, recipient := range req.Recipients {
		msg := s.buildMessage([]string{recipient}, req.Subject, req.Body, req.IsHTML)
		if err := s.send([]string{recipient}, msg); err != nil {
			s.logger.Warn("email dispatch failed",
				zap.String("recipient", recipient), zap.Error(err))
			result.Failed = append(result.Failed, recipient)
			continue
		}
		result.Sent++
	}

	actorID := req.SenderID
	audit := &models.AuditLog{
		OrganizationID: req.OrganizationID,
		EntityType:     "email",
		EntityID:       uuid.NewString(),
		Action:         models.ActionEmail,
		ActorID:        &actorID,
		NewValues: models.JSONB{
			"subject":    req.Subject,
			"recipients": len(req.Recipients),
			"sent":       result.Sent,
			"failed":     len(result.Failed),
		},
	}
	if err := s.auditRepo.Create(ctx, audit); err != nil {
		s.logger.Warn("failed to audit email dispatch", zap.Error(err))
	}

	if result.Sent == 0 {
		return result, fmt.Errorf("all %d recipients failed", len(req.Recipients))
	}
	return result, nil
}

// SendTrialEndingNotice mails org admins when their trial lapses.
func (s *emailService) SendTrialEndingNotice(ctx context.Context, org *models.Organization, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}
	subject := fmt.Sprintf("Your %s trial has ended", org.Name)
	body := fmt.Sprintf(
		"The trial period for %s has ended. Pick a plan to keep your mentorship program running.\r\n",
		org.Name)

	msg := s.buildMessage(recipients, subject, body, false)
	return s.send(recipients, msg)
}

func (s *emailService) buildMessage(to []string, subject, body string, isHTML bool) []byte {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.FromAddress))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	if isHTML {
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return []byte(msg.String())
}

func (s *emailService) sendSMTP(recipients []string, msg []byte) error {
	if s.cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP configuration is incomplete")
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	// Port 465 is implicit TLS; everything else goes through SendMail, which
	// upgrades via STARTTLS when the server offers it.
	if s.cfg.SMTPPort == 465 {
		return s.sendWithTLS(addr, auth, recipients, msg)
	}
	return smtp.SendMail(addr, auth, s.cfg.FromAddress, recipients, msg)
}

func (s *emailService) sendWithTLS(addr string, auth smtp.Auth, to []string, msg []byte) error {
	host := strings.Split(addr, ":")[0]
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return err
	}
	if err = client.Mail(s.cfg.FromAddress); err != nil {
		return err
	}
	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = w.Write(msg)
	return err
}
