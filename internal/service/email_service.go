package service

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// EmailSender dispatches transactional mail. Kept as an interface so
// tests can capture sent messages.
type EmailSender interface {
	SendOTPEmail(to, otp string) error
}

type smtpEmailSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPEmailSender builds a sender from SMTP_* environment variables.
func NewSMTPEmailSender() EmailSender {
	host := os.Getenv("SMTP_HOST")
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "MovieApp <noreply@movieapp.com>"
	}

	return &smtpEmailSender{
		dialer: gomail.NewDialer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD")),
		from:   from,
	}
}

func (s *smtpEmailSender) SendOTPEmail(to, otp string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Password Reset Code - MovieApp")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello,\n\n"+
			"Your verification code for the password reset request is below:\n\n"+
			"CODE: %s\n\n"+
			"The code is only valid for a few minutes.\n"+
			"If you did not request this, please ignore this email.\n\n"+
			"Regards,\nThe MovieApp Team", otp))

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Printf("failed to send OTP email to %s: %v", to, err)
		return err
	}

	log.Printf("OTP email sent to %s", to)
	return nil
}
