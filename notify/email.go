package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridHost = "https://api.sendgrid.com"

// SendGridMailer emails the student a confirmation through the SendGrid v3 API.
type SendGridMailer struct {
	apiKey     string
	host       string
	senderMail string
	senderName string
}

func NewSendGridMailer(apiKey, senderEmail, senderName string) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, host: sendGridHost, senderMail: senderEmail, senderName: senderName}
}

// WithHost points the mailer at another API host.
func (m *SendGridMailer) WithHost(host string) *SendGridMailer {
	m.host = host
	return m
}

func (m *SendGridMailer) Name() string { return "email" }

func (m *SendGridMailer) EnrollmentCreated(ctx context.Context, ev EnrollmentEvent) error {
	if ev.UserEmail == "" {
		return fmt.Errorf("sendgrid: recipient email required")
	}
	subject := "Enrollment Confirmed: " + ev.CourseTitle
	from := mail.NewEmail(m.senderName, m.senderMail)
	to := mail.NewEmail(ev.UserName, ev.UserEmail)
	plain := fmt.Sprintf("Dear %s,\n\nYou are now enrolled in %s. Happy learning!", ev.UserName, ev.CourseTitle)
	msg := mail.NewSingleEmail(from, subject, to, plain, enrollmentHTML(ev))

	req := sendgrid.GetRequest(m.apiKey, "/v3/mail/send", m.host)
	req.Method = "POST"
	req.Body = mail.GetRequestBody(msg)

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid http %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func enrollmentHTML(ev EnrollmentEvent) string {
	return emailTemplate("Enrollment Successful", fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully enrolled in <strong>%s</strong> by %s.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Open the course from your dashboard and mark each section complete as you go.
		</div>
	`, html.EscapeString(ev.UserName), html.EscapeString(ev.CourseTitle), html.EscapeString(ev.Educator)))
}

func emailTemplate(title, body string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1B3A5C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
			.content { padding: 40px 30px; color: #1B3A5C; line-height: 1.6; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #3C8DBC; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>LEARNHUB</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">You received this email because you enrolled in a course on LearnHub.</div>
		</div>
	</body>
	</html>
	`, title, body)
}
