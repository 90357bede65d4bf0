package utils

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional mail through SendGrid.
type Mailer struct {
	ApiKey string
	Sender string
	// Host overrides the SendGrid API host. Empty means the public API.
	Host string
}

// NewMailer returns nil when no API key is configured so callers can skip mail entirely.
func NewMailer(apiKey, sender string) *Mailer {
	if apiKey == "" {
		log.Println("[MAILER] SENDGRID_API_KEY not set, confirmation emails disabled")
		return nil
	}
	return &Mailer{ApiKey: apiKey, Sender: sender}
}

// SendEnrollmentConfirmation tells a student which classes they are now enrolled in.
func (m *Mailer) SendEnrollmentConfirmation(ctx context.Context, email string, classNames []string) error {
	subject := "Enrollment Confirmation - Sportify"

	plain := fmt.Sprintf("You are now enrolled in: %s", strings.Join(classNames, ", "))

	var items strings.Builder
	for _, name := range classNames {
		items.WriteString("<li>" + html.EscapeString(name) + "</li>")
	}
	body := getEmailTemplate("Enrollment Successful!", fmt.Sprintf(`
		<p>Your payment went through. You are now enrolled in:</p>
		<ul>%s</ul>
		<p>See you on the field!</p>
	`, items.String()))

	return m.send(ctx, email, subject, plain, body)
}

func (m *Mailer) send(ctx context.Context, to, subject, plain, htmlBody string) error {
	from := mail.NewEmail("Sportify", m.Sender)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), plain, htmlBody)

	request := sendgrid.GetRequest(m.ApiKey, "/v3/mail/send", m.Host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned %d: %s", response.StatusCode, response.Body)
	}

	log.Printf("[MAILER] %q sent to %s (status %d)", subject, to, response.StatusCode)
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #0B3D2E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #0B3D2E; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>SPORTIFY</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">Sportify summer camp</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}
