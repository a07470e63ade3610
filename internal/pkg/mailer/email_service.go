package mailer

import (
	"fmt"
	"html"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendTicketAlert(to []string, alert TicketAlert) error
}

// TicketAlert is the content of the new-ticket email sent to org admins.
type TicketAlert struct {
	TicketId         string
	OrganizationName string
	ServiceName      string
	Title            string
	Description      string
	AuthorName       string
	AuthorEmail      string
	Source           string
	CreatedAt        time.Time
}

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	senderName  string
	clientURL   string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName, clientURL string) IEmailService {
	return newEmailService(gomail.NewDialer(host, port, username, password), senderEmail, senderName, clientURL)
}

func newEmailService(d sender, senderEmail, senderName, clientURL string) *emailService {
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
		clientURL:   strings.TrimRight(clientURL, "/"),
	}
}

func (s *emailService) SendTicketAlert(to []string, alert TicketAlert) error {
	if len(to) == 0 {
		return nil
	}
	return s.dialer.DialAndSend(s.buildTicketAlert(to, alert))
}

func (s *emailService) buildTicketAlert(to []string, alert TicketAlert) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", fmt.Sprintf("[%s] New ticket: %s", alert.OrganizationName, alert.Title))

	link := fmt.Sprintf("%s/tickets/%s", s.clientURL, alert.TicketId)
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New ticket for %s</h2>
			<p><strong>Service:</strong> %s</p>
			<p><strong>From:</strong> %s &lt;%s&gt; via %s</p>
			<p><strong>Opened:</strong> %s</p>
			<h3>%s</h3>
			<p style="white-space: pre-wrap;">%s</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open ticket</a>
		</div>
	`,
		html.EscapeString(alert.OrganizationName),
		html.EscapeString(alert.ServiceName),
		html.EscapeString(alert.AuthorName),
		html.EscapeString(alert.AuthorEmail),
		html.EscapeString(alert.Source),
		alert.CreatedAt.UTC().Format(time.RFC1123),
		html.EscapeString(alert.Title),
		html.EscapeString(alert.Description),
		html.EscapeString(link),
	)
	m.SetBody("text/html", body)
	m.AddAlternative("text/plain", fmt.Sprintf("New ticket for %s (%s)\n\n%s\n\n%s\n\n%s",
		alert.OrganizationName, alert.ServiceName, alert.Title, alert.Description, link))
	return m
}
