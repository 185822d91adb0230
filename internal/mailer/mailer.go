package mailer

import (
	"bytes"
	"context"
	"html/template"

	"github.com/omytech/contact-api/internal/model"
	"gopkg.in/gomail.v2"
)

const notificationSubjectPrefix = "New Contact Form Submission: "

// submittedAtLayout mirrors a browser locale timestamp, readable for the
// inbox owner rather than machine-sortable.
const submittedAtLayout = "1/2/2006, 3:04:05 PM"

var notificationTmpl = template.Must(template.New("contact_notification").Parse(`
<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
<hr>
<p><small>Submitted at: {{.SubmittedAt}}</small></p>
`))

type Config struct {
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
	From     string
	To       string
}

// Mailer delivers one notification e-mail per stored submission to the
// configured recipient.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewMailer(cfg Config) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Secure
	return &Mailer{
		dialer: d,
		from:   cfg.From,
		to:     cfg.To,
	}
}

// Send delivers the notification synchronously. The context bounds the whole
// dial-and-send exchange; gomail has no context support of its own, so the
// send runs in a goroutine and the caller's deadline wins.
func (m *Mailer) Send(ctx context.Context, c *model.Contact) error {
	subject, body, err := render(c)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func render(c *model.Contact) (subject string, body string, err error) {
	phone := c.Phone
	if phone == "" {
		phone = "Not provided"
	}

	var buf bytes.Buffer
	err = notificationTmpl.Execute(&buf, map[string]string{
		"Name":        c.Name,
		"Email":       c.Email,
		"Phone":       phone,
		"Subject":     c.Subject,
		"Message":     c.Message,
		"SubmittedAt": c.SubmittedAt.Format(submittedAtLayout),
	})
	if err != nil {
		return "", "", err
	}
	return notificationSubjectPrefix + c.Subject, buf.String(), nil
}
