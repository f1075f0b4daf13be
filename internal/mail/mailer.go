// Package mail relays contact-form and newsletter submissions over SMTP.
//
// Each submission produces two messages: an internal notification and a
// confirmation auto-reply to the submitter.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/climbe/ri-backend/internal/metrics"
)

// ContactSubmission is one contact-form post. All fields are required;
// validation happens at the HTTP boundary before the relay is invoked.
type ContactSubmission struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Empresa  string `json:"empresa"`
	Mensagem string `json:"mensagem"`
}

// Sender is the mail relay capability consumed by the HTTP handlers.
type Sender interface {
	SendContact(ctx context.Context, sub ContactSubmission) error
	SendNewsletter(ctx context.Context, email string) error
}

// Config configures the SMTP relay.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	// FromName is the display name on outgoing mail; the envelope address is
	// the authenticated account.
	FromName string

	// To receives the internal notifications.
	To string
}

// SMTPMailer implements Sender over an authenticated SMTP connection.
type SMTPMailer struct {
	client *gomail.Client
	cfg    Config
	log    *zap.Logger
}

var _ Sender = (*SMTPMailer)(nil)

// NewSMTPMailer creates the relay client. The connection is dialed per send,
// not held open.
func NewSMTPMailer(cfg Config, log *zap.Logger) (*SMTPMailer, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("mail: create client: %w", err)
	}
	return &SMTPMailer{client: client, cfg: cfg, log: log}, nil
}

// Bodies are rendered with html/template so user input is escaped, not
// interpolated.
var (
	contactNotifyTmpl = template.Must(template.New("contactNotify").Parse(`
<h2>Novo contato recebido</h2>
<p><strong>Nome:</strong> {{.Nome}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Empresa:</strong> {{.Empresa}}</p>
<p><strong>Mensagem:</strong></p>
<p>{{.Mensagem}}</p>
`))

	contactReplyTmpl = template.Must(template.New("contactReply").Parse(`
<p>Ola, {{.Nome}}!</p>
<p>Recebemos sua mensagem e em breve um representante da <strong>Climbe</strong> fara contato.</p>
<p>Atenciosamente,<br/>Equipe Climbe</p>
`))

	newsletterNotifyTmpl = template.Must(template.New("newsletterNotify").Parse(`
<p>Um novo usuario demonstrou interesse:</p>
<p><strong>Email:</strong> {{.Email}}</p>
`))

	newsletterReplyTmpl = template.Must(template.New("newsletterReply").Parse(`
<p>Ola!</p>
<p>Obrigado por entrar em contato com a <strong>Climbe</strong>.</p>
<p>Em breve nossa equipe falara com voce.</p>
`))
)

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("mail: render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// SendContact relays one contact submission: notification to the internal
// address with Reply-To pointing at the submitter, plus a confirmation to the
// submitter.
func (m *SMTPMailer) SendContact(ctx context.Context, sub ContactSubmission) error {
	err := m.sendContact(ctx, sub)
	metrics.ObserveMailRelay("contact", err)
	return err
}

func (m *SMTPMailer) sendContact(ctx context.Context, sub ContactSubmission) error {
	notifyBody, err := render(contactNotifyTmpl, sub)
	if err != nil {
		return err
	}
	replyBody, err := render(contactReplyTmpl, sub)
	if err != nil {
		return err
	}

	fromName := sub.Nome
	if fromName == "" {
		fromName = m.cfg.FromName
	}

	notify := gomail.NewMsg()
	if err := notify.FromFormat(fromName, m.cfg.Username); err != nil {
		return fmt.Errorf("mail: set from: %w", err)
	}
	if err := notify.To(m.cfg.To); err != nil {
		return fmt.Errorf("mail: set to: %w", err)
	}
	if err := notify.ReplyToFormat(sub.Nome, sub.Email); err != nil {
		return fmt.Errorf("mail: set reply-to: %w", err)
	}
	notify.Subject("Novo contato via site")
	notify.SetBodyString(gomail.TypeTextHTML, notifyBody)

	confirm := gomail.NewMsg()
	if err := confirm.FromFormat("Climbe", m.cfg.Username); err != nil {
		return fmt.Errorf("mail: set from: %w", err)
	}
	if err := confirm.To(sub.Email); err != nil {
		return fmt.Errorf("mail: set to: %w", err)
	}
	confirm.Subject("Recebemos sua mensagem")
	confirm.SetBodyString(gomail.TypeTextHTML, replyBody)

	if err := m.client.DialAndSendWithContext(ctx, notify, confirm); err != nil {
		return fmt.Errorf("mail: send contact: %w", err)
	}

	m.log.Info("contact relayed", zap.String("empresa", sub.Empresa))
	return nil
}

// SendNewsletter relays one newsletter signup: notification to the internal
// address plus a thank-you note to the subscriber.
func (m *SMTPMailer) SendNewsletter(ctx context.Context, email string) error {
	err := m.sendNewsletter(ctx, email)
	metrics.ObserveMailRelay("newsletter", err)
	return err
}

func (m *SMTPMailer) sendNewsletter(ctx context.Context, email string) error {
	data := struct{ Email string }{Email: email}

	notifyBody, err := render(newsletterNotifyTmpl, data)
	if err != nil {
		return err
	}
	replyBody, err := render(newsletterReplyTmpl, data)
	if err != nil {
		return err
	}

	notify := gomail.NewMsg()
	if err := notify.FromFormat(m.cfg.FromName, m.cfg.Username); err != nil {
		return fmt.Errorf("mail: set from: %w", err)
	}
	if err := notify.To(m.cfg.To); err != nil {
		return fmt.Errorf("mail: set to: %w", err)
	}
	notify.Subject("Novo cadastro de interesse")
	notify.SetBodyString(gomail.TypeTextHTML, notifyBody)

	confirm := gomail.NewMsg()
	if err := confirm.FromFormat("Climbe", m.cfg.Username); err != nil {
		return fmt.Errorf("mail: set from: %w", err)
	}
	if err := confirm.To(email); err != nil {
		return fmt.Errorf("mail: set to: %w", err)
	}
	confirm.Subject("Obrigado pelo seu interesse")
	confirm.SetBodyString(gomail.TypeTextHTML, replyBody)

	if err := m.client.DialAndSendWithContext(ctx, notify, confirm); err != nil {
		return fmt.Errorf("mail: send newsletter: %w", err)
	}

	m.log.Info("newsletter signup relayed")
	return nil
}
