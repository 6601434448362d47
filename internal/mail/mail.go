// Package mail renders and delivers the confirmation and reset emails.
// Delivery is best-effort and decoupled from the request/response cycle:
// failures are logged, never surfaced to the triggering request.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"sync"

	"github.com/contacthub/contacthub/pkg/slogx"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names understood by Send.
const (
	TemplateVerifyEmail   = "verify_email"
	TemplateResetPassword = "reset_password"
)

var subjects = map[string]string{
	TemplateVerifyEmail:   "Confirm your email",
	TemplateResetPassword: "Password Reset Request",
}

// Message is one outbound email.
type Message struct {
	To       string
	Template string
	Data     TemplateData
}

// TemplateData is the variable set shared by both templates.
type TemplateData struct {
	Host     string
	Username string
	Token    string
}

// Sender delivers a single message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail over plain SMTP with optional AUTH.
type SMTPSender struct {
	Addr     string // host:port
	Username string
	Password string
	From     string
	FromName string

	tmplOnce sync.Once
	tmpl     *template.Template
	tmplErr  error
}

func (s *SMTPSender) templates() (*template.Template, error) {
	s.tmplOnce.Do(func() {
		s.tmpl, s.tmplErr = template.ParseFS(templateFS, "templates/*.html")
	})
	return s.tmpl, s.tmplErr
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	subject, ok := subjects[msg.Template]
	if !ok {
		return fmt.Errorf("mail: unknown template %q", msg.Template)
	}

	tmpl, err := s.templates()
	if err != nil {
		return fmt.Errorf("mail: parse templates: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, msg.Template+".html", msg.Data); err != nil {
		return fmt.Errorf("mail: render %q: %w", msg.Template, err)
	}

	var raw bytes.Buffer
	fmt.Fprintf(&raw, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", s.FromName), s.From)
	fmt.Fprintf(&raw, "To: %s\r\n", msg.To)
	fmt.Fprintf(&raw, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	raw.WriteString("MIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n")
	raw.Write(body.Bytes())

	var auth smtp.Auth
	if s.Username != "" {
		host, _, _ := splitAddr(s.Addr)
		auth = smtp.PlainAuth("", s.Username, s.Password, host)
	}

	return smtp.SendMail(s.Addr, auth, s.From, []string{msg.To}, raw.Bytes())
}

func splitAddr(addr string) (host, port string, ok bool) {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i], addr[i+1:], true
		}
	}
	return addr, "", false
}

// Dispatcher sends messages in the background so mail latency or failure
// never blocks the triggering request.
type Dispatcher struct {
	sender Sender
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// Dispatch queues msg for background delivery. The request context's logger
// is kept but its cancellation is dropped, so an early client disconnect
// does not abort delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) {
	log := slogx.FromContext(ctx)
	sendCtx := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.sender.Send(sendCtx, msg); err != nil {
			log.Warn("mail delivery failed",
				"template", msg.Template,
				"recipient", msg.To,
				"err", err,
			)
		}
	}()
}

// Wait blocks until all dispatched messages have been attempted. Used during
// shutdown and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
