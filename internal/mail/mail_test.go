package mail

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (r *recordingSender) Send(ctx context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func (r *recordingSender) messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

func TestDispatcherDelivers(t *testing.T) {
	t.Parallel()

	rec := &recordingSender{}
	d := NewDispatcher(rec)

	d.Dispatch(context.Background(), Message{
		To:       "alice@example.com",
		Template: TemplateVerifyEmail,
		Data:     TemplateData{Host: "http://localhost/", Username: "alice", Token: "tok"},
	})
	d.Wait()

	sent := rec.messages()
	require.Len(t, sent, 1)
	require.Equal(t, "alice@example.com", sent[0].To)
	require.Equal(t, TemplateVerifyEmail, sent[0].Template)
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	t.Parallel()

	rec := &recordingSender{err: errors.New("smtp down")}
	d := NewDispatcher(rec)

	// Must not panic or propagate; the failure is logged only.
	d.Dispatch(context.Background(), Message{To: "x@example.com", Template: TemplateResetPassword})
	d.Wait()
	require.Len(t, rec.messages(), 1)
}

func TestDispatchSurvivesCancelledRequestContext(t *testing.T) {
	t.Parallel()

	rec := &recordingSender{}
	d := NewDispatcher(rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d.Dispatch(ctx, Message{To: "x@example.com", Template: TemplateVerifyEmail})
	d.Wait()
	require.Len(t, rec.messages(), 1)
}

func TestSMTPSenderRendersTemplates(t *testing.T) {
	t.Parallel()

	s := &SMTPSender{}
	tmpl, err := s.templates()
	require.NoError(t, err)
	require.NotNil(t, tmpl.Lookup("verify_email.html"))
	require.NotNil(t, tmpl.Lookup("reset_password.html"))
}

func TestSMTPSenderRejectsUnknownTemplate(t *testing.T) {
	t.Parallel()

	s := &SMTPSender{Addr: "localhost:2525", From: "noreply@example.com"}
	err := s.Send(context.Background(), Message{To: "x@example.com", Template: "nope"})
	require.Error(t, err)
}
