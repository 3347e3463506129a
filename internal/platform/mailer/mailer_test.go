package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/config"
	"github.com/phrazzld/taskmanager-api/internal/events"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (r *recordingMailer) Send(ctx context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func (r *recordingMailer) messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

func TestNew(t *testing.T) {
	m, err := New(config.MailConfig{Provider: "log"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)

	m, err = New(config.MailConfig{Provider: "sendgrid", SendGridAPIKey: "SG.key", FromAddress: "a@b.co"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SendGridMailer{}, m)

	_, err = New(config.MailConfig{Provider: "sendgrid"}, nil)
	assert.Error(t, err)

	_, err = New(config.MailConfig{Provider: "smtp"}, nil)
	assert.Error(t, err)
}

func TestLogMailer_RedactsRecipient(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	require.NoError(t, NewLogMailer(log).Send(context.Background(), WelcomeMessage("Ada", "ada@example.com")))

	out := buf.String()
	assert.Contains(t, out, `"kind":"welcome"`)
	assert.NotContains(t, out, "ada@example.com")
}

func TestTemplates(t *testing.T) {
	welcome := WelcomeMessage("<Ada>", "ada@example.com")
	assert.Equal(t, KindWelcome, welcome.Kind)
	assert.Contains(t, welcome.PlainText, "Welcome to the app, <Ada>.")
	assert.Contains(t, welcome.HTML, "&lt;Ada&gt;")

	bye := CancellationMessage("Ada", "ada@example.com")
	assert.Equal(t, KindCancellation, bye.Kind)
	assert.Contains(t, bye.PlainText, "Goodbye, Ada.")
	assert.Equal(t, "ada@example.com", bye.ToAddress)
}

type fakeSendClient struct {
	status int
	err    error
	got    *mail.SGMailV3
}

func (f *fakeSendClient) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.got = email
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status}, nil
}

func TestSendGridMailer(t *testing.T) {
	client := &fakeSendClient{status: 202}
	m := &SendGridMailer{client: client, from: mail.NewEmail("Task Manager", "no-reply@example.com")}

	require.NoError(t, m.Send(context.Background(), WelcomeMessage("Ada", "ada@example.com")))
	require.NotNil(t, client.got)
	assert.Equal(t, "Thanks for joining in!", client.got.Subject)
	assert.Equal(t, "no-reply@example.com", client.got.From.Address)
	require.Len(t, client.got.Personalizations, 1)
	assert.Equal(t, "ada@example.com", client.got.Personalizations[0].To[0].Address)

	client.status = 401
	assert.ErrorContains(t, m.Send(context.Background(), WelcomeMessage("Ada", "ada@example.com")), "status 401")

	client.err = errors.New("network down")
	assert.ErrorContains(t, m.Send(context.Background(), WelcomeMessage("Ada", "ada@example.com")), "network down")
}

func TestDispatcher_DeliversQueuedMail(t *testing.T) {
	rec := &recordingMailer{}
	reg := prometheus.NewRegistry()
	d, err := NewDispatcher(rec, DispatcherConfig{QueueSize: 10, WorkerCount: 2}, nil, reg)
	require.NoError(t, err)
	d.Start()

	require.NoError(t, d.Enqueue(WelcomeMessage("Ada", "ada@example.com")))
	require.NoError(t, d.Enqueue(CancellationMessage("Bob", "bob@example.com")))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	assert.Len(t, rec.messages(), 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.sent.WithLabelValues(KindWelcome, "sent")))

	assert.ErrorIs(t, d.Enqueue(WelcomeMessage("Late", "late@example.com")), ErrQueueClosed)
}

func TestDispatcher_FailuresAreCounted(t *testing.T) {
	rec := &recordingMailer{err: errors.New("provider down")}
	d, err := NewDispatcher(rec, DispatcherConfig{QueueSize: 1, WorkerCount: 1}, nil, nil)
	require.NoError(t, err)
	d.Start()

	require.NoError(t, d.Enqueue(WelcomeMessage("Ada", "ada@example.com")))
	require.NoError(t, d.Stop(context.Background()))

	assert.Equal(t, 1.0, testutil.ToFloat64(d.sent.WithLabelValues(KindWelcome, "error")))
}

func TestDispatcher_QueueFull(t *testing.T) {
	d, err := NewDispatcher(&recordingMailer{}, DispatcherConfig{QueueSize: 1, WorkerCount: 1}, nil, nil)
	require.NoError(t, err)

	// not started, so nothing drains the queue
	require.NoError(t, d.Enqueue(WelcomeMessage("Ada", "ada@example.com")))
	assert.ErrorIs(t, d.Enqueue(WelcomeMessage("Bob", "bob@example.com")), ErrQueueFull)
}

func TestDispatcher_HandleEvent(t *testing.T) {
	rec := &recordingMailer{}
	d, err := NewDispatcher(rec, DispatcherConfig{QueueSize: 5, WorkerCount: 1}, nil, nil)
	require.NoError(t, err)
	d.Start()

	ctx := context.Background()
	require.NoError(t, d.HandleEvent(ctx, events.NewAccountEvent(events.UserRegistered, uuid.New(), "Ada", "ada@example.com")))
	require.NoError(t, d.HandleEvent(ctx, events.NewAccountEvent(events.UserDeleted, uuid.New(), "Ada", "ada@example.com")))
	require.NoError(t, d.HandleEvent(ctx, events.NewAccountEvent("user.renamed", uuid.New(), "Ada", "ada@example.com")))
	require.NoError(t, d.Stop(ctx))

	msgs := rec.messages()
	require.Len(t, msgs, 2)
	kinds := []string{msgs[0].Kind, msgs[1].Kind}
	assert.ElementsMatch(t, []string{KindWelcome, KindCancellation}, kinds)
}
