package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aromakopi/pos-backend/internal/broker"
	"github.com/aromakopi/pos-backend/internal/mailer"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestEmailWorker_Process(t *testing.T) {
	rec := &recordingMailer{}
	w := NewEmailWorker(rec)

	err := w.Process(context.Background(), []byte(`{"name":"Budi","email":"budi@example.com","password":"abc123XYZ9","loginUrl":"http://x/login"}`))

	require.NoError(t, err)
	require.Equal(t, 1, rec.count())
	assert.Equal(t, "budi@example.com", rec.sent[0].To)
	assert.Contains(t, rec.sent[0].Text, "abc123XYZ9")
}

func TestEmailWorker_InvalidPayload(t *testing.T) {
	w := NewEmailWorker(&recordingMailer{})

	assert.Error(t, w.Process(context.Background(), []byte(`{broken`)))
	assert.Error(t, w.Process(context.Background(), []byte(`{"name":"No Email"}`)))
}

func TestEmailWorker_MailerError(t *testing.T) {
	w := NewEmailWorker(&recordingMailer{err: errors.New("smtp down")})

	err := w.Process(context.Background(), []byte(`{"email":"budi@example.com"}`))

	assert.Error(t, err)
}

func TestPool_DeliversQueuedJobs(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := broker.NewRedisJobBroker(client).WithPollTimeout(time.Second)
	defer b.Close()

	rec := &recordingMailer{}
	pool := NewPool(b, 2, broker.QueueEmail)
	pool.Register(JobKasirWelcome, NewEmailWorker(rec))

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, b.Enqueue(ctx, broker.QueueEmail, JobKasirWelcome, mailer.KasirWelcome{Name: "Kasir", Email: to}))
	}
	require.NoError(t, b.Enqueue(ctx, broker.QueueEmail, "unknown_job", map[string]string{}))

	assert.Eventually(t, func() bool { return rec.count() == 3 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		pool.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not stop after cancel")
	}
}
