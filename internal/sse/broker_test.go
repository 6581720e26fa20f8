package sse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func receive(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg := <-ch:
		return string(msg)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
		return ""
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	assert.Equal(t, 0, b.ClientCount())

	ch := b.Subscribe()
	assert.Equal(t, 1, b.ClientCount())

	b.Unsubscribe(ch)
	assert.Equal(t, 0, b.ClientCount())
}

func TestPublishReload(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishReload(Reload{Defaults: map[string]string{"key": "G"}, LogLevel: "DEBUG"})
	msg := receive(t, ch)
	assert.Contains(t, msg, "event: config.reloaded\n")
	assert.Contains(t, msg, `"defaults":{"key":"G"}`)
	assert.Contains(t, msg, `"log_level":"DEBUG"`)
	assert.True(t, strings.HasSuffix(msg, "\n\n"))

	b.PublishReload(Reload{Err: errors.New("defaults: key: cannot be blank")})
	msg = receive(t, ch)
	assert.Contains(t, msg, "event: config.rejected\n")
	assert.Contains(t, msg, `"error":"defaults: key: cannot be blank"`)
}

func TestPublish_UnencodableDataSkipped(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "bad", Data: make(chan int)})
	b.Publish(Event{Type: "good", Data: 1})
	assert.Contains(t, receive(t, ch), "event: good")
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(20 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	b.PublishReload(Reload{LogLevel: "INFO"})
	time.Sleep(100 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: config.reloaded")
	assert.Contains(t, body, ": keep-alive")

	require.Eventually(t, func() bool { return b.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	done := make(chan struct{})
	go func() {
		for range 100 {
			b.Publish(Event{Type: "test", Data: "x"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow client")
	}
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(time.Second)
	ch := b.Subscribe()
	require.Equal(t, 1, b.ClientCount())

	b.Close()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "expected subscriber channel to be closed")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}
	assert.Equal(t, 0, b.ClientCount())

	// No-ops after close.
	b.Publish(Event{Type: "x", Data: 1})
	b.PublishReload(Reload{})
	b.Close()
}
