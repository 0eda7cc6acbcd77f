package events

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/require"
)

func TestNewEventFromJson(t *testing.T) {
	e := New(TypeCompleted, 3, "i am mad")
	e.Rewritten = "I am quite displeased."
	b, err := json.Marshal(e)
	require.NoError(t, err)

	got, err := NewEventFromJson(b)
	require.NoError(t, err)
	require.Equal(t, e.ID, got.ID)
	require.Equal(t, TypeCompleted, got.Type)
	require.Equal(t, uint64(3), got.Seq)
	require.Equal(t, "I am quite displeased.", got.Rewritten)

	_, err = NewEventFromJson([]byte(`{"seq":1}`))
	require.Error(t, err)
	_, err = NewEventFromJson([]byte(`nope`))
	require.Error(t, err)
}

func TestRouterDeliversPublishedEvents(t *testing.T) {
	r, err := NewRouter(false)
	require.NoError(t, err)

	var mu sync.Mutex
	var received []Event
	done := make(chan struct{})
	r.AddHandler("collect", Topic, func(msg *message.Message) error {
		e, err := NewEventFromJson(msg.Payload)
		require.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e)
		if len(received) == 2 {
			close(done)
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = r.Run(ctx)
	}()
	<-r.Running()

	sink := NewWatermillSink(r.Publisher, Topic)
	require.NoError(t, sink.Publish(New(TypeStarted, 1, "i am mad")))
	require.NoError(t, sink.Publish(New(TypeFailed, 1, "i am mad")))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for events")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	types := []Type{received[0].Type, received[1].Type}
	require.ElementsMatch(t, []Type{TypeStarted, TypeFailed}, types)

	require.NoError(t, CloseRouter(r))
}

func TestPrinterHandler(t *testing.T) {
	var buf bytes.Buffer
	h := PrinterHandler(&buf)

	e := New(TypeCompleted, 7, "this is bad!")
	e.Rewritten = "This is most unfortunate."
	b, err := json.Marshal(e)
	require.NoError(t, err)

	require.NoError(t, h(message.NewMessage(e.ID.String(), b)))
	require.Contains(t, buf.String(), "#7")
	require.Contains(t, buf.String(), "This is most unfortunate.")
}

func TestFormatEventFailed(t *testing.T) {
	e := New(TypeFailed, 2, "ugh")
	e.Error = "connection refused"
	require.Contains(t, FormatEvent(e), "connection refused")
}

func TestSinkFunc(t *testing.T) {
	var got []Type
	s := SinkFunc(func(e Event) error {
		got = append(got, e.Type)
		return nil
	})
	require.NoError(t, s.Publish(New(TypeStarted, 1, "x")))
	require.NoError(t, NopSink{}.Publish(New(TypeStarted, 1, "x")))
	require.Equal(t, []Type{TypeStarted}, got)
}

type slowPublisher struct {
	delay     time.Duration
	published chan *message.Message
}

func (p *slowPublisher) Publish(topic string, msgs ...*message.Message) error {
	time.Sleep(p.delay)
	for _, m := range msgs {
		p.published <- m
	}
	return nil
}

func (p *slowPublisher) Close() error { return nil }

func TestMirrorHandlerKeepsPublishingFast(t *testing.T) {
	r, err := NewRouter(false)
	require.NoError(t, err)

	slow := &slowPublisher{delay: 500 * time.Millisecond, published: make(chan *message.Message, 4)}
	r.AddHandler("mirror", Topic, MirrorHandler(slow, Topic))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = r.Run(ctx)
	}()
	<-r.Running()

	sink := NewWatermillSink(r.Publisher, Topic)
	e := New(TypeStarted, 1, "i am mad")
	start := time.Now()
	require.NoError(t, sink.Publish(e))
	require.Less(t, time.Since(start), 100*time.Millisecond)

	select {
	case m := <-slow.published:
		got, err := NewEventFromJson(m.Payload)
		require.NoError(t, err)
		require.Equal(t, e.ID, got.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not mirrored")
	}

	require.NoError(t, CloseRouter(r))
}

type failingPublisher struct {
	calls int
}

func (p *failingPublisher) Publish(string, ...*message.Message) error {
	p.calls++
	return context.DeadlineExceeded
}

func (p *failingPublisher) Close() error { return nil }

func TestMirrorHandlerDropsFailedMessages(t *testing.T) {
	p := &failingPublisher{}
	h := MirrorHandler(p, Topic)
	require.NoError(t, h(message.NewMessage("1", []byte(`{}`))))
	require.Equal(t, 1, p.calls)
}
