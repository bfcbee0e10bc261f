package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
)

// Kind selects the message template.
type Kind string

const (
	KindVerifyAccount  Kind = "verify-account"
	KindForgetPassword Kind = "forget-password"
)

// Message is an outbound notification intent.
type Message struct {
	Kind      Kind
	To        string
	Name      string
	CodeToken string
}

// Sender performs one delivery attempt.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Enqueuer is the producer side handed to services. Delivery is best-effort:
// enqueueing never blocks and never fails the caller.
type Enqueuer interface {
	Enqueue(msg Message)
}

// Queue decouples notification delivery from the request path. Requests
// enqueue an intent and return; a single background worker delivers with a
// bounded per-attempt timeout and capped exponential backoff. A failed
// delivery is logged and dropped, never surfaced to the triggering request.
type Queue struct {
	sender  Sender
	ch      chan Message
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewQueue(sender Sender, size int, timeout time.Duration) *Queue {
	q := &Queue{
		sender:  sender,
		ch:      make(chan Message, size),
		timeout: timeout,
	}

	q.wg.Add(1)
	go q.run()

	return q
}

// Enqueue hands a message to the worker. When the buffer is full the message
// is dropped with a warning; blocking the request path is never an option.
func (q *Queue) Enqueue(msg Message) {
	select {
	case q.ch <- msg:
	default:
		slog.Warn("notify queue full, dropping message", "kind", msg.Kind, "to", msg.To)
	}
}

// Close drains queued messages and stops the worker.
func (q *Queue) Close() {
	close(q.ch)
	q.wg.Wait()
}

func (q *Queue) run() {
	defer q.wg.Done()

	for msg := range q.ch {
		q.deliver(msg)
	}
}

func (q *Queue) deliver(msg Message) {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))

	err := retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, q.timeout)
		defer cancel()

		sendErr := q.sender.Send(attemptCtx, msg)
		if sendErr != nil {
			return retry.RetryableError(sendErr)
		}
		return nil
	})
	if err != nil {
		slog.Error("notification delivery failed, giving up", "kind", msg.Kind, "to", msg.To, "error", err)
		return
	}

	slog.Info("notification delivered", "kind", msg.Kind, "to", msg.To)
}
