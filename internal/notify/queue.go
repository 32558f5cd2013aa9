package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Publisher queue producer
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// Consumer queue reader; handle errors never stop the loop
type Consumer interface {
	Run(ctx context.Context, handle func(ctx context.Context, value []byte) error) error
}

// QueueDispatcher enqueues messages for the Worker
type QueueDispatcher struct {
	publisher Publisher
}

// NewQueueDispatcher wraps a publisher
func NewQueueDispatcher(publisher Publisher) *QueueDispatcher {
	return &QueueDispatcher{publisher: publisher}
}

// Dispatch fails only when the job could not be enqueued
func (d *QueueDispatcher) Dispatch(ctx context.Context, msg Message) error {
	msg, err := msg.normalize()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	if err := d.publisher.Publish(ctx, []byte(msg.Channel), payload); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// Worker consumes queued messages and delivers them with retry
type Worker struct {
	consumer  Consumer
	deliverer *Deliverer
	policy    RetryPolicy
	logger    *zap.Logger
}

// NewWorker creates a worker
func NewWorker(consumer Consumer, deliverer *Deliverer, policy RetryPolicy, logger *zap.Logger) *Worker {
	return &Worker{consumer: consumer, deliverer: deliverer, policy: policy, logger: logger}
}

// Run blocks until ctx is cancelled
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("notification worker started")
	defer w.logger.Info("notification worker stopped")
	return w.consumer.Run(ctx, w.handle)
}

// handle never returns an error for a message it has given up on, so the
// offset advances
func (w *Worker) handle(ctx context.Context, value []byte) error {
	var msg Message
	if err := json.Unmarshal(value, &msg); err != nil {
		w.logger.Error("discarding malformed notification", zap.ByteString("payload", value), zap.Error(err))
		return nil
	}

	msg, err := msg.normalize()
	if err != nil {
		w.logger.Error("discarding invalid notification", zap.Error(err))
		return nil
	}

	err = w.policy.Run(ctx, func(ctx context.Context) error {
		return w.deliverer.Deliver(ctx, msg)
	})
	if err != nil {
		w.logger.Error("notification dropped after retries",
			zap.String("channel", string(msg.Channel)),
			zap.Strings("recipients", msg.Recipients),
			zap.Int("attempts", w.policy.Attempts),
			zap.Error(err),
		)
	}
	return nil
}
