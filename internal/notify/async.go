package notify

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// AsyncDispatcher delivers in-process on background goroutines.
// Used when no broker is configured.
type AsyncDispatcher struct {
	deliverer *Deliverer
	policy    RetryPolicy
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// ErrDispatcherClosed Dispatch after Close
var ErrDispatcherClosed = errors.New("notification dispatcher closed")

// NewAsyncDispatcher creates a dispatcher; call Close on shutdown
func NewAsyncDispatcher(deliverer *Deliverer, policy RetryPolicy, logger *zap.Logger) *AsyncDispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &AsyncDispatcher{
		deliverer: deliverer,
		policy:    policy,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Dispatch validates msg and schedules delivery; the caller's ctx does not
// bound delivery
func (d *AsyncDispatcher) Dispatch(_ context.Context, msg Message) error {
	msg, err := msg.normalize()
	if err != nil {
		return err
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		err := d.policy.Run(d.ctx, func(ctx context.Context) error {
			return d.deliverer.Deliver(ctx, msg)
		})
		if err != nil {
			d.logger.Error("notification dropped after retries",
				zap.String("channel", string(msg.Channel)),
				zap.Int("attempts", d.policy.Attempts),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Close waits for in-flight deliveries until ctx expires, then abandons retries
func (d *AsyncDispatcher) Close(ctx context.Context) {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.cancel()
		<-done
	}
	d.cancel()
}
