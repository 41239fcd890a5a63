package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnhub/lms-platform/internal/api/metrics"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrQueueFull is returned by Send when the recipient's worker has no room.
var ErrQueueFull = errors.New("mail queue is full")

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("mail dispatcher is closed")

// Sender performs the actual delivery of one message.
type Sender interface {
	Deliver(ctx context.Context, msg ports.MailMessage) error
}

// MailDispatcher routes outbound mail to a fixed set of workers using
// consistent hashing on the recipient, so mails to one address go out in
// order. It implements ports.Mailer.
type MailDispatcher struct {
	workers []chan ports.MailMessage
	sender  Sender
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewMailDispatcher creates a MailDispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, sender Sender, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan ports.MailMessage, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MailMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Close once their channel is drained.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Send hands msg to the worker responsible for its recipient. It never
// blocks: a full channel yields ErrQueueFull.
func (d *MailDispatcher) Send(_ context.Context, msg ports.MailMessage) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	idx := d.shardIndex(msg.To)
	select {
	case d.workers[idx] <- msg:
		metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return nil
	default:
		metrics.MailDispatchTotal.WithLabelValues(string(msg.Template), "rejected").Inc()
		return ErrQueueFull
	}
}

// Close stops accepting mail and waits for workers to drain their channels.
func (d *MailDispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(to)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MailMessage) {
	defer d.wg.Done()
	depth := metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.deliver(ctx, id, msg)
		}
	}
}

func (d *MailDispatcher) deliver(ctx context.Context, id int, msg ports.MailMessage) {
	start := time.Now()
	err := d.sender.Deliver(ctx, msg)
	metrics.MailDeliveryDuration.WithLabelValues(string(msg.Template)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.MailDispatchTotal.WithLabelValues(string(msg.Template), "failed").Inc()
		d.log.Error().Err(err).
			Str("to", msg.To).
			Str("template", string(msg.Template)).
			Int("worker_id", id).
			Msg("mail delivery failed")
		return
	}
	metrics.MailDispatchTotal.WithLabelValues(string(msg.Template), "sent").Inc()
	d.log.Debug().Str("to", msg.To).Str("template", string(msg.Template)).Msg("mail delivered")
}
