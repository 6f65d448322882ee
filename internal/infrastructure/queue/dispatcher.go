package queue

import (
	"context"
	"encoding/binary"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes inbound chat messages to a fixed set of workers using
// consistent hashing on the chat id, guaranteeing per-chat processing order.
// Messages from one channel often repeat each other (forwards, corrections),
// so in-order handling keeps the dedup window coherent.
type Dispatcher struct {
	workers  []chan ports.InboundMessage
	consumer ports.MessageConsumer
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, consumer ports.MessageConsumer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.InboundMessage, numWorkers),
		consumer: consumer,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.InboundMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a message to the worker responsible for its chat.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(msg ports.InboundMessage) {
	d.workers[d.shardIndex(msg.ChatID)] <- msg
}

// shardIndex maps a chat id deterministically to a worker index.
func (d *Dispatcher) shardIndex(chatID int64) int {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(chatID))
	h := fnv.New32a()
	_, _ = h.Write(buf[:])
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.InboundMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := d.consumer.Consume(ctx, msg); err != nil {
				d.log.Error().Err(err).
					Int64("chat_id", msg.ChatID).
					Int64("message_id", msg.MessageID).
					Int("worker_id", id).
					Msg("message processing failed")
			}
		}
	}
}
