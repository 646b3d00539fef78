package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"registrar/models"
	"registrar/observability"
	"registrar/queue"

	log "github.com/sirupsen/logrus"
)

// Dispatcher is the entry point for every inbound guild message
type Dispatcher struct {
	commands       *CommandHandler
	processor      *Processor
	queue          *queue.MessageQueue
	enqueueTimeout time.Duration
	metrics        *observability.Metrics
}

// NewDispatcher creates a dispatcher. enqueueTimeout bounds the wait on a full queue; zero waits until ctx ends.
func NewDispatcher(
	commands *CommandHandler,
	processor *Processor,
	q *queue.MessageQueue,
	enqueueTimeout time.Duration,
	metrics *observability.Metrics,
) *Dispatcher {
	return &Dispatcher{
		commands:       commands,
		processor:      processor,
		queue:          q,
		enqueueTimeout: enqueueTimeout,
		metrics:        metrics,
	}
}

// HandleMessage routes config commands to the command handler; anything else is
// enqueued and the queue is drained through the processor straight away.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg models.QueuedMessage) {
	d.metrics.IncMessagesReceived()

	if IsSetConfigCommand(msg.Content) {
		if err := d.commands.HandleSetConfig(ctx, msg); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"guild_id":  msg.GuildID,
				"author_id": msg.AuthorID,
			}).Debug("Config command did not complete")
		}
		return
	}

	if err := d.enqueue(ctx, msg); err != nil {
		d.metrics.IncEnqueueDropped()
		log.WithError(err).WithFields(log.Fields{
			"guild_id":   msg.GuildID,
			"message_id": msg.MessageID,
			"queue_cap":  d.queue.Cap(),
		}).Warn("Message queue full, dropping message")
	}
	d.metrics.SetQueueDepth(d.queue.Len())

	d.Drain(ctx)
}

// Drain processes every message currently buffered and returns how many were handled
func (d *Dispatcher) Drain(ctx context.Context) int {
	n := d.queue.Drain(func(queued models.QueuedMessage) {
		d.processor.Process(ctx, queued)
	})
	d.metrics.SetQueueDepth(d.queue.Len())
	return n
}

func (d *Dispatcher) enqueue(ctx context.Context, msg models.QueuedMessage) error {
	if d.enqueueTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.enqueueTimeout)
		defer cancel()
	}

	err := d.queue.Enqueue(ctx, msg)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timed out waiting for queue space: %w", err)
	}
	return err
}
