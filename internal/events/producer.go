// Package events publishes retrieval lifecycle events for audit consumers.
// Delivery is buffered and best-effort: the pipeline never waits on it.
package events

import (
	"context"
	"encoding/json"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	RetrievalMessageKind string = "capricorn.litreview.events.retrieval"
	defaultTopic         string = "capricorn.litreview.events"
	eventSource          string = "capricorn.litreview"
)

// Writer is the interface to be implemented by the underlying writer.
type Writer interface {
	Write(ctx context.Context, topic string, e cloudevents.Event) error
	Close(ctx context.Context) error
}

// Producer wraps a Writer with a queue so pending events never block the
// caller while the writer catches up.
type Producer struct {
	queue            *queue
	startConsumingCh chan any
	doneCh           chan any
	writer           Writer
	topic            string
}

type ProducerOptions func(p *Producer)

func WithOutputTopic(topic string) ProducerOptions {
	return func(p *Producer) {
		p.topic = topic
	}
}

func NewProducer(w Writer, opts ...ProducerOptions) *Producer {
	p := &Producer{
		queue:            newQueue(),
		startConsumingCh: make(chan any),
		doneCh:           make(chan any),
		writer:           w,
		topic:            defaultTopic,
	}

	for _, o := range opts {
		o(p)
	}

	go p.run()
	return p
}

// PublishRetrieval enqueues one lifecycle event. Marshalling failures are
// impossible for this payload shape, so the only error path is shutdown.
func (p *Producer) PublishRetrieval(e RetrievalEvent) {
	data, err := json.Marshal(e)
	if err != nil {
		zap.S().Named("event_producer").Errorw("failed to marshal event", "error", err)
		return
	}

	prevSize := p.queue.Size()
	p.queue.PushBack(&message{
		Kind: RetrievalMessageKind,
		Data: data,
	})

	if prevSize == 0 {
		// unblock the consumer and start sending messages
		select {
		case p.startConsumingCh <- struct{}{}:
		default:
		}
	}
}

func (p *Producer) Close() error {
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(closeCtx)
	g.Go(func() error {
		p.doneCh <- struct{}{}
		return p.writer.Close(ctx)
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("event producer closed with error: %s", err)
		return err
	}

	zap.S().Named("event_producer").Info("event producer closed")

	return nil
}

func (p *Producer) run() {
	for {
		select {
		case <-p.doneCh:
			return
		default:
		}

		if p.queue.Size() == 0 {
			select {
			case <-p.startConsumingCh:
			case <-p.doneCh:
				return
			}
		}

		msg := p.queue.Pop()
		if msg == nil {
			continue
		}

		e := cloudevents.NewEvent()
		e.SetID(uuid.NewString())
		e.SetSource(eventSource)
		e.SetType(msg.Kind)
		_ = e.SetData(*cloudevents.StringOfApplicationJSON(), msg.Data)

		if err := p.writer.Write(context.TODO(), p.topic, e); err != nil {
			zap.S().Named("event_producer").Errorw("failed to send event", "error", err, "event", e)
		}
	}
}
