package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/skillzio/evaluation-service/pkg/logger/sl"
)

// Worker consumes email jobs from the notification queue and delivers them.
// Delivery failures are logged and the message is dropped; retry policy
// belongs to the mail transport, not here.
type Worker struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	queue  string
	sender Sender
	log    *slog.Logger
}

func NewWorker(url, queue string, sender Sender, log *slog.Logger) (*Worker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Worker{conn: conn, ch: ch, queue: queue, sender: sender, log: log}, nil
}

func (w *Worker) Close() {
	if w.ch != nil {
		_ = w.ch.Close()
	}
	if w.conn != nil {
		_ = w.conn.Close()
	}
}

// Run consumes the queue until the context is cancelled or the channel
// closes.
func (w *Worker) Run(ctx context.Context) error {
	const op = "internal.notify.worker.Run"

	deliveries, err := w.ch.Consume(
		w.queue,
		"",    // consumer tag
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to start consumer: %w", op, err)
	}

	w.log.Info("notification worker started", slog.String("queue", w.queue))

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("%s: delivery channel closed", op)
			}

			w.handle(ctx, delivery)
		}
	}
}

func (w *Worker) handle(ctx context.Context, delivery amqp.Delivery) {
	var job EmailJob
	if err := json.Unmarshal(delivery.Body, &job); err != nil {
		w.log.Error("failed to decode email job", sl.Err(err))
		_ = delivery.Nack(false, false)

		return
	}

	log := w.log.With(slog.String("to", job.To), slog.String("subject", job.Subject))

	if err := w.sender.Send(ctx, job.To, job.Subject, job.Body); err != nil {
		log.Error("failed to send email", sl.Err(err))
		_ = delivery.Nack(false, false)

		return
	}

	log.Info("email sent")
	_ = delivery.Ack(false)
}
