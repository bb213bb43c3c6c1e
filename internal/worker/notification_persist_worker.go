package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"docutrack/internal/app"
	"docutrack/internal/model"
)

// NotificationPersistWorker drains the notification queue and writes each
// event to the store. Decode or persist failures are nacked without requeue;
// there is no retry policy anywhere in the pipeline.
type NotificationPersistWorker struct {
	conn      *amqp.Connection
	store     app.NotificationStore
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewNotificationPersistWorker(conn *amqp.Connection, store app.NotificationStore, queueName string) *NotificationPersistWorker {
	return &NotificationPersistWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
	}
}

func (w *NotificationPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var n model.Notification
				if err := json.Unmarshal(d.Body, &n); err != nil {
					logrus.Warnf("worker decode notification failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.store.Create(&n); err != nil {
					logrus.Warnf("worker persist notification failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *NotificationPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
