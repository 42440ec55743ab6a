package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const sendTimeout = 15 * time.Second

// Dispatcher decouples notification delivery from order creation: order
// numbers go onto a bounded queue and a worker pool sends the emails. A full
// queue or a failed send is logged and left to the manual resend endpoint;
// neither ever touches the stored order.
type Dispatcher struct {
	log      *slog.Logger
	notifier *NotificationService
	queue    chan string
	wg       sync.WaitGroup
}

func NewDispatcher(log *slog.Logger, notifier *NotificationService, queueSize int) *Dispatcher {
	return &Dispatcher{
		log:      log,
		notifier: notifier,
		queue:    make(chan string, queueSize),
	}
}

// Enqueue hands an order number to the workers without blocking the request.
func (d *Dispatcher) Enqueue(orderNumber string) bool {
	select {
	case d.queue <- orderNumber:
		return true
	default:
		d.log.Warn("notification queue full, dropping", "order_number", orderNumber)
		return false
	}
}

func (d *Dispatcher) Run(workers int) {
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go func(id int) {
			defer d.wg.Done()
			d.workerLoop(id)
		}(i)
	}
	d.log.Info("notification workers started", "count", workers)
}

func (d *Dispatcher) workerLoop(id int) {
	for orderNumber := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)

		if _, err := d.notifier.Send(ctx, orderNumber); err != nil {
			d.log.Error("notification send failed", "worker", id, "order_number", orderNumber, "err", err)
		}

		cancel()
	}
}

// Close stops accepting work and waits for in-flight sends to finish.
func (d *Dispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}
