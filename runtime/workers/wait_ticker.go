package workers

import (
	"context"
	"log/slog"
	"time"

	"support-chat/contract"
	"support-chat/routing"
)

// WaitTicker periodically refreshes the recorded wait time of every queued
// client and pushes refreshed queue positions to them.
type WaitTicker struct {
	log      *slog.Logger
	queue    *routing.WaitQueue
	notifier contract.Notifier
	interval time.Duration
}

func NewWaitTicker(queue *routing.WaitQueue, notifier contract.Notifier, interval time.Duration, log *slog.Logger) *WaitTicker {
	return &WaitTicker{log: log, queue: queue, notifier: notifier, interval: interval}
}

func (w *WaitTicker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("Wait ticker started", "interval", w.interval)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Wait ticker stopped")
			return nil
		case now := <-ticker.C:
			w.queue.RecomputeWaitTimes(now.UTC())
			for i, qc := range w.queue.Snapshot() {
				w.notifier.NotifyQueueUpdate(qc.ClientID, i+1)
			}
		}
	}
}
