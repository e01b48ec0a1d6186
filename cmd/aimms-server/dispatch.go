package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/kstaniek/go-aimms30-server/internal/httpapi"
	"github.com/kstaniek/go-aimms30-server/internal/queue"
	"github.com/kstaniek/go-aimms30-server/internal/recorder"
)

// runDispatcher is the single consumer of the decoded-packet queue: it pops
// each record exactly once and fans it out to every configured sink,
// mirroring UAVMaster.run's single pop() followed by both
// state['aimms'].update(obj) and recorder.schedule_object(obj) in the
// original Python (aimms30/core.py). Running two independent TryPop
// consumers over the same queue would instead split the stream between
// them, so this is the only place that calls out.TryPop.
func runDispatcher(ctx context.Context, out *queue.Queue, state *httpapi.State, rec *recorder.Recorder, period time.Duration, l *slog.Logger) {
	if period <= 0 {
		period = time.Millisecond
	}
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for {
				r, ok := out.TryPop()
				if !ok {
					break
				}
				state.Update(r)
				if rec != nil {
					if err := rec.Append(r); err != nil {
						l.Error("recorder_append_error", "error", err)
					}
				}
			}
		}
	}
}
