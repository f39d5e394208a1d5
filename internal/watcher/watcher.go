// Package watcher runs the continuous polling loops that keep the local
// store in sync with the Open Finance provider and fire alerts on what they
// find.
package watcher

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	pollTracer         = otel.Tracer("finova/watcher")
	pollMeter          = otel.Meter("finova/watcher")
	pollDuration, _    = pollMeter.Float64Histogram("watcher.cycle.duration", metric.WithDescription("Poll cycle duration in seconds"), metric.WithUnit("s"))
	pollTotal, _       = pollMeter.Int64Counter("watcher.cycle.total", metric.WithDescription("Total poll cycles by watcher and status"))
	alertsFired, _     = pollMeter.Int64Counter("watcher.alerts.fired", metric.WithDescription("Alerts delivered by watcher"))
	recordsIngested, _ = pollMeter.Int64Counter("watcher.records.ingested", metric.WithDescription("New records persisted by watcher"))
)

// State is the lifecycle position of a watcher loop.
type State int32

const (
	StateIdle State = iota
	StatePolling
	StateSleeping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateSleeping:
		return "sleeping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Watcher drives a single poll cycle function on a fixed interval. A cycle
// error is logged and counted but never stops the loop; only context
// cancellation does, and the loop only checks for it between cycles or while
// sleeping, so a cycle in flight always finishes.
type Watcher struct {
	name     string
	interval time.Duration
	cycle    func(ctx context.Context) error

	mu    sync.RWMutex
	state State
}

func New(name string, interval time.Duration, cycle func(ctx context.Context) error) *Watcher {
	return &Watcher{
		name:     name,
		interval: interval,
		cycle:    cycle,
		state:    StateIdle,
	}
}

// State returns the current lifecycle position.
func (w *Watcher) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Watcher) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Run polls until ctx is cancelled. It always returns nil so an errgroup
// treats shutdown as clean; cycle failures never propagate.
func (w *Watcher) Run(ctx context.Context) error {
	log.Printf("Watcher %s: starting, polling every %v", w.name, w.interval)

	timer := time.NewTimer(0)
	defer timer.Stop()
	// Drain the immediate first tick so the loop structure below stays uniform.
	<-timer.C

	for {
		if ctx.Err() != nil {
			w.stop()
			return nil
		}

		w.setState(StatePolling)
		w.runCycle(ctx)
		w.setState(StateSleeping)

		timer.Reset(w.interval)
		select {
		case <-ctx.Done():
			w.stop()
			return nil
		case <-timer.C:
		}
	}
}

func (w *Watcher) stop() {
	w.setState(StateStopped)
	log.Printf("Watcher %s: stopped", w.name)
}

func (w *Watcher) runCycle(ctx context.Context) {
	cycleCtx, span := pollTracer.Start(ctx, "watcher.cycle",
		trace.WithAttributes(attribute.String("watcher.name", w.name)),
	)
	defer span.End()

	start := time.Now()
	err := w.cycle(cycleCtx)
	pollDuration.Record(cycleCtx, time.Since(start).Seconds(), metric.WithAttributes(attribute.String("watcher", w.name)))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		pollTotal.Add(cycleCtx, 1, metric.WithAttributes(
			attribute.String("watcher", w.name),
			attribute.String("status", "error"),
		))
		log.Printf("Watcher %s: cycle failed, will retry next interval: %v", w.name, err)
		return
	}

	pollTotal.Add(cycleCtx, 1, metric.WithAttributes(
		attribute.String("watcher", w.name),
		attribute.String("status", "success"),
	))
}
