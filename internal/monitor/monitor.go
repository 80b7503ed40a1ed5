// internal/monitor/monitor.go
// Description: The monitor engine. Owns the ordered flow list and the
// driver lifecycle, runs the refresh loop, and publishes one snapshot per
// cycle to the status store.

package monitor

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bzzzm/ghiseul-monitor/internal/config"
	"github.com/bzzzm/ghiseul-monitor/internal/status"
)

const dateLayout = "2006-01-02 15:04:05"

const shutdownGracePeriod = 10 * time.Second

// Engine drives the monitor flows on a fixed refresh interval.
type Engine struct {
	cfg    config.MonitorConfig
	flows  []Flow
	life   Lifecycle
	store  *status.Store
	logger *zap.Logger
}

// NewEngine creates an engine running the login and debit flows, in that
// order, against sessions handed out by the given lifecycle policy.
func NewEngine(cfg config.MonitorConfig, life Lifecycle, store *status.Store, logger *zap.Logger) *Engine {
	log := logger.Named("monitor")
	return &Engine{
		cfg:   cfg,
		life:  life,
		store: store,
		flows: []Flow{
			NewLoginFlow(cfg, log),
			NewDebitFlow(cfg.Institution, log),
		},
		logger: log,
	}
}

// Run executes cycles until ctx is canceled, sleeping the refresh interval
// between them. The loop has no fatal path: a failed cycle is published and
// the next one is scheduled. Returns ctx.Err() after closing any active
// browser session.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("Starting ghiseul.ro monitor",
		zap.String("institution", e.cfg.Institution),
		zap.Duration("refresh", e.cfg.Refresh))
	defer e.Shutdown()

	for i := 0; ; i++ {
		log := e.logger.With(zap.Int("iteration", i), zap.String("run_id", uuid.NewString()))
		log.Info("Starting iteration")

		sess, err := e.life.Acquire(ctx)
		if err != nil {
			log.Error("Could not acquire browser session, skipping cycle", zap.Error(err))
		} else {
			snap := e.ExecuteCycle(ctx, sess)
			e.life.Release(ctx, sess)
			if ctx.Err() == nil {
				e.store.Publish(snap)
				log.Info("Finished iteration",
					zap.Bool("success", snap.Success),
					zap.Float64("duration", snap.Duration),
					zap.String("error", snap.Error))
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.cfg.Refresh):
		}
	}
}

// ExecuteCycle runs every configured flow in order and assembles the cycle
// snapshot. A failing flow never stops the cycle: later flows still run and
// report their own result.
func (e *Engine) ExecuteCycle(ctx context.Context, sess Session) status.Snapshot {
	snap := status.Snapshot{
		Flows: status.FlowResults{},
		Date:  time.Now().Format(dateLayout),
	}

	for _, flow := range e.flows {
		e.logger.Info("Starting flow", zap.String("flow", flow.Name()))
		start := time.Now()
		ok, msg := e.runFlow(ctx, flow, sess)
		elapsed := time.Since(start).Seconds()

		snap.Flows = append(snap.Flows, status.FlowResult{Name: flow.Name(), OK: ok})
		if msg != "" {
			snap.Error += fmt.Sprintf("%s: %s; ", strings.ToUpper(flow.Name()), msg)
		}
		snap.Duration = round2(snap.Duration + elapsed)

		e.logger.Info("Flow finished",
			zap.String("flow", flow.Name()),
			zap.Bool("success", ok),
			zap.Float64("duration", round2(elapsed)))
	}

	snap.Success = snap.Flows.AllOK()
	return snap
}

// Shutdown closes any active browser session. Idempotent.
func (e *Engine) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	e.life.Shutdown(ctx)
}

// runFlow isolates one flow execution: a panicking step becomes a failed
// result instead of taking the polling loop down.
func (e *Engine) runFlow(ctx context.Context, flow Flow, sess Session) (ok bool, msg string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Flow panicked",
				zap.String("flow", flow.Name()),
				zap.Any("panic", r),
				zap.Stack("stack"))
			ok = false
			msg = fmt.Sprintf("Unexpected error in %s flow", flow.Name())
		}
	}()
	return flow.Execute(ctx, sess)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
