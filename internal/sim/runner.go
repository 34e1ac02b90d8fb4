package sim

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/msageha/colonysim/internal/events"
	"github.com/msageha/colonysim/internal/logging"
	"github.com/msageha/colonysim/internal/model"
)

// Options tune a run beyond what the config file says.
type Options struct {
	ConfigPath string // watched for log level and tick interval changes
	AuditPath  string // JSONL mission event trail, disabled when empty
	MaxTicks   int    // overrides simulation.max_ticks when positive
}

var ErrAlreadyRun = errors.New("runner: already run")

// auditBuffer holds events published in one tick while the audit log catches up.
const auditBuffer = 4096

// Runner ticks a built World in real time until every mission is done.
type Runner struct {
	scenario *Scenario
	world    *World
	opts     Options
	logger   zerolog.Logger

	mu         sync.RWMutex
	cfg        model.Config
	intervalCh chan time.Duration
	reload     singleflight.Group

	watcher *fsnotify.Watcher
	audit   *events.AuditLogger
	ticks   int
	started bool
	stopped bool
}

// NewRunner builds sc under cfg. Missions created by the build are already
// recorded in the audit log.
func NewRunner(sc *Scenario, cfg model.Config, logger zerolog.Logger, opts Options) (*Runner, error) {
	r := &Runner{
		scenario:   sc,
		opts:       opts,
		logger:     logger.With().Str("component", "runner").Logger(),
		cfg:        cfg,
		intervalCh: make(chan time.Duration, 1),
	}
	if opts.ConfigPath != "" {
		r.opts.ConfigPath = filepath.Clean(opts.ConfigPath)
	}
	bus := events.NewBus(auditBuffer)
	if opts.AuditPath != "" {
		audit, err := events.NewAuditLogger(opts.AuditPath, 0)
		if err != nil {
			return nil, fmt.Errorf("audit log: %w", err)
		}
		r.audit = audit
		bus.Subscribe(audit.Handle, nil)
	}
	w, err := Build(sc, cfg, logger, bus)
	if err != nil {
		bus.Close()
		if r.audit != nil {
			_ = r.audit.Close()
		}
		return nil, err
	}
	r.world = w
	return r, nil
}

func (r *Runner) World() *World { return r.world }

// Ticks is the number of completed ticks.
func (r *Runner) Ticks() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ticks
}

func (r *Runner) config() model.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

func (r *Runner) maxTicks() int {
	if r.opts.MaxTicks > 0 {
		return r.opts.MaxTicks
	}
	return r.config().Simulation.MaxTicks
}

// Done reports whether every mission has finished or the tick limit is reached.
func (r *Runner) Done() bool {
	if r.world.Manager.AllDone() {
		return true
	}
	limit := r.maxTicks()
	return limit > 0 && r.Ticks() >= limit
}

// Step runs one tick: every worker performs its mission, the colony advances
// and each settlement draws its upkeep concurrently.
func (r *Runner) Step(ctx context.Context) error {
	cfg := r.config()
	dt := cfg.Simulation.TickDuration()

	for _, w := range r.world.Colony.Workers() {
		r.world.Manager.PerformMission(w)
	}
	r.world.Colony.Tick(dt)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, s := range r.world.Colony.Settlements() {
		s := s
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("upkeep %s: panic: %v", s.Name(), rec)
				}
			}()
			return s.Upkeep(gctx, dt, cfg.Supplies)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("tick %d: %w", r.Ticks()+1, err)
	}

	r.mu.Lock()
	r.ticks++
	r.mu.Unlock()

	for _, m := range r.world.Manager.Prune() {
		r.logger.Info().Str("mission", m.Name()).Strs("status", statusNames(m.MissionStatus())).Int("tick", r.Ticks()).Msg("mission finished")
	}
	return nil
}

// Run ticks until Done or ctx is cancelled and returns the final report.
// The report is returned alongside any error so partial runs can be inspected.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.started {
		return nil, ErrAlreadyRun
	}
	r.started = true
	defer r.stop()

	if r.opts.ConfigPath != "" {
		if err := r.watchConfig(ctx); err != nil {
			r.logger.Warn().Err(err).Str("path", r.opts.ConfigPath).Msg("config watch disabled")
		}
	}

	var ticker *time.Ticker
	var tick <-chan time.Time
	setInterval := func(d time.Duration) {
		switch {
		case d > 0 && ticker != nil:
			ticker.Reset(d)
		case d > 0:
			ticker = time.NewTicker(d)
			tick = ticker.C
		case ticker != nil:
			ticker.Stop()
			ticker, tick = nil, nil
		}
	}
	setInterval(r.config().Simulation.TickInterval())
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	r.logger.Info().Str("scenario", r.scenario.Name).Int("missions", len(r.world.Missions)).Msg("run started")
	for !r.Done() {
		if tick == nil {
			select {
			case <-ctx.Done():
				return r.finish(ctx.Err())
			case d := <-r.intervalCh:
				setInterval(d)
				continue
			default:
			}
		} else {
			select {
			case <-ctx.Done():
				return r.finish(ctx.Err())
			case d := <-r.intervalCh:
				setInterval(d)
				continue
			case <-tick:
			}
		}
		if err := r.Step(ctx); err != nil {
			return r.finish(err)
		}
	}
	return r.finish(nil)
}

func (r *Runner) finish(err error) (*Report, error) {
	r.stop()
	rep := NewReport(r.scenario.Name, r.world, r.Ticks())
	if err != nil {
		r.logger.Error().Err(err).Int("tick", r.Ticks()).Msg("run stopped")
	} else {
		r.logger.Info().Int("ticks", r.Ticks()).Bool("all_done", rep.AllDone).Msg("run finished")
	}
	return rep, err
}

// stop closes the watcher, flushes pending events and closes the audit log.
func (r *Runner) stop() {
	if r.stopped {
		return
	}
	r.stopped = true
	if r.watcher != nil {
		_ = r.watcher.Close()
	}
	r.world.Bus.Close()
	r.world.Bus.Wait()
	if n := r.world.Bus.Dropped(); n > 0 {
		r.logger.Warn().Int64("dropped", n).Msg("event listeners fell behind, events were dropped")
	}
	if r.audit != nil {
		if err := r.audit.Err(); err != nil {
			r.logger.Warn().Err(err).Msg("audit log write failed")
		}
		_ = r.audit.Close()
	}
}

// watchConfig watches the config file's directory, since editors often
// replace the file rather than write it in place.
func (r *Runner) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(r.opts.ConfigPath)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(r.opts.ConfigPath), err)
	}
	r.watcher = watcher
	go r.watchLoop(ctx, watcher)
	return nil
}

func (r *Runner) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != r.opts.ConfigPath {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				r.ReloadConfig()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn().Err(err).Msg("config watcher error")
		}
	}
}

// ReloadConfig re-reads the config file and applies its log level and tick
// interval. Concurrent calls share one read. A bad file keeps the old values.
func (r *Runner) ReloadConfig() {
	_, _, _ = r.reload.Do("config", func() (interface{}, error) {
		cfg, err := model.LoadConfig(r.opts.ConfigPath)
		if err != nil {
			r.logger.Warn().Err(err).Msg("config reload failed")
			return nil, err
		}
		r.applyConfig(cfg)
		return nil, nil
	})
}

func (r *Runner) applyConfig(next model.Config) {
	r.mu.Lock()
	prev := r.cfg
	r.cfg.Logging = next.Logging
	r.cfg.Simulation.TickIntervalMs = next.Simulation.TickIntervalMs
	r.mu.Unlock()

	if next.Logging.Level != prev.Logging.Level {
		logging.SetGlobalLevel(next.Logging.Level)
		r.logger.Info().Str("level", next.Logging.Level).Msg("log level changed")
	}
	if next.Simulation.TickIntervalMs != prev.Simulation.TickIntervalMs {
		select {
		case <-r.intervalCh:
		default:
		}
		select {
		case r.intervalCh <- next.Simulation.TickInterval():
		default:
		}
		r.logger.Info().Int("tick_interval_ms", next.Simulation.TickIntervalMs).Msg("tick interval changed")
	}
}

func statusNames(statuses []model.MissionStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
