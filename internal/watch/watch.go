// Package watch runs the reminder loop: poll the store, decide which
// reminders are active and keep the sink in step with that decision.
package watch

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/clockstorm/internal/logger"
	"github.com/Tiliavir/clockstorm/internal/notifications"
	"github.com/Tiliavir/clockstorm/internal/notifier"
	"github.com/Tiliavir/clockstorm/internal/options"
	"github.com/Tiliavir/clockstorm/internal/source"
	"github.com/Tiliavir/clockstorm/internal/storage"
)

// ErrAlreadyRunning is returned by Run while another Run is active.
var ErrAlreadyRunning = errors.New("watcher is already running")

const (
	DefaultInterval = time.Minute
	// DefaultSnooze suppresses re-showing dismissed reminders.
	DefaultSnooze = 5 * time.Minute
)

// State is the lifecycle state of a Watcher.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Watcher owns the running guard and the set of reminders currently shown.
type Watcher struct {
	store    storage.Store
	sink     notifier.Sink
	syncer   *source.Syncer
	interval time.Duration
	snooze   time.Duration
	now      func() time.Time

	mu          sync.Mutex
	state       State
	session     string
	showing     map[string]bool
	lastCleared time.Time
	lastSound   string
	lastGIF     string
}

// Option configures a Watcher.
type Option func(*Watcher)

func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithSnooze(d time.Duration) Option {
	return func(w *Watcher) { w.snooze = d }
}

// WithSyncer pulls fresh timesheets before every evaluation.
func WithSyncer(s *source.Syncer) Option {
	return func(w *Watcher) { w.syncer = s }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) { w.now = now }
}

func New(store storage.Store, sink notifier.Sink, opts ...Option) *Watcher {
	w := &Watcher{
		store:    store,
		sink:     sink,
		interval: DefaultInterval,
		snooze:   DefaultSnooze,
		now:      time.Now,
		showing:  map[string]bool{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Run polls until ctx is done. It evaluates once immediately.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.state == Running {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	w.state = Running
	w.session = uuid.NewString()
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.state = Idle
		w.mu.Unlock()
	}()

	logger.Info("watch started", "session", w.session, "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.Tick(ctx); err != nil && ctx.Err() == nil {
			logger.Error("evaluating reminders failed", "session", w.session, "err", err)
		}
		select {
		case <-ctx.Done():
			logger.Info("watch stopped", "session", w.session)
			return nil
		case <-ticker.C:
		}
	}
}

// Dismiss records that the user cleared every shown reminder. Reminders seen
// before are not shown again until the snooze window has passed.
func (w *Watcher) Dismiss() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id := range w.showing {
		w.showing[id] = false
	}
	w.lastCleared = w.now()
}

// Showing returns the ids currently shown, sorted.
func (w *Watcher) Showing() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ids []string
	for id, shown := range w.showing {
		if shown {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Tick runs a single evaluation.
func (w *Watcher) Tick(ctx context.Context) error {
	if w.syncer != nil {
		if _, err := w.syncer.Sync(ctx); err != nil {
			logger.Warn("timesheet sync failed", "err", err)
		}
	}

	now := w.now()
	opts := options.Load(ctx, w.store)
	all, err := notifications.All(ctx, w.store, opts, now)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.trackMedia(opts)

	var errs []error
	if !notifications.Any(all) {
		for id, shown := range w.showing {
			if shown {
				errs = append(errs, w.sink.Clear(ctx, id))
			}
			w.showing[id] = false
		}
		return errors.Join(errs...)
	}

	for id, shown := range w.showing {
		if shown && !notifications.MatchesAny(all, id) {
			errs = append(errs, w.sink.Clear(ctx, id))
			w.showing[id] = false
			w.lastCleared = now
		}
	}

	snoozed := !w.lastCleared.IsZero() && now.Sub(w.lastCleared) < w.snooze
	for _, p := range notifications.Flatten(all) {
		shown, seen := w.showing[p.ID]
		if shown || (seen && snoozed) {
			continue
		}
		if err := w.sink.Show(ctx, p.ID, p.Title, p.Message); err != nil {
			errs = append(errs, err)
			continue
		}
		w.showing[p.ID] = true
	}
	return errors.Join(errs...)
}

// trackMedia logs changes of the configured sound and animation. Playback is
// left to the sink.
func (w *Watcher) trackMedia(opts options.Options) {
	if opts.SoundDataURL != w.lastSound {
		w.lastSound = opts.SoundDataURL
		logger.Debug("reminder sound changed", "url", opts.SoundDataURL)
	}
	if opts.GIFDataURL != w.lastGIF {
		w.lastGIF = opts.GIFDataURL
		logger.Debug("reminder animation changed", "url", opts.GIFDataURL)
	}
}
