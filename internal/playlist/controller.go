package playlist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/opencouncil/finsight/internal/models"
	"github.com/opencouncil/finsight/internal/retry"
	"github.com/opencouncil/finsight/internal/services"
	"github.com/opencouncil/finsight/internal/shared"
)

const defaultDisplayDuration = 8 * time.Second

// Options configures a Controller instance.
type Options struct {
	Subject models.SubjectKey
	// NoData marks a subject with no confirmed value at all. The controller
	// short-circuits to a contribute prompt and never fetches.
	NoData bool
	// DefaultDuration is used for insights that carry no duration of their own.
	DefaultDuration time.Duration
	// Retry bounds the fetch loop. Zero values mean a single attempt.
	Retry retry.Policy
	// Sleep paces retries. Nil uses real timers.
	Sleep retry.Sleeper
	// Clock supplies the current time for cache freshness. Nil uses time.Now.
	Clock func() time.Time
	// Cache and Snapshots are optional; nil disables that layer.
	Cache     Cache
	Snapshots Snapshots
	Logger    *log.Logger
}

// Controller cycles through a finite ordered insight sequence on a timer,
// with pause, resume, manual navigation, and graceful degradation when the
// source is unavailable or empty.
//
// All exported methods are safe for concurrent use. Display transitions are
// strictly serialized: a Show arriving while a transition is rendering is
// dropped, not queued, so at most one transition is ever visible.
type Controller struct {
	mu        sync.Mutex
	display   Display
	source    services.InsightAPI
	scheduler Scheduler
	opts      Options

	items         []models.Insight
	index         int
	playing       bool
	transitioning bool
	destroyed     bool
	cancelTimer   Cancel
}

// New validates the subject and renders the initial frame synchronously.
// An incomplete subject is a configuration error and no fetch is attempted.
// When opts.NoData is set the controller renders a contribute prompt instead
// of a loading placeholder.
func New(display Display, source services.InsightAPI, scheduler Scheduler, opts Options) (*Controller, error) {
	if display == nil {
		return nil, fmt.Errorf("%w: display is required", shared.ErrInvalidConfig)
	}
	if scheduler == nil {
		scheduler = NewTimerScheduler()
	}
	if err := opts.Subject.Validate(); err != nil {
		return nil, err
	}
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = defaultDisplayDuration
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	c := &Controller{
		display:   display,
		source:    source,
		scheduler: scheduler,
		opts:      opts,
	}

	if opts.NoData {
		display.Render(Frame{State: StateNoData, Message: "No data yet. Contribute a figure to see insights."})
	} else {
		display.Render(Frame{State: StateLoading})
	}
	return c, nil
}

// Load populates the insight sequence and starts playback: cache first, then
// a bounded retry loop against the source, then the saved snapshot, and
// finally an error frame with a manual retry affordance. An explicitly empty
// result renders a distinct no-insights frame, not an error. Load after
// Destroy is ignored.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return shared.ErrControllerDestroyed
	}
	if c.opts.NoData {
		c.mu.Unlock()
		return nil
	}
	subject := c.opts.Subject
	c.mu.Unlock()

	if c.opts.Cache != nil {
		if insights, ok, err := c.opts.Cache.GetFresh(subject, c.opts.Clock()); err == nil && ok {
			c.logf("serving insights from cache", "subject", subject.String())
			c.start(insights, services.InsightSet{}, false)
			return nil
		}
	}

	var set *services.InsightSet
	err := retry.Do(ctx, c.opts.Retry, c.opts.Sleep, func(ctx context.Context) error {
		s, err := c.source.Fetch(ctx, subject)
		if err != nil {
			return err
		}
		set = s
		return nil
	})
	if err != nil {
		c.logf("insight fetch failed, trying snapshot", "subject", subject.String(), "error", err)
		if c.opts.Snapshots != nil {
			if insights, ok, snapErr := c.opts.Snapshots.Get(subject); snapErr == nil && ok && len(insights) > 0 {
				c.start(insights, services.InsightSet{Fallback: true}, true)
				return nil
			}
		}
		c.renderIfAlive(Frame{
			State:     StateError,
			Message:   "Couldn't load insights.",
			ShowRetry: true,
		})
		return fmt.Errorf("loading insights for %s: %w", subject.String(), err)
	}

	if set.Empty || len(set.Insights) == 0 {
		msg := set.Message
		if msg == "" {
			msg = "No insights yet for this subject."
		}
		c.renderIfAlive(Frame{State: StateEmpty, Message: msg})
		return nil
	}

	if c.opts.Cache != nil && !set.Fallback && !set.ShowRetry {
		if err := c.opts.Cache.Put(subject, set.Insights); err != nil {
			c.logf("insight cache write failed", "error", err)
		}
	}
	if c.opts.Snapshots != nil && !set.Fallback && !set.ShowRetry {
		if err := c.opts.Snapshots.Put(subject, set.Insights); err != nil {
			c.logf("snapshot write failed", "error", err)
		}
	}

	c.start(set.Insights, *set, false)
	return nil
}

// start replaces the sequence, resets the index, shows the first insight,
// and begins playback. Late responses arriving after Destroy are dropped.
func (c *Controller) start(insights []models.Insight, set services.InsightSet, fallback bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}

	c.cancelPending()
	c.items = insights
	c.index = 0
	c.playing = true
	c.transitioning = false

	frame := c.frame()
	frame.ShowRetry = set.ShowRetry
	frame.Fallback = fallback || set.Fallback
	frame.Message = set.Message
	c.transitioning = true
	c.render(frame)
	c.transitioning = false
	if c.destroyed {
		return
	}
	c.schedule()
}

// Show displays the insight at index, wrapping out-of-range values. Calls
// arriving while a transition is in progress are dropped.
func (c *Controller) Show(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.show(index)
}

// show performs the guarded transition. Callers hold c.mu.
func (c *Controller) show(index int) {
	if c.destroyed || c.transitioning || len(c.items) == 0 {
		return
	}

	n := len(c.items)
	c.transitioning = true
	c.index = ((index % n) + n) % n
	c.render(c.frame())
	c.transitioning = false
}

// Play starts automatic advancement using each insight's own duration.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.playing = true
	c.schedule()
}

// Pause cancels the pending advance without resetting the current index.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPending()
	c.playing = false
}

// Resume restarts playback. The current insight gets its full duration again.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.playing = true
	c.schedule()
}

// Next advances to the following insight, wrapping at the end, and
// reschedules the timer for the newly shown insight.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.show(c.index + 1)
	c.schedule()
}

// Previous steps back one insight, wrapping at the start.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.show(c.index - 1)
	c.schedule()
}

// Destroy cancels the pending timer and drops the sequence. Safe to call
// multiple times; every async continuation checks the destroyed flag so
// late timer fires and fetch responses are ignored.
func (c *Controller) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.cancelPending()
	c.playing = false
	c.items = nil
}

// Index reports the current position in the sequence.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Len reports the sequence length.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Playing reports whether automatic advancement is active.
func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Destroyed reports whether the controller has been torn down.
func (c *Controller) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// frame builds the insight frame for the current index. Callers hold c.mu.
func (c *Controller) frame() Frame {
	return Frame{
		State:   StateInsight,
		Insight: c.items[c.index],
		Index:   c.index,
		Total:   len(c.items),
	}
}

// schedule arms the auto-advance timer for the current insight's duration.
// Single-item sequences never schedule. Callers hold c.mu.
func (c *Controller) schedule() {
	c.cancelPending()
	if c.destroyed || !c.playing || len(c.items) <= 1 {
		return
	}

	d := c.items[c.index].Duration
	if d <= 0 {
		d = c.opts.DefaultDuration
	}
	c.cancelTimer = c.scheduler.After(d, c.advance)
}

func (c *Controller) advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed || !c.playing {
		return
	}
	c.show(c.index + 1)
	c.schedule()
}

// cancelPending stops any armed timer. Callers hold c.mu.
func (c *Controller) cancelPending() {
	if c.cancelTimer != nil {
		c.cancelTimer()
		c.cancelTimer = nil
	}
}

// render delivers a frame with the lock released so a Display implementation
// may call back into the controller; the transition guard covers the gap.
func (c *Controller) render(f Frame) {
	d := c.display
	c.mu.Unlock()
	d.Render(f)
	c.mu.Lock()
}

// renderIfAlive renders outside the normal transition path, used for the
// loading, empty, and error frames produced by Load.
func (c *Controller) renderIfAlive(f Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.render(f)
}

func (c *Controller) logf(msg string, kv ...any) {
	if c.opts.Logger != nil {
		c.opts.Logger.Debug(msg, kv...)
	}
}
