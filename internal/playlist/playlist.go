// package playlist implements the rotating insight carousel controller.
//
// The core abstraction is Controller, which owns one ordered insight sequence
// for one subject and cycles through it on a timer. Rendering goes through the
// Display interface and timing through the Scheduler interface so the
// controller stays independent of any particular front end and fully testable
// without real timers.
package playlist

import (
	"time"

	"github.com/opencouncil/finsight/internal/models"
)

// FrameState identifies which visual state a frame represents.
type FrameState int

const (
	// StateLoading is shown synchronously while the first fetch is pending.
	StateLoading FrameState = iota
	// StateInsight shows one insight from the sequence.
	StateInsight
	// StateEmpty means the server explicitly reported no insights yet.
	StateEmpty
	// StateNoData means the subject has no confirmed value at all and the
	// frame prompts the user to contribute data instead of cycling insights.
	StateNoData
	// StateError means loading failed after retries and fallback.
	StateError
)

// String returns the frame state name for logging and formatting.
func (s FrameState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateInsight:
		return "insight"
	case StateEmpty:
		return "empty"
	case StateNoData:
		return "no_data"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Frame is one renderable snapshot of the controller's state.
type Frame struct {
	State     FrameState
	Insight   models.Insight // populated when State == StateInsight
	Index     int            // position within the sequence, zero-based
	Total     int            // sequence length
	Message   string         // optional status or error text
	ShowRetry bool           // render a manual retry affordance
	Fallback  bool           // insights came from a saved snapshot, not a live fetch
}

// Display renders controller frames. Implementations must tolerate Render
// being called from timer callbacks.
type Display interface {
	Render(frame Frame)
}

// Cancel stops a scheduled callback. Calling it after the callback has fired
// is a no-op.
type Cancel func()

// Scheduler schedules a single callback after a delay. The production
// implementation wraps time.AfterFunc; tests substitute a manual one.
type Scheduler interface {
	After(d time.Duration, fn func()) Cancel
}

type timerScheduler struct{}

// NewTimerScheduler returns the real-time Scheduler used outside tests.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) After(d time.Duration, fn func()) Cancel {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Cache is the read-through insight cache consulted before fetching.
type Cache interface {
	GetFresh(subject models.SubjectKey, now time.Time) ([]models.Insight, bool, error)
	Put(subject models.SubjectKey, insights []models.Insight) error
}

// Snapshots stores the last-known-good insight set per subject, used as a
// fallback after retries are exhausted.
type Snapshots interface {
	Get(subject models.SubjectKey) ([]models.Insight, bool, error)
	Put(subject models.SubjectKey, insights []models.Insight) error
}
