package tasks

import (
	"fmt"

	"github.com/opencouncil/finsight/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	EnumerateSubjects Phase = iota
	WarmCache
)

func (p Phase) String() string {
	switch p {
	case EnumerateSubjects:
		return "enumerate_subjects"
	case WarmCache:
		return "warm_cache"
	default:
		return ""
	}
}

func enumeratedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnumerateSubjects,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("Warming %d subjects...", total),
	}
}

func warmedUpdate(step, total int, subject models.SubjectKey, insights int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmCache,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d insights)", step, total, subject.Path(), insights),
		Data:    subject,
	}
}

func warmSkippedUpdate(step, total int, subject models.SubjectKey) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmCache,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] - %s (already fresh)", step, total, subject.Path()),
		Data:    subject,
	}
}

func warmFailedUpdate(step, total int, subject models.SubjectKey, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmCache,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, subject.Path(), err),
		Data:    subject,
	}
}
