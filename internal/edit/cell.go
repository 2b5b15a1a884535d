package edit

import (
	"context"
	"fmt"
	"sync"

	"github.com/opencouncil/finsight/internal/models"
	"github.com/opencouncil/finsight/internal/services"
	"github.com/opencouncil/finsight/internal/shared"
)

// Cell manages one editable field value. The confirmed value only ever
// changes to the server's canonical stored value, never to the raw input:
// server-side normalization may transform or reject what was entered.
type Cell struct {
	mu sync.Mutex

	field models.Field
	year  string

	state    CellState
	current  string // last confirmed server value
	pending  string // entered value, meaningful while editing or submitting
	baseline string // rollback value captured on activation

	options *services.FieldOptions // arrives asynchronously for list kinds

	contributions services.ContributionAPI
	fields        services.FieldAPI
	thresholds    Thresholds
}

// NewCell binds a cell to a field and its last confirmed value. The year is
// required iff the field is temporal.
func NewCell(field models.Field, year, current string, contributions services.ContributionAPI, fields services.FieldAPI, th Thresholds) (*Cell, error) {
	if field.Key == "" {
		return nil, fmt.Errorf("%w: field key is required", shared.ErrInvalidInput)
	}
	if field.Temporal && year == "" {
		return nil, fmt.Errorf("%w: temporal field %s needs a year", shared.ErrInvalidInput, field.Key)
	}
	if th == (Thresholds{}) {
		th = DefaultThresholds()
	}

	return &Cell{
		field:         field,
		year:          year,
		current:       current,
		contributions: contributions,
		fields:        fields,
		thresholds:    th,
	}, nil
}

// Activate turns the display cell into an input, capturing the current value
// as the rollback baseline. Returns the input representation for the field's
// kind. Activating while a submission is in flight is rejected; activating an
// already editing cell is a no-op.
//
// List kinds start as free text: the option set loads asynchronously via
// LoadOptions and upgrades the input through ApplyOptions without ever
// blocking keystrokes.
func (c *Cell) Activate() (models.InputSpec, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateSubmitting:
		return models.InputSpec{}, shared.ErrSubmissionInFlight
	case StateEditing:
		return c.field.Kind.InputSpec(), nil
	}

	c.state = StateEditing
	c.baseline = c.current
	c.pending = c.current
	return c.field.Kind.InputSpec(), nil
}

// LoadOptions fetches the option set for a list-kind field. Callers run it
// off the input path; a missing or malformed option set degrades to free
// text rather than failing the edit.
func (c *Cell) LoadOptions(ctx context.Context) (*services.FieldOptions, error) {
	if c.field.Kind != models.KindList || c.fields == nil {
		return &services.FieldOptions{Select: false}, nil
	}
	return c.fields.Options(ctx, c.field.Key)
}

// ApplyOptions installs an asynchronously loaded option set. Ignored when
// the cell has already left the editing state.
func (c *Cell) ApplyOptions(opts *services.FieldOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateEditing || opts == nil {
		return
	}
	c.options = opts
}

// SetValue replaces the pending value while editing.
func (c *Cell) SetValue(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateEditing {
		c.pending = v
	}
}

// Cancel discards any entered text and restores the original display value.
// Triggered by escape or by losing focus with an unchanged value.
func (c *Cell) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateEditing {
		return
	}
	c.state = StateDisplay
	c.pending = ""
	c.options = nil
}

// Submit saves the pending value. An unchanged value cancels instead of
// submitting. Monetary values run the magnitude check first: a suspect value
// returns a Disambiguation with nothing sent and the cell still editing, so
// the caller can resolve it with SubmitValue or Cancel.
//
// On success the cell re-renders from the server's canonical stored value.
// On failure it returns to Editing with the entered value intact. Only one
// submission may be in flight.
func (c *Cell) Submit(ctx context.Context) (*SubmitResult, error) {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return nil, shared.ErrSubmissionInFlight
	case StateDisplay:
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: cell is not being edited", shared.ErrInvalidInput)
	}

	value := c.pending
	if value == c.baseline {
		c.state = StateDisplay
		c.pending = ""
		c.options = nil
		c.mu.Unlock()
		return &SubmitResult{Saved: false}, nil
	}

	if c.field.Kind == models.KindMonetary {
		if d := MagnitudeCheck(value, c.thresholds); d != nil {
			c.mu.Unlock()
			return &SubmitResult{Disambiguation: d}, nil
		}
	}

	return c.submit(ctx, value)
}

// SubmitValue saves an explicit value, bypassing the magnitude check. Used
// to resolve a disambiguation with either the entered or suggested value.
func (c *Cell) SubmitValue(ctx context.Context, value string) (*SubmitResult, error) {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return nil, shared.ErrSubmissionInFlight
	case StateDisplay:
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: cell is not being edited", shared.ErrInvalidInput)
	}

	c.pending = value
	return c.submit(ctx, value)
}

// submit performs the network call. Callers hold c.mu; it is released for
// the duration of the request.
func (c *Cell) submit(ctx context.Context, value string) (*SubmitResult, error) {
	if c.contributions == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: contribution service not initialized", shared.ErrServiceUnavailable)
	}

	c.state = StateSubmitting
	contribution := services.Contribution{
		Field: c.field.Key,
		Value: value,
		Year:  c.year,
	}
	c.mu.Unlock()

	result, err := c.contributions.Submit(ctx, contribution)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateEditing
		c.pending = value
		return nil, fmt.Errorf("saving %s: %w", c.field.Key, err)
	}

	c.state = StateDisplay
	c.current = result.StoredValue
	c.pending = ""
	c.options = nil
	return &SubmitResult{
		Saved:   true,
		Value:   result.StoredValue,
		Points:  result.PointsAwarded,
		Message: result.Message,
	}, nil
}

// State reports the cell's lifecycle state.
func (c *Cell) State() CellState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Value reports the last confirmed server value.
func (c *Cell) Value() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Pending reports the value currently being entered.
func (c *Cell) Pending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Changed reports whether the pending value differs from the baseline.
func (c *Cell) Changed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateEditing && c.pending != c.baseline
}

// Options reports the loaded option set, nil until ApplyOptions runs.
func (c *Cell) Options() *services.FieldOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.options
}

// Field reports the bound field definition.
func (c *Cell) Field() models.Field {
	return c.field
}

// Year reports the bound year, empty for non-temporal fields.
func (c *Cell) Year() string {
	return c.year
}
