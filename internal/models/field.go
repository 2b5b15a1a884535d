package models

import (
	"fmt"

	"github.com/opencouncil/finsight/internal/shared"
)

// FieldKind is the closed set of editable field representations.
type FieldKind int

const (
	KindText FieldKind = iota
	KindMonetary
	KindInteger
	KindPercentage
	KindURL
	KindList
)

// ParseFieldKind maps a wire content-type string onto a FieldKind.
func ParseFieldKind(s string) (FieldKind, error) {
	switch s {
	case "text":
		return KindText, nil
	case "monetary":
		return KindMonetary, nil
	case "integer":
		return KindInteger, nil
	case "percentage":
		return KindPercentage, nil
	case "url":
		return KindURL, nil
	case "list":
		return KindList, nil
	default:
		return KindText, fmt.Errorf("%w: unknown field kind %q", shared.ErrInvalidInput, s)
	}
}

// String returns the wire name for the kind.
func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindMonetary:
		return "monetary"
	case KindInteger:
		return "integer"
	case KindPercentage:
		return "percentage"
	case KindURL:
		return "url"
	case KindList:
		return "list"
	}
	return "text"
}

// InputKind describes the input control a cell should present.
type InputKind int

const (
	InputFreeText InputKind = iota
	InputNumeric
	InputURL
	InputPercent
	InputOptions
)

// InputSpec describes how to present the input for a field kind.
type InputSpec struct {
	Kind        InputKind
	Placeholder string
	Suffix      string
}

// InputSpec returns the input representation for the kind. The switch is
// exhaustive over FieldKind so adding a kind is a compile-visible change here.
func (k FieldKind) InputSpec() InputSpec {
	switch k {
	case KindMonetary:
		return InputSpec{Kind: InputNumeric, Placeholder: "e.g. 1500000"}
	case KindInteger:
		return InputSpec{Kind: InputNumeric, Placeholder: "e.g. 42"}
	case KindPercentage:
		return InputSpec{Kind: InputPercent, Placeholder: "e.g. 12.5", Suffix: "%"}
	case KindURL:
		return InputSpec{Kind: InputURL, Placeholder: "https://..."}
	case KindList:
		return InputSpec{Kind: InputOptions}
	case KindText:
		return InputSpec{Kind: InputFreeText}
	}
	return InputSpec{Kind: InputFreeText}
}

// Field is an editable data field on a council record.
type Field struct {
	Key      string
	Name     string
	Kind     FieldKind
	Temporal bool // temporal fields require a year when submitted
}

// ContributionResult is the server's verdict on a submitted value.
//
// StoredValue is the canonical normalized value the server kept; the UI must
// re-render from it, never from the user's raw input.
type ContributionResult struct {
	Accepted      bool
	StoredValue   string
	PointsAwarded int
	Message       string
}
