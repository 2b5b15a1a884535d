package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/opencouncil/finsight/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	success lipgloss.Style
	error   lipgloss.Style
	warning lipgloss.Style
	help    lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:   NewBold(t).MarginBottom(1),
		success: NewBold(s),
		error:   NewBold(e),
		warning: NewStyle(w),
		help:    NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// tagStyles maps each insight color tag onto a terminal style.
var tagStyles = map[models.ColorTag]lipgloss.Style{
	models.ColorBlue:   NewBold("#3B82F6"),
	models.ColorGreen:  NewBold("#10B981"),
	models.ColorPurple: NewBold("#8B5CF6"),
	models.ColorOrange: NewBold("#F97316"),
	models.ColorRed:    NewBold("#EF4444"),
	models.ColorGray:   NewStyle("#9CA3AF"),
}

// tagStyle returns the style for a color tag, falling back to gray.
func tagStyle(tag models.ColorTag) lipgloss.Style {
	if style, ok := tagStyles[tag]; ok {
		return style
	}
	return tagStyles[models.ColorGray]
}
