package models

import (
	"time"
)

// ColorTag is the accent color an insight is rendered with.
type ColorTag string

const (
	ColorBlue   ColorTag = "blue"
	ColorGreen  ColorTag = "green"
	ColorPurple ColorTag = "purple"
	ColorOrange ColorTag = "orange"
	ColorRed    ColorTag = "red"
	ColorGray   ColorTag = "gray"
)

// ParseColorTag maps a wire color string onto a known tag, defaulting to gray.
func ParseColorTag(s string) ColorTag {
	switch ColorTag(s) {
	case ColorBlue, ColorGreen, ColorPurple, ColorOrange, ColorRed, ColorGray:
		return ColorTag(s)
	default:
		return ColorGray
	}
}

// InsightType categorizes what kind of observation an insight makes.
type InsightType string

const (
	TypeTrend      InsightType = "trend"
	TypeComparison InsightType = "comparison"
	TypePeak       InsightType = "peak"
	TypeChange     InsightType = "change"
	TypeRanking    InsightType = "ranking"
	TypeEfficiency InsightType = "efficiency"
	TypeVolatility InsightType = "volatility"
	TypeContext    InsightType = "context"
	TypeBasic      InsightType = "basic"
	TypeSystem     InsightType = "system"
	TypeError      InsightType = "error"
	TypeGeneral    InsightType = "general"
)

// ParseInsightType maps a wire type string onto a known type, defaulting to general.
func ParseInsightType(s string) InsightType {
	switch InsightType(s) {
	case TypeTrend, TypeComparison, TypePeak, TypeChange, TypeRanking,
		TypeEfficiency, TypeVolatility, TypeContext, TypeBasic, TypeSystem,
		TypeError, TypeGeneral:
		return InsightType(s)
	default:
		return TypeGeneral
	}
}

// Insight is a short server-generated observation about financial data.
// Immutable once received; a fresh fetch replaces the whole sequence.
type Insight struct {
	Text     string
	Emoji    string
	Color    ColorTag
	Type     InsightType
	Duration time.Duration // how long to display; zero means use the configured default
}
