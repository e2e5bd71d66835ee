package models

import "time"

// DefaultSwatch is used for colors missing from the swatch table
const DefaultSwatch = "#CCCCCC"

// OrderDateLayout is the long date format used in order tables
const OrderDateLayout = "January 2, 2006 at 3:04 PM"

type badge struct {
	label string
	class string
}

var statusBadges = map[Status]badge{
	StatusPending:          {"Pending", "bg-yellow-100 text-yellow-800"},
	StatusConfirmed:        {"Confirmed", "bg-blue-100 text-blue-800"},
	StatusInProduction:     {"In Production", "bg-purple-100 text-purple-800"},
	StatusReadyForDelivery: {"Ready for Delivery", "bg-indigo-100 text-indigo-800"},
	StatusDelivered:        {"Delivered", "bg-green-100 text-green-800"},
	StatusCancelled:        {"Cancelled", "bg-red-100 text-red-800"},
}

var unknownBadge = badge{"Unknown", "bg-gray-100 text-gray-800"}

var genderLabels = map[Gender]string{
	GenderMale:   "Male",
	GenderFemale: "Female",
	GenderUnisex: "Unisex",
}

var colorSwatches = map[Color]string{
	"black":  "#000000",
	"white":  "#FFFFFF",
	"navy":   "#000080",
	"gray":   "#808080",
	"beige":  "#F5F5DC",
	"brown":  "#8B4513",
	"red":    "#FF0000",
	"blue":   "#0000FF",
	"green":  "#008000",
	"yellow": "#FFFF00",
	"pink":   "#FFC0CB",
	"purple": "#800080",
	"orange": "#FFA500",
	"maroon": "#800000",
	"olive":  "#808000",
	"teal":   "#008080",
}

// StatusBadge returns the display label and style class for a status
func StatusBadge(s Status) (label, class string) {
	b, ok := statusBadges[s]
	if !ok {
		b = unknownBadge
	}
	return b.label, b.class
}

// GenderLabel returns the display label for a gender
func GenderLabel(g Gender) string {
	if label, ok := genderLabels[g]; ok {
		return label
	}
	return "Not specified"
}

// ColorSwatch returns the hex swatch for a named color
func ColorSwatch(c Color) string {
	if hex, ok := colorSwatches[c]; ok {
		return hex
	}
	return DefaultSwatch
}

// KnownColor reports whether c has a swatch
func KnownColor(c Color) bool {
	_, ok := colorSwatches[c]
	return ok
}

// FormatOrderDate renders t in loc using OrderDateLayout
func FormatOrderDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "N/A"
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(OrderDateLayout)
}
