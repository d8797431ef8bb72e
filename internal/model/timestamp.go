package model

import (
	"fmt"
	"time"
)

// EditableLayout is the local minute-precision representation used by
// date/time form inputs.
const EditableLayout = "2006-01-02T15:04"

// DisplayLayout renders timestamps in list tables.
const DisplayLayout = "Jan 2, 2006, 03:04 PM"

// zoned layouts carry their own offset; naive layouts are read in the caller's location.
var (
	zonedLayouts = []string{time.RFC3339Nano, time.RFC3339}
	naiveLayouts = []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", EditableLayout, "2006-01-02 15:04:05", "2006-01-02"}
)

// ParseTimestamp accepts the ISO-8601 variants seen on the wire.
// Values without an offset are interpreted in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// ToEditable converts a wire timestamp into YYYY-MM-DDTHH:MM in loc.
// Empty or unparsable input yields "".
func ToEditable(s string, loc *time.Location) string {
	if s == "" {
		return ""
	}
	t, err := ParseTimestamp(s, loc)
	if err != nil {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(EditableLayout)
}

// FromEditable converts an editable value back to an RFC 3339 wire string.
func FromEditable(s string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(EditableLayout, s, loc)
	if err != nil {
		return "", fmt.Errorf("parse date/time %q: %w", s, err)
	}
	return t.Format(time.RFC3339), nil
}

// FormatDisplay renders a wire timestamp for tables, returning the raw value
// when it cannot be parsed.
func FormatDisplay(s string, loc *time.Location) string {
	t, err := ParseTimestamp(s, loc)
	if err != nil {
		return s
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayLayout)
}
