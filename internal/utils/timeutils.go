package utils

import (
	"fmt"
	"time"
)

// Layouts accepted for diagnosis dates coming off the wire. The service
// usually emits RFC 3339 but older records carry a bare date.
var diagnosisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// ParseDiagnosisDate returns a time from the provided wire value.
func ParseDiagnosisDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}
	for _, layout := range diagnosisDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date value %q", value)
}

// FormatDiagnosisDate renders a history date for display, matching the
// long-form used by the previous-diagnoses screen.
func FormatDiagnosisDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown date"
	}
	return t.Format("January 2, 2006")
}
