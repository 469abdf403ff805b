package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is applied to free-text names typed or dictated by the user (full names, trip titles,
// destinations) before they are sent to the service.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeTranscript cleans a speech transcript for use as form input: whitespace is
// collapsed and a single trailing sentence terminator is dropped.
func NormalizeTranscript(s string) string {
	s = NormalizeHumanName(s)
	for _, suffix := range []string{"。", ".", "！", "!", "？", "?"} {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(s, suffix))
		}
	}
	return s
}
