package sync

import "strings"

// markerPrefix opens the identifier marker embedded in remote descriptions.
// The full marker is "[event_id:<id>]".
const markerPrefix = "[event_id:"

// Marker returns the identifier marker for a business identifier.
func Marker(id string) string {
	return markerPrefix + id + "]"
}

// HasMarker reports whether a description carries an identifier marker.
// A remote event without one is orphaned: it cannot be traced to any
// database record.
func HasMarker(description string) bool {
	return strings.Contains(description, markerPrefix)
}

// ExtractID returns the identifier from the first marker in a description.
// ok is false when no complete marker is present.
func ExtractID(description string) (id string, ok bool) {
	start := strings.Index(description, markerPrefix)
	if start < 0 {
		return "", false
	}
	rest := description[start+len(markerPrefix):]
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// StripMarker removes the first complete marker from a description and
// normalizes the surrounding whitespace. Used when comparing descriptions:
// the marker is bookkeeping metadata, not content.
func StripMarker(description string) string {
	start := strings.Index(description, markerPrefix)
	if start < 0 {
		return strings.TrimSpace(description)
	}
	rest := description[start+len(markerPrefix):]
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return strings.TrimSpace(description)
	}
	stripped := description[:start] + rest[end+1:]
	return strings.Join(strings.Fields(stripped), " ")
}
