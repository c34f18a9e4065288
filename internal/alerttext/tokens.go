package alerttext

import "strings"

// Canonical display labels for known equipment tokens. Historical records
// carry both space- and underscore-separated forms.
var equipmentLabels = map[string]string{
	"whiteboard":     "Whiteboard & Markers",
	"projector":      "Projector",
	"extension cord": "Extension Cord",
	"extension_cord": "Extension Cord",
	"hdmi":           "HDMI Cable",
	"extra chairs":   "Extra Chairs",
	"extra_chairs":   "Extra Chairs",
}

// OthersSentinel is appended to an equipment list when a catch-all "others"
// entry was detected; its accompanying free text travels in OthersText.
const OthersSentinel = "and others"

// MapToken normalizes a raw equipment token to its canonical display label.
// others is true when the token denotes the catch-all "others" entry; the
// caller captures the remainder text itself. Unknown tokens pass through
// with trailing punctuation trimmed and their original casing preserved.
func MapToken(token string) (label string, others bool) {
	t := strings.TrimSpace(token)
	if t == "" {
		return "", false
	}

	key := strings.ToLower(t)
	if strings.Contains(key, "other") {
		return "", true
	}
	if lbl, ok := equipmentLabels[key]; ok {
		return lbl, false
	}
	if lbl, ok := equipmentLabels[strings.ReplaceAll(key, "_", " ")]; ok {
		return lbl, false
	}

	return strings.TrimRight(t, " .,;:!?-"), false
}
