package alerttext

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/Kusa331/ORBIT/internal/models"
)

// Inference is the structured outcome of needs detection for one alert.
// At most one of Items and Equipment is populated; Items supersedes.
type Inference struct {
	Equipment  []string
	OthersText string
	Items      []models.ItemWithStatus
}

var (
	needsMarkerPattern  = regexp.MustCompile(`(?i)needs\s*:\s*\{`)
	requestedPattern    = regexp.MustCompile(`(?i)requested equipment\s*:\s*(.+)`)
	quotedPairPattern   = regexp.MustCompile(`"([^"]+)"\s*:\s*"([^"]+)"`)
	inlineStatusPattern = regexp.MustCompile(`(?i)([A-Za-z][A-Za-z &_]*?)\s*:\s*(prepared|not available|not_available|pending|true|false|yes|no)\b`)
	othersMarkerPattern = regexp.MustCompile(`(?i)^others[:\s-]*`)
	listSplitPattern    = regexp.MustCompile(`[,;]`)
	fragmentSplitPattern = regexp.MustCompile(`[\n•,;]+`)
)

// statusFromToken resolves a status word from the known vocabulary.
func statusFromToken(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prepared", "true", "yes":
		return models.StatusPrepared, true
	case "not available", "not_available", "false", "no":
		return models.StatusNotAvailable, true
	case "pending":
		return models.StatusPending, true
	}
	return "", false
}

// classifyStatus maps any status-like value to one of the three item states.
// Unrecognized values are always pending.
func classifyStatus(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return models.StatusPrepared
		}
		return models.StatusNotAvailable
	case string:
		if st, ok := statusFromToken(t); ok {
			return st
		}
	}
	return models.StatusPending
}

// Infer locates a needs object for the alert and produces the normalized
// equipment view. note is the pre-parsed structured note when the record has
// one (authoritative); text is the combined, unescaped message and details.
// Every step degrades to the next on a miss; Infer never fails.
func Infer(note map[string]any, text string) Inference {
	if needs := locateNeeds(note, text); needs != nil {
		if inf, ok := fromNeedsObject(needs); ok {
			return inf
		}
		// A structured block was found but carried no usable items map:
		// fall back to textual scans over the raw fragment.
		if items := scanQuotedPairs(text); len(items) > 0 {
			return Inference{Items: items}
		}
		if items := scanInlineStatuses(text); len(items) > 0 {
			return Inference{Items: items}
		}
		return Inference{}
	}

	if inf, ok := legacyEquipmentList(text); ok {
		return inf
	}
	if items := scanInlineStatuses(text); len(items) > 0 {
		return Inference{Items: items}
	}
	return Inference{}
}

// locateNeeds walks the needs-object precedence chain: structured note,
// JSON block anchored at the "items" key, any balanced object block, then
// the legacy `Needs: {...}` textual marker.
func locateNeeds(note map[string]any, text string) map[string]any {
	if len(note) > 0 {
		return note
	}
	if block := ExtractAround(text, `"items"`); block != "" {
		if obj := decodeObject(block); obj != nil {
			return obj
		}
	}
	if obj := FirstStructuredBlock(text); obj != nil {
		return obj
	}
	if loc := needsMarkerPattern.FindStringIndex(text); loc != nil {
		if block := balancedFrom(text, loc[1]-1); block != "" {
			if obj := decodeObject(block); obj != nil {
				return obj
			}
		}
	}
	return nil
}

func decodeObject(block string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(block), &obj); err != nil {
		return nil
	}
	return obj
}

// fromNeedsObject turns a located needs object into an Inference. ok is false
// when the object holds nothing item-shaped.
func fromNeedsObject(needs map[string]any) (Inference, bool) {
	itemsVal, hasItems := needs["items"]
	if !hasItems {
		// Legacy notes store the label->status map at the top level.
		if len(needs) > 0 && allScalar(needs) {
			return Inference{Items: itemsFromMap(needs)}, true
		}
		return Inference{}, false
	}

	switch items := itemsVal.(type) {
	case []any:
		inf := equipmentFromArray(items)
		if inf.OthersText == "" {
			if o, ok := needs["others"].(string); ok && strings.TrimSpace(o) != "" {
				inf.OthersText = strings.TrimSpace(o)
				if len(inf.Equipment) == 0 || inf.Equipment[len(inf.Equipment)-1] != OthersSentinel {
					inf.Equipment = append(inf.Equipment, OthersSentinel)
				}
			}
		}
		return inf, true
	case map[string]any:
		if len(items) == 0 {
			return Inference{}, false
		}
		return Inference{Items: itemsFromMap(items)}, true
	}
	return Inference{}, false
}

func allScalar(obj map[string]any) bool {
	for _, v := range obj {
		switch v.(type) {
		case string, bool:
		default:
			return false
		}
	}
	return true
}

// itemsFromMap builds the status list from a label->status mapping. Keys are
// sorted so the output is stable across renders.
func itemsFromMap(m map[string]any) []models.ItemWithStatus {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]models.ItemWithStatus, 0, len(keys))
	for _, k := range keys {
		label, others := MapToken(k)
		if others || label == "" {
			continue
		}
		items = append(items, models.ItemWithStatus{Label: label, Status: classifyStatus(m[k])})
	}
	return items
}

// equipmentFromArray maps a flat items array to canonical labels. Entries
// matching "others" are excluded; their trailing text becomes OthersText
// (first non-empty wins) and the sentinel is appended to the list.
func equipmentFromArray(items []any) Inference {
	var inf Inference
	sawOthers := false
	for _, raw := range items {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		label, others := MapToken(s)
		if others {
			sawOthers = true
			if inf.OthersText == "" {
				rest := strings.TrimSpace(othersMarkerPattern.ReplaceAllString(strings.TrimSpace(s), ""))
				if rest != "" {
					inf.OthersText = rest
				}
			}
			continue
		}
		if label != "" {
			inf.Equipment = append(inf.Equipment, label)
		}
	}
	if sawOthers {
		inf.Equipment = append(inf.Equipment, OthersSentinel)
	}
	return inf
}

// legacyEquipmentList parses the oldest free-text form:
// "Requested equipment: a, b, others: extra info".
func legacyEquipmentList(text string) (Inference, bool) {
	m := requestedPattern.FindStringSubmatch(text)
	if m == nil {
		return Inference{}, false
	}
	line := m[1]
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	var inf Inference
	sawOthers := false
	if i := strings.Index(strings.ToLower(line), "others"); i >= 0 {
		sawOthers = true
		inf.OthersText = strings.TrimSpace(othersMarkerPattern.ReplaceAllString(line[i:], ""))
		inf.OthersText = strings.Trim(inf.OthersText, " .")
		line = line[:i]
	}

	for _, part := range listSplitPattern.Split(line, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, others := MapToken(part)
		if others {
			sawOthers = true
			continue
		}
		if label != "" {
			inf.Equipment = append(inf.Equipment, label)
		}
	}
	if sawOthers {
		inf.Equipment = append(inf.Equipment, OthersSentinel)
	}
	return inf, true
}

// scanQuotedPairs picks up "key":"value" pairs left behind by escaped or
// partially stripped JSON.
func scanQuotedPairs(text string) []models.ItemWithStatus {
	var items []models.ItemWithStatus
	for _, m := range quotedPairPattern.FindAllStringSubmatch(text, -1) {
		key := strings.TrimSpace(m[1])
		if key == "" || strings.EqualFold(key, "items") || strings.EqualFold(key, "others") {
			continue
		}
		label, others := MapToken(key)
		if others || label == "" {
			continue
		}
		items = append(items, models.ItemWithStatus{Label: label, Status: classifyStatus(m[2])})
	}
	return items
}

// scanInlineStatuses matches inline "label: status" fragments. When the
// primary pattern yields nothing, a second pass splits the text on bullet,
// comma, and newline separators and checks each fragment against the status
// vocabulary.
func scanInlineStatuses(text string) []models.ItemWithStatus {
	var items []models.ItemWithStatus
	for _, m := range inlineStatusPattern.FindAllStringSubmatch(text, -1) {
		label, others := MapToken(strings.Trim(m[1], " -•*\t"))
		if others || label == "" {
			continue
		}
		items = append(items, models.ItemWithStatus{Label: label, Status: classifyStatus(m[2])})
	}
	if len(items) > 0 {
		return items
	}

	for _, frag := range fragmentSplitPattern.Split(text, -1) {
		frag = strings.Trim(frag, " -•*\t")
		k, v, found := strings.Cut(frag, ":")
		if !found {
			continue
		}
		st, ok := statusFromToken(v)
		if !ok {
			continue
		}
		label, others := MapToken(k)
		if others || label == "" {
			continue
		}
		items = append(items, models.ItemWithStatus{Label: label, Status: st})
	}
	return items
}
