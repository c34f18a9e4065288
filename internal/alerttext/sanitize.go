package alerttext

import (
	"regexp"
	"strings"
)

// maxDisplayLen caps the lead-in sentence shown in the bell, marker included.
const maxDisplayLen = 300

var (
	bookingTagPattern   = regexp.MustCompile(`\[booking:[^\]]*\]`)
	emailPattern        = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	strayItemsPattern   = regexp.MustCompile(`"items"\s*:?|items"\s*:`)
	othersLinePattern   = regexp.MustCompile(`(?i)others\s*:\s*[^\n]*`)
	needsRemnantPattern = regexp.MustCompile(`(?i)needs\s*:\s*`)
	bracesQuotesPattern = regexp.MustCompile("[{}\\[\\]\"`]+")
	whitespacePattern   = regexp.MustCompile(`\s+`)
	trailingSepPattern  = regexp.MustCompile(`[ ,;:|–—-]+$`)
)

// legacyPhrases rewrites wording from the old booking-request flow to the
// current one. Replacements never re-match their own pattern, which keeps
// the substitution idempotent.
var legacyPhrases = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)booking request submitted`), "Booking Scheduled"},
	{regexp.MustCompile(`(?i)booking request received`), "Booking Scheduled"},
	{regexp.MustCompile(`(?i)your booking request has been sent to the admins`), "Your booking has been scheduled"},
	{regexp.MustCompile(`(?i)is awaiting admin approval`), "is awaiting confirmation"},
}

// Unescape reverses the \n and \" escaping carried by double-encoded records.
func Unescape(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\"`, `"`)
	return s
}

// Sanitize strips JSON remnants, markers, emails, and duplicated fragments
// from an alert body, producing the display string. Each step is idempotent
// on its own, so is the whole chain.
func Sanitize(text string) string {
	s := Unescape(text)

	for _, block := range ExtractBlocks(s) {
		s = strings.ReplaceAll(s, block, " ")
	}
	s = bookingTagPattern.ReplaceAllString(s, " ")
	s = needsRemnantPattern.ReplaceAllString(s, " ")
	s = othersLinePattern.ReplaceAllString(s, " ")
	s = emailPattern.ReplaceAllString(s, " ")
	s = strayItemsPattern.ReplaceAllString(s, " ")

	s = collapseAdjacentDuplicates(s)

	s = bracesQuotesPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = trailingSepPattern.ReplaceAllString(s, "")

	s = ReplaceLegacyPhrases(s)

	if r := []rune(s); len(r) > maxDisplayLen {
		s = strings.TrimSpace(string(r[:maxDisplayLen-3])) + "..."
		// The cut can butt a sentence against an equal predecessor that only
		// differed past the cut point; collapse once more so the result holds
		// no adjacent duplicates either.
		s = collapseAdjacentDuplicates(s)
	}
	return s
}

// ReplaceLegacyPhrases rewrites known legacy substrings to their current-flow
// equivalents, case-insensitively.
func ReplaceLegacyPhrases(s string) string {
	for _, lp := range legacyPhrases {
		s = lp.pattern.ReplaceAllString(s, lp.replacement)
	}
	return s
}

// collapseAdjacentDuplicates drops fragments repeated back to back, a
// symptom of double-logging upstream. Bullet and dash lists dedupe per line;
// doubled prose dedupes per sentence. The output never holds two equal
// adjacent fragments, so a second pass is a no-op.
func collapseAdjacentDuplicates(s string) string {
	s = dedupAdjacent(strings.Split(s, "\n"), "\n")
	s = dedupAdjacent(strings.Split(s, ". "), ". ")
	return s
}

func dedupAdjacent(parts []string, join string) string {
	norm := func(p string) string {
		return strings.TrimRight(strings.TrimSpace(p), ".")
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := norm(p); t != "" && len(out) > 0 && norm(out[len(out)-1]) == t {
			// Keep the later occurrence, it carries the final punctuation.
			out[len(out)-1] = p
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, join)
}
