package alerttext

import (
	"regexp"
	"strings"

	"github.com/Kusa331/ORBIT/internal/models"
)

// ScheduledTitle is the canonical title for the booking-confirmation alert.
// Older records used "Booking request submitted" wording instead.
const ScheduledTitle = "Booking Scheduled"

var (
	titleEmailPattern  = regexp.MustCompile(`[-–—]\s*([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})\s*$`)
	bookingRefPattern  = regexp.MustCompile(`\[booking:([^\]]+)\]`)
	legacyTitlePattern = regexp.MustCompile(`(?i)booking request (submitted|received|created)`)
)

// RequesterEmail extracts the email a legacy title carries as a trailing
// "— email@domain" suffix, or "".
func RequesterEmail(title string) string {
	if m := titleEmailPattern.FindStringSubmatch(strings.TrimSpace(title)); m != nil {
		return m[1]
	}
	return ""
}

// BookingRef returns the booking id carried in a [booking:ID] tag, or "".
func BookingRef(text string) string {
	if m := bookingRefPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// CombinedText joins the unescaped message and details of a record, skipping
// a details field that merely repeats the message.
func CombinedText(a models.AlertRecord) string {
	text := strings.TrimSpace(Unescape(a.Message))
	details := strings.TrimSpace(Unescape(a.Details))
	if details != "" && details != text {
		if text == "" {
			text = details
		} else {
			text = text + "\n" + details
		}
	}
	return text
}

// Parse turns a raw alert record into its display-ready form. Parsing never
// fails; the worst outcome of malformed input is a plainer display string.
func Parse(a models.AlertRecord) models.ParsedAlert {
	title := strings.TrimSpace(a.Title)
	email := ""
	if m := titleEmailPattern.FindStringSubmatch(title); m != nil {
		email = m[1]
		title = strings.TrimSpace(strings.TrimRight(title[:len(title)-len(m[0])], " -–—"))
	}
	if legacyTitlePattern.MatchString(title) {
		title = ScheduledTitle
	} else {
		title = ReplaceLegacyPhrases(title)
	}

	text := CombinedText(a)
	inf := Infer(a.StructuredNote, text)

	p := models.ParsedAlert{
		ID:                  a.ID,
		VisibleTitle:        title,
		TitleRequesterEmail: email,
		OthersText:          inf.OthersText,
		Cleaned:             Sanitize(text),
		IsRead:              a.IsRead,
		CreatedAt:           a.CreatedAt,
	}
	// Items supersedes the flat equipment list for rendering; never both.
	if len(inf.Items) > 0 {
		p.Items = inf.Items
	} else {
		p.Equipment = inf.Equipment
	}
	return p
}
