package event

import (
	"fmt"
	"strings"

	"github.com/telesim/dispatch/otp"
)

// Format renders an event as notification text using the bot API's HTML
// subset (blockquote, code). It is pure and total: any input yields a
// string, never an error.
//
// User-supplied content (body, sender, number) is embedded without HTML
// escaping. Escaping would change how legitimate angle-bracket content is
// delivered; senders are trusted to the same degree the device's inbox is.
func Format(ev Event) string {
	switch e := ev.(type) {
	case SMS:
		return formatSMS(e)
	case Call:
		return fmt.Sprintf("📞 %s from <code>%s</code>", e.Line.Label, e.Number)
	default:
		return ""
	}
}

func formatSMS(e SMS) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<blockquote>%s</blockquote>", e.Body)

	if code, ok := otp.Extract(e.Body); ok {
		fmt.Fprintf(&b, "\n\n🔑 Code: <code>%s</code>", code)
	}

	fmt.Fprintf(&b, "\n\n📱 %s from <code>%s</code>", e.Line.Label, e.Sender)

	return b.String()
}
