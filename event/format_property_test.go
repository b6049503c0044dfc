package event

import (
	"testing"

	"github.com/telesim/dispatch/line"
	"pgregory.net/rapid"
)

// Format never panics and always yields non-empty text for real events,
// whatever the user-supplied content looks like.
func TestPropertyFormatTotal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ln := line.Line{
			Slot:  rapid.IntRange(0, 3).Draw(rt, "slot"),
			Label: rapid.String().Draw(rt, "label"),
		}

		var ev Event
		if rapid.Bool().Draw(rt, "sms") {
			ev = SMS{
				Line:   ln,
				Sender: rapid.String().Draw(rt, "sender"),
				Body:   rapid.String().Draw(rt, "body"),
			}
		} else {
			ev = Call{
				Line:   ln,
				Number: rapid.String().Draw(rt, "number"),
			}
		}

		if Format(ev) == "" {
			rt.Fatal("Format returned empty text")
		}
	})
}
