package otp

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// Extract returns exactly the digit run that follows a trigger word.
func TestPropertyExtractFindsTriggeredDigitRun(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		trigger := rapid.SampledFrom([]string{"code", "OTP", "is", "enter", "Code"}).Draw(rt, "trigger")
		digits := rapid.StringMatching(`[0-9]{4,8}`).Draw(rt, "digits")
		filler := rapid.SampledFrom([]string{" ", ": ", " - ", "\n"}).Draw(rt, "filler")
		prefix := rapid.SampledFrom([]string{"", "Your ", "Hello. "}).Draw(rt, "prefix")
		suffix := rapid.SampledFrom([]string{"", " expires soon", "."}).Draw(rt, "suffix")

		text := prefix + trigger + filler + digits + suffix

		got, ok := Extract(text)
		if !ok {
			rt.Fatalf("Extract(%q) found nothing", text)
		}
		if !strings.HasPrefix(digits, got) {
			rt.Fatalf("Extract(%q) = %q, not a prefix of %q", text, got, digits)
		}
		if len(got) < 4 || len(got) > 8 {
			rt.Fatalf("Extract(%q) = %q, length out of 4-8 range", text, got)
		}
	})
}

// Bodies without any trigger word never yield a passcode.
func TestPropertyExtractIgnoresUntriggeredDigits(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		digits := rapid.StringMatching(`[0-9]{4,8}`).Draw(rt, "digits")
		text := "Balance update " + digits + " processed"

		if got, ok := Extract(text); ok {
			rt.Fatalf("Extract(%q) = %q, want no match", text, got)
		}
	})
}

// Extract never panics, whatever the input.
func TestPropertyExtractTotal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.String().Draw(rt, "text")
		_, _ = Extract(text)
	})
}
