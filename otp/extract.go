// Package otp extracts one-time passcodes from free-text message bodies.
package otp

import "regexp"

// A trigger word, up to 20 non-digit filler characters (covering phrases like
// "code is:" or "enter the following"), then a 4-8 digit run. The capture is
// greedy and length-anchored: a run longer than 8 digits yields its first 8
// digits rather than no match.
var codePattern = regexp.MustCompile(`(?i)\b(?:code|otp|is|enter)\b\D{0,20}(\d{4,8})`)

// Extract scans text for a one-time passcode and returns the first match in
// left-to-right order. It reports false for empty input or when no trigger
// word is followed by a 4-8 digit run.
func Extract(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	match := codePattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}

	return match[1], true
}
