// Package event defines classified telephony events and turns them into
// notification text.
package event

import "github.com/telesim/dispatch/line"

// Event is a classified telephony event carrying its resolved line. Events
// are transient: created by an event source, formatted exactly once, and
// never stored beyond the job they produce.
type Event interface {
	isEvent()
}

// SMS is an incoming text message.
type SMS struct {
	Line   line.Line
	Sender string
	Body   string
}

func (SMS) isEvent() {}

// Call is an ended incoming call.
type Call struct {
	Line   line.Line
	Number string
}

func (Call) isEvent() {}

// CallState is a coarse phone-state value reported by the platform.
type CallState string

const (
	// CallStateRinging indicates an incoming call is ringing.
	CallStateRinging CallState = "RINGING"
	// CallStateOffhook indicates a call is active.
	CallStateOffhook CallState = "OFFHOOK"
	// CallStateIdle indicates no call is in progress. A transition to idle
	// marks the end of a call.
	CallStateIdle CallState = "IDLE"
)
