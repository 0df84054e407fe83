package nlu

import "strings"

// Control phrases affect the outer state machine rather than producing an
// answer, so the router checks them before running the rule table.

func IsSleepCommand(q string) bool {
	return strings.Contains(q, "go to sleep")
}

func IsShutdownCommand(q string) bool {
	return hasAny(q, "go offline", "shut down", "power down", "goodbye") || hasWord(q, "bye")
}

// BackendSwitch extracts the target of a "change ai model to X" request.
func BackendSwitch(q string) (string, bool) {
	const phrase = "change ai model to"
	if !strings.Contains(q, phrase) {
		return "", false
	}
	return strings.TrimSpace(q[strings.Index(q, phrase)+len(phrase):]), true
}
