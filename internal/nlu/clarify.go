package nlu

import "fmt"

// NextMissing reports the next required parameter the extractor could not pull
// from the utterance, with the question the router should ask. A matched
// intent with a missing parameter is never downgraded to NO_MATCH; the router
// runs a bounded re-prompt loop instead.
func (m *Match) NextMissing() (param, question string, ok bool) {
	switch m.Intent {
	case IntentStoreNote:
		if m.param("text") == "" {
			return "text", "What would you like me to note down?", true
		}
	case IntentSearchNotes:
		if m.param("query") == "" {
			return "query", "What should I search your notes for?", true
		}
	case IntentWebSearch:
		if m.param("query") == "" {
			return "query", "What would you like me to search for?", true
		}
	case IntentPlayYouTube:
		if m.param("query") == "" {
			return "query", "What should I play on YouTube?", true
		}
	case IntentPlaySpotify:
		if m.param("song") == "" {
			return "song", "Which song shall I play?", true
		}
	case IntentOpenSite:
		if m.param("target") == "" {
			return "target", "What would you like me to open?", true
		}
	case IntentSendMessage:
		if m.param("recipient") == "" {
			return "recipient", "Who is the intended recipient?", true
		}
		if m.param("message") == "" {
			return "message", fmt.Sprintf("What message would you like me to deliver to %s?", m.param("recipient")), true
		}
	case IntentSendAnother:
		if m.param("message") == "" {
			return "message", "What would you like to say?", true
		}
	case IntentAddTask, IntentCompleteTask, IntentDeleteTask:
		if m.param("task") == "" {
			return "task", "Which task?", true
		}
	case IntentAddHabit, IntentRemoveHabit, IntentResetHabit, IntentMarkHabit:
		if m.param("habit") == "" {
			return "habit", "Which habit?", true
		}
	case IntentAddSchedule:
		if len(m.Items) == 0 {
			return "plans", "What would you like to schedule?", true
		}
	case IntentModifySchedule:
		if len(m.Items) == 0 {
			return "plans", "What should the plans be instead?", true
		}
	case IntentRememberTopic:
		if m.param("topic") == "" {
			return "topic", "Please tell me what you'd like me to remember.", true
		}
	case IntentSetFocus:
		if m.param("focus") == "" {
			return "focus", "What would you like today's main focus to be?", true
		}
	case IntentPromptCooldown:
		if m.param("minutes") == "" {
			return "minutes", "Please specify the cooldown duration in minutes.", true
		}
	}
	return "", "", false
}

// NeedsClarification reports whether any required parameter is still missing.
func (m *Match) NeedsClarification() bool {
	_, _, ok := m.NextMissing()
	return ok
}
