package nlu

import "strings"

type rule struct {
	intent  Intent
	match   func(q string) bool
	extract func(q string, m *Match)
	needs   func(c Capabilities) bool
}

// The rule table. Order is load-bearing: greeting outranks everything so that
// "hey, open youtube" greets instead of opening, and app management sits below
// the web/media rules so "open youtube" stays a website command even when an
// app manager is wired in.
var rules = []rule{
	// Greetings.
	{intent: IntentGreeting, match: func(q string) bool {
		return strings.Contains(q, "hello") ||
			hasWord(q, "hi", "hey", "yo", "greetings") ||
			hasAny(q, "good morning", "good afternoon", "good evening", "what's up", "how are you")
	}, extract: func(q string, m *Match) {
		if strings.Contains(q, "hello") {
			m.setParam("kind", "hello")
		} else {
			m.setParam("kind", "greet")
		}
	}},

	// Mute / unmute. "unmute" must be tested before "mute" would swallow it.
	{intent: IntentUnmute, match: func(q string) bool {
		return hasAny(q, "unmute", "speak again", "you can talk", "resume")
	}},
	{intent: IntentMute, match: func(q string) bool {
		return hasWord(q, "mute") || hasAny(q, "stop talking", "be quiet", "shut up", "silence")
	}},

	// System and status queries.
	{intent: IntentSystemStatus, match: func(q string) bool {
		return hasAny(q, "system status", "system monitor", "system health", "check system health", "system diagnostics")
	}},
	{intent: IntentVersion, match: func(q string) bool {
		return hasAny(q, "check your version", "tell me the version", "check the version")
	}},
	{intent: IntentIntroduce, match: func(q string) bool {
		return hasAny(q, "who are you", "what are you", "introduce yourself")
	}},
	{intent: IntentTime, match: func(q string) bool { return hasWord(q, "time") }},
	{intent: IntentDate, match: func(q string) bool { return hasWord(q, "date") }},
	{intent: IntentWeather, needs: func(c Capabilities) bool { return c.Weather }, match: func(q string) bool {
		return hasAny(q, "weather", "temperature")
	}, extract: func(q string, m *Match) {
		if city := afterAny(q, "weather in ", "temperature in "); city != "" {
			m.setParam("city", city)
		}
	}},

	// Web and media commands.
	{intent: IntentPlayYouTube, match: func(q string) bool {
		return strings.Contains(q, "play on youtube") || strings.Contains(q, "on youtube")
	}, extract: extractYouTube},
	{intent: IntentPlaySpotify, match: func(q string) bool {
		return hasAny(q, "play song on spotify", "play on spotify", "play music on spotify")
	}, extract: extractSpotify},
	{intent: IntentOpenSite, match: func(q string) bool {
		return hasWord(q, "open")
	}, extract: func(q string, m *Match) {
		if target := afterAny(q, "open up ", "open "); target != "" {
			m.setParam("target", target)
		}
	}},
	{intent: IntentNews, match: func(q string) bool {
		return hasAny(q, "read the news", "tell me the news", "latest news", "news headlines")
	}},
	{intent: IntentWebSearch, match: func(q string) bool {
		if strings.Contains(q, "search notes") {
			return false
		}
		return hasWord(q, "google", "search") || strings.Contains(q, "look up")
	}, extract: extractSearch},

	// Messaging.
	{intent: IntentSendAnother, needs: func(c Capabilities) bool { return c.Messenger }, match: func(q string) bool {
		return hasAny(q, "send another message", "send another whatsapp message")
	}},
	{intent: IntentSendMessage, needs: func(c Capabilities) bool { return c.Messenger }, match: func(q string) bool {
		return hasAny(q, "send message", "send a message", "send whatsapp message")
	}, extract: func(q string, m *Match) {
		if to := afterAny(q, "message to "); to != "" {
			m.setParam("recipient", to)
		}
	}},

	// Notes.
	{intent: IntentSearchNotes, match: func(q string) bool {
		return hasAny(q, "search notes", "find notes", "find my notes")
	}, extract: func(q string, m *Match) {
		if query := afterAny(q, "search notes for ", "find notes about ", "search notes "); query != "" {
			m.setParam("query", query)
		}
	}},
	{intent: IntentNoteCategories, match: func(q string) bool {
		return hasAny(q, "note categories", "list note categories")
	}},
	{intent: IntentStoreNote, match: func(q string) bool {
		return hasAny(q, "take a note", "note down", "store this information")
	}, extract: func(q string, m *Match) {
		if text := afterAny(q, "note down that ", "note down "); text != "" && text != "that" {
			m.setParam("text", text)
		}
	}},

	// Tasks.
	{intent: IntentOverdueTasks, match: func(q string) bool {
		return hasAny(q, "overdue tasks", "tasks overdue")
	}},
	{intent: IntentListTasks, match: func(q string) bool {
		return hasAny(q, "list tasks", "show tasks", "my tasks", "pending tasks")
	}},
	{intent: IntentCompleteTask, match: func(q string) bool {
		return hasAny(q, "complete task", "mark task", "task done", "finish task")
	}, extract: func(q string, m *Match) {
		if t := afterAny(q, "complete task ", "mark task ", "finish task "); t != "" {
			m.setParam("task", strings.TrimSuffix(t, " as done"))
		}
	}},
	{intent: IntentDeleteTask, match: func(q string) bool {
		return hasAny(q, "delete task", "remove task")
	}, extract: func(q string, m *Match) {
		if t := afterAny(q, "delete task ", "remove task "); t != "" {
			m.setParam("task", t)
		}
	}},
	{intent: IntentAddTask, match: func(q string) bool {
		return hasAny(q, "add task", "add a task", "new task")
	}, extract: extractTask},

	// Habits.
	{intent: IntentAddHabit, match: func(q string) bool {
		return strings.Contains(q, "add habit")
	}, extract: func(q string, m *Match) {
		if h := afterAny(q, "add habit "); h != "" {
			m.setParam("habit", h)
		}
	}},
	{intent: IntentRemoveHabit, match: func(q string) bool {
		return hasAny(q, "remove habit", "delete habit")
	}, extract: func(q string, m *Match) {
		if h := afterAny(q, "remove habit ", "delete habit "); h != "" {
			m.setParam("habit", h)
		}
	}},
	{intent: IntentResetHabit, match: func(q string) bool {
		return strings.Contains(q, "reset habit")
	}, extract: func(q string, m *Match) {
		if h := afterAny(q, "reset habit "); h != "" {
			m.setParam("habit", h)
		}
	}},
	{intent: IntentMarkHabit, match: func(q string) bool {
		return hasAny(q, "mark habit", "done habit", "complete habit")
	}, extract: func(q string, m *Match) {
		if h := afterAny(q, "mark habit ", "done habit ", "complete habit "); h != "" {
			m.setParam("habit", strings.TrimSuffix(strings.TrimSuffix(h, " as done"), " done"))
		}
	}},
	{intent: IntentListHabits, match: func(q string) bool {
		return hasAny(q, "show habits", "list habits")
	}},
	{intent: IntentPendingHabits, match: func(q string) bool {
		return hasAny(q, "pending habits", "habits pending", "habits today")
	}},

	// Schedule.
	{intent: IntentReviewSchedule, match: func(q string) bool {
		return hasAny(q, "review today", "today's plans", "what's today",
			"review yesterday", "yesterday's plans", "what was yesterday",
			"review tomorrow", "tomorrow's plans", "what's tomorrow")
	}, extract: func(q string, m *Match) {
		m.setParam("offset", dayOffset(q))
	}},
	{intent: IntentModifySchedule, match: func(q string) bool {
		return hasAny(q, "modify today", "change today's plan", "update today",
			"modify tomorrow", "change tomorrow's plan", "update tomorrow")
	}, extract: func(q string, m *Match) {
		m.setParam("offset", dayOffset(q))
	}},
	{intent: IntentClearSchedule, match: func(q string) bool {
		return hasAny(q, "clear today's schedule", "delete today's plans")
	}},
	{intent: IntentAddSchedule, match: func(q string) bool {
		return hasAny(q, "schedule for today", "plan for today", "add today's plan",
			"schedule for tomorrow", "plan for tomorrow", "add tomorrow's plan",
			"create schedule", "set schedule now", "add schedule now")
	}, extract: extractSchedule},

	// App management, only when the collaborator is wired.
	{intent: IntentCloseActive, needs: func(c Capabilities) bool { return c.AppManager }, match: func(q string) bool {
		return hasAny(q, "close active", "close current")
	}},
	{intent: IntentAppCommand, needs: func(c Capabilities) bool { return c.AppManager }, match: func(q string) bool {
		return hasWord(q, "launch", "start", "close", "exit", "terminate", "kill", "run")
	}, extract: func(q string, m *Match) {
		m.setParam("command", q)
	}},

	// Repair and backup.
	{intent: IntentSelfRepair, needs: func(c Capabilities) bool { return c.Diagnostics }, match: func(q string) bool {
		return hasAny(q, "self repair", "initiate repair", "diagnose system")
	}},
	{intent: IntentDiagnostics, needs: func(c Capabilities) bool { return c.Diagnostics }, match: func(q string) bool {
		return hasAny(q, "run diagnostics", "diagnostic scan")
	}},
	{intent: IntentCreateBackup, needs: func(c Capabilities) bool { return c.Diagnostics }, match: func(q string) bool {
		return hasAny(q, "create backup", "backup system", "make backup")
	}},
	{intent: IntentBackupStatus, needs: func(c Capabilities) bool { return c.Diagnostics }, match: func(q string) bool {
		return hasAny(q, "backup status", "check backups")
	}},

	// Reminder administration.
	{intent: IntentPromptsOff, match: func(q string) bool {
		return hasAny(q, "disable time prompts", "turn off reminders")
	}},
	{intent: IntentPromptsOn, match: func(q string) bool {
		return hasAny(q, "enable time prompts", "turn on reminders")
	}},
	{intent: IntentPromptCooldown, match: func(q string) bool {
		return hasAny(q, "notification cooldown", "set notification interval")
	}, extract: func(q string, m *Match) {
		if d := digits(q); d != "" {
			m.setParam("minutes", d)
		}
	}},
	{intent: IntentListPrompts, match: func(q string) bool {
		return hasAny(q, "list custom prompts", "show my prompts", "show custom reminders")
	}},

	// Memory and context queries.
	{intent: IntentRecallConversations, match: func(q string) bool {
		return hasAny(q, "remind me what we discussed", "last conversation",
			"what did i say yesterday", "what did we talk about", "recall conversation")
	}},
	{intent: IntentRecallTopics, match: func(q string) bool {
		return hasAny(q, "what do you remember", "recall my topics")
	}},
	{intent: IntentRememberTopic, match: func(q string) bool {
		return strings.Contains(q, "remember this")
	}, extract: func(q string, m *Match) {
		if t := afterAny(q, "remember this about ", "remember this "); t != "" {
			m.setParam("topic", t)
		}
	}},
	{intent: IntentSetFocus, match: func(q string) bool {
		return hasAny(q, "focus for today", "set focus")
	}, extract: func(q string, m *Match) {
		if f := afterAny(q, "set focus to ", "set focus on "); f != "" {
			m.setParam("focus", f)
		}
	}},
	{intent: IntentProgress, match: func(q string) bool {
		return hasAny(q, "how am i doing", "summarize my progress")
	}},
}

// Classify runs the rule table over a normalized utterance. The second return
// is false on NO_MATCH, which routes the utterance to the chat fallback.
func Classify(q string, caps Capabilities) (Match, bool) {
	if q == "" {
		return Match{}, false
	}
	for _, r := range rules {
		if r.needs != nil && !r.needs(caps) {
			continue
		}
		if !r.match(q) {
			continue
		}
		m := Match{Intent: r.intent}
		if r.extract != nil {
			r.extract(q, &m)
		}
		return m, true
	}
	return Match{}, false
}

func hasAny(q string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(q, s) {
			return true
		}
	}
	return false
}

// hasWord matches whole words only, so "time" does not fire on "sometimes".
func hasWord(q string, words ...string) bool {
	fields := strings.FieldsFunc(q, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '\'')
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}

func dayOffset(q string) string {
	switch {
	case strings.Contains(q, "yesterday"):
		return "-1"
	case strings.Contains(q, "tomorrow"):
		return "1"
	default:
		return "0"
	}
}
