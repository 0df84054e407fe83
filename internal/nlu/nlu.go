// Package nlu turns normalized utterances into intents. Matching is an
// explicit ordered rule list evaluated first-match-wins: the rule order is the
// priority contract, and ambiguous utterances resolve by position, never by
// scoring or longest match.
package nlu

import "strings"

// Intent is a classified category of user request, mapped to one handler.
type Intent string

const (
	IntentGreeting Intent = "greeting"

	IntentMute   Intent = "mute"
	IntentUnmute Intent = "unmute"

	IntentSystemStatus Intent = "system_status"
	IntentVersion      Intent = "version"
	IntentIntroduce    Intent = "introduce"
	IntentTime         Intent = "time"
	IntentDate         Intent = "date"
	IntentWeather      Intent = "weather"

	IntentPlayYouTube Intent = "play_youtube"
	IntentPlaySpotify Intent = "play_spotify"
	IntentOpenSite    Intent = "open_site"
	IntentWebSearch   Intent = "web_search"
	IntentNews        Intent = "news"

	IntentSendMessage Intent = "send_message"
	IntentSendAnother Intent = "send_another_message"

	IntentStoreNote      Intent = "store_note"
	IntentSearchNotes    Intent = "search_notes"
	IntentNoteCategories Intent = "note_categories"

	IntentAddTask      Intent = "add_task"
	IntentCompleteTask Intent = "complete_task"
	IntentListTasks    Intent = "list_tasks"
	IntentOverdueTasks Intent = "overdue_tasks"
	IntentDeleteTask   Intent = "delete_task"

	IntentAddHabit      Intent = "add_habit"
	IntentRemoveHabit   Intent = "remove_habit"
	IntentResetHabit    Intent = "reset_habit"
	IntentMarkHabit     Intent = "mark_habit_done"
	IntentListHabits    Intent = "list_habits"
	IntentPendingHabits Intent = "pending_habits"

	IntentReviewSchedule Intent = "review_schedule"
	IntentAddSchedule    Intent = "add_schedule"
	IntentModifySchedule Intent = "modify_schedule"
	IntentClearSchedule  Intent = "clear_schedule"

	IntentAppCommand  Intent = "app_command"
	IntentCloseActive Intent = "close_active_window"

	IntentSelfRepair   Intent = "self_repair"
	IntentDiagnostics  Intent = "diagnostics"
	IntentCreateBackup Intent = "create_backup"
	IntentBackupStatus Intent = "backup_status"

	IntentPromptsOn      Intent = "enable_time_prompts"
	IntentPromptsOff     Intent = "disable_time_prompts"
	IntentPromptCooldown Intent = "set_prompt_cooldown"
	IntentListPrompts    Intent = "list_custom_prompts"

	IntentRecallConversations Intent = "recall_conversations"
	IntentRecallTopics        Intent = "recall_topics"
	IntentRememberTopic       Intent = "remember_topic"
	IntentSetFocus            Intent = "set_focus"
	IntentProgress            Intent = "progress_summary"
)

// Capabilities flags which optional collaborators are wired in. Rules guarded
// by an absent capability never fire, so the utterance falls through to the
// next rule or the chat fallback.
type Capabilities struct {
	AppManager  bool
	Diagnostics bool
	Weather     bool
	Messenger   bool
}

// Match is a classified utterance: the intent plus whatever parameters the
// extractor could pull out of the text.
type Match struct {
	Intent Intent
	Params map[string]string
	Items  []string
}

// Normalize lowers and trims a raw utterance. The empty string is the "no
// utterance" sentinel: callers must short-circuit on it.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func (m *Match) param(key string) string {
	if m.Params == nil {
		return ""
	}
	return m.Params[key]
}

func (m *Match) setParam(key, value string) {
	if m.Params == nil {
		m.Params = map[string]string{}
	}
	m.Params[key] = value
}

// Param returns a named extracted parameter, or "".
func (m *Match) Param(key string) string { return m.param(key) }

// Fill stores a clarification answer under the named parameter.
func (m *Match) Fill(param, value string) {
	if param == "plans" {
		m.Items = SplitItems(value)
		return
	}
	m.setParam(param, strings.TrimSpace(value))
}
