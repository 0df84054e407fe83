// Package skills maps intents to handlers. A handler receives the extracted
// parameters and the session, and returns the sentences to speak; all I/O goes
// through the collaborator interfaces so handlers stay unit-testable.
package skills

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/brain"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/config"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/nlu"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/prompts"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/store"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/sysmon"
)

// Opener launches URLs in the user's browser or media player.
type Opener interface {
	OpenURL(url string) error
}

// Messenger delivers a message to a contact (desktop messaging automation).
type Messenger interface {
	Send(contact config.Contact, message string) error
}

// Weather looks up current conditions; network-bound.
type Weather interface {
	Current(ctx context.Context, city string) (string, error)
}

// AppManager drives desktop application windows.
type AppManager interface {
	ProcessAppCommand(text string) (bool, error)
	CloseActiveWindow() error
}

// DiagReport summarizes a diagnostics pass.
type DiagReport struct {
	Status       string // HEALTHY, DEGRADED, CRITICAL
	MissingFiles int
	ConfigIssues int
	BackupCount  int
}

// Diagnostics is the self-repair/backup collaborator.
type Diagnostics interface {
	Diagnose(ctx context.Context) (DiagReport, error)
	Repair(ctx context.Context) (string, error)
	CreateBackup(ctx context.Context) (string, error)
	BackupStatus(ctx context.Context) (count int, latest string, err error)
}

// Collaborators bundles everything handlers may touch. Optional members are
// nil when the capability is absent; the classifier never routes to a gated
// intent in that case.
type Collaborators struct {
	Cfg       *config.Config
	Store     *store.Store
	Clock     func() time.Time
	Opener    Opener
	Messenger Messenger
	Weather   Weather
	Apps      AppManager
	Diag      Diagnostics
	Sched     *prompts.Scheduler
	Status    func() (sysmon.Status, error)
}

// Capabilities derives the classifier gate flags from wired collaborators.
func (c *Collaborators) Capabilities() nlu.Capabilities {
	return nlu.Capabilities{
		AppManager:  c.Apps != nil,
		Diagnostics: c.Diag != nil,
		Weather:     c.Weather != nil,
		Messenger:   c.Messenger != nil,
	}
}

func (c *Collaborators) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func (c *Collaborators) hon() string {
	if c.Cfg != nil && c.Cfg.Honorific != "" {
		return c.Cfg.Honorific
	}
	return "Sir"
}

// Apology is the generic failure line spoken when a handler errors or panics.
func (c *Collaborators) Apology() string {
	return fmt.Sprintf("My apologies, %s. I was unable to complete that.", c.hon())
}

// NetworkIssue is the distinct wording for transient network failures.
func (c *Collaborators) NetworkIssue() string {
	return fmt.Sprintf("I'm afraid there is a network issue, %s. Please try again in a moment.", c.hon())
}

// NotConfigured names the missing capability.
func (c *Collaborators) NotConfigured(what string) string {
	return fmt.Sprintf("The %s capability is not configured, %s.", what, c.hon())
}

// Handler processes one matched intent.
type Handler func(ctx context.Context, col *Collaborators, m *nlu.Match, sess *session.Session) ([]string, error)

// Table is the dispatch table.
type Table map[nlu.Intent]Handler

// NewTable registers every handler.
func NewTable() Table {
	t := Table{}

	t[nlu.IntentGreeting] = handleGreeting
	t[nlu.IntentMute] = handleMute
	t[nlu.IntentUnmute] = handleUnmute

	t[nlu.IntentSystemStatus] = handleSystemStatus
	t[nlu.IntentVersion] = handleVersion
	t[nlu.IntentIntroduce] = handleIntroduce
	t[nlu.IntentTime] = handleTime
	t[nlu.IntentDate] = handleDate
	t[nlu.IntentWeather] = handleWeather

	t[nlu.IntentPlayYouTube] = handlePlayYouTube
	t[nlu.IntentPlaySpotify] = handlePlaySpotify
	t[nlu.IntentOpenSite] = handleOpenSite
	t[nlu.IntentWebSearch] = handleWebSearch
	t[nlu.IntentNews] = handleNews

	t[nlu.IntentSendMessage] = handleSendMessage
	t[nlu.IntentSendAnother] = handleSendAnother

	t[nlu.IntentStoreNote] = handleStoreNote
	t[nlu.IntentSearchNotes] = handleSearchNotes
	t[nlu.IntentNoteCategories] = handleNoteCategories

	t[nlu.IntentAddTask] = handleAddTask
	t[nlu.IntentCompleteTask] = handleCompleteTask
	t[nlu.IntentListTasks] = handleListTasks
	t[nlu.IntentOverdueTasks] = handleOverdueTasks
	t[nlu.IntentDeleteTask] = handleDeleteTask

	t[nlu.IntentAddHabit] = handleAddHabit
	t[nlu.IntentRemoveHabit] = handleRemoveHabit
	t[nlu.IntentResetHabit] = handleResetHabit
	t[nlu.IntentMarkHabit] = handleMarkHabit
	t[nlu.IntentListHabits] = handleListHabits
	t[nlu.IntentPendingHabits] = handlePendingHabits

	t[nlu.IntentReviewSchedule] = handleReviewSchedule
	t[nlu.IntentAddSchedule] = handleAddSchedule
	t[nlu.IntentModifySchedule] = handleModifySchedule
	t[nlu.IntentClearSchedule] = handleClearSchedule

	t[nlu.IntentAppCommand] = handleAppCommand
	t[nlu.IntentCloseActive] = handleCloseActive

	t[nlu.IntentSelfRepair] = handleSelfRepair
	t[nlu.IntentDiagnostics] = handleDiagnostics
	t[nlu.IntentCreateBackup] = handleCreateBackup
	t[nlu.IntentBackupStatus] = handleBackupStatus

	t[nlu.IntentPromptsOn] = handlePromptsOn
	t[nlu.IntentPromptsOff] = handlePromptsOff
	t[nlu.IntentPromptCooldown] = handlePromptCooldown
	t[nlu.IntentListPrompts] = handleListPrompts

	t[nlu.IntentRecallConversations] = handleRecallConversations
	t[nlu.IntentRecallTopics] = handleRecallTopics
	t[nlu.IntentRememberTopic] = handleRememberTopic
	t[nlu.IntentSetFocus] = handleSetFocus
	t[nlu.IntentProgress] = handleProgress

	return t
}

// Dispatch runs the handler for a match. Failures never escape: panics and
// errors are logged and converted to spoken lines, and the session is rolled
// back so a failed handler leaves no partial mutation behind.
func (t Table) Dispatch(ctx context.Context, col *Collaborators, m *nlu.Match, sess *session.Session) (lines []string) {
	h, ok := t[m.Intent]
	if !ok {
		slog.Warn("no handler registered", "intent", m.Intent)
		return []string{col.Apology()}
	}

	snapshot := sess.Clone()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("handler panicked", "intent", m.Intent, "panic", r)
			sess.Restore(snapshot)
			lines = []string{col.Apology()}
		}
	}()

	lines, err := h(ctx, col, m, sess)
	if err != nil {
		sess.Restore(snapshot)
		switch {
		case errors.Is(err, brain.ErrNetwork):
			slog.Warn("handler network failure", "intent", m.Intent, "err", err)
			return []string{col.NetworkIssue()}
		case errors.Is(err, brain.ErrNotConfigured):
			slog.Warn("handler capability missing", "intent", m.Intent, "err", err)
			return []string{col.NotConfigured("requested")}
		default:
			slog.Error("handler failed", "intent", m.Intent, "err", err)
			return []string{col.Apology()}
		}
	}
	return lines
}
