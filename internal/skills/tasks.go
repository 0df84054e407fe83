package skills

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/nlu"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/store"
)

func handleAddTask(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	desc := strings.TrimSpace(m.Param("task"))
	if desc == "" {
		return []string{fmt.Sprintf("What task should I add, %s?", col.hon())}, nil
	}
	priority := m.Param("priority")
	if priority == "" {
		priority = "medium"
	}

	now := col.now()
	task := store.Task{
		ID:          fmt.Sprintf("task-%d", now.UnixNano()),
		Description: desc,
		Priority:    priority,
		CreatedAt:   now.Format(time.RFC3339),
	}
	err := col.Store.Update(func(doc *store.Document) error {
		doc.Tasks = append(doc.Tasks, task)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	return []string{fmt.Sprintf("Task added with %s priority, %s.", priority, col.hon())}, nil
}

// matchTask finds the first pending task whose description contains the spoken
// fragment, case-insensitively.
func matchTask(tasks []store.Task, fragment string) int {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	if fragment == "" {
		return -1
	}
	for i, t := range tasks {
		if t.Completed {
			continue
		}
		if strings.Contains(strings.ToLower(t.Description), fragment) {
			return i
		}
	}
	return -1
}

func handleCompleteTask(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	fragment := m.Param("task")
	var completed string
	err := col.Store.Update(func(doc *store.Document) error {
		i := matchTask(doc.Tasks, fragment)
		if i < 0 {
			return nil
		}
		doc.Tasks[i].Completed = true
		doc.Tasks[i].CompletedAt = col.now().Format(time.RFC3339)
		completed = doc.Tasks[i].Description
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	if completed == "" {
		return []string{fmt.Sprintf("I couldn't find a pending task matching that, %s.", col.hon())}, nil
	}
	return []string{fmt.Sprintf("Well done, %s. I've marked %q as complete.", col.hon(), completed)}, nil
}

func handleListTasks(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	doc, err := col.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	var pending []store.Task
	for _, t := range doc.Tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return []string{fmt.Sprintf("Your task list is clear, %s.", col.hon())}, nil
	}

	lines := []string{fmt.Sprintf("You have %d pending tasks, %s.", len(pending), col.hon())}
	for _, t := range pending {
		lines = append(lines, fmt.Sprintf("%s, %s priority.", t.Description, t.Priority))
	}
	return lines, nil
}

func handleOverdueTasks(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	doc, err := col.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("overdue tasks: %w", err)
	}

	now := col.now()
	var overdue []store.Task
	for _, t := range doc.Tasks {
		if t.Completed || t.Deadline == "" {
			continue
		}
		dl, err := time.Parse(time.RFC3339, t.Deadline)
		if err != nil {
			continue
		}
		if dl.Before(now) {
			overdue = append(overdue, t)
		}
	}
	if len(overdue) == 0 {
		return []string{fmt.Sprintf("Nothing is overdue, %s. Impeccable timing as always.", col.hon())}, nil
	}

	lines := []string{fmt.Sprintf("There are %d overdue tasks, %s.", len(overdue), col.hon())}
	for _, t := range overdue {
		lines = append(lines, t.Description+".")
	}
	return lines, nil
}

func handleDeleteTask(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	fragment := m.Param("task")
	var deleted string
	err := col.Store.Update(func(doc *store.Document) error {
		i := matchTask(doc.Tasks, fragment)
		if i < 0 {
			return nil
		}
		deleted = doc.Tasks[i].Description
		doc.Tasks = append(doc.Tasks[:i], doc.Tasks[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	if deleted == "" {
		return []string{fmt.Sprintf("I couldn't find a task matching that, %s.", col.hon())}, nil
	}
	return []string{fmt.Sprintf("Task %q removed, %s.", deleted, col.hon())}, nil
}
