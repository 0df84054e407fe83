// Package store persists assistant data as a single JSON document keyed by
// domain. Every mutation reloads and rewrites the whole document; there are no
// partial updates and last writer wins. One process instance is assumed.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// ConversationCap bounds the persisted conversation log.
const ConversationCap = 100

// Task is a tracked to-do item.
type Task struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Deadline    string `json:"deadline,omitempty"`
	Category    string `json:"category,omitempty"`
	CreatedAt   string `json:"created_at"`
	Completed   bool   `json:"completed"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// Habit is a streak-tracked daily habit.
type Habit struct {
	Name      string `json:"name"`
	Streak    int    `json:"streak"`
	LastDone  string `json:"last_done,omitempty"`
	CreatedAt string `json:"created_at"`
}

// Note is a stored piece of dictated information.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
}

// DaySchedule is the plan list for one date.
type DaySchedule struct {
	DayName   string   `json:"day_name"`
	Plans     []string `json:"plans"`
	CreatedAt string   `json:"created_at"`
	Reviewed  bool     `json:"reviewed"`
}

// ConversationEntry is one logged user/assistant exchange.
type ConversationEntry struct {
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// MemoryContext is the long-lived conversational memory.
type MemoryContext struct {
	UserTopics     []string `json:"user_topics"`
	DailyFocus     string   `json:"daily_focus,omitempty"`
	LastDiscussion string   `json:"last_discussion,omitempty"`
	LastActiveTime string   `json:"last_active_time,omitempty"`
}

// Personality tracks interaction statistics used to vary responses.
type Personality struct {
	Interactions int    `json:"interactions"`
	LastUpdated  string `json:"last_updated,omitempty"`
}

// Document is the whole persisted state.
type Document struct {
	Tasks         []Task                 `json:"tasks"`
	Habits        []Habit                `json:"habits"`
	Notes         []Note                 `json:"notes"`
	Schedule      map[string]DaySchedule `json:"schedule"`
	Conversations []ConversationEntry    `json:"conversations"`
	Memory        MemoryContext          `json:"memory_context"`
	Personality   Personality            `json:"personality_profile"`
}

// Store reads and writes the document file.
type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the document. A missing or corrupt file yields an empty document
// rather than an error, matching the reference behavior of starting fresh.
func (s *Store) Load() (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*Document, error) {
	doc := &Document{Schedule: map[string]DaySchedule{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return &Document{Schedule: map[string]DaySchedule{}}, nil
	}
	if doc.Schedule == nil {
		doc.Schedule = map[string]DaySchedule{}
	}
	return doc, nil
}

// Save rewrites the whole document.
func (s *Store) Save(doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(doc)
}

func (s *Store) save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	return nil
}

// Update runs fn on a freshly loaded document and rewrites it when fn returns
// nil. This is the reload-then-rewrite contract every mutating handler uses.
func (s *Store) Update(fn func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if n := len(doc.Conversations); n > ConversationCap {
		doc.Conversations = doc.Conversations[n-ConversationCap:]
	}
	return s.save(doc)
}
