// Package game holds the riddle state machine and per-user progress model.
//
// A User owns a Task record per riddle; the task accumulates attempts and
// distinct guesses, and is marked completed exactly once. Mutation goes
// through the Machine so the counting rules stay in one place.
package game

import "time"

// Language selects the reply locale for a user.
type Language string

const (
	LangPolish  Language = "pl"
	LangEnglish Language = "en"
)

// ParseLanguage maps free-form input to a supported locale,
// defaulting to Polish.
func ParseLanguage(s string) Language {
	switch s {
	case string(LangEnglish), "english", "angielski":
		return LangEnglish
	default:
		return LangPolish
	}
}

// Toggle flips between the two supported locales.
func (l Language) Toggle() Language {
	if l == LangEnglish {
		return LangPolish
	}
	return LangEnglish
}

// Task tracks one user's progress on a single riddle.
type Task struct {
	ID          string     `json:"id"`
	Attempts    int        `json:"attempts"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Guesses     []string   `json:"guesses,omitempty"`
}

// Completed reports whether the task has been solved.
func (t *Task) Completed() bool {
	return t != nil && t.CompletedAt != nil
}

// MergeGuesses appends handles not already recorded, preserving order.
func (t *Task) MergeGuesses(handles []string) {
	for _, h := range handles {
		if h == "" {
			continue
		}
		seen := false
		for _, g := range t.Guesses {
			if g == h {
				seen = true
				break
			}
		}
		if !seen {
			t.Guesses = append(t.Guesses, h)
		}
	}
}

// User is the persisted game record for one workspace member.
type User struct {
	SlackID    string    `json:"slack_id"`
	Username   string    `json:"username"`
	Language   Language  `json:"language"`
	Suspicious bool      `json:"suspicious,omitempty"`
	Tasks      []*Task   `json:"tasks"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewUser builds a fresh record with no task progress.
func NewUser(slackID, username string, lang Language) *User {
	return &User{
		SlackID:   slackID,
		Username:  username,
		Language:  lang,
		CreatedAt: time.Now().UTC(),
	}
}

// Task returns the record for id, or nil.
func (u *User) Task(id string) *Task {
	for _, t := range u.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// EnsureTask returns the record for id, creating it on first use.
func (u *User) EnsureTask(id string) *Task {
	if t := u.Task(id); t != nil {
		return t
	}
	t := &Task{ID: id}
	u.Tasks = append(u.Tasks, t)
	return t
}
