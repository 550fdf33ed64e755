package task

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTextLength is the longest task text accepted, counted in runes after trimming.
const MaxTextLength = 150

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Next returns the following priority, wrapping from high back to low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// NormalizeText trims text and checks it against the length bounds.
func NormalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", &ValidationError{Input: text, Err: ErrEmptyText}
	}
	if utf8.RuneCountInString(trimmed) > MaxTextLength {
		return "", &ValidationError{Input: text, Err: ErrTextTooLong}
	}
	return trimmed, nil
}

func normalizePriority(p Priority) (Priority, error) {
	if p == "" {
		return PriorityMedium, nil
	}
	p = Priority(strings.ToLower(strings.TrimSpace(string(p))))
	if !p.Valid() {
		return "", &ValidationError{Input: string(p), Err: ErrInvalidPriority}
	}
	return p, nil
}

func (t *Task) setCompleted(done bool, now time.Time) {
	t.Completed = done
	if done {
		stamp := now
		t.CompletedAt = &stamp
		return
	}
	t.CompletedAt = nil
}

func (t Task) clone() Task {
	if t.CompletedAt != nil {
		stamp := *t.CompletedAt
		t.CompletedAt = &stamp
	}
	return t
}
