// Package view derives what the task list shows from the current collection.
// Everything here is pure and recomputed on every render.
package view

import (
	"fmt"
	"strings"
	"time"

	"taskmaster/internal/task"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// ParseFilter accepts a filter name case-insensitively; empty means all.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q", s)
}

func (f Filter) keep(t task.Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// FilteredView narrows tasks by search term, then by filter, keeping order.
func FilteredView(tasks []task.Task, f Filter, search string) []task.Task {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if term != "" && !strings.Contains(strings.ToLower(t.Text), term) {
			continue
		}
		if f.keep(t) {
			out = append(out, t)
		}
	}
	return out
}

type Counts struct {
	Total     int
	Active    int
	Completed int
}

func Count(tasks []task.Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		}
	}
	c.Active = c.Total - c.Completed
	return c
}

// Summary describes the whole collection, phrased for the active filter.
func Summary(tasks []task.Task, f Filter) string {
	c := Count(tasks)
	if c.Total == 0 {
		return "0 tasks"
	}
	switch f {
	case FilterActive:
		return fmt.Sprintf("%d active %s", c.Active, Plural(c.Active, "task"))
	case FilterCompleted:
		return fmt.Sprintf("%d completed %s", c.Completed, Plural(c.Completed, "task"))
	default:
		return fmt.Sprintf("%d %s (%d active)", c.Total, Plural(c.Total, "task"), c.Active)
	}
}

// Plural appends "s" to noun unless n is exactly one.
func Plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}

func RelativeAge(ts, now time.Time) string {
	minutes := int(now.Sub(ts) / time.Minute)
	if minutes < 1 {
		return "just now"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	return fmt.Sprintf("%dd ago", hours/24)
}
