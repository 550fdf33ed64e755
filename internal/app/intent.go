package app

import (
	"taskmaster/internal/task"
	"taskmaster/internal/view"
)

// Intent is a user request routed to the task store. The set is closed.
type Intent interface {
	intent()
}

type Create struct {
	Text     string
	Priority task.Priority
}

type Toggle struct {
	ID string
}

// RequestRemove asks for confirmation before a task is deleted.
type RequestRemove struct {
	ID string
}

// CommitRemove deletes the task. The UI sends it once the user confirmed and
// any removal animation has finished.
type CommitRemove struct {
	ID string
}

type Edit struct {
	ID   string
	Text string
}

// ClearCompleted asks for confirmation before bulk removal.
type ClearCompleted struct{}

type CommitClearCompleted struct{}

type SetFilter struct {
	Filter view.Filter
}

type SetSearch struct {
	Term string
}

func (Create) intent()               {}
func (Toggle) intent()               {}
func (RequestRemove) intent()        {}
func (CommitRemove) intent()         {}
func (Edit) intent()                 {}
func (ClearCompleted) intent()       {}
func (CommitClearCompleted) intent() {}
func (SetFilter) intent()            {}
func (SetSearch) intent()            {}
