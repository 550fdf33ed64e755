// Package app routes user intents to the task store and reports the results
// back to a presenter as renders, notifications and confirmation prompts.
package app

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taskmaster/internal/task"
	"taskmaster/internal/view"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Presenter is the presentation layer as seen from the controller.
//
// Confirm must not block: the presenter shows message and dispatches onYes
// itself if the user agrees.
type Presenter interface {
	Render(Snapshot)
	Notify(message string, sev Severity)
	Confirm(message string, onYes Intent)
}

// State is the transient, unpersisted UI state.
type State struct {
	Filter view.Filter
	Search string
}

// Snapshot is everything needed to draw the list after a state change.
type Snapshot struct {
	Tasks   []task.Task
	Summary string
	Counts  view.Counts
	State
}

const (
	msgAdded          = "Task added successfully!"
	msgEnterTask      = "Please enter a task!"
	msgTooLong        = "Task is too long! Keep it under 150 characters."
	msgEditEmpty      = "Task cannot be empty!"
	msgBadPriority    = "Unknown priority!"
	msgUpdated        = "Task updated!"
	msgDeleted        = "Task deleted"
	msgNotFound       = "That task no longer exists"
	msgNothingToClear = "No completed tasks to clear"
	msgSaveFailed     = "Failed to save tasks"
	msgLoadFailed     = "Failed to load saved tasks"
)

type Controller struct {
	store *task.Store
	p     Presenter
	state State
	log   *zap.Logger
}

func NewController(store *task.Store, p Presenter, st State, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if st.Filter == "" {
		st.Filter = view.FilterAll
	}
	return &Controller{store: store, p: p, state: st, log: log}
}

func (c *Controller) State() State {
	return c.state
}

// Snapshot derives the current view without notifying the presenter.
func (c *Controller) Snapshot() Snapshot {
	tasks := c.store.Tasks()
	return Snapshot{
		Tasks:   view.FilteredView(tasks, c.state.Filter, c.state.Search),
		Summary: view.Summary(tasks, c.state.Filter),
		Counts:  view.Count(tasks),
		State:   c.state,
	}
}

// Start renders the initial view and reports a failed startup load, if any.
func (c *Controller) Start(loadErr error) {
	if loadErr != nil {
		c.log.Warn("starting with empty task list", zap.Error(loadErr))
		c.p.Notify(msgLoadFailed, SeverityError)
	}
	c.p.Render(c.Snapshot())
}

// Dispatch applies one intent, re-renders, and returns the error that was
// surfaced to the user, if any.
func (c *Controller) Dispatch(in Intent) error {
	err := c.apply(in)
	if err != nil {
		c.log.Warn("intent failed", zap.String("intent", fmt.Sprintf("%T", in)), zap.Error(err))
	}
	c.p.Render(c.Snapshot())
	return err
}

func (c *Controller) apply(in Intent) error {
	switch in := in.(type) {
	case Create:
		t, err := c.store.Create(in.Text, in.Priority)
		if err != nil {
			return c.fail(err)
		}
		c.log.Info("task created", zap.String("id", t.ID), zap.String("priority", string(t.Priority)))
		c.p.Notify(msgAdded, SeveritySuccess)
	case Toggle:
		t, err := c.store.Toggle(in.ID)
		if err != nil {
			return c.fail(err)
		}
		c.log.Debug("task toggled", zap.String("id", t.ID), zap.Bool("completed", t.Completed))
	case RequestRemove:
		t, err := c.store.Get(in.ID)
		if err != nil {
			return c.fail(err)
		}
		c.p.Confirm(fmt.Sprintf("Are you sure you want to delete \"%s\"?", t.Text), CommitRemove{ID: t.ID})
	case CommitRemove:
		if err := c.store.Remove(in.ID); err != nil {
			return c.fail(err)
		}
		c.log.Info("task removed", zap.String("id", in.ID))
		c.p.Notify(msgDeleted, SeverityInfo)
	case Edit:
		if _, err := c.store.Edit(in.ID, in.Text); err != nil {
			if errors.Is(err, task.ErrEmptyText) {
				c.p.Notify(msgEditEmpty, SeverityError)
				return err
			}
			return c.fail(err)
		}
		c.log.Debug("task edited", zap.String("id", in.ID))
		c.p.Notify(msgUpdated, SeveritySuccess)
	case ClearCompleted:
		n := view.Count(c.store.Tasks()).Completed
		if n == 0 {
			c.p.Notify(msgNothingToClear, SeverityInfo)
			return nil
		}
		c.p.Confirm(fmt.Sprintf("Delete %d completed %s?", n, view.Plural(n, "task")), CommitClearCompleted{})
	case CommitClearCompleted:
		n, err := c.store.ClearCompleted()
		if err != nil {
			return c.fail(err)
		}
		if n == 0 {
			c.p.Notify(msgNothingToClear, SeverityInfo)
			return nil
		}
		c.log.Info("cleared completed tasks", zap.Int("count", n))
		c.p.Notify(fmt.Sprintf("Cleared %d completed %s", n, view.Plural(n, "task")), SeveritySuccess)
	case SetFilter:
		f, err := view.ParseFilter(string(in.Filter))
		if err != nil {
			return c.fail(err)
		}
		c.state.Filter = f
	case SetSearch:
		c.state.Search = strings.TrimSpace(in.Term)
	default:
		return fmt.Errorf("unsupported intent %T", in)
	}
	return nil
}

// fail maps a store error to exactly one notification.
func (c *Controller) fail(err error) error {
	var (
		verr *task.ValidationError
		perr *task.PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		c.p.Notify(validationMessage(verr), SeverityError)
	case errors.Is(err, task.ErrNotFound):
		c.p.Notify(msgNotFound, SeverityError)
	case errors.As(err, &perr):
		c.log.Error("persist tasks", zap.Error(err))
		c.p.Notify(msgSaveFailed, SeverityError)
	default:
		c.p.Notify(err.Error(), SeverityError)
	}
	return err
}

func validationMessage(err *task.ValidationError) string {
	switch {
	case errors.Is(err, task.ErrTextTooLong):
		return msgTooLong
	case errors.Is(err, task.ErrInvalidPriority):
		return msgBadPriority
	case errors.Is(err, task.ErrEmptyText):
		return msgEnterTask
	}
	return err.Error()
}
