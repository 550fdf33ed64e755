package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"taskmaster/internal/task"
)

var ErrMalformed = errors.New("malformed task blob")

// Encode serializes the collection as a JSON array in collection order.
func Encode(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return json.Marshal(tasks)
}

// Decode parses a blob written by Encode. The blob must hold exactly one JSON
// array, and any record Create could not have produced (missing or repeated
// id, untrimmed, empty or over-long text, unknown priority, completed without
// completedAt) makes the whole blob malformed.
func Decode(data []byte) ([]task.Task, error) {
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	seen := make(map[string]struct{}, len(tasks))
	for i, t := range tasks {
		text, err := task.NormalizeText(t.Text)
		switch {
		case t.ID == "":
			return nil, fmt.Errorf("%w: record %d has no id", ErrMalformed, i)
		case err != nil:
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, i, err)
		case text != t.Text:
			return nil, fmt.Errorf("%w: record %d has untrimmed text", ErrMalformed, i)
		case !t.Priority.Valid():
			return nil, fmt.Errorf("%w: record %d has priority %q", ErrMalformed, i, t.Priority)
		case t.Completed && t.CompletedAt == nil:
			return nil, fmt.Errorf("%w: record %d is completed without completedAt", ErrMalformed, i)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrMalformed, t.ID)
		}
		seen[t.ID] = struct{}{}
		if !t.Completed {
			tasks[i].CompletedAt = nil
		}
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// Adapter moves the task collection in and out of a Blob.
type Adapter struct {
	blob Blob
	log  *zap.Logger
}

func NewAdapter(b Blob, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{blob: b, log: log}
}

// Load hydrates the collection. A missing blob yields an empty collection.
// A backend failure or malformed blob also yields an empty collection, along
// with a *task.PersistenceError for the caller to surface.
func (a *Adapter) Load() ([]task.Task, error) {
	data, err := a.blob.Load()
	if err != nil {
		a.log.Error("load task blob", zap.Error(err))
		return []task.Task{}, &task.PersistenceError{Op: "load", Err: err}
	}
	if data == nil {
		a.log.Info("no saved tasks, starting empty")
		return []task.Task{}, nil
	}
	tasks, err := Decode(data)
	if err != nil {
		a.log.Error("decode task blob", zap.Error(err), zap.Int("bytes", len(data)))
		return []task.Task{}, &task.PersistenceError{Op: "load", Err: err}
	}
	a.log.Info("loaded tasks", zap.Int("count", len(tasks)))
	return tasks, nil
}

// Save implements task.Saver.
func (a *Adapter) Save(tasks []task.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		a.log.Error("encode tasks", zap.Error(err))
		return fmt.Errorf("encode: %w", err)
	}
	if err := a.blob.Save(data); err != nil {
		a.log.Error("save task blob", zap.Error(err))
		return err
	}
	a.log.Debug("saved tasks", zap.Int("count", len(tasks)), zap.Int("bytes", len(data)))
	return nil
}
