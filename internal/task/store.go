package task

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Saver persists the full collection after every mutation.
type Saver interface {
	Save(tasks []Task) error
}

type Option func(*Store)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the uuid generator for new task ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// Store owns the ordered task collection, newest first.
//
// Mutations persist synchronously through the Saver. A failed save is
// returned as *PersistenceError alongside the normal result and the
// in-memory change is kept.
type Store struct {
	mu    sync.Mutex
	tasks []Task
	saver Saver
	now   func() time.Time
	newID func() string
}

func NewStore(initial []Task, saver Saver, opts ...Option) *Store {
	s := &Store{
		tasks: make([]Task, 0, len(initial)),
		saver: saver,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, t := range initial {
		s.tasks = append(s.tasks, t.clone())
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tasks returns a copy of the collection in display order.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) Get(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	return s.tasks[i].clone(), nil
}

func (s *Store) Create(text string, priority Priority) (Task, error) {
	trimmed, err := NormalizeText(text)
	if err != nil {
		return Task{}, err
	}
	p, err := normalizePriority(priority)
	if err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{
		ID:        s.uniqueID(),
		Text:      trimmed,
		Priority:  p,
		CreatedAt: s.now(),
	}
	s.tasks = append([]Task{t}, s.tasks...)
	return t.clone(), s.persist()
}

func (s *Store) Toggle(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	s.tasks[i].setCompleted(!s.tasks[i].Completed, s.now())
	return s.tasks[i].clone(), s.persist()
}

// Remove deletes the task unconditionally; confirming is the caller's job.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return s.persist()
}

func (s *Store) Edit(id, text string) (Task, error) {
	trimmed, err := NormalizeText(text)
	if err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	s.tasks[i].Text = trimmed
	return s.tasks[i].clone(), s.persist()
}

// ClearCompleted removes every completed task and reports how many went.
// Nothing is saved when there was nothing to remove.
func (s *Store) ClearCompleted() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	s.tasks = kept
	return removed, s.persist()
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// maxIDAttempts bounds retries against an injected generator that keeps
// returning empty or taken ids.
const maxIDAttempts = 8

func (s *Store) uniqueID() string {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
	for {
		if id := uuid.NewString(); s.indexOf(id) < 0 {
			return id
		}
	}
}

func (s *Store) snapshot() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.clone()
	}
	return out
}

func (s *Store) persist() error {
	if s.saver == nil {
		return nil
	}
	if err := s.saver.Save(s.snapshot()); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}
