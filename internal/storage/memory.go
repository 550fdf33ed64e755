package storage

import "sync"

// Memory is an in-process Blob. LoadErr and SaveErr, when set, are returned
// instead of touching the stored bytes.
type Memory struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	LoadErr error
	SaveErr error
}

func NewMemory(initial []byte) *Memory {
	m := &Memory{}
	if initial != nil {
		m.data = append([]byte(nil), initial...)
	}
	return m
}

func (m *Memory) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *Memory) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

// Saves reports how many successful saves have happened.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
